package service_test

import (
	"context"
	"time"

	"pedidos-service/internal/model"
	"pedidos-service/internal/repository"
)

// Fakes en memoria con la misma semántica condicional que los repos de Mongo.

type fakeOrderRepo struct {
	orders map[string]*model.Order
}

func newFakeOrderRepo() *fakeOrderRepo {
	return &fakeOrderRepo{orders: make(map[string]*model.Order)}
}

func (f *fakeOrderRepo) Save(_ context.Context, o *model.Order) error {
	now := time.Now().UTC()
	if o.CreatedAt.IsZero() {
		o.CreatedAt = now
	}
	o.UpdatedAt = now
	if o.StatusHistory == nil {
		o.StatusHistory = map[string]time.Time{o.Status.HistoryKey(): now}
	}
	f.orders[o.ID] = o
	return nil
}

func (f *fakeOrderRepo) FindByID(_ context.Context, orderID string) (*model.Order, error) {
	o, ok := f.orders[orderID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := *o
	return &cp, nil
}

func (f *fakeOrderRepo) UpdateStatus(_ context.Context, orderID string, from, to model.Status, at time.Time) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Status != from {
		return repository.ErrConflict
	}
	o.Status = to
	if o.StatusHistory == nil {
		o.StatusHistory = make(map[string]time.Time)
	}
	o.StatusHistory[to.HistoryKey()] = at
	o.UpdatedAt = at
	return nil
}

func (f *fakeOrderRepo) AssignCourier(_ context.Context, orderID, courierID string, cost float64) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	if o.Delivery.AssignedDelivery != nil {
		return repository.ErrConflict
	}
	o.Delivery.AssignedDelivery = &courierID
	o.Delivery.DeliveryCost = cost
	o.Total = o.Subtotal + cost
	return nil
}

func (f *fakeOrderRepo) AssignCourierManual(_ context.Context, orderID, courierID string) error {
	o, ok := f.orders[orderID]
	if !ok {
		return repository.ErrNotFound
	}
	o.Delivery.AssignedDelivery = &courierID
	o.Delivery.AssignedManually = true
	return nil
}

func (f *fakeOrderRepo) FindByBusiness(_ context.Context, businessID string) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.BusinessID == businessID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindByBusinessAndStatus(_ context.Context, businessID string, status model.Status) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.BusinessID == businessID && o.Status == status {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindUnassigned(_ context.Context, businessID string) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.BusinessID == businessID &&
			o.Delivery.Type == model.DeliveryTypeDelivery &&
			o.Delivery.AssignedDelivery == nil &&
			!o.Status.IsFinal() {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) FindScheduledDue(_ context.Context, before time.Time) ([]*model.Order, error) {
	var out []*model.Order
	for _, o := range f.orders {
		if o.Timing.Type == model.TimingScheduled &&
			o.Timing.ScheduledFor != nil &&
			!o.Timing.ScheduledFor.After(before) &&
			o.Status == model.StatusPending {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeOrderRepo) SummaryByStatus(_ context.Context, _ string) ([]repository.StatusCount, error) {
	return nil, nil
}

func (f *fakeOrderRepo) AvgDeliveryTime(_ context.Context, _ string) (*repository.DeliveryTimeReport, error) {
	return &repository.DeliveryTimeReport{}, nil
}

func (f *fakeOrderRepo) WatchOrder(_ context.Context, _ string) (<-chan *model.Order, error) {
	ch := make(chan *model.Order)
	close(ch)
	return ch, nil
}

type fakeZoneRepo struct {
	zones []*model.CoverageZone
}

func (f *fakeZoneRepo) Save(_ context.Context, z *model.CoverageZone) error {
	for i, existing := range f.zones {
		if existing.ID == z.ID {
			f.zones[i] = z
			return nil
		}
	}
	f.zones = append(f.zones, z)
	return nil
}

func (f *fakeZoneRepo) Update(_ context.Context, z *model.CoverageZone, resetCursor bool) error {
	for _, existing := range f.zones {
		if existing.ID == z.ID {
			existing.Name = z.Name
			existing.Polygon = z.Polygon
			existing.DeliveryFee = z.DeliveryFee
			existing.AssignedDeliveryIDs = z.AssignedDeliveryIDs
			existing.DeliveryAssignmentStrategy = z.DeliveryAssignmentStrategy
			existing.IsActive = z.IsActive
			if resetCursor {
				existing.LastAssignedIndex = 0
			}
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeZoneRepo) FindByID(_ context.Context, zoneID string) (*model.CoverageZone, error) {
	for _, z := range f.zones {
		if z.ID == zoneID {
			cp := *z
			return &cp, nil
		}
	}
	return nil, repository.ErrNotFound
}

func (f *fakeZoneRepo) FindByBusiness(_ context.Context, businessID string) ([]*model.CoverageZone, error) {
	var out []*model.CoverageZone
	for _, z := range f.zones {
		if z.BusinessID == businessID {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeZoneRepo) FindActiveByBusiness(_ context.Context, businessID string) ([]*model.CoverageZone, error) {
	var out []*model.CoverageZone
	for _, z := range f.zones {
		if z.BusinessID == businessID && z.IsActive {
			out = append(out, z)
		}
	}
	return out, nil
}

func (f *fakeZoneRepo) Delete(_ context.Context, zoneID string) error {
	for i, z := range f.zones {
		if z.ID == zoneID {
			f.zones = append(f.zones[:i], f.zones[i+1:]...)
			return nil
		}
	}
	return repository.ErrNotFound
}

func (f *fakeZoneRepo) AdvanceCursor(_ context.Context, zoneID string, expected, next int) error {
	for _, z := range f.zones {
		if z.ID == zoneID {
			if z.LastAssignedIndex != expected {
				return repository.ErrConflict
			}
			z.LastAssignedIndex = next
			return nil
		}
	}
	return repository.ErrNotFound
}

// contendedZoneRepo simula otro pedido ganando la carrera del cursor: en los
// primeros `steals` intentos el cursor avanza igual pero el update condicional
// del que llama no matchea.
type contendedZoneRepo struct {
	*fakeZoneRepo
	steals int
}

func (f *contendedZoneRepo) AdvanceCursor(ctx context.Context, zoneID string, expected, next int) error {
	if f.steals > 0 {
		f.steals--
		if err := f.fakeZoneRepo.AdvanceCursor(ctx, zoneID, expected, next); err != nil {
			return err
		}
		return repository.ErrConflict
	}
	return f.fakeZoneRepo.AdvanceCursor(ctx, zoneID, expected, next)
}

// racingZoneRepo ejecuta afterRead entre la lectura de la zona y el write
// que venga después, para intercalar escrituras concurrentes.
type racingZoneRepo struct {
	*fakeZoneRepo
	afterRead func()
}

func (f *racingZoneRepo) FindByID(ctx context.Context, zoneID string) (*model.CoverageZone, error) {
	z, err := f.fakeZoneRepo.FindByID(ctx, zoneID)
	if f.afterRead != nil {
		f.afterRead()
	}
	return z, err
}

type fakeOutboxRepo struct {
	events []*model.OutboxEvent
}

func (f *fakeOutboxRepo) Insert(_ context.Context, e *model.OutboxEvent) error {
	e.EventStatus = model.EventStatusPending
	e.CreatedAt = time.Now().UTC()
	f.events = append(f.events, e)
	return nil
}

type fakeCourierRepo struct {
	couriers map[string]*model.Courier
}

func newFakeCourierRepo() *fakeCourierRepo {
	return &fakeCourierRepo{couriers: make(map[string]*model.Courier)}
}

func (f *fakeCourierRepo) Save(_ context.Context, c *model.Courier) error {
	f.couriers[c.ID] = c
	return nil
}

func (f *fakeCourierRepo) FindByID(_ context.Context, courierID string) (*model.Courier, error) {
	c, ok := f.couriers[courierID]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return c, nil
}

func (f *fakeCourierRepo) FindAll(_ context.Context) ([]*model.Courier, error) {
	var out []*model.Courier
	for _, c := range f.couriers {
		out = append(out, c)
	}
	return out, nil
}

func (f *fakeCourierRepo) SetEstado(_ context.Context, courierID, estado string) error {
	c, ok := f.couriers[courierID]
	if !ok {
		return repository.ErrNotFound
	}
	c.Estado = estado
	return nil
}
