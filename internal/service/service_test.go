package service_test

import (
	"context"
	"testing"
	"time"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/geo"
	"pedidos-service/internal/model"
	"pedidos-service/internal/repository"
	"pedidos-service/internal/service"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type env struct {
	orders   *fakeOrderRepo
	zones    *fakeZoneRepo
	outbox   *fakeOutboxRepo
	couriers *fakeCourierRepo
	svc      *service.OrderService
	resolver *service.AssignmentResolver
}

func newEnv() *env {
	orders := newFakeOrderRepo()
	zones := &fakeZoneRepo{}
	outbox := &fakeOutboxRepo{}
	couriers := newFakeCourierRepo()

	resolver := service.NewAssignmentResolver(orders, zones)
	svc := service.NewOrderService(orders, outbox, couriers, resolver)

	return &env{orders: orders, zones: zones, outbox: outbox, couriers: couriers, svc: svc, resolver: resolver}
}

func squareZone(id, businessID string, fee float64, couriers []string, strategy string) *model.CoverageZone {
	return &model.CoverageZone{
		ID:         id,
		BusinessID: businessID,
		Name:       "Centro",
		Polygon: geo.Polygon{
			{Lat: 0, Lng: 0},
			{Lat: 0, Lng: 10},
			{Lat: 10, Lng: 10},
			{Lat: 10, Lng: 0},
		},
		DeliveryFee:                fee,
		AssignedDeliveryIDs:        couriers,
		DeliveryAssignmentStrategy: strategy,
		IsActive:                   true,
	}
}

func checkoutRequest() dto.CreateOrderRequest {
	return dto.CreateOrderRequest{
		Customer: dto.CustomerDTO{Name: "Ana", Phone: "2615550000", Email: "ana@example.com"},
		Delivery: dto.DeliveryDTO{
			Type:        model.DeliveryTypeDelivery,
			Destination: &geo.Point{Lat: 5, Lng: 5},
			Reference:   "portón negro",
		},
		Payment: dto.PaymentDTO{Method: model.PaymentMethodCash, CashAmount: 11.5},
		Items: []dto.OrderItemDTO{
			{ProductID: "p1", Name: "Pizza muzzarella", Quantity: 2, UnitPrice: 3.5},
			{ProductID: "p2", Name: "Empanada", Variant: "carne", Quantity: 3, UnitPrice: 1.0},
		},
	}
}

func TestOrderService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("calcula subtotal y total con el costo de la zona", func(t *testing.T) {
		e := newEnv()
		e.zones.Save(ctx, squareZone("z1", "b1", 1.5, []string{"d1"}, model.StrategySingle))

		o, err := e.svc.CreateOrder(ctx, "b1", checkoutRequest())
		require.NoError(t, err)

		assert.InDelta(t, 10.0, o.Subtotal, 1e-9)
		assert.InDelta(t, 1.5, o.Delivery.DeliveryCost, 1e-9)
		assert.InDelta(t, 11.5, o.Total, 1e-9)
	})

	t.Run("nace pending con la clave pendingAt en el historial", func(t *testing.T) {
		e := newEnv()

		o, err := e.svc.CreateOrder(ctx, "b1", checkoutRequest())
		require.NoError(t, err)

		assert.Equal(t, model.StatusPending, o.Status)
		assert.Contains(t, o.StatusHistory, "pendingAt")
		assert.Len(t, o.StatusHistory, 1)
	})

	t.Run("fuera de cobertura nace con costo 0", func(t *testing.T) {
		e := newEnv()

		req := checkoutRequest()
		req.Delivery.Destination = &geo.Point{Lat: 50, Lng: 50}
		o, err := e.svc.CreateOrder(ctx, "b1", req)
		require.NoError(t, err)

		assert.Zero(t, o.Delivery.DeliveryCost)
		assert.InDelta(t, o.Subtotal, o.Total, 1e-9)
	})

	t.Run("rechaza pedidos sin items", func(t *testing.T) {
		e := newEnv()

		req := checkoutRequest()
		req.Items = nil
		_, err := e.svc.CreateOrder(ctx, "b1", req)
		assert.ErrorIs(t, err, service.ErrEmptyOrder)
	})

	t.Run("rechaza delivery sin destino", func(t *testing.T) {
		e := newEnv()

		req := checkoutRequest()
		req.Delivery.Destination = nil
		_, err := e.svc.CreateOrder(ctx, "b1", req)
		assert.ErrorIs(t, err, service.ErrMissingDestino)
	})
}

func TestOrderService_SetStatus(t *testing.T) {
	ctx := context.Background()

	create := func(t *testing.T, e *env) *model.Order {
		t.Helper()
		o, err := e.svc.CreateOrder(ctx, "b1", checkoutRequest())
		require.NoError(t, err)
		return o
	}

	t.Run("transición legal escribe estado e historial juntos", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusConfirmed))

		got, err := e.svc.GetByID(ctx, o.ID)
		require.NoError(t, err)
		assert.Equal(t, model.StatusConfirmed, got.Status)
		assert.Contains(t, got.StatusHistory, "confirmedAt")
	})

	t.Run("cada transición registra un evento en el outbox", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusConfirmed))
		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusPreparing))

		require.Len(t, e.outbox.events, 2)
		assert.Equal(t, model.EventTypeStatusChanged, e.outbox.events[0].Type)
		assert.Equal(t, model.StatusConfirmed, e.outbox.events[0].Status)
		assert.Equal(t, model.StatusPreparing, e.outbox.events[1].Status)
		assert.Equal(t, o.ID, e.outbox.events[0].OrderID)
	})

	t.Run("mismo estado es un no-op sin evento", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusPending))
		assert.Empty(t, e.outbox.events)
	})

	t.Run("historial con timestamps no decrecientes en la secuencia completa", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		for _, s := range model.StatusSequence[1:] {
			require.NoError(t, e.svc.SetStatus(ctx, o.ID, s))
		}

		got, err := e.svc.GetByID(ctx, o.ID)
		require.NoError(t, err)
		require.Len(t, got.StatusHistory, len(model.StatusSequence))

		var prev time.Time
		for _, s := range model.StatusSequence {
			at, ok := got.StatusHistory[s.HistoryKey()]
			require.True(t, ok, "falta %s", s.HistoryKey())
			assert.False(t, at.Before(prev), "%s retrocede en el tiempo", s.HistoryKey())
			prev = at
		}
	})

	t.Run("rechaza retrocesos", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusPreparing))
		err := e.svc.SetStatus(ctx, o.ID, model.StatusConfirmed)
		assert.ErrorIs(t, err, service.ErrInvalidTransition)
	})

	t.Run("un pedido cancelado no acepta más transiciones", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusCancelled))
		err := e.svc.SetStatus(ctx, o.ID, model.StatusPreparing)
		assert.ErrorIs(t, err, service.ErrFinalState)
	})

	t.Run("un pedido entregado no acepta más transiciones", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		require.NoError(t, e.svc.SetStatus(ctx, o.ID, model.StatusDelivered))
		err := e.svc.SetStatus(ctx, o.ID, model.StatusCancelled)
		assert.ErrorIs(t, err, service.ErrFinalState)
	})

	t.Run("rechaza estados desconocidos", func(t *testing.T) {
		e := newEnv()
		o := create(t, e)

		err := e.svc.SetStatus(ctx, o.ID, model.Status("Enviado"))
		assert.ErrorIs(t, err, service.ErrInvalidStatus)
	})

	t.Run("pedido inexistente devuelve not found", func(t *testing.T) {
		e := newEnv()

		err := e.svc.SetStatus(ctx, "nope", model.StatusConfirmed)
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderService_AssignManual(t *testing.T) {
	ctx := context.Background()

	t.Run("asigna y marca la asignación como manual", func(t *testing.T) {
		e := newEnv()
		e.couriers.Save(ctx, &model.Courier{ID: "d9", Name: "Diego", Estado: model.CourierActivo})
		o, err := e.svc.CreateOrder(ctx, "b1", checkoutRequest())
		require.NoError(t, err)

		require.NoError(t, e.svc.AssignManual(ctx, o.ID, "d9"))

		got, err := e.svc.GetByID(ctx, o.ID)
		require.NoError(t, err)
		require.NotNil(t, got.Delivery.AssignedDelivery)
		assert.Equal(t, "d9", *got.Delivery.AssignedDelivery)
		assert.True(t, got.Delivery.AssignedManually)
	})

	t.Run("rechaza repartidores inactivos", func(t *testing.T) {
		e := newEnv()
		e.couriers.Save(ctx, &model.Courier{ID: "d9", Estado: model.CourierInactivo})
		o, err := e.svc.CreateOrder(ctx, "b1", checkoutRequest())
		require.NoError(t, err)

		err = e.svc.AssignManual(ctx, o.ID, "d9")
		assert.ErrorIs(t, err, service.ErrCourierInactivo)
	})

	t.Run("rechaza repartidores inexistentes", func(t *testing.T) {
		e := newEnv()
		o, err := e.svc.CreateOrder(ctx, "b1", checkoutRequest())
		require.NoError(t, err)

		err = e.svc.AssignManual(ctx, o.ID, "fantasma")
		assert.ErrorIs(t, err, repository.ErrNotFound)
	})
}

func TestOrderService_PromoteScheduledDue(t *testing.T) {
	ctx := context.Background()
	e := newEnv()

	past := time.Now().UTC().Add(-10 * time.Minute)
	future := time.Now().UTC().Add(2 * time.Hour)

	due := checkoutRequest()
	due.Timing = dto.TimingDTO{Type: model.TimingScheduled, ScheduledFor: &past}
	dueOrder, err := e.svc.CreateOrder(ctx, "b1", due)
	require.NoError(t, err)

	later := checkoutRequest()
	later.Timing = dto.TimingDTO{Type: model.TimingScheduled, ScheduledFor: &future}
	laterOrder, err := e.svc.CreateOrder(ctx, "b1", later)
	require.NoError(t, err)

	promoted := e.svc.PromoteScheduledDue(ctx, time.Now().UTC())
	assert.Equal(t, 1, promoted)

	got, _ := e.svc.GetByID(ctx, dueOrder.ID)
	assert.Equal(t, model.StatusConfirmed, got.Status)

	got, _ = e.svc.GetByID(ctx, laterOrder.ID)
	assert.Equal(t, model.StatusPending, got.Status)
}
