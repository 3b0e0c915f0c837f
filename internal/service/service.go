package service

import (
	"context"
	"errors"
	"log"
	"time"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/model"
	"pedidos-service/internal/repository"

	"github.com/google/uuid"
)

// Interfaces que debe implementar repository
type OrderRepository interface {
	Save(ctx context.Context, o *model.Order) error
	FindByID(ctx context.Context, orderID string) (*model.Order, error)
	UpdateStatus(ctx context.Context, orderID string, from, to model.Status, at time.Time) error
	AssignCourier(ctx context.Context, orderID, courierID string, cost float64) error
	AssignCourierManual(ctx context.Context, orderID, courierID string) error
	FindByBusiness(ctx context.Context, businessID string) ([]*model.Order, error)
	FindByBusinessAndStatus(ctx context.Context, businessID string, status model.Status) ([]*model.Order, error)
	FindUnassigned(ctx context.Context, businessID string) ([]*model.Order, error)
	FindScheduledDue(ctx context.Context, before time.Time) ([]*model.Order, error)
	SummaryByStatus(ctx context.Context, businessID string) ([]repository.StatusCount, error)
	AvgDeliveryTime(ctx context.Context, businessID string) (*repository.DeliveryTimeReport, error)
	WatchOrder(ctx context.Context, orderID string) (<-chan *model.Order, error)
}

type OutboxRepository interface {
	Insert(ctx context.Context, e *model.OutboxEvent) error
}

type CourierRepository interface {
	Save(ctx context.Context, c *model.Courier) error
	FindByID(ctx context.Context, courierID string) (*model.Courier, error)
	FindAll(ctx context.Context) ([]*model.Courier, error)
	SetEstado(ctx context.Context, courierID, estado string) error
}

// Errores de negocio exportados (los usa el controller)
var (
	ErrInvalidStatus     = errors.New("estado inválido")
	ErrInvalidTransition = errors.New("transición de estado inválida")
	ErrFinalState        = errors.New("el pedido ya está en un estado final")
	ErrEmptyOrder        = errors.New("el pedido no tiene items")
	ErrMissingDestino    = errors.New("un pedido con envío necesita coordenadas de destino")
	ErrCourierInactivo   = errors.New("el repartidor está inactivo")
	ErrForbiddenZone     = errors.New("la zona pertenece a otro negocio")
)

type OrderService struct {
	repo     OrderRepository
	outbox   OutboxRepository
	couriers CourierRepository
	resolver *AssignmentResolver
}

func NewOrderService(r OrderRepository, outbox OutboxRepository, couriers CourierRepository, resolver *AssignmentResolver) *OrderService {
	return &OrderService{repo: r, outbox: outbox, couriers: couriers, resolver: resolver}
}

// CreateOrder arma el pedido desde el checkout: snapshot del cliente, items
// con precios, subtotal y total. Si es envío a domicilio se cotiza la zona en
// este momento para mostrar el costo antes de confirmar.
func (s *OrderService) CreateOrder(ctx context.Context, businessID string, req dto.CreateOrderRequest) (*model.Order, error) {
	if len(req.Items) == 0 {
		return nil, ErrEmptyOrder
	}
	if req.Delivery.Type == model.DeliveryTypeDelivery && req.Delivery.Destination == nil {
		return nil, ErrMissingDestino
	}

	var subtotal float64
	items := make([]model.OrderItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, model.OrderItem{
			ProductID: it.ProductID,
			Name:      it.Name,
			Variant:   it.Variant,
			Quantity:  it.Quantity,
			UnitPrice: it.UnitPrice,
		})
		subtotal += float64(it.Quantity) * it.UnitPrice
	}

	var deliveryCost float64
	if req.Delivery.Type == model.DeliveryTypeDelivery {
		fee, matched, err := s.resolver.PriceDelivery(ctx, businessID, *req.Delivery.Destination)
		if err != nil {
			// La cotización es best-effort: sin zona el pedido nace con
			// costo 0 y el admin lo ajusta al asignar a mano.
			log.Println("[Orders] No se pudo cotizar la zona:", err)
		} else if matched {
			deliveryCost = fee
		}
	}

	now := time.Now().UTC()
	order := &model.Order{
		ID:         uuid.NewString(),
		BusinessID: businessID,
		Status:     model.StatusPending,
		StatusHistory: map[string]time.Time{
			model.StatusPending.HistoryKey(): now,
		},
		Customer: model.Customer{
			Name:  req.Customer.Name,
			Phone: req.Customer.Phone,
			Email: req.Customer.Email,
		},
		Delivery: model.DeliveryInfo{
			Type:         req.Delivery.Type,
			Destination:  req.Delivery.Destination,
			Reference:    req.Delivery.Reference,
			DeliveryCost: deliveryCost,
		},
		Payment: model.PaymentInfo{
			Method:         req.Payment.Method,
			CashAmount:     req.Payment.CashAmount,
			TransferAmount: req.Payment.TransferAmount,
			ReceiptURL:     req.Payment.ReceiptURL,
			PaymentStatus:  model.PaymentStatusPending,
		},
		Items:    items,
		Timing:   model.Timing{Type: req.Timing.Type, ScheduledFor: req.Timing.ScheduledFor},
		Subtotal: subtotal,
		Total:    subtotal + deliveryCost,
	}
	if order.Timing.Type == "" {
		order.Timing.Type = model.TimingImmediate
	}

	return order, s.repo.Save(ctx, order)
}

// SetStatus valida la transición contra la máquina de estados y la escribe.
// El write es un solo update atómico (estado + historial). Los efectos
// secundarios no viajan acá: se registra un evento durable en el outbox y
// los consumidores (notificador, resolver) lo procesan por su cuenta.
func (s *OrderService) SetStatus(ctx context.Context, orderID string, newStatus model.Status) error {
	if !newStatus.IsValid() {
		return ErrInvalidStatus
	}

	ord, err := s.repo.FindByID(ctx, orderID)
	if err != nil {
		return err
	}

	// Mismo estado: no hacemos nada
	if ord.Status == newStatus {
		return nil
	}
	if ord.Status.IsFinal() {
		return ErrFinalState
	}
	if !ord.Status.CanTransitionTo(newStatus) {
		return ErrInvalidTransition
	}

	now := time.Now().UTC()
	if err := s.repo.UpdateStatus(ctx, orderID, ord.Status, newStatus, now); err != nil {
		return err
	}

	// El cambio de estado ya está persistido: si el outbox falla sólo se
	// pierde el efecto secundario, nunca se revierte el estado.
	event := &model.OutboxEvent{
		ID:         uuid.NewString(),
		Type:       model.EventTypeStatusChanged,
		OrderID:    orderID,
		BusinessID: ord.BusinessID,
		Status:     newStatus,
	}
	if err := s.outbox.Insert(ctx, event); err != nil {
		log.Println("[Orders] Error registrando evento en outbox:", err)
	}

	return nil
}

// AssignManual es la asignación directa del admin: pisa cualquier asignación
// previa y el resolver automático no la toca más.
func (s *OrderService) AssignManual(ctx context.Context, orderID, courierID string) error {
	courier, err := s.couriers.FindByID(ctx, courierID)
	if err != nil {
		return err
	}
	if courier.Estado != model.CourierActivo {
		return ErrCourierInactivo
	}

	return s.repo.AssignCourierManual(ctx, orderID, courierID)
}

// PromoteScheduledDue confirma los pedidos programados cuya hora ya llegó,
// para que aparezcan en la cocina. Devuelve cuántos promovió.
func (s *OrderService) PromoteScheduledDue(ctx context.Context, now time.Time) int {
	due, err := s.repo.FindScheduledDue(ctx, now)
	if err != nil {
		log.Println("[Orders] Error buscando pedidos programados:", err)
		return 0
	}

	promoted := 0
	for _, o := range due {
		if err := s.SetStatus(ctx, o.ID, model.StatusConfirmed); err != nil {
			log.Printf("[Orders] No se pudo promover el pedido %s: %v", o.ID, err)
			continue
		}
		promoted++
	}
	return promoted
}

// Getters
func (s *OrderService) GetByID(ctx context.Context, orderID string) (*model.Order, error) {
	return s.repo.FindByID(ctx, orderID)
}

func (s *OrderService) GetByBusiness(ctx context.Context, businessID string) ([]*model.Order, error) {
	return s.repo.FindByBusiness(ctx, businessID)
}

func (s *OrderService) GetByBusinessAndStatus(ctx context.Context, businessID string, status model.Status) ([]*model.Order, error) {
	return s.repo.FindByBusinessAndStatus(ctx, businessID, status)
}

func (s *OrderService) GetUnassigned(ctx context.Context, businessID string) ([]*model.Order, error) {
	return s.repo.FindUnassigned(ctx, businessID)
}

// Watch abre la suscripción en vivo de un pedido (change stream).
func (s *OrderService) Watch(ctx context.Context, orderID string) (<-chan *model.Order, error) {
	return s.repo.WatchOrder(ctx, orderID)
}

func (s *OrderService) SummaryByStatus(ctx context.Context, businessID string) ([]repository.StatusCount, error) {
	return s.repo.SummaryByStatus(ctx, businessID)
}

func (s *OrderService) AvgDeliveryTime(ctx context.Context, businessID string) (*repository.DeliveryTimeReport, error) {
	return s.repo.AvgDeliveryTime(ctx, businessID)
}
