// models.go
package model

import (
	"time"

	"pedidos-service/internal/geo"
)

// Order es el documento principal: un pedido de un cliente contra un negocio.
type Order struct {
	ID         string `bson:"_id" json:"orderId"`
	BusinessID string `bson:"business_id" json:"businessId"`

	Status Status `bson:"status" json:"status"`

	// StatusHistory guarda "<status>At" -> timestamp. Sólo se agregan claves,
	// nunca se pisan: el cambio de estado y el append van en el mismo update.
	StatusHistory map[string]time.Time `bson:"status_history" json:"statusHistory"`

	Customer Customer     `bson:"customer" json:"customer"`
	Delivery DeliveryInfo `bson:"delivery" json:"delivery"`
	Payment  PaymentInfo  `bson:"payment" json:"payment"`
	Items    []OrderItem  `bson:"items" json:"items"`
	Timing   Timing       `bson:"timing" json:"timing"`

	Subtotal float64 `bson:"subtotal" json:"subtotal"`
	Total    float64 `bson:"total" json:"total"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

// Customer es una foto de los datos del cliente al momento del pedido.
type Customer struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
	Email string `bson:"email,omitempty" json:"email,omitempty"`
}

const (
	DeliveryTypeDelivery = "delivery"
	DeliveryTypePickup   = "pickup"
)

type DeliveryInfo struct {
	Type        string     `bson:"type" json:"type"` // delivery | pickup
	Destination *geo.Point `bson:"destination,omitempty" json:"destination,omitempty"`
	Reference   string     `bson:"reference" json:"reference"`

	// AssignedDelivery es el id del repartidor. nil hasta que el resolver
	// (o un admin) lo asigne; sólo aplica a type == delivery.
	AssignedDelivery *string `bson:"assigned_delivery" json:"assignedDelivery"`

	// AssignedManually marca asignaciones hechas por un admin, que el
	// resolver automático no debe pisar.
	AssignedManually bool `bson:"assigned_manually" json:"assignedManually"`

	DeliveryCost float64 `bson:"delivery_cost" json:"deliveryCost"`
}

const (
	PaymentMethodCash     = "cash"
	PaymentMethodTransfer = "transfer"
	PaymentMethodMixed    = "mixed"

	PaymentStatusPending    = "pending"
	PaymentStatusValidating = "validating"
	PaymentStatusPaid       = "paid"
	PaymentStatusRejected   = "rejected"
)

type PaymentInfo struct {
	Method         string  `bson:"method" json:"method"`
	CashAmount     float64 `bson:"cash_amount" json:"cashAmount"`
	TransferAmount float64 `bson:"transfer_amount" json:"transferAmount"`
	ReceiptURL     string  `bson:"receipt_url,omitempty" json:"receiptUrl,omitempty"`
	PaymentStatus  string  `bson:"payment_status" json:"paymentStatus"`
}

type OrderItem struct {
	ProductID string  `bson:"product_id" json:"productId"`
	Name      string  `bson:"name" json:"name"`
	Variant   string  `bson:"variant,omitempty" json:"variant,omitempty"`
	Quantity  int     `bson:"quantity" json:"quantity"`
	UnitPrice float64 `bson:"unit_price" json:"unitPrice"`
}

const (
	TimingImmediate = "immediate"
	TimingScheduled = "scheduled"
)

type Timing struct {
	Type string `bson:"type" json:"type"` // immediate | scheduled

	// ScheduledFor sólo se usa con type == scheduled.
	ScheduledFor *time.Time `bson:"scheduled_for,omitempty" json:"scheduledFor,omitempty"`
}

const (
	StrategySingle     = "single"
	StrategyRoundRobin = "round-robin"
)

// CoverageZone es la zona de cobertura de un negocio: un polígono con
// tarifa plana y un pool de repartidores.
type CoverageZone struct {
	ID         string `bson:"_id" json:"zoneId"`
	BusinessID string `bson:"business_id" json:"businessId"`
	Name       string `bson:"name" json:"name"`

	Polygon     geo.Polygon `bson:"polygon" json:"polygon"`
	DeliveryFee float64     `bson:"delivery_fee" json:"deliveryFee"`

	AssignedDeliveryIDs []string `bson:"assigned_delivery_ids" json:"assignedDeliveryIds"`

	// DeliveryAssignmentStrategy: single usa siempre el primer id,
	// round-robin rota la lista avanzando LastAssignedIndex.
	DeliveryAssignmentStrategy string `bson:"delivery_assignment_strategy" json:"deliveryAssignmentStrategy"`

	// LastAssignedIndex es el cursor del round-robin. Se persiste para que
	// la rotación sobreviva reinicios; se avanza con un update condicional
	// (ver repository) para no duplicar asignaciones concurrentes.
	LastAssignedIndex int `bson:"last_assigned_index" json:"lastAssignedIndex"`

	IsActive bool `bson:"is_active" json:"isActive"`

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

const (
	CourierActivo   = "activo"
	CourierInactivo = "inactivo"
)

// Courier es un repartidor registrado en la plataforma. Lo referencian
// pedidos y zonas, pero no le pertenecen a ninguno.
type Courier struct {
	ID       string `bson:"_id" json:"deliveryId"`
	Name     string `bson:"name" json:"name"`
	Phone    string `bson:"phone" json:"phone"`
	PhotoURL string `bson:"photo_url,omitempty" json:"photoUrl,omitempty"`
	Estado   string `bson:"estado" json:"estado"` // activo | inactivo

	CreatedAt time.Time `bson:"created_at" json:"createdAt"`
	UpdatedAt time.Time `bson:"updated_at" json:"updatedAt"`
}

const (
	EventStatusPending = "pending"
	EventStatusSent    = "sent"
	EventStatusFailed  = "failed"

	EventTypeStatusChanged = "order.status_changed"
)

// OutboxEvent registra "el pedido X pasó a estado Y" de forma durable.
// El job de outbox lo publica a Rabbit y los consumidores (notificador,
// resolver de asignación) lo procesan con su propio reintento.
type OutboxEvent struct {
	ID         string `bson:"_id" json:"eventId"`
	Type       string `bson:"type" json:"type"`
	OrderID    string `bson:"order_id" json:"orderId"`
	BusinessID string `bson:"business_id" json:"businessId"`
	Status     Status `bson:"status" json:"status"`

	EventStatus string `bson:"event_status" json:"eventStatus"` // pending | sent | failed
	RetryCount  int    `bson:"retry_count" json:"retryCount"`
	MaxRetries  int    `bson:"max_retries" json:"maxRetries"`

	CreatedAt time.Time  `bson:"created_at" json:"createdAt"`
	SentAt    *time.Time `bson:"sent_at,omitempty" json:"sentAt,omitempty"`
}
