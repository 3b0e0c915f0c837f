// dto.go
package dto

import (
	"time"

	"pedidos-service/internal/geo"
)

// CreateOrderRequest es el checkout del cliente.
type CreateOrderRequest struct {
	Customer CustomerDTO    `json:"customer" binding:"required"`
	Delivery DeliveryDTO    `json:"delivery" binding:"required"`
	Payment  PaymentDTO     `json:"payment" binding:"required"`
	Items    []OrderItemDTO `json:"items" binding:"required"`
	Timing   TimingDTO      `json:"timing"`
}

type CustomerDTO struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
	Email string `json:"email"`
}

type DeliveryDTO struct {
	Type        string     `json:"type" binding:"required,oneof=delivery pickup"`
	Destination *geo.Point `json:"destination"`
	Reference   string     `json:"reference"`
}

type PaymentDTO struct {
	Method         string  `json:"method" binding:"required,oneof=cash transfer mixed"`
	CashAmount     float64 `json:"cashAmount"`
	TransferAmount float64 `json:"transferAmount"`
	ReceiptURL     string  `json:"receiptUrl"`
}

type OrderItemDTO struct {
	ProductID string  `json:"productId" binding:"required"`
	Name      string  `json:"name"`
	Variant   string  `json:"variant"`
	Quantity  int     `json:"quantity" binding:"required,gt=0"`
	UnitPrice float64 `json:"unitPrice" binding:"gte=0"`
}

type TimingDTO struct {
	Type         string     `json:"type" binding:"omitempty,oneof=immediate scheduled"`
	ScheduledFor *time.Time `json:"scheduledFor"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignCourierRequest struct {
	DeliveryID string `json:"deliveryId" binding:"required"`
}

// SaveZoneRequest crea o edita una zona de cobertura dibujada en el mapa.
type SaveZoneRequest struct {
	Name                       string      `json:"name" binding:"required"`
	Polygon                    geo.Polygon `json:"polygon" binding:"required"`
	DeliveryFee                float64     `json:"deliveryFee" binding:"gte=0"`
	AssignedDeliveryIDs        []string    `json:"assignedDeliveryIds"`
	DeliveryAssignmentStrategy string      `json:"deliveryAssignmentStrategy" binding:"omitempty,oneof=single round-robin"`
	IsActive                   *bool       `json:"isActive"`
}

type SaveCourierRequest struct {
	Name  string `json:"name" binding:"required"`
	Phone string `json:"phone" binding:"required"`
}
