package rabbit

import (
	"context"
	"encoding/json"
	"log"

	"pedidos-service/internal/model"
	"pedidos-service/internal/notifier"
	"pedidos-service/internal/service"
)

// NotificationConsumer escucha los cambios de estado y manda el mail al
// cliente en los estados que notifican (confirmed, ready, on_way, delivered).
type NotificationConsumer struct {
	Orders   *service.OrderService
	Notifier *notifier.Notifier
}

func NewNotificationConsumer(orders *service.OrderService, n *notifier.Notifier) *NotificationConsumer {
	return &NotificationConsumer{Orders: orders, Notifier: n}
}

func (c *NotificationConsumer) Handle(msg []byte) error {
	var event StatusChangedMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("[Rabbit] Error parseando mensaje:", err)
		return err
	}

	status := model.Status(event.Status)
	if !notifier.ShouldNotify(status) {
		return nil
	}

	o, err := c.Orders.GetByID(context.Background(), event.OrderID)
	if err != nil {
		log.Println("❌ Error buscando pedido para notificar:", err)
		return err
	}

	// Best-effort: si el mail falla se loguea y listo, el estado ya cambió
	if err := c.Notifier.Send(o, status); err != nil {
		log.Printf("❌ Error enviando notificación del pedido %s: %v", o.ID, err)
		return err
	}

	log.Printf("✔ Notificación %s enviada para pedido %s", status, o.ID)
	return nil
}

// AssignmentConsumer dispara la resolución de repartidor cuando un pedido
// con envío pasa a confirmed y todavía no tiene repartidor.
type AssignmentConsumer struct {
	Resolver *service.AssignmentResolver
}

func NewAssignmentConsumer(r *service.AssignmentResolver) *AssignmentConsumer {
	return &AssignmentConsumer{Resolver: r}
}

func (c *AssignmentConsumer) Handle(msg []byte) error {
	var event StatusChangedMessage
	if err := json.Unmarshal(msg, &event); err != nil {
		log.Println("[Rabbit] Error parseando mensaje:", err)
		return err
	}

	if model.Status(event.Status) != model.StatusConfirmed {
		return nil
	}

	// Fallas no fatales: el pedido queda sin asignar para el admin
	if err := c.Resolver.ResolveAndAssign(context.Background(), event.OrderID); err != nil {
		log.Printf("❌ Error resolviendo asignación del pedido %s: %v", event.OrderID, err)
		return err
	}
	return nil
}
