// publisher.go
package rabbit

import (
	"context"
	"encoding/json"
	"time"

	"pedidos-service/internal/model"

	"github.com/rabbitmq/amqp091-go"
)

// Exchange fanout al que van todos los cambios de estado.
const StatusExchange = "order_status_changed"

// Mensaje que viaja por el exchange. Los consumidores releen el pedido
// de Mongo, acá sólo va lo mínimo para enrutar.
type StatusChangedMessage struct {
	EventID    string    `json:"eventId"`
	OrderID    string    `json:"orderId"`
	BusinessID string    `json:"businessId"`
	Status     string    `json:"status"`
	OccurredAt time.Time `json:"occurredAt"`
}

type Publisher struct {
	ch *amqp091.Channel
}

func NewPublisher(ch *amqp091.Channel) (*Publisher, error) {
	err := ch.ExchangeDeclare(
		StatusExchange,
		"fanout",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return nil, err
	}
	return &Publisher{ch: ch}, nil
}

// Publish manda el evento de outbox al exchange.
func (p *Publisher) Publish(ctx context.Context, e *model.OutboxEvent) error {
	msg := StatusChangedMessage{
		EventID:    e.ID,
		OrderID:    e.OrderID,
		BusinessID: e.BusinessID,
		Status:     string(e.Status),
		OccurredAt: e.CreatedAt,
	}

	body, err := json.Marshal(msg)
	if err != nil {
		return err
	}

	return p.ch.PublishWithContext(ctx,
		StatusExchange,
		"", // fanout ignora routing key
		false,
		false,
		amqp091.Publishing{
			ContentType: "application/json",
			Body:        body,
		},
	)
}
