// setup.go
package rabbit

import (
	"log"

	"github.com/rabbitmq/amqp091-go"
)

type consumer interface {
	Handle(msg []byte) error
}

// SetupConsumers declara el exchange fanout y una cola por consumidor:
// cada efecto secundario (notificación, asignación) procesa todos los
// cambios de estado a su ritmo.
func SetupConsumers(ch *amqp091.Channel, notifications *NotificationConsumer, assignment *AssignmentConsumer) {
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
		log.Println("❌ Error declarando exchange:", err)
		return
	}

	bind(ch, "pedidos_notifications", notifications)
	bind(ch, "pedidos_assignment", assignment)

	log.Println("🐰 Suscrito a exchange order_status_changed (fanout)")
}

func bind(ch *amqp091.Channel, queue string, c consumer) {
	q, err := ch.QueueDeclare(
		queue,
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error declarando queue:", err)
		return
	}

	err = ch.QueueBind(
		q.Name,
		"", // fanout ignora routing key
		StatusExchange,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error binding exchange:", err)
		return
	}

	msgs, err := ch.Consume(
		q.Name,
		"",
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		log.Println("❌ Error al consumir queue:", err)
		return
	}

	go func() {
		for m := range msgs {
			c.Handle(m.Body)
		}
	}()
}
