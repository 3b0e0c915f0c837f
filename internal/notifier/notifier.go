// notifier.go
package notifier

import (
	"fmt"
	"log"

	"pedidos-service/internal/model"

	"gopkg.in/gomail.v2"
)

// Asuntos y cuerpos por estado. Sólo estos estados notifican al cliente.
var templates = map[model.Status]struct {
	Subject string
	Body    string
}{
	model.StatusConfirmed: {
		Subject: "Tu pedido fue confirmado",
		Body:    "¡Hola %s! El negocio confirmó tu pedido y ya lo está preparando.",
	},
	model.StatusReady: {
		Subject: "Tu pedido está listo",
		Body:    "¡Hola %s! Tu pedido está listo. Si es retiro en local, ya podés pasar a buscarlo.",
	},
	model.StatusOnWay: {
		Subject: "Tu pedido está en camino",
		Body:    "¡Hola %s! El repartidor ya salió con tu pedido.",
	},
	model.StatusDelivered: {
		Subject: "Tu pedido fue entregado",
		Body:    "¡Hola %s! Tu pedido fue entregado. ¡Gracias por tu compra!",
	},
}

// ShouldNotify dice si el estado dispara un mail al cliente.
func ShouldNotify(status model.Status) bool {
	_, ok := templates[status]
	return ok
}

// Notifier envía los mails de seguimiento por SMTP. Es fire-and-forget:
// quien lo invoca loguea el error y sigue, nunca bloquea el flujo del pedido.
type Notifier struct {
	dialer *gomail.Dialer
	from   string
}

func NewNotifier(host string, port int, user, pass, from string) *Notifier {
	return &Notifier{
		dialer: gomail.NewDialer(host, port, user, pass),
		from:   from,
	}
}

// Send arma el mail del estado y lo despacha. Si el pedido no tiene email
// de cliente no hay nada que mandar.
func (n *Notifier) Send(o *model.Order, status model.Status) error {
	tpl, ok := templates[status]
	if !ok {
		return nil
	}
	if o.Customer.Email == "" {
		log.Printf("[Notifier] Pedido %s sin email de cliente, se omite la notificación", o.ID)
		return nil
	}

	body := fmt.Sprintf(tpl.Body, o.Customer.Name)
	html := fmt.Sprintf(
		"<p>%s</p><p>Pedido <b>%s</b> - total $%.2f</p>",
		body, o.ID, o.Total,
	)

	msg := gomail.NewMessage()
	msg.SetHeader("From", n.from)
	msg.SetHeader("To", o.Customer.Email)
	msg.SetHeader("Subject", tpl.Subject)
	msg.SetBody("text/html", html)

	return n.dialer.DialAndSend(msg)
}
