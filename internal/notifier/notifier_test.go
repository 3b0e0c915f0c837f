package notifier_test

import (
	"testing"

	"pedidos-service/internal/model"
	"pedidos-service/internal/notifier"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestShouldNotify(t *testing.T) {
	notifying := []model.Status{
		model.StatusConfirmed,
		model.StatusReady,
		model.StatusOnWay,
		model.StatusDelivered,
	}
	for _, s := range notifying {
		assert.True(t, notifier.ShouldNotify(s), "el estado %s debería notificar", s)
	}

	silent := []model.Status{
		model.StatusPending,
		model.StatusPreparing,
		model.StatusCancelled,
	}
	for _, s := range silent {
		assert.False(t, notifier.ShouldNotify(s), "el estado %s no debería notificar", s)
	}
}

func TestNotifier_SendSkips(t *testing.T) {
	// Sin host real: Send sólo debe tocar la red cuando hay algo que mandar.
	n := notifier.NewNotifier("localhost", 1025, "", "", "pedidos@example.com")

	t.Run("pedido sin email de cliente", func(t *testing.T) {
		o := &model.Order{ID: "o1", Customer: model.Customer{Name: "Ana"}}
		require.NoError(t, n.Send(o, model.StatusConfirmed))
	})

	t.Run("estado que no notifica", func(t *testing.T) {
		o := &model.Order{ID: "o1", Customer: model.Customer{Name: "Ana", Email: "ana@example.com"}}
		require.NoError(t, n.Send(o, model.StatusPreparing))
	})
}
