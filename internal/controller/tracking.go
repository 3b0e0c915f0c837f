// tracking.go
package controller

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /orders/:orderId/stream — SSE para la página de seguimiento.
// Una sola suscripción por pedido por cliente; se corta cuando el
// navegador se desconecta (ctx.Done).
func (ctl *OrderController) StreamOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	// Estado actual primero, así la página pinta algo de entrada
	current, err := ctl.Service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	ctx := c.Request.Context()
	updates, err := ctl.Service.Watch(ctx, orderID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")

	send := func(event string, v any) bool {
		data, err := json.Marshal(v)
		if err != nil {
			log.Println("[Tracking] Error serializando pedido:", err)
			return true
		}
		fmt.Fprintf(c.Writer, "event: %s\ndata: %s\n\n", event, data)
		c.Writer.Flush()
		return true
	}

	send("snapshot", current)

	for {
		select {
		case o, ok := <-updates:
			if !ok {
				return
			}
			send("update", o)
		case <-ctx.Done():
			return
		}
	}
}
