package controller

import (
	"errors"
	"net/http"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/maps"
	"pedidos-service/internal/model"
	"pedidos-service/internal/repository"
	"pedidos-service/internal/service"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Service *service.OrderService
	Maps    *maps.StaticMapClient
}

func NewOrderController(s *service.OrderService, m *maps.StaticMapClient) *OrderController {
	return &OrderController{Service: s, Maps: m}
}

// POST /businesses/:businessId/orders — checkout del cliente, no requiere token
func (ctl *OrderController) CreateOrder(c *gin.Context) {
	businessID := c.Param("businessId")

	var req dto.CreateOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	order, err := ctl.Service.CreateOrder(c.Request.Context(), businessID, req)
	if err != nil {
		if errors.Is(err, service.ErrEmptyOrder) || errors.Is(err, service.ErrMissingDestino) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, order)
}

// GET /orders/:orderId — página de seguimiento, el id es opaco
func (ctl *OrderController) GetOrder(c *gin.Context) {
	orderID := c.Param("orderId")

	o, err := ctl.Service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}

	resp := gin.H{"order": o}
	if o.Delivery.Destination != nil {
		resp["mapUrl"] = ctl.Maps.URL(*o.Delivery.Destination, 15)
	}
	c.JSON(http.StatusOK, resp)
}

// GET /orders/:orderId/map — imagen del mapa del destino, proxy al servicio
// de mapas (la API key no viaja al navegador)
func (ctl *OrderController) GetOrderMap(c *gin.Context) {
	o, err := ctl.Service.GetByID(c.Request.Context(), c.Param("orderId"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return
	}
	if o.Delivery.Destination == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "el pedido no tiene destino"})
		return
	}

	img, err := ctl.Maps.Fetch(*o.Delivery.Destination, 15)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}
	c.Data(http.StatusOK, "image/png", img)
}

// PATCH /orders/:orderId/status — requiere token del negocio dueño
func (ctl *OrderController) UpdateStatus(c *gin.Context) {
	orderID := c.Param("orderId")

	var req dto.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ctl.canManage(c, orderID) {
		return
	}

	err := ctl.Service.SetStatus(c.Request.Context(), orderID, model.Status(req.Status))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "status updated"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrInvalidStatus),
		errors.Is(err, service.ErrInvalidTransition),
		errors.Is(err, service.ErrFinalState):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// PUT /orders/:orderId/assign — asignación manual del admin del negocio
func (ctl *OrderController) AssignCourier(c *gin.Context) {
	orderID := c.Param("orderId")

	var req dto.AssignCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !ctl.canManage(c, orderID) {
		return
	}

	err := ctl.Service.AssignManual(c.Request.Context(), orderID, req.DeliveryID)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "courier assigned"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrCourierInactivo):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GET /business/orders — pedidos del negocio del token
func (ctl *OrderController) GetBusinessOrders(c *gin.Context) {
	businessID := c.GetString("businessID")
	orders, err := ctl.Service.GetByBusiness(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /business/orders/state/:state
func (ctl *OrderController) GetBusinessOrdersByState(c *gin.Context) {
	businessID := c.GetString("businessID")
	state := model.Status(c.Param("state"))
	if !state.IsValid() {
		c.JSON(http.StatusBadRequest, gin.H{"error": "estado inválido"})
		return
	}

	orders, err := ctl.Service.GetByBusinessAndStatus(c.Request.Context(), businessID, state)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// GET /business/orders/unassigned — deliveries sin repartidor, para asignar a mano
func (ctl *OrderController) GetUnassigned(c *gin.Context) {
	businessID := c.GetString("businessID")
	orders, err := ctl.Service.GetUnassigned(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, orders)
}

// canManage valida que el pedido pertenezca al negocio del token. Los
// admins de plataforma pasan siempre.
func (ctl *OrderController) canManage(c *gin.Context, orderID string) bool {
	perms := c.GetStringSlice("userPermissions")
	for _, p := range perms {
		if p == "admin" {
			return true
		}
	}

	o, err := ctl.Service.GetByID(c.Request.Context(), orderID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
		return false
	}
	if o.BusinessID != c.GetString("businessID") {
		c.JSON(http.StatusForbidden, gin.H{"error": "el pedido pertenece a otro negocio"})
		return false
	}
	return true
}
