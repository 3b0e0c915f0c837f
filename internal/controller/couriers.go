// couriers.go
package controller

import (
	"errors"
	"net/http"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/repository"
	"pedidos-service/internal/service"
	"pedidos-service/internal/storage"

	"github.com/gin-gonic/gin"
)

type CourierController struct {
	Service *service.CourierService
	Storage *storage.Client
}

func NewCourierController(s *service.CourierService, st *storage.Client) *CourierController {
	return &CourierController{Service: s, Storage: st}
}

// POST /admin/deliveries
func (ctl *CourierController) Create(c *gin.Context) {
	var req dto.SaveCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	courier, err := ctl.Service.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, courier)
}

// PUT /admin/deliveries/:deliveryId
func (ctl *CourierController) Update(c *gin.Context) {
	var req dto.SaveCourierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	courier, err := ctl.Service.Update(c.Request.Context(), c.Param("deliveryId"), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, courier)
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// PATCH /admin/deliveries/:deliveryId/estado
func (ctl *CourierController) SetEstado(c *gin.Context) {
	var req struct {
		Estado string `json:"estado" binding:"required,oneof=activo inactivo"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	err := ctl.Service.SetEstado(c.Request.Context(), c.Param("deliveryId"), req.Estado)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "estado updated"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// POST /admin/deliveries/:deliveryId/photo — multipart, sube al storage y
// guarda la URL pública
func (ctl *CourierController) UploadPhoto(c *gin.Context) {
	file, header, err := c.Request.FormFile("photo")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "photo file required"})
		return
	}
	defer file.Close()

	url, err := ctl.Storage.Upload(c.Request.Context(), header.Filename, file)
	if err != nil {
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	if err := ctl.Service.SetPhoto(c.Request.Context(), c.Param("deliveryId"), url); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"photoUrl": url})
}

// GET /admin/deliveries
func (ctl *CourierController) List(c *gin.Context) {
	couriers, err := ctl.Service.GetAll(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, couriers)
}
