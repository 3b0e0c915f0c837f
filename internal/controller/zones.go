// zones.go
package controller

import (
	"errors"
	"net/http"

	"pedidos-service/internal/dto"
	"pedidos-service/internal/geo"
	"pedidos-service/internal/repository"
	"pedidos-service/internal/service"

	"github.com/gin-gonic/gin"
)

type ZoneController struct {
	Service *service.ZoneService
}

func NewZoneController(s *service.ZoneService) *ZoneController {
	return &ZoneController{Service: s}
}

// POST /business/zones
func (ctl *ZoneController) Create(c *gin.Context) {
	var req dto.SaveZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := ctl.Service.Create(c.Request.Context(), c.GetString("businessID"), req)
	if err != nil {
		if errors.Is(err, geo.ErrPolygonTooSmall) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, zone)
}

// PUT /business/zones/:zoneId
func (ctl *ZoneController) Update(c *gin.Context) {
	var req dto.SaveZoneRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	zone, err := ctl.Service.Update(c.Request.Context(), c.GetString("businessID"), c.Param("zoneId"), req)
	switch {
	case err == nil:
		c.JSON(http.StatusOK, zone)
	case errors.Is(err, geo.ErrPolygonTooSmall):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbiddenZone):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// DELETE /business/zones/:zoneId
func (ctl *ZoneController) Delete(c *gin.Context) {
	err := ctl.Service.Delete(c.Request.Context(), c.GetString("businessID"), c.Param("zoneId"))
	switch {
	case err == nil:
		c.JSON(http.StatusOK, gin.H{"message": "zone deleted"})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrForbiddenZone):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// GET /business/zones
func (ctl *ZoneController) List(c *gin.Context) {
	zones, err := ctl.Service.GetByBusiness(c.Request.Context(), c.GetString("businessID"))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, zones)
}
