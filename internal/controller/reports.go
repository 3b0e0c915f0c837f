// reports.go
package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// GET /business/reports/summary — pedidos y facturación por estado
func (ctl *OrderController) ReportSummary(c *gin.Context) {
	businessID := c.GetString("businessID")
	summary, err := ctl.Service.SummaryByStatus(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summary)
}

// GET /business/reports/delivery-times — tiempo promedio de entrega
func (ctl *OrderController) ReportDeliveryTimes(c *gin.Context) {
	businessID := c.GetString("businessID")
	report, err := ctl.Service.AvgDeliveryTime(c.Request.Context(), businessID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, report)
}
