// admin_only.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		perms := c.GetStringSlice("userPermissions")
		isAdmin := false
		for _, p := range perms {
			if p == "admin" {
				isAdmin = true
				break
			}
		}
		if !isAdmin {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin privileges required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// BusinessOnly exige que el token venga atado a un negocio: son las rutas
// del panel del comercio (pedidos, zonas, reportes).
func BusinessOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("businessID") == "" {
			c.JSON(http.StatusForbidden, gin.H{"error": "business account required"})
			c.Abort()
			return
		}
		c.Next()
	}
}
