package middleware

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HealthPath is always served, even without configuration.
const HealthPath = "/health"

// ConfigGate answers every request except the health check with 503 and
// the names of the missing variables. With nothing missing it is a no-op.
func ConfigGate(missing []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(missing) == 0 || c.Request.URL.Path == HealthPath {
			c.Next()
			return
		}

		log.Printf("[CONFIG] refused %s %s, missing %v", c.Request.Method, c.Request.URL.Path, missing)
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{
			"error":   "configuration required",
			"missing": missing,
		})
	}
}
