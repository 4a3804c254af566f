// internal/interfaces/http/middleware/metrics.go
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/your-org/pharmacy-checkout/internal/pkg/metrics"
)

// Metrics counts requests by route template and status
func Metrics(reg *metrics.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		reg.HTTPRequest(c.Request.Method, route, c.Writer.Status())
	}
}
