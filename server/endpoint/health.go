// Package endpoint holds the operational endpoints of the probe server.
package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// Health returns a handler reporting liveness and the engines the service
// can evaluate with. With no engines registered the service is unhealthy.
func Health(serviceName string, engines func() []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var names []string
		if engines != nil {
			names = engines()
		}
		status, httpStatus := "healthy", http.StatusOK
		if len(names) == 0 {
			status, httpStatus = "unhealthy", http.StatusServiceUnavailable
		}
		c.JSON(httpStatus, gin.H{
			"status":    status,
			"service":   serviceName,
			"engines":   names,
			"timestamp": time.Now().UTC().Format(time.RFC3339),
		})
	}
}
