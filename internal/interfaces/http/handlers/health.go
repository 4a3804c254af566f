// internal/interfaces/http/handlers/health.go
package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HealthChecker is a dependency that can report its health
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler reports service and dependency health
type HealthHandler struct {
	version     string
	environment string
	started     time.Time
	checks      map[string]HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(version, environment string, checks map[string]HealthChecker) *HealthHandler {
	return &HealthHandler{
		version:     version,
		environment: environment,
		started:     time.Now(),
		checks:      checks,
	}
}

// Health handles GET /health
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	status := http.StatusOK
	deps := gin.H{}
	for name, check := range h.checks {
		if err := check.Health(ctx); err != nil {
			status = http.StatusServiceUnavailable
			deps[name] = "unhealthy: " + err.Error()
			continue
		}
		deps[name] = "healthy"
	}

	overall := "healthy"
	if status != http.StatusOK {
		overall = "unhealthy"
	}

	c.JSON(status, gin.H{
		"status":       overall,
		"dependencies": deps,
		"timestamp":    time.Now().UTC(),
		"version":      h.version,
		"environment":  h.environment,
	})
}

// Ready handles GET /ready
func (h *HealthHandler) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"timestamp": time.Now().UTC(),
		"uptime":    time.Since(h.started).Round(time.Second).String(),
	})
}
