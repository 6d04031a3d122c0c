package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/altpay/wallet/internal/application/ports"
)

// ============================================
// Health Check Handler
// ============================================

// HealthHandler serves the liveness and readiness probes. Readiness
// checks that the wallet table is reachable.
type HealthHandler struct {
	tables    ports.TableAdmin
	version   string
	buildTime string
	startTime time.Time
}

// NewHealthHandler creates a HealthHandler. tables may be nil when no
// storage check is wanted.
func NewHealthHandler(tables ports.TableAdmin, version, buildTime string) *HealthHandler {
	return &HealthHandler{
		tables:    tables,
		version:   version,
		buildTime: buildTime,
		startTime: time.Now(),
	}
}

// ============================================
// Response Types
// ============================================

// HealthResponse is the health check payload.
type HealthResponse struct {
	Status    string    `json:"status"` // "healthy" or "unhealthy"
	Version   string    `json:"version"`
	BuildTime string    `json:"build_time"`
	Uptime    string    `json:"uptime"`
	Timestamp time.Time `json:"timestamp"`
}

// ReadinessResponse is the readiness probe payload.
type ReadinessResponse struct {
	Ready     bool              `json:"ready"`
	Checks    map[string]string `json:"checks"`
	Timestamp time.Time         `json:"timestamp"`
}

// ============================================
// HTTP Handlers
// ============================================

// Health returns the basic health status.
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "healthy",
		Version:   h.version,
		BuildTime: h.buildTime,
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Timestamp: time.Now().UTC(),
	})
}

// Ready reports whether the service can serve traffic. The wallet
// table must exist for writes to succeed.
func (h *HealthHandler) Ready(c *gin.Context) {
	checks := make(map[string]string)
	allReady := true

	if h.tables != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		exists, err := h.tables.TableExists(ctx)
		switch {
		case err != nil:
			checks["dynamodb"] = "unhealthy: " + err.Error()
			allReady = false
		case !exists:
			checks["dynamodb"] = "unhealthy: wallet table missing"
			allReady = false
		default:
			checks["dynamodb"] = "healthy"
		}
	} else {
		checks["dynamodb"] = "not configured"
	}

	statusCode := http.StatusOK
	if !allReady {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, ReadinessResponse{
		Ready:     allReady,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}

// Live is the liveness probe.
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "alive",
	})
}

// RegisterRoutes registers the probe routes.
//
// Routes:
//   - GET /health - Basic health check
//   - GET /ready  - Readiness probe
//   - GET /live   - Liveness probe
func (h *HealthHandler) RegisterRoutes(router *gin.Engine) {
	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/live", h.Live)
}
