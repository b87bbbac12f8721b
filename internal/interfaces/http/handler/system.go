package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/backoffice/backend/internal/domain/shared"
	"github.com/backoffice/backend/internal/infrastructure/persistence"
	"github.com/backoffice/backend/internal/interfaces/http/dto"
)

// HealthHandler exposes liveness and readiness probes. These live at the
// engine root, outside the versioned API group, so the tenant middleware
// skip list covers them.
type HealthHandler struct {
	db        *persistence.Database
	appName   string
	version   string
	startedAt time.Time
}

// NewHealthHandler creates a health handler
func NewHealthHandler(db *persistence.Database, appName, version string) *HealthHandler {
	return &HealthHandler{
		db:        db,
		appName:   appName,
		version:   version,
		startedAt: time.Now(),
	}
}

// RegisterOn registers the probes on the engine root
func (h *HealthHandler) RegisterOn(engine *gin.Engine) {
	engine.GET("/health", h.Health)
	engine.GET("/ready", h.Ready)
}

// Health reports process liveness
func (h *HealthHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{
		"status":  "ok",
		"app":     h.appName,
		"version": h.version,
		"uptime":  time.Since(h.startedAt).String(),
	}))
}

// Ready reports whether the service can take traffic
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.db != nil {
		if err := h.db.Ping(); err != nil {
			c.JSON(http.StatusServiceUnavailable, dto.NewErrorResponse(
				shared.CodeDependencyUnavailable, "database is unreachable"))
			return
		}
	}
	c.JSON(http.StatusOK, dto.NewSuccessResponse(gin.H{"status": "ready"}))
}
