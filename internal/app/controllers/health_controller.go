package controllers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yigit/coursehub/internal/app/models/dto"
	"github.com/yigit/coursehub/internal/middleware"
)

// Pinger reports whether a backing store is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthController reports service liveness
type HealthController struct {
	db Pinger
}

// NewHealthController creates a new HealthController. db may be nil.
func NewHealthController(db Pinger) *HealthController {
	return &HealthController{db: db}
}

// Health reports whether the API and its database are up
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} dto.APIResponse "Service is healthy"
// @Failure 500 {object} dto.ErrorResponse "Database unreachable"
// @Router /health [get]
func (c *HealthController) Health(ctx *gin.Context) {
	if c.db != nil {
		pingCtx, cancel := context.WithTimeout(ctx.Request.Context(), 2*time.Second)
		defer cancel()
		if err := c.db.Ping(pingCtx); err != nil {
			middleware.HandleAPIError(ctx, fmt.Errorf("database unreachable: %w", err))
			return
		}
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse("Service is healthy", gin.H{
		"status":    "ok",
		"timestamp": time.Now().UTC(),
	}))
}
