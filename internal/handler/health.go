package handler

import (
	"context"
	"net/http"
	"time"

	"PilatesStudioManager/internal/storage"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	store *storage.Store
}

func NewHealthHandler(store *storage.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// Check godoc
// @Summary      Liveness and database health
// @Tags         Health
// @Produce      json
// @Success      200 {object} map[string]string
// @Failure      503 {object} map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	if err := h.store.Ping(ctx); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "database": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
