package handlers

import (
	"context"
	"net/http"
	"time"

	"comicweb_backend/internal/logger"
	"comicweb_backend/pkg/response"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type HealthHandler struct {
	db *gorm.DB
}

func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Health - liveness и ping базы
func (h *HealthHandler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status := "ok"
	code := http.StatusOK
	if sqlDB, err := h.db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
		logger.CtxWarn(ctx, "health check: database unavailable")
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	response.JSON(c, code, "", gin.H{
		"status":   status,
		"database": status == "ok",
		"time":     time.Now().UTC(),
	})
}
