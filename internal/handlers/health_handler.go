package handlers

import (
	"net/http"

	"jobportal_backend/internal/logger"

	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	*BaseHandler
}

func NewHealthHandler(base *BaseHandler) *HealthHandler {
	return &HealthHandler{BaseHandler: base}
}

func (h *HealthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/health", h.Health)
}

// Health проверяет соединение с базой
func (h *HealthHandler) Health(c *gin.Context) {
	status := http.StatusOK
	dbState := "up"

	sqlDB, err := h.GetDB(c).DB()
	if err == nil {
		err = sqlDB.PingContext(c.Request.Context())
	}
	if err != nil {
		logger.CtxWithError(c.Request.Context(), "Health check: database unavailable", err)
		status = http.StatusServiceUnavailable
		dbState = "down"
	}

	c.JSON(status, gin.H{"status": http.StatusText(status), "database": dbState})
}
