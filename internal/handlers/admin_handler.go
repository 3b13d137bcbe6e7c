package handlers

import (
	"net/http"

	"jobportal_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type AdminHandler struct {
	*BaseHandler
	adminService services.AdminService
}

func NewAdminHandler(base *BaseHandler, adminService services.AdminService) *AdminHandler {
	return &AdminHandler{
		BaseHandler:  base,
		adminService: adminService,
	}
}

func (h *AdminHandler) RegisterRoutes(rg *gin.RouterGroup) {
	admin := rg.Group("/admin")
	{
		admin.GET("/info", h.Stats)
		admin.GET("/monthly-stats", h.MonthlyStats)
	}
}

func (h *AdminHandler) Stats(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	stats, err := h.adminService.Stats(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

func (h *AdminHandler) MonthlyStats(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	stats, err := h.adminService.MonthlyStats(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": stats})
}
