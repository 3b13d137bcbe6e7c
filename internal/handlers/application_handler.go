package handlers

import (
	"fmt"
	"mime"
	"net/http"
	"path"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type ApplicationHandler struct {
	*BaseHandler
	applicationService services.ApplicationService
}

func NewApplicationHandler(base *BaseHandler, applicationService services.ApplicationService) *ApplicationHandler {
	return &ApplicationHandler{
		BaseHandler:        base,
		applicationService: applicationService,
	}
}

// RegisterRoutes регистрирует маршруты /application. applyGuard ставится перед откликом.
func (h *ApplicationHandler) RegisterRoutes(rg *gin.RouterGroup, applyGuard ...gin.HandlerFunc) {
	applications := rg.Group("/application")
	{
		applications.GET("", h.ListMine)
		applications.GET("/applicant-jobs", h.ListMineWithJobs)
		applications.GET("/recruiter-applications", h.ListForRecruiter)
		applications.POST("/apply", append(applyGuard, h.Apply)...)
		applications.PATCH("/:id", h.UpdateStatus)
		applications.GET("/:id/download-resume", h.DownloadResume)
	}
}

// Apply - multipart: jobId и необязательный файл resume
func (h *ApplicationHandler) Apply(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.ApplyRequest
	if !h.BindAndValidate_Form(c, &req) {
		return
	}
	file, ok := h.OptionalFormFile(c, "resume")
	if !ok {
		return
	}
	req.Resume = file

	application, err := h.applicationService.Apply(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"result": application})
}

func (h *ApplicationHandler) ListMine(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListMine(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": applications, "total": len(applications)})
}

func (h *ApplicationHandler) ListMineWithJobs(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	applications, err := h.applicationService.ListMineWithJobs(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": applications, "total": len(applications)})
}

func (h *ApplicationHandler) ListForRecruiter(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.ListApplicationsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	page, err := h.applicationService.ListForRecruiter(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *ApplicationHandler) UpdateStatus(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateApplicationStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	application, err := h.applicationService.UpdateStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), actor, req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": application})
}

// DownloadResume отдает резюме потоком, не загружая файл в память
func (h *ApplicationHandler) DownloadResume(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	rc, name, err := h.applicationService.OpenResume(c.Request.Context(), h.GetDB(c), c.Param("id"), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}
	defer rc.Close()

	contentType := mime.TypeByExtension(path.Ext(name))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Content-Disposition": fmt.Sprintf(`attachment; filename="%s"`, name),
	})
}
