package handlers

import (
	"net/http"

	"jobportal_backend/internal/services"
	"jobportal_backend/internal/services/dto"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService services.JobService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService) *JobHandler {
	return &JobHandler{
		BaseHandler: base,
		jobService:  jobService,
	}
}

func (h *JobHandler) RegisterRoutes(rg *gin.RouterGroup) {
	jobs := rg.Group("/jobs")
	{
		jobs.GET("", h.ListJobs)
		// /my-jobs раньше /:id
		jobs.GET("/my-jobs", h.ListMyJobs)
		jobs.GET("/:id", h.GetJob)
		jobs.POST("", h.CreateJob)
		jobs.PATCH("/:id", h.UpdateJob)
		jobs.DELETE("/:id", h.DeleteJob)
		jobs.PATCH("/:id/status", h.ChangeStatus)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	var req dto.ListJobsRequest
	if !h.BindAndValidate_Query(c, &req) {
		return
	}

	page, err := h.jobService.ListJobs(c.Request.Context(), h.GetDB(c), &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, page)
}

func (h *JobHandler) ListMyJobs(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	jobs, err := h.jobService.ListMyJobs(c.Request.Context(), h.GetDB(c), actor)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": jobs, "total": len(jobs)})
}

func (h *JobHandler) GetJob(c *gin.Context) {
	job, err := h.jobService.GetJob(c.Request.Context(), h.GetDB(c), c.Param("id"))
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": job})
}

func (h *JobHandler) CreateJob(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.CreateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.CreateJob(c.Request.Context(), h.GetDB(c), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"result": job})
}

func (h *JobHandler) UpdateJob(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.UpdateJobRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.UpdateJob(c.Request.Context(), h.GetDB(c), c.Param("id"), actor, &req)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": job})
}

func (h *JobHandler) ChangeStatus(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	var req dto.ChangeJobStatusRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	job, err := h.jobService.ChangeStatus(c.Request.Context(), h.GetDB(c), c.Param("id"), actor, req.Status)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"result": job})
}

func (h *JobHandler) DeleteJob(c *gin.Context) {
	actor, ok := h.RequireIdentity(c)
	if !ok {
		return
	}

	if err := h.jobService.DeleteJob(c.Request.Context(), h.GetDB(c), c.Param("id"), actor); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Job deleted successfully"})
}
