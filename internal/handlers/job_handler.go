package handlers

import (
	"net/http"

	"shiftscore_backend/internal/middleware"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	*BaseHandler
	jobService     services.JobService
	billingService services.BillingService
}

func NewJobHandler(base *BaseHandler, jobService services.JobService, billingService services.BillingService) *JobHandler {
	return &JobHandler{
		BaseHandler:    base,
		jobService:     jobService,
		billingService: billingService,
	}
}

func (h *JobHandler) RegisterRoutes(r *gin.RouterGroup) {
	jobs := r.Group("/jobs")
	jobs.Use(middleware.OptionalAuthMiddleware())
	{
		jobs.GET("", h.ListJobs)
		jobs.GET("/:jobId", h.GetJob)
	}
}

func (h *JobHandler) ListJobs(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.JobFilter{
		Specialty: c.Query("specialty"),
		State:     c.Query("state"),
		ShiftType: c.Query("shift_type"),
	}

	capability := resolveCapability(c, h.billingService)

	result, err := h.jobService.List(h.GetDB(c), capability, filter, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *JobHandler) GetJob(c *gin.Context) {
	jobID := c.Param("jobId")

	capability := resolveCapability(c, h.billingService)

	view, err := h.jobService.Get(h.GetDB(c), capability, jobID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}
