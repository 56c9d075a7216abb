package handlers

import (
	"net/http"

	"shiftscore_backend/internal/middleware"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type FacilityHandler struct {
	*BaseHandler
	facilityService services.FacilityService
	billingService  services.BillingService
}

func NewFacilityHandler(base *BaseHandler, facilityService services.FacilityService, billingService services.BillingService) *FacilityHandler {
	return &FacilityHandler{
		BaseHandler:     base,
		facilityService: facilityService,
		billingService:  billingService,
	}
}

func (h *FacilityHandler) RegisterRoutes(r *gin.RouterGroup) {
	facilities := r.Group("/facilities")
	facilities.Use(middleware.OptionalAuthMiddleware())
	{
		facilities.GET("", h.ListFacilities)
		facilities.GET("/:facilityId", h.GetFacility)
		facilities.POST("/compare", h.CompareFacilities)
	}
}

func (h *FacilityHandler) ListFacilities(c *gin.Context) {
	page, pageSize := ParsePagination(c)
	filter := repositories.FacilityFilter{
		State:        c.Query("state"),
		FacilityType: c.Query("facility_type"),
	}

	capability := resolveCapability(c, h.billingService)

	result, err := h.facilityService.List(h.GetDB(c), capability, filter, page, pageSize)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

func (h *FacilityHandler) GetFacility(c *gin.Context) {
	facilityID := c.Param("facilityId")

	capability := resolveCapability(c, h.billingService)

	view, err := h.facilityService.Get(h.GetDB(c), capability, facilityID)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, view)
}

type compareRequest struct {
	FacilityIDs []string `json:"facility_ids" validate:"required,min=2,max=20,dive,uuid"`
}

func (h *FacilityHandler) CompareFacilities(c *gin.Context) {
	var req compareRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	capability := resolveCapability(c, h.billingService)

	views, err := h.facilityService.Compare(h.GetDB(c), capability, req.FacilityIDs)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"facilities": views,
		"total":      len(views),
	})
}
