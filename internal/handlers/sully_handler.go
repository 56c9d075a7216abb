package handlers

import (
	"net/http"

	"shiftscore_backend/internal/middleware"
	"shiftscore_backend/internal/services"

	"github.com/gin-gonic/gin"
)

type SullyHandler struct {
	*BaseHandler
	sullyService   services.SullyService
	billingService services.BillingService
}

func NewSullyHandler(base *BaseHandler, sullyService services.SullyService, billingService services.BillingService) *SullyHandler {
	return &SullyHandler{
		BaseHandler:    base,
		sullyService:   sullyService,
		billingService: billingService,
	}
}

func (h *SullyHandler) RegisterRoutes(r *gin.RouterGroup) {
	sully := r.Group("/sully")
	sully.Use(middleware.AuthMiddleware())
	{
		sully.POST("/ask", h.Ask)
		sully.GET("/quota", h.GetQuota)
	}
}

type sullyAskRequest struct {
	Question string `json:"question" validate:"required,min=3,max=2000"`
	Nofilter bool   `json:"nofilter"`
}

func (h *SullyHandler) Ask(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req sullyAskRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	capability := resolveCapability(c, h.billingService)

	answer, err := h.sullyService.Ask(c.Request.Context(), h.GetDB(c), capability, userID, req.Question, req.Nofilter)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, answer)
}

func (h *SullyHandler) GetQuota(c *gin.Context) {
	if _, ok := h.GetAndAuthorizeUserID(c); !ok {
		return
	}

	capability := resolveCapability(c, h.billingService)
	c.JSON(http.StatusOK, h.sullyService.Quota(capability))
}
