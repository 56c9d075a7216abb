package handlers

import (
	"io"
	"net/http"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/middleware"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/services"
	"shiftscore_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

type BillingHandler struct {
	*BaseHandler
	billingService  services.BillingService
	checkoutService services.CheckoutService
}

func NewBillingHandler(base *BaseHandler, billingService services.BillingService, checkoutService services.CheckoutService) *BillingHandler {
	return &BillingHandler{
		BaseHandler:     base,
		billingService:  billingService,
		checkoutService: checkoutService,
	}
}

func (h *BillingHandler) RegisterRoutes(r *gin.RouterGroup) {
	billing := r.Group("/billing")
	{
		billing.GET("/status", middleware.AuthMiddleware(), h.GetStatus)
		billing.POST("/checkout", middleware.AuthMiddleware(), h.CreateCheckout)
		billing.PUT("/cancel", middleware.AuthMiddleware(), h.CancelSubscription)
		billing.POST("/webhook", h.HandleWebhook) // No auth - Stripe callback
	}
}

// resolveCapability derives the caller's entitlements for this request.
// Admins get the override; anonymous callers resolve to the free tier.
func resolveCapability(c *gin.Context, billing services.BillingService) entitlements.Capability {
	userID := middleware.GetUserID(c)
	isAdmin := middleware.GetUserRole(c) == models.UserRoleAdmin
	return billing.ResolveCapability(c.Request.Context(), userID, isAdmin)
}

func (h *BillingHandler) GetStatus(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	status := h.billingService.GetStatus(c.Request.Context(), userID)
	if status == nil {
		// Resolution failed upstream; report the pessimistic default rather
		// than an error so clients always have something to render.
		status = entitlements.FreeStatus()
	}

	c.JSON(http.StatusOK, status)
}

type checkoutRequest struct {
	Tier string `json:"tier" validate:"required,subscription_tier"`
}

func (h *BillingHandler) CreateCheckout(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	var req checkoutRequest
	if !h.BindAndValidate_JSON(c, &req) {
		return
	}

	tier := entitlements.Tier(req.Tier)
	if tier == entitlements.TierFree {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Cannot purchase the free tier"))
		return
	}

	url, err := h.checkoutService.CreateCheckoutSession(h.GetDB(c), userID, tier)
	if err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"checkout_url": url})
}

func (h *BillingHandler) CancelSubscription(c *gin.Context) {
	userID, ok := h.GetAndAuthorizeUserID(c)
	if !ok {
		return
	}

	if err := h.billingService.CancelSubscription(h.GetDB(c), userID); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Subscription cancelled"})
}

func (h *BillingHandler) HandleWebhook(c *gin.Context) {
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<16))
	if err != nil {
		h.HandleServiceError(c, apperrors.NewBadRequestError("Failed to read webhook payload"))
		return
	}

	sigHeader := c.GetHeader("Stripe-Signature")
	if err := h.checkoutService.HandleWebhook(h.GetDB(c), payload, sigHeader); err != nil {
		h.HandleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}
