package services

import (
	"encoding/json"
	"strings"
	"time"

	"shiftscore_backend/internal/config"
	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/pkg/apperrors"

	"github.com/stripe/stripe-go/v79"
	"github.com/stripe/stripe-go/v79/checkout/session"
	"github.com/stripe/stripe-go/v79/customer"
	"github.com/stripe/stripe-go/v79/webhook"
	"gorm.io/gorm"
)

// CheckoutService wires subscription upgrades through Stripe Checkout.
// The webhook is the single source of truth for tier changes; the
// success redirect alone never upgrades anyone.
type CheckoutService interface {
	CreateCheckoutSession(db *gorm.DB, userID string, tier entitlements.Tier) (string, error)
	HandleWebhook(db *gorm.DB, payload []byte, sigHeader string) error
}

type checkoutService struct {
	userRepo         repositories.UserRepository
	subscriptionRepo repositories.SubscriptionRepository
	billingService   BillingService
}

func NewCheckoutService(userRepo repositories.UserRepository, subscriptionRepo repositories.SubscriptionRepository, billingService BillingService) CheckoutService {
	cfg := config.GetConfig()
	stripe.Key = cfg.Stripe.SecretKey

	return &checkoutService{
		userRepo:         userRepo,
		subscriptionRepo: subscriptionRepo,
		billingService:   billingService,
	}
}

func (s *checkoutService) CreateCheckoutSession(db *gorm.DB, userID string, tier entitlements.Tier) (string, error) {
	cfg := config.GetConfig()

	priceID := priceIDFor(cfg, tier)
	frontendURL := strings.TrimRight(cfg.Stripe.FrontendURL, "/")
	if priceID == "" || frontendURL == "" {
		return "", apperrors.ErrBillingNotConfigured
	}

	customerID, err := s.ensureStripeCustomer(db, userID)
	if err != nil {
		return "", err
	}

	params := &stripe.CheckoutSessionParams{
		Mode:     stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		Customer: stripe.String(customerID),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				Price:    stripe.String(priceID),
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(frontendURL + "/billing/success"),
		CancelURL:  stripe.String(frontendURL + "/billing/cancel"),
		Metadata: map[string]string{
			"tier": string(tier),
		},
		SubscriptionData: &stripe.CheckoutSessionSubscriptionDataParams{
			Metadata: map[string]string{
				"tier": string(tier),
			},
		},
	}

	sess, err := session.New(params)
	if err != nil {
		return "", apperrors.ErrCheckoutFailed.WithError(err)
	}

	return sess.URL, nil
}

func (s *checkoutService) HandleWebhook(db *gorm.DB, payload []byte, sigHeader string) error {
	cfg := config.GetConfig()
	if cfg.Stripe.WebhookSecret == "" {
		return apperrors.ErrBillingNotConfigured
	}

	event, err := webhook.ConstructEventWithOptions(
		payload,
		sigHeader,
		cfg.Stripe.WebhookSecret,
		webhook.ConstructEventOptions{
			IgnoreAPIVersionMismatch: true,
		},
	)
	if err != nil {
		return apperrors.ErrWebhookVerification.WithError(err)
	}

	switch event.Type {
	case "checkout.session.completed":
		var sess stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &sess); err != nil {
			return apperrors.NewBadRequestError("invalid session payload")
		}
		return s.completeCheckout(db, &sess)

	case "customer.subscription.deleted":
		var sub stripe.Subscription
		if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
			return apperrors.NewBadRequestError("invalid subscription payload")
		}
		return s.downgradeByStripeSubscription(db, &sub)

	default:
		logger.Debug("ignoring stripe event", "type", string(event.Type))
		return nil
	}
}

func (s *checkoutService) completeCheckout(db *gorm.DB, sess *stripe.CheckoutSession) error {
	if sess.Customer == nil {
		return apperrors.NewBadRequestError("missing customer id")
	}

	user, err := s.userRepo.FindByStripeCustomerID(db, sess.Customer.ID)
	if err != nil {
		return err
	}

	tier := entitlements.TierStarter
	if t := entitlements.Tier(sess.Metadata["tier"]); entitlements.IsKnownTier(t) {
		tier = t
	}

	stripeSubID := ""
	if sess.Subscription != nil {
		stripeSubID = sess.Subscription.ID
	}

	periodEnd := time.Now().AddDate(0, 1, 0)
	if err := s.subscriptionRepo.UpsertTier(db, user.ID, tier, stripeSubID, periodEnd); err != nil {
		return err
	}

	// The cached free status must not outlive the upgrade.
	s.billingService.InvalidateStatus(user.ID)

	logger.Info("checkout completed", "user_id", user.ID, "tier", string(tier))
	return nil
}

func (s *checkoutService) downgradeByStripeSubscription(db *gorm.DB, stripeSub *stripe.Subscription) error {
	sub, err := s.subscriptionRepo.FindByStripeSubscriptionID(db, stripeSub.ID)
	if err != nil {
		return err
	}

	if err := s.subscriptionRepo.UpsertTier(db, sub.UserID, entitlements.TierFree, "", time.Time{}); err != nil {
		return err
	}
	if err := s.subscriptionRepo.UpdateSubscriptionStatus(db, sub.UserID, models.SubscriptionStatusCancelled); err != nil {
		return err
	}

	s.billingService.InvalidateStatus(sub.UserID)

	logger.Info("subscription cancelled via stripe", "user_id", sub.UserID)
	return nil
}

func (s *checkoutService) ensureStripeCustomer(db *gorm.DB, userID string) (string, error) {
	user, err := s.userRepo.FindByID(db, userID)
	if err != nil {
		return "", err
	}

	if user.StripeCustomerID != "" {
		return user.StripeCustomerID, nil
	}

	params := &stripe.CustomerParams{
		Email: stripe.String(user.Email),
		Metadata: map[string]string{
			"user_id": user.ID,
		},
	}
	cust, err := customer.New(params)
	if err != nil {
		return "", apperrors.ErrCheckoutFailed.WithError(err)
	}

	if err := s.userRepo.SetStripeCustomerID(db, user.ID, cust.ID); err != nil {
		return "", err
	}

	return cust.ID, nil
}

func priceIDFor(cfg *config.Config, tier entitlements.Tier) string {
	switch tier {
	case entitlements.TierStarter:
		return cfg.Stripe.PriceStarter
	case entitlements.TierPro:
		return cfg.Stripe.PricePro
	case entitlements.TierPremium:
		return cfg.Stripe.PricePremium
	case entitlements.TierHRAdmin:
		return cfg.Stripe.PriceHRAdmin
	default:
		return ""
	}
}
