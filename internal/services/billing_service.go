package services

import (
	"context"
	"errors"
	"time"

	"shiftscore_backend/internal/config"
	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/statuscache"

	"gorm.io/gorm"
)

// BillingService resolves the authoritative billing status and derives
// capability objects for gating. Resolution is fail-closed: any failure
// along the way yields a free-tier capability, never an error surfaced
// to rendering paths.
type BillingService interface {
	// GetStatus returns the billing status for a user, served from the
	// shared cache. Returns nil when the user cannot be resolved.
	GetStatus(ctx context.Context, userID string) *entitlements.BillingStatus

	// ResolveCapability builds the capability object for a request.
	// adminOverride is injected by the caller (derived from the
	// authenticated role at the app root, never read from globals) and
	// short-circuits before any fetch.
	ResolveCapability(ctx context.Context, userID string, adminOverride bool) entitlements.Capability

	// InvalidateStatus drops the cached status after a billing action.
	InvalidateStatus(userID string)

	CancelSubscription(db *gorm.DB, userID string) error
}

type billingService struct {
	db               *gorm.DB
	subscriptionRepo repositories.SubscriptionRepository
	cache            *statuscache.Cache
	devBypass        bool
}

func NewBillingService(db *gorm.DB, subscriptionRepo repositories.SubscriptionRepository) BillingService {
	cfg := config.GetConfig()

	s := &billingService{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		devBypass:        cfg.Billing.DevBypass,
	}
	s.cache = statuscache.New(s.fetchStatus, time.Duration(cfg.Billing.StatusCacheTTL)*time.Second)
	return s
}

func (s *billingService) GetStatus(ctx context.Context, userID string) *entitlements.BillingStatus {
	if userID == "" {
		return nil
	}

	status, err := s.cache.Get(ctx, userID)
	if err != nil {
		// One retry, then give up and let the caller fail closed.
		s.cache.Invalidate(userID)
		status, err = s.cache.Get(ctx, userID)
		if err != nil {
			logger.CtxWithError(ctx, "billing status fetch failed, resolving as free", err, "user_id", userID)
			return nil
		}
	}
	return status
}

func (s *billingService) ResolveCapability(ctx context.Context, userID string, adminOverride bool) entitlements.Capability {
	// Dev bypass: no fetch, full access. Config refuses this outside the
	// development environment.
	if s.devBypass {
		return entitlements.DevBypassCapability()
	}

	// Override short-circuits before the cache is ever consulted.
	if adminOverride {
		capability := entitlements.DevBypassCapability()
		capability.Override = true
		return capability
	}

	if userID == "" {
		return entitlements.Resolve(nil, false, false)
	}

	status := s.GetStatus(ctx, userID)
	return entitlements.Resolve(status, true, false)
}

func (s *billingService) InvalidateStatus(userID string) {
	s.cache.Invalidate(userID)
}

func (s *billingService) CancelSubscription(db *gorm.DB, userID string) error {
	if err := s.subscriptionRepo.CancelUserSubscription(db, userID); err != nil {
		return err
	}
	s.cache.Invalidate(userID)
	return nil
}

// fetchStatus assembles the status payload from the subscription and
// usage rows. Runs behind the cache's singleflight, so concurrent
// consumers share one round-trip.
func (s *billingService) fetchStatus(ctx context.Context, userID string) (*entitlements.BillingStatus, error) {
	db := s.db.WithContext(ctx)

	sub, err := s.subscriptionRepo.FindUserSubscription(db, userID)
	if err != nil {
		if errors.Is(err, repositories.ErrSubscriptionNotFound) {
			// Registered user who never subscribed: a real free status.
			return s.buildStatus(db, userID, nil)
		}
		return nil, err
	}

	return s.buildStatus(db, userID, sub)
}

func (s *billingService) buildStatus(db *gorm.DB, userID string, sub *models.UserSubscription) (*entitlements.BillingStatus, error) {
	tier := entitlements.TierFree
	isActive := false
	var expiresAt *time.Time
	var trialEndsAt *time.Time
	isTrial := false

	if sub != nil {
		switch sub.Status {
		case models.SubscriptionStatusActive, models.SubscriptionStatusTrialing:
			tier = sub.Tier
			isActive = true
		default:
			// expired/cancelled rows resolve as free
		}
		if !sub.CurrentPeriodEnd.IsZero() {
			end := sub.CurrentPeriodEnd
			expiresAt = &end
		}
		trialEndsAt = sub.TrialEndsAt
		isTrial = sub.Status == models.SubscriptionStatusTrialing
	}

	if !entitlements.IsKnownTier(tier) {
		logger.Warn("unknown tier in subscription row, defaulting to free",
			"user_id", userID, "tier", string(tier))
		tier = entitlements.TierFree
	}

	features := entitlements.FeaturesFor(tier)

	usage, err := s.subscriptionRepo.GetOrCreateUsage(db, userID)
	if err != nil {
		return nil, err
	}

	enabled := []string{}
	for _, name := range entitlements.FeatureNames() {
		if value, ok := features.Value(name); ok && value.Enabled() {
			enabled = append(enabled, name)
		}
	}

	return &entitlements.BillingStatus{
		Tier:     tier,
		TierName: tier.DisplayName(),
		IsActive: isActive,

		ExpiresAt: expiresAt,

		SullyDailyLimit:     intPtr(features.SullyDaily),
		SullyQuestionsToday: usage.QuestionsToday,
		NofilterLimit:       intPtr(features.SullyNofilter),
		NofilterUsed:        usage.NofilterToday,
		TokensRemaining:     usage.TokensRemaining,
		ComparisonLimit:     intPtr(features.FacilityCompare),
		SavedJobsLimit:      intPtr(savedJobsLimitFor(tier)),

		Features: enabled,

		TrialEndsAt: trialEndsAt,
		IsTrial:     isTrial,

		CanAccessPersonalized:  boolPtr(features.PersonalizedResults),
		CanAccessResumeBuilder: boolPtr(features.ResumeBuilder),
		CanExportPDF:           boolPtr(features.PDFExport),
	}, nil
}

// savedJobsLimitFor is a display limit not carried in the tier table.
func savedJobsLimitFor(tier entitlements.Tier) int {
	switch tier {
	case entitlements.TierFree:
		return 5
	case entitlements.TierStarter:
		return 25
	default:
		return entitlements.Unlimited
	}
}

func intPtr(v int) *int {
	return &v
}

func boolPtr(v bool) *bool {
	return &v
}
