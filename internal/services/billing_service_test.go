package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBillingGetStatus_NeverSubscribedResolvesAsFree(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{}
	service := NewBillingService(testDB(), subRepo)

	status := service.GetStatus(context.Background(), "u1")
	require.NotNil(t, status)

	assert.Equal(t, entitlements.TierFree, status.Tier)
	assert.False(t, status.IsActive)
	require.NotNil(t, status.SullyDailyLimit)
	assert.Equal(t, 3, *status.SullyDailyLimit)
	require.NotNil(t, status.ComparisonLimit)
	assert.Equal(t, 0, *status.ComparisonLimit)
	assert.NotContains(t, status.Features, entitlements.FeatureFacilityCompare, "zero limit is absent from the feature list")
	assert.Contains(t, status.Features, entitlements.FeatureSullyDaily)
}

func TestBillingGetStatus_ActiveSubscription(t *testing.T) {
	t.Parallel()

	end := time.Now().Add(20 * 24 * time.Hour)
	subRepo := &fakeSubscriptionRepo{
		sub: &models.UserSubscription{
			UserID:           "u1",
			Tier:             entitlements.TierPro,
			Status:           models.SubscriptionStatusActive,
			CurrentPeriodEnd: end,
		},
		usage: &models.SullyUsage{UserID: "u1", QuestionsToday: 4, NofilterToday: 1},
	}
	service := NewBillingService(testDB(), subRepo)

	status := service.GetStatus(context.Background(), "u1")
	require.NotNil(t, status)

	assert.Equal(t, entitlements.TierPro, status.Tier)
	assert.True(t, status.IsActive)
	assert.Equal(t, 4, status.SullyQuestionsToday)
	assert.Equal(t, 1, status.NofilterUsed)
	require.NotNil(t, status.ExpiresAt)
	assert.Contains(t, status.Features, entitlements.FeaturePDFExport)
	require.NotNil(t, status.CanExportPDF)
	assert.True(t, *status.CanExportPDF)
}

func TestBillingGetStatus_ExpiredSubscriptionResolvesAsFree(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{
		sub: &models.UserSubscription{
			UserID: "u1",
			Tier:   entitlements.TierPremium,
			Status: models.SubscriptionStatusExpired,
		},
	}
	service := NewBillingService(testDB(), subRepo)

	status := service.GetStatus(context.Background(), "u1")
	require.NotNil(t, status)
	assert.Equal(t, entitlements.TierFree, status.Tier)
	assert.False(t, status.IsActive)
}

func TestBillingGetStatus_UnknownTierRowResolvesAsFree(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{
		sub: &models.UserSubscription{
			UserID: "u1",
			Tier:   entitlements.Tier("legacy_gold"),
			Status: models.SubscriptionStatusActive,
		},
	}
	service := NewBillingService(testDB(), subRepo)

	status := service.GetStatus(context.Background(), "u1")
	require.NotNil(t, status)
	assert.Equal(t, entitlements.TierFree, status.Tier)
}

func TestBillingGetStatus_FetchFailureReturnsNil(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{subErr: errors.New("db down")}
	service := NewBillingService(testDB(), subRepo)

	status := service.GetStatus(context.Background(), "u1")
	assert.Nil(t, status)
}

func TestBillingResolveCapability_AnonymousIsFree(t *testing.T) {
	t.Parallel()

	service := NewBillingService(testDB(), &fakeSubscriptionRepo{})

	capability := service.ResolveCapability(context.Background(), "", false)
	assert.Equal(t, entitlements.TierFree, capability.Tier)
	assert.False(t, capability.Authenticated)
	assert.False(t, capability.Override)
}

func TestBillingResolveCapability_FetchFailureFailsClosed(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{subErr: errors.New("db down")}
	service := NewBillingService(testDB(), subRepo)

	capability := service.ResolveCapability(context.Background(), "u1", false)
	assert.Equal(t, entitlements.TierFree, capability.Tier)
	assert.True(t, capability.Authenticated, "the session is known even when billing is not")
	assert.False(t, capability.Loading, "a settled failure is not a loading state")
}

func TestBillingResolveCapability_AdminOverrideSkipsFetch(t *testing.T) {
	t.Parallel()

	// A repo that fails loudly proves the override path never fetches.
	subRepo := &fakeSubscriptionRepo{subErr: errors.New("must not be called")}
	service := NewBillingService(testDB(), subRepo)

	capability := service.ResolveCapability(context.Background(), "admin", true)
	assert.True(t, capability.Override)
	assert.True(t, capability.IsPremiumOrAbove())
	assert.True(t, capability.CanUseNofilter())
}

func TestBillingCapability_StatusIsCachedAcrossResolves(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{
		sub: &models.UserSubscription{
			UserID: "u1",
			Tier:   entitlements.TierStarter,
			Status: models.SubscriptionStatusActive,
		},
	}
	service := NewBillingService(testDB(), subRepo)

	first := service.ResolveCapability(context.Background(), "u1", false)
	assert.Equal(t, entitlements.TierStarter, first.Tier)

	// Flip the row; the cached status should still be served.
	subRepo.sub.Tier = entitlements.TierPremium
	second := service.ResolveCapability(context.Background(), "u1", false)
	assert.Equal(t, entitlements.TierStarter, second.Tier)

	// Invalidation picks up the new row.
	service.InvalidateStatus("u1")
	third := service.ResolveCapability(context.Background(), "u1", false)
	assert.Equal(t, entitlements.TierPremium, third.Tier)
}

func TestBillingCancelSubscription_InvalidatesCache(t *testing.T) {
	t.Parallel()

	subRepo := &fakeSubscriptionRepo{
		sub: &models.UserSubscription{
			UserID: "u1",
			Tier:   entitlements.TierPro,
			Status: models.SubscriptionStatusActive,
		},
	}
	service := NewBillingService(testDB(), subRepo)

	capability := service.ResolveCapability(context.Background(), "u1", false)
	assert.Equal(t, entitlements.TierPro, capability.Tier)

	subRepo.sub.Status = models.SubscriptionStatusCancelled
	require.NoError(t, service.CancelSubscription(testDB(), "u1"))
	assert.Equal(t, []string{"u1"}, subRepo.cancelled)

	after := service.ResolveCapability(context.Background(), "u1", false)
	assert.Equal(t, entitlements.TierFree, after.Tier, "cancellation must not serve the stale paid status")
}
