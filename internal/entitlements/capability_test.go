package entitlements

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolve_NilStatusFailsClosed(t *testing.T) {
	t.Parallel()

	capability := Resolve(nil, false, false)

	assert.Equal(t, TierFree, capability.Tier)
	assert.False(t, capability.Active)
	assert.False(t, capability.Authenticated)
	assert.False(t, capability.IsPaid())
	assert.Equal(t, 3, capability.SullyDailyLimit)
	assert.Equal(t, 0, capability.NofilterLimit)
}

func TestResolve_NilStatusKeepsAuthenticatedFlag(t *testing.T) {
	t.Parallel()

	// A logged-in user whose status fetch failed still counts as
	// authenticated, just on the free tier.
	capability := Resolve(nil, true, false)
	assert.True(t, capability.Authenticated)
	assert.Equal(t, TierFree, capability.Tier)
}

func TestResolve_UnknownTierFallsBackToFree(t *testing.T) {
	t.Parallel()

	status := &BillingStatus{Tier: Tier("platinum"), IsActive: true}
	capability := Resolve(status, true, false)

	assert.Equal(t, TierFree, capability.Tier)
	assert.False(t, capability.IsPaid())
}

func TestResolve_StatusFieldsOverrideTierTable(t *testing.T) {
	t.Parallel()

	// The server-side record is authoritative; the table only backfills
	// absent fields.
	limit := 7
	status := &BillingStatus{
		Tier:                TierPro,
		IsActive:            true,
		SullyDailyLimit:     &limit,
		SullyQuestionsToday: 2,
	}
	capability := Resolve(status, true, false)

	assert.Equal(t, 7, capability.SullyDailyLimit, "explicit field wins over the table's 50")
	assert.Equal(t, 5, capability.NofilterLimit, "absent field backfills from the table")
	assert.Equal(t, 2, capability.SullyQuestionsToday)
}

func TestCapability_SetMembershipPredicates(t *testing.T) {
	t.Parallel()

	cases := []struct {
		tier           Tier
		paid, pro, prm bool
	}{
		{TierFree, false, false, false},
		{TierStarter, true, false, false},
		{TierPro, true, true, false},
		{TierPremium, true, true, true},
		{TierHRAdmin, true, true, true},
	}

	for _, tc := range cases {
		capability := Resolve(&BillingStatus{Tier: tc.tier, IsActive: true}, true, false)
		assert.Equal(t, tc.paid, capability.IsPaid(), "%s IsPaid", tc.tier)
		assert.Equal(t, tc.pro, capability.IsProOrAbove(), "%s IsProOrAbove", tc.tier)
		assert.Equal(t, tc.prm, capability.IsPremiumOrAbove(), "%s IsPremiumOrAbove", tc.tier)
	}
}

func TestCapability_CanUseSully(t *testing.T) {
	t.Parallel()

	under := Capability{SullyDailyLimit: 3, SullyQuestionsToday: 2}
	assert.True(t, under.CanUseSully())

	at := Capability{SullyDailyLimit: 3, SullyQuestionsToday: 3}
	assert.False(t, at.CanUseSully())

	unlimited := Capability{SullyDailyLimit: Unlimited, SullyQuestionsToday: 10000}
	assert.True(t, unlimited.CanUseSully())
}

func TestCapability_CanUseNofilter_ZeroMeansDisabled(t *testing.T) {
	t.Parallel()

	disabled := Capability{NofilterLimit: 0, NofilterUsed: 0}
	assert.False(t, disabled.CanUseNofilter(), "zero limit is hard-disabled, not unused quota")

	capped := Capability{NofilterLimit: 1, NofilterUsed: 0}
	assert.True(t, capped.CanUseNofilter())

	exhausted := Capability{NofilterLimit: 1, NofilterUsed: 1}
	assert.False(t, exhausted.CanUseNofilter())

	unlimited := Capability{NofilterLimit: Unlimited, NofilterUsed: 500}
	assert.True(t, unlimited.CanUseNofilter())
}

func TestCapability_CanCompare(t *testing.T) {
	t.Parallel()

	free := FreeCapability()
	assert.False(t, free.CanCompare(2), "free tier cannot compare at all")

	pro := Resolve(&BillingStatus{Tier: TierPro, IsActive: true}, true, false)
	assert.True(t, pro.CanCompare(5))
	assert.False(t, pro.CanCompare(6))

	premium := Resolve(&BillingStatus{Tier: TierPremium, IsActive: true}, true, false)
	assert.True(t, premium.CanCompare(50))
}

func TestCapability_HasFeature(t *testing.T) {
	t.Parallel()

	free := FreeCapability()
	assert.False(t, free.HasFeature(FeatureFullIndices))
	assert.False(t, free.HasFeature(FeatureFacilityCompare), "zero limit reads as absent")
	assert.True(t, free.HasFeature(FeatureSullyDaily), "nonzero limit reads as present")
	assert.False(t, free.HasFeature("no_such_feature"))

	premium := Resolve(&BillingStatus{Tier: TierPremium, IsActive: true}, true, false)
	assert.True(t, premium.HasFeature(FeatureFacilityCompare), "-1 reads as present")
	assert.True(t, premium.HasFeature(FeaturePriorityAlerts))
}

func TestCapability_OverrideShortCircuitsEverything(t *testing.T) {
	t.Parallel()

	capability := FreeCapability()
	capability.Override = true

	assert.True(t, capability.IsPaid())
	assert.True(t, capability.IsPremiumOrAbove())
	assert.True(t, capability.CanUseSully())
	assert.True(t, capability.CanUseNofilter())
	assert.True(t, capability.CanCompare(100))
	assert.True(t, capability.HasFeature(FeaturePDFExport))
}

func TestLoadingCapability_IsPessimistic(t *testing.T) {
	t.Parallel()

	capability := LoadingCapability()
	assert.True(t, capability.Loading)
	assert.Equal(t, TierFree, capability.Tier)
	assert.False(t, capability.IsPaid())
}
