package visibility

import (
	"testing"

	"shiftscore_backend/internal/entitlements"

	"github.com/stretchr/testify/assert"
)

func paidCapability(tier entitlements.Tier) entitlements.Capability {
	return entitlements.Resolve(&entitlements.BillingStatus{Tier: tier, IsActive: true}, true, false)
}

func freeAuthenticated() entitlements.Capability {
	capability := entitlements.FreeCapability()
	capability.Authenticated = true
	return capability
}

func TestEvaluate_PaidViewerSeesEverything(t *testing.T) {
	t.Parallel()

	capability := paidCapability(entitlements.TierStarter)

	for index := 0; index < 10; index++ {
		decision := Evaluate(FacilitiesView, capability, Item{Index: index, FacilityName: "Mercy General"})
		assert.Equal(t, DecisionFullAccess, decision, "index %d", index)
	}
}

func TestEvaluate_TopThreeRevealOnFacilitiesView(t *testing.T) {
	t.Parallel()

	capability := freeAuthenticated()

	for index := 0; index < 3; index++ {
		decision := Evaluate(FacilitiesView, capability, Item{Index: index, FacilityName: "Mercy General"})
		assert.Equal(t, DecisionFullAccess, decision, "top-3 index %d reveals", index)
	}

	decision := Evaluate(FacilitiesView, capability, Item{Index: 3, FacilityName: "Mercy General"})
	assert.Equal(t, DecisionAttributeBlurred, decision, "index 3 is past the reveal window")
}

func TestEvaluate_JobsViewHasNoPositionalReveal(t *testing.T) {
	t.Parallel()

	capability := freeAuthenticated()

	// The same rank that reveals a facility score never reveals pay.
	decision := Evaluate(JobsView, capability, Item{Index: 0, FacilityName: "Mercy General"})
	assert.Equal(t, DecisionAttributeBlurred, decision)
}

func TestEvaluate_RestrictedFacilityOutranksPositionalReveal(t *testing.T) {
	t.Parallel()

	capability := freeAuthenticated()

	// Rank 1 would reveal, but the restricted list wins.
	decision := Evaluate(FacilitiesView, capability, Item{Index: 0, FacilityName: "Inova Fairfax Hospital"})
	assert.Equal(t, DecisionGradeOnlyLocked, decision)
}

func TestEvaluate_RestrictedFacilityDoesNotOutrankCapability(t *testing.T) {
	t.Parallel()

	capability := paidCapability(entitlements.TierPremium)

	decision := Evaluate(FacilitiesView, capability, Item{Index: 0, FacilityName: "Johns Hopkins Medical Center"})
	assert.Equal(t, DecisionFullAccess, decision, "paying viewers see restricted facilities in full")
}

func TestEvaluate_AnonymousRowCutoff(t *testing.T) {
	t.Parallel()

	anonymous := entitlements.FreeCapability()

	decision := Evaluate(FacilitiesView, anonymous, Item{Index: 5, FacilityName: "Mercy General"})
	assert.Equal(t, DecisionRowLocked, decision, "anonymous viewers lose whole rows past the cutoff")

	authenticated := freeAuthenticated()
	decision = Evaluate(FacilitiesView, authenticated, Item{Index: 5, FacilityName: "Mercy General"})
	assert.Equal(t, DecisionAttributeBlurred, decision, "logged-in free viewers keep the row, blurred")
}

func TestEvaluate_LoadingIsTreatedAsAnonymousFree(t *testing.T) {
	t.Parallel()

	// Even a capability claiming premium locks down while unsettled.
	capability := paidCapability(entitlements.TierPremium)
	capability.Loading = true

	decision := Evaluate(FacilitiesView, capability, Item{Index: 5, FacilityName: "Mercy General"})
	assert.Equal(t, DecisionRowLocked, decision)
}

func TestEvaluate_TopSetRevealForBadges(t *testing.T) {
	t.Parallel()

	capability := freeAuthenticated()

	in := Evaluate(JobFacilityBadgeView, capability, Item{Index: 40, FacilityName: "Mercy General", InTopSet: true})
	assert.Equal(t, DecisionFullAccess, in, "top-set membership reveals regardless of position")

	out := Evaluate(JobFacilityBadgeView, capability, Item{Index: 0, FacilityName: "Mercy General", InTopSet: false})
	assert.Equal(t, DecisionAttributeBlurred, out)
}

func TestEvaluate_OverrideWinsOnEveryView(t *testing.T) {
	t.Parallel()

	capability := entitlements.FreeCapability()
	capability.Override = true

	for _, view := range []ViewConfig{FacilitiesView, JobsView, JobFacilityBadgeView} {
		decision := Evaluate(view, capability, Item{Index: 99, FacilityName: "Inova Fairfax Hospital"})
		assert.Equal(t, DecisionFullAccess, decision, view.Name)
	}
}

func TestIsRestrictedFacility(t *testing.T) {
	t.Parallel()

	assert.True(t, IsRestrictedFacility("INOVA FAIRFAX"))
	assert.True(t, IsRestrictedFacility("Johns Hopkins Bayview"))
	assert.False(t, IsRestrictedFacility("Mercy General"))
	assert.False(t, IsRestrictedFacility(""))
}
