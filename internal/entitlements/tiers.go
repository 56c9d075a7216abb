package entitlements

// Tier is a named subscription plan.
type Tier string

const (
	TierFree    Tier = "free"
	TierStarter Tier = "starter"
	TierPro     Tier = "pro"
	TierPremium Tier = "premium"
	TierHRAdmin Tier = "hr_admin"
)

// Unlimited is the sentinel for limits without a cap. A limit of zero
// means the feature is hard-disabled, not "unused quota".
const Unlimited = -1

// TierFeatures is the static per-tier feature/limit record. It is the
// client-side fallback when the billing record lacks a field; the billing
// record itself stays authoritative.
type TierFeatures struct {
	FullIndices         bool
	FacilityCompare     int // -1 unlimited, 0 disabled, >0 cap
	SullyDaily          int // daily question cap
	SullyNofilter       int // separate cap for unfiltered mode
	PDFExport           bool
	CustomWeights       bool
	TrendAnalytics      bool
	PriorityAlerts      bool
	PersonalizedResults bool
	ResumeBuilder       bool
}

// orderedTiers lists tiers by increasing privilege. Gating never compares
// ranks directly; predicates use explicit set membership.
var orderedTiers = []Tier{TierFree, TierStarter, TierPro, TierPremium, TierHRAdmin}

var tierTable = map[Tier]TierFeatures{
	TierFree: {
		FacilityCompare: 0,
		SullyDaily:      3,
		SullyNofilter:   0,
	},
	TierStarter: {
		FullIndices:         true,
		FacilityCompare:     2,
		SullyDaily:          10,
		SullyNofilter:       1,
		PersonalizedResults: true,
		ResumeBuilder:       true,
	},
	TierPro: {
		FullIndices:         true,
		FacilityCompare:     5,
		SullyDaily:          50,
		SullyNofilter:       5,
		PDFExport:           true,
		CustomWeights:       true,
		TrendAnalytics:      true,
		PersonalizedResults: true,
		ResumeBuilder:       true,
	},
	TierPremium: {
		FullIndices:         true,
		FacilityCompare:     Unlimited,
		SullyDaily:          Unlimited,
		SullyNofilter:       20,
		PDFExport:           true,
		CustomWeights:       true,
		TrendAnalytics:      true,
		PriorityAlerts:      true,
		PersonalizedResults: true,
		ResumeBuilder:       true,
	},
	// hr_admin currently mirrors premium; kept as a separate row so the
	// two can diverge without a schema change.
	TierHRAdmin: {
		FullIndices:         true,
		FacilityCompare:     Unlimited,
		SullyDaily:          Unlimited,
		SullyNofilter:       20,
		PDFExport:           true,
		CustomWeights:       true,
		TrendAnalytics:      true,
		PriorityAlerts:      true,
		PersonalizedResults: true,
		ResumeBuilder:       true,
	},
}

// FeaturesFor returns the static record for a tier. Unknown tiers resolve
// to the free record: this sits on a user-facing path, so it fails closed
// instead of panicking.
func FeaturesFor(tier Tier) TierFeatures {
	if features, ok := tierTable[tier]; ok {
		return features
	}
	return tierTable[TierFree]
}

// IsKnownTier reports whether tier is one of the five defined tiers.
func IsKnownTier(tier Tier) bool {
	_, ok := tierTable[tier]
	return ok
}

// KnownTiers returns the tiers ordered by increasing privilege.
func KnownTiers() []Tier {
	out := make([]Tier, len(orderedTiers))
	copy(out, orderedTiers)
	return out
}

// DisplayName returns the user-facing plan name.
func (t Tier) DisplayName() string {
	switch t {
	case TierFree:
		return "Free"
	case TierStarter:
		return "Starter"
	case TierPro:
		return "Pro"
	case TierPremium:
		return "Premium"
	case TierHRAdmin:
		return "HR Admin"
	default:
		return "Free"
	}
}
