package entitlements

// Capability is the derived access object every gating decision reads.
// It merges the fetched billing record with tier-table defaults and is
// always fully formed: a failed or pending fetch yields the free-tier
// capability, never an error.
type Capability struct {
	Tier     Tier
	TierName string
	Active   bool

	// Authenticated is true when the capability was resolved for a logged
	// in user, false for anonymous viewers.
	Authenticated bool

	// Loading marks a capability whose fetch has not settled yet. Callers
	// must treat it as the most restrictive state (no optimistic unlock).
	Loading bool

	// Override forces every predicate to the most permissive outcome. It
	// is injected by the resolver, not read from ambient state, and is
	// checked before anything fetch-dependent.
	Override bool

	SullyDailyLimit     int
	SullyQuestionsToday int
	NofilterLimit       int
	NofilterUsed        int
	ComparisonLimit     int
	SavedJobsLimit      int
	TokensRemaining     int
	IsTrial             bool

	CanAccessPersonalized  bool
	CanAccessResumeBuilder bool
	CanExportPDF           bool

	features TierFeatures
}

// Resolve builds a capability from a billing status. A nil status (fetch
// failed, 401/403, anonymous) resolves fail-closed to free.
func Resolve(status *BillingStatus, authenticated, override bool) Capability {
	if status == nil {
		capability := FreeCapability()
		capability.Authenticated = authenticated
		capability.Override = override
		return capability
	}

	tier := status.Tier
	if !IsKnownTier(tier) {
		// Data-contract anomaly from the backend; fail closed.
		tier = TierFree
	}
	features := FeaturesFor(tier)

	tierName := status.TierName
	if tierName == "" {
		tierName = tier.DisplayName()
	}

	return Capability{
		Tier:          tier,
		TierName:      tierName,
		Active:        status.IsActive,
		Authenticated: authenticated,
		Override:      override,

		SullyDailyLimit:     intOr(status.SullyDailyLimit, features.SullyDaily),
		SullyQuestionsToday: status.SullyQuestionsToday,
		NofilterLimit:       intOr(status.NofilterLimit, features.SullyNofilter),
		NofilterUsed:        status.NofilterUsed,
		ComparisonLimit:     intOr(status.ComparisonLimit, features.FacilityCompare),
		SavedJobsLimit:      intOr(status.SavedJobsLimit, 0),
		TokensRemaining:     status.TokensRemaining,
		IsTrial:             status.IsTrial,

		CanAccessPersonalized:  boolOr(status.CanAccessPersonalized, features.PersonalizedResults),
		CanAccessResumeBuilder: boolOr(status.CanAccessResumeBuilder, features.ResumeBuilder),
		CanExportPDF:           boolOr(status.CanExportPDF, features.PDFExport),

		features: features,
	}
}

// FreeCapability is the fail-closed default: free tier, zero usage.
func FreeCapability() Capability {
	features := FeaturesFor(TierFree)
	return Capability{
		Tier:            TierFree,
		TierName:        TierFree.DisplayName(),
		SullyDailyLimit: features.SullyDaily,
		NofilterLimit:   features.SullyNofilter,
		ComparisonLimit: features.FacilityCompare,
		features:        features,
	}
}

// LoadingCapability is what callers see while the fetch is in flight.
func LoadingCapability() Capability {
	capability := FreeCapability()
	capability.Loading = true
	return capability
}

// DevBypassCapability returns a full-access capability for development
// without a live billing backend. The config layer refuses to enable the
// bypass outside the development environment.
func DevBypassCapability() Capability {
	features := FeaturesFor(TierHRAdmin)
	return Capability{
		Tier:          TierHRAdmin,
		TierName:      TierHRAdmin.DisplayName(),
		Active:        true,
		Authenticated: true,

		SullyDailyLimit: Unlimited,
		NofilterLimit:   Unlimited,
		ComparisonLimit: Unlimited,
		SavedJobsLimit:  Unlimited,

		CanAccessPersonalized:  true,
		CanAccessResumeBuilder: true,
		CanExportPDF:           true,

		features: features,
	}
}

// IsPaid reports whether the tier is anything above free.
func (c Capability) IsPaid() bool {
	if c.Override {
		return true
	}
	return c.Tier != TierFree
}

func (c Capability) IsProOrAbove() bool {
	if c.Override {
		return true
	}
	switch c.Tier {
	case TierPro, TierPremium, TierHRAdmin:
		return true
	}
	return false
}

func (c Capability) IsPremiumOrAbove() bool {
	if c.Override {
		return true
	}
	switch c.Tier {
	case TierPremium, TierHRAdmin:
		return true
	}
	return false
}

// CanUseSully reports whether another Sully question is allowed today.
func (c Capability) CanUseSully() bool {
	if c.Override {
		return true
	}
	if c.SullyDailyLimit == Unlimited {
		return true
	}
	return c.SullyQuestionsToday < c.SullyDailyLimit
}

// CanUseNofilter reports whether unfiltered mode is allowed. A limit of
// exactly zero means hard-disabled regardless of usage.
func (c Capability) CanUseNofilter() bool {
	if c.Override {
		return true
	}
	if c.NofilterLimit == Unlimited {
		return true
	}
	if c.NofilterLimit == 0 {
		return false
	}
	return c.NofilterUsed < c.NofilterLimit
}

// CanCompare reports whether count facilities may be compared at once.
func (c Capability) CanCompare(count int) bool {
	if c.Override {
		return true
	}
	if c.ComparisonLimit == Unlimited {
		return true
	}
	return count <= c.ComparisonLimit
}

// HasFeature checks a named flag. Boolean flags are returned directly;
// numeric flags count as present whenever nonzero, including the -1
// unlimited sentinel.
func (c Capability) HasFeature(name string) bool {
	if c.Override {
		return true
	}
	value, ok := c.features.Value(name)
	if !ok {
		return false
	}
	return value.Enabled()
}

// Features exposes the effective static record (for display surfaces).
func (c Capability) Features() TierFeatures {
	return c.features
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func boolOr(v *bool, fallback bool) bool {
	if v != nil {
		return *v
	}
	return fallback
}
