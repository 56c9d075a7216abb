package entitlements

import "time"

// BillingStatus is the server-computed subscription record returned by
// GET /api/billing/status. It is the authoritative source of current
// limits and usage; the tier table only backfills absent fields.
type BillingStatus struct {
	Tier     Tier   `json:"tier"`
	TierName string `json:"tier_name"`
	IsActive bool   `json:"is_active"`

	ExpiresAt *time.Time `json:"expires_at,omitempty"`

	SullyDailyLimit     *int `json:"sully_daily_limit,omitempty"`
	SullyQuestionsToday int  `json:"sully_questions_today"`
	NofilterLimit       *int `json:"nofilter_limit,omitempty"`
	NofilterUsed        int  `json:"nofilter_used"`
	TokensRemaining     int  `json:"tokens_remaining"`
	SavedJobsLimit      *int `json:"saved_jobs_limit,omitempty"`
	ComparisonLimit     *int `json:"comparison_limit,omitempty"`

	Features []string `json:"features"`

	TrialEndsAt *time.Time `json:"trial_ends_at,omitempty"`
	IsTrial     bool       `json:"is_trial"`

	CanAccessPersonalized  *bool `json:"can_access_personalized,omitempty"`
	CanAccessResumeBuilder *bool `json:"can_access_resume_builder,omitempty"`
	CanExportPDF           *bool `json:"can_export_pdf,omitempty"`
}

// FreeStatus is the pessimistic default reported when no subscription
// record can be resolved.
func FreeStatus() *BillingStatus {
	features := tierTable[TierFree]
	sully := features.SullyDaily
	comparison := features.FacilityCompare
	return &BillingStatus{
		Tier:            TierFree,
		TierName:        TierFree.DisplayName(),
		IsActive:        false,
		SullyDailyLimit: &sully,
		ComparisonLimit: &comparison,
		Features:        []string{},
	}
}
