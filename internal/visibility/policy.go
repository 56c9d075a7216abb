// Package visibility decides, per listing item, how premium attributes
// (facility scores, grades, pay ranges) are presented to a viewer. The
// per-view rules were historically re-implemented on every page; here
// they live in one parameterized policy with an explicit ViewConfig
// table, so the asymmetry between views is configuration, not accident.
package visibility

import (
	"strings"

	"shiftscore_backend/internal/entitlements"
)

// Decision is the per-item treatment, evaluated fresh on every request.
type Decision string

const (
	// DecisionFullAccess shows the premium attribute as-is.
	DecisionFullAccess Decision = "full_access"
	// DecisionAttributeBlurred obscures the attribute behind an upgrade
	// call-to-action but leaves the row navigable.
	DecisionAttributeBlurred Decision = "attribute_blurred"
	// DecisionRowLocked disables the whole row, click-through included.
	DecisionRowLocked Decision = "row_locked"
	// DecisionGradeOnlyLocked shows the letter grade but hides the index
	// breakdown.
	DecisionGradeOnlyLocked Decision = "grade_only_locked"
)

// Requirement names the capability predicate that grants full access for
// a given view.
type Requirement int

const (
	RequirePaid Requirement = iota
	RequireProOrAbove
	RequirePremiumOrAbove
)

// ViewConfig declares how gating applies on one view. TopFreeReveal is
// the positional exception: the first N items reveal premium attributes
// to everyone. TopSetReveal keys the exception off a precomputed
// identity set instead of list position (used for the facility badge on
// the jobs list). AnonRowCutoff locks entire rows past that index for
// unauthenticated viewers; zero disables the cutoff.
type ViewConfig struct {
	Name          string
	Require       Requirement
	TopFreeReveal int
	TopSetReveal  bool
	AnonRowCutoff int
}

// View configurations as shipped. The jobs list never applies the
// positional reveal to pay or grade; only the facilities list does.
// Product has been asked to confirm the asymmetry; until then it is
// preserved as-is.
var (
	FacilitiesView = ViewConfig{
		Name:          "facilities",
		Require:       RequirePaid,
		TopFreeReveal: 3,
		AnonRowCutoff: 3,
	}

	JobsView = ViewConfig{
		Name:          "jobs",
		Require:       RequirePaid,
		TopFreeReveal: 0,
		AnonRowCutoff: 3,
	}

	// JobFacilityBadgeView gates the facility grade badge shown on job
	// rows. The reveal follows the top-3 facility ID set, not the job's
	// position in the list.
	JobFacilityBadgeView = ViewConfig{
		Name:         "job_facility_badge",
		Require:      RequirePaid,
		TopSetReveal: true,
	}
)

// restrictedFacilities force the grade-only-locked treatment for
// non-paying viewers even when the positional exception would apply.
// Matching is case-insensitive substring.
var restrictedFacilities = []string{
	"inova fairfax",
	"johns hopkins",
}

// Item is the per-row input to the policy.
type Item struct {
	// Index is the 0-based position in the ranked view.
	Index int
	// FacilityName is checked against the restricted allow-list.
	FacilityName string
	// InTopSet marks membership in the view's precomputed reveal set.
	InTopSet bool
}

// Evaluate applies the gating rules in order; the first match wins.
// An unsettled (loading) capability is treated as anonymous free: the
// policy locks first and reveals later, never the other way around.
func Evaluate(cfg ViewConfig, capability entitlements.Capability, item Item) Decision {
	if capability.Loading {
		capability = entitlements.FreeCapability()
	}

	// Capability gate (admin override included in the predicates).
	if meets(capability, cfg.Require) {
		return DecisionFullAccess
	}

	// Restricted facilities outrank the positional exception.
	if IsRestrictedFacility(item.FacilityName) {
		return DecisionGradeOnlyLocked
	}

	// Top-N free reveal, scoped per view.
	if cfg.TopFreeReveal > 0 && item.Index < cfg.TopFreeReveal {
		return DecisionFullAccess
	}
	if cfg.TopSetReveal && item.InTopSet {
		return DecisionFullAccess
	}

	// Hard cutoff for fully unauthenticated viewers.
	if !capability.Authenticated && cfg.AnonRowCutoff > 0 && item.Index >= cfg.AnonRowCutoff {
		return DecisionRowLocked
	}

	return DecisionAttributeBlurred
}

// IsRestrictedFacility reports whether the facility name is on the
// restricted list.
func IsRestrictedFacility(name string) bool {
	if name == "" {
		return false
	}
	lower := strings.ToLower(name)
	for _, restricted := range restrictedFacilities {
		if strings.Contains(lower, restricted) {
			return true
		}
	}
	return false
}

func meets(capability entitlements.Capability, req Requirement) bool {
	switch req {
	case RequireProOrAbove:
		return capability.IsProOrAbove()
	case RequirePremiumOrAbove:
		return capability.IsPremiumOrAbove()
	default:
		return capability.IsPaid()
	}
}
