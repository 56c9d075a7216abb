package entitlements

// FeatureValue is a tagged union over the two value shapes a feature flag
// can take: a plain boolean, or a numeric limit where zero means disabled
// and -1 means unlimited. The explicit tag avoids the loose-truthiness
// trap of reading -1 as "off".
type FeatureValue struct {
	kind  featureKind
	flag  bool
	limit int
}

type featureKind int

const (
	kindBool featureKind = iota
	kindLimit
)

func BoolValue(v bool) FeatureValue {
	return FeatureValue{kind: kindBool, flag: v}
}

func LimitValue(n int) FeatureValue {
	return FeatureValue{kind: kindLimit, limit: n}
}

// Enabled reports whether the feature is present at all. For limits,
// zero is absent and any nonzero value, including the Unlimited
// sentinel, is present.
func (v FeatureValue) Enabled() bool {
	if v.kind == kindBool {
		return v.flag
	}
	return v.limit != 0
}

// Limit returns the numeric cap and whether this value carries one.
func (v FeatureValue) Limit() (int, bool) {
	if v.kind != kindLimit {
		return 0, false
	}
	return v.limit, true
}

// Feature flag names as exposed in billing status payloads.
const (
	FeatureFullIndices         = "full_indices"
	FeatureFacilityCompare     = "facility_compare"
	FeatureSullyDaily          = "sully_daily"
	FeatureSullyNofilter       = "sully_nofilter"
	FeaturePDFExport           = "pdf_export"
	FeatureCustomWeights       = "custom_weights"
	FeatureTrendAnalytics      = "trend_analytics"
	FeaturePriorityAlerts      = "priority_alerts"
	FeaturePersonalizedResults = "personalized_results"
	FeatureResumeBuilder       = "resume_builder"
)

// Value looks up a named feature on the record.
func (f TierFeatures) Value(name string) (FeatureValue, bool) {
	switch name {
	case FeatureFullIndices:
		return BoolValue(f.FullIndices), true
	case FeatureFacilityCompare:
		return LimitValue(f.FacilityCompare), true
	case FeatureSullyDaily:
		return LimitValue(f.SullyDaily), true
	case FeatureSullyNofilter:
		return LimitValue(f.SullyNofilter), true
	case FeaturePDFExport:
		return BoolValue(f.PDFExport), true
	case FeatureCustomWeights:
		return BoolValue(f.CustomWeights), true
	case FeatureTrendAnalytics:
		return BoolValue(f.TrendAnalytics), true
	case FeaturePriorityAlerts:
		return BoolValue(f.PriorityAlerts), true
	case FeaturePersonalizedResults:
		return BoolValue(f.PersonalizedResults), true
	case FeatureResumeBuilder:
		return BoolValue(f.ResumeBuilder), true
	default:
		return FeatureValue{}, false
	}
}

// FeatureNames lists every feature in a stable order.
func FeatureNames() []string {
	return []string{
		FeatureFullIndices,
		FeatureFacilityCompare,
		FeatureSullyDaily,
		FeatureSullyNofilter,
		FeaturePDFExport,
		FeatureCustomWeights,
		FeatureTrendAnalytics,
		FeaturePriorityAlerts,
		FeaturePersonalizedResults,
		FeatureResumeBuilder,
	}
}
