package services

import (
	"encoding/json"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/visibility"
	"shiftscore_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// FacilityView is a facility row after gating. Premium attributes are
// nilled out according to the visibility decision so the client never
// receives data it may not show.
type FacilityView struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	City         string          `json:"city"`
	State        string          `json:"state"`
	FacilityType string          `json:"facility_type"`
	Grade        *string         `json:"grade,omitempty"`
	OverallScore *float64        `json:"overall_score,omitempty"`
	Indices      json.RawMessage `json:"indices,omitempty"`
	Access       string          `json:"access"`
	Locked       bool            `json:"locked"`
}

type FacilityPage struct {
	Facilities []FacilityView `json:"facilities"`
	Total      int64          `json:"total"`
	Page       int            `json:"page"`
	PageSize   int            `json:"page_size"`
}

type FacilityService interface {
	List(db *gorm.DB, capability entitlements.Capability, filter repositories.FacilityFilter, page, pageSize int) (*FacilityPage, error)
	Get(db *gorm.DB, capability entitlements.Capability, facilityID string) (*FacilityView, error)
	Compare(db *gorm.DB, capability entitlements.Capability, facilityIDs []string) ([]FacilityView, error)
}

type facilityService struct {
	facilityRepo repositories.FacilityRepository
}

func NewFacilityService(facilityRepo repositories.FacilityRepository) FacilityService {
	return &facilityService{facilityRepo: facilityRepo}
}

func (s *facilityService) List(db *gorm.DB, capability entitlements.Capability, filter repositories.FacilityFilter, page, pageSize int) (*FacilityPage, error) {
	offset := (page - 1) * pageSize
	facilities, total, err := s.facilityRepo.FindRanked(db, filter, pageSize, offset)
	if err != nil {
		return nil, err
	}

	views := make([]FacilityView, 0, len(facilities))
	for i, facility := range facilities {
		// The positional exception is scoped to the ranked view as a
		// whole, so the index counts across pages.
		decision := visibility.Evaluate(visibility.FacilitiesView, capability, visibility.Item{
			Index:        offset + i,
			FacilityName: facility.Name,
		})
		views = append(views, redactFacility(&facility, decision))
	}

	return &FacilityPage{
		Facilities: views,
		Total:      total,
		Page:       page,
		PageSize:   pageSize,
	}, nil
}

func (s *facilityService) Get(db *gorm.DB, capability entitlements.Capability, facilityID string) (*FacilityView, error) {
	facility, err := s.facilityRepo.FindByID(db, facilityID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrFacilityNotFound) {
			return nil, apperrors.ErrFacilityNotFound
		}
		return nil, err
	}

	// Detail pages have no positional exception: the index breakdown is
	// capability-gated only.
	decision := visibility.Evaluate(visibility.FacilitiesView, capability, visibility.Item{
		Index:        visibility.FacilitiesView.TopFreeReveal, // past the reveal window
		FacilityName: facility.Name,
	})
	view := redactFacility(facility, decision)

	// full_indices additionally gates the breakdown even for paid tiers
	// that lack it.
	if !capability.HasFeature(entitlements.FeatureFullIndices) {
		view.Indices = nil
	}

	return &view, nil
}

func (s *facilityService) Compare(db *gorm.DB, capability entitlements.Capability, facilityIDs []string) ([]FacilityView, error) {
	if !capability.CanCompare(len(facilityIDs)) {
		return nil, apperrors.ErrComparisonLimit.WithDetails(map[string]interface{}{
			"requested": len(facilityIDs),
			"limit":     capability.ComparisonLimit,
		})
	}

	facilities, err := s.facilityRepo.FindByIDs(db, facilityIDs)
	if err != nil {
		return nil, err
	}

	views := make([]FacilityView, 0, len(facilities))
	for _, facility := range facilities {
		// Compare is itself a gated feature; inside it every column is
		// fully visible except restricted facilities.
		decision := visibility.DecisionFullAccess
		if visibility.IsRestrictedFacility(facility.Name) && !capability.IsPaid() {
			decision = visibility.DecisionGradeOnlyLocked
		}
		views = append(views, redactFacility(&facility, decision))
	}
	return views, nil
}

// redactFacility strips premium attributes according to the decision.
func redactFacility(facility *models.Facility, decision visibility.Decision) FacilityView {
	view := FacilityView{
		ID:           facility.ID,
		Name:         facility.Name,
		City:         facility.City,
		State:        facility.State,
		FacilityType: facility.FacilityType,
		Access:       string(decision),
	}

	switch decision {
	case visibility.DecisionFullAccess:
		grade := facility.Grade
		score := facility.OverallScore
		view.Grade = &grade
		view.OverallScore = &score
		view.Indices = json.RawMessage(facility.Indices)
	case visibility.DecisionGradeOnlyLocked:
		grade := facility.Grade
		view.Grade = &grade
	case visibility.DecisionRowLocked:
		view.Locked = true
	case visibility.DecisionAttributeBlurred:
		// name and location only
	}

	return view
}
