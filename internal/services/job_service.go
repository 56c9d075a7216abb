package services

import (
	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/visibility"
	"shiftscore_backend/pkg/apperrors"

	"gorm.io/gorm"
)

// JobView is a job row after gating. Pay never benefits from the
// positional reveal on the jobs list; the facility grade badge follows
// the precomputed top-3 facility set.
type JobView struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Specialty string `json:"specialty"`
	ShiftType string `json:"shift_type"`
	City      string `json:"city"`
	State     string `json:"state"`

	FacilityID    string  `json:"facility_id"`
	FacilityName  string  `json:"facility_name"`
	FacilityGrade *string `json:"facility_grade,omitempty"`

	PayMin    *float64 `json:"pay_min,omitempty"`
	PayMax    *float64 `json:"pay_max,omitempty"`
	PayPeriod string   `json:"pay_period"`

	Access string `json:"access"`
	Locked bool   `json:"locked"`
}

type JobPage struct {
	Jobs     []JobView `json:"jobs"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"page_size"`
}

type JobService interface {
	List(db *gorm.DB, capability entitlements.Capability, filter repositories.JobFilter, page, pageSize int) (*JobPage, error)
	Get(db *gorm.DB, capability entitlements.Capability, jobID string) (*JobView, error)
}

type jobService struct {
	jobRepo      repositories.JobRepository
	facilityRepo repositories.FacilityRepository
}

func NewJobService(jobRepo repositories.JobRepository, facilityRepo repositories.FacilityRepository) JobService {
	return &jobService{
		jobRepo:      jobRepo,
		facilityRepo: facilityRepo,
	}
}

func (s *jobService) List(db *gorm.DB, capability entitlements.Capability, filter repositories.JobFilter, page, pageSize int) (*JobPage, error) {
	offset := (page - 1) * pageSize
	jobs, total, err := s.jobRepo.FindActive(db, filter, pageSize, offset)
	if err != nil {
		return nil, err
	}

	topIDs, err := s.facilityRepo.TopRatedIDs(db, visibility.FacilitiesView.TopFreeReveal)
	if err != nil {
		return nil, err
	}
	topSet := make(map[string]bool, len(topIDs))
	for _, id := range topIDs {
		topSet[id] = true
	}

	views := make([]JobView, 0, len(jobs))
	for i, job := range jobs {
		views = append(views, s.buildJobView(&job, capability, offset+i, topSet))
	}

	return &JobPage{
		Jobs:     views,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
	}, nil
}

func (s *jobService) Get(db *gorm.DB, capability entitlements.Capability, jobID string) (*JobView, error) {
	job, err := s.jobRepo.FindByID(db, jobID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrJobNotFound) {
			return nil, apperrors.ErrJobNotFound
		}
		return nil, err
	}

	// Detail view: no positional reveal, no top-set badge exception.
	view := s.buildJobView(job, capability, visibility.JobsView.AnonRowCutoff, nil)
	return &view, nil
}

func (s *jobService) buildJobView(job *models.JobListing, capability entitlements.Capability, index int, topSet map[string]bool) JobView {
	view := JobView{
		ID:           job.ID,
		Title:        job.Title,
		Specialty:    job.Specialty,
		ShiftType:    job.ShiftType,
		City:         job.City,
		State:        job.State,
		FacilityID:   job.FacilityID,
		FacilityName: job.Facility.Name,
		PayPeriod:    job.PayPeriod,
	}

	// Pay gating: the jobs view carries no positional exception.
	payDecision := visibility.Evaluate(visibility.JobsView, capability, visibility.Item{
		Index:        index,
		FacilityName: job.Facility.Name,
	})
	view.Access = string(payDecision)
	switch payDecision {
	case visibility.DecisionFullAccess:
		payMin, payMax := job.PayMin, job.PayMax
		view.PayMin = &payMin
		view.PayMax = &payMax
	case visibility.DecisionRowLocked:
		view.Locked = true
		return view
	}

	// Facility grade badge: revealed when the facility is in the top-3
	// set, independent of the job's own position.
	badgeDecision := visibility.Evaluate(visibility.JobFacilityBadgeView, capability, visibility.Item{
		Index:        index,
		FacilityName: job.Facility.Name,
		InTopSet:     topSet[job.FacilityID],
	})
	if badgeDecision == visibility.DecisionFullAccess || badgeDecision == visibility.DecisionGradeOnlyLocked {
		grade := job.Facility.Grade
		view.FacilityGrade = &grade
	}

	return view
}
