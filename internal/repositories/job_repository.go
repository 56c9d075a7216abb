package repositories

import (
	"errors"

	"shiftscore_backend/internal/models"

	"gorm.io/gorm"
)

var ErrJobNotFound = errors.New("job listing not found")

type JobFilter struct {
	Specialty string
	State     string
	ShiftType string
	MinPay    float64
}

type JobRepository interface {
	FindByID(db *gorm.DB, id string) (*models.JobListing, error)
	// FindActive returns active listings, newest first, facility preloaded.
	FindActive(db *gorm.DB, filter JobFilter, limit, offset int) ([]models.JobListing, int64, error)
}

type JobRepositoryImpl struct{}

func NewJobRepository() JobRepository {
	return &JobRepositoryImpl{}
}

func (r *JobRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.JobListing, error) {
	var job models.JobListing
	err := db.Preload("Facility").First(&job, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrJobNotFound
		}
		return nil, err
	}
	return &job, nil
}

func (r *JobRepositoryImpl) FindActive(db *gorm.DB, filter JobFilter, limit, offset int) ([]models.JobListing, int64, error) {
	query := db.Model(&models.JobListing{}).Where("status = ?", models.JobStatusActive)

	if filter.Specialty != "" {
		query = query.Where("specialty = ?", filter.Specialty)
	}
	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.ShiftType != "" {
		query = query.Where("shift_type = ?", filter.ShiftType)
	}
	if filter.MinPay > 0 {
		query = query.Where("pay_max >= ?", filter.MinPay)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var jobs []models.JobListing
	err := query.Preload("Facility").
		Order("posted_at DESC").
		Limit(limit).Offset(offset).
		Find(&jobs).Error
	return jobs, total, err
}
