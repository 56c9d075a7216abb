package repositories

import (
	"errors"

	"shiftscore_backend/internal/models"

	"gorm.io/gorm"
)

var ErrFacilityNotFound = errors.New("facility not found")

type FacilityFilter struct {
	State        string
	FacilityType string
	MinScore     float64
}

type FacilityRepository interface {
	FindByID(db *gorm.DB, id string) (*models.Facility, error)
	FindByIDs(db *gorm.DB, ids []string) ([]models.Facility, error)
	// FindRanked returns facilities ordered by descending overall score.
	FindRanked(db *gorm.DB, filter FacilityFilter, limit, offset int) ([]models.Facility, int64, error)
	// TopRatedIDs returns the IDs of the n highest scored facilities.
	TopRatedIDs(db *gorm.DB, n int) ([]string, error)
}

type FacilityRepositoryImpl struct{}

func NewFacilityRepository() FacilityRepository {
	return &FacilityRepositoryImpl{}
}

func (r *FacilityRepositoryImpl) FindByID(db *gorm.DB, id string) (*models.Facility, error) {
	var facility models.Facility
	err := db.First(&facility, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFacilityNotFound
		}
		return nil, err
	}
	return &facility, nil
}

func (r *FacilityRepositoryImpl) FindByIDs(db *gorm.DB, ids []string) ([]models.Facility, error) {
	var facilities []models.Facility
	err := db.Where("id IN ?", ids).Find(&facilities).Error
	return facilities, err
}

func (r *FacilityRepositoryImpl) FindRanked(db *gorm.DB, filter FacilityFilter, limit, offset int) ([]models.Facility, int64, error) {
	query := db.Model(&models.Facility{})

	if filter.State != "" {
		query = query.Where("state = ?", filter.State)
	}
	if filter.FacilityType != "" {
		query = query.Where("facility_type = ?", filter.FacilityType)
	}
	if filter.MinScore > 0 {
		query = query.Where("overall_score >= ?", filter.MinScore)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var facilities []models.Facility
	err := query.Order("overall_score DESC").
		Limit(limit).Offset(offset).
		Find(&facilities).Error
	return facilities, total, err
}

func (r *FacilityRepositoryImpl) TopRatedIDs(db *gorm.DB, n int) ([]string, error) {
	var ids []string
	err := db.Model(&models.Facility{}).
		Order("overall_score DESC").
		Limit(n).
		Pluck("id", &ids).Error
	return ids, err
}
