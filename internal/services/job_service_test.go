package services

import (
	"testing"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/models"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/visibility"
	"shiftscore_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// jobBoard builds a job feed where jobs alternate between the top-rated
// facilities (f1..f3) and an unranked one (f4).
func jobBoard(n int) (*fakeJobRepo, *fakeFacilityRepo) {
	facilityRepo := &fakeFacilityRepo{facilities: rankedFacilities(4)}

	jobs := make([]models.JobListing, 0, n)
	for i := 0; i < n; i++ {
		facility := facilityRepo.facilities[i%4]
		job := models.JobListing{
			Title:      "ICU Nights",
			Specialty:  "ICU",
			ShiftType:  "nights",
			City:       facility.City,
			State:      facility.State,
			FacilityID: facility.ID,
			PayMin:     42,
			PayMax:     58,
			PayPeriod:  "hour",
			Facility:   facility,
		}
		job.ID = "j" + string(rune('1'+i))
		jobs = append(jobs, job)
	}
	return &fakeJobRepo{jobs: jobs}, facilityRepo
}

func TestJobList_FreeUserPayIsBlurredEverywhere(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(5)
	service := NewJobService(jobRepo, facilityRepo)

	page, err := service.List(testDB(), freeUserCapability(), repositories.JobFilter{}, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Jobs, 5)

	// No positional exception on the jobs feed: even the first rows hide
	// pay.
	for i, view := range page.Jobs {
		assert.Equal(t, string(visibility.DecisionAttributeBlurred), view.Access, "row %d", i)
		assert.Nil(t, view.PayMin, "row %d", i)
		assert.Nil(t, view.PayMax, "row %d", i)
		assert.False(t, view.Locked)
		assert.NotEmpty(t, view.Title)
	}
}

func TestJobList_FacilityBadgeFollowsTopSet(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(4)
	service := NewJobService(jobRepo, facilityRepo)

	page, err := service.List(testDB(), freeUserCapability(), repositories.JobFilter{}, 1, 20)
	require.NoError(t, err)
	require.Len(t, page.Jobs, 4)

	// Jobs at f1..f3 carry the grade badge regardless of row position;
	// the job at the unranked f4 does not.
	for i := 0; i < 3; i++ {
		require.NotNil(t, page.Jobs[i].FacilityGrade, "row %d", i)
		assert.Equal(t, "A", *page.Jobs[i].FacilityGrade)
	}
	assert.Nil(t, page.Jobs[3].FacilityGrade)
}

func TestJobList_AnonymousRowsLockPastCutoff(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(5)
	service := NewJobService(jobRepo, facilityRepo)

	page, err := service.List(testDB(), entitlements.FreeCapability(), repositories.JobFilter{}, 1, 20)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		assert.False(t, page.Jobs[i].Locked, "row %d", i)
	}
	for i := 3; i < 5; i++ {
		view := page.Jobs[i]
		assert.Equal(t, string(visibility.DecisionRowLocked), view.Access, "row %d", i)
		assert.True(t, view.Locked)
		assert.Nil(t, view.FacilityGrade, "locked rows carry no badge")
	}
}

func TestJobList_PaidUserSeesPayAndBadges(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(5)
	service := NewJobService(jobRepo, facilityRepo)

	page, err := service.List(testDB(), tierCapability(entitlements.TierStarter), repositories.JobFilter{}, 1, 20)
	require.NoError(t, err)

	for i, view := range page.Jobs {
		assert.Equal(t, string(visibility.DecisionFullAccess), view.Access, "row %d", i)
		require.NotNil(t, view.PayMin, "row %d", i)
		assert.Equal(t, 42.0, *view.PayMin)
		require.NotNil(t, view.FacilityGrade, "row %d", i)
	}
}

func TestJobGet_DetailHasNoTopSetException(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(1) // single job, at top-rated f1
	service := NewJobService(jobRepo, facilityRepo)

	view, err := service.Get(testDB(), freeUserCapability(), "j1")
	require.NoError(t, err)
	assert.Equal(t, string(visibility.DecisionAttributeBlurred), view.Access)
	assert.Nil(t, view.PayMin)
	assert.Nil(t, view.FacilityGrade)
}

func TestJobGet_PaidDetail(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(1)
	service := NewJobService(jobRepo, facilityRepo)

	view, err := service.Get(testDB(), tierCapability(entitlements.TierPremium), "j1")
	require.NoError(t, err)
	require.NotNil(t, view.PayMin)
	require.NotNil(t, view.PayMax)
	assert.Equal(t, 58.0, *view.PayMax)
	require.NotNil(t, view.FacilityGrade)
}

func TestJobGet_NotFound(t *testing.T) {
	t.Parallel()

	jobRepo, facilityRepo := jobBoard(0)
	service := NewJobService(jobRepo, facilityRepo)

	_, err := service.Get(testDB(), freeUserCapability(), "missing")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, apperrors.As(err, &appErr))
	assert.Equal(t, apperrors.CodeJobNotFound, appErr.Code)
}
