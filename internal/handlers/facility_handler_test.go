package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/services"
	"shiftscore_backend/internal/validator"
	"shiftscore_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeFacilityService struct {
	page  *services.FacilityPage
	view  *services.FacilityView
	views []services.FacilityView
	err   error

	capabilities []entitlements.Capability
	comparedIDs  [][]string
}

func (f *fakeFacilityService) List(db *gorm.DB, capability entitlements.Capability, filter repositories.FacilityFilter, page, pageSize int) (*services.FacilityPage, error) {
	f.capabilities = append(f.capabilities, capability)
	return f.page, f.err
}

func (f *fakeFacilityService) Get(db *gorm.DB, capability entitlements.Capability, facilityID string) (*services.FacilityView, error) {
	f.capabilities = append(f.capabilities, capability)
	return f.view, f.err
}

func (f *fakeFacilityService) Compare(db *gorm.DB, capability entitlements.Capability, facilityIDs []string) ([]services.FacilityView, error) {
	f.capabilities = append(f.capabilities, capability)
	f.comparedIDs = append(f.comparedIDs, facilityIDs)
	return f.views, f.err
}

func newFacilityRouter(facilities services.FacilityService, billing services.BillingService) *gin.Engine {
	handler := NewFacilityHandler(NewBaseHandler(validator.New()), facilities, billing)
	return newTestRouter(handler.RegisterRoutes)
}

func TestListFacilities_AnonymousAllowed(t *testing.T) {
	t.Parallel()

	billing := &fakeBillingService{capability: entitlements.FreeCapability()}
	facilities := &fakeFacilityService{
		page: &services.FacilityPage{
			Facilities: []services.FacilityView{{ID: "f1", Name: "Mercy General"}},
			Total:      1,
			Page:       1,
			PageSize:   20,
		},
	}
	router := newFacilityRouter(facilities, billing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/facilities", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Mercy General")

	// Anonymous viewers resolve to free with no override, not a 401.
	require.Len(t, billing.resolvedUsers, 1)
	assert.Empty(t, billing.resolvedUsers[0])
	assert.False(t, billing.resolvedOverrides[0])
}

func TestListFacilities_AuthenticatedUserResolved(t *testing.T) {
	t.Parallel()

	billing := &fakeBillingService{capability: entitlements.FreeCapability()}
	facilities := &fakeFacilityService{page: &services.FacilityPage{}}
	router := newFacilityRouter(facilities, billing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/facilities", nil)
	req.Header.Set("Authorization", bearerToken(t, "u1", "nurse"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, billing.resolvedUsers, 1)
	assert.Equal(t, "u1", billing.resolvedUsers[0])
	assert.False(t, billing.resolvedOverrides[0])
}

func TestListFacilities_AdminGetsOverride(t *testing.T) {
	t.Parallel()

	billing := &fakeBillingService{capability: entitlements.FreeCapability()}
	facilities := &fakeFacilityService{page: &services.FacilityPage{}}
	router := newFacilityRouter(facilities, billing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/facilities", nil)
	req.Header.Set("Authorization", bearerToken(t, "admin-1", "admin"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	require.Len(t, billing.resolvedOverrides, 1)
	assert.True(t, billing.resolvedOverrides[0])
}

func TestGetFacility_NotFound(t *testing.T) {
	t.Parallel()

	billing := &fakeBillingService{capability: entitlements.FreeCapability()}
	facilities := &fakeFacilityService{err: apperrors.ErrFacilityNotFound}
	router := newFacilityRouter(facilities, billing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/facilities/f404", nil)
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), string(apperrors.CodeFacilityNotFound))
}

func TestCompareFacilities_RequiresTwoIDs(t *testing.T) {
	t.Parallel()

	billing := &fakeBillingService{capability: entitlements.FreeCapability()}
	facilities := &fakeFacilityService{}
	router := newFacilityRouter(facilities, billing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/facilities/compare",
		strings.NewReader(`{"facility_ids": ["0b91c21a-9f0b-4a7e-9a41-0f6dce1f2a01"]}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, facilities.comparedIDs)
}

func TestCompareFacilities_PassesIDsThrough(t *testing.T) {
	t.Parallel()

	ids := []string{
		"0b91c21a-9f0b-4a7e-9a41-0f6dce1f2a01",
		"4d2f55be-7c39-44a4-9e2e-3f1f8a0c9b02",
	}
	billing := &fakeBillingService{capability: entitlements.FreeCapability()}
	facilities := &fakeFacilityService{
		views: []services.FacilityView{{ID: ids[0]}, {ID: ids[1]}},
	}
	router := newFacilityRouter(facilities, billing)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/facilities/compare",
		strings.NewReader(`{"facility_ids": ["`+ids[0]+`", "`+ids[1]+`"]}`))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", bearerToken(t, "u1", "nurse"))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"total":2`)
	require.Len(t, facilities.comparedIDs, 1)
	assert.Equal(t, ids, facilities.comparedIDs[0])
}
