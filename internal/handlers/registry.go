package handlers

// AppHandlers holds every handler of the application.
type AppHandlers struct {
	AuthHandler     *AuthHandler
	BillingHandler  *BillingHandler
	FacilityHandler *FacilityHandler
	JobHandler      *JobHandler
	SullyHandler    *SullyHandler
}
