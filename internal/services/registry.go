package services

// ServiceContainer holds every application service.
type ServiceContainer struct {
	AuthService     AuthService
	BillingService  BillingService
	CheckoutService CheckoutService
	FacilityService FacilityService
	JobService      JobService
	SullyService    SullyService
}
