package apperrors

// Error codes grouped by area.
const (
	// Auth
	CodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	CodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	CodeForbidden          ErrorCode = "FORBIDDEN"
	CodeInvalidToken       ErrorCode = "INVALID_TOKEN"

	// Users
	CodeUserNotFound       ErrorCode = "USER_NOT_FOUND"
	CodeEmailAlreadyExists ErrorCode = "EMAIL_ALREADY_EXISTS"
	CodeWeakPassword       ErrorCode = "WEAK_PASSWORD"
	CodeInvalidUserRole    ErrorCode = "INVALID_USER_ROLE"

	// Validation
	CodeValidationFailed ErrorCode = "VALIDATION_FAILED"

	// Billing / subscriptions
	CodeSubscriptionNotFound  ErrorCode = "SUBSCRIPTION_NOT_FOUND"
	CodeSubscriptionLimit     ErrorCode = "SUBSCRIPTION_LIMIT"
	CodeCheckoutFailed        ErrorCode = "CHECKOUT_FAILED"
	CodeWebhookVerification   ErrorCode = "WEBHOOK_VERIFICATION_FAILED"
	CodeUnknownTier           ErrorCode = "UNKNOWN_TIER"
	CodeBillingNotConfigured  ErrorCode = "BILLING_NOT_CONFIGURED"
	CodeComparisonLimit       ErrorCode = "COMPARISON_LIMIT"
	CodeSullyQuotaExceeded    ErrorCode = "SULLY_QUOTA_EXCEEDED"
	CodeNofilterQuotaExceeded ErrorCode = "NOFILTER_QUOTA_EXCEEDED"
	CodeNofilterDisabled      ErrorCode = "NOFILTER_DISABLED"

	// Listings
	CodeFacilityNotFound ErrorCode = "FACILITY_NOT_FOUND"
	CodeJobNotFound      ErrorCode = "JOB_NOT_FOUND"

	// System
	CodeInternalError ErrorCode = "INTERNAL_ERROR"
)
