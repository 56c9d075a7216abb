package apperrors

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
)

// ErrorCode is a stable machine-readable error identifier.
type ErrorCode string

// AppError is the application error carried from services up to handlers.
type AppError struct {
	Code     ErrorCode   `json:"code"`
	Message  string      `json:"message"`
	Details  interface{} `json:"details,omitempty"`
	Err      error       `json:"-"`
	HTTPCode int         `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s (%v)", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		HTTPCode: httpCode,
	}
}

func Wrap(err error, code ErrorCode, message string, httpCode int) *AppError {
	return &AppError{
		Code:     code,
		Message:  message,
		Err:      err,
		HTTPCode: httpCode,
	}
}

// WithDetails returns a copy carrying details, so the predefined errors
// stay immutable.
func (e *AppError) WithDetails(details interface{}) *AppError {
	clone := *e
	clone.Details = details
	return &clone
}

func (e *AppError) WithError(err error) *AppError {
	clone := *e
	clone.Err = err
	return &clone
}

func (e *AppError) MarshalJSON() ([]byte, error) {
	type alias struct {
		Code    ErrorCode   `json:"code"`
		Message string      `json:"message"`
		Details interface{} `json:"details,omitempty"`
	}
	return json.Marshal(&alias{
		Code:    e.Code,
		Message: e.Message,
		Details: e.Details,
	})
}

func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// Predefined errors.
var (
	// Auth
	ErrInvalidCredentials = New(CodeInvalidCredentials, "Invalid email or password", http.StatusUnauthorized)
	ErrUnauthorized       = New(CodeUnauthorized, "Authentication required", http.StatusUnauthorized)
	ErrForbidden          = New(CodeForbidden, "Access denied", http.StatusForbidden)
	ErrInvalidToken       = New(CodeInvalidToken, "Invalid or expired token", http.StatusUnauthorized)

	// Users
	ErrUserNotFound       = New(CodeUserNotFound, "User not found", http.StatusNotFound)
	ErrEmailAlreadyExists = New(CodeEmailAlreadyExists, "Email already exists", http.StatusConflict)
	ErrWeakPassword       = New(CodeWeakPassword, "Password must be at least 8 characters", http.StatusBadRequest)

	// Validation
	ErrValidationFailed = New(CodeValidationFailed, "Validation failed", http.StatusBadRequest)

	// Billing
	ErrSubscriptionNotFound = New(CodeSubscriptionNotFound, "Subscription not found", http.StatusNotFound)
	ErrSubscriptionLimit    = New(CodeSubscriptionLimit, "Subscription limit reached", http.StatusForbidden)
	ErrCheckoutFailed       = New(CodeCheckoutFailed, "Failed to create checkout session", http.StatusBadGateway)
	ErrWebhookVerification  = New(CodeWebhookVerification, "Webhook signature verification failed", http.StatusBadRequest)
	ErrBillingNotConfigured = New(CodeBillingNotConfigured, "Billing is not configured", http.StatusInternalServerError)
	ErrComparisonLimit      = New(CodeComparisonLimit, "Facility comparison limit reached", http.StatusForbidden)

	// Sully
	ErrSullyQuotaExceeded    = New(CodeSullyQuotaExceeded, "Daily Sully question limit reached", http.StatusForbidden)
	ErrNofilterQuotaExceeded = New(CodeNofilterQuotaExceeded, "Nofilter question limit reached", http.StatusForbidden)
	ErrNofilterDisabled      = New(CodeNofilterDisabled, "Nofilter mode is not available on this plan", http.StatusForbidden)

	// Listings
	ErrFacilityNotFound = New(CodeFacilityNotFound, "Facility not found", http.StatusNotFound)
	ErrJobNotFound      = New(CodeJobNotFound, "Job listing not found", http.StatusNotFound)
)

// Helpers for errors with details.
func ValidationError(details interface{}) *AppError {
	return ErrValidationFailed.WithDetails(details)
}

func NotFound(resource string) *AppError {
	return New(CodeUserNotFound, fmt.Sprintf("%s not found", resource), http.StatusNotFound)
}

func InternalError(err error) *AppError {
	return Wrap(err, CodeInternalError, "Internal server error", http.StatusInternalServerError)
}

func NewConflictError(message string) *AppError {
	return New(CodeEmailAlreadyExists, message, http.StatusConflict)
}

func NewInternalError(message string) *AppError {
	return New(CodeInternalError, message, http.StatusInternalServerError)
}

func NewUnauthorizedError(message string) *AppError {
	return New(CodeUnauthorized, message, http.StatusUnauthorized)
}

func NewForbiddenError(message string) *AppError {
	return New(CodeForbidden, message, http.StatusForbidden)
}

func NewNotFoundError(message string) *AppError {
	return New(CodeUserNotFound, message, http.StatusNotFound)
}

func NewBadRequestError(message string) *AppError {
	return New(CodeValidationFailed, message, http.StatusBadRequest)
}
