package models

type UserStatus string
type UserRole string
type SubscriptionStatus string
type JobStatus string

const (
	UserStatusPending   UserStatus = "pending"
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"

	UserRoleNurse    UserRole = "nurse"
	UserRoleEmployer UserRole = "employer"
	UserRoleAdmin    UserRole = "admin"

	SubscriptionStatusActive    SubscriptionStatus = "active"
	SubscriptionStatusTrialing  SubscriptionStatus = "trialing"
	SubscriptionStatusExpired   SubscriptionStatus = "expired"
	SubscriptionStatusCancelled SubscriptionStatus = "cancelled"

	JobStatusActive JobStatus = "active"
	JobStatusFilled JobStatus = "filled"
	JobStatusClosed JobStatus = "closed"
)
