package models

import (
	"time"

	"shiftscore_backend/internal/entitlements"
)

// UserSubscription is the stored billing state for one user. Tier limits
// themselves live in the static entitlements table; this row only says
// which tier the user is on and for how long.
type UserSubscription struct {
	BaseModel
	UserID string             `gorm:"not null;uniqueIndex"`
	Tier   entitlements.Tier  `gorm:"type:varchar(20);not null;default:'free'"`
	Status SubscriptionStatus `gorm:"type:varchar(20);default:'active'"`

	StripeSubscriptionID string `gorm:"index"`

	CurrentPeriodEnd time.Time
	TrialEndsAt      *time.Time
	AutoRenew        bool `gorm:"default:true"`
	CancelledAt      *time.Time
}

// SullyUsage tracks the per-user daily AI chat counters. Reset to zero by
// the rollover worker at local midnight.
type SullyUsage struct {
	BaseModel
	UserID          string `gorm:"not null;uniqueIndex"`
	QuestionsToday  int    `gorm:"default:0"`
	NofilterToday   int    `gorm:"default:0"`
	TokensRemaining int    `gorm:"default:0"`
	LastReset       time.Time
}
