package repositories

import (
	"errors"
	"time"

	"shiftscore_backend/internal/entitlements"
	"shiftscore_backend/internal/models"

	"gorm.io/gorm"
)

var (
	ErrSubscriptionNotFound = errors.New("subscription not found")
	ErrUsageNotFound        = errors.New("sully usage not found")
)

type SubscriptionRepository interface {
	// UserSubscription operations
	CreateUserSubscription(db *gorm.DB, sub *models.UserSubscription) error
	FindUserSubscription(db *gorm.DB, userID string) (*models.UserSubscription, error)
	FindByStripeSubscriptionID(db *gorm.DB, stripeID string) (*models.UserSubscription, error)
	UpsertTier(db *gorm.DB, userID string, tier entitlements.Tier, stripeSubID string, periodEnd time.Time) error
	UpdateSubscriptionStatus(db *gorm.DB, userID string, status models.SubscriptionStatus) error
	CancelUserSubscription(db *gorm.DB, userID string) error
	ExpireLapsedSubscriptions(db *gorm.DB) (int64, error)
	FindExpiringSubscriptions(db *gorm.DB, days int) ([]models.UserSubscription, error)

	// SullyUsage operations
	GetOrCreateUsage(db *gorm.DB, userID string) (*models.SullyUsage, error)
	IncrementSullyUsage(db *gorm.DB, userID string, nofilter bool) error
	ResetDailyUsage(db *gorm.DB) (int64, error)
}

type SubscriptionRepositoryImpl struct{}

func NewSubscriptionRepository() SubscriptionRepository {
	return &SubscriptionRepositoryImpl{}
}

// UserSubscription operations

func (r *SubscriptionRepositoryImpl) CreateUserSubscription(db *gorm.DB, sub *models.UserSubscription) error {
	return db.Create(sub).Error
}

func (r *SubscriptionRepositoryImpl) FindUserSubscription(db *gorm.DB, userID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := db.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (r *SubscriptionRepositoryImpl) FindByStripeSubscriptionID(db *gorm.DB, stripeID string) (*models.UserSubscription, error) {
	var sub models.UserSubscription
	err := db.Where("stripe_subscription_id = ?", stripeID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// UpsertTier moves the user onto a tier, creating the subscription row if
// they never had one.
func (r *SubscriptionRepositoryImpl) UpsertTier(db *gorm.DB, userID string, tier entitlements.Tier, stripeSubID string, periodEnd time.Time) error {
	sub, err := r.FindUserSubscription(db, userID)
	if err != nil {
		if !errors.Is(err, ErrSubscriptionNotFound) {
			return err
		}
		return db.Create(&models.UserSubscription{
			UserID:               userID,
			Tier:                 tier,
			Status:               models.SubscriptionStatusActive,
			StripeSubscriptionID: stripeSubID,
			CurrentPeriodEnd:     periodEnd,
			AutoRenew:            true,
		}).Error
	}

	return db.Model(sub).Updates(map[string]interface{}{
		"tier":                   tier,
		"status":                 models.SubscriptionStatusActive,
		"stripe_subscription_id": stripeSubID,
		"current_period_end":     periodEnd,
		"cancelled_at":           nil,
	}).Error
}

func (r *SubscriptionRepositoryImpl) UpdateSubscriptionStatus(db *gorm.DB, userID string, status models.SubscriptionStatus) error {
	return db.Model(&models.UserSubscription{}).
		Where("user_id = ?", userID).
		Update("status", status).Error
}

func (r *SubscriptionRepositoryImpl) CancelUserSubscription(db *gorm.DB, userID string) error {
	now := time.Now()
	return db.Model(&models.UserSubscription{}).
		Where("user_id = ?", userID).
		Updates(map[string]interface{}{
			"status":       models.SubscriptionStatusCancelled,
			"auto_renew":   false,
			"cancelled_at": &now,
		}).Error
}

// ExpireLapsedSubscriptions demotes active subscriptions whose period has
// ended. Run by the expiry worker.
func (r *SubscriptionRepositoryImpl) ExpireLapsedSubscriptions(db *gorm.DB) (int64, error) {
	result := db.Exec(`
		UPDATE user_subscriptions
		SET status = 'expired', tier = 'free', updated_at = NOW()
		WHERE status IN ('active', 'trialing')
		AND current_period_end < NOW()
	`)
	return result.RowsAffected, result.Error
}

func (r *SubscriptionRepositoryImpl) FindExpiringSubscriptions(db *gorm.DB, days int) ([]models.UserSubscription, error) {
	var subs []models.UserSubscription
	cutoff := time.Now().AddDate(0, 0, days)
	err := db.Where("status = ? AND current_period_end BETWEEN NOW() AND ?",
		models.SubscriptionStatusActive, cutoff).Find(&subs).Error
	return subs, err
}

// SullyUsage operations

func (r *SubscriptionRepositoryImpl) GetOrCreateUsage(db *gorm.DB, userID string) (*models.SullyUsage, error) {
	var usage models.SullyUsage
	err := db.Where("user_id = ?", userID).First(&usage).Error
	if err == nil {
		return &usage, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	usage = models.SullyUsage{
		UserID:    userID,
		LastReset: time.Now(),
	}
	if err := db.Create(&usage).Error; err != nil {
		return nil, err
	}
	return &usage, nil
}

func (r *SubscriptionRepositoryImpl) IncrementSullyUsage(db *gorm.DB, userID string, nofilter bool) error {
	column := "questions_today"
	if nofilter {
		column = "nofilter_today"
	}
	return db.Model(&models.SullyUsage{}).
		Where("user_id = ?", userID).
		Update(column, gorm.Expr(column+" + 1")).Error
}

// ResetDailyUsage zeroes every counter; the day rolls over at midnight.
func (r *SubscriptionRepositoryImpl) ResetDailyUsage(db *gorm.DB) (int64, error) {
	result := db.Exec(`
		UPDATE sully_usages
		SET questions_today = 0, nofilter_today = 0, last_reset = NOW(), updated_at = NOW()
		WHERE questions_today > 0 OR nofilter_today > 0
	`)
	return result.RowsAffected, result.Error
}
