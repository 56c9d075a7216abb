package workers

import (
	"context"
	"time"

	"shiftscore_backend/internal/logger"
	"shiftscore_backend/internal/repositories"
	"shiftscore_backend/internal/utils"

	"gorm.io/gorm"
)

// SubscriptionWorker keeps subscription state honest in the background:
// lapsed subscriptions drop to free, Sully counters reset at midnight,
// and soon-to-expire users get a renewal email.
type SubscriptionWorker struct {
	db               *gorm.DB
	subscriptionRepo repositories.SubscriptionRepository
	userRepo         repositories.UserRepository
	emailSender      utils.EmailSender
}

func NewSubscriptionWorker(db *gorm.DB, subscriptionRepo repositories.SubscriptionRepository, userRepo repositories.UserRepository, emailSender utils.EmailSender) *SubscriptionWorker {
	return &SubscriptionWorker{
		db:               db,
		subscriptionRepo: subscriptionRepo,
		userRepo:         userRepo,
		emailSender:      emailSender,
	}
}

func (w *SubscriptionWorker) Start(ctx context.Context) {
	go w.expireLapsed(ctx)
	go w.resetDailyUsage(ctx)
	go w.notifyExpiring(ctx)
}

func (w *SubscriptionWorker) expireLapsed(ctx context.Context) {
	ticker := time.NewTicker(6 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker: expiry loop stopped")
			return
		case <-ticker.C:
			affected, err := w.subscriptionRepo.ExpireLapsedSubscriptions(w.db)
			if err != nil {
				logger.WorkerLog("subscription", "expire_lapsed", err)
			} else if affected > 0 {
				// Cached statuses of demoted users age out within the
				// cache TTL; no targeted invalidation needed here.
				logger.Info("marked subscriptions as expired", "worker", "subscription", "count", affected)
			}
		}
	}
}

func (w *SubscriptionWorker) resetDailyUsage(ctx context.Context) {
	for {
		now := time.Now()
		next := time.Date(now.Year(), now.Month(), now.Day()+1, 0, 0, 0, 0, now.Location())
		timer := time.NewTimer(next.Sub(now))

		select {
		case <-ctx.Done():
			timer.Stop()
			logger.Info("subscription worker: usage reset loop stopped")
			return
		case <-timer.C:
			affected, err := w.subscriptionRepo.ResetDailyUsage(w.db)
			if err != nil {
				logger.WorkerLog("subscription", "reset_daily_usage", err)
			} else if affected > 0 {
				logger.Info("reset daily usage counters", "worker", "subscription", "count", affected)
			}
		}
	}
}

func (w *SubscriptionWorker) notifyExpiring(ctx context.Context) {
	ticker := time.NewTicker(24 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("subscription worker: expiry notice loop stopped")
			return
		case <-ticker.C:
			w.sendExpiryNotices()
		}
	}
}

func (w *SubscriptionWorker) sendExpiryNotices() {
	const noticeDays = 3

	subs, err := w.subscriptionRepo.FindExpiringSubscriptions(w.db, noticeDays)
	if err != nil {
		logger.WithError(err).Error("failed to find expiring subscriptions")
		return
	}

	for _, sub := range subs {
		if sub.AutoRenew {
			continue
		}
		user, err := w.userRepo.FindByID(w.db, sub.UserID)
		if err != nil {
			logger.WithError(err).Warn("expiring subscription without user", "user_id", sub.UserID)
			continue
		}

		daysLeft := int(time.Until(sub.CurrentPeriodEnd).Hours() / 24)
		if daysLeft < 0 {
			continue
		}
		if err := w.emailSender.SendExpiryNotice(user.Email, string(sub.Tier), daysLeft); err != nil {
			logger.WithError(err).Warn("failed to send expiry notice", "user_id", sub.UserID)
		}
	}
}
