package workers

import (
	"context"
	"time"

	"shiftscore_backend/internal/logger"

	"gorm.io/gorm"
)

// JobWorker closes listings that have gone stale so the ranked views
// only serve positions a nurse can still apply to.
type JobWorker struct {
	db *gorm.DB
}

func NewJobWorker(db *gorm.DB) *JobWorker {
	return &JobWorker{db: db}
}

func (w *JobWorker) Start(ctx context.Context) {
	go w.autoCloseStale(ctx)
}

func (w *JobWorker) autoCloseStale(ctx context.Context) {
	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("job worker stopped")
			return
		case <-ticker.C:
			result := w.db.Exec(`
				UPDATE job_listings
				SET status = 'closed', updated_at = NOW()
				WHERE status = 'active'
				AND posted_at < NOW() - INTERVAL '60 days'
			`)
			if result.Error != nil {
				logger.WorkerLog("job", "auto_close_stale", result.Error)
			} else if result.RowsAffected > 0 {
				logger.Info("auto-closed stale job listings", "worker", "job", "count", result.RowsAffected)
			}
		}
	}
}
