package scheduler

import (
	"time"

	"github.com/laced-shop/laced-backend/internal/app/repository"
	"github.com/laced-shop/laced-backend/pkg/logger"
	"github.com/robfig/cron/v3"
)

// CartCleanupScheduler sweeps abandoned anonymous carts. Login merges
// leave empty session carts behind; this reclaims them.
type CartCleanupScheduler struct {
	cron     *cron.Cron
	cartRepo repository.CartRepository
	staleAge time.Duration
}

func NewCartCleanupScheduler(cartRepo repository.CartRepository, staleAge time.Duration) *CartCleanupScheduler {
	return &CartCleanupScheduler{
		cron:     cron.New(),
		cartRepo: cartRepo,
		staleAge: staleAge,
	}
}

// Start schedules the nightly sweep at 04:00.
func (s *CartCleanupScheduler) Start() error {
	_, err := s.cron.AddFunc("0 4 * * *", func() {
		cutoff := time.Now().Add(-s.staleAge)
		logger.Info("Starting stale cart sweep", map[string]interface{}{
			"cutoff": cutoff,
		})

		removed, err := s.cartRepo.DeleteStaleAnonymous(cutoff)
		if err != nil {
			logger.Error("Failed to sweep stale carts", err)
			return
		}

		logger.Info("Stale cart sweep completed", map[string]interface{}{
			"removed": removed,
		})
	})

	if err != nil {
		logger.Error("Failed to add cron job for cart cleanup", err)
		return err
	}

	s.cron.Start()
	logger.Info("Cart cleanup scheduler started (daily at 4:00 AM)", nil)

	return nil
}

// Stop halts the scheduler
func (s *CartCleanupScheduler) Stop() {
	logger.Info("Stopping cart cleanup scheduler...", nil)
	s.cron.Stop()
	logger.Info("Cart cleanup scheduler stopped", nil)
}
