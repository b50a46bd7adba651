package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"arenabet/service"
)

// StartPoolCloseWorker starts a background worker that closes pools whose
// close time has passed, snapshotting odds.
// Returns a cleanup function to stop the worker gracefully
func StartPoolCloseWorker(ctx context.Context, poolService *service.PoolService, interval time.Duration, limit int) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	closeDue := func() {
		closed, err := poolService.CloseDuePools(context.Background(), limit)
		if err != nil {
			log.Errorf("Error closing due pools: %v", err)
			return
		}
		if closed > 0 {
			log.WithField("closed", closed).Info("Closed due pools")
		}
	}

	go func() {
		log.Info("Pool close worker started")

		// Run immediately on startup
		closeDue()

		for {
			select {
			case <-ctx.Done():
				log.Info("Pool close worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Pool close worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				closeDue()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// StartWildcardExpiryWorker starts a background worker that resolves
// wildcard decisions whose window has lapsed, counting silence as a
// decline.
// Returns a cleanup function to stop the worker gracefully
func StartWildcardExpiryWorker(ctx context.Context, battleService *service.BattleService, interval time.Duration, limit int) func() {
	ticker := time.NewTicker(interval)
	stopChan := make(chan struct{})

	expire := func() {
		resolved, err := battleService.ExpireWildcards(context.Background(), limit)
		if err != nil {
			log.Errorf("Error expiring wildcards: %v", err)
			return
		}
		if resolved > 0 {
			log.WithField("resolved", resolved).Info("Expired overdue wildcards")
		}
	}

	go func() {
		log.Info("Wildcard expiry worker started")

		// Run immediately on startup
		expire()

		for {
			select {
			case <-ctx.Done():
				log.Info("Wildcard expiry worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Wildcard expiry worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				expire()
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
