package workers

import (
	"context"
	"log"
	"time"

	"guard-collective/gatekeeper/internal/services"
)

// RosterWorker periodically re-posts the staff roster to every configured
// announcement channel so the mirror never drifts far from the base.
type RosterWorker struct {
	roster   *services.RosterService
	interval time.Duration
}

func NewRosterWorker(roster *services.RosterService, interval time.Duration) *RosterWorker {
	if interval <= 0 {
		interval = 24 * time.Hour
	}
	return &RosterWorker{
		roster:   roster,
		interval: interval,
	}
}

// Start runs the refresh loop until the context is cancelled.
func (w *RosterWorker) Start(ctx context.Context) {
	log.Printf("[RosterWorker] Starting roster mirror (interval: %s)", w.interval)

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Printf("[RosterWorker] Shutting down")
			return
		case <-ticker.C:
			w.roster.PostAll(ctx)
		}
	}
}
