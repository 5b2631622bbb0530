package workers

import (
	"context"
	"time"

	"guard-collective/gatekeeper/internal/config"
	"guard-collective/gatekeeper/internal/services"
)

type WorkersContainer struct {
	Roster *RosterWorker
}

func InitWorkers(roster *services.RosterService, cfg *config.Config) *WorkersContainer {
	interval := time.Duration(cfg.GetInt("roster.refresh_hours", 24)) * time.Hour
	rw := NewRosterWorker(roster, interval)

	if len(cfg.GetInt64StringMap("roster.webhooks")) > 0 {
		go rw.Start(context.Background())
	}

	return &WorkersContainer{
		Roster: rw,
	}
}
