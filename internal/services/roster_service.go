package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/models/dtos"
)

const rosterCacheKey = "staff_roster_rows"

// RosterSource fetches the staff roster rows from the administration base.
type RosterSource interface {
	FetchRosterRows(ctx context.Context) ([]dtos.RosterRow, error)
}

// RosterPolicy lists the ordered sections and the per-guild announcement
// webhooks for the roster mirror.
type RosterPolicy struct {
	SectionOrder    []string
	RosterWebhooks  map[int64]string
	RosterCacheTTL  time.Duration
	RefreshInterval time.Duration
}

// RosterService mirrors the staff roster into announcement channels.
type RosterService struct {
	policy   RosterPolicy
	source   RosterSource
	webhook  *common.WebhookService
	cache    common.CacheInterface
	reporter DiagnosticReporter
}

func NewRosterService(policy RosterPolicy, source RosterSource, webhook *common.WebhookService, cache common.CacheInterface, reporter DiagnosticReporter) *RosterService {
	if policy.RosterCacheTTL <= 0 {
		policy.RosterCacheTTL = 10 * time.Minute
	}
	return &RosterService{
		policy:   policy,
		source:   source,
		webhook:  webhook,
		cache:    cache,
		reporter: reporter,
	}
}

// Rows returns the current roster, served from cache when fresh.
func (s *RosterService) Rows(ctx context.Context) ([]dtos.RosterRow, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(rosterCacheKey); found {
			if rows, okCast := cached.([]dtos.RosterRow); okCast {
				return rows, nil
			}
		}
	}

	rows, err := s.source.FetchRosterRows(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetch roster: %w", err)
	}
	if s.cache != nil {
		s.cache.Set(rosterCacheKey, rows, s.policy.RosterCacheTTL)
	}
	return rows, nil
}

// BuildAnnouncement formats the roster grouped by section. Configured
// sections come first in their configured order; unknown sections follow in
// first-seen order.
func (s *RosterService) BuildAnnouncement(rows []dtos.RosterRow) string {
	bySection := make(map[string][]dtos.RosterRow)
	var order []string
	known := make(map[string]bool, len(s.policy.SectionOrder))

	for _, section := range s.policy.SectionOrder {
		known[section] = true
		order = append(order, section)
	}
	for _, row := range rows {
		section := row.Section
		if section == "" {
			section = "Unassigned"
		}
		if !known[section] {
			known[section] = true
			order = append(order, section)
		}
		bySection[section] = append(bySection[section], row)
	}

	var b strings.Builder
	b.WriteString("📋 **Staff Roster**\n")
	for _, section := range order {
		members := bySection[section]
		if len(members) == 0 {
			continue
		}
		fmt.Fprintf(&b, "\n**%s**\n", section)
		for _, row := range members {
			line := row.Member
			if row.Position != "" {
				line = row.Position + ": " + line
			}
			if row.Rating != "" {
				line += " (" + row.Rating + ")"
			}
			b.WriteString(line + "\n")
		}
	}
	return b.String()
}

// Post publishes the current roster to the guild's announcement webhook.
func (s *RosterService) Post(ctx context.Context, guildID int64) error {
	url, okGuild := s.policy.RosterWebhooks[guildID]
	if !okGuild || url == "" {
		return fmt.Errorf("no roster webhook configured for guild %d", guildID)
	}

	rows, err := s.Rows(ctx)
	if err != nil {
		s.reporter.Report(ctx, "error", fmt.Sprintf("roster refresh failed: %v", err))
		return err
	}

	s.webhook.Post(ctx, url, s.BuildAnnouncement(rows))
	return nil
}

// PostAll publishes the roster to every configured guild.
func (s *RosterService) PostAll(ctx context.Context) {
	for guildID := range s.policy.RosterWebhooks {
		if err := s.Post(ctx, guildID); err != nil {
			s.reporter.Report(ctx, "warning", fmt.Sprintf("roster post to guild %d failed: %v", guildID, err))
		}
	}
}
