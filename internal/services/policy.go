package services

import (
	"time"

	"guard-collective/gatekeeper/internal/config"
)

// VettingPolicyFromConfig binds the pipeline thresholds and category sets
// from the loaded configuration document.
func VettingPolicyFromConfig(cfg *config.Config) VettingPolicy {
	return VettingPolicy{
		MinDiscordAgeDays: cfg.GetInt("vetting.min_discord_age_days", 90),
		MinBadgeCount:     cfg.GetInt("vetting.min_badge_count", 10),
		MainGroupID:       cfg.GetInt64("vetting.main_group_id", 0),
		MainDivisionIDs:   cfg.GetInt64List("vetting.main_division_ids"),
		SubDivisionIDs:    cfg.GetInt64List("vetting.sub_division_ids"),
		MajorCategories:   cfg.GetStringList("vetting.blacklists.major_categories"),
		DenyKeywords:      cfg.GetStringList("vetting.blacklists.deny_keywords"),
		SkipCategories:    cfg.GetStringList("vetting.blacklists.skip_categories"),
		BoardCacheTTL:     time.Duration(cfg.GetInt("vetting.board_cache_seconds", 300)) * time.Second,
	}
}

// RosterPolicyFromConfig binds the roster mirror settings.
func RosterPolicyFromConfig(cfg *config.Config) RosterPolicy {
	return RosterPolicy{
		SectionOrder:    cfg.GetStringList("roster.section_order"),
		RosterWebhooks:  cfg.GetInt64StringMap("roster.webhooks"),
		RosterCacheTTL:  time.Duration(cfg.GetInt("roster.cache_seconds", 600)) * time.Second,
		RefreshInterval: time.Duration(cfg.GetInt("roster.refresh_hours", 24)) * time.Hour,
	}
}

// InvitePolicyFromConfig binds the invite claim settings.
func InvitePolicyFromConfig(cfg *config.Config) InvitePolicy {
	return InvitePolicy{
		ControlGuilds:   cfg.GetInt64List("invites.control_guilds"),
		RequiredRoleID:  cfg.GetInt64("invites.required_role_id", 0),
		TargetChannelID: cfg.GetInt64("invites.target_channel_id", 0),
		MaxAgeSeconds:   cfg.GetInt("invites.max_age_seconds", 3600),
		AuditWebhookURL: cfg.GetString("invites.audit_webhook_url", ""),
	}
}
