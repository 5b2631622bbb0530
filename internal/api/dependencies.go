package api

import (
	"os"

	"guard-collective/gatekeeper/internal/auth"
	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/config"
	"guard-collective/gatekeeper/internal/db"
	"guard-collective/gatekeeper/internal/db/repositories"
	"guard-collective/gatekeeper/internal/logging"
	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/providers"
	"guard-collective/gatekeeper/internal/services"
)

type Repositories struct {
	Keys    *repositories.KeysRepo
	History *repositories.VettingHistoryRepo
	Invites *repositories.InviteStore
}

type Services struct {
	Cache     common.CacheInterface
	Webhook   *common.WebhookService
	Reporter  *services.Reporter
	Vetting   *services.VettingService
	Publisher *services.Publisher
	Invites   *services.InviteService
	Registry  *services.CommandRegistry
	Roster    *services.RosterService
}

type Dependencies struct {
	Config   *config.Config
	Gate     *auth.Gate
	Repo     *Repositories
	Services *Services
	Metrics  *metrics.MetricsRegistry
}

// knownCommands is the fixed command surface the front-end exposes.
var knownCommands = map[string]string{
	"check":        "Run a vetting check on an identity pair",
	"invite":       "Request a one-time invite",
	"invite-reset": "Clear a member's invite claim",
	"roster":       "Post the staff roster",
	"reload":       "Reload configuration",
}

// InitDependencies wires repositories, providers, and services. The cache
// backend is Redis when REDIS_ADDR is set, in-memory otherwise.
func InitDependencies(cfg *config.Config, metricsReg *metrics.MetricsRegistry) (*Dependencies, error) {
	repos := &Repositories{
		Keys:    repositories.NewApiKeysRepo(db.DB),
		History: repositories.NewVettingHistoryRepo(db.ORM),
		Invites: repositories.NewInviteStore(cfg.GetString("invites.store_path", "invites.json")),
	}

	var cache common.CacheInterface
	if os.Getenv("REDIS_ADDR") != "" {
		redisCache, err := common.NewRedisCacheService()
		if err != nil {
			return nil, err
		}
		cache = redisCache
		logging.Info("Cache backend: redis")
	} else {
		cache = common.NewCacheService(600, 1200)
		logging.Info("Cache backend: in-memory")
	}

	webhook := common.NewWebhookService()
	reporter := services.NewReporter(webhook, cfg.ErrorWebhookURL())

	gate := auth.NewGate(auth.PolicySetFromConfig(cfg))

	robloxAPI := providers.NewRobloxProvider().WithMetrics(metricsReg)
	trelloAPI := providers.NewTrelloProvider(cfg.GetString("vetting.blacklists.board_id", "")).WithMetrics(metricsReg)
	discordAPI := providers.NewDiscordProvider().WithMetrics(metricsReg)
	airtableAPI := providers.NewAirtableProvider(
		cfg.GetString("roster.airtable_base_id", ""),
		cfg.GetString("roster.airtable_table", "Roster"),
	).WithMetrics(metricsReg)

	history := &services.VettingHistoryWriter{Write: repos.History.Record}

	vetting := services.NewVettingService(
		services.VettingPolicyFromConfig(cfg),
		robloxAPI,
		trelloAPI,
		discordAPI,
		reporter,
		history,
		cache,
		metricsReg,
	)

	publisher := services.NewPublisher(webhook, cfg.GetInt64StringMap("vetting.result_webhooks"), reporter)
	invites := services.NewInviteService(services.InvitePolicyFromConfig(cfg), repos.Invites, discordAPI, webhook, metricsReg)
	roster := services.NewRosterService(services.RosterPolicyFromConfig(cfg), airtableAPI, webhook, cache, reporter)

	return &Dependencies{
		Config: cfg,
		Gate:   gate,
		Repo:   repos,
		Services: &Services{
			Cache:     cache,
			Webhook:   webhook,
			Reporter:  reporter,
			Vetting:   vetting,
			Publisher: publisher,
			Invites:   invites,
			Registry:  services.NewCommandRegistry(knownCommands),
			Roster:    roster,
		},
		Metrics: metricsReg,
	}, nil
}
