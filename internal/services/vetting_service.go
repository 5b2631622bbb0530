package services

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"

	"guard-collective/gatekeeper/internal/common"
	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/keyword"
	"guard-collective/gatekeeper/internal/logging"
	"guard-collective/gatekeeper/internal/metrics"
	"guard-collective/gatekeeper/internal/models/dtos"
	"guard-collective/gatekeeper/internal/models/entities"
	"guard-collective/gatekeeper/internal/providers"
)

const boardCacheKey = "blacklist_board_lists"

// GameProfileAPI is the slice of the Roblox provider the pipeline consumes.
type GameProfileAPI interface {
	LookupUserID(ctx context.Context, username string) (int64, error)
	FetchUserInfo(ctx context.Context, userID int64) (string, time.Time, error)
	CanViewInventory(ctx context.Context, userID int64) (bool, error)
	FetchSocialCount(ctx context.Context, userID int64, counter string) (int, error)
	FetchBadges(ctx context.Context, userID int64) ([]dtos.Badge, int, error)
	FetchGroupRoles(ctx context.Context, userID int64) ([]dtos.GroupRoleEntry, error)
}

// BlacklistBoardAPI fetches the moderation board snapshot.
type BlacklistBoardAPI interface {
	FetchBoardLists(ctx context.Context) ([]dtos.TrelloList, error)
}

// ChatUserAPI resolves a chat platform user by numeric id.
type ChatUserAPI interface {
	FetchUser(ctx context.Context, userID int64) (*dtos.DiscordUser, error)
}

// VettingPolicy holds the thresholds and category sets the pipeline checks
// against. It is rebuilt from configuration on reload.
type VettingPolicy struct {
	MinDiscordAgeDays int
	MinBadgeCount     int
	MainGroupID       int64
	MainDivisionIDs   []int64
	SubDivisionIDs    []int64
	MajorCategories   []string
	DenyKeywords      []string
	SkipCategories    []string
	BoardCacheTTL     time.Duration
}

// VettingService runs the linear vetting pipeline. Checks execute in a fixed
// order and the first failing check terminates the run.
type VettingService struct {
	policy   VettingPolicy
	game     GameProfileAPI
	board    BlacklistBoardAPI
	chat     ChatUserAPI
	reporter DiagnosticReporter
	history  *VettingHistoryWriter
	cache    common.CacheInterface
	registry *metrics.MetricsRegistry

	boardGroup singleflight.Group
	now        func() time.Time
}

// VettingHistoryWriter decouples the pipeline from the gorm repository so
// tests can run without a database.
type VettingHistoryWriter struct {
	Write func(ctx context.Context, rec *entities.VettingRecord) error
}

func NewVettingService(
	policy VettingPolicy,
	game GameProfileAPI,
	board BlacklistBoardAPI,
	chat ChatUserAPI,
	reporter DiagnosticReporter,
	history *VettingHistoryWriter,
	cache common.CacheInterface,
	registry *metrics.MetricsRegistry,
) *VettingService {
	if policy.BoardCacheTTL <= 0 {
		policy.BoardCacheTTL = 5 * time.Minute
	}
	return &VettingService{
		policy:   policy,
		game:     game,
		board:    board,
		chat:     chat,
		reporter: reporter,
		history:  history,
		cache:    cache,
		registry: registry,
		now:      time.Now,
	}
}

// Run executes one vetting pass over the identity pair and returns exactly
// one verdict. Upstream failures abort the run rather than deny it; the
// caller only publishes approved and denied outcomes.
func (s *VettingService) Run(ctx context.Context, guildID, actorID int64, req dtos.CheckRequest) *dtos.Verdict {
	started := s.now()
	runID := uuid.NewString()
	runLog := logging.WithRun(runID, strconv.FormatInt(guildID, 10), strconv.FormatInt(actorID, 10))
	runLog.Infow("vetting run started",
		"roblox_username", req.RobloxUsername,
		"discord_id", req.DiscordID,
	)

	verdict := s.walk(ctx, runID, req)

	elapsed := s.now().Sub(started)
	runLog.Infow("vetting run finished",
		"outcome", verdict.Outcome.String(),
		"state", verdict.State.String(),
		"duration_ms", elapsed.Milliseconds(),
	)
	s.recordRun(ctx, guildID, actorID, req, verdict, elapsed)
	return verdict
}

func (s *VettingService) walk(ctx context.Context, runID string, req dtos.CheckRequest) *dtos.Verdict {
	// Identity B must be a plausible numeric id before anything is fetched.
	discordID, err := providers.ParseUserID(req.DiscordID)
	if err != nil {
		return &dtos.Verdict{
			RunID:   runID,
			Outcome: constants.OutcomeDenied,
			Reason:  constants.MsgInvalidDiscordID,
			State:   constants.StateParsedIdentity,
		}
	}

	chatUser, err := s.chat.FetchUser(ctx, discordID)
	if err != nil {
		s.reportFetchFailure(ctx, "discord user", err)
		return &dtos.Verdict{
			RunID:   runID,
			Outcome: constants.OutcomeAborted,
			State:   constants.StateFetchedDiscordProfile,
		}
	}

	if chatUser.AccountAgeDays < s.policy.MinDiscordAgeDays {
		return &dtos.Verdict{
			RunID:       runID,
			Outcome:     constants.OutcomeDenied,
			Reason:      "DISCORD ACCOUNT TOO YOUNG",
			State:       constants.StateAgeChecked,
			DiscordUser: chatUser,
		}
	}

	profile, badges, ok := s.fetchGameProfile(ctx, req.RobloxUsername)
	if !ok {
		return &dtos.Verdict{
			RunID:       runID,
			Outcome:     constants.OutcomeAborted,
			State:       constants.StateFetchedRobloxProfile,
			DiscordUser: chatUser,
		}
	}

	// Both raw identifiers are scanned against the board. A board outage is a
	// diagnostic, not a denial: the run continues with empty findings.
	findings := s.matchAgainstBoard(ctx, []string{profile.Username, strconv.FormatInt(discordID, 10)})

	if len(findings.Major) > 0 {
		return &dtos.Verdict{
			RunID:       runID,
			Outcome:     constants.OutcomeDenied,
			Reason:      "MAJOR BLACKLIST DETECTED: " + strings.Join(findings.Major, ", "),
			State:       constants.StateMajorBlacklistChecked,
			DiscordUser: chatUser,
			Profile:     profile,
			Blacklists:  &findings,
		}
	}

	if denied := FilterDenyMinor(findings.Minor, s.policy.DenyKeywords); len(denied) > 0 {
		return &dtos.Verdict{
			RunID:       runID,
			Outcome:     constants.OutcomeDenied,
			Reason:      "BLACKLIST DETECTED: " + strings.Join(denied, ", "),
			State:       constants.StateMinorBlacklistChecked,
			DiscordUser: chatUser,
			Profile:     profile,
			Blacklists:  &findings,
		}
	}

	groups := s.fetchGroupAffiliations(ctx, profile.UserID)

	if profile.BadgeCount < s.policy.MinBadgeCount {
		return &dtos.Verdict{
			RunID:       runID,
			Outcome:     constants.OutcomeDenied,
			Reason:      fmt.Sprintf("NOT ENOUGH BADGES DETECTED (%d/%d)", profile.BadgeCount, s.policy.MinBadgeCount),
			State:       constants.StateBadgeCountChecked,
			DiscordUser: chatUser,
			Profile:     profile,
			Groups:      groups,
			Blacklists:  &findings,
		}
	}

	return &dtos.Verdict{
		RunID:       runID,
		Outcome:     constants.OutcomeApproved,
		State:       constants.StateDone,
		DiscordUser: chatUser,
		Profile:     profile,
		Groups:      groups,
		Blacklists:  &findings,
		BadgeSeries: BadgeGrowthSeries(badges, profile.CreatedAt),
	}
}

// fetchGameProfile assembles the Roblox side of the identity pair. Any
// failure on the required lookups aborts with exactly one diagnostic; social
// counters degrade to zero individually.
func (s *VettingService) fetchGameProfile(ctx context.Context, username string) (*dtos.RobloxProfile, []dtos.Badge, bool) {
	userID, err := s.game.LookupUserID(ctx, username)
	if err != nil {
		if providers.IsNotFound(err) {
			s.reporter.Report(ctx, "warning", fmt.Sprintf("roblox user %q does not exist", username))
		} else {
			s.reportFetchFailure(ctx, "roblox username lookup", err)
		}
		return nil, nil, false
	}

	canonicalName, createdAt, err := s.game.FetchUserInfo(ctx, userID)
	if err != nil {
		s.reportFetchFailure(ctx, "roblox user info", err)
		return nil, nil, false
	}

	canView, err := s.game.CanViewInventory(ctx, userID)
	if err != nil {
		s.reportFetchFailure(ctx, "roblox inventory visibility", err)
		return nil, nil, false
	}
	if !canView {
		s.reporter.Report(ctx, "warning",
			fmt.Sprintf("roblox user %q (%d): %s", canonicalName, userID, constants.GetErrorMessage(constants.ErrCodeInventoryPrivate)))
		return nil, nil, false
	}

	profile := &dtos.RobloxProfile{
		UserID:         userID,
		Username:       canonicalName,
		CreatedAt:      createdAt,
		AccountAgeDays: int(s.now().Sub(createdAt).Hours() / 24),
	}

	for _, counter := range []struct {
		name string
		dst  *int
	}{
		{"followers", &profile.Followers},
		{"followings", &profile.Following},
		{"friends", &profile.Friends},
	} {
		n, err := s.game.FetchSocialCount(ctx, userID, counter.name)
		if err != nil {
			s.reportFetchFailure(ctx, "roblox "+counter.name+" count", err)
			n = 0
		}
		*counter.dst = n
	}

	badges, count, err := s.game.FetchBadges(ctx, userID)
	if err != nil {
		// Partial pages are still usable for the growth series.
		s.reportFetchFailure(ctx, "roblox badges", err)
	}
	profile.BadgeCount = count
	profile.BadgePages = providers.BadgePages(count)

	return profile, badges, true
}

// matchAgainstBoard fetches the board snapshot (cached, with concurrent runs
// collapsed onto a single upstream call) and scans it for the identifiers.
func (s *VettingService) matchAgainstBoard(ctx context.Context, identifiers []string) dtos.BlacklistFindings {
	lists, err := s.boardLists(ctx)
	if err != nil {
		s.reportFetchFailure(ctx, "blacklist board", err)
		return dtos.BlacklistFindings{}
	}
	return MatchBlacklists(lists, identifiers, s.policy.SkipCategories, s.policy.MajorCategories, s.now())
}

func (s *VettingService) boardLists(ctx context.Context) ([]dtos.TrelloList, error) {
	if s.cache != nil {
		if cached, found := s.cache.Get(boardCacheKey); found {
			if lists, okCast := cached.([]dtos.TrelloList); okCast {
				return lists, nil
			}
		}
	}

	v, err, _ := s.boardGroup.Do(boardCacheKey, func() (interface{}, error) {
		lists, err := s.board.FetchBoardLists(ctx)
		if err != nil {
			return nil, err
		}
		if s.cache != nil {
			s.cache.Set(boardCacheKey, lists, s.policy.BoardCacheTTL)
		}
		return lists, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]dtos.TrelloList), nil
}

// fetchGroupAffiliations partitions the user's group memberships. A fetch
// failure leaves the verdict without affiliations rather than ending the run.
func (s *VettingService) fetchGroupAffiliations(ctx context.Context, userID int64) *dtos.GroupAffiliations {
	entries, err := s.game.FetchGroupRoles(ctx, userID)
	if err != nil {
		s.reportFetchFailure(ctx, "roblox group roles", err)
		return &dtos.GroupAffiliations{}
	}

	affiliations := &dtos.GroupAffiliations{}
	for _, entry := range entries {
		role := dtos.GroupRole{GroupName: entry.Group.Name, RoleName: entry.Role.Name}

		// the buckets are not exclusive; a group id configured as both a
		// main division and a sub division lands in both
		if entry.Group.ID == s.policy.MainGroupID {
			r := role
			affiliations.MainGroup = &r
		}
		if containsID(s.policy.MainDivisionIDs, entry.Group.ID) {
			affiliations.MainDivisions = append(affiliations.MainDivisions, role)
		}
		if containsID(s.policy.SubDivisionIDs, entry.Group.ID) {
			affiliations.SubDivisions = append(affiliations.SubDivisions, role)
		}

		groupName := strings.ToLower(keyword.Normalize(entry.Group.Name))
		roleName := strings.ToLower(keyword.Normalize(entry.Role.Name))
		if strings.Contains(groupName, "intelligence") || strings.Contains(roleName, "intelligence") {
			affiliations.IntelligenceGroups = append(affiliations.IntelligenceGroups, role)
		}
	}
	return affiliations
}

func (s *VettingService) reportFetchFailure(ctx context.Context, what string, err error) {
	if perr, okCast := providers.AsProviderError(err); okCast {
		s.reporter.Report(ctx, "error", fmt.Sprintf("%s fetch failed [%s/%s]: %s", what, perr.Kind, perr.Code, perr.Message))
		return
	}
	s.reporter.Report(ctx, "error", fmt.Sprintf("%s fetch failed: %v", what, err))
}

func (s *VettingService) recordRun(ctx context.Context, guildID, actorID int64, req dtos.CheckRequest, verdict *dtos.Verdict, elapsed time.Duration) {
	if s.registry != nil {
		s.registry.VettingRunsTotal.WithLabelValues(verdict.Outcome.String()).Inc()
		s.registry.VettingRunDuration.WithLabelValues(verdict.Outcome.String()).Observe(elapsed.Seconds())
		if verdict.Outcome == constants.OutcomeDenied {
			s.registry.VettingDenialsTotal.WithLabelValues(verdict.State.String()).Inc()
		}
	}

	if s.history == nil || s.history.Write == nil {
		return
	}

	rec := &entities.VettingRecord{
		RunID:          verdict.RunID,
		GuildID:        guildID,
		ActorID:        actorID,
		RobloxUsername: req.RobloxUsername,
		Outcome:        verdict.Outcome.String(),
		Reason:         verdict.Reason,
		State:          verdict.State.String(),
		DurationMs:     elapsed.Milliseconds(),
	}
	if verdict.Profile != nil {
		rec.RobloxUserID = verdict.Profile.UserID
	}
	if verdict.DiscordUser != nil {
		rec.DiscordUserID = verdict.DiscordUser.ID
	}

	if err := s.history.Write(ctx, rec); err != nil {
		logging.Error(fmt.Sprintf("failed to persist vetting record %s: %v", verdict.RunID, err))
	}
}

func containsID(ids []int64, id int64) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
