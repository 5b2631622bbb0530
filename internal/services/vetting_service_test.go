package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"guard-collective/gatekeeper/internal/constants"
	"guard-collective/gatekeeper/internal/models/dtos"
	"guard-collective/gatekeeper/internal/models/entities"
	"guard-collective/gatekeeper/internal/providers"
)

type fakeChat struct {
	user  *dtos.DiscordUser
	err   error
	calls int
}

func (f *fakeChat) FetchUser(ctx context.Context, userID int64) (*dtos.DiscordUser, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	u := *f.user
	u.ID = userID
	return &u, nil
}

type fakeGame struct {
	lookupID  int64
	lookupErr error

	name    string
	created time.Time
	infoErr error

	canView    bool
	canViewErr error

	socialCounts map[string]int
	socialErr    map[string]error

	badges     []dtos.Badge
	badgeCount int
	badgesErr  error

	groups    []dtos.GroupRoleEntry
	groupsErr error

	calls map[string]int
}

func (f *fakeGame) bump(name string) {
	if f.calls == nil {
		f.calls = map[string]int{}
	}
	f.calls[name]++
}

func (f *fakeGame) LookupUserID(ctx context.Context, username string) (int64, error) {
	f.bump("lookup")
	return f.lookupID, f.lookupErr
}

func (f *fakeGame) FetchUserInfo(ctx context.Context, userID int64) (string, time.Time, error) {
	f.bump("info")
	return f.name, f.created, f.infoErr
}

func (f *fakeGame) CanViewInventory(ctx context.Context, userID int64) (bool, error) {
	f.bump("inventory")
	return f.canView, f.canViewErr
}

func (f *fakeGame) FetchSocialCount(ctx context.Context, userID int64, counter string) (int, error) {
	f.bump("social")
	if err, present := f.socialErr[counter]; present {
		return 0, err
	}
	return f.socialCounts[counter], nil
}

func (f *fakeGame) FetchBadges(ctx context.Context, userID int64) ([]dtos.Badge, int, error) {
	f.bump("badges")
	return f.badges, f.badgeCount, f.badgesErr
}

func (f *fakeGame) FetchGroupRoles(ctx context.Context, userID int64) ([]dtos.GroupRoleEntry, error) {
	f.bump("groups")
	return f.groups, f.groupsErr
}

type fakeBoard struct {
	lists []dtos.TrelloList
	err   error
	calls int
}

func (f *fakeBoard) FetchBoardLists(ctx context.Context) ([]dtos.TrelloList, error) {
	f.calls++
	return f.lists, f.err
}

type captureReporter struct {
	mu       sync.Mutex
	messages []string
}

func (r *captureReporter) Report(ctx context.Context, level, message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, level+": "+message)
}

func (r *captureReporter) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.messages)
}

func healthyFixtures() (*fakeChat, *fakeGame, *fakeBoard) {
	created := time.Now().AddDate(-2, 0, 0)
	chat := &fakeChat{
		user: &dtos.DiscordUser{
			Username:       "tester#0001",
			CreatedAt:      time.Now().AddDate(-1, 0, 0),
			AccountAgeDays: 365,
		},
	}
	game := &fakeGame{
		lookupID:     777,
		name:         "TestPilot",
		created:      created,
		canView:      true,
		socialCounts: map[string]int{"followers": 5, "followings": 3, "friends": 12},
		badges: []dtos.Badge{
			{Name: "First Badge", CreatedAt: created.AddDate(0, 1, 0)},
			{Name: "Second Badge", CreatedAt: created.AddDate(0, 2, 0)},
		},
		badgeCount: 42,
	}
	board := &fakeBoard{lists: []dtos.TrelloList{}}
	return chat, game, board
}

func newTestService(chat *fakeChat, game *fakeGame, board *fakeBoard, reporter DiagnosticReporter, history *VettingHistoryWriter) *VettingService {
	policy := VettingPolicy{
		MinDiscordAgeDays: 90,
		MinBadgeCount:     10,
		MainGroupID:       1000,
		MainDivisionIDs:   []int64{1001},
		SubDivisionIDs:    []int64{1002},
		MajorCategories:   []string{"Exploiters"},
		DenyKeywords:      []string{"banned"},
		SkipCategories:    []string{"Info"},
	}
	return NewVettingService(policy, game, board, chat, reporter, history, nil, nil)
}

func TestRunInvalidDiscordID(t *testing.T) {
	chat, game, board := healthyFixtures()
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "not-a-number"})

	assert.Equal(t, constants.OutcomeDenied, verdict.Outcome)
	assert.Equal(t, constants.MsgInvalidDiscordID, verdict.Reason)
	assert.Equal(t, constants.StateParsedIdentity, verdict.State)
	assert.Zero(t, chat.calls, "nothing should be fetched for an unparseable id")
}

func TestRunDiscordAccountTooYoung(t *testing.T) {
	chat, game, board := healthyFixtures()
	chat.user.AccountAgeDays = 10
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeDenied, verdict.Outcome)
	assert.Equal(t, "DISCORD ACCOUNT TOO YOUNG", verdict.Reason)
	assert.Equal(t, constants.StateAgeChecked, verdict.State)
	assert.Zero(t, game.calls["lookup"], "roblox side must not be fetched after an age denial")
	assert.Zero(t, board.calls)
}

func TestRunInventoryPrivateAborts(t *testing.T) {
	chat, game, board := healthyFixtures()
	game.canView = false
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeAborted, verdict.Outcome)
	assert.Equal(t, constants.StateFetchedRobloxProfile, verdict.State)
	assert.Equal(t, 1, reporter.count(), "a private inventory emits exactly one diagnostic")
	assert.Zero(t, game.calls["social"])
	assert.Zero(t, game.calls["badges"])
}

func TestRunUnknownRobloxUserAborts(t *testing.T) {
	chat, game, board := healthyFixtures()
	game.lookupErr = &providers.ProviderError{
		Kind:    constants.ErrKindNotFound,
		Code:    constants.ErrCodeNotFound,
		Message: "Roblox user not found",
	}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "Ghost", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeAborted, verdict.Outcome)
	assert.Equal(t, 1, reporter.count())
	assert.Zero(t, game.calls["info"])
}

func TestRunMajorBlacklistDenies(t *testing.T) {
	chat, game, board := healthyFixtures()
	board.lists = []dtos.TrelloList{
		{Name: "Exploiters", Cards: []dtos.TrelloCard{{Name: "TestPilot and friends"}}},
	}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeDenied, verdict.Outcome)
	assert.Equal(t, "MAJOR BLACKLIST DETECTED: Exploiters", verdict.Reason)
	assert.Equal(t, constants.StateMajorBlacklistChecked, verdict.State)
	assert.Zero(t, game.calls["groups"], "group roles must not be fetched after a blacklist denial")
}

func TestRunMinorDenyKeywordDenies(t *testing.T) {
	chat, game, board := healthyFixtures()
	board.lists = []dtos.TrelloList{
		{Name: "Banned Until Further Notice", Cards: []dtos.TrelloCard{{Name: "testpilot"}}},
	}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeDenied, verdict.Outcome)
	assert.Equal(t, "BLACKLIST DETECTED: Banned Until Further Notice", verdict.Reason)
	assert.Equal(t, constants.StateMinorBlacklistChecked, verdict.State)
}

func TestRunMinorFindingWithoutKeywordIsRecordedOnly(t *testing.T) {
	chat, game, board := healthyFixtures()
	board.lists = []dtos.TrelloList{
		{Name: "Watchlist", Cards: []dtos.TrelloCard{{Name: "testpilot"}}},
	}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	require.NotNil(t, verdict.Blacklists)
	assert.Equal(t, []string{"Watchlist"}, verdict.Blacklists.Minor)
}

func TestRunBadgeShortfallDenies(t *testing.T) {
	chat, game, board := healthyFixtures()
	game.badgeCount = 3
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeDenied, verdict.Outcome)
	assert.Equal(t, "NOT ENOUGH BADGES DETECTED (3/10)", verdict.Reason)
	assert.Equal(t, constants.StateBadgeCountChecked, verdict.State)
	assert.Equal(t, 1, game.calls["groups"], "groups are fetched before the badge threshold check")
}

func TestRunApprovedCarriesSeriesAndRecordsHistory(t *testing.T) {
	chat, game, board := healthyFixtures()
	reporter := &captureReporter{}

	var recorded *entities.VettingRecord
	history := &VettingHistoryWriter{
		Write: func(ctx context.Context, rec *entities.VettingRecord) error {
			recorded = rec
			return nil
		},
	}
	svc := newTestService(chat, game, board, reporter, history)

	verdict := svc.Run(context.Background(), 55, 66, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	require.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	assert.Equal(t, constants.StateDone, verdict.State)
	require.NotNil(t, verdict.Profile)
	assert.Equal(t, "TestPilot", verdict.Profile.Username)
	assert.Equal(t, 42, verdict.Profile.BadgeCount)
	require.Len(t, verdict.BadgeSeries, 3)
	assert.Equal(t, 0, verdict.BadgeSeries[0].Count)

	require.NotNil(t, recorded)
	assert.Equal(t, verdict.RunID, recorded.RunID)
	assert.Equal(t, int64(55), recorded.GuildID)
	assert.Equal(t, int64(66), recorded.ActorID)
	assert.Equal(t, "approved", recorded.Outcome)
}

func TestRunBoardOutageContinuesWithEmptyFindings(t *testing.T) {
	chat, game, board := healthyFixtures()
	board.err = fmt.Errorf("board unavailable")
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	assert.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	require.NotNil(t, verdict.Blacklists)
	assert.Empty(t, verdict.Blacklists.Major)
	assert.Empty(t, verdict.Blacklists.Minor)
	assert.Equal(t, 1, reporter.count())
}

func TestRunSocialCountFailureDegradesToZero(t *testing.T) {
	chat, game, board := healthyFixtures()
	game.socialErr = map[string]error{"followers": fmt.Errorf("upstream 500")}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	require.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	assert.Equal(t, 0, verdict.Profile.Followers)
	assert.Equal(t, 3, verdict.Profile.Following)
	assert.Equal(t, 12, verdict.Profile.Friends)
	assert.Equal(t, 1, reporter.count())
}

func TestRunGroupPartitioning(t *testing.T) {
	chat, game, board := healthyFixtures()

	mkEntry := func(id int64, name, role string) dtos.GroupRoleEntry {
		var e dtos.GroupRoleEntry
		e.Group.ID = id
		e.Group.Name = name
		e.Role.Name = role
		return e
	}
	game.groups = []dtos.GroupRoleEntry{
		mkEntry(1000, "Main Community", "Sergeant"),
		mkEntry(1001, "First Division", "Member"),
		mkEntry(1002, "Support Wing", "Recruit"),
		mkEntry(9999, "Foreign Ӏntelligence Bureau", "Agent"),
	}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	require.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	g := verdict.Groups
	require.NotNil(t, g)
	require.NotNil(t, g.MainGroup)
	assert.Equal(t, "Main Community", g.MainGroup.GroupName)
	require.Len(t, g.MainDivisions, 1)
	require.Len(t, g.SubDivisions, 1)
	require.Len(t, g.IntelligenceGroups, 1, "homoglyph spellings of intelligence must still match")
	assert.Equal(t, "Foreign Ӏntelligence Bureau", g.IntelligenceGroups[0].GroupName)
}

func TestRunIntelligenceRoleNameMatches(t *testing.T) {
	chat, game, board := healthyFixtures()

	var entry dtos.GroupRoleEntry
	entry.Group.ID = 9998
	entry.Group.Name = "Border Patrol"
	entry.Role.Name = "Intelligence Officer"
	game.groups = []dtos.GroupRoleEntry{entry}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	require.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	require.NotNil(t, verdict.Groups)
	require.Len(t, verdict.Groups.IntelligenceGroups, 1, "intelligence in the role name must flag the membership")
	assert.Equal(t, "Intelligence Officer", verdict.Groups.IntelligenceGroups[0].RoleName)
}

func TestRunGroupPartitioningBucketsOverlap(t *testing.T) {
	chat, game, board := healthyFixtures()

	var entry dtos.GroupRoleEntry
	entry.Group.ID = 1001
	entry.Group.Name = "First Division"
	entry.Role.Name = "Member"
	game.groups = []dtos.GroupRoleEntry{entry}
	reporter := &captureReporter{}
	svc := newTestService(chat, game, board, reporter, nil)
	svc.policy.SubDivisionIDs = []int64{1001}

	verdict := svc.Run(context.Background(), 1, 2, dtos.CheckRequest{RobloxUsername: "TestPilot", DiscordID: "123456789012345678"})

	require.Equal(t, constants.OutcomeApproved, verdict.Outcome)
	g := verdict.Groups
	require.NotNil(t, g)
	require.Len(t, g.MainDivisions, 1, "group configured in both division sets lands in both buckets")
	require.Len(t, g.SubDivisions, 1, "group configured in both division sets lands in both buckets")
}
