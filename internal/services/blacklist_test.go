package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"guard-collective/gatekeeper/internal/models/dtos"
)

func board(lists ...dtos.TrelloList) []dtos.TrelloList { return lists }

func list(name string, cards ...dtos.TrelloCard) dtos.TrelloList {
	return dtos.TrelloList{Name: name, Cards: cards}
}

func TestMatchBlacklistsBuckets(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	lists := board(
		list("Exploiters", dtos.TrelloCard{Name: "ShadyPilot banned for exploits"}),
		list("Watchlist", dtos.TrelloCard{Name: "shadypilot under review"}),
		list("Info", dtos.TrelloCard{Name: "ShadyPilot mentioned in rules"}),
	)

	findings := MatchBlacklists(lists, []string{"ShadyPilot"}, []string{"Info"}, []string{"Exploiters"}, now)

	assert.Equal(t, []string{"Exploiters"}, findings.Major)
	assert.Equal(t, []string{"Watchlist"}, findings.Minor)
}

func TestMatchBlacklistsExpiredCardsIgnored(t *testing.T) {
	now := time.Date(2026, 6, 1, 0, 0, 0, 0, time.UTC)
	lists := board(
		list("Temp Bans",
			dtos.TrelloCard{Name: "shadypilot until may", Due: "2026-05-01T00:00:00.000Z"},
			dtos.TrelloCard{Name: "otheruser until july", Due: "2026-07-01T00:00:00.000Z"},
		),
	)

	findings := MatchBlacklists(lists, []string{"ShadyPilot"}, nil, nil, now)
	assert.Empty(t, findings.Minor, "a card past its due date no longer counts")

	findings = MatchBlacklists(lists, []string{"OtherUser"}, nil, nil, now)
	assert.Equal(t, []string{"Temp Bans"}, findings.Minor)
}

func TestMatchBlacklistsUnparseableDueNeverExpires(t *testing.T) {
	now := time.Now()
	lists := board(list("Bans", dtos.TrelloCard{Name: "shadypilot", Due: "soon"}))

	findings := MatchBlacklists(lists, []string{"ShadyPilot"}, nil, nil, now)
	assert.Equal(t, []string{"Bans"}, findings.Minor)
}

func TestMatchBlacklistsDeduplicatesListNames(t *testing.T) {
	now := time.Now()
	lists := board(list("Bans",
		dtos.TrelloCard{Name: "shadypilot case one"},
		dtos.TrelloCard{Name: "SHADYPILOT case two"},
	))

	findings := MatchBlacklists(lists, []string{"ShadyPilot"}, nil, nil, now)
	assert.Equal(t, []string{"Bans"}, findings.Minor)
}

func TestMatchBlacklistsMatchesEitherIdentifier(t *testing.T) {
	now := time.Now()
	lists := board(list("Bans", dtos.TrelloCard{Name: "discord id 123456789012345678 on record"}))

	findings := MatchBlacklists(lists, []string{"ShadyPilot", "123456789012345678"}, nil, nil, now)
	assert.Equal(t, []string{"Bans"}, findings.Minor)
}

func TestFilterDenyMinor(t *testing.T) {
	minor := []string{"Watchlist", "Banned Until Appeal", "Noted"}

	denied := FilterDenyMinor(minor, []string{"banned"})
	assert.Equal(t, []string{"Banned Until Appeal"}, denied)

	assert.Empty(t, FilterDenyMinor(minor, nil))
	assert.Empty(t, FilterDenyMinor(nil, []string{"banned"}))
}
