package dtos

import (
	"time"

	"guard-collective/gatekeeper/internal/constants"
)

// CheckRequest carries the identity pair under vetting. The Discord id is
// received as a string and validated by the pipeline.
type CheckRequest struct {
	RobloxUsername string `json:"roblox_username"`
	DiscordID      string `json:"discord_id"`
}

// BadgePoint is one step of the cumulative badge-growth series
type BadgePoint struct {
	At    time.Time `json:"at"`
	Count int       `json:"count"`
}

// Verdict is the terminal result of one vetting run. Exactly one outcome is
// produced per run; the record is immutable once constructed.
type Verdict struct {
	RunID   string                   `json:"run_id"`
	Outcome constants.VerdictOutcome `json:"outcome"`
	Reason  string                   `json:"reason,omitempty"`
	State   constants.CheckState     `json:"state"`

	DiscordUser *DiscordUser       `json:"discord_user,omitempty"`
	Profile     *RobloxProfile     `json:"profile,omitempty"`
	Groups      *GroupAffiliations `json:"groups,omitempty"`
	Blacklists  *BlacklistFindings `json:"blacklists,omitempty"`
	BadgeSeries []BadgePoint       `json:"badge_series,omitempty"`
}

// RenderedVerdict is the publisher's input contract made concrete: the text
// block posted to the result channel plus an optional chart artifact.
type RenderedVerdict struct {
	TextBlock     string `json:"text_block"`
	ChartArtifact []byte `json:"-"`
}
