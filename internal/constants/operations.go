package constants

// Operation identifies a gated command surface. Each operation carries its own
// allow-list of servers and roles in the loaded configuration.
type Operation string

const (
	OpFilterCheck   Operation = "filter_check"
	OpBotManagement Operation = "bot_management"
	OpInviteAdmin   Operation = "invite_admin"
	OpStaffRoster   Operation = "staff_roster"
)

func (o Operation) String() string { return string(o) }

// CheckState tags how far a vetting run advanced before terminating. The walk
// is linear; a run never revisits an earlier state.
type CheckState string

const (
	StateStart                 CheckState = "start"
	StateParsedIdentity        CheckState = "parsed_identity"
	StateFetchedDiscordProfile CheckState = "fetched_discord_profile"
	StateAgeChecked            CheckState = "age_checked"
	StateFetchedRobloxProfile  CheckState = "fetched_roblox_profile"
	StateBlacklistChecked      CheckState = "blacklist_checked"
	StateMajorBlacklistChecked CheckState = "major_blacklist_checked"
	StateMinorBlacklistChecked CheckState = "minor_blacklist_checked"
	StateGroupsFetched         CheckState = "groups_fetched"
	StateBadgeCountChecked     CheckState = "badge_count_checked"
	StateRendered              CheckState = "rendered"
	StateDone                  CheckState = "done"
)

func (s CheckState) String() string { return string(s) }

// VerdictOutcome is the tag of the vetting sum type.
type VerdictOutcome string

const (
	OutcomeApproved VerdictOutcome = "approved"
	OutcomeDenied   VerdictOutcome = "denied"
	// OutcomeAborted means the run ended on an input/upstream failure that is
	// not a vetting result: no public verdict is published.
	OutcomeAborted VerdictOutcome = "aborted"
)

func (o VerdictOutcome) String() string { return string(o) }
