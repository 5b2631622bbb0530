package dtos

import "time"

// ============================================================================
// Raw upstream payloads (users / friends / inventory / badges / groups APIs)
// ============================================================================

// UsernameLookupReq is the batch-of-one body for the username->id endpoint
type UsernameLookupReq struct {
	Usernames          []string `json:"usernames"`
	ExcludeBannedUsers bool     `json:"excludeBannedUsers"`
}

type UsernameLookupEntry struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UsernameLookupResp struct {
	Data []UsernameLookupEntry `json:"data"`
}

type UserInfoResp struct {
	ID      int64  `json:"id"`
	Name    string `json:"name"`
	Created string `json:"created"`
}

type CanViewInventoryResp struct {
	CanView bool `json:"canView"`
}

type SocialCountResp struct {
	Count int `json:"count"`
}

type BadgeItem struct {
	Name    string `json:"name"`
	Created string `json:"created"`
}

type BadgesResp struct {
	Data           []BadgeItem `json:"data"`
	NextPageCursor string      `json:"nextPageCursor"`
}

type GroupRoleEntry struct {
	Group struct {
		ID   int64  `json:"id"`
		Name string `json:"name"`
	} `json:"group"`
	Role struct {
		Name string `json:"name"`
	} `json:"role"`
}

type GroupRolesResp struct {
	Data []GroupRoleEntry `json:"data"`
}

// ============================================================================
// Derived records
// ============================================================================

// RobloxProfile is assembled once per vetting run and never mutated
type RobloxProfile struct {
	UserID         int64     `json:"user_id"`
	Username       string    `json:"username"`
	AccountAgeDays int       `json:"account_age_days"`
	CreatedAt      time.Time `json:"created_at"`
	Followers      int       `json:"followers"`
	Following      int       `json:"following"`
	Friends        int       `json:"friends"`
	BadgeCount     int       `json:"badge_count"`
	BadgePages     int       `json:"badge_pages"`
}

// Badge carries only what the cumulative-growth series needs. Upstream
// ordering is not guaranteed; sort by CreatedAt before any cumulative count.
type Badge struct {
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// GroupRole is a (group name, role name) affiliation tuple
type GroupRole struct {
	GroupName string `json:"group_name"`
	RoleName  string `json:"role_name"`
}

// GroupAffiliations partitions a user's group memberships. The categories are
// not exclusive; IntelligenceGroups is derived by normalized substring match.
type GroupAffiliations struct {
	MainGroup          *GroupRole  `json:"main_group"`
	MainDivisions      []GroupRole `json:"main_divisions"`
	SubDivisions       []GroupRole `json:"sub_divisions"`
	IntelligenceGroups []GroupRole `json:"intelligence_groups"`
}
