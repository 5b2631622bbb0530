package dtos

import "time"

// DiscordUserResp is the raw user object from the chat platform's REST API
type DiscordUserResp struct {
	ID            string `json:"id"`
	Username      string `json:"username"`
	Discriminator string `json:"discriminator"`
	Bot           bool   `json:"bot"`
	Avatar        string `json:"avatar"`
}

// DiscordUser is the derived record used by the vetting pipeline. CreatedAt
// is decoded from the snowflake id, not fetched.
type DiscordUser struct {
	ID             int64     `json:"id"`
	Username       string    `json:"username"`
	CreatedAt      time.Time `json:"created_at"`
	AccountAgeDays int       `json:"account_age_days"`
	IsBot          bool      `json:"is_bot"`
	AvatarURL      string    `json:"avatar_url"`
}
