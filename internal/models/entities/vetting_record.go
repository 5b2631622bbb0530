package entities

import "time"

// VettingRecord is the persisted audit row for one vetting run
type VettingRecord struct {
	ID             uint      `gorm:"primaryKey"`
	RunID          string    `gorm:"type:varchar(36);uniqueIndex"`
	GuildID        int64     `gorm:"index"`
	ActorID        int64     `gorm:"index"`
	RobloxUsername string    `gorm:"type:varchar(64)"`
	RobloxUserID   int64     ``
	DiscordUserID  int64     `gorm:"index"`
	Outcome        string    `gorm:"type:varchar(16);index"`
	Reason         string    `gorm:"type:text"`
	State          string    `gorm:"type:varchar(32)"`
	DurationMs     int64     ``
	CreatedAt      time.Time ``
}

func (VettingRecord) TableName() string {
	return "vetting_records"
}
