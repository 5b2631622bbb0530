package repositories

import (
	"context"

	"gorm.io/gorm"

	"guard-collective/gatekeeper/internal/models/entities"
)

// VettingHistoryRepo persists one audit row per vetting run
type VettingHistoryRepo struct {
	db *gorm.DB
}

func NewVettingHistoryRepo(db *gorm.DB) *VettingHistoryRepo {
	return &VettingHistoryRepo{db: db}
}

// Record inserts the audit row for a completed run
func (r *VettingHistoryRepo) Record(ctx context.Context, rec *entities.VettingRecord) error {
	return r.db.WithContext(ctx).Create(rec).Error
}

// RecentByGuild returns the latest runs for one guild, newest first
func (r *VettingHistoryRepo) RecentByGuild(ctx context.Context, guildID int64, limit int) ([]entities.VettingRecord, error) {
	var records []entities.VettingRecord
	err := r.db.WithContext(ctx).
		Where("guild_id = ?", guildID).
		Order("created_at DESC").
		Limit(limit).
		Find(&records).Error
	return records, err
}

// LastForDiscordUser returns the most recent run targeting the given user,
// or gorm.ErrRecordNotFound
func (r *VettingHistoryRepo) LastForDiscordUser(ctx context.Context, discordUserID int64) (*entities.VettingRecord, error) {
	var rec entities.VettingRecord
	err := r.db.WithContext(ctx).
		Where("discord_user_id = ?", discordUserID).
		Order("created_at DESC").
		First(&rec).Error
	if err != nil {
		return nil, err
	}
	return &rec, nil
}
