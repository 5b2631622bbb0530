package repositories

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"guard-collective/gatekeeper/internal/models/entities"
)

func newTestHistoryRepo(t *testing.T) *VettingHistoryRepo {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "audit.db")), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&entities.VettingRecord{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return NewVettingHistoryRepo(db)
}

func TestVettingHistoryRepo_LastForDiscordUser(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	records := []entities.VettingRecord{
		{RunID: "run-1", GuildID: 10, DiscordUserID: 555, Outcome: "denied", CreatedAt: base},
		{RunID: "run-2", GuildID: 10, DiscordUserID: 555, Outcome: "approved", CreatedAt: base.Add(time.Hour)},
		{RunID: "run-3", GuildID: 10, DiscordUserID: 777, Outcome: "approved", CreatedAt: base.Add(2 * time.Hour)},
	}
	for i := range records {
		if err := repo.Record(ctx, &records[i]); err != nil {
			t.Fatalf("record %s: %v", records[i].RunID, err)
		}
	}

	last, err := repo.LastForDiscordUser(ctx, 555)
	if err != nil {
		t.Fatalf("last: %v", err)
	}
	if last.RunID != "run-2" {
		t.Errorf("expected newest run for the user, got %s", last.RunID)
	}

	if _, err := repo.LastForDiscordUser(ctx, 999); !errors.Is(err, gorm.ErrRecordNotFound) {
		t.Errorf("expected ErrRecordNotFound for unseen user, got %v", err)
	}
}

func TestVettingHistoryRepo_RecentByGuild(t *testing.T) {
	repo := newTestHistoryRepo(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, runID := range []string{"run-a", "run-b", "run-c"} {
		rec := entities.VettingRecord{RunID: runID, GuildID: 10, DiscordUserID: int64(i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		if err := repo.Record(ctx, &rec); err != nil {
			t.Fatalf("record %s: %v", runID, err)
		}
	}

	recent, err := repo.RecentByGuild(ctx, 10, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recent))
	}
	if recent[0].RunID != "run-c" || recent[1].RunID != "run-b" {
		t.Errorf("expected newest-first ordering, got %s then %s", recent[0].RunID, recent[1].RunID)
	}
}
