package server

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/database"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/migrations"
)

func openStore(t *testing.T) (*MatchDocStore, *sql.DB) {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if _, err := migrations.Run(ctx, db, discardLogger()); err != nil {
		t.Fatalf("migrations: %v", err)
	}
	return NewMatchDocStore(db), db
}

func match(id, player string, finishedAt string, scores ...int) MatchRecord {
	rounds := make([]geoguessr.RoundRecord, len(scores))
	for i, s := range scores {
		rounds[i] = geoguessr.RoundRecord{RoundNumber: i + 1, LocationScore: s, Score: s, FloorCorrect: true}
	}
	return MatchRecord{
		ID:         id,
		PlayerName: player,
		Summary:    geoguessr.Summarize(rounds),
		Rounds:     rounds,
		FinishedAt: finishedAt,
	}
}

func TestMatchDocStore(t *testing.T) {
	s, _ := openStore(t)
	ctx := context.Background()

	records := []MatchRecord{
		match("m1", "ada", "2026-01-01T10:00:00Z", 1000, 1000),
		match("m2", "bob", "2026-01-02T10:00:00Z", 5000, 5000),
		match("m3", "cy", "2026-01-03T10:00:00Z", 3000, 3000),
	}
	for _, m := range records {
		if err := s.RecordMatch(ctx, m); err != nil {
			t.Fatalf("record %s: %v", m.ID, err)
		}
	}

	got, err := s.GetMatch(ctx, "m2")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.PlayerName != "bob" || got.Summary.Total != 10000 || len(got.Rounds) != 2 {
		t.Errorf("match = %+v", got)
	}

	if _, err := s.GetMatch(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}

	recent, err := s.RecentMatches(ctx, 2)
	if err != nil {
		t.Fatalf("recent: %v", err)
	}
	if len(recent) != 2 || recent[0].ID != "m3" || recent[1].ID != "m2" {
		t.Errorf("recent = %v, want [m3 m2]", ids(recent))
	}

	top, err := s.Top(ctx, 10)
	if err != nil {
		t.Fatalf("top: %v", err)
	}
	want := []string{"m2", "m3", "m1"}
	if len(top) != len(want) {
		t.Fatalf("got %d entries, want %d", len(top), len(want))
	}
	for i, e := range top {
		if e.MatchID != want[i] {
			t.Errorf("top[%d] = %s, want %s", i, e.MatchID, want[i])
		}
	}
}

func TestMatchDocStoreUpsert(t *testing.T) {
	s, db := openStore(t)
	ctx := context.Background()

	m := match("m1", "ada", "2026-01-01T10:00:00Z", 1000)
	if err := s.RecordMatch(ctx, m); err != nil {
		t.Fatalf("record: %v", err)
	}
	m.PlayerName = "ada l."
	if err := s.RecordMatch(ctx, m); err != nil {
		t.Fatalf("re-record: %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM matches`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("rows = %d, want 1", n)
	}
	got, _ := s.GetMatch(ctx, "m1")
	if got.PlayerName != "ada l." {
		t.Errorf("player = %q", got.PlayerName)
	}
}

func ids(ms []MatchRecord) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func TestRedisLeaderboardUnavailable(t *testing.T) {
	client := redis.NewClient(&redis.Options{
		Addr:        "127.0.0.1:1",
		DialTimeout: 100 * time.Millisecond,
		MaxRetries:  -1,
	})
	defer client.Close()
	board := NewRedisLeaderboard(client)
	ctx := context.Background()

	if err := board.Check(ctx); err == nil {
		t.Error("check succeeded against a closed port")
	}
	if err := board.Submit(ctx, LeaderboardEntry{MatchID: "m1", Total: 10}); err == nil {
		t.Error("submit succeeded against a closed port")
	}
	if _, err := board.Top(ctx, 10); err == nil {
		t.Error("top succeeded against a closed port")
	}
}
