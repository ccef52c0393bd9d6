package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
)

var ErrNotFound = errors.New("not found")

// MatchRecord is a finished match as kept in history.
type MatchRecord struct {
	ID         string                  `json:"id"`
	PlayerName string                  `json:"playerName"`
	Summary    geoguessr.MatchSummary  `json:"summary"`
	Rounds     []geoguessr.RoundRecord `json:"rounds"`
	FinishedAt string                  `json:"finishedAt"`
}

// LeaderboardEntry is one ranked match.
type LeaderboardEntry struct {
	MatchID    string         `json:"matchId"`
	PlayerName string         `json:"playerName"`
	Total      int            `json:"total"`
	Tier       geoguessr.Tier `json:"tier"`
	FinishedAt string         `json:"finishedAt"`
}

func (m MatchRecord) entry() LeaderboardEntry {
	return LeaderboardEntry{
		MatchID:    m.ID,
		PlayerName: m.PlayerName,
		Total:      m.Summary.Total,
		Tier:       m.Summary.Tier,
		FinishedAt: m.FinishedAt,
	}
}

type MatchStore interface {
	RecordMatch(ctx context.Context, m MatchRecord) error
	GetMatch(ctx context.Context, id string) (MatchRecord, error)
	RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error)
}

type Leaderboard interface {
	Submit(ctx context.Context, e LeaderboardEntry) error
	Top(ctx context.Context, limit int) ([]LeaderboardEntry, error)
}

// MatchDocStore implements MatchStore and Leaderboard on the matches table,
// keeping each match as a JSONB document.
type MatchDocStore struct {
	db *sql.DB
}

func NewMatchDocStore(db *sql.DB) *MatchDocStore {
	return &MatchDocStore{db: db}
}

func (s *MatchDocStore) RecordMatch(ctx context.Context, m MatchRecord) error {
	data, err := json.Marshal(m)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO matches (id, player_name, total, finished_at, data) VALUES (?, ?, ?, ?, jsonb(?))
		 ON CONFLICT(id) DO UPDATE SET player_name = excluded.player_name, total = excluded.total,
		 finished_at = excluded.finished_at, data = excluded.data`,
		m.ID, m.PlayerName, m.Summary.Total, m.FinishedAt, string(data),
	)
	if err != nil {
		return fmt.Errorf("recording match %s: %w", m.ID, err)
	}
	return nil
}

func (s *MatchDocStore) GetMatch(ctx context.Context, id string) (MatchRecord, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT json(data) FROM matches WHERE id = ?`, id,
	).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return MatchRecord{}, ErrNotFound
	}
	if err != nil {
		return MatchRecord{}, err
	}

	var m MatchRecord
	if err := json.Unmarshal([]byte(data), &m); err != nil {
		return MatchRecord{}, err
	}
	return m, nil
}

func (s *MatchDocStore) RecentMatches(ctx context.Context, limit int) ([]MatchRecord, error) {
	return s.query(ctx, `SELECT json(data) FROM matches ORDER BY finished_at DESC LIMIT ?`, limit)
}

// Submit is a no-op: RecordMatch already stored the total.
func (s *MatchDocStore) Submit(context.Context, LeaderboardEntry) error { return nil }

func (s *MatchDocStore) Top(ctx context.Context, limit int) ([]LeaderboardEntry, error) {
	matches, err := s.query(ctx, `SELECT json(data) FROM matches ORDER BY total DESC, finished_at ASC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	entries := make([]LeaderboardEntry, len(matches))
	for i, m := range matches {
		entries[i] = m.entry()
	}
	return entries, nil
}

func (s *MatchDocStore) query(ctx context.Context, q string, args ...any) ([]MatchRecord, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []MatchRecord
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, err
		}
		var m MatchRecord
		if err := json.Unmarshal([]byte(data), &m); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}
