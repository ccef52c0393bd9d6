package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

// finishedAtLayout has a fixed width so timestamps sort as text.
const finishedAtLayout = "2006-01-02T15:04:05.000Z07:00"

// Hub creates sessions and connects their events to the broker and the
// match history.
type Hub struct {
	sessions    *session.Registry
	newProvider func() session.Provider
	fallback    session.FallbackPolicy
	broker      *Broker
	matches     MatchStore
	board       Leaderboard
	logger      *slog.Logger
}

type HubConfig struct {
	Sessions    *session.Registry
	NewProvider func() session.Provider
	Fallback    session.FallbackPolicy
	Broker      *Broker
	Matches     MatchStore
	Board       Leaderboard
}

func NewHub(logger *slog.Logger, cfg HubConfig) *Hub {
	h := &Hub{
		sessions:    cfg.Sessions,
		newProvider: cfg.NewProvider,
		fallback:    cfg.Fallback,
		broker:      cfg.Broker,
		matches:     cfg.Matches,
		board:       cfg.Board,
		logger:      logger,
	}
	h.sessions.OnEvict(h.expire)
	return h
}

// Create starts a new session on the title screen.
func (h *Hub) Create(playerName string) (string, *session.Session) {
	return h.sessions.Create(func(id string) *session.Session {
		return session.New(h.newProvider(),
			session.WithFallback(h.fallback),
			session.WithLogger(h.logger.With("session", id)),
			session.WithObserver(func(e session.Event) { h.observe(id, playerName, e) }),
		)
	})
}

func (h *Hub) Get(id string) (*session.Session, error) {
	return h.sessions.Get(id)
}

func (h *Hub) Delete(id string) error {
	return h.sessions.Delete(id)
}

// expire tells live subscribers that the session is gone, then drops them.
func (h *Hub) expire(id string) {
	h.broker.Publish(id, SSEEvent{Type: session.EventExpired})
	h.broker.Close(id)
	h.logger.Info("session expired", "session", id)
}

func (h *Hub) observe(id, playerName string, e session.Event) {
	h.broker.Publish(id, sseEventFrom(e))

	if e.Type == session.EventMatchFinished {
		h.record(playerName, e.State)
	}
}

func (h *Hub) record(playerName string, st session.State) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	m := MatchRecord{
		ID:         uuid.NewString(),
		PlayerName: playerName,
		Summary:    geoguessr.Summarize(st.History),
		Rounds:     st.History,
		FinishedAt: time.Now().UTC().Format(finishedAtLayout),
	}
	if err := h.matches.RecordMatch(ctx, m); err != nil {
		h.logger.Error("recording match failed", "match", m.ID, "error", err)
		return
	}
	if err := h.board.Submit(ctx, m.entry()); err != nil {
		h.logger.Error("updating leaderboard failed", "match", m.ID, "error", err)
	}
	h.logger.Info("match finished", "match", m.ID, "total", m.Summary.Total, "tier", m.Summary.Tier)
}
