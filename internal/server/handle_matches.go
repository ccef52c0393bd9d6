package server

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
)

const (
	defaultListLimit = 10
	maxListLimit     = 100
)

type LocationCountResponse struct {
	Count int `json:"count"`
}

// LocationCounter reports the size of the location catalogue.
type LocationCounter interface {
	Count(ctx context.Context) (int, error)
}

func listLimit(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return defaultListLimit
	}
	return min(n, maxListLimit)
}

func handleRecentMatches(store MatchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		matches, err := store.RecentMatches(r.Context(), listLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if matches == nil {
			matches = []MatchRecord{}
		}
		writeJSON(w, http.StatusOK, matches)
	}
}

func handleGetMatch(store MatchStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		m, err := store.GetMatch(r.Context(), chi.URLParam(r, "matchID"))
		if errors.Is(err, ErrNotFound) {
			writeError(w, http.StatusNotFound, "match not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, m)
	}
}

func handleLeaderboard(board Leaderboard) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		entries, err := board.Top(r.Context(), listLimit(r))
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if entries == nil {
			entries = []LeaderboardEntry{}
		}
		writeJSON(w, http.StatusOK, entries)
	}
}

func handleLocationCount(locs LocationCounter) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		n, err := locs.Count(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		writeJSON(w, http.StatusOK, LocationCountResponse{Count: n})
	}
}
