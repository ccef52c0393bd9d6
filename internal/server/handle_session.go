package server

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

type CreateSessionRequest struct {
	PlayerName string `json:"playerName"`
}

type LocationRequest struct {
	X *float64 `json:"x"`
	Y *float64 `json:"y"`
}

type FloorRequest struct {
	Floor *int `json:"floor"`
}

// RoundView is a round record with its display values.
type RoundView struct {
	geoguessr.RoundRecord
	DistanceLabel string `json:"distanceLabel"`
	FloorPenalty  int    `json:"floorPenalty"`
}

type SessionResponse struct {
	ID           string                 `json:"id"`
	State        session.State          `json:"state"`
	CurrentRound *RoundView             `json:"currentRound"`
	Summary      geoguessr.MatchSummary `json:"summary"`
}

func newRoundView(r geoguessr.RoundRecord) RoundView {
	v := RoundView{
		RoundRecord:   r,
		DistanceLabel: geoguessr.FormatDistanceLabel(r.Distance),
	}
	if !r.FloorCorrect {
		v.FloorPenalty = geoguessr.FloorPenalty(r.LocationScore)
	}
	return v
}

// newSessionResponse hides the answer while the round is still being played.
func newSessionResponse(id string, st session.State) SessionResponse {
	if st.Screen == geoguessr.ScreenGame {
		st.CurrentTarget = nil
	}
	if st.History == nil {
		st.History = []geoguessr.RoundRecord{}
	}

	resp := SessionResponse{
		ID:      id,
		State:   st,
		Summary: geoguessr.Summarize(st.History),
	}
	if st.CurrentRecord != nil {
		v := newRoundView(*st.CurrentRecord)
		resp.CurrentRound = &v
	}
	return resp
}

func writeSession(w http.ResponseWriter, status int, id string, s *session.Session) {
	writeJSON(w, status, newSessionResponse(id, s.State()))
}

func writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, session.ErrWrongScreen):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrLoading):
		writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrIncompleteGuess):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func handleCreateSession(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// The body is optional.
		var req CreateSessionRequest
		if err := readJSON(w, r, &req); err != nil && !errors.Is(err, io.EOF) {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		id, s := hub.Create(strings.TrimSpace(req.PlayerName))
		writeSession(w, http.StatusCreated, id, s)
	}
}

func handleGetSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, s := sessionFrom(r)
		writeSession(w, http.StatusOK, id, s)
	}
}

func handleDeleteSession(hub *Hub) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, _ := sessionFrom(r)
		if err := hub.Delete(id); err != nil {
			writeError(w, http.StatusNotFound, "session not found")
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// handleSessionOp adapts a session operation without a request body.
func handleSessionOp(op func(r *http.Request, s *session.Session) error) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, s := sessionFrom(r)
		if err := op(r, s); err != nil {
			writeSessionError(w, err)
			return
		}
		writeSession(w, http.StatusOK, id, s)
	}
}

func handleStart() http.HandlerFunc {
	return handleSessionOp(func(r *http.Request, s *session.Session) error {
		return s.StartMatch(r.Context())
	})
}

func handleSubmit() http.HandlerFunc {
	return handleSessionOp(func(_ *http.Request, s *session.Session) error {
		return s.SubmitGuess()
	})
}

func handleAdvance() http.HandlerFunc {
	return handleSessionOp(func(r *http.Request, s *session.Session) error {
		return s.Advance(r.Context())
	})
}

func handleFinal() http.HandlerFunc {
	return handleSessionOp(func(_ *http.Request, s *session.Session) error {
		return s.ViewFinalResults()
	})
}

func handlePlayAgain() http.HandlerFunc {
	return handleSessionOp(func(r *http.Request, s *session.Session) error {
		return s.PlayAgain(r.Context())
	})
}

func handleReset() http.HandlerFunc {
	return handleSessionOp(func(_ *http.Request, s *session.Session) error {
		s.ResetToTitle()
		return nil
	})
}

func handleGuessLocation() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req LocationRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.X == nil || req.Y == nil {
			writeError(w, http.StatusBadRequest, "x and y are required")
			return
		}

		id, s := sessionFrom(r)
		if err := s.SetGuessLocation(geoguessr.Point{X: *req.X, Y: *req.Y}); err != nil {
			writeSessionError(w, err)
			return
		}
		writeSession(w, http.StatusOK, id, s)
	}
}

func handleGuessFloor() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req FloorRequest
		if err := readJSON(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		if req.Floor == nil {
			writeError(w, http.StatusBadRequest, "floor is required")
			return
		}

		id, s := sessionFrom(r)
		if err := s.SetGuessFloor(*req.Floor); err != nil {
			writeSessionError(w, err)
			return
		}
		writeSession(w, http.StatusOK, id, s)
	}
}
