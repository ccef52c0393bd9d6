package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/handler/health"
)

type sessionPath struct {
	SessionID string `path:"sessionID"`
}

type locationBody struct {
	SessionID string  `path:"sessionID"`
	X         float64 `json:"x" required:"true"`
	Y         float64 `json:"y" required:"true"`
}

type floorBody struct {
	SessionID string `path:"sessionID"`
	Floor     int    `json:"floor" required:"true"`
}

type matchPath struct {
	MatchID string `path:"matchID"`
}

type listQuery struct {
	Limit int `query:"limit" minimum:"1" maximum:"100" default:"10"`
}

// sessionOp documents a POST on a session that takes no body and returns
// the new state.
func sessionOp(r *openapi3.Reflector, path, summary, description string, conflicts bool) {
	op, _ := r.NewOperationContext(http.MethodPost, path)
	op.SetSummary(summary)
	op.SetDescription(description)
	op.AddReqStructure(sessionPath{})
	op.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	if conflicts {
		op.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	}
	_ = r.AddOperation(op)
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "GeoGuessr API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the campus GeoGuessr game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(health.Report{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// POST /api/sessions
	createSession, _ := r.NewOperationContext(http.MethodPost, "/api/sessions")
	createSession.SetSummary("Create session")
	createSession.SetDescription("Creates a game session on the title screen. The body is optional.")
	createSession.AddReqStructure(CreateSessionRequest{})
	createSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	createSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(createSession)

	// GET /api/sessions/{sessionID}
	getSession, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}")
	getSession.SetSummary("Get session")
	getSession.SetDescription("Returns the session state. The current target is hidden while a round is being played.")
	getSession.AddReqStructure(sessionPath{})
	getSession.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getSession)

	// DELETE /api/sessions/{sessionID}
	deleteSession, _ := r.NewOperationContext(http.MethodDelete, "/api/sessions/{sessionID}")
	deleteSession.SetSummary("Delete session")
	deleteSession.AddReqStructure(sessionPath{})
	deleteSession.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusNoContent))
	deleteSession.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(deleteSession)

	sessionOp(r, "/api/sessions/{sessionID}/start", "Start match",
		"Loads round 1. Only valid on the title screen.", true)
	sessionOp(r, "/api/sessions/{sessionID}/advance", "Next round",
		"Loads the next round, or finishes the match after the last one. Only valid on the result screen.", true)
	sessionOp(r, "/api/sessions/{sessionID}/final", "View final results",
		"Moves from the last round's result to the final results screen.", true)
	sessionOp(r, "/api/sessions/{sessionID}/play-again", "Play again",
		"Starts a new match from the final results screen.", true)
	sessionOp(r, "/api/sessions/{sessionID}/reset", "Reset to title",
		"Abandons the match and returns to the title screen.", false)

	// POST /api/sessions/{sessionID}/guess/location
	postLocation, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/guess/location")
	postLocation.SetSummary("Place guess marker")
	postLocation.SetDescription("Sets the guessed map position. Replaces any previous position.")
	postLocation.AddReqStructure(locationBody{})
	postLocation.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postLocation.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postLocation)

	// POST /api/sessions/{sessionID}/guess/floor
	postFloor, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/guess/floor")
	postFloor.SetSummary("Select floor")
	postFloor.SetDescription("Sets the guessed floor.")
	postFloor.AddReqStructure(floorBody{})
	postFloor.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postFloor.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postFloor.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postFloor)

	// POST /api/sessions/{sessionID}/submit
	postSubmit, _ := r.NewOperationContext(http.MethodPost, "/api/sessions/{sessionID}/submit")
	postSubmit.SetSummary("Submit guess")
	postSubmit.SetDescription("Scores the guess and shows the round result. Both a location and a floor are required.")
	postSubmit.AddReqStructure(sessionPath{})
	postSubmit.AddRespStructure(SessionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postSubmit.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnprocessableEntity))
	_ = r.AddOperation(postSubmit)

	// GET /api/sessions/{sessionID}/ws
	getWS, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/ws")
	getWS.SetSummary("Session WebSocket")
	getWS.SetDescription("Upgrades to a WebSocket. Each JSON command {op, x, y, floor} is answered with the resulting state.")
	getWS.AddReqStructure(sessionPath{})
	getWS.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusSwitchingProtocols),
		openapi.WithContentType("text/plain"))
	_ = r.AddOperation(getWS)

	// GET /api/sessions/{sessionID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/sessions/{sessionID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of session state changes.")
	getEvents.AddReqStructure(sessionPath{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	_ = r.AddOperation(getEvents)

	// GET /api/matches
	listMatches, _ := r.NewOperationContext(http.MethodGet, "/api/matches")
	listMatches.SetSummary("Recent matches")
	listMatches.SetDescription("Returns finished matches, newest first.")
	listMatches.AddReqStructure(listQuery{})
	listMatches.AddRespStructure([]MatchRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(listMatches)

	// GET /api/matches/{matchID}
	getMatch, _ := r.NewOperationContext(http.MethodGet, "/api/matches/{matchID}")
	getMatch.SetSummary("Get match")
	getMatch.SetDescription("Returns a finished match with its round history.")
	getMatch.AddReqStructure(matchPath{})
	getMatch.AddRespStructure(MatchRecord{}, openapi.WithHTTPStatus(http.StatusOK))
	getMatch.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	_ = r.AddOperation(getMatch)

	// GET /api/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Returns the highest scoring matches.")
	getBoard.AddReqStructure(listQuery{})
	getBoard.AddRespStructure([]LeaderboardEntry{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getBoard)

	// GET /api/locations/count
	getCount, _ := r.NewOperationContext(http.MethodGet, "/api/locations/count")
	getCount.SetSummary("Location count")
	getCount.SetDescription("Returns the number of approved locations in the catalogue.")
	getCount.AddRespStructure(LocationCountResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(getCount)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
