package server

import (
	"log/slog"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/handler/health"
)

func addRoutes(r chi.Router, logger *slog.Logger, deps Deps) {
	hub := deps.Hub

	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("GeoGuessr API", "/openapi.json", "/docs"))
	r.Mount("/healthz", health.NewHandler(logger, deps.Checks).Routes())

	r.Post("/api/sessions", handleCreateSession(hub))

	// Session routes, {sessionID} resolved by sessionMiddleware.
	r.Route("/api/sessions/{sessionID}", func(r chi.Router) {
		r.Use(sessionMiddleware(hub))
		r.Get("/", handleGetSession())
		r.Delete("/", handleDeleteSession(hub))
		r.Post("/start", handleStart())
		r.Post("/guess/location", handleGuessLocation())
		r.Post("/guess/floor", handleGuessFloor())
		r.Post("/submit", handleSubmit())
		r.Post("/advance", handleAdvance())
		r.Post("/final", handleFinal())
		r.Post("/play-again", handlePlayAgain())
		r.Post("/reset", handleReset())
		r.Get("/ws", handleSessionWS(hub, logger))
		r.Get("/events", handleEvents(hub.broker))
	})

	r.Get("/api/matches", handleRecentMatches(hub.matches))
	r.Get("/api/matches/{matchID}", handleGetMatch(hub.matches))
	r.Get("/api/leaderboard", handleLeaderboard(hub.board))
	if deps.Locations != nil {
		r.Get("/api/locations/count", handleLocationCount(deps.Locations))
	}

	if deps.SPADir != "" {
		if info, err := os.Stat(deps.SPADir); err == nil && info.IsDir() {
			logger.Info("serving SPA", "dir", deps.SPADir)
			r.NotFound(handleSPA(deps.SPADir))
		}
	}
}
