package server

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

type ctxKey int

const (
	ctxKeySession ctxKey = iota
	ctxKeySessionID
)

// sessionMiddleware resolves the {sessionID} URL parameter to a live session.
func sessionMiddleware(hub *Hub) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := chi.URLParam(r, "sessionID")
			if id == "" {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			sess, err := hub.Get(id)
			if err != nil {
				writeError(w, http.StatusNotFound, "session not found")
				return
			}

			ctx := context.WithValue(r.Context(), ctxKeySession, sess)
			ctx = context.WithValue(ctx, ctxKeySessionID, id)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func sessionFrom(r *http.Request) (string, *session.Session) {
	return r.Context().Value(ctxKeySessionID).(string), r.Context().Value(ctxKeySession).(*session.Session)
}
