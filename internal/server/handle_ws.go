package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

// WSCommand is one UI event sent over the session socket.
type WSCommand struct {
	Op    string   `json:"op"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
	Floor *int     `json:"floor,omitempty"`
}

// WSReply answers every command with the resulting state or an error.
type WSReply struct {
	Op      string           `json:"op"`
	Error   string           `json:"error,omitempty"`
	Session *SessionResponse `json:"session,omitempty"`
}

var errUnknownOp = errors.New("unknown op")

// applyCommand runs one command against s.
func applyCommand(ctx context.Context, s *session.Session, cmd WSCommand) error {
	switch cmd.Op {
	case "state":
		return nil
	case "start":
		return s.StartMatch(ctx)
	case "location":
		if cmd.X == nil || cmd.Y == nil {
			return errors.New("x and y are required")
		}
		return s.SetGuessLocation(geoguessr.Point{X: *cmd.X, Y: *cmd.Y})
	case "floor":
		if cmd.Floor == nil {
			return errors.New("floor is required")
		}
		return s.SetGuessFloor(*cmd.Floor)
	case "submit":
		return s.SubmitGuess()
	case "advance":
		return s.Advance(ctx)
	case "final":
		return s.ViewFinalResults()
	case "play_again":
		return s.PlayAgain(ctx)
	case "reset":
		s.ResetToTitle()
		return nil
	default:
		return fmt.Errorf("%w %q", errUnknownOp, cmd.Op)
	}
}

// handleSessionWS drives a session from a WebSocket. Commands on one
// connection are applied in order.
func handleSessionWS(hub *Hub, logger *slog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, s := sessionFrom(r)

		conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
			InsecureSkipVerify: true,
		})
		if err != nil {
			logger.Error("websocket accept failed", "error", err)
			return
		}
		defer conn.CloseNow()

		ctx, cancel := context.WithTimeout(r.Context(), 30*time.Minute)
		defer cancel()

		for {
			var cmd WSCommand
			if err := wsjson.Read(ctx, conn, &cmd); err != nil {
				logger.Debug("websocket read ended", "session", id, "error", err)
				return
			}

			if _, err := hub.Get(id); err != nil {
				_ = wsjson.Write(ctx, conn, WSReply{Op: cmd.Op, Error: "session expired"})
				conn.Close(websocket.StatusGoingAway, "session expired")
				return
			}

			reply := WSReply{Op: cmd.Op}
			if err := applyCommand(ctx, s, cmd); err != nil {
				reply.Error = err.Error()
			} else {
				resp := newSessionResponse(id, s.State())
				reply.Session = &resp
			}

			if err := wsjson.Write(ctx, conn, reply); err != nil {
				logger.Debug("websocket write failed", "session", id, "error", err)
				return
			}
		}
	}
}
