package session

type EventType string

const (
	EventRoundLoaded    EventType = "round_loaded"
	EventGuessUpdated   EventType = "guess_updated"
	EventRoundSubmitted EventType = "round_submitted"
	EventLoadFailed     EventType = "load_failed"
	EventMatchFinished  EventType = "match_finished"
	EventReset          EventType = "reset"

	// EventExpired is published by the server when an idle session is
	// evicted. Sessions never emit it themselves.
	EventExpired EventType = "expired"
)

// Event describes one applied operation and the state it produced.
// Seq increases by one per event of a session, in the order the
// operations were applied.
type Event struct {
	Type  EventType
	Seq   uint64
	State State
}
