package server

import (
	"encoding/json"
	"sync"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/session"
)

// SSEEvent is the payload published to session subscribers.
type SSEEvent struct {
	Type        session.EventType    `json:"type"`
	Seq         uint64               `json:"seq"`
	Generation  uint64               `json:"generation"`
	Screen      geoguessr.Screen     `json:"screen"`
	RoundNumber int                  `json:"roundNumber"`
	TotalScore  int                  `json:"totalScore"`
	Score       int                  `json:"score,omitempty"`
	Error       *geoguessr.ErrorKind `json:"error,omitempty"`
}

func sseEventFrom(e session.Event) SSEEvent {
	ev := SSEEvent{
		Type:        e.Type,
		Seq:         e.Seq,
		Generation:  e.State.Generation,
		Screen:      e.State.Screen,
		RoundNumber: e.State.RoundNumber,
		TotalScore:  geoguessr.TotalScore(e.State.History),
		Error:       e.State.Error,
	}
	if e.State.CurrentRecord != nil {
		ev.Score = e.State.CurrentRecord.Score
	}
	return ev
}

// Broker is an in-process pub/sub for SSE events, keyed by session ID.
type Broker struct {
	mu   sync.RWMutex
	subs map[string]map[chan []byte]struct{}
}

func NewBroker() *Broker {
	return &Broker{
		subs: make(map[string]map[chan []byte]struct{}),
	}
}

// Subscribe returns a channel that receives JSON-encoded SSE events for the given session.
func (b *Broker) Subscribe(sessionID string) chan []byte {
	ch := make(chan []byte, 16)
	b.mu.Lock()
	if b.subs[sessionID] == nil {
		b.subs[sessionID] = make(map[chan []byte]struct{})
	}
	b.subs[sessionID][ch] = struct{}{}
	b.mu.Unlock()
	return ch
}

// Unsubscribe removes a channel from the session's subscribers.
func (b *Broker) Unsubscribe(sessionID string, ch chan []byte) {
	b.mu.Lock()
	delete(b.subs[sessionID], ch)
	if len(b.subs[sessionID]) == 0 {
		delete(b.subs, sessionID)
	}
	b.mu.Unlock()
}

// Close ends every subscription of the session: their channels are closed.
func (b *Broker) Close(sessionID string) {
	b.mu.Lock()
	for ch := range b.subs[sessionID] {
		close(ch)
	}
	delete(b.subs, sessionID)
	b.mu.Unlock()
}

// Publish sends an event to all subscribers of the given session.
func (b *Broker) Publish(sessionID string, event SSEEvent) {
	data, _ := json.Marshal(event)
	b.mu.RLock()
	for ch := range b.subs[sessionID] {
		select {
		case ch <- data:
		default:
			// Drop if subscriber is slow.
		}
	}
	b.mu.RUnlock()
}
