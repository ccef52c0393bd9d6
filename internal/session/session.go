// Package session drives one match of the guessing game: screen
// transitions, guess capture, scoring of submitted rounds and the round
// history. A Session is safe for use from multiple goroutines, but its
// operations are applied one at a time.
package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/ShimonschlessingerHW/HW-GeoGuessr/internal/geoguessr"
)

var (
	// ErrWrongScreen is returned when an operation is not admissible on the
	// current screen. The state is left untouched.
	ErrWrongScreen = errors.New("operation not allowed on current screen")

	// ErrIncompleteGuess is returned by SubmitGuess when the location or the
	// floor is missing. The state is left untouched.
	ErrIncompleteGuess = errors.New("guess is incomplete")

	// ErrLoading is returned while a round is being fetched.
	ErrLoading = errors.New("round is loading")
)

// Provider supplies the next round. Any error is treated as a load failure.
type Provider interface {
	FetchNextTarget(ctx context.Context) (geoguessr.Candidate, error)
}

// ProviderFunc adapts a function to Provider.
type ProviderFunc func(ctx context.Context) (geoguessr.Candidate, error)

func (f ProviderFunc) FetchNextTarget(ctx context.Context) (geoguessr.Candidate, error) {
	return f(ctx)
}

// resetter is implemented by providers that track per-match state, such as
// images already shown.
type resetter interface {
	Reset()
}

// State is a snapshot of a session. Values returned by Session.State never
// alias the session's internal storage.
type State struct {
	Screen        geoguessr.Screen        `json:"screen"`
	RoundNumber   int                     `json:"roundNumber"`
	TotalRounds   int                     `json:"totalRounds"`
	CurrentTarget *geoguessr.Target       `json:"currentTarget"`
	ImageRef      string                  `json:"imageRef"`
	Guess         geoguessr.Guess         `json:"guess"`
	CurrentRecord *geoguessr.RoundRecord  `json:"currentRecord"`
	History       []geoguessr.RoundRecord `json:"history"`
	Loading       bool                    `json:"loading"`
	Error         *geoguessr.ErrorKind    `json:"error"`
	Generation    uint64                  `json:"generation"`
}

// Finished reports whether the match reached its final results.
func (st State) Finished() bool {
	return st.Screen == geoguessr.ScreenFinalResults
}

func (st State) clone() State {
	out := st
	if st.CurrentTarget != nil {
		t := *st.CurrentTarget
		out.CurrentTarget = &t
	}
	if st.Guess.Location != nil {
		p := *st.Guess.Location
		out.Guess.Location = &p
	}
	if st.Guess.Floor != nil {
		f := *st.Guess.Floor
		out.Guess.Floor = &f
	}
	if st.CurrentRecord != nil {
		r := *st.CurrentRecord
		out.CurrentRecord = &r
	}
	if st.Error != nil {
		e := *st.Error
		out.Error = &e
	}
	out.History = append([]geoguessr.RoundRecord(nil), st.History...)
	return out
}

// Session is one player's game, from the title screen through the final
// results and any number of replays.
type Session struct {
	provider    Provider
	fallback    FallbackPolicy
	totalRounds int
	logger      *slog.Logger
	observer    func(Event)
	now         func() time.Time

	mu         sync.Mutex
	st         State
	lastActive time.Time
	seq        uint64
}

// Option configures a Session at construction.
type Option func(*Session)

// WithFallback sets the policy applied to rounds with missing fields.
func WithFallback(p FallbackPolicy) Option {
	return func(s *Session) { s.fallback = p }
}

// WithTotalRounds overrides the match length. Production code uses
// geoguessr.TotalRounds.
func WithTotalRounds(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.totalRounds = n
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Session) { s.logger = l }
}

// WithObserver registers fn to receive every state change. fn is called
// without the session lock held, so concurrent operations may deliver
// events out of order; Event.Seq restores the applied order.
func WithObserver(fn func(Event)) Option {
	return func(s *Session) { s.observer = fn }
}

func withClock(now func() time.Time) Option {
	return func(s *Session) { s.now = now }
}

// New returns a session on the title screen.
func New(provider Provider, opts ...Option) *Session {
	s := &Session{
		provider:    provider,
		fallback:    DefaultFallback,
		totalRounds: geoguessr.TotalRounds,
		logger:      slog.Default(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.st = initialState(s.totalRounds, 0)
	s.lastActive = s.now()
	return s
}

func initialState(totalRounds int, generation uint64) State {
	return State{
		Screen:      geoguessr.ScreenTitle,
		RoundNumber: 1,
		TotalRounds: totalRounds,
		Generation:  generation,
	}
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.st.clone()
}

// Summary aggregates the rounds recorded so far.
func (s *Session) Summary() geoguessr.MatchSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return geoguessr.Summarize(s.st.History)
}

// LastActive is the time of the most recent operation.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// StartMatch clears the previous match and loads round one. A load
// failure leaves the session on the title screen with Error set; it is
// not returned.
func (s *Session) StartMatch(ctx context.Context) error {
	s.mu.Lock()
	if s.st.Screen != geoguessr.ScreenTitle {
		s.mu.Unlock()
		return ErrWrongScreen
	}
	return s.startLocked(ctx)
}

// PlayAgain starts a fresh match from the final results.
func (s *Session) PlayAgain(ctx context.Context) error {
	s.mu.Lock()
	if s.st.Screen != geoguessr.ScreenFinalResults {
		s.mu.Unlock()
		return ErrWrongScreen
	}
	return s.startLocked(ctx)
}

// startLocked must be called with s.mu held; it releases it.
func (s *Session) startLocked(ctx context.Context) error {
	s.st = initialState(s.totalRounds, s.st.Generation+1)
	s.st.Loading = true
	s.touch()
	gen := s.st.Generation
	if r, ok := s.provider.(resetter); ok {
		r.Reset()
	}
	s.mu.Unlock()

	c, err := s.provider.FetchNextTarget(ctx)

	s.mu.Lock()
	if gen != s.st.Generation {
		s.mu.Unlock()
		s.logger.Debug("discarding stale round", "generation", gen)
		return nil
	}
	s.st.Loading = false
	target, err := s.resolve(c, err)
	if err != nil {
		s.failLocked()
		return s.emitUnlock(EventLoadFailed)
	}
	s.loadRoundLocked(c.ImageRef, target)
	return s.emitUnlock(EventRoundLoaded)
}

// SetGuessLocation places the guess marker.
func (s *Session) SetGuessLocation(p geoguessr.Point) error {
	s.mu.Lock()
	if err := s.guessableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.st.Guess.Location = &p
	s.touch()
	return s.emitUnlock(EventGuessUpdated)
}

// SetGuessFloor selects the guessed floor.
func (s *Session) SetGuessFloor(floor int) error {
	s.mu.Lock()
	if err := s.guessableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	s.st.Guess.Floor = &floor
	s.touch()
	return s.emitUnlock(EventGuessUpdated)
}

func (s *Session) guessableLocked() error {
	if s.st.Screen != geoguessr.ScreenGame {
		return ErrWrongScreen
	}
	if s.st.Loading {
		return ErrLoading
	}
	return nil
}

// SubmitGuess scores the current guess and moves to the result screen.
// An incomplete guess changes nothing and yields ErrIncompleteGuess.
func (s *Session) SubmitGuess() error {
	s.mu.Lock()
	if err := s.guessableLocked(); err != nil {
		s.mu.Unlock()
		return err
	}
	if !s.st.Guess.Complete() || s.st.CurrentTarget == nil {
		s.mu.Unlock()
		return ErrIncompleteGuess
	}
	if len(s.st.History) >= s.st.TotalRounds {
		s.mu.Unlock()
		return ErrWrongScreen
	}

	rec := geoguessr.BuildRoundRecord(s.st.RoundNumber, s.st.ImageRef, s.st.Guess, *s.st.CurrentTarget)
	s.st.History = append(s.st.History, rec)
	s.st.CurrentRecord = &rec
	s.st.Screen = geoguessr.ScreenResult
	s.touch()
	return s.emitUnlock(EventRoundSubmitted)
}

// Advance leaves the result screen. After the last round it goes straight
// to the final results without fetching; otherwise it loads the next round.
// A load failure keeps the result screen, and the recorded round, with
// Error set.
func (s *Session) Advance(ctx context.Context) error {
	s.mu.Lock()
	if s.st.Screen != geoguessr.ScreenResult {
		s.mu.Unlock()
		return ErrWrongScreen
	}
	if s.st.Loading {
		s.mu.Unlock()
		return ErrLoading
	}
	if len(s.st.History) >= s.st.TotalRounds {
		s.finishLocked()
		return s.emitUnlock(EventMatchFinished)
	}

	s.st.Loading = true
	s.touch()
	gen := s.st.Generation
	s.mu.Unlock()

	c, err := s.provider.FetchNextTarget(ctx)

	s.mu.Lock()
	if gen != s.st.Generation || s.st.Screen != geoguessr.ScreenResult {
		s.mu.Unlock()
		s.logger.Debug("discarding stale round", "generation", gen)
		return nil
	}
	s.st.Loading = false
	target, err := s.resolve(c, err)
	if err != nil {
		s.failLocked()
		return s.emitUnlock(EventLoadFailed)
	}
	s.st.RoundNumber++
	s.loadRoundLocked(c.ImageRef, target)
	return s.emitUnlock(EventRoundLoaded)
}

// ViewFinalResults jumps from the last round's result to the final results.
func (s *Session) ViewFinalResults() error {
	s.mu.Lock()
	if s.st.Screen != geoguessr.ScreenResult || s.st.RoundNumber != s.st.TotalRounds || s.st.Loading {
		s.mu.Unlock()
		return ErrWrongScreen
	}
	s.finishLocked()
	return s.emitUnlock(EventMatchFinished)
}

// ResetToTitle discards the match. A fetch still in flight is ignored when
// it resolves.
func (s *Session) ResetToTitle() {
	s.mu.Lock()
	s.st = initialState(s.totalRounds, s.st.Generation+1)
	s.touch()
	s.emitUnlock(EventReset)
}

func (s *Session) resolve(c geoguessr.Candidate, fetchErr error) (geoguessr.Target, error) {
	if fetchErr != nil {
		s.logger.Warn("loading round failed", "error", fetchErr)
		return geoguessr.Target{}, fetchErr
	}
	t, err := s.fallback.Resolve(c)
	if err != nil {
		s.logger.Warn("rejecting malformed round", "image", c.ImageRef, "error", err)
		return geoguessr.Target{}, err
	}
	return t, nil
}

func (s *Session) loadRoundLocked(imageRef string, t geoguessr.Target) {
	s.st.CurrentTarget = &t
	s.st.ImageRef = imageRef
	s.st.Guess = geoguessr.Guess{}
	s.st.CurrentRecord = nil
	s.st.Error = nil
	s.st.Screen = geoguessr.ScreenGame
	s.touch()
}

func (s *Session) failLocked() {
	kind := geoguessr.LoadFailure
	s.st.Error = &kind
	s.touch()
}

func (s *Session) finishLocked() {
	s.st.Screen = geoguessr.ScreenFinalResults
	s.st.RoundNumber = s.st.TotalRounds
	s.st.CurrentRecord = nil
	s.touch()
}

func (s *Session) touch() {
	s.lastActive = s.now()
}

// emitUnlock snapshots the state, releases s.mu and notifies the observer.
// It always returns nil so operations can end with it.
func (s *Session) emitUnlock(typ EventType) error {
	s.seq++
	ev := Event{Type: typ, Seq: s.seq, State: s.st.clone()}
	s.mu.Unlock()
	if s.observer != nil {
		s.observer(ev)
	}
	return nil
}
