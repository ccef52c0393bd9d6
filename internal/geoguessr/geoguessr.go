// Package geoguessr defines the core domain types and the scoring rules of
// the campus guessing game. It has no external dependencies.
package geoguessr

import "fmt"

// TotalRounds is the fixed number of rounds in one match.
const TotalRounds = 5

// Point is a position in the normalized map space (0–100 on each axis).
// Bounds are not enforced here.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Target is the ground truth for one round.
type Target struct {
	Location Point `json:"location"`
	Floor    int   `json:"floor"`
}

// Candidate is a round as delivered by a location provider. Location and
// Floor may be missing when upstream data is incomplete.
type Candidate struct {
	ImageRef string `json:"imageRef"`
	Location *Point `json:"location"`
	Floor    *int   `json:"floor"`
}

// Guess is the player's in-progress input for the active round.
type Guess struct {
	Location *Point `json:"location"`
	Floor    *int   `json:"floor"`
}

// Complete reports whether both the location and the floor have been set.
func (g Guess) Complete() bool {
	return g.Location != nil && g.Floor != nil
}

// RoundRecord is the immutable result of one submitted round.
type RoundRecord struct {
	RoundNumber    int     `json:"roundNumber"`
	ImageRef       string  `json:"imageRef"`
	GuessLocation  Point   `json:"guessLocation"`
	TargetLocation Point   `json:"targetLocation"`
	GuessFloor     int     `json:"guessFloor"`
	TargetFloor    int     `json:"targetFloor"`
	Distance       float64 `json:"distance"`
	LocationScore  int     `json:"locationScore"`
	FloorCorrect   bool    `json:"floorCorrect"`
	Score          int     `json:"score"`
}

// Penalty is the number of points lost to a floor mismatch.
func (r RoundRecord) Penalty() int {
	return r.LocationScore - r.Score
}

// Screen is the phase of a session; it governs which operations are valid.
type Screen int

const (
	ScreenTitle Screen = iota
	ScreenGame
	ScreenResult
	ScreenFinalResults
)

var screenNames = map[Screen]string{
	ScreenTitle:        "title",
	ScreenGame:         "game",
	ScreenResult:       "result",
	ScreenFinalResults: "final_results",
}

func (s Screen) String() string {
	if name, ok := screenNames[s]; ok {
		return name
	}
	return fmt.Sprintf("screen(%d)", int(s))
}

func (s Screen) MarshalText() ([]byte, error) {
	if _, ok := screenNames[s]; !ok {
		return nil, fmt.Errorf("unknown screen %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *Screen) UnmarshalText(b []byte) error {
	for k, v := range screenNames {
		if v == string(b) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("unknown screen %q", b)
}

// ErrorKind classifies a failure stored in session state.
type ErrorKind string

// LoadFailure is recorded whenever the location provider cannot supply a round.
const LoadFailure ErrorKind = "load_failure"

// Tier is a qualitative label for a match result.
type Tier string

const (
	TierPerfect        Tier = "perfect"
	TierExcellent      Tier = "excellent"
	TierGreat          Tier = "great"
	TierGood           Tier = "good"
	TierKeepPracticing Tier = "keep_practicing"
	TierBeginner       Tier = "beginner"
)

// MatchSummary aggregates the rounds played so far.
type MatchSummary struct {
	Total      int     `json:"total"`
	Max        int     `json:"max"`
	Percentage float64 `json:"percentage"`
	Tier       Tier    `json:"tier"`
	Rounds     int     `json:"rounds"`
}
