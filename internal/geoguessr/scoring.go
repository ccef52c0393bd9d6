package geoguessr

import (
	"math"
	"strconv"
)

const (
	MaxLocationScore   = 5000
	DecayRate          = 0.05
	FloorPenaltyFactor = 0.8
	floorPenaltyShare  = 0.2

	// PerfectLabel is reported by FormatDistanceLabel for near-exact guesses.
	PerfectLabel = "perfect"

	perfectUnits = 5
)

// Distance returns the Euclidean distance between a and b.
func Distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// LocationScore converts a distance into 0–5000 points with exponential
// decay. Negative distances are absorbed by the clamp.
func LocationScore(distance float64) int {
	score := math.Round(MaxLocationScore * math.Exp(-DecayRate*distance))
	return int(math.Max(0, math.Min(MaxLocationScore, score)))
}

// RoundScore applies the floor-mismatch multiplier to a location score.
func RoundScore(locationScore int, floorCorrect bool) int {
	if floorCorrect {
		return locationScore
	}
	return int(math.Round(float64(locationScore) * FloorPenaltyFactor))
}

// FloorPenalty is the display value of the points lost to a wrong floor.
func FloorPenalty(locationScore int) int {
	return int(math.Round(float64(locationScore) * floorPenaltyShare))
}

// FormatDistanceLabel renders a distance as map units (two per normalized
// unit), or PerfectLabel when fewer than five units away.
func FormatDistanceLabel(distance float64) string {
	units := int(math.Round(distance * 2))
	if units < perfectUnits {
		return PerfectLabel
	}
	return strconv.Itoa(units)
}

// BuildRoundRecord scores a complete guess against its target. The caller
// must ensure g.Complete() holds.
func BuildRoundRecord(roundNumber int, imageRef string, g Guess, t Target) RoundRecord {
	d := Distance(*g.Location, t.Location)
	ls := LocationScore(d)
	floorCorrect := *g.Floor == t.Floor

	return RoundRecord{
		RoundNumber:    roundNumber,
		ImageRef:       imageRef,
		GuessLocation:  *g.Location,
		TargetLocation: t.Location,
		GuessFloor:     *g.Floor,
		TargetFloor:    t.Floor,
		Distance:       d,
		LocationScore:  ls,
		FloorCorrect:   floorCorrect,
		Score:          RoundScore(ls, floorCorrect),
	}
}
