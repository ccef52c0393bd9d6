package geoguessr

import (
	"math"
	"testing"
)

func ptr[T any](v T) *T { return &v }

func TestDistance(t *testing.T) {
	tests := []struct {
		name string
		a, b Point
		want float64
	}{
		{"same point", Point{50, 50}, Point{50, 50}, 0},
		{"3-4-5 triangle", Point{53, 54}, Point{50, 50}, 5},
		{"horizontal", Point{0, 10}, Point{100, 10}, 100},
		{"diagonal", Point{0, 0}, Point{100, 100}, math.Sqrt(20000)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Distance(tt.a, tt.b); math.Abs(got-tt.want) > 1e-9 {
				t.Errorf("Distance = %v, want %v", got, tt.want)
			}
			if ab, ba := Distance(tt.a, tt.b), Distance(tt.b, tt.a); ab != ba {
				t.Errorf("not symmetric: %v vs %v", ab, ba)
			}
		})
	}
}

func TestLocationScore(t *testing.T) {
	tests := []struct {
		distance float64
		want     int
	}{
		{0, 5000},
		{5, 3894},
		{-3, 5000},
		{10, 3033},
		{1000, 0},
	}

	for _, tt := range tests {
		if got := LocationScore(tt.distance); got != tt.want {
			t.Errorf("LocationScore(%v) = %d, want %d", tt.distance, got, tt.want)
		}
	}
}

func TestLocationScoreMonotonic(t *testing.T) {
	prev := LocationScore(0)
	for d := 0.25; d <= 300; d += 0.25 {
		got := LocationScore(d)
		if got > prev {
			t.Fatalf("LocationScore(%v) = %d exceeds previous %d", d, got, prev)
		}
		if got < 0 || got > MaxLocationScore {
			t.Fatalf("LocationScore(%v) = %d out of range", d, got)
		}
		prev = got
	}
}

func TestRoundScore(t *testing.T) {
	tests := []struct {
		name         string
		ls           int
		floorCorrect bool
		want         int
	}{
		{"correct floor keeps score", 5000, true, 5000},
		{"wrong floor perfect location", 5000, false, 4000},
		{"wrong floor partial", 3894, false, 3115},
		{"zero", 0, false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RoundScore(tt.ls, tt.floorCorrect); got != tt.want {
				t.Errorf("RoundScore = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestFloorPenalty(t *testing.T) {
	for _, ls := range []int{0, 1, 999, 3894, 4321, 5000} {
		if got, want := FloorPenalty(ls), ls-RoundScore(ls, false); got != want {
			t.Errorf("FloorPenalty(%d) = %d, want %d", ls, got, want)
		}
	}
	if got := FloorPenalty(5000); got != 1000 {
		t.Errorf("FloorPenalty(5000) = %d, want 1000", got)
	}
}

func TestFormatDistanceLabel(t *testing.T) {
	tests := []struct {
		distance float64
		want     string
	}{
		{0, PerfectLabel},
		{2.2, PerfectLabel},
		{2.4, "5"},
		{5, "10"},
		{37.3, "75"},
	}

	for _, tt := range tests {
		if got := FormatDistanceLabel(tt.distance); got != tt.want {
			t.Errorf("FormatDistanceLabel(%v) = %q, want %q", tt.distance, got, tt.want)
		}
	}
}

func TestBuildRoundRecord(t *testing.T) {
	target := Target{Location: Point{50, 50}, Floor: 2}

	tests := []struct {
		name             string
		guess            Guess
		wantDistance     float64
		wantLS           int
		wantFloorCorrect bool
		wantScore        int
		wantPenalty      int
	}{
		{
			name:             "exact match",
			guess:            Guess{Location: &Point{50, 50}, Floor: ptr(2)},
			wantDistance:     0,
			wantLS:           5000,
			wantFloorCorrect: true,
			wantScore:        5000,
		},
		{
			name:             "five units off",
			guess:            Guess{Location: &Point{53, 54}, Floor: ptr(2)},
			wantDistance:     5,
			wantLS:           3894,
			wantFloorCorrect: true,
			wantScore:        3894,
		},
		{
			name:             "wrong floor",
			guess:            Guess{Location: &Point{50, 50}, Floor: ptr(1)},
			wantDistance:     0,
			wantLS:           5000,
			wantFloorCorrect: false,
			wantScore:        4000,
			wantPenalty:      1000,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := BuildRoundRecord(3, "img-3", tt.guess, target)

			if r.RoundNumber != 3 || r.ImageRef != "img-3" {
				t.Errorf("identity = (%d, %q), want (3, img-3)", r.RoundNumber, r.ImageRef)
			}
			if math.Abs(r.Distance-tt.wantDistance) > 1e-9 {
				t.Errorf("Distance = %v, want %v", r.Distance, tt.wantDistance)
			}
			if r.LocationScore != tt.wantLS {
				t.Errorf("LocationScore = %d, want %d", r.LocationScore, tt.wantLS)
			}
			if r.FloorCorrect != tt.wantFloorCorrect {
				t.Errorf("FloorCorrect = %v, want %v", r.FloorCorrect, tt.wantFloorCorrect)
			}
			if r.Score != tt.wantScore {
				t.Errorf("Score = %d, want %d", r.Score, tt.wantScore)
			}
			if r.Penalty() != tt.wantPenalty {
				t.Errorf("Penalty = %d, want %d", r.Penalty(), tt.wantPenalty)
			}
			if r.TargetFloor != 2 || r.TargetLocation != target.Location {
				t.Errorf("target not copied: %+v", r)
			}
		})
	}
}

func TestGuessComplete(t *testing.T) {
	if (Guess{}).Complete() {
		t.Error("empty guess reported complete")
	}
	if (Guess{Location: &Point{1, 1}}).Complete() {
		t.Error("guess without floor reported complete")
	}
	if (Guess{Floor: ptr(0)}).Complete() {
		t.Error("guess without location reported complete")
	}
	if !(Guess{Location: &Point{1, 1}, Floor: ptr(0)}).Complete() {
		t.Error("full guess reported incomplete")
	}
}
