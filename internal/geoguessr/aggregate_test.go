package geoguessr

import "testing"

func records(scores ...int) []RoundRecord {
	out := make([]RoundRecord, len(scores))
	for i, s := range scores {
		out[i] = RoundRecord{RoundNumber: i + 1, Score: s, LocationScore: s}
	}
	return out
}

func TestSummarizePerfectMatch(t *testing.T) {
	s := Summarize(records(5000, 5000, 5000, 5000, 5000))

	if s.Total != 25000 {
		t.Errorf("Total = %d, want 25000", s.Total)
	}
	if s.Max != 25000 {
		t.Errorf("Max = %d, want 25000", s.Max)
	}
	if s.Tier != TierPerfect {
		t.Errorf("Tier = %q, want %q", s.Tier, TierPerfect)
	}
	if s.Rounds != 5 {
		t.Errorf("Rounds = %d, want 5", s.Rounds)
	}
}

func TestMaxPossibleUsesPlayedRounds(t *testing.T) {
	if got := MaxPossible(records(100, 200)); got != 10000 {
		t.Errorf("MaxPossible = %d, want 10000", got)
	}
	if got := MaxPossible(nil); got != 0 {
		t.Errorf("MaxPossible(nil) = %d, want 0", got)
	}
}

func TestPerformanceTier(t *testing.T) {
	tests := []struct {
		total, max int
		want       Tier
	}{
		{9500, 10000, TierPerfect},
		{9499, 10000, TierExcellent},
		{8000, 10000, TierExcellent},
		{6000, 10000, TierGreat},
		{5999, 10000, TierGood},
		{4000, 10000, TierGood},
		{2000, 10000, TierKeepPracticing},
		{1999, 10000, TierBeginner},
		{0, 10000, TierBeginner},
		{0, 0, TierBeginner},
	}

	for _, tt := range tests {
		if got := PerformanceTier(tt.total, tt.max); got != tt.want {
			t.Errorf("PerformanceTier(%d, %d) = %q, want %q", tt.total, tt.max, got, tt.want)
		}
	}
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)
	if s.Total != 0 || s.Max != 0 || s.Percentage != 0 || s.Tier != TierBeginner {
		t.Errorf("Summarize(nil) = %+v", s)
	}
}

func TestScreenText(t *testing.T) {
	for _, s := range []Screen{ScreenTitle, ScreenGame, ScreenResult, ScreenFinalResults} {
		b, err := s.MarshalText()
		if err != nil {
			t.Fatalf("MarshalText(%d): %v", s, err)
		}
		var back Screen
		if err := back.UnmarshalText(b); err != nil {
			t.Fatalf("UnmarshalText(%q): %v", b, err)
		}
		if back != s {
			t.Errorf("round trip %v -> %q -> %v", s, b, back)
		}
	}
	if _, err := Screen(42).MarshalText(); err == nil {
		t.Error("expected error for unknown screen")
	}
}
