package geoguessr

// tierThresholds maps inclusive lower percentage bounds to tiers, best first.
var tierThresholds = []struct {
	min  float64
	tier Tier
}{
	{95, TierPerfect},
	{80, TierExcellent},
	{60, TierGreat},
	{40, TierGood},
	{20, TierKeepPracticing},
}

// TotalScore sums the score of every record.
func TotalScore(history []RoundRecord) int {
	total := 0
	for _, r := range history {
		total += r.Score
	}
	return total
}

// MaxPossible is the best achievable total for the rounds actually played.
func MaxPossible(history []RoundRecord) int {
	return len(history) * MaxLocationScore
}

// Percentage returns total as a share of maxScore in percent; 0 when maxScore is 0.
func Percentage(total, maxScore int) float64 {
	if maxScore == 0 {
		return 0
	}
	return float64(total) / float64(maxScore) * 100
}

// PerformanceTier labels total out of maxScore by its percentage. Below
// 20% the tier is TierBeginner.
func PerformanceTier(total, maxScore int) Tier {
	pct := Percentage(total, maxScore)
	for _, t := range tierThresholds {
		if pct >= t.min {
			return t.tier
		}
	}
	return TierBeginner
}

// Summarize aggregates a match history.
func Summarize(history []RoundRecord) MatchSummary {
	total, maxScore := TotalScore(history), MaxPossible(history)
	return MatchSummary{
		Total:      total,
		Max:        maxScore,
		Percentage: Percentage(total, maxScore),
		Tier:       PerformanceTier(total, maxScore),
		Rounds:     len(history),
	}
}
