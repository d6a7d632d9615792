package aggregate

// OutcomeStats pairs the true- and false-prediction statistics of a class.
type OutcomeStats struct {
	True  ConfidenceStats
	False ConfidenceStats
}

// Merge full-outer-joins the two outcome aggregates on class key. A class
// missing from one side gets zero statistics for that side.
func Merge(trueAgg, falseAgg map[string]ConfidenceStats) map[string]OutcomeStats {
	merged := make(map[string]OutcomeStats, len(trueAgg)+len(falseAgg))
	for key, stats := range trueAgg {
		merged[key] = OutcomeStats{True: stats}
	}
	for key, stats := range falseAgg {
		entry := merged[key]
		entry.False = stats
		merged[key] = entry
	}
	return merged
}
