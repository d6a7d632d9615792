package aggregate

import (
	"sort"
	"strings"

	"github.com/Vitruves/detection-report/internal/labels"
	"github.com/Vitruves/detection-report/internal/models"
)

// DefaultNoDetection is the detected class written when a model found nothing.
const DefaultNoDetection = "no detection"

// PredictionClass is one row of the prediction report.
type PredictionClass struct {
	Key        string
	Label      string
	TotalCount int
	True       ConfidenceStats
	False      ConfidenceStats
}

// PredictionSummary holds the sorted class rows and the total row.
type PredictionSummary struct {
	Classes []PredictionClass
	Total   PredictionClass
}

// IsTruePrediction reports whether the detected class matches the actual one.
func IsTruePrediction(p models.Prediction) bool {
	return labels.Equal(p.ActualClass, p.DetectedClass)
}

// IsFalsePrediction reports a row marked false whose detected class is a real
// detection rather than noDetection.
func IsFalsePrediction(p models.Prediction, noDetection string) bool {
	return strings.EqualFold(strings.TrimSpace(p.DetectionType), "false") &&
		!labels.Equal(p.DetectedClass, noDetection)
}

// Partition splits rows into true and false predictions. A row can land in
// neither partition (a missed object) or, when mislabelled as false while the
// classes match, in both.
func Partition(rows []models.Prediction, noDetection string) (truePreds, falsePreds []models.Prediction) {
	for _, row := range rows {
		if IsTruePrediction(row) {
			truePreds = append(truePreds, row)
		}
		if IsFalsePrediction(row, noDetection) {
			falsePreds = append(falsePreds, row)
		}
	}
	return truePreds, falsePreds
}

// GroupByActual reduces rows to per-class confidence statistics keyed by the
// normalized actual class.
func GroupByActual(rows []models.Prediction) map[string]ConfidenceStats {
	accs := make(map[string]*accumulator)
	for _, row := range rows {
		key := labels.Normalize(row.ActualClass)
		acc, ok := accs[key]
		if !ok {
			acc = &accumulator{}
			accs[key] = acc
		}
		acc.add(row.Confidence)
	}

	grouped := make(map[string]ConfidenceStats, len(accs))
	for key, acc := range accs {
		grouped[key] = acc.stats()
	}
	return grouped
}

// CountByActual counts every row per normalized actual class, whatever its
// outcome.
func CountByActual(rows []models.Prediction) map[string]int {
	counts := make(map[string]int)
	for _, row := range rows {
		counts[labels.Normalize(row.ActualClass)]++
	}
	return counts
}

// AggregatePredictions builds the per-class prediction report. Every actual
// class seen in rows gets a row, including classes whose rows fall in neither
// partition. The total row statistics are recomputed from the raw partitions.
func AggregatePredictions(rows []models.Prediction, noDetection string) *PredictionSummary {
	if noDetection == "" {
		noDetection = DefaultNoDetection
	}

	truePreds, falsePreds := Partition(rows, noDetection)
	merged := Merge(GroupByActual(truePreds), GroupByActual(falsePreds))
	totals := CountByActual(rows)

	names := labels.NewSet()
	for _, row := range rows {
		names.Add(row.ActualClass)
	}

	keys := make(map[string]struct{}, len(totals))
	for key := range merged {
		keys[key] = struct{}{}
	}
	for key := range totals {
		keys[key] = struct{}{}
	}

	summary := &PredictionSummary{}
	for key := range keys {
		outcome := merged[key]
		summary.Classes = append(summary.Classes, PredictionClass{
			Key:        key,
			Label:      names.Label(key),
			TotalCount: totals[key],
			True:       outcome.True,
			False:      outcome.False,
		})
	}
	sort.Slice(summary.Classes, func(i, j int) bool {
		a, b := summary.Classes[i], summary.Classes[j]
		return labelLess(a.Label, a.Key, b.Label, b.Key)
	})

	summary.Total = totalize(summary.Classes, truePreds, falsePreds, len(rows))
	return summary
}

// totalize sums counts across class rows and recomputes extrema and means
// from the partitions themselves.
func totalize(classes []PredictionClass, truePreds, falsePreds []models.Prediction, rowCount int) PredictionClass {
	total := PredictionClass{
		Label:      models.TotalLabel,
		TotalCount: rowCount,
		True:       Summarize(confidences(truePreds)),
		False:      Summarize(confidences(falsePreds)),
	}

	total.True.Count = 0
	total.False.Count = 0
	for _, class := range classes {
		total.True.Count += class.True.Count
		total.False.Count += class.False.Count
	}
	return total
}

func confidences(rows []models.Prediction) []float64 {
	values := make([]float64, len(rows))
	for i, row := range rows {
		values[i] = row.Confidence
	}
	return values
}
