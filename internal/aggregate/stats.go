package aggregate

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/floats/scalar"
	"gonum.org/v1/gonum/stat"
)

// Decimals is the rounding applied to every confidence statistic.
const Decimals = 2

// ConfidenceStats summarizes the confidences of one partition group.
// A group without records is all zeros, which is indistinguishable from a
// group whose confidences really are zero.
type ConfidenceStats struct {
	Count int
	Max   float64
	Min   float64
	Mean  float64
}

// accumulator folds confidences in a single pass. Every value is counted,
// but only finite ones feed max, min and mean, matching Summarize.
type accumulator struct {
	count   int
	samples int
	sum     float64
	max     float64
	min     float64
}

func (a *accumulator) add(v float64) {
	a.count++
	if !finite(v) {
		return
	}
	if a.samples == 0 {
		a.max, a.min = v, v
	} else {
		if v > a.max {
			a.max = v
		}
		if v < a.min {
			a.min = v
		}
	}
	a.sum += v
	a.samples++
}

func (a *accumulator) stats() ConfidenceStats {
	if a.samples == 0 {
		return ConfidenceStats{Count: a.count}
	}
	return ConfidenceStats{
		Count: a.count,
		Max:   scalar.Round(a.max, Decimals),
		Min:   scalar.Round(a.min, Decimals),
		Mean:  scalar.Round(a.sum/float64(a.samples), Decimals),
	}
}

// Summarize computes statistics over a complete set of confidences.
// Non-finite values are counted but left out of the statistics.
func Summarize(values []float64) ConfidenceStats {
	samples := make([]float64, 0, len(values))
	for _, v := range values {
		if finite(v) {
			samples = append(samples, v)
		}
	}
	if len(samples) == 0 {
		return ConfidenceStats{Count: len(values)}
	}
	return ConfidenceStats{
		Count: len(values),
		Max:   scalar.Round(floats.Max(samples), Decimals),
		Min:   scalar.Round(floats.Min(samples), Decimals),
		Mean:  scalar.Round(stat.Mean(samples, nil), Decimals),
	}
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
