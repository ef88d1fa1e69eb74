// Package analytics computes aggregate performance statistics over quiz
// attempts. Every function is pure and total: degenerate inputs (no
// attempts, a single score) map to documented neutral values instead of
// errors, because an empty attempt set is a normal state, not a failure.
package analytics

import "github.com/montanaflynn/stats"

// improvementWindow is how many scores the improvement-rate comparison takes
// from each end of the recency-ordered input.
const improvementWindow = 5

// Stats is the aggregate view computed over a set of scores. It is a
// transient value recomputed on every query; the json field names are the
// contract the presentation layer binds to.
type Stats struct {
	Count           int        `json:"count"`
	Mean            float64    `json:"mean"`
	Median          float64    `json:"median"`
	StdDev          float64    `json:"stdev"`
	Min             float64    `json:"min"`
	Max             float64    `json:"max"`
	Quartiles       [3]float64 `json:"quartiles"`
	ImprovementRate float64    `json:"improvement_rate"`
}

// Aggregate computes Stats over scores ordered most recent first. The input
// is never mutated. With no scores every field is zero; with one score the
// dispersion fields (stdev, quartiles, improvement rate) are zero because a
// single observation has no dispersion estimate.
func Aggregate(scores []float64) Stats {
	n := len(scores)
	if n == 0 {
		return Stats{}
	}

	mean, _ := stats.Mean(scores)
	median, _ := stats.Median(scores)
	min, _ := stats.Min(scores)
	max, _ := stats.Max(scores)

	s := Stats{
		Count:  n,
		Mean:   mean,
		Median: median,
		Min:    min,
		Max:    max,
	}
	if n < 2 {
		return s
	}

	stdev, _ := stats.StandardDeviationSample(scores)
	s.StdDev = stdev

	if q, err := stats.Quartile(scores); err == nil {
		s.Quartiles = [3]float64{q.Q1, q.Q2, q.Q3}
	}

	s.ImprovementRate = improvementRate(scores)
	return s
}

// improvementRate compares the average of the newest scores against the
// average of the oldest ones and reports the percentage change. A zero
// older average yields 0 to avoid dividing by zero.
func improvementRate(scores []float64) float64 {
	n := len(scores)
	if n < 2 {
		return 0
	}

	var recent, older float64
	if n >= improvementWindow {
		recent, _ = stats.Mean(scores[:improvementWindow])
		older, _ = stats.Mean(scores[n-improvementWindow:])
	} else {
		recent, _ = stats.Mean(scores)
		older = scores[n-1]
	}

	if older == 0 {
		return 0
	}
	return (recent - older) / older * 100
}

// Percentile reports what fraction of pool is strictly below value, scaled
// to 0-100. An empty pool yields 0.
func Percentile(pool []float64, value float64) float64 {
	if len(pool) == 0 {
		return 0
	}
	below := 0
	for _, s := range pool {
		if s < value {
			below++
		}
	}
	return float64(below) / float64(len(pool)) * 100
}
