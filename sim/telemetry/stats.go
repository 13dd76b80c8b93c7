package telemetry

import (
	"sort"

	"gonum.org/v1/gonum/stat"
)

// TripMetricSample extracts one derived duration (time-to-match,
// time-to-pickup, trip duration) from every completed trip record, in ms.
type TripMetricSample func(TripRecord) uint64

// SummaryStats reports the mean and a chosen percentile of a metric sampled
// across every completed trip (spec §4.5's derived accessors feed exactly
// this kind of downstream reporting).
type SummaryStats struct {
	Mean       float64
	Percentile float64
	Count      int
}

// Summarize computes SummaryStats over sample(r) for every completed trip,
// using gonum/stat for the mean and the requested quantile (0-1).
func (t *Telemetry) Summarize(sample TripMetricSample, quantile float64) SummaryStats {
	if len(t.CompletedTrips) == 0 {
		return SummaryStats{}
	}

	values := make([]float64, len(t.CompletedTrips))
	for i, r := range t.CompletedTrips {
		values[i] = float64(sample(r))
	}
	sort.Float64s(values)

	return SummaryStats{
		Mean:       stat.Mean(values, nil),
		Percentile: stat.Quantile(quantile, stat.Empirical, values, nil),
		Count:      len(values),
	}
}
