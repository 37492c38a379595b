package mywellness

import (
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Metrics is the fixed set of lap-level summary values reduced from a
// completed sample table. Read-only downstream.
type Metrics struct {
	TotalTimeSeconds float64
	TotalDistanceM   float64
	MaxSpeedKMH      float64
	AvgHeartRateBPM  float64
	MaxHeartRateBPM  float64
}

// ComputeMetrics reduces a completed sample table (smoothed distances and
// resolved heart rates in place) to its summary metrics. It fails with a
// DataError on an empty table and on any row whose heart rate was never
// resolved by the resampler.
func ComputeMetrics(samples []Sample) (Metrics, error) {
	if len(samples) == 0 {
		return Metrics{}, dataErrorf("cannot compute metrics for an empty sample table")
	}

	speeds := make([]float64, 0, len(samples))
	heartRates := make([]float64, 0, len(samples))
	for _, s := range samples {
		if !s.HRResolved {
			return Metrics{}, dataErrorf("heart rate unresolved at offset %.0f s", s.Offset)
		}
		speeds = append(speeds, s.SpeedKMH)
		heartRates = append(heartRates, float64(s.HeartRateBPM))
	}

	return Metrics{
		TotalTimeSeconds: samples[len(samples)-1].Offset - samples[0].Offset,
		TotalDistanceM:   samples[len(samples)-1].SmoothDistanceM,
		MaxSpeedKMH:      floats.Max(speeds),
		AvgHeartRateBPM:  stat.Mean(heartRates, nil),
		MaxHeartRateBPM:  floats.Max(heartRates),
	}, nil
}
