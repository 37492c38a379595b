package mywellness

import (
	"math"
	"time"
)

// Accepted band for the raw-vs-integrated distance correction factor. A
// factor outside the band means the export's distance channel disagrees
// grossly with its speed channel, which indicates corrupt input rather than
// ordinary sensor noise.
const (
	MinDistanceFactor = 0.94
	MaxDistanceFactor = 1.06
)

// SmoothDistances replaces the noisy cumulative HDistance channel with a
// smoothed distance integrated from instantaneous speed. The raw readings
// are too coarse to use directly: fed to downstream services they produce
// speeds oscillating between 0 and 72 km/h and a sawtooth speed graph.
//
// Two passes: first integrate speed over whole-second time deltas to get a
// provisional total, then derive a single scalar correction factor from the
// last raw reading and re-integrate with every increment scaled by it. The
// factor must lie within [MinDistanceFactor, MaxDistanceFactor]; anything
// else fails with a DataError. The factor is returned for logging.
func SmoothDistances(samples []Sample) (float64, error) {
	if len(samples) == 0 {
		return 0, dataErrorf("cannot smooth distances of an empty sample table")
	}

	provisional := integrateDistance(samples, 1)
	lastRaw := samples[len(samples)-1].RawDistanceM
	factor := lastRaw / provisional
	if math.IsNaN(factor) || factor < MinDistanceFactor || factor > MaxDistanceFactor {
		return 0, dataErrorf("distance correction factor %.4f outside [%.2f, %.2f]: raw %.1f m vs integrated %.1f m",
			factor, MinDistanceFactor, MaxDistanceFactor, lastRaw, provisional)
	}

	integrateDistance(samples, factor)
	return factor, nil
}

// integrateDistance runs one forward pass, writing the accumulated distance
// into each sample's SmoothDistanceM and returning the final total. Time
// deltas are truncated to whole seconds, matching the device's recording
// granularity.
func integrateDistance(samples []Sample, factor float64) float64 {
	dist := samples[0].RawDistanceM
	samples[0].SmoothDistanceM = dist
	for i := 1; i < len(samples); i++ {
		deltaSec := float64(samples[i].Timestamp.Sub(samples[i-1].Timestamp) / time.Second)
		dist += deltaSec * samples[i].SpeedKMH / 3.6 * factor
		samples[i].SmoothDistanceM = dist
	}
	return dist
}
