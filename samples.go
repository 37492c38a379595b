package mywellness

import (
	"time"
)

// Channels every export descriptor must carry for the conversion to work.
const (
	ChannelSpeed    = "Speed"
	ChannelPower    = "Power"
	ChannelDistance = "HDistance"
	ChannelCadence  = "Rpm"
)

// Sample is one row of the sample table: the named channels of one raw
// sample plus its elapsed-time offset and absolute timestamp. The smoothed
// distance and heart rate columns are filled in by later pipeline stages.
type Sample struct {
	Offset    float64 // seconds since activity start
	Timestamp time.Time

	SpeedKMH     float64
	PowerW       float64
	RawDistanceM float64
	CadenceRPM   float64

	SmoothDistanceM float64
	HeartRateBPM    int
	HRResolved      bool
}

// BuildSampleTable zips every raw sample's value vector against the
// descriptor's channel names, attaching absolute timestamps computed from
// the activity start. Input order is preserved. It fails with a DataError
// if a required channel is missing from the descriptor, if any value
// vector's length disagrees with the descriptor, or if sample offsets are
// not strictly increasing.
func BuildSampleTable(a *Analitics, start time.Time) ([]Sample, error) {
	idx := make(map[string]int, len(a.Descriptor))
	for i, d := range a.Descriptor {
		idx[d.Pr.Name] = i
	}
	for _, name := range []string{ChannelSpeed, ChannelPower, ChannelDistance, ChannelCadence} {
		if _, ok := idx[name]; !ok {
			return nil, dataErrorf("descriptor is missing required channel %q", name)
		}
	}

	samples := make([]Sample, 0, len(a.Samples))
	for i, raw := range a.Samples {
		if len(raw.VS) != len(a.Descriptor) {
			return nil, dataErrorf("sample %d has %d values for %d descriptor channels", i, len(raw.VS), len(a.Descriptor))
		}
		if i > 0 && raw.T <= a.Samples[i-1].T {
			return nil, dataErrorf("sample offsets not strictly increasing at index %d (%.3f after %.3f)", i, raw.T, a.Samples[i-1].T)
		}
		samples = append(samples, Sample{
			Offset:       raw.T,
			Timestamp:    start.Add(time.Duration(raw.T * float64(time.Second))),
			SpeedKMH:     raw.VS[idx[ChannelSpeed]],
			PowerW:       raw.VS[idx[ChannelPower]],
			RawDistanceM: raw.VS[idx[ChannelDistance]],
			CadenceRPM:   raw.VS[idx[ChannelCadence]],
		})
	}
	return samples, nil
}

// TrimIdleTail drops trailing rows where both speed and power are zero.
// Device exports commonly pad the end of an activity with idle samples that
// would skew the summary stats and flatten the output track. The trim is
// idempotent and may return an empty slice.
func TrimIdleTail(samples []Sample) []Sample {
	end := len(samples)
	for end > 0 {
		last := samples[end-1]
		if last.SpeedKMH != 0 || last.PowerW != 0 {
			break
		}
		end--
	}
	return samples[:end]
}
