package mywellness

import (
	"sort"
)

// hrGridStep is the spacing in seconds of the heart-rate resampling grid:
// coarse enough to smooth sensor jitter, dense enough to forward-fill onto
// any sample offset.
const hrGridStep = 5

// ResampleHeartRate interpolates the sparse, irregularly timed heart-rate
// series onto the sample table. The points are sorted by offset, a
// piecewise-linear function (with constant-slope extrapolation beyond the
// endpoints) is evaluated at every multiple of 5 seconds up to the last
// point's offset, and each sample row takes the grid value at its exact
// offset or, failing that, the nearest preceding one. Rows before the first
// resolvable offset stay unresolved; ComputeMetrics rejects those later.
func ResampleHeartRate(samples []Sample, points []HeartRatePoint) error {
	if len(points) < 2 {
		return dataErrorf("need at least two heart-rate points to interpolate, got %d", len(points))
	}

	pts := append([]HeartRatePoint(nil), points...)
	sort.SliceStable(pts, func(i, j int) bool { return pts[i].Offset < pts[j].Offset })
	for i := 1; i < len(pts); i++ {
		if pts[i].Offset == pts[i-1].Offset {
			return dataErrorf("duplicate heart-rate offset %.3f", pts[i].Offset)
		}
	}

	interp := newHeartRateInterpolator(pts)
	maxOffset := pts[len(pts)-1].Offset

	grid := make(map[int]int)
	for off := hrGridStep; float64(off) <= maxOffset; off += hrGridStep {
		grid[off] = int(interp.at(float64(off)))
	}

	bpm := 0
	resolved := false
	for i := range samples {
		if v, ok := gridLookup(grid, samples[i].Offset); ok {
			bpm = v
			resolved = true
		}
		if resolved {
			samples[i].HeartRateBPM = bpm
			samples[i].HRResolved = true
		}
	}
	return nil
}

// gridLookup looks up a sample offset in the integer grid. Only offsets
// that are exact whole seconds can hit.
func gridLookup(grid map[int]int, offset float64) (int, bool) {
	k := int(offset)
	if float64(k) != offset {
		return 0, false
	}
	v, ok := grid[k]
	return v, ok
}

// heartRateInterpolator is a piecewise-linear function over the sorted
// heart-rate points. Outside the point range it extends the nearest
// segment's slope instead of clamping.
type heartRateInterpolator struct {
	points []HeartRatePoint
}

func newHeartRateInterpolator(sorted []HeartRatePoint) heartRateInterpolator {
	return heartRateInterpolator{points: sorted}
}

func (f heartRateInterpolator) at(x float64) float64 {
	pts := f.points
	// Segment index clamped to the ends so out-of-range x extrapolates
	// along the first or last segment.
	i := sort.Search(len(pts), func(i int) bool { return pts[i].Offset >= x })
	if i > 0 {
		i--
	}
	if i > len(pts)-2 {
		i = len(pts) - 2
	}
	p0, p1 := pts[i], pts[i+1]
	slope := (p1.BPM - p0.BPM) / (p1.Offset - p0.Offset)
	return p0.BPM + slope*(x-p0.Offset)
}
