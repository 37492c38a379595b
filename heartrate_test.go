package mywellness

import (
	"testing"
)

func offsetsToSamples(offsets ...float64) []Sample {
	samples := make([]Sample, len(offsets))
	for i, off := range offsets {
		samples[i] = Sample{Offset: off}
	}
	return samples
}

func TestResampleHeartRateLinearInterpolation(t *testing.T) {
	samples := offsetsToSamples(5, 10, 15, 20)
	points := []HeartRatePoint{{Offset: 0, BPM: 60}, {Offset: 20, BPM: 120}}

	if err := ResampleHeartRate(samples, points); err != nil {
		t.Fatalf("ResampleHeartRate error: %v", err)
	}

	want := []int{75, 90, 105, 120}
	for i, s := range samples {
		if !s.HRResolved {
			t.Fatalf("row %d unresolved", i)
		}
		if s.HeartRateBPM != want[i] {
			t.Fatalf("row %d: expected %d bpm, got %d", i, want[i], s.HeartRateBPM)
		}
	}
}

func TestResampleHeartRateForwardFill(t *testing.T) {
	// Offsets 7 and 13 miss the 5-second grid and carry the last resolved
	// row value forward instead.
	samples := offsetsToSamples(5, 7, 13, 15)
	points := []HeartRatePoint{{Offset: 0, BPM: 60}, {Offset: 20, BPM: 120}}

	if err := ResampleHeartRate(samples, points); err != nil {
		t.Fatalf("ResampleHeartRate error: %v", err)
	}

	want := []int{75, 75, 75, 105}
	for i, s := range samples {
		if s.HeartRateBPM != want[i] {
			t.Fatalf("row %d: expected %d bpm, got %d", i, want[i], s.HeartRateBPM)
		}
	}
}

func TestResampleHeartRateGridEndsAtLastPoint(t *testing.T) {
	// The grid stops at the last point's offset, so rows beyond it
	// forward-fill from the final grid value.
	samples := offsetsToSamples(25, 30, 40)
	points := []HeartRatePoint{{Offset: 5, BPM: 100}, {Offset: 25, BPM: 120}}

	if err := ResampleHeartRate(samples, points); err != nil {
		t.Fatalf("ResampleHeartRate error: %v", err)
	}
	for i, s := range samples {
		if s.HeartRateBPM != 120 {
			t.Fatalf("row %d: expected forward-fill of 120 past grid end, got %d", i, s.HeartRateBPM)
		}
	}
}

func TestResampleHeartRateLeftExtrapolation(t *testing.T) {
	// First point sits at offset 10; the grid value at 5 extends the first
	// segment's slope backwards.
	samples := offsetsToSamples(5)
	points := []HeartRatePoint{{Offset: 10, BPM: 100}, {Offset: 20, BPM: 120}}

	if err := ResampleHeartRate(samples, points); err != nil {
		t.Fatalf("ResampleHeartRate error: %v", err)
	}
	if samples[0].HeartRateBPM != 90 {
		t.Fatalf("expected 90 bpm extrapolated at offset 5, got %d", samples[0].HeartRateBPM)
	}
}

func TestResampleHeartRateLeavesEarlyRowsUnresolved(t *testing.T) {
	// The grid starts at 5 s, so a row at offset 0 has no preceding value.
	samples := offsetsToSamples(0, 5)
	points := []HeartRatePoint{{Offset: 0, BPM: 60}, {Offset: 10, BPM: 120}}

	if err := ResampleHeartRate(samples, points); err != nil {
		t.Fatalf("ResampleHeartRate error: %v", err)
	}
	if samples[0].HRResolved {
		t.Fatal("expected row at offset 0 to stay unresolved")
	}
	if !samples[1].HRResolved || samples[1].HeartRateBPM != 90 {
		t.Fatalf("expected row at offset 5 resolved to 90, got %+v", samples[1])
	}
	// Unresolved rows surface as a DataError at metrics time.
	if _, err := ComputeMetrics(samples); !IsDataError(err) {
		t.Fatalf("expected DataError from unresolved heart rate, got %v", err)
	}
}

func TestResampleHeartRateToleratesUnsortedPoints(t *testing.T) {
	samples := offsetsToSamples(5, 10)
	points := []HeartRatePoint{{Offset: 20, BPM: 120}, {Offset: 0, BPM: 60}}

	if err := ResampleHeartRate(samples, points); err != nil {
		t.Fatalf("ResampleHeartRate error: %v", err)
	}
	if samples[0].HeartRateBPM != 75 || samples[1].HeartRateBPM != 90 {
		t.Fatalf("expected sorted interpolation 75/90, got %d/%d",
			samples[0].HeartRateBPM, samples[1].HeartRateBPM)
	}
}

func TestResampleHeartRateRejectsTooFewPoints(t *testing.T) {
	samples := offsetsToSamples(5)
	if err := ResampleHeartRate(samples, []HeartRatePoint{{Offset: 0, BPM: 60}}); !IsDataError(err) {
		t.Fatalf("expected DataError for single heart-rate point, got %v", err)
	}
}

func TestResampleHeartRateRejectsDuplicateOffsets(t *testing.T) {
	samples := offsetsToSamples(5)
	points := []HeartRatePoint{{Offset: 10, BPM: 60}, {Offset: 10, BPM: 80}}
	if err := ResampleHeartRate(samples, points); !IsDataError(err) {
		t.Fatalf("expected DataError for duplicate offsets, got %v", err)
	}
}
