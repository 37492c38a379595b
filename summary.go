package mywellness

import (
	"fmt"
	"strings"
)

// FormatSummary renders a short human-readable digest of a converted
// activity for CLI output.
func FormatSummary(m Metrics, rows int) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Samples: %d\n", rows)
	fmt.Fprintf(
		&b,
		"Duration %s | Distance %.1f km\n",
		formatDuration(m.TotalTimeSeconds),
		m.TotalDistanceM/1000.0,
	)
	fmt.Fprintf(
		&b,
		"Speed %.1f max km/h | HR %.0f avg / %.0f max bpm\n",
		m.MaxSpeedKMH,
		m.AvgHeartRateBPM,
		m.MaxHeartRateBPM,
	)

	return b.String()
}

func formatDuration(seconds float64) string {
	total := int(seconds)
	h := total / 3600
	m := (total % 3600) / 60
	s := total % 60
	if h > 0 {
		return fmt.Sprintf("%dh%02dm%02ds", h, m, s)
	}
	return fmt.Sprintf("%dm%02ds", m, s)
}
