package pipeline

import (
	"log/slog"
	"time"

	"mywellness-tools"
	"mywellness-tools/tcx"
)

// Options configures one conversion run.
type Options struct {
	// InputPath is the MyWellness JSON export to convert.
	InputPath string
	// Start is the activity start time. Exports carry only elapsed-time
	// offsets, so the absolute start must be supplied by the caller.
	Start time.Time
	// OutPath is the TCX destination. Empty derives it from InputPath by
	// replacing a .json suffix with .tcx.
	OutPath string
	// TablePath, when set, additionally exports the completed sample table
	// to this path in TableFormat.
	TablePath string
	// TableFormat is "parquet" or "csv". Empty means parquet.
	TableFormat string
	// Lap overrides the lap-level constants. The zero value means defaults.
	Lap tcx.LapConfig
	// Logger receives progress output. Nil means slog.Default().
	Logger *slog.Logger
}

// Result returns generated output paths and run diagnostics.
type Result struct {
	OutPath        string
	TablePath      string
	Rows           int
	DistanceFactor float64
	Metrics        mywellness.Metrics
}
