// Package pipeline runs the full MyWellness-to-TCX conversion: load the
// export, build the sample table, smooth distances, resample heart rates,
// reduce to metrics and write the TCX document. Each run owns its table;
// nothing is shared across runs.
package pipeline

import (
	"fmt"
	"log/slog"
	"strings"

	"mywellness-tools"
	"mywellness-tools/tcx"
)

// Run executes the conversion and writes the TCX artifact, plus the sample
// table export when requested. Any stage failure aborts the run before the
// TCX file is written; a corrupt export never produces a partial artifact.
func Run(opts Options) (*Result, error) {
	if strings.TrimSpace(opts.InputPath) == "" {
		return nil, fmt.Errorf("input path is required")
	}
	if opts.Start.IsZero() {
		return nil, fmt.Errorf("activity start time is required")
	}
	format := strings.ToLower(strings.TrimSpace(opts.TableFormat))
	if format == "" {
		format = "parquet"
	}
	if format != "parquet" && format != "csv" {
		return nil, fmt.Errorf("unsupported table format %q (expected parquet|csv)", format)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}

	exp, err := mywellness.LoadExport(opts.InputPath)
	if err != nil {
		return nil, err
	}

	samples, err := mywellness.BuildSampleTable(&exp.Data.Analitics, opts.Start)
	if err != nil {
		return nil, fmt.Errorf("build sample table: %w", err)
	}
	trimmed := mywellness.TrimIdleTail(samples)
	if dropped := len(samples) - len(trimmed); dropped > 0 {
		log.Info("trimmed trailing idle samples", "dropped", dropped, "rows", len(trimmed))
	}
	samples = trimmed

	factor, err := mywellness.SmoothDistances(samples)
	if err != nil {
		return nil, fmt.Errorf("smooth distances: %w", err)
	}
	log.Info("smoothed distances", "correction_factor", factor)

	if err := mywellness.ResampleHeartRate(samples, exp.Data.Analitics.HR); err != nil {
		return nil, fmt.Errorf("resample heart rate: %w", err)
	}

	metrics, err := mywellness.ComputeMetrics(samples)
	if err != nil {
		return nil, fmt.Errorf("compute metrics: %w", err)
	}

	lap := opts.Lap
	if lap == (tcx.LapConfig{}) {
		lap = tcx.DefaultLapConfig()
	}

	outPath := opts.OutPath
	if outPath == "" {
		outPath = deriveOutPath(opts.InputPath)
	}
	doc := tcx.Build(samples, metrics, opts.Start, lap)
	if err := doc.WriteFile(outPath); err != nil {
		return nil, err
	}
	log.Info("wrote tcx file", "path", outPath, "trackpoints", len(samples))

	tablePath := ""
	if opts.TablePath != "" {
		tablePath = opts.TablePath
		switch format {
		case "csv":
			err = writeTableCSV(tablePath, samples)
		case "parquet":
			err = writeTableParquet(tablePath, samples)
		}
		if err != nil {
			return nil, fmt.Errorf("write sample table: %w", err)
		}
		log.Info("wrote sample table", "path", tablePath, "format", format)
	}

	return &Result{
		OutPath:        outPath,
		TablePath:      tablePath,
		Rows:           len(samples),
		DistanceFactor: factor,
		Metrics:        metrics,
	}, nil
}

func deriveOutPath(inputPath string) string {
	base := inputPath
	if strings.HasSuffix(strings.ToLower(base), ".json") {
		base = base[:len(base)-len(".json")]
	}
	return base + ".tcx"
}
