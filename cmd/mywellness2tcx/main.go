package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	mywellness "mywellness-tools"
	"mywellness-tools/pipeline"
)

const startLayout = "2006-01-02T15:04"

func main() {
	var (
		outPath   = flag.String("out", "", "TCX output path (default: input path with .tcx suffix)")
		tablePath = flag.String("table", "", "Also export the sample table to this path")
		format    = flag.String("format", "parquet", "Sample table format: parquet|csv")
	)
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: %s [flags] input.json YYYY-MM-DDTHH:MM\n", filepath.Base(os.Args[0]))
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 2 {
		flag.Usage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)
	start, err := time.Parse(startLayout, flag.Arg(1))
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid start datetime %q (expected %s)\n", flag.Arg(1), startLayout)
		os.Exit(2)
	}

	result, err := pipeline.Run(pipeline.Options{
		InputPath:   inputPath,
		Start:       start,
		OutPath:     *outPath,
		TablePath:   *tablePath,
		TableFormat: *format,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "mywellness2tcx failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Print(mywellness.FormatSummary(result.Metrics, result.Rows))
	fmt.Printf("tcx file:          %s\n", result.OutPath)
	if result.TablePath != "" {
		fmt.Printf("sample table:      %s\n", result.TablePath)
	}
}
