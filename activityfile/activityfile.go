// Package activityfile detects and summarizes activity files (FIT, TCX,
// GPX) ahead of an upload, so upload metadata like the data type tag and a
// default activity name can be derived from the file itself.
package activityfile

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Type is a recognized activity file format.
type Type int

const (
	TypeUnknown Type = iota
	TypeFIT
	TypeTCX
	TypeGPX
)

func (t Type) String() string {
	switch t {
	case TypeFIT:
		return "fit"
	case TypeTCX:
		return "tcx"
	case TypeGPX:
		return "gpx"
	default:
		return "unknown"
	}
}

// StravaDataType returns Strava's data_type tag for the format, with the
// ".gz" suffix when the payload is gzip-compressed.
func (t Type) StravaDataType(gzipped bool) (string, error) {
	if t == TypeUnknown {
		return "", fmt.Errorf("unknown activity file type")
	}
	if gzipped {
		return t.String() + ".gz", nil
	}
	return t.String(), nil
}

// Detect identifies the file format from its content, falling back to the
// filename extension. FIT files carry a ".FIT" tag at byte offset 8 of the
// header; TCX and GPX are recognized by their root elements.
func Detect(data []byte, filename string) Type {
	if len(data) >= 12 && string(data[8:12]) == ".FIT" {
		return TypeFIT
	}
	head := data
	if len(head) > 1024 {
		head = head[:1024]
	}
	if bytes.Contains(head, []byte("<TrainingCenterDatabase")) {
		return TypeTCX
	}
	if bytes.Contains(head, []byte("<gpx")) {
		return TypeGPX
	}

	switch strings.ToLower(filepath.Ext(strings.TrimSuffix(filename, ".gz"))) {
	case ".fit":
		return TypeFIT
	case ".tcx":
		return TypeTCX
	case ".gpx":
		return TypeGPX
	}
	return TypeUnknown
}

// DetectFile reads path and identifies its format.
func DetectFile(path string) (Type, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return TypeUnknown, err
	}
	return Detect(data, path), nil
}

// Summary is the lap-level view of an activity file, enough to label an
// upload.
type Summary struct {
	Type            Type
	Sport           string
	StartTime       time.Time
	DurationSeconds float64
	DistanceMeters  float64
	AvgHeartRateBPM int
	MaxHeartRateBPM int
}

// Summarize reads one activity file and reduces it to a Summary.
func Summarize(path string) (*Summary, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	switch Detect(data, path) {
	case TypeFIT:
		return summarizeFIT(data)
	case TypeTCX:
		return summarizeTCX(data)
	case TypeGPX:
		return summarizeGPX(data)
	default:
		return nil, fmt.Errorf("unrecognized activity file %s", path)
	}
}

// DefaultName derives an upload name like "Biking 2024-06-14 18:30" from a
// summary, falling back to the file's base name.
func DefaultName(s *Summary, path string) string {
	if s != nil && s.Sport != "" && !s.StartTime.IsZero() {
		return fmt.Sprintf("%s %s", s.Sport, s.StartTime.Format("2006-01-02 15:04"))
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, ".gz")
	return strings.TrimSuffix(base, filepath.Ext(base))
}
