// Package mywellness converts MyWellness (Technogym) JSON activity exports
// into sample tables suitable for writing standard workout file formats.
package mywellness

import (
	"encoding/json"
	"os"
)

// Export is the decoded top level of a MyWellness JSON export.
type Export struct {
	Data struct {
		Analitics Analitics `json:"analitics"`
	} `json:"data"`
}

// Analitics holds the per-activity time series. The field name keeps the
// export's own spelling.
type Analitics struct {
	Descriptor []DescriptorEntry `json:"descriptor"`
	Samples    []RawSample       `json:"samples"`
	HR         []HeartRatePoint  `json:"hr"`
}

// DescriptorEntry names one positional slot of every sample's value vector.
type DescriptorEntry struct {
	Pr struct {
		Name string `json:"name"`
	} `json:"pr"`
}

// RawSample is one recorded sample: an elapsed-time offset in seconds and a
// value vector parallel to the descriptor.
type RawSample struct {
	T  float64   `json:"t"`
	VS []float64 `json:"vs"`
}

// HeartRatePoint is one reading from the separate, coarser heart-rate
// series: an elapsed-time offset in seconds and a value in bpm.
type HeartRatePoint struct {
	Offset float64 `json:"t"`
	BPM    float64 `json:"hr"`
}

// ChannelNames returns the descriptor's channel names in positional order.
func (a *Analitics) ChannelNames() []string {
	names := make([]string, 0, len(a.Descriptor))
	for _, d := range a.Descriptor {
		names = append(names, d.Pr.Name)
	}
	return names
}

// LoadExport reads and decodes a MyWellness JSON export file.
func LoadExport(path string) (*Export, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &IOError{Op: "read export", Path: path, Err: err}
	}
	return ParseExport(data)
}

// ParseExport decodes a MyWellness JSON export from raw bytes.
func ParseExport(data []byte) (*Export, error) {
	var exp Export
	if err := json.Unmarshal(data, &exp); err != nil {
		return nil, dataErrorf("decode export JSON: %v", err)
	}
	return &exp, nil
}
