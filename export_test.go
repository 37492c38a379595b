package mywellness

import (
	"testing"
)

const exportFixture = `{
  "data": {
    "analitics": {
      "descriptor": [
        {"pr": {"name": "Speed"}},
        {"pr": {"name": "Power"}},
        {"pr": {"name": "HDistance"}},
        {"pr": {"name": "Rpm"}}
      ],
      "samples": [
        {"t": 5, "vs": [30, 120, 40, 85]},
        {"t": 10, "vs": [32, 130, 85, 88]}
      ],
      "hr": [
        {"t": 0, "hr": 95},
        {"t": 10, "hr": 130}
      ]
    }
  }
}`

func TestParseExport(t *testing.T) {
	exp, err := ParseExport([]byte(exportFixture))
	if err != nil {
		t.Fatalf("ParseExport error: %v", err)
	}

	a := &exp.Data.Analitics
	names := a.ChannelNames()
	if len(names) != 4 || names[0] != "Speed" || names[2] != "HDistance" {
		t.Fatalf("unexpected channel names: %v", names)
	}
	if len(a.Samples) != 2 || a.Samples[1].T != 10 || a.Samples[1].VS[1] != 130 {
		t.Fatalf("unexpected samples: %+v", a.Samples)
	}
	if len(a.HR) != 2 || a.HR[1].Offset != 10 || a.HR[1].BPM != 130 {
		t.Fatalf("unexpected hr points: %+v", a.HR)
	}
}

func TestParseExportMalformed(t *testing.T) {
	if _, err := ParseExport([]byte(`{"data": [`)); !IsDataError(err) {
		t.Fatalf("expected DataError for malformed JSON, got %v", err)
	}
}

func TestLoadExportMissingFile(t *testing.T) {
	if _, err := LoadExport("/nonexistent/export.json"); !IsIOError(err) {
		t.Fatalf("expected IOError for missing file, got %v", err)
	}
}
