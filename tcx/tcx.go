// Package tcx builds and writes Garmin TrainingCenterDatabase v2 documents
// from a completed sample table. The document model carries pre-formatted
// string values so the XML output matches the schema's expected precision
// (one decimal for distances and speeds, whole numbers for heart rates).
package tcx

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"time"

	"mywellness-tools"
)

// Namespaces declared on the document root. The default namespace is the
// TrainingCenterDatabase schema itself; TPX extension elements live in the
// ActivityExtension namespace.
const (
	NamespaceTCD               = "http://www.garmin.com/xmlschemas/TrainingCenterDatabase/v2"
	NamespaceXSI               = "http://www.w3.org/2001/XMLSchema-instance"
	NamespaceUserProfile       = "http://www.garmin.com/xmlschemas/UserProfile/v2"
	NamespaceActivityExtension = "http://www.garmin.com/xmlschemas/ActivityExtension/v2"
	NamespaceActivityGoals     = "http://www.garmin.com/xmlschemas/ActivityGoals/v1"
)

const timeLayout = "2006-01-02T15:04:05Z"

// LapConfig holds the lap-level values that are not derived from the sample
// data. The exports carry no sport or calorie information, so these are
// configuration defaults rather than computed facts.
type LapConfig struct {
	Sport         string
	Calories      int
	Intensity     string
	TriggerMethod string
}

// DefaultLapConfig returns the values used for indoor cycling exports.
func DefaultLapConfig() LapConfig {
	return LapConfig{
		Sport:         "Biking",
		Calories:      0,
		Intensity:     "Active",
		TriggerMethod: "Manual",
	}
}

type TrainingCenterDatabase struct {
	XMLName      xml.Name `xml:"TrainingCenterDatabase"`
	Xmlns        string   `xml:"xmlns,attr"`
	XmlnsXSI     string   `xml:"xmlns:xsi,attr"`
	XmlnsProfile string   `xml:"xmlns:ns2,attr"`
	XmlnsExt     string   `xml:"xmlns:ns3,attr"`
	XmlnsGoals   string   `xml:"xmlns:ns5,attr"`
	Activities   Activities
}

type Activities struct {
	XMLName  xml.Name `xml:"Activities"`
	Activity Activity
}

type Activity struct {
	XMLName xml.Name `xml:"Activity"`
	Sport   string   `xml:"Sport,attr"`
	ID      string   `xml:"Id"`
	Lap     Lap
}

type Lap struct {
	XMLName             xml.Name `xml:"Lap"`
	StartTime           string   `xml:"StartTime,attr"`
	TotalTimeSeconds    string
	DistanceMeters      string
	MaximumSpeed        string
	Calories            string
	AverageHeartRateBpm HeartRate
	MaximumHeartRateBpm HeartRate
	Intensity           string
	TriggerMethod       string
	Track               Track
}

type HeartRate struct {
	Value string
}

type Track struct {
	XMLName     xml.Name `xml:"Track"`
	Trackpoints []Trackpoint
}

type Trackpoint struct {
	XMLName        xml.Name `xml:"Trackpoint"`
	Time           string
	DistanceMeters string
	HeartRateBpm   HeartRate
	Cadence        string
	Extensions     Extensions
}

type Extensions struct {
	XMLName xml.Name `xml:"Extensions"`
	TPX     TPX
}

// TPX is the ActivityExtension trackpoint payload. Speed is in m/s per the
// extension schema; watts pass through as reported.
type TPX struct {
	XMLName xml.Name `xml:"TPX"`
	Xmlns   string   `xml:"xmlns,attr"`
	Speed   string
	Watts   string
}

// Build assembles a single-lap, single-activity document from a completed
// sample table and its metrics. One trackpoint is emitted per table row, in
// table order.
func Build(samples []mywellness.Sample, m mywellness.Metrics, start time.Time, cfg LapConfig) *TrainingCenterDatabase {
	points := make([]Trackpoint, 0, len(samples))
	for _, s := range samples {
		points = append(points, Trackpoint{
			Time:           s.Timestamp.UTC().Format(timeLayout),
			DistanceMeters: fmt.Sprintf("%.1f", s.SmoothDistanceM),
			HeartRateBpm:   HeartRate{Value: strconv.Itoa(s.HeartRateBPM)},
			Cadence:        strconv.FormatFloat(s.CadenceRPM, 'f', -1, 64),
			Extensions: Extensions{
				TPX: TPX{
					Xmlns: NamespaceActivityExtension,
					Speed: fmt.Sprintf("%.1f", s.SpeedKMH/3.6),
					Watts: strconv.FormatFloat(s.PowerW, 'f', -1, 64),
				},
			},
		})
	}

	startISO := start.UTC().Format(timeLayout)
	return &TrainingCenterDatabase{
		Xmlns:        NamespaceTCD,
		XmlnsXSI:     NamespaceXSI,
		XmlnsProfile: NamespaceUserProfile,
		XmlnsExt:     NamespaceActivityExtension,
		XmlnsGoals:   NamespaceActivityGoals,
		Activities: Activities{
			Activity: Activity{
				Sport: cfg.Sport,
				ID:    startISO,
				Lap: Lap{
					StartTime:           startISO,
					TotalTimeSeconds:    strconv.FormatFloat(m.TotalTimeSeconds, 'f', -1, 64),
					DistanceMeters:      fmt.Sprintf("%.1f", m.TotalDistanceM),
					MaximumSpeed:        fmt.Sprintf("%.1f", m.MaxSpeedKMH),
					Calories:            strconv.Itoa(cfg.Calories),
					AverageHeartRateBpm: HeartRate{Value: fmt.Sprintf("%.0f", m.AvgHeartRateBPM)},
					MaximumHeartRateBpm: HeartRate{Value: fmt.Sprintf("%.0f", m.MaxHeartRateBPM)},
					Intensity:           cfg.Intensity,
					TriggerMethod:       cfg.TriggerMethod,
					Track:               Track{Trackpoints: points},
				},
			},
		},
	}
}

// Marshal renders the document with an XML declaration and indentation.
func (t *TrainingCenterDatabase) Marshal() ([]byte, error) {
	body, err := xml.MarshalIndent(t, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling tcx document: %w", err)
	}
	return append([]byte(xml.Header), append(body, '\n')...), nil
}

// WriteFile writes the document to path. A failed write surfaces an IOError
// and may leave a truncated file behind.
func (t *TrainingCenterDatabase) WriteFile(path string) error {
	data, err := t.Marshal()
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return &mywellness.IOError{Op: "write tcx", Path: path, Err: err}
	}
	return nil
}
