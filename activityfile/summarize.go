package activityfile

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"time"

	"github.com/tormoder/fit"
)

func summarizeFIT(data []byte) (*Summary, error) {
	decoded, err := fit.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decoding fit file: %w", err)
	}
	activity, err := decoded.Activity()
	if err != nil {
		return nil, fmt.Errorf("reading fit activity: %w", err)
	}
	if len(activity.Sessions) == 0 {
		return nil, fmt.Errorf("fit file has no sessions")
	}

	session := activity.Sessions[0]
	return &Summary{
		Type:            TypeFIT,
		Sport:           session.Sport.String(),
		StartTime:       session.StartTime,
		DurationSeconds: session.GetTotalTimerTimeScaled(),
		DistanceMeters:  session.GetTotalDistanceScaled(),
		AvgHeartRateBPM: int(validU8(session.AvgHeartRate)),
		MaxHeartRateBPM: int(validU8(session.MaxHeartRate)),
	}, nil
}

func validU8(v uint8) uint8 {
	if v == ^uint8(0) {
		return 0
	}
	return v
}

type tcxDocument struct {
	Activities struct {
		Activity []struct {
			Sport string `xml:"Sport,attr"`
			Laps  []struct {
				StartTime           string  `xml:"StartTime,attr"`
				TotalTimeSeconds    float64 `xml:"TotalTimeSeconds"`
				DistanceMeters      float64 `xml:"DistanceMeters"`
				AverageHeartRateBpm struct {
					Value int `xml:"Value"`
				} `xml:"AverageHeartRateBpm"`
				MaximumHeartRateBpm struct {
					Value int `xml:"Value"`
				} `xml:"MaximumHeartRateBpm"`
			} `xml:"Lap"`
		} `xml:"Activity"`
	} `xml:"Activities"`
}

func summarizeTCX(data []byte) (*Summary, error) {
	var doc tcxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing tcx file: %w", err)
	}
	if len(doc.Activities.Activity) == 0 || len(doc.Activities.Activity[0].Laps) == 0 {
		return nil, fmt.Errorf("tcx file has no laps")
	}

	activity := doc.Activities.Activity[0]
	summary := &Summary{
		Type:  TypeTCX,
		Sport: activity.Sport,
	}
	if start, err := time.Parse(time.RFC3339, activity.Laps[0].StartTime); err == nil {
		summary.StartTime = start
	}
	maxAvg := 0
	for _, lap := range activity.Laps {
		summary.DurationSeconds += lap.TotalTimeSeconds
		summary.DistanceMeters += lap.DistanceMeters
		if lap.MaximumHeartRateBpm.Value > summary.MaxHeartRateBPM {
			summary.MaxHeartRateBPM = lap.MaximumHeartRateBpm.Value
		}
		if lap.AverageHeartRateBpm.Value > maxAvg {
			maxAvg = lap.AverageHeartRateBpm.Value
		}
	}
	summary.AvgHeartRateBPM = maxAvg
	return summary, nil
}

type gpxDocument struct {
	Tracks []struct {
		Name     string `xml:"name"`
		Segments []struct {
			Points []struct {
				Time string `xml:"time"`
			} `xml:"trkpt"`
		} `xml:"trkseg"`
	} `xml:"trk"`
}

func summarizeGPX(data []byte) (*Summary, error) {
	var doc gpxDocument
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing gpx file: %w", err)
	}

	summary := &Summary{Type: TypeGPX}
	var first, last time.Time
	for _, track := range doc.Tracks {
		for _, seg := range track.Segments {
			for _, pt := range seg.Points {
				t, err := time.Parse(time.RFC3339, pt.Time)
				if err != nil {
					continue
				}
				if first.IsZero() {
					first = t
				}
				last = t
			}
		}
	}
	if first.IsZero() {
		return nil, fmt.Errorf("gpx file has no timestamped points")
	}
	summary.StartTime = first
	summary.DurationSeconds = last.Sub(first).Seconds()
	return summary, nil
}
