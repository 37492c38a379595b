package pipeline

import (
	"encoding/csv"
	"os"
	"strconv"
	"time"

	"github.com/xitongsys/parquet-go-source/local"
	"github.com/xitongsys/parquet-go/parquet"
	"github.com/xitongsys/parquet-go/writer"

	"mywellness-tools"
)

var tableHeader = []string{
	"ts_utc_iso", "offset_s", "speed_kmh", "power_w", "cadence_rpm",
	"raw_distance_m", "smooth_distance_m", "hr_bpm",
}

func writeTableCSV(path string, samples []mywellness.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(tableHeader); err != nil {
		return err
	}
	for _, s := range samples {
		row := []string{
			s.Timestamp.UTC().Format(time.RFC3339),
			formatFloat(s.Offset),
			formatFloat(s.SpeedKMH),
			formatFloat(s.PowerW),
			formatFloat(s.CadenceRPM),
			formatFloat(s.RawDistanceM),
			formatFloat(s.SmoothDistanceM),
			strconv.Itoa(s.HeartRateBPM),
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

type tableParquetRow struct {
	TSUTCISO        string  `parquet:"name=ts_utc_iso, type=BYTE_ARRAY, convertedtype=UTF8, encoding=PLAIN_DICTIONARY"`
	OffsetS         float64 `parquet:"name=offset_s, type=DOUBLE"`
	SpeedKMH        float64 `parquet:"name=speed_kmh, type=DOUBLE"`
	PowerW          float64 `parquet:"name=power_w, type=DOUBLE"`
	CadenceRPM      float64 `parquet:"name=cadence_rpm, type=DOUBLE"`
	RawDistanceM    float64 `parquet:"name=raw_distance_m, type=DOUBLE"`
	SmoothDistanceM float64 `parquet:"name=smooth_distance_m, type=DOUBLE"`
	HRBPM           int64   `parquet:"name=hr_bpm, type=INT64"`
}

func writeTableParquet(path string, samples []mywellness.Sample) error {
	fw, err := local.NewLocalFileWriter(path)
	if err != nil {
		return err
	}
	pw, err := writer.NewParquetWriter(fw, new(tableParquetRow), 4)
	if err != nil {
		_ = fw.Close()
		return err
	}
	pw.CompressionType = parquet.CompressionCodec_SNAPPY
	for _, s := range samples {
		row := tableParquetRow{
			TSUTCISO:        s.Timestamp.UTC().Format(time.RFC3339),
			OffsetS:         s.Offset,
			SpeedKMH:        s.SpeedKMH,
			PowerW:          s.PowerW,
			CadenceRPM:      s.CadenceRPM,
			RawDistanceM:    s.RawDistanceM,
			SmoothDistanceM: s.SmoothDistanceM,
			HRBPM:           int64(s.HeartRateBPM),
		}
		if err := pw.Write(row); err != nil {
			_ = pw.WriteStop()
			_ = fw.Close()
			return err
		}
	}
	if err := pw.WriteStop(); err != nil {
		_ = fw.Close()
		return err
	}
	return fw.Close()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
