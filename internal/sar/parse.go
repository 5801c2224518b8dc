// Package sar parses synthetic-aperture-radar detection batches and
// correlates them against the AIS track store to surface dark vessels —
// radar contacts with no corresponding AIS broadcast.
package sar

import (
	"encoding/csv"
	"encoding/xml"
	"fmt"
	"io"
	"strconv"

	"github.com/google/uuid"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

// ParseCSV reads a SAR detection batch where latitude, longitude, and
// timestamp live in columns 5, 7, and 11 (0-indexed), matching the layout
// commercial SAR providers export. A header row, if present, is skipped
// automatically (detected by a non-numeric latitude column).
func ParseCSV(r io.Reader, batchID string) ([]model.SARDetection, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("sar csv: %w", err)
	}

	var detections []model.SARDetection
	for i, row := range rows {
		if len(row) <= 11 {
			continue
		}
		lat, err := strconv.ParseFloat(row[5], 64)
		if err != nil {
			if i == 0 {
				continue // header row
			}
			return nil, fmt.Errorf("sar csv row %d: bad latitude %q: %w", i, row[5], err)
		}
		lon, err := strconv.ParseFloat(row[7], 64)
		if err != nil {
			return nil, fmt.Errorf("sar csv row %d: bad longitude %q: %w", i, row[7], err)
		}
		parsed := geo.ParseTimestamp(row[11])

		detections = append(detections, model.SARDetection{
			ID:        uuid.NewString(),
			Latitude:  lat,
			Longitude: lon,
			Timestamp: parsed.Time,
			BatchID:   batchID,
		})
	}
	return detections, nil
}

type xmlBatch struct {
	Detections []xmlDetection `xml:"detection"`
}

type xmlDetection struct {
	Latitude  float64 `xml:"latitude"`
	Longitude float64 `xml:"longitude"`
	Timestamp string  `xml:"timestamp"`
	LengthM   float64 `xml:"length_m"`
}

// ParseXML reads a SAR detection batch expressed as a sequence of
// <detection> elements.
func ParseXML(r io.Reader, batchID string) ([]model.SARDetection, error) {
	var batch xmlBatch
	if err := xml.NewDecoder(r).Decode(&batch); err != nil {
		return nil, fmt.Errorf("sar xml: %w", err)
	}

	detections := make([]model.SARDetection, 0, len(batch.Detections))
	for _, d := range batch.Detections {
		parsed := geo.ParseTimestamp(d.Timestamp)
		detections = append(detections, model.SARDetection{
			ID:        uuid.NewString(),
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
			Timestamp: parsed.Time,
			LengthM:   d.LengthM,
			BatchID:   batchID,
		})
	}
	return detections, nil
}
