package sar

import (
	"strings"
	"testing"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

func TestParseCSVColumns(t *testing.T) {
	csvData := "id,a,b,c,d,lat,e,lon,f,g,h,ts\n" +
		"1,,,,,10.5,,20.5,,,,2024-03-15T12:00:00Z\n"
	detections, err := ParseCSV(strings.NewReader(csvData), "batch-1")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(detections) != 1 {
		t.Fatalf("expected 1 detection, got %d", len(detections))
	}
	if detections[0].Latitude != 10.5 || detections[0].Longitude != 20.5 {
		t.Fatalf("unexpected coordinates: %+v", detections[0])
	}
}

func TestParseXMLDetections(t *testing.T) {
	xmlData := `<batch><detection><latitude>10.5</latitude><longitude>20.5</longitude><timestamp>2024-03-15T12:00:00Z</timestamp><length_m>120</length_m></detection></batch>`
	detections, err := ParseXML(strings.NewReader(xmlData), "batch-2")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if len(detections) != 1 || detections[0].LengthM != 120 {
		t.Fatalf("unexpected detections: %+v", detections)
	}
}

func TestCorrelateMatchesClosestCandidate(t *testing.T) {
	now := time.Now().UTC()
	detection := model.SARDetection{ID: "d1", Latitude: 10.0, Longitude: 10.0, Timestamp: now}

	far := model.Position{MMSI: "227000001", Latitude: 10.05, Longitude: 10.05, Timestamp: now}
	near := model.Position{MMSI: "227000002", Latitude: 10.001, Longitude: 10.001, Timestamp: now}

	lookup := func(d model.SARDetection) []model.Position { return []model.Position{far, near} }

	matched, dark := Correlate([]model.SARDetection{detection}, lookup, DefaultCorrelationThresholds)
	if len(dark) != 0 {
		t.Fatalf("expected no dark-vessel event, got %d", len(dark))
	}
	if matched[0].MatchedMMSI != "227000002" {
		t.Fatalf("expected closest candidate to win, got %q", matched[0].MatchedMMSI)
	}
}

func TestCorrelateEmitsDarkVesselWhenNoCandidate(t *testing.T) {
	now := time.Now().UTC()
	detection := model.SARDetection{ID: "d1", Latitude: 10.0, Longitude: 10.0, Timestamp: now}
	lookup := func(d model.SARDetection) []model.Position { return nil }

	matched, dark := Correlate([]model.SARDetection{detection}, lookup, DefaultCorrelationThresholds)
	if len(dark) != 1 {
		t.Fatalf("expected one dark-vessel event, got %d", len(dark))
	}
	if matched[0].MatchedMMSI != "" {
		t.Fatal("expected unmatched detection to carry no MMSI")
	}
}

func TestBatchProgressSnapshot(t *testing.T) {
	var p BatchProgress
	p.Start()
	p.RecordBatch(
		[]model.SARDetection{{MatchedMMSI: "227000001"}, {}},
		[]model.Event{{}},
	)
	p.Finish()
	snap := p.Snapshot()
	if snap.TotalDetections != 2 || snap.TotalMatched != 1 || snap.TotalDark != 1 || snap.IsRunning {
		t.Fatalf("unexpected snapshot: %+v", snap)
	}
}
