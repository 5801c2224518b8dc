package store

import (
	"testing"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

func newTestStore(t *testing.T) *TrackStore {
	t.Helper()
	db, err := NewTestConnection()
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	return New(db)
}

func TestAppendAndLastPosition(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)

	older := model.Position{MMSI: "227123456", Latitude: 1, Longitude: 1, Timestamp: now.Add(-time.Hour)}
	newer := model.Position{MMSI: "227123456", Latitude: 2, Longitude: 2, Timestamp: now}

	if err := s.AppendPosition(older); err != nil {
		t.Fatalf("append older: %v", err)
	}
	if err := s.AppendPosition(newer); err != nil {
		t.Fatalf("append newer: %v", err)
	}

	got, ok, err := s.LastPosition("227123456")
	if err != nil || !ok {
		t.Fatalf("expected a last position, err=%v ok=%v", err, ok)
	}
	if got.Latitude != 2 {
		t.Fatalf("expected latest position, got lat=%f", got.Latitude)
	}
}

func TestHistoryWindow(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC().Truncate(time.Second)
	for i := 0; i < 3; i++ {
		p := model.Position{MMSI: "227123456", Latitude: float64(i), Longitude: 1, Timestamp: now.Add(time.Duration(i) * time.Minute)}
		if err := s.AppendPosition(p); err != nil {
			t.Fatalf("append: %v", err)
		}
	}
	hist, err := s.History("227123456", now.Add(-time.Minute), now.Add(5*time.Minute))
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(hist) != 3 {
		t.Fatalf("expected 3 history entries, got %d", len(hist))
	}
	if hist[0].Latitude != 0 || hist[2].Latitude != 2 {
		t.Fatal("expected history ordered oldest-first")
	}
}

func TestAllPositionsInBox(t *testing.T) {
	s := newTestStore(t)
	now := time.Now().UTC()
	inside := model.Position{MMSI: "227123456", Latitude: 15, Longitude: 15, Timestamp: now}
	outside := model.Position{MMSI: "227123457", Latitude: 50, Longitude: 50, Timestamp: now}
	s.AppendPosition(inside)
	s.AppendPosition(outside)

	box := geo.BoundingBox{LatMin: 10, LonMin: 10, LatMax: 20, LonMax: 20}
	got, err := s.AllPositionsInBox(box, now.Add(-time.Minute), now.Add(time.Minute))
	if err != nil {
		t.Fatalf("query failed: %v", err)
	}
	if len(got) != 1 || got[0].MMSI != "227123456" {
		t.Fatalf("expected only the in-box vessel, got %+v", got)
	}
}

func TestUpsertVesselOverwrites(t *testing.T) {
	s := newTestStore(t)
	s.UpsertVessel(model.VesselInfo{MMSI: "227123456", Name: "MV FIRST"})
	s.UpsertVessel(model.VesselInfo{MMSI: "227123456", Name: "MV RENAMED"})

	got, ok, err := s.Vessel("227123456")
	if err != nil || !ok {
		t.Fatalf("expected vessel record, err=%v ok=%v", err, ok)
	}
	if got.Name != "MV RENAMED" {
		t.Fatalf("expected overwritten name, got %q", got.Name)
	}
}

func TestAppendEventAssignsID(t *testing.T) {
	s := newTestStore(t)
	e := model.Event{Type: model.EventLoitering, MMSI: "227123456", StartTime: time.Now()}
	if err := s.AppendEvent(e); err != nil {
		t.Fatalf("append event: %v", err)
	}
}

func TestSanctionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	rec := model.SanctionedVesselRecord{
		IMO: "9074729", Name: "MV SHADOW", NormalizedName: "SHADOW",
		Authorities: []string{"OFAC", "OpenSanctions"}, ListedAt: time.Now(),
	}
	if err := s.UpsertSanction(rec); err != nil {
		t.Fatalf("upsert sanction: %v", err)
	}
	all, err := s.AllSanctions()
	if err != nil {
		t.Fatalf("list sanctions: %v", err)
	}
	if len(all) != 1 || len(all[0].Authorities) != 2 {
		t.Fatalf("expected round-tripped authorities, got %+v", all)
	}
}
