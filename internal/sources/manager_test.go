package sources

import (
	"testing"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

func TestManagerIngestPrefersNewerTimestamp(t *testing.T) {
	m := NewManager()
	var seen []model.Position
	m.OnPosition(func(p model.Position) { seen = append(seen, p) })

	base := time.Now().UTC()
	older := model.Position{MMSI: "227123456", Latitude: 1, Longitude: 1, Timestamp: base}
	newer := model.Position{MMSI: "227123456", Latitude: 2, Longitude: 2, Timestamp: base.Add(time.Minute)}

	m.ingest(newer, 5)
	m.ingest(older, 1)

	got, ok := m.LastKnown("227123456")
	if !ok {
		t.Fatal("expected a tracked position")
	}
	if got.Latitude != 2 {
		t.Fatalf("expected the newer position to win, got lat=%f", got.Latitude)
	}
	if len(seen) != 1 {
		t.Fatalf("expected only the accepted newer position to fire onEvent, got %d events", len(seen))
	}
}

func TestManagerIngestTieBreaksOnPriority(t *testing.T) {
	m := NewManager()
	ts := time.Now().UTC()
	low := model.Position{MMSI: "227123456", Latitude: 1, Longitude: 1, Timestamp: ts}
	high := model.Position{MMSI: "227123456", Latitude: 2, Longitude: 2, Timestamp: ts}

	m.ingest(low, 5)
	m.ingest(high, 1)

	got, _ := m.LastKnown("227123456")
	if got.Latitude != 2 {
		t.Fatalf("expected lower-priority-value source to win tie, got lat=%f", got.Latitude)
	}
}

func TestManagerIngestRejectsInvalidPosition(t *testing.T) {
	m := NewManager()
	m.ingest(model.Position{MMSI: "227123456", Latitude: 0, Longitude: 0, Timestamp: time.Now()}, 1)
	if _, ok := m.LastKnown("227123456"); ok {
		t.Fatal("expected null-island position to be rejected")
	}
}

func TestManagerLastKnownFreshness(t *testing.T) {
	m := NewManager()
	stale := model.Position{MMSI: "227123456", Latitude: 1, Longitude: 1, Timestamp: time.Now().Add(-time.Hour)}
	m.ingest(stale, 1)
	_, fresh := m.LastKnown("227123456")
	if fresh {
		t.Fatal("expected hour-old position to be reported stale")
	}
}
