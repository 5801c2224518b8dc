package behavior

import (
	"testing"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

func pos(lat, lon, sog float64, t time.Time) model.Position {
	return model.Position{MMSI: "227123456", Latitude: lat, Longitude: lon, SpeedOverGroundKn: sog, Timestamp: t}
}

func TestDetectLoiteringFindsSustainedSlowWindow(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(1.0, 1.0, 0.5, base),
		pos(1.001, 1.001, 0.5, base.Add(2*time.Hour)),
		pos(1.002, 1.0, 0.5, base.Add(4*time.Hour)),
		pos(1.0, 1.001, 0.5, base.Add(7*time.Hour)),
	}
	events := DetectLoitering("227123456", track, DefaultThresholds)
	if len(events) != 1 {
		t.Fatalf("expected one loitering event, got %d", len(events))
	}
	if events[0].Confidence <= 0 {
		t.Fatalf("expected a positive loitering confidence, got %f", events[0].Confidence)
	}
}

func TestDetectLoiteringRequiresMinDuration(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(1.0, 1.0, 0.5, base),
		pos(1.001, 1.001, 0.5, base.Add(time.Hour)),
	}
	events := DetectLoitering("227123456", track, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected no loitering event below the 3h minimum, got %d", len(events))
	}
}

func TestDetectLoiteringIgnoresFastTransit(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(1.0, 1.0, 15, base),
		pos(2.0, 2.0, 15, base.Add(2*time.Hour)),
		pos(3.0, 3.0, 15, base.Add(4*time.Hour)),
	}
	events := DetectLoitering("227123456", track, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected no loitering events for fast transit, got %d", len(events))
	}
}

func TestDetectAISGapsFindsLongSilence(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(1.0, 1.0, 10, base),
		pos(1.1, 1.1, 10, base.Add(10*time.Hour)),
	}
	events := DetectAISGaps("227123456", track, DefaultThresholds)
	if len(events) != 1 {
		t.Fatalf("expected one AIS gap event, got %d", len(events))
	}
	if events[0].Severity != model.EventSeverityLow {
		t.Fatalf("expected a 10h gap to rank low severity, got %s", events[0].Severity)
	}
}

func TestDetectAISGapsSeverityEscalatesWithDuration(t *testing.T) {
	base := time.Now().UTC()
	cases := []struct {
		hours int
		want  model.EventSeverity
	}{
		{10, model.EventSeverityLow},
		{24, model.EventSeverityMedium},
		{60, model.EventSeverityHigh},
	}
	for _, c := range cases {
		track := []model.Position{
			pos(1.0, 1.0, 10, base),
			pos(1.1, 1.1, 10, base.Add(time.Duration(c.hours)*time.Hour)),
		}
		events := DetectAISGaps("227123456", track, DefaultThresholds)
		if len(events) != 1 || events[0].Severity != c.want {
			t.Fatalf("expected a %dh gap to rank %s severity, got %+v", c.hours, c.want, events)
		}
	}
}

func TestDetectAISGapsIgnoresShortGaps(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(1.0, 1.0, 10, base),
		pos(1.1, 1.1, 10, base.Add(30*time.Minute)),
	}
	events := DetectAISGaps("227123456", track, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected no AIS gap below the 60 minute minimum, got %d", len(events))
	}
}

func TestDetectImpossibleSpeedFindsOutlier(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(0.0, 0.0, 10, base),
		pos(5.0, 5.0, 10, base.Add(time.Minute)),
	}
	events := DetectImpossibleSpeed("227123456", track, DefaultThresholds)
	if len(events) != 1 {
		t.Fatalf("expected one impossible-speed event, got %d", len(events))
	}
}

func TestDetectImpossibleSpeedAcceptsNormalTransit(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(0.0, 0.0, 15, base),
		pos(0.2, 0.0, 15, base.Add(time.Hour)),
	}
	events := DetectImpossibleSpeed("227123456", track, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected no impossible-speed event for normal transit, got %d", len(events))
	}
}

func TestDetectImpossibleSpeedIgnoresHighImpliedSpeedBelowDistanceFloor(t *testing.T) {
	base := time.Now().UTC()
	// Implied speed is far past the ceiling, but the absolute hop is tiny
	// (a few hundred meters) — the kind of jitter a sub-second timestamp
	// error produces, not a teleport.
	track := []model.Position{
		pos(1.0, 1.0, 10, base),
		pos(1.002, 1.0, 10, base.Add(time.Second)),
	}
	events := DetectImpossibleSpeed("227123456", track, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected the 50km distance floor to suppress a sub-threshold hop, got %d", len(events))
	}
}

func TestDetectSpoofingFlagsDistanceExceedingReportedSpeed(t *testing.T) {
	base := time.Now().UTC()
	// Reports 5kn but the fix moved ~111km in one hour — far beyond
	// 5kn*1.852*1h*1.5 (~13.9km) and past the 50km floor.
	track := []model.Position{
		pos(0.0, 0.0, 5, base),
		pos(1.0, 0.0, 5, base.Add(time.Hour)),
	}
	events := DetectSpoofing("227123456", track, DefaultThresholds)
	if len(events) != 1 {
		t.Fatalf("expected one spoofing event, got %d", len(events))
	}
}

func TestDetectSpoofingAcceptsMotionConsistentWithReportedSpeed(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(0.0, 0.0, 15, base),
		pos(0.2, 0.0, 15, base.Add(time.Hour)),
	}
	events := DetectSpoofing("227123456", track, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected no spoofing event when the hop matches the reported speed, got %d", len(events))
	}
}

func TestDetectEncounterShortWindowIsEncounter(t *testing.T) {
	base := time.Now().UTC()
	var a, b []model.Position
	for i := 0; i < 5; i++ {
		ts := base.Add(time.Duration(i*10) * time.Minute)
		a = append(a, model.Position{MMSI: "227123456", Latitude: 1.0, Longitude: 1.0, SpeedOverGroundKn: 1, Timestamp: ts})
		b = append(b, model.Position{MMSI: "227765432", Latitude: 1.001, Longitude: 1.001, SpeedOverGroundKn: 1, Timestamp: ts})
	}
	events := DetectEncounter("227123456", a, "227765432", b, DefaultThresholds)
	if len(events) != 1 {
		t.Fatalf("expected one encounter event, got %d", len(events))
	}
	if events[0].Type != model.EventEncounter {
		t.Fatalf("expected a 40-minute window to classify as an encounter, got %s", events[0].Type)
	}
}

func TestDetectEncounterSustainedWindowIsSTSTransfer(t *testing.T) {
	base := time.Now().UTC()
	var a, b []model.Position
	for i := 0; i < 10; i++ {
		ts := base.Add(time.Duration(i*30) * time.Minute)
		a = append(a, model.Position{MMSI: "227123456", Latitude: 1.0, Longitude: 1.0, SpeedOverGroundKn: 0.5, Timestamp: ts})
		b = append(b, model.Position{MMSI: "227765432", Latitude: 1.001, Longitude: 1.001, SpeedOverGroundKn: 0.5, Timestamp: ts})
	}
	events := DetectEncounter("227123456", a, "227765432", b, DefaultThresholds)
	if len(events) != 1 {
		t.Fatalf("expected one event, got %d", len(events))
	}
	if events[0].Type != model.EventSTSTransfer {
		t.Fatalf("expected a 4.5 hour window to classify as an STS transfer, got %s", events[0].Type)
	}
}

func TestDetectEncounterTooShortIsIgnored(t *testing.T) {
	base := time.Now().UTC()
	var a, b []model.Position
	for i := 0; i < 2; i++ {
		ts := base.Add(time.Duration(i*10) * time.Minute)
		a = append(a, model.Position{MMSI: "227123456", Latitude: 1.0, Longitude: 1.0, SpeedOverGroundKn: 1, Timestamp: ts})
		b = append(b, model.Position{MMSI: "227765432", Latitude: 1.001, Longitude: 1.001, SpeedOverGroundKn: 1, Timestamp: ts})
	}
	events := DetectEncounter("227123456", a, "227765432", b, DefaultThresholds)
	if len(events) != 0 {
		t.Fatalf("expected no event below the 30 minute encounter minimum, got %d", len(events))
	}
}

func TestDedupRemovesRepeatedTimestamp(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{pos(1, 1, 1, base), pos(1, 1, 1, base)}
	out := Dedup(track)
	if len(out) != 1 {
		t.Fatalf("expected duplicate timestamp collapsed, got %d", len(out))
	}
}

func TestSegmentSplitsOnGap(t *testing.T) {
	base := time.Now().UTC()
	track := []model.Position{
		pos(1, 1, 1, base),
		pos(1, 1, 1, base.Add(time.Minute)),
		pos(1, 1, 1, base.Add(10*time.Hour)),
	}
	segments := Segment(track, 6*time.Hour)
	if len(segments) != 2 {
		t.Fatalf("expected 2 segments, got %d", len(segments))
	}
}

func TestGroupByMMSISplitsMixedPositions(t *testing.T) {
	base := time.Now().UTC()
	mixed := []model.Position{
		{MMSI: "227123456", Latitude: 1, Longitude: 1, Timestamp: base},
		{MMSI: "227765432", Latitude: 2, Longitude: 2, Timestamp: base},
		{MMSI: "227123456", Latitude: 1.1, Longitude: 1.1, Timestamp: base.Add(time.Minute)},
	}
	groups := GroupByMMSI(mixed)
	if len(groups) != 2 || len(groups["227123456"]) != 2 || len(groups["227765432"]) != 1 {
		t.Fatalf("unexpected grouping: %+v", groups)
	}
}
