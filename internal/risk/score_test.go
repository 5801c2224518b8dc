package risk

import (
	"testing"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

func track(specs ...[3]float64) []model.Position {
	base := time.Now().UTC()
	out := make([]model.Position, len(specs))
	for i, s := range specs {
		out[i] = model.Position{
			MMSI:              "227123456",
			Latitude:          s[0],
			Longitude:         s[1],
			SpeedOverGroundKn: s[2],
			Timestamp:         base.Add(time.Duration(i) * time.Hour),
		}
	}
	return out
}

func TestAISConsistencyInsufficientData(t *testing.T) {
	if score := AISConsistency(track([3]float64{1, 1, 10})); score != 0.5 {
		t.Fatalf("expected 0.5 for a single-position track, got %f", score)
	}
	if score := AISConsistency(nil); score != 0.5 {
		t.Fatalf("expected 0.5 for an empty track, got %f", score)
	}
}

func TestAISConsistencyCleanTrackIsPerfect(t *testing.T) {
	tr := track([3]float64{1, 1, 10}, [3]float64{1.05, 1.05, 10}, [3]float64{1.1, 1.1, 10})
	if score := AISConsistency(tr); score != 1.0 {
		t.Fatalf("expected 1.0 for a clean track, got %f", score)
	}
}

func TestAISConsistencyPenalizesGapsAndAnomalies(t *testing.T) {
	base := time.Now().UTC()
	tr := []model.Position{
		{MMSI: "227123456", Latitude: 0, Longitude: 0, SpeedOverGroundKn: 10, Timestamp: base},
		// 8h silence: exceeds the 6h gap threshold.
		{MMSI: "227123456", Latitude: 0.01, Longitude: 0.01, SpeedOverGroundKn: 10, Timestamp: base.Add(8 * time.Hour)},
		// a jump far beyond anything the prior reported speed could cover,
		// and further than the 50km anomaly floor.
		{MMSI: "227123456", Latitude: 5, Longitude: 5, SpeedOverGroundKn: 10, Timestamp: base.Add(8*time.Hour + time.Minute)},
	}
	score := AISConsistency(tr)
	if score != 0.75 {
		t.Fatalf("expected 1.0 - 0.1(gap) - 0.15(anomaly) = 0.75, got %f", score)
	}
}

func TestAISConsistencyGapPenaltyCapsAtPointFour(t *testing.T) {
	base := time.Now().UTC()
	var tr []model.Position
	for i := 0; i < 6; i++ {
		tr = append(tr, model.Position{
			MMSI: "227123456", Latitude: 1, Longitude: 1, SpeedOverGroundKn: 0,
			Timestamp: base.Add(time.Duration(i) * 7 * time.Hour),
		})
	}
	if score := AISConsistency(tr); score != 0.6 {
		t.Fatalf("expected the gap penalty capped at 0.4 (score 0.6), got %f", score)
	}
}

func TestBehavioralNormalcyInsufficientData(t *testing.T) {
	if score := BehavioralNormalcy(track([3]float64{1, 1, 10}, [3]float64{1, 1, 10})); score != 0.5 {
		t.Fatalf("expected 0.5 for a two-position track, got %f", score)
	}
}

func TestBehavioralNormalcyPenalizesSpeedAndCourseChanges(t *testing.T) {
	base := time.Now().UTC()
	tr := []model.Position{
		{MMSI: "227123456", Latitude: 1, Longitude: 1, SpeedOverGroundKn: 5, CourseOverGround: 0, Timestamp: base},
		{MMSI: "227123456", Latitude: 1.01, Longitude: 1.01, SpeedOverGroundKn: 25, CourseOverGround: 170, Timestamp: base.Add(time.Hour)},
		{MMSI: "227123456", Latitude: 1.02, Longitude: 1.02, SpeedOverGroundKn: 25, CourseOverGround: 170, Timestamp: base.Add(2 * time.Hour)},
	}
	score := BehavioralNormalcy(tr)
	if score != 0.8 {
		t.Fatalf("expected 1.0 - 0.1(speed change) - 0.1(course change) = 0.8, got %f", score)
	}
}

func TestBehavioralNormalcyPenalizesLoiterRatio(t *testing.T) {
	base := time.Now().UTC()
	tr := []model.Position{
		{MMSI: "227123456", Latitude: 1, Longitude: 1, SpeedOverGroundKn: 1, Timestamp: base},
		{MMSI: "227123456", Latitude: 1, Longitude: 1, SpeedOverGroundKn: 1, Timestamp: base.Add(time.Hour)},
		{MMSI: "227123456", Latitude: 1, Longitude: 1, SpeedOverGroundKn: 1, Timestamp: base.Add(2 * time.Hour)},
	}
	if score := BehavioralNormalcy(tr); score != 0.8 {
		t.Fatalf("expected the 0.2 loiter penalty (score 0.8), got %f", score)
	}
}

func TestSARCorroborationNoFeedWired(t *testing.T) {
	if score := SARCorroboration(false, 0, 0, 5); score != 0.5 {
		t.Fatalf("expected 0.5 when no SAR feed is wired, got %f", score)
	}
}

func TestSARCorroborationNoCoverageInWindow(t *testing.T) {
	if score := SARCorroboration(true, 0, 0, 5); score != 0.5 {
		t.Fatalf("expected 0.5 when SAR exists but none fell in this window, got %f", score)
	}
}

func TestSARCorroborationMatched(t *testing.T) {
	if score := SARCorroboration(true, 2, 3, 5); score != 0.8 {
		t.Fatalf("expected min(1, 0.6+0.1*2) = 0.8, got %f", score)
	}
}

func TestSARCorroborationMatchCapsAtOne(t *testing.T) {
	if score := SARCorroboration(true, 10, 10, 5); score != 1.0 {
		t.Fatalf("expected the match bonus capped at 1.0, got %f", score)
	}
}

func TestSARCorroborationPresentButUnmatched(t *testing.T) {
	if score := SARCorroboration(true, 0, 4, 5); score != 0.5 {
		t.Fatalf("expected 0.5 when SAR coverage exists but missed this vessel, got %f", score)
	}
}

func TestSARCorroborationAISAbsent(t *testing.T) {
	if score := SARCorroboration(true, 0, 4, 0); score != 0.3 {
		t.Fatalf("expected 0.3 when there are no AIS positions to compare against, got %f", score)
	}
}

func TestOverallConfidenceWeightedSum(t *testing.T) {
	score := OverallConfidence(1.0, 1.0, 1.0)
	if score != 1.0 {
		t.Fatalf("expected perfect score of 1.0, got %f", score)
	}
}

func TestConfidenceLevelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  model.ConfidenceLevel
	}{
		{0.9, model.ConfidenceHigh},
		{0.8, model.ConfidenceHigh},
		{0.7, model.ConfidenceMedium},
		{0.6, model.ConfidenceMedium},
		{0.5, model.ConfidenceLow},
		{0.4, model.ConfidenceLow},
		{0.2, model.ConfidenceVeryLow},
	}
	for _, c := range cases {
		if got := ConfidenceLevelFor(c.score); got != c.want {
			t.Fatalf("ConfidenceLevelFor(%f) = %s, want %s", c.score, got, c.want)
		}
	}
}

func TestDeceptionLikelihoodSumsAllFactors(t *testing.T) {
	f := DeceptionFactors{
		AISConsistency:     0.2,
		HasPositionAnomaly: true,
		BehavioralNormalcy: 0.1,
		SARContradicts:     true,
	}
	if score := DeceptionLikelihood(f); score != 1.0 {
		t.Fatalf("expected 0.3+0.3+0.2+0.2 = 1.0, got %f", score)
	}
}

func TestDeceptionLikelihoodCleanVesselIsZero(t *testing.T) {
	f := DeceptionFactors{AISConsistency: 1.0, BehavioralNormalcy: 1.0}
	if score := DeceptionLikelihood(f); score != 0 {
		t.Fatalf("expected 0 for a clean vessel, got %f", score)
	}
}

func TestDarkFleetRiskCombinedScenarioIsCritical(t *testing.T) {
	// Flag=Gabon (shadow-fleet), built 1998, owner undisclosed, 5 AIS
	// gaps, 3 spoofing events, tanker hull.
	f := DarkFleetFactors{
		IsShadowFleetFlag: true,
		VesselAgeYears:    VesselAge(1998, time.Date(2026, time.January, 1, 0, 0, 0, 0, time.UTC)),
		OwnerUnknown:      true,
		AISGapCount:       5,
		SpoofingCount:     3,
		IsTanker:          true,
	}
	score, factors := DarkFleetRisk(f)
	if score < 70 {
		t.Fatalf("expected the combined scenario to score at least 70, got %f", score)
	}
	if DarkFleetRiskLevelFor(score) != model.DarkFleetRiskCritical {
		t.Fatalf("expected a critical risk level, got %s", DarkFleetRiskLevelFor(score))
	}
	if len(factors) != 6 {
		t.Fatalf("expected 6 contributing factors, got %d (%+v)", len(factors), factors)
	}
}

func TestDarkFleetRiskCleanVesselIsMinimal(t *testing.T) {
	score, factors := DarkFleetRisk(DarkFleetFactors{})
	if score != 0 {
		t.Fatalf("expected 0 for a clean vessel, got %f", score)
	}
	if len(factors) != 0 {
		t.Fatalf("expected no contributing factors, got %+v", factors)
	}
	if DarkFleetRiskLevelFor(score) != model.DarkFleetRiskMinimal {
		t.Fatalf("expected minimal risk level, got %s", DarkFleetRiskLevelFor(score))
	}
}

func TestDarkFleetRiskLevelBuckets(t *testing.T) {
	cases := []struct {
		score float64
		want  model.DarkFleetRiskLevel
	}{
		{10, model.DarkFleetRiskMinimal},
		{20, model.DarkFleetRiskLow},
		{45, model.DarkFleetRiskMedium},
		{65, model.DarkFleetRiskHigh},
		{85, model.DarkFleetRiskCritical},
	}
	for _, c := range cases {
		if got := DarkFleetRiskLevelFor(c.score); got != c.want {
			t.Fatalf("DarkFleetRiskLevelFor(%f) = %s, want %s", c.score, got, c.want)
		}
	}
}
