package assessment

import (
	"testing"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

func TestAssembleSanctionedVesselIsAlwaysCritical(t *testing.T) {
	in := Input{
		MMSI:       "227123456",
		Sanctioned: true,
		Score:      model.ConfidenceScore{DarkFleetRisk: 0},
	}
	a := Assemble(in)
	if a.Level != model.AssessmentLevelCritical {
		t.Fatalf("expected critical level for a sanctioned vessel, got %v", a.Level)
	}
	if !a.RequiresReview {
		t.Fatal("expected a sanctioned vessel to require review")
	}
}

func TestAssembleLevelThresholds(t *testing.T) {
	cases := map[float64]model.AssessmentLevel{
		0:  model.AssessmentLevelNone,
		10: model.AssessmentLevelLow,
		30: model.AssessmentLevelElevated,
		60: model.AssessmentLevelHigh,
		90: model.AssessmentLevelCritical,
	}
	for risk, want := range cases {
		a := Assemble(Input{MMSI: "227123456", Score: model.ConfidenceScore{DarkFleetRisk: risk}})
		if a.Level != want {
			t.Fatalf("risk=%f: expected %v, got %v", risk, want, a.Level)
		}
	}
}

func TestAssembleIndicatorsFromEvents(t *testing.T) {
	in := Input{
		MMSI: "227123456",
		Events: []model.Event{
			{Type: model.EventLoitering},
			{Type: model.EventSpoofing},
		},
	}
	a := Assemble(in)
	if len(a.Indicators) != 2 {
		t.Fatalf("expected 2 indicators, got %v", a.Indicators)
	}
}

func TestAssembleLowRiskDoesNotRequireReview(t *testing.T) {
	a := Assemble(Input{MMSI: "227123456", Score: model.ConfidenceScore{DarkFleetRisk: 10}})
	if a.RequiresReview {
		t.Fatal("expected low-level assessments to not require review")
	}
}
