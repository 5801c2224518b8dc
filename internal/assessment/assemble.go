// Package assessment fuses behavior events, confidence/risk scores,
// sanctions hits, and zone membership into a single intelligence product
// per vessel.
package assessment

import (
	"fmt"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Input bundles everything the assembler needs for one vessel; every
// upstream subsystem (behavior, risk, sanctions, zone) contributes one
// field and never talks to another subsystem directly.
type Input struct {
	MMSI           string
	Events         []model.Event
	Score          model.ConfidenceScore
	Sanctioned     bool
	SanctionRecord *model.SanctionedVesselRecord
	ZoneNames      []string
}

// Assemble joins Input into a full Assessment: an indicator list derived
// from events and score, an assessment level derived from the
// dark-fleet-risk score (escalated immediately by a sanctions hit), and
// a review flag for anything that isn't routine.
func Assemble(in Input) model.Assessment {
	indicators := indicatorsFor(in)
	level := levelFor(in)

	return model.Assessment{
		MMSI:           in.MMSI,
		Level:          level,
		Indicators:     indicators,
		Score:          in.Score,
		Sanctioned:     in.Sanctioned,
		SanctionRecord: in.SanctionRecord,
		ZoneNames:      in.ZoneNames,
		RequiresReview: level != model.AssessmentLevelNone && level != model.AssessmentLevelLow,
		GeneratedAt:    time.Now().UTC(),
	}
}

func indicatorsFor(in Input) []string {
	var indicators []string
	for _, e := range in.Events {
		switch e.Type {
		case model.EventLoitering:
			indicators = append(indicators, "loitering")
		case model.EventAISGap:
			indicators = append(indicators, "ais_gap")
		case model.EventSpoofing:
			indicators = append(indicators, "spoofing")
		case model.EventImpossibleSpeed:
			indicators = append(indicators, "impossible_speed")
		case model.EventEncounter:
			indicators = append(indicators, fmt.Sprintf("encounter:%s", e.OtherMMSI))
		case model.EventSTSTransfer:
			indicators = append(indicators, fmt.Sprintf("sts_transfer:%s", e.OtherMMSI))
		case model.EventDarkVessel:
			indicators = append(indicators, "dark_vessel_match")
		case model.EventZoneEntry:
			indicators = append(indicators, "zone_entry")
		}
	}
	if in.Sanctioned {
		indicators = append(indicators, "sanctioned_vessel")
	}
	return indicators
}

// levelFor derives the assessment's triage bucket. A sanctions hit always
// floors the level at "critical" regardless of the numeric risk score —
// the watchlist match is itself dispositive.
func levelFor(in Input) model.AssessmentLevel {
	if in.Sanctioned {
		return model.AssessmentLevelCritical
	}
	switch {
	case in.Score.DarkFleetRisk >= 75:
		return model.AssessmentLevelCritical
	case in.Score.DarkFleetRisk >= 50:
		return model.AssessmentLevelHigh
	case in.Score.DarkFleetRisk >= 25:
		return model.AssessmentLevelElevated
	case in.Score.DarkFleetRisk > 0:
		return model.AssessmentLevelLow
	default:
		return model.AssessmentLevelNone
	}
}
