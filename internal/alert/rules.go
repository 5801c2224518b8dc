// Package alert implements the rule-driven alert engine: turning an
// Assessment into zero or more Alerts, with duplicate suppression and
// webhook fan-out.
package alert

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Rule names, matched against suppression history.
const (
	RuleSanctionedVessel = "sanctioned_vessel"
	RuleSpoofing         = "spoofing_detected"
	RuleDarkPeriod       = "dark_period"
	RuleSTSZoneEntry     = "sts_zone_entry"
	RuleTerminalArrival  = "terminal_arrival"
	RuleGeofenceEnter    = "geofence_enter"
)

// Evaluate derives the set of alerts triggered by a fully assembled
// Assessment, without regard to suppression history — call the Manager's
// Emit to apply deduplication before delivery.
func Evaluate(a model.Assessment) []model.Alert {
	var alerts []model.Alert

	if a.Sanctioned {
		name := "unknown vessel"
		if a.SanctionRecord != nil {
			name = a.SanctionRecord.Name
		}
		alerts = append(alerts, newAlert(RuleSanctionedVessel, model.AlertSeverityCritical, a.MMSI,
			fmt.Sprintf("MMSI %s matched watchlist entry %q", a.MMSI, name)))
	}

	for _, indicator := range a.Indicators {
		switch {
		case indicator == "spoofing":
			alerts = append(alerts, newAlert(RuleSpoofing, model.AlertSeverityCritical, a.MMSI,
				fmt.Sprintf("MMSI %s exhibited a spoofing signature", a.MMSI)))
		case indicator == "ais_gap" && a.Score.DeceptionLikelihood >= 0.5:
			alerts = append(alerts, newAlert(RuleDarkPeriod, model.AlertSeverityWarning, a.MMSI,
				fmt.Sprintf("MMSI %s went dark with elevated deception likelihood", a.MMSI)))
		}
	}

	for _, zoneName := range a.ZoneNames {
		alerts = append(alerts, newAlert(RuleGeofenceEnter, model.AlertSeverityInfo, a.MMSI,
			fmt.Sprintf("MMSI %s entered zone %q", a.MMSI, zoneName)))
	}

	return alerts
}

func newAlert(rule string, severity model.AlertSeverity, mmsi, message string) model.Alert {
	return model.Alert{
		ID:        uuid.NewString(),
		Rule:      rule,
		Severity:  severity,
		MMSI:      mmsi,
		Message:   message,
		CreatedAt: time.Now().UTC(),
	}
}
