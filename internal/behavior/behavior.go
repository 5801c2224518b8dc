// Package behavior implements the deterministic detectors that turn a
// vessel's position history into discrete behavior events: loitering,
// AIS gaps, impossible speed, spoofing, and ship-to-ship encounters.
//
// Every detector here is a pure function over a time-ordered slice of
// positions for a single vessel (or, for encounters, a pair) — none of
// them touch the store directly, so they can be exercised against any
// window the caller assembles.
package behavior

import (
	"time"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Thresholds bundles every tunable constant the detectors consult, so a
// caller can run the same window through stricter or looser profiles
// without recompiling.
type Thresholds struct {
	LoiterMaxSpeedKn  float64
	LoiterMinDuration time.Duration
	LoiterMaxRadiusNM float64

	AISGapMinDuration time.Duration

	ImpossibleSpeedKn    float64
	AnomalyMinDistanceKm float64
	SpoofingSpeedMargin  float64

	STSMaxDistanceNM     float64
	STSMinDuration       time.Duration
	EncounterMinDuration time.Duration
	STSMaxSpeedKn        float64
}

// DefaultThresholds are the detector constants used absent an explicit
// override.
var DefaultThresholds = Thresholds{
	LoiterMaxSpeedKn:  2.0,
	LoiterMinDuration: 3 * time.Hour,
	LoiterMaxRadiusNM: 0.5,

	AISGapMinDuration: 60 * time.Minute,

	ImpossibleSpeedKn:    50.0,
	AnomalyMinDistanceKm: 50.0,
	SpoofingSpeedMargin:  1.5,

	STSMaxDistanceNM:     0.3,
	STSMinDuration:       4 * time.Hour,
	EncounterMinDuration: 30 * time.Minute,
	STSMaxSpeedKn:        1.0,
}

// sortedCopy returns track sorted ascending by timestamp, leaving the
// caller's slice untouched.
func sortedCopy(track []model.Position) []model.Position {
	out := make([]model.Position, len(track))
	copy(out, track)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j].Timestamp.Before(out[j-1].Timestamp); j-- {
			out[j], out[j-1] = out[j-1], out[j]
		}
	}
	return out
}

// DetectLoitering reports every interval where a vessel's speed stayed at
// or below LoiterMaxSpeedKn, within LoiterMaxRadiusNM of the interval's
// starting fix, for at least LoiterMinDuration.
func DetectLoitering(mmsi string, track []model.Position, th Thresholds) []model.Event {
	positions := sortedCopy(track)
	var events []model.Event

	i := 0
	for i < len(positions) {
		if positions[i].SpeedOverGroundKn > th.LoiterMaxSpeedKn {
			i++
			continue
		}
		start := i
		anchor := positions[start]
		j := i
		speedSum := positions[start].SpeedOverGroundKn
		count := 1
		for j+1 < len(positions) {
			next := positions[j+1]
			if next.SpeedOverGroundKn > th.LoiterMaxSpeedKn {
				break
			}
			if geo.HaversineNM(anchor.Latitude, anchor.Longitude, next.Latitude, next.Longitude) > th.LoiterMaxRadiusNM {
				break
			}
			j++
			speedSum += next.SpeedOverGroundKn
			count++
		}
		duration := positions[j].Timestamp.Sub(positions[start].Timestamp)
		if duration >= th.LoiterMinDuration {
			end := positions[j].Timestamp
			avgSpeed := speedSum / float64(count)
			inverseSpeedFactor := 1.0
			if th.LoiterMaxSpeedKn > 0 {
				inverseSpeedFactor = 1.0 - avgSpeed/th.LoiterMaxSpeedKn
			}
			confidence := duration.Hours()/th.LoiterMinDuration.Hours()*0.5 + inverseSpeedFactor
			if confidence > 1 {
				confidence = 1
			}
			events = append(events, model.Event{
				Type:       model.EventLoitering,
				MMSI:       mmsi,
				Latitude:   anchor.Latitude,
				Longitude:  anchor.Longitude,
				StartTime:  positions[start].Timestamp,
				EndTime:    &end,
				Confidence: confidence,
				Detail: map[string]interface{}{
					"duration_hours": duration.Hours(),
				},
			})
		}
		i = j + 1
	}
	return events
}

// DetectAISGaps reports every interval between consecutive fixes that
// exceeds AISGapMinDuration — a vessel going electronically dark — with
// a severity that escalates with the gap's length.
func DetectAISGaps(mmsi string, track []model.Position, th Thresholds) []model.Event {
	positions := sortedCopy(track)
	var events []model.Event

	for i := 1; i < len(positions); i++ {
		gap := positions[i].Timestamp.Sub(positions[i-1].Timestamp)
		if gap < th.AISGapMinDuration {
			continue
		}
		end := positions[i].Timestamp
		events = append(events, model.Event{
			Type:      model.EventAISGap,
			MMSI:      mmsi,
			Latitude:  positions[i-1].Latitude,
			Longitude: positions[i-1].Longitude,
			StartTime: positions[i-1].Timestamp,
			EndTime:   &end,
			Severity:  gapSeverity(gap),
			Detail: map[string]interface{}{
				"gap_hours":    gap.Hours(),
				"reappear_lat": positions[i].Latitude,
				"reappear_lon": positions[i].Longitude,
			},
		})
	}
	return events
}

func gapSeverity(gap time.Duration) model.EventSeverity {
	switch {
	case gap <= 12*time.Hour:
		return model.EventSeverityLow
	case gap <= 48*time.Hour:
		return model.EventSeverityMedium
	default:
		return model.EventSeverityHigh
	}
}

// DetectImpossibleSpeed reports every fix-to-fix transition whose implied
// speed (great-circle distance over elapsed time) exceeds what any
// vessel could plausibly achieve, provided the absolute distance covered
// is itself large enough to rule out GPS jitter. This is distinct from a
// reported-SOG anomaly, which is a separate (and separately untrustworthy)
// signal the vessel is self-reporting.
func DetectImpossibleSpeed(mmsi string, track []model.Position, th Thresholds) []model.Event {
	positions := sortedCopy(track)
	var events []model.Event

	for i := 1; i < len(positions); i++ {
		prev, cur := positions[i-1], positions[i]
		elapsedHours := cur.Timestamp.Sub(prev.Timestamp).Hours()
		if elapsedHours <= 0 {
			continue
		}
		distKm := geo.HaversineKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		impliedKn := geo.KmToNauticalMiles(distKm) / elapsedHours

		if impliedKn > th.ImpossibleSpeedKn && distKm > th.AnomalyMinDistanceKm {
			events = append(events, model.Event{
				Type:      model.EventImpossibleSpeed,
				MMSI:      mmsi,
				Latitude:  cur.Latitude,
				Longitude: cur.Longitude,
				StartTime: cur.Timestamp,
				Detail: map[string]interface{}{
					"implied_speed_kn": impliedKn,
					"distance_km":      distKm,
				},
			})
		}
	}
	return events
}

// DetectSpoofing flags a single fix-to-fix transition whose observed
// distance exceeds what the vessel's own reported speed, given a 50%
// margin, could cover in the elapsed time — and which exceeds 50km in
// absolute terms, ruling out ordinary reporting jitter. Unlike
// DetectImpossibleSpeed, this compares against the vessel's own claimed
// speed rather than a universal ceiling: a report that contradicts its
// own stated motion is the signature of a GPS spoofer overwriting
// position without updating speed to match.
func DetectSpoofing(mmsi string, track []model.Position, th Thresholds) []model.Event {
	positions := sortedCopy(track)
	var events []model.Event

	for i := 1; i < len(positions); i++ {
		prev, cur := positions[i-1], positions[i]
		elapsedHours := cur.Timestamp.Sub(prev.Timestamp).Hours()
		if elapsedHours <= 0 {
			continue
		}
		distKm := geo.HaversineKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		maxDistKm := cur.SpeedOverGroundKn * 1.852 * elapsedHours * th.SpoofingSpeedMargin

		if distKm > maxDistKm && distKm > th.AnomalyMinDistanceKm {
			events = append(events, model.Event{
				Type:      model.EventSpoofing,
				MMSI:      mmsi,
				Latitude:  cur.Latitude,
				Longitude: cur.Longitude,
				StartTime: cur.Timestamp,
				Detail: map[string]interface{}{
					"reported_speed_kn": cur.SpeedOverGroundKn,
					"distance_km":       distKm,
					"max_expected_km":   maxDistKm,
				},
			})
		}
	}
	return events
}

// DetectEncounter reports ship-to-ship proximity intervals between two
// vessels' tracks: both vessels slow, within STSMaxDistanceNM of each
// other. A sustained window of at least STSMinDuration is reported as an
// EventSTSTransfer (cargo is plausibly changing hands); a shorter window
// of at least EncounterMinDuration is reported as the lighter-weight
// EventEncounter. Tracks need not share a timestamp grid; each fix in a
// is matched to the nearest-in-time fix in b within one minute.
func DetectEncounter(mmsiA string, trackA []model.Position, mmsiB string, trackB []model.Position, th Thresholds) []model.Event {
	a := sortedCopy(trackA)
	b := sortedCopy(trackB)
	var events []model.Event

	type pair struct {
		ta, tb model.Position
	}
	var matched []pair
	bi := 0
	for _, pa := range a {
		for bi+1 < len(b) && b[bi+1].Timestamp.Before(pa.Timestamp) {
			bi++
		}
		candidate := b[bi]
		if bi+1 < len(b) {
			if abs(b[bi+1].Timestamp.Sub(pa.Timestamp)) < abs(candidate.Timestamp.Sub(pa.Timestamp)) {
				candidate = b[bi+1]
			}
		}
		if abs(candidate.Timestamp.Sub(pa.Timestamp)) > time.Minute {
			continue
		}
		matched = append(matched, pair{pa, candidate})
	}

	i := 0
	for i < len(matched) {
		if !inEncounter(matched[i].ta, matched[i].tb, th) {
			i++
			continue
		}
		start := i
		j := i
		for j+1 < len(matched) && inEncounter(matched[j+1].ta, matched[j+1].tb, th) {
			j++
		}
		duration := matched[j].ta.Timestamp.Sub(matched[start].ta.Timestamp)
		eventType, ok := encounterEventType(duration, th)
		if ok {
			end := matched[j].ta.Timestamp
			events = append(events, model.Event{
				Type:      eventType,
				MMSI:      mmsiA,
				OtherMMSI: mmsiB,
				Latitude:  matched[start].ta.Latitude,
				Longitude: matched[start].ta.Longitude,
				StartTime: matched[start].ta.Timestamp,
				EndTime:   &end,
				Detail: map[string]interface{}{
					"duration_minutes": duration.Minutes(),
				},
			})
		}
		i = j + 1
	}
	return events
}

func encounterEventType(duration time.Duration, th Thresholds) (model.EventType, bool) {
	switch {
	case duration >= th.STSMinDuration:
		return model.EventSTSTransfer, true
	case duration >= th.EncounterMinDuration:
		return model.EventEncounter, true
	default:
		return "", false
	}
}

func inEncounter(a, b model.Position, th Thresholds) bool {
	if a.SpeedOverGroundKn > th.STSMaxSpeedKn || b.SpeedOverGroundKn > th.STSMaxSpeedKn {
		return false
	}
	dist := geo.HaversineNM(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
	return dist <= th.STSMaxDistanceNM
}

func abs(d time.Duration) time.Duration {
	if d < 0 {
		return -d
	}
	return d
}
