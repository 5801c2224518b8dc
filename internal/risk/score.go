// Package risk implements the confidence and dark-fleet risk scorers: the
// direct translation of the reference confidence-scoring formulas into
// Go, operating on a vessel's position track and its derived behavior
// events rather than a database cursor.
package risk

import (
	"time"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Weight constants for the overall confidence composite.
const (
	WeightAISConsistency     = 0.35
	WeightBehavioralNormalcy = 0.35
	WeightSARCorroboration   = 0.30
)

// Thresholds the formulas below are pinned to.
const (
	aisGapThresholdHours      = 6.0
	speedChangeThresholdKn    = 15.0
	courseChangeThresholdDeg  = 90.0
	anomalySpeedMarginFactor  = 1.5
	anomalyMinDistanceKm      = 50.0
	loiterSpeedKn             = 2.0
)

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func clamp100(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}

// AISConsistency scores [0,1] how cleanly a track reports, following the
// reference ais_consistency formula: start at 1.0, -0.1 per silence gap
// over 6h (capped at -0.4), -0.15 per fix whose implied travel distance
// exceeds what its prior reported speed could plausibly cover (capped at
// -0.3). A track with fewer than two positions can't be evaluated and
// returns the neutral 0.5.
func AISConsistency(track []model.Position) float64 {
	if len(track) < 2 {
		return 0.5
	}

	gapCount := 0
	anomalyCount := 0
	for i := 1; i < len(track); i++ {
		prev, cur := track[i-1], track[i]
		gapHours := cur.Timestamp.Sub(prev.Timestamp).Hours()
		if gapHours > aisGapThresholdHours {
			gapCount++
		}

		distKm := geo.HaversineKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		maxDistKm := prev.SpeedOverGroundKn * 1.852 * gapHours * anomalySpeedMarginFactor
		if distKm > maxDistKm && distKm > anomalyMinDistanceKm {
			anomalyCount++
		}
	}

	gapPenalty := minFloat(0.4, float64(gapCount)*0.1)
	anomalyPenalty := minFloat(0.3, float64(anomalyCount)*0.15)
	return clamp01(1.0 - gapPenalty - anomalyPenalty)
}

// PositionAnomalyCount reports how many fix-to-fix transitions in track
// exceed the distance their prior reported speed could plausibly cover —
// the same test AISConsistency penalizes, exposed separately because
// DeceptionLikelihood keys off its presence rather than its magnitude.
func PositionAnomalyCount(track []model.Position) int {
	count := 0
	for i := 1; i < len(track); i++ {
		prev, cur := track[i-1], track[i]
		gapHours := cur.Timestamp.Sub(prev.Timestamp).Hours()
		distKm := geo.HaversineKm(prev.Latitude, prev.Longitude, cur.Latitude, cur.Longitude)
		maxDistKm := prev.SpeedOverGroundKn * 1.852 * gapHours * anomalySpeedMarginFactor
		if distKm > maxDistKm && distKm > anomalyMinDistanceKm {
			count++
		}
	}
	return count
}

// BehavioralNormalcy scores [0,1] how ordinary a vessel's own reported
// motion looks, following the reference behavioral_normalcy formula:
// start at 1.0, -0.1 per speed change over 15kn (capped at -0.3), -0.1 per
// course change over 90 degrees (capped at -0.3), -0.2 if more than half
// of the sampled speeds sit under 2kn (an unreported loiter pattern). A
// track with fewer than three positions can't be evaluated and returns
// the neutral 0.5.
func BehavioralNormalcy(track []model.Position) float64 {
	if len(track) < 3 {
		return 0.5
	}

	speedChangeCount := 0
	courseChangeCount := 0
	lowSpeedCount := 0
	for i := 1; i < len(track); i++ {
		prev, cur := track[i-1], track[i]
		if absFloat(cur.SpeedOverGroundKn-prev.SpeedOverGroundKn) > speedChangeThresholdKn {
			speedChangeCount++
		}
		if normalizedCourseDelta(prev.CourseOverGround, cur.CourseOverGround) > courseChangeThresholdDeg {
			courseChangeCount++
		}
		if cur.SpeedOverGroundKn < loiterSpeedKn {
			lowSpeedCount++
		}
	}

	speedPenalty := minFloat(0.3, float64(speedChangeCount)*0.1)
	coursePenalty := minFloat(0.3, float64(courseChangeCount)*0.1)
	loiterPenalty := 0.0
	if float64(lowSpeedCount)/float64(len(track)-1) > 0.5 {
		loiterPenalty = 0.2
	}
	return clamp01(1.0 - speedPenalty - coursePenalty - loiterPenalty)
}

func normalizedCourseDelta(prev, cur float64) float64 {
	delta := absFloat(cur - prev)
	if delta > 180 {
		delta = 360 - delta
	}
	return delta
}

// SARCorroboration scores [0,1] how well independent SAR radar passes
// back up a vessel's claimed AIS presence, following the reference
// calculate_sar_corroboration branches in order: no SAR feed wired into
// this deployment at all, or no SAR detections anywhere in the search
// window, is neutral (0.5); a detection matched to this vessel raises the
// score with each match (capped at 1.0); SAR coverage of the area with no
// match to this vessel is neutral (0.5, present but unconfirmed); no AIS
// positions at all to compare against is the most damning case (0.3).
func SARCorroboration(sarDataExists bool, matched, totalInRegion, aisPositionCount int) float64 {
	if !sarDataExists {
		return 0.5
	}
	if totalInRegion == 0 {
		return 0.5
	}
	if matched > 0 {
		return clamp01(minFloat(1.0, 0.6+0.1*float64(matched)))
	}
	if aisPositionCount > 0 {
		return 0.5
	}
	return 0.3
}

// OverallConfidence is the canonical weighted combination of the three
// factor scores above.
func OverallConfidence(aisConsistency, behavioralNormalcy, sarCorroboration float64) float64 {
	score := aisConsistency*WeightAISConsistency +
		behavioralNormalcy*WeightBehavioralNormalcy +
		sarCorroboration*WeightSARCorroboration
	return clamp01(score)
}

// ConfidenceLevelFor buckets an overall confidence score into its
// four-way label.
func ConfidenceLevelFor(overall float64) model.ConfidenceLevel {
	switch {
	case overall >= 0.8:
		return model.ConfidenceHigh
	case overall >= 0.6:
		return model.ConfidenceMedium
	case overall >= 0.4:
		return model.ConfidenceLow
	default:
		return model.ConfidenceVeryLow
	}
}

// DeceptionFactors bundles the inputs to DeceptionLikelihood.
type DeceptionFactors struct {
	AISConsistency     float64
	HasPositionAnomaly bool
	BehavioralNormalcy float64
	SARContradicts     bool
}

// DeceptionLikelihood returns [0,1]: the likelihood a vessel is
// deliberately obscuring its identity or position, following the
// reference calculate_deception_likelihood formula: +0.3 if AIS
// consistency is poor, +0.3 if any position-anomaly fix was observed,
// +0.2 if behavioral normalcy is poor, +0.2 if SAR coverage contradicts
// the vessel's claimed presence.
func DeceptionLikelihood(f DeceptionFactors) float64 {
	score := 0.0
	if f.AISConsistency < 0.5 {
		score += 0.3
	}
	if f.HasPositionAnomaly {
		score += 0.3
	}
	if f.BehavioralNormalcy < 0.5 {
		score += 0.2
	}
	if f.SARContradicts {
		score += 0.2
	}
	return clamp01(score)
}

// DarkFleetFactors bundles the nine categorical inputs to DarkFleetRisk.
type DarkFleetFactors struct {
	IsShadowFleetFlag   bool
	IsFlagOfConvenience bool
	VesselAgeYears      int
	OwnerUnknown        bool
	AISGapCount         int
	SpoofingCount       int
	LoiteringCount      int
	STSCount            int
	IsTanker            bool
}

// VesselAge computes a vessel's age in years from its build year, for
// populating DarkFleetFactors.VesselAgeYears. A zero or unknown yearBuilt
// yields age 0, which never trips the age-based factor.
func VesselAge(yearBuilt int, now time.Time) int {
	if yearBuilt <= 0 {
		return 0
	}
	age := now.Year() - yearBuilt
	if age < 0 {
		return 0
	}
	return age
}

// DarkFleetRisk returns the additive [0,100] dark-fleet risk score plus
// the ordered list of factors that contributed to it, following spec's
// nine fixed-weight categorical flags: shadow-fleet flag (+25), flag of
// convenience (+15), vessel age 25 years or older (+20), undisclosed
// owner (+15), three or more AIS gaps (+20), any spoofing event (+15),
// any loitering event (+10), any ship-to-ship transfer (+15), tanker hull
// type (+5).
func DarkFleetRisk(f DarkFleetFactors) (float64, []model.RiskFactor) {
	var factors []model.RiskFactor
	score := 0.0
	add := func(name string, weight float64) {
		score += weight
		factors = append(factors, model.RiskFactor{Name: name, Weight: weight})
	}

	if f.IsShadowFleetFlag {
		add("shadow_fleet_flag", 25)
	}
	if f.IsFlagOfConvenience {
		add("flag_of_convenience", 15)
	}
	if f.VesselAgeYears >= 25 {
		add("vessel_age_25y_plus", 20)
	}
	if f.OwnerUnknown {
		add("unknown_owner", 15)
	}
	if f.AISGapCount >= 3 {
		add("ais_gaps_3_plus", 20)
	}
	if f.SpoofingCount > 0 {
		add("spoofing_events", 15)
	}
	if f.LoiteringCount > 0 {
		add("loitering_events", 10)
	}
	if f.STSCount > 0 {
		add("sts_events", 15)
	}
	if f.IsTanker {
		add("tanker_type", 5)
	}

	return clamp100(score), factors
}

// DarkFleetRiskLevelFor buckets a dark-fleet risk score into its five-way
// severity label.
func DarkFleetRiskLevelFor(score float64) model.DarkFleetRiskLevel {
	switch {
	case score < 15:
		return model.DarkFleetRiskMinimal
	case score < 30:
		return model.DarkFleetRiskLow
	case score < 50:
		return model.DarkFleetRiskMedium
	case score < 70:
		return model.DarkFleetRiskHigh
	default:
		return model.DarkFleetRiskCritical
	}
}

func minFloat(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

func absFloat(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
