package model

import "time"

// SARDetection is a single synthetic-aperture-radar vessel detection,
// independent of any AIS report, pending correlation against the track
// store.
type SARDetection struct {
	ID         string    `json:"id"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	Timestamp  time.Time `json:"timestamp"`
	LengthM    float64   `json:"length_m,omitempty"`
	BatchID    string    `json:"batch_id"`
	MatchedMMSI string   `json:"matched_mmsi,omitempty"`
}

// SanctionedVesselRecord is a single watchlist entry keyed by IMO and/or
// MMSI, with a normalized name for fuzzy lookup.
type SanctionedVesselRecord struct {
	IMO            string   `json:"imo,omitempty"`
	MMSI           string   `json:"mmsi,omitempty"`
	Name           string   `json:"name"`
	NormalizedName string   `json:"normalized_name"`
	Authorities    []string `json:"authorities"`
	ListedAt       time.Time `json:"listed_at"`
}

// ConfidenceLevel buckets ConfidenceScore.OverallConfidence into the
// four-way triage label analysts actually read.
type ConfidenceLevel string

const (
	ConfidenceHigh    ConfidenceLevel = "high"
	ConfidenceMedium  ConfidenceLevel = "medium"
	ConfidenceLow     ConfidenceLevel = "low"
	ConfidenceVeryLow ConfidenceLevel = "very_low"
)

// DarkFleetRiskLevel buckets ConfidenceScore.DarkFleetRisk (0-100) into the
// five-way severity label the UI renders.
type DarkFleetRiskLevel string

const (
	DarkFleetRiskMinimal  DarkFleetRiskLevel = "minimal"
	DarkFleetRiskLow      DarkFleetRiskLevel = "low"
	DarkFleetRiskMedium   DarkFleetRiskLevel = "medium"
	DarkFleetRiskHigh     DarkFleetRiskLevel = "high"
	DarkFleetRiskCritical DarkFleetRiskLevel = "critical"
)

// RiskFactor is one named, weighted contributor to a dark-fleet risk
// score, returned in a fixed derivation order so a caller can render why a
// score came out the way it did rather than just the bottom line.
type RiskFactor struct {
	Name   string  `json:"name"`
	Weight float64 `json:"weight"`
}

// ConfidenceScore bundles the individual weighted-factor scores the risk
// module computes for a single vessel, plus their combination.
type ConfidenceScore struct {
	MMSI                string              `json:"mmsi"`
	AISConsistency      float64             `json:"ais_consistency"`
	BehavioralNormalcy  float64             `json:"behavioral_normalcy"`
	SARCorroboration    float64             `json:"sar_corroboration"`
	OverallConfidence   float64             `json:"overall_confidence"`
	Level               ConfidenceLevel     `json:"level"`
	DeceptionLikelihood float64             `json:"deception_likelihood"`
	DarkFleetRisk       float64             `json:"dark_fleet_risk"`
	DarkFleetRiskLevel  DarkFleetRiskLevel  `json:"dark_fleet_risk_level"`
	DarkFleetFactors    []RiskFactor        `json:"dark_fleet_factors,omitempty"`
	ComputedAt          time.Time           `json:"computed_at"`
}

// AssessmentLevel is the coarse triage bucket an Assessment is filed under.
type AssessmentLevel string

const (
	AssessmentLevelNone     AssessmentLevel = "none"
	AssessmentLevelLow      AssessmentLevel = "low"
	AssessmentLevelElevated AssessmentLevel = "elevated"
	AssessmentLevelHigh     AssessmentLevel = "high"
	AssessmentLevelCritical AssessmentLevel = "critical"
)

// Assessment is the fused, end-to-end intelligence product for a single
// vessel: behavior indicators, confidence scoring, sanctions/zone hits, and
// the resulting triage level.
type Assessment struct {
	MMSI            string          `json:"mmsi"`
	Level           AssessmentLevel `json:"level"`
	Indicators      []string        `json:"indicators"`
	Score           ConfidenceScore `json:"score"`
	Sanctioned      bool            `json:"sanctioned"`
	SanctionRecord  *SanctionedVesselRecord `json:"sanction_record,omitempty"`
	ZoneNames       []string        `json:"zone_names,omitempty"`
	RequiresReview  bool            `json:"requires_review"`
	GeneratedAt     time.Time       `json:"generated_at"`
}

// AlertSeverity ranks an Alert's urgency.
type AlertSeverity string

const (
	AlertSeverityInfo     AlertSeverity = "info"
	AlertSeverityWarning  AlertSeverity = "warning"
	AlertSeverityCritical AlertSeverity = "critical"
)

// Alert is a rule-triggered, deliverable notification.
type Alert struct {
	ID        string        `json:"id"`
	Rule      string        `json:"rule"`
	Severity  AlertSeverity `json:"severity"`
	MMSI      string        `json:"mmsi"`
	Message   string        `json:"message"`
	CreatedAt time.Time     `json:"created_at"`
}
