// Package model defines the normalized, source-agnostic record types every
// component in this pipeline passes between itself and its neighbors.
package model

import "time"

// ShipTypeText maps an ITU-R M.1371 ship-and-cargo-type code to its
// human-readable category. Ported from the reference AIS ingestion
// pipeline's SHIP_TYPE_MAP.
func ShipTypeText(code int) string {
	switch {
	case code == 0:
		return "Not available"
	case code >= 20 && code <= 29:
		return "Wing in ground"
	case code == 30:
		return "Fishing"
	case code == 31 || code == 32:
		return "Towing"
	case code == 33:
		return "Dredging"
	case code == 34:
		return "Diving"
	case code == 35:
		return "Military"
	case code == 36:
		return "Sailing"
	case code == 37:
		return "Pleasure craft"
	case code >= 40 && code <= 49:
		return "High speed craft"
	case code == 50:
		return "Pilot vessel"
	case code == 51:
		return "Search and rescue"
	case code == 52:
		return "Tug"
	case code == 53:
		return "Port tender"
	case code == 54:
		return "Anti-pollution"
	case code == 55:
		return "Law enforcement"
	case code == 58:
		return "Medical transport"
	case code >= 60 && code <= 69:
		return "Passenger"
	case code >= 70 && code <= 79:
		return "Cargo"
	case code >= 80 && code <= 89:
		return "Tanker"
	case code >= 90 && code <= 99:
		return "Other"
	default:
		return "Unknown"
	}
}

// Position is a single normalized AIS (or AIS-equivalent) position report.
type Position struct {
	MMSI              string    `json:"mmsi"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	SpeedOverGroundKn float64   `json:"sog_kn"`
	CourseOverGround  float64   `json:"cog"`
	Heading           *float64  `json:"heading,omitempty"`
	NavStatus         string    `json:"nav_status,omitempty"`
	Timestamp         time.Time `json:"timestamp"`
	TimestampRecovered bool     `json:"timestamp_recovered"`
	Source            string    `json:"source"`
}

// IsValid reports whether p carries a minimally sane position fix: a
// well-formed MMSI, in-range coordinates, and a non-null-island fix.
func (p Position) IsValid() bool {
	if len(p.MMSI) != 9 {
		return false
	}
	for _, c := range p.MMSI {
		if c < '0' || c > '9' {
			return false
		}
	}
	if p.Latitude < -90 || p.Latitude > 90 || p.Longitude < -180 || p.Longitude > 180 {
		return false
	}
	if p.Latitude == 0 && p.Longitude == 0 {
		return false
	}
	return true
}

// VesselInfo is slowly-changing vessel metadata, typically carried on a
// separate AIS message type (or a vessel-registry lookup) from Position.
type VesselInfo struct {
	MMSI       string `json:"mmsi"`
	IMO        string `json:"imo,omitempty"`
	Name       string `json:"name,omitempty"`
	CallSign   string `json:"call_sign,omitempty"`
	ShipType   int    `json:"ship_type"`
	FlagState  string `json:"flag_state,omitempty"`
	LengthM    float64 `json:"length_m,omitempty"`
	BeamM      float64 `json:"beam_m,omitempty"`
	Draught    float64 `json:"draught,omitempty"`
	Destination string `json:"destination,omitempty"`
	ETA        *time.Time `json:"eta,omitempty"`

	// YearBuilt and Owner are registry-sourced metadata with no AIS
	// equivalent — populated only by an enrichment adapter, zero-valued
	// (Owner == "") otherwise. An empty Owner is itself a dark-fleet risk
	// signal: a legitimately operated vessel has a disclosed beneficial
	// owner on file.
	YearBuilt int    `json:"year_built,omitempty"`
	Owner     string `json:"owner,omitempty"`
}

// EventType enumerates the kinds of discrete, point-in-time occurrences
// this system records against a vessel track.
type EventType string

const (
	EventEncounter        EventType = "encounter"
	EventSTSTransfer      EventType = "sts_transfer"
	EventLoitering        EventType = "loitering"
	EventAISGap           EventType = "ais_gap"
	EventSpoofing         EventType = "spoofing"
	EventImpossibleSpeed  EventType = "impossible_speed"
	EventDarkVessel       EventType = "dark_vessel"
	EventZoneEntry        EventType = "zone_entry"
	EventZoneExit         EventType = "zone_exit"
)

// EventSeverity ranks how urgently a derived event's duration or magnitude
// should be triaged — currently only populated for EventAISGap.
type EventSeverity string

const (
	EventSeverityLow    EventSeverity = "low"
	EventSeverityMedium EventSeverity = "medium"
	EventSeverityHigh   EventSeverity = "high"
)

// Event is a derived, discrete occurrence emitted by the behavior analyzer,
// the SAR correlator, or the zone index.
type Event struct {
	ID         string                 `json:"id"`
	Type       EventType              `json:"type"`
	MMSI       string                 `json:"mmsi"`
	OtherMMSI  string                 `json:"other_mmsi,omitempty"`
	Latitude   float64                `json:"latitude"`
	Longitude  float64                `json:"longitude"`
	StartTime  time.Time              `json:"start_time"`
	EndTime    *time.Time             `json:"end_time,omitempty"`
	Confidence float64                `json:"confidence,omitempty"`
	Severity   EventSeverity          `json:"severity,omitempty"`
	Detail     map[string]interface{} `json:"detail,omitempty"`
}
