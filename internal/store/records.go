package store

import "time"

// PositionRecord is the persisted form of model.Position.
type PositionRecord struct {
	ID                 uint   `gorm:"primaryKey"`
	MMSI               string `gorm:"index:idx_position_mmsi_ts"`
	Latitude           float64
	Longitude          float64
	SpeedOverGroundKn  float64
	CourseOverGround   float64
	Heading            *float64
	NavStatus          string
	Timestamp          time.Time `gorm:"index:idx_position_mmsi_ts"`
	TimestampRecovered bool
	Source             string
}

// VesselRecord is the persisted, upsertable form of model.VesselInfo.
type VesselRecord struct {
	MMSI        string `gorm:"primaryKey"`
	IMO         string `gorm:"index"`
	Name        string
	CallSign    string
	ShipType    int
	FlagState   string
	LengthM     float64
	BeamM       float64
	Draught     float64
	Destination string
	ETA         *time.Time
	YearBuilt   int
	Owner       string
	UpdatedAt   time.Time
}

// EventRecord is the persisted form of model.Event.
type EventRecord struct {
	ID        string `gorm:"primaryKey"`
	Type      string `gorm:"index"`
	MMSI      string `gorm:"index"`
	OtherMMSI string
	Latitude  float64
	Longitude float64
	StartTime time.Time `gorm:"index"`
	EndTime   *time.Time
	DetailJSON string
}

// AlertRecord is the persisted form of model.Alert.
type AlertRecord struct {
	ID        string `gorm:"primaryKey"`
	Rule      string `gorm:"index"`
	Severity  string
	MMSI      string `gorm:"index"`
	Message   string
	CreatedAt time.Time `gorm:"index"`
}

// SARDetectionRecord is the persisted form of model.SARDetection.
type SARDetectionRecord struct {
	ID          string `gorm:"primaryKey"`
	Latitude    float64
	Longitude   float64
	Timestamp   time.Time `gorm:"index"`
	LengthM     float64
	BatchID     string `gorm:"index"`
	MatchedMMSI string `gorm:"index"`
}

// SanctionRecord is the persisted form of model.SanctionedVesselRecord.
type SanctionRecord struct {
	IMO            string `gorm:"primaryKey"`
	MMSI           string `gorm:"index"`
	Name           string
	NormalizedName string `gorm:"index"`
	AuthoritiesCSV string
	ListedAt       time.Time
}
