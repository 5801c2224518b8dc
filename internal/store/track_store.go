package store

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

// TrackStore is the persistence boundary for positions, vessel metadata,
// derived events, alerts, and SAR detections.
type TrackStore struct {
	db *gorm.DB
}

// New wraps an already-migrated *gorm.DB.
func New(db *gorm.DB) *TrackStore {
	return &TrackStore{db: db}
}

// AppendPosition persists a single position report.
func (s *TrackStore) AppendPosition(p model.Position) error {
	rec := PositionRecord{
		MMSI:               p.MMSI,
		Latitude:           p.Latitude,
		Longitude:          p.Longitude,
		SpeedOverGroundKn:  p.SpeedOverGroundKn,
		CourseOverGround:   p.CourseOverGround,
		Heading:            p.Heading,
		NavStatus:          p.NavStatus,
		Timestamp:          p.Timestamp,
		TimestampRecovered: p.TimestampRecovered,
		Source:             p.Source,
	}
	return s.db.Create(&rec).Error
}

// History returns every position recorded for mmsi between since and
// until, ordered oldest first.
func (s *TrackStore) History(mmsi string, since, until time.Time) ([]model.Position, error) {
	var recs []PositionRecord
	err := s.db.Where("mmsi = ? AND timestamp BETWEEN ? AND ?", mmsi, since, until).
		Order("timestamp ASC").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toPositions(recs), nil
}

// LastPosition returns the most recent recorded position for mmsi.
func (s *TrackStore) LastPosition(mmsi string) (model.Position, bool, error) {
	var rec PositionRecord
	err := s.db.Where("mmsi = ?", mmsi).Order("timestamp DESC").First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return model.Position{}, false, nil
	}
	if err != nil {
		return model.Position{}, false, err
	}
	return toPosition(rec), true, nil
}

// AllPositionsInBox returns every position within the window [since, until]
// falling inside box, across all vessels.
func (s *TrackStore) AllPositionsInBox(box geo.BoundingBox, since, until time.Time) ([]model.Position, error) {
	var recs []PositionRecord
	err := s.db.Where(
		"timestamp BETWEEN ? AND ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
		since, until, box.LatMin, box.LatMax, box.LonMin, box.LonMax,
	).Order("timestamp ASC").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	return toPositions(recs), nil
}

// UpsertVessel inserts or updates slowly-changing vessel metadata.
func (s *TrackStore) UpsertVessel(v model.VesselInfo) error {
	rec := VesselRecord{
		MMSI:        v.MMSI,
		IMO:         v.IMO,
		Name:        v.Name,
		CallSign:    v.CallSign,
		ShipType:    v.ShipType,
		FlagState:   v.FlagState,
		LengthM:     v.LengthM,
		BeamM:       v.BeamM,
		Draught:     v.Draught,
		Destination: v.Destination,
		ETA:         v.ETA,
		YearBuilt:   v.YearBuilt,
		Owner:       v.Owner,
		UpdatedAt:   time.Now().UTC(),
	}
	return s.db.Save(&rec).Error
}

// Vessel returns the stored metadata for mmsi, if any.
func (s *TrackStore) Vessel(mmsi string) (model.VesselInfo, bool, error) {
	var rec VesselRecord
	err := s.db.Where("mmsi = ?", mmsi).First(&rec).Error
	if err == gorm.ErrRecordNotFound {
		return model.VesselInfo{}, false, nil
	}
	if err != nil {
		return model.VesselInfo{}, false, err
	}
	return model.VesselInfo{
		MMSI: rec.MMSI, IMO: rec.IMO, Name: rec.Name, CallSign: rec.CallSign,
		ShipType: rec.ShipType, FlagState: rec.FlagState, LengthM: rec.LengthM,
		BeamM: rec.BeamM, Draught: rec.Draught, Destination: rec.Destination, ETA: rec.ETA,
		YearBuilt: rec.YearBuilt, Owner: rec.Owner,
	}, true, nil
}

// AppendEvent persists a derived behavior/zone event, assigning an ID if
// the caller left one unset.
func (s *TrackStore) AppendEvent(e model.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	detailJSON := ""
	if len(e.Detail) > 0 {
		b, err := json.Marshal(e.Detail)
		if err != nil {
			return err
		}
		detailJSON = string(b)
	}
	rec := EventRecord{
		ID: e.ID, Type: string(e.Type), MMSI: e.MMSI, OtherMMSI: e.OtherMMSI,
		Latitude: e.Latitude, Longitude: e.Longitude, StartTime: e.StartTime,
		EndTime: e.EndTime, DetailJSON: detailJSON,
	}
	return s.db.Create(&rec).Error
}

// AppendAlert persists a triggered alert.
func (s *TrackStore) AppendAlert(a model.Alert) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	rec := AlertRecord{
		ID: a.ID, Rule: a.Rule, Severity: string(a.Severity), MMSI: a.MMSI,
		Message: a.Message, CreatedAt: a.CreatedAt,
	}
	return s.db.Create(&rec).Error
}

// AppendSAR persists a SAR detection, optionally already correlated to an
// MMSI.
func (s *TrackStore) AppendSAR(d model.SARDetection) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	rec := SARDetectionRecord{
		ID: d.ID, Latitude: d.Latitude, Longitude: d.Longitude, Timestamp: d.Timestamp,
		LengthM: d.LengthM, BatchID: d.BatchID, MatchedMMSI: d.MatchedMMSI,
	}
	return s.db.Create(&rec).Error
}

// SARDetectionsInBox returns every SAR detection within the window
// [since, until] falling inside box, matched or not — used to compute how
// often a vessel's claimed position was independently confirmed by radar.
func (s *TrackStore) SARDetectionsInBox(box geo.BoundingBox, since, until time.Time) ([]model.SARDetection, error) {
	var recs []SARDetectionRecord
	err := s.db.Where(
		"timestamp BETWEEN ? AND ? AND latitude BETWEEN ? AND ? AND longitude BETWEEN ? AND ?",
		since, until, box.LatMin, box.LatMax, box.LonMin, box.LonMax,
	).Order("timestamp ASC").Find(&recs).Error
	if err != nil {
		return nil, err
	}
	out := make([]model.SARDetection, 0, len(recs))
	for _, r := range recs {
		out = append(out, model.SARDetection{
			ID: r.ID, Latitude: r.Latitude, Longitude: r.Longitude, Timestamp: r.Timestamp,
			LengthM: r.LengthM, BatchID: r.BatchID, MatchedMMSI: r.MatchedMMSI,
		})
	}
	return out, nil
}

// HasSARData reports whether any SAR detection has ever been recorded in
// this store at all, as distinct from none falling near a given vessel's
// track — the former means no SAR feed is wired into this deployment, the
// latter is just an uncorroborated vessel.
func (s *TrackStore) HasSARData() (bool, error) {
	var count int64
	if err := s.db.Model(&SARDetectionRecord{}).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// UpsertSanction inserts or updates a watchlist entry.
func (s *TrackStore) UpsertSanction(r model.SanctionedVesselRecord) error {
	rec := SanctionRecord{
		IMO: r.IMO, MMSI: r.MMSI, Name: r.Name, NormalizedName: r.NormalizedName,
		AuthoritiesCSV: strings.Join(r.Authorities, ","), ListedAt: r.ListedAt,
	}
	return s.db.Save(&rec).Error
}

// AllSanctions returns every watchlist entry, for building the in-memory
// sanctions index at startup.
func (s *TrackStore) AllSanctions() ([]model.SanctionedVesselRecord, error) {
	var recs []SanctionRecord
	if err := s.db.Find(&recs).Error; err != nil {
		return nil, err
	}
	out := make([]model.SanctionedVesselRecord, 0, len(recs))
	for _, r := range recs {
		var authorities []string
		if r.AuthoritiesCSV != "" {
			authorities = strings.Split(r.AuthoritiesCSV, ",")
		}
		out = append(out, model.SanctionedVesselRecord{
			IMO: r.IMO, MMSI: r.MMSI, Name: r.Name, NormalizedName: r.NormalizedName,
			Authorities: authorities, ListedAt: r.ListedAt,
		})
	}
	return out, nil
}

func toPosition(r PositionRecord) model.Position {
	return model.Position{
		MMSI: r.MMSI, Latitude: r.Latitude, Longitude: r.Longitude,
		SpeedOverGroundKn: r.SpeedOverGroundKn, CourseOverGround: r.CourseOverGround,
		Heading: r.Heading, NavStatus: r.NavStatus, Timestamp: r.Timestamp,
		TimestampRecovered: r.TimestampRecovered, Source: r.Source,
	}
}

func toPositions(recs []PositionRecord) []model.Position {
	out := make([]model.Position, len(recs))
	for i, r := range recs {
		out[i] = toPosition(r)
	}
	return out
}
