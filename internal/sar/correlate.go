package sar

import (
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
)

// CorrelationThresholds bound how far apart in time and space an AIS fix
// and a SAR detection can be while still being considered the same
// vessel.
type CorrelationThresholds struct {
	MaxTimeDelta time.Duration
	MaxRangeNM   float64
}

// DefaultCorrelationThresholds mirror a 30-minute, 2-nautical-mile
// matching window, typical for coastal SAR revisit intervals.
var DefaultCorrelationThresholds = CorrelationThresholds{
	MaxTimeDelta: 30 * time.Minute,
	MaxRangeNM:   2.0,
}

// TrackLookup resolves candidate AIS positions near a SAR detection's
// time and place; the correlator is store-agnostic and asks its caller
// for candidates rather than querying persistence itself.
type TrackLookup func(d model.SARDetection) []model.Position

// Correlate matches each SAR detection against AIS candidates returned by
// lookup, picking the closest-match-wins candidate within thresholds. A
// detection with no surviving candidate is emitted as a dark-vessel event.
func Correlate(detections []model.SARDetection, lookup TrackLookup, th CorrelationThresholds) ([]model.SARDetection, []model.Event) {
	matched := make([]model.SARDetection, len(detections))
	var darkEvents []model.Event

	for i, d := range detections {
		matched[i] = d
		candidates := lookup(d)

		var best model.Position
		bestRangeNM := -1.0
		for _, c := range candidates {
			delta := c.Timestamp.Sub(d.Timestamp)
			if delta < 0 {
				delta = -delta
			}
			if delta > th.MaxTimeDelta {
				continue
			}
			rangeNM := geo.HaversineNM(d.Latitude, d.Longitude, c.Latitude, c.Longitude)
			if rangeNM > th.MaxRangeNM {
				continue
			}
			if bestRangeNM < 0 || rangeNM < bestRangeNM {
				best = c
				bestRangeNM = rangeNM
			}
		}

		if bestRangeNM >= 0 {
			matched[i].MatchedMMSI = best.MMSI
			continue
		}

		darkEvents = append(darkEvents, model.Event{
			ID:        uuid.NewString(),
			Type:      model.EventDarkVessel,
			Latitude:  d.Latitude,
			Longitude: d.Longitude,
			StartTime: d.Timestamp,
			Detail: map[string]interface{}{
				"sar_detection_id": d.ID,
				"batch_id":         d.BatchID,
			},
		})
	}

	return matched, darkEvents
}

// BatchProgress tracks an in-flight backfill's advancement for status
// reporting to the sar-import CLI subcommand.
type BatchProgress struct {
	totalDetections atomic.Int64
	totalMatched    atomic.Int64
	totalDark       atomic.Int64
	isRunning       atomic.Bool
}

// Snapshot is an immutable point-in-time read of BatchProgress.
type Snapshot struct {
	IsRunning       bool  `json:"is_running"`
	TotalDetections int64 `json:"total_detections"`
	TotalMatched    int64 `json:"total_matched"`
	TotalDark       int64 `json:"total_dark"`
}

func (p *BatchProgress) Start() { p.isRunning.Store(true) }
func (p *BatchProgress) Finish() { p.isRunning.Store(false) }

func (p *BatchProgress) RecordBatch(detections []model.SARDetection, dark []model.Event) {
	p.totalDetections.Add(int64(len(detections)))
	p.totalDark.Add(int64(len(dark)))
	matched := int64(0)
	for _, d := range detections {
		if d.MatchedMMSI != "" {
			matched++
		}
	}
	p.totalMatched.Add(matched)
}

func (p *BatchProgress) Snapshot() Snapshot {
	return Snapshot{
		IsRunning:       p.isRunning.Load(),
		TotalDetections: p.totalDetections.Load(),
		TotalMatched:    p.totalMatched.Load(),
		TotalDark:       p.totalDark.Load(),
	}
}
