package behavior

import (
	"time"

	"github.com/samber/lo"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Dedup drops positions that repeat the immediately preceding timestamp
// for the same vessel, keeping the first occurrence — guards detectors
// against double-counting a position ingested from two sources.
func Dedup(track []model.Position) []model.Position {
	positions := sortedCopy(track)
	out := make([]model.Position, 0, len(positions))
	var lastTS time.Time
	for i, p := range positions {
		if i > 0 && p.Timestamp.Equal(lastTS) {
			continue
		}
		out = append(out, p)
		lastTS = p.Timestamp
	}
	return out
}

// Downsample returns at most one position per interval bucket, keeping
// the first fix seen in each bucket. Used to cap the fix density passed
// into detectors/visualization for long-lived tracks.
func Downsample(track []model.Position, interval time.Duration) []model.Position {
	positions := sortedCopy(track)
	if len(positions) == 0 || interval <= 0 {
		return positions
	}
	out := []model.Position{positions[0]}
	lastKept := positions[0].Timestamp
	for _, p := range positions[1:] {
		if p.Timestamp.Sub(lastKept) >= interval {
			out = append(out, p)
			lastKept = p.Timestamp
		}
	}
	return out
}

// Segment splits track into contiguous runs separated by a gap of at
// least minGap — a coarser, detector-independent version of the AIS-gap
// boundary, useful for any caller that needs "distinct voyage legs"
// rather than a flagged event.
func Segment(track []model.Position, minGap time.Duration) [][]model.Position {
	positions := sortedCopy(track)
	if len(positions) == 0 {
		return nil
	}
	var segments [][]model.Position
	current := []model.Position{positions[0]}
	for _, p := range positions[1:] {
		if p.Timestamp.Sub(current[len(current)-1].Timestamp) >= minGap {
			segments = append(segments, current)
			current = []model.Position{p}
			continue
		}
		current = append(current, p)
	}
	segments = append(segments, current)
	return segments
}

// FilterByBox returns only the positions within box.
func FilterByBox(track []model.Position, contains func(lat, lon float64) bool) []model.Position {
	return lo.Filter(track, func(p model.Position, _ int) bool {
		return contains(p.Latitude, p.Longitude)
	})
}

// GroupByMMSI splits a mixed-vessel position slice into one track per
// MMSI, for callers (e.g. encounter detection) that pull a batch of
// positions from a bounding-box query spanning several vessels.
func GroupByMMSI(positions []model.Position) map[string][]model.Position {
	return lo.GroupBy(positions, func(p model.Position) string { return p.MMSI })
}
