// Package zone implements the geofence index: named areas of interest a
// vessel can enter or exit, expressed either as a point-plus-radius or as
// a buffered polyline (a shipping lane or strait centerline).
package zone

import (
	"sync"

	"github.com/rawblock/darkfleet-engine/internal/geo"
)

// Shape is implemented by both geofence kinds.
type Shape interface {
	Contains(lat, lon float64) bool
}

// CircleZone is a point-plus-radius geofence.
type CircleZone struct {
	CenterLat float64
	CenterLon float64
	RadiusNM  float64
}

func (c CircleZone) Contains(lat, lon float64) bool {
	return geo.HaversineNM(c.CenterLat, c.CenterLon, lat, lon) <= c.RadiusNM
}

// PolylineZone is a buffered polyline geofence — a shipping lane or
// strait centerline with a corridor width either side.
type PolylineZone struct {
	Points   [][2]float64 // [lat, lon] pairs, in order
	BufferNM float64
}

func (p PolylineZone) Contains(lat, lon float64) bool {
	if len(p.Points) < 2 {
		return false
	}
	for i := 0; i+1 < len(p.Points); i++ {
		a, b := p.Points[i], p.Points[i+1]
		distKm := geo.NearestPointOnSegment(lat, lon, a[0], a[1], b[0], b[1])
		if geo.KmToNauticalMiles(distKm) <= p.BufferNM {
			return true
		}
	}
	return false
}

// Zone is a named geofence of either shape.
type Zone struct {
	Name  string
	Shape Shape
}

// Index is a concurrent-safe registry of named zones, checked against
// every incoming position to emit zone-entry/zone-exit events.
type Index struct {
	mu    sync.RWMutex
	zones []Zone
}

// NewIndex builds a zone index from a fixed set of zones.
func NewIndex(zones ...Zone) *Index {
	idx := &Index{zones: append([]Zone(nil), zones...)}
	return idx
}

// Add registers an additional zone.
func (idx *Index) Add(z Zone) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.zones = append(idx.zones, z)
}

// MatchingZones returns the names of every zone containing (lat, lon).
func (idx *Index) MatchingZones(lat, lon float64) []string {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	var names []string
	for _, z := range idx.zones {
		if z.Shape.Contains(lat, lon) {
			names = append(names, z.Name)
		}
	}
	return names
}
