package zone

import (
	"sync"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Tracker remembers which zones each vessel was last seen in, so
// successive position fixes can be turned into zone-entry/zone-exit
// events rather than a static membership list.
type Tracker struct {
	index *Index

	mu      sync.Mutex
	current map[string]map[string]bool // mmsi -> zone name -> present
}

func NewTracker(index *Index) *Tracker {
	return &Tracker{index: index, current: make(map[string]map[string]bool)}
}

// Update checks p against the zone index and returns the entry/exit
// events implied by the change since the vessel's last known zone
// membership.
func (t *Tracker) Update(p model.Position) []model.Event {
	matched := t.index.MatchingZones(p.Latitude, p.Longitude)
	matchedSet := make(map[string]bool, len(matched))
	for _, name := range matched {
		matchedSet[name] = true
	}

	t.mu.Lock()
	prev, ok := t.current[p.MMSI]
	t.current[p.MMSI] = matchedSet
	t.mu.Unlock()

	var events []model.Event
	if !ok {
		prev = map[string]bool{}
	}
	for name := range matchedSet {
		if !prev[name] {
			events = append(events, zoneEvent(model.EventZoneEntry, p, name))
		}
	}
	for name := range prev {
		if !matchedSet[name] {
			events = append(events, zoneEvent(model.EventZoneExit, p, name))
		}
	}
	return events
}

func zoneEvent(t model.EventType, p model.Position, zoneName string) model.Event {
	return model.Event{
		Type:      t,
		MMSI:      p.MMSI,
		Latitude:  p.Latitude,
		Longitude: p.Longitude,
		StartTime: p.Timestamp,
		Detail:    map[string]interface{}{"zone": zoneName},
	}
}
