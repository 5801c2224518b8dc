package sources

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/obslog"
)

var log = obslog.New("sources")

// FreshnessWindow is how long a deduplicated position stays "current" for
// Manager.LastKnown before being considered stale. Configured
// independently from any adapter-level cache TTL — see DESIGN.md.
const FreshnessWindow = 300 * time.Second

type seenPosition struct {
	pos          model.Position
	fromPriority int
}

// Manager fuses one or more Adapters into a single deduplicated position
// stream, keyed by MMSI, resolving cross-source conflicts by most-recent
// timestamp and, on a tie, adapter priority (lower value wins).
type Manager struct {
	adapters []Adapter

	mu      sync.Mutex
	last    map[string]seenPosition
	onEvent func(model.Position)
}

// NewManager constructs a Manager over the given adapters. Adapters are
// consulted in ascending Priority() order when a timestamp tie must be
// broken.
func NewManager(adapters ...Adapter) *Manager {
	sorted := make([]Adapter, len(adapters))
	copy(sorted, adapters)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Priority() < sorted[j].Priority() })
	return &Manager{
		adapters: sorted,
		last:     make(map[string]seenPosition),
	}
}

// OnPosition registers a callback invoked for every position that survives
// deduplication, in manager-assigned order.
func (m *Manager) OnPosition(fn func(model.Position)) {
	m.onEvent = fn
}

// ingest applies the dedup policy and, if the position is newer (or wins a
// priority tie-break), updates Manager's view and fires onEvent.
func (m *Manager) ingest(pos model.Position, priority int) {
	if !pos.IsValid() {
		return
	}
	m.mu.Lock()
	prev, ok := m.last[pos.MMSI]
	accept := !ok
	if ok {
		switch {
		case pos.Timestamp.After(prev.pos.Timestamp):
			accept = true
		case pos.Timestamp.Equal(prev.pos.Timestamp) && priority < prev.fromPriority:
			accept = true
		}
	}
	if accept {
		m.last[pos.MMSI] = seenPosition{pos: pos, fromPriority: priority}
	}
	m.mu.Unlock()

	if accept && m.onEvent != nil {
		m.onEvent(pos)
	}
}

// LastKnown returns the most recently accepted position for mmsi and
// whether it falls within FreshnessWindow of now.
func (m *Manager) LastKnown(mmsi string) (model.Position, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sp, ok := m.last[mmsi]
	if !ok {
		return model.Position{}, false
	}
	fresh := time.Since(sp.pos.Timestamp) <= FreshnessWindow
	return sp.pos, fresh
}

// All returns every currently tracked position, regardless of freshness.
func (m *Manager) All() []model.Position {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]model.Position, 0, len(m.last))
	for _, sp := range m.last {
		out = append(out, sp.pos)
	}
	return out
}

// Run connects every adapter and subscribes to it, running until ctx is
// cancelled. Adapters that don't support Subscribe fall back to polling
// FetchPositions every interval.
func (m *Manager) Run(ctx context.Context, pollFallback time.Duration) {
	var wg sync.WaitGroup
	for _, a := range m.adapters {
		a := a
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.runAdapter(ctx, a, pollFallback)
		}()
	}
	wg.Wait()
}

func (m *Manager) runAdapter(ctx context.Context, a Adapter, pollFallback time.Duration) {
	if err := a.Connect(ctx); err != nil {
		log.Warn("%s: initial connect failed: %v", a.Name(), err)
	}

	err := a.Subscribe(ctx, func(p model.Position) {
		m.ingest(p, a.Priority())
	})
	if err == nil || ctx.Err() != nil {
		return
	}

	log.Warn("%s: subscribe unsupported or failed (%v), falling back to polling", a.Name(), err)
	ticker := time.NewTicker(pollFallback)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			positions, err := a.FetchPositions(ctx)
			if err != nil {
				log.Warn("%s: poll fallback fetch failed: %v", a.Name(), err)
				continue
			}
			for _, p := range positions {
				m.ingest(p, a.Priority())
			}
		}
	}
}
