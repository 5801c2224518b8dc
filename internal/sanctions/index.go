// Package sanctions implements a concurrent-safe watchlist index over
// IMO, MMSI, and normalized vessel name, with fuzzy name matching as a
// fallback when no exact normalized-name match exists.
package sanctions

import (
	"strings"
	"sync"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

// namePrefixes are vessel-name prefixes stripped before comparison, so
// "MV SHADOW RUNNER" and "SHADOW RUNNER" match the same watchlist entry.
var namePrefixes = []string{"MV ", "M/V ", "MT ", "M/T ", "SS ", "HMS ", "USNS "}

// NormalizeName uppercases, strips a leading vessel-type prefix, and
// collapses internal whitespace, producing the key both ingestion and
// lookup use.
func NormalizeName(name string) string {
	upper := strings.ToUpper(strings.TrimSpace(name))
	for _, p := range namePrefixes {
		if strings.HasPrefix(upper, p) {
			upper = strings.TrimPrefix(upper, p)
			break
		}
	}
	fields := strings.Fields(upper)
	return strings.Join(fields, " ")
}

// Index is a concurrent-safe sanctions/watchlist lookup over IMO, MMSI,
// and normalized name. Reads (Check*) are the hot path and take the read
// lock; writes (Add/Remove) are comparatively rare.
type Index struct {
	mu         sync.RWMutex
	byIMO      map[string]model.SanctionedVesselRecord
	byMMSI     map[string]model.SanctionedVesselRecord
	byName     map[string]model.SanctionedVesselRecord
}

// NewIndex builds an index from a snapshot of watchlist records, typically
// loaded from the store at startup.
func NewIndex(records []model.SanctionedVesselRecord) *Index {
	idx := &Index{
		byIMO:  make(map[string]model.SanctionedVesselRecord),
		byMMSI: make(map[string]model.SanctionedVesselRecord),
		byName: make(map[string]model.SanctionedVesselRecord),
	}
	for _, r := range records {
		idx.add(r)
	}
	return idx
}

func (idx *Index) add(r model.SanctionedVesselRecord) {
	if r.IMO != "" {
		idx.byIMO[r.IMO] = r
	}
	if r.MMSI != "" {
		idx.byMMSI[r.MMSI] = r
	}
	norm := r.NormalizedName
	if norm == "" {
		norm = NormalizeName(r.Name)
	}
	if norm != "" {
		idx.byName[norm] = r
	}
}

// Add registers or replaces a watchlist entry.
func (idx *Index) Add(r model.SanctionedVesselRecord) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	idx.add(r)
}

// Remove deletes a watchlist entry by its IMO (the stable key).
func (idx *Index) Remove(imo string) {
	idx.mu.Lock()
	defer idx.mu.Unlock()
	if r, ok := idx.byIMO[imo]; ok {
		delete(idx.byIMO, imo)
		delete(idx.byMMSI, r.MMSI)
		norm := r.NormalizedName
		if norm == "" {
			norm = NormalizeName(r.Name)
		}
		delete(idx.byName, norm)
	}
}

// CheckIMO returns an exact match by IMO number.
func (idx *Index) CheckIMO(imo string) (model.SanctionedVesselRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	r, ok := idx.byIMO[imo]
	return r, ok
}

// CheckMMSI returns an exact match by MMSI.
func (idx *Index) CheckMMSI(mmsi string) (model.SanctionedVesselRecord, bool) {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	r, ok := idx.byMMSI[mmsi]
	return r, ok
}

// CheckName returns an exact normalized-name match, then falls back to
// fuzzy matching (symmetric character-set overlap >= 0.8) against every
// watchlist name if no exact match exists.
func (idx *Index) CheckName(name string) (model.SanctionedVesselRecord, bool) {
	norm := NormalizeName(name)
	idx.mu.RLock()
	defer idx.mu.RUnlock()

	if r, ok := idx.byName[norm]; ok {
		return r, true
	}
	for candidate, r := range idx.byName {
		if fuzzyNameMatch(norm, candidate) {
			return r, true
		}
	}
	return model.SanctionedVesselRecord{}, false
}

// fuzzyNameMatch reports whether a and b share at least 80% of their
// combined character set, symmetric in both directions.
func fuzzyNameMatch(a, b string) bool {
	if a == "" || b == "" {
		return false
	}
	setA := charSet(a)
	setB := charSet(b)

	intersection := 0
	for c := range setA {
		if setB[c] {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	if union == 0 {
		return false
	}
	overlap := float64(intersection) / float64(union)
	return overlap >= 0.8
}

func charSet(s string) map[rune]bool {
	set := make(map[rune]bool, len(s))
	for _, r := range s {
		if r == ' ' {
			continue
		}
		set[r] = true
	}
	return set
}
