// Package enrichment implements vessel-registry lookups (name, IMO, ship
// type, flag state) to fill in metadata a position-only feed never carries.
package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/obslog"
	"github.com/rawblock/darkfleet-engine/internal/sources"
)

var log = obslog.New("enrichment")

type registryRecord struct {
	MMSI        json.Number `json:"mmsi"`
	IMO         json.Number `json:"imo"`
	Name        string      `json:"name"`
	CallSign    string      `json:"call_sign"`
	ShipType    json.Number `json:"ship_type"`
	Flag        string      `json:"flag"`
	FlagState   string      `json:"flag_state"`
	LengthM     float64     `json:"length_m"`
	BeamM       float64     `json:"beam_m"`
	Destination string      `json:"destination"`
	YearBuilt   json.Number `json:"year_built"`
	Owner       string      `json:"owner"`
}

func (r registryRecord) toVesselInfo(mmsi string) model.VesselInfo {
	shipType, _ := strconv.Atoi(r.ShipType.String())
	yearBuilt, _ := strconv.Atoi(r.YearBuilt.String())
	flag := r.Flag
	if flag == "" {
		flag = r.FlagState
	}
	return model.VesselInfo{
		MMSI:        mmsi,
		IMO:         r.IMO.String(),
		Name:        r.Name,
		CallSign:    r.CallSign,
		ShipType:    shipType,
		FlagState:   flag,
		LengthM:     r.LengthM,
		BeamM:       r.BeamM,
		Destination: r.Destination,
		YearBuilt:   yearBuilt,
		Owner:       r.Owner,
	}
}

type cacheEntry struct {
	info      model.VesselInfo
	expiresAt time.Time
}

// Config configures a vessel-registry enrichment adapter.
type Config struct {
	Name       string
	BaseURL    string // MMSI is appended as a path segment
	Priority   int
	CacheTTL   time.Duration
	HTTPClient *http.Client
}

func (c Config) withDefaults() Config {
	if c.CacheTTL <= 0 {
		c.CacheTTL = 24 * time.Hour
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 10 * time.Second}
	}
	return c
}

// Adapter performs on-demand vessel-metadata lookups with a TTL cache so
// repeated position fixes for the same vessel don't re-query the registry.
type Adapter struct {
	cfg Config

	mu     sync.Mutex
	status sources.Status
	cache  map[string]cacheEntry
}

func New(cfg Config) *Adapter {
	return &Adapter{
		cfg:    cfg.withDefaults(),
		status: sources.StatusDisconnected,
		cache:  make(map[string]cacheEntry),
	}
}

func (a *Adapter) Name() string  { return a.cfg.Name }
func (a *Adapter) Priority() int { return a.cfg.Priority }

func (a *Adapter) Status() sources.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Adapter) Connect(ctx context.Context) error {
	a.mu.Lock()
	a.status = sources.StatusConnected
	a.mu.Unlock()
	return nil
}

func (a *Adapter) Disconnect() error {
	a.mu.Lock()
	a.status = sources.StatusDisconnected
	a.mu.Unlock()
	return nil
}

// FetchPositions is unsupported: the enrichment adapter carries no
// position data.
func (a *Adapter) FetchPositions(ctx context.Context) ([]model.Position, error) {
	return nil, fmt.Errorf("%s: enrichment adapter carries no positions", a.cfg.Name)
}

// FetchVesselInfo returns cached metadata if fresh, otherwise queries the
// registry and caches the result for CacheTTL.
func (a *Adapter) FetchVesselInfo(ctx context.Context, mmsi string) (model.VesselInfo, error) {
	a.mu.Lock()
	entry, ok := a.cache[mmsi]
	a.mu.Unlock()
	if ok && time.Now().Before(entry.expiresAt) {
		return entry.info, nil
	}

	url := a.cfg.BaseURL + "/" + mmsi
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return model.VesselInfo{}, err
	}
	resp, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		return model.VesselInfo{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return model.VesselInfo{}, fmt.Errorf("%s: registry lookup for %s returned %d", a.cfg.Name, mmsi, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return model.VesselInfo{}, err
	}
	var rec registryRecord
	if err := json.Unmarshal(body, &rec); err != nil {
		log.Warn("%s: malformed registry response for %s: %v", a.cfg.Name, mmsi, err)
		return model.VesselInfo{}, err
	}

	info := rec.toVesselInfo(mmsi)
	a.mu.Lock()
	a.cache[mmsi] = cacheEntry{info: info, expiresAt: time.Now().Add(a.cfg.CacheTTL)}
	a.mu.Unlock()
	return info, nil
}

// Subscribe is unsupported: enrichment is pull-only.
func (a *Adapter) Subscribe(ctx context.Context, cb sources.PositionCallback) error {
	return fmt.Errorf("%s: enrichment adapter does not support subscription", a.cfg.Name)
}

// EvictExpired sweeps cache entries past their TTL to bound cache memory
// growth. The orchestrator engine calls it periodically for each
// enrichment adapter.
func (a *Adapter) EvictExpired() {
	now := time.Now()
	a.mu.Lock()
	defer a.mu.Unlock()
	for mmsi, e := range a.cache {
		if now.After(e.expiresAt) {
			delete(a.cache, mmsi)
		}
	}
}
