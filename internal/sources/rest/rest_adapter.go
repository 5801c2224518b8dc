// Package rest implements poll-based AIS/vessel-registry adapters over
// plain HTTP JSON APIs.
package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/obslog"
	"github.com/rawblock/darkfleet-engine/internal/sources"
)

var log = obslog.New("rest")

// positionEnvelope tolerates the handful of field-name spellings seen
// across community and commercial AIS REST feeds.
type positionEnvelope struct {
	Positions []positionRecord `json:"positions"`
	Data      []positionRecord `json:"data"`
	Vessels   []positionRecord `json:"vessels"`
}

type positionRecord struct {
	MMSI      json.Number `json:"mmsi"`
	Lat       *float64    `json:"lat"`
	Latitude  *float64    `json:"latitude"`
	Lon       *float64    `json:"lon"`
	Longitude *float64    `json:"longitude"`
	SOG       *float64    `json:"sog"`
	Speed     *float64    `json:"speed"`
	SpeedKn   *float64    `json:"speed_kn"`
	COG       *float64    `json:"cog"`
	Course    *float64    `json:"course"`
	Timestamp string      `json:"timestamp"`
	Time      string      `json:"time"`
	LastSeen  string      `json:"last_seen"`
}

func firstFloat(ptrs ...*float64) (float64, bool) {
	for _, p := range ptrs {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}

func (r positionRecord) toPosition(source string) (model.Position, bool) {
	lat, ok1 := firstFloat(r.Lat, r.Latitude)
	lon, ok2 := firstFloat(r.Lon, r.Longitude)
	if !ok1 || !ok2 {
		return model.Position{}, false
	}
	sog, _ := firstFloat(r.SOG, r.Speed, r.SpeedKn)
	cog, _ := firstFloat(r.COG, r.Course)
	ts := firstNonEmpty(r.Timestamp, r.Time, r.LastSeen)
	parsed := geo.ParseTimestamp(ts)

	pos := model.Position{
		MMSI:               r.MMSI.String(),
		Latitude:           lat,
		Longitude:          lon,
		SpeedOverGroundKn:  sog,
		CourseOverGround:   cog,
		Timestamp:          parsed.Time,
		TimestampRecovered: parsed.Recovered,
		Source:             source,
	}
	if !pos.IsValid() {
		return model.Position{}, false
	}
	return pos, true
}

// Config configures a polling REST adapter.
type Config struct {
	Name              string
	BaseURL           string
	Priority          int
	PollInterval      time.Duration
	RequestsPerSecond float64
	Burst             int
	HTTPClient        *http.Client
	Headers           map[string]string
}

func (c Config) withDefaults() Config {
	if c.PollInterval <= 0 {
		c.PollInterval = 30 * time.Second
	}
	if c.RequestsPerSecond <= 0 {
		c.RequestsPerSecond = 1
	}
	if c.Burst <= 0 {
		c.Burst = 1
	}
	if c.HTTPClient == nil {
		c.HTTPClient = &http.Client{Timeout: 15 * time.Second}
	}
	return c
}

// Adapter is a rate-limited, poll-based HTTP JSON adapter.
type Adapter struct {
	cfg     Config
	limiter *rate.Limiter

	mu     sync.Mutex
	status sources.Status
}

// New constructs a REST polling adapter.
func New(cfg Config) *Adapter {
	cfg = cfg.withDefaults()
	return &Adapter{
		cfg:     cfg,
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), cfg.Burst),
		status:  sources.StatusDisconnected,
	}
}

func (a *Adapter) Name() string  { return a.cfg.Name }
func (a *Adapter) Priority() int { return a.cfg.Priority }

func (a *Adapter) Status() sources.Status {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

func (a *Adapter) setStatus(s sources.Status) {
	a.mu.Lock()
	a.status = s
	a.mu.Unlock()
}

// Connect performs a lightweight reachability check against BaseURL.
func (a *Adapter) Connect(ctx context.Context) error {
	a.setStatus(sources.StatusConnecting)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL, nil)
	if err != nil {
		a.setStatus(sources.StatusError)
		return err
	}
	a.applyHeaders(req)
	resp, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		a.setStatus(sources.StatusError)
		return err
	}
	resp.Body.Close()
	a.setStatus(sources.StatusConnected)
	return nil
}

func (a *Adapter) Disconnect() error {
	a.setStatus(sources.StatusDisconnected)
	return nil
}

func (a *Adapter) applyHeaders(req *http.Request) {
	for k, v := range a.cfg.Headers {
		req.Header.Set(k, v)
	}
}

// FetchPositions issues a single rate-limited GET against BaseURL and
// parses whichever of "positions"/"data"/"vessels" the response populates.
func (a *Adapter) FetchPositions(ctx context.Context) ([]model.Position, error) {
	if err := a.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.cfg.BaseURL, nil)
	if err != nil {
		return nil, err
	}
	a.applyHeaders(req)

	resp, err := a.cfg.HTTPClient.Do(req)
	if err != nil {
		a.setStatus(sources.StatusError)
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusTooManyRequests {
		a.setStatus(sources.StatusRateLimited)
		return nil, fmt.Errorf("%s: rate limited by upstream", a.cfg.Name)
	}
	if resp.StatusCode != http.StatusOK {
		a.setStatus(sources.StatusError)
		return nil, fmt.Errorf("%s: unexpected status %d", a.cfg.Name, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	var env positionEnvelope
	if err := json.Unmarshal(body, &env); err != nil {
		log.Warn("%s: malformed response body: %v", a.cfg.Name, err)
		return nil, err
	}
	a.setStatus(sources.StatusConnected)

	records := env.Positions
	if len(records) == 0 {
		records = env.Data
	}
	if len(records) == 0 {
		records = env.Vessels
	}

	out := make([]model.Position, 0, len(records))
	for _, r := range records {
		if pos, ok := r.toPosition(a.cfg.Name); ok {
			out = append(out, pos)
		}
	}
	return out, nil
}

// FetchVesselInfo is unsupported on the generic position-only REST
// adapter; see the enrichment package for registry lookups.
func (a *Adapter) FetchVesselInfo(ctx context.Context, mmsi string) (model.VesselInfo, error) {
	return model.VesselInfo{}, fmt.Errorf("%s: vessel-info lookup not supported", a.cfg.Name)
}

// Subscribe runs FetchPositions on a ticker until ctx is cancelled,
// delivering each fetched position to cb.
func (a *Adapter) Subscribe(ctx context.Context, cb sources.PositionCallback) error {
	ticker := time.NewTicker(a.cfg.PollInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			positions, err := a.FetchPositions(ctx)
			if err != nil {
				log.Warn("%s: poll failed: %v", a.cfg.Name, err)
				continue
			}
			for _, p := range positions {
				cb(p)
			}
		}
	}
}
