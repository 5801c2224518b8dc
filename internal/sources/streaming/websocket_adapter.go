// Package streaming implements push-based AIS position feeds over
// websocket connections.
package streaming

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/obslog"
	"github.com/rawblock/darkfleet-engine/internal/sources"
)

var log = obslog.New("streaming")

// wireFrame is the generic subscription/position envelope most commercial
// AIS-relay websocket feeds use: a message type plus source-synonym-tolerant
// position fields.
type wireFrame struct {
	MessageType string  `json:"message_type"`
	MMSI        json.Number `json:"mmsi"`
	Lat         *float64 `json:"lat"`
	Latitude    *float64 `json:"latitude"`
	Lon         *float64 `json:"lon"`
	Longitude   *float64 `json:"longitude"`
	SOG         *float64 `json:"sog"`
	Speed       *float64 `json:"speed"`
	COG         *float64 `json:"cog"`
	Course      *float64 `json:"course"`
	Heading     *float64 `json:"heading"`
	NavStatus   string   `json:"nav_status"`
	Timestamp   string   `json:"timestamp"`
}

func firstFloat(ptrs ...*float64) (float64, bool) {
	for _, p := range ptrs {
		if p != nil {
			return *p, true
		}
	}
	return 0, false
}

// Config configures a websocket-backed streaming adapter.
type Config struct {
	Name            string
	URL             string
	Priority        int
	SubscribeFrame  interface{} // sent once on connect, if non-nil
	ReconnectMin    time.Duration
	ReconnectMax    time.Duration
	KeepaliveEvery  time.Duration
	CacheTTL        time.Duration
}

func (c Config) withDefaults() Config {
	if c.ReconnectMin <= 0 {
		c.ReconnectMin = time.Second
	}
	if c.ReconnectMax <= 0 {
		c.ReconnectMax = 30 * time.Second
	}
	if c.KeepaliveEvery <= 0 {
		c.KeepaliveEvery = 30 * time.Second
	}
	if c.CacheTTL <= 0 {
		c.CacheTTL = 60 * time.Second
	}
	return c
}

// Adapter is a reconnecting websocket client implementing sources.Adapter.
type Adapter struct {
	cfg    Config
	mu     sync.Mutex
	status sources.Status
	conn   *websocket.Conn

	cacheMu  sync.Mutex
	cache    map[string]cachedPosition
}

type cachedPosition struct {
	pos       model.Position
	expiresAt time.Time
}

// New constructs a streaming adapter. Call Subscribe to start its
// reconnecting read loop; FetchPositions serves from the adapter's own
// short-lived cache rather than opening a second connection.
func New(cfg Config) *Adapter {
	return &Adapter{
		cfg:    cfg.withDefaults(),
		status: sources.StatusDisconnected,
		cache:  make(map[string]cachedPosition),
	}
}

func (a *Adapter) Name() string        { return a.cfg.Name }
func (a *Adapter) Priority() int       { return a.cfg.Priority }
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

// Connect dials once and leaves the connection open for Subscribe to drive.
func (a *Adapter) Connect(ctx context.Context) error {
	a.setStatus(sources.StatusConnecting)
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, a.cfg.URL, nil)
	if err != nil {
		a.setStatus(sources.StatusError)
		return err
	}
	a.mu.Lock()
	a.conn = conn
	a.mu.Unlock()
	a.setStatus(sources.StatusConnected)

	if a.cfg.SubscribeFrame != nil {
		if err := conn.WriteJSON(a.cfg.SubscribeFrame); err != nil {
			log.Warn("%s: failed to send subscribe frame: %v", a.cfg.Name, err)
		}
	}
	return nil
}

func (a *Adapter) Disconnect() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.status = sources.StatusDisconnected
	if a.conn == nil {
		return nil
	}
	err := a.conn.Close()
	a.conn = nil
	return err
}

// FetchPositions returns the adapter's currently cached positions, i.e.
// whatever Subscribe's read loop has received within CacheTTL. Streaming
// sources do not support a separate pull API.
func (a *Adapter) FetchPositions(ctx context.Context) ([]model.Position, error) {
	a.cacheMu.Lock()
	defer a.cacheMu.Unlock()
	now := time.Now()
	out := make([]model.Position, 0, len(a.cache))
	for mmsi, cp := range a.cache {
		if now.After(cp.expiresAt) {
			delete(a.cache, mmsi)
			continue
		}
		out = append(out, cp.pos)
	}
	return out, nil
}

// FetchVesselInfo is unsupported on a pure streaming adapter.
func (a *Adapter) FetchVesselInfo(ctx context.Context, mmsi string) (model.VesselInfo, error) {
	return model.VesselInfo{}, errors.New("streaming adapter does not support vessel-info lookup")
}

// Subscribe drives the reconnect loop: connect, read frames until the
// connection errors, back off with an exponential delay (doubling from
// ReconnectMin up to ReconnectMax, without jitter), and retry until ctx is
// cancelled.
func (a *Adapter) Subscribe(ctx context.Context, cb sources.PositionCallback) error {
	backoff := a.cfg.ReconnectMin
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := a.Connect(ctx); err != nil {
			log.Warn("%s: connect failed: %v, retrying in %s", a.cfg.Name, err, backoff)
			if !sleepOrDone(ctx, backoff) {
				return ctx.Err()
			}
			backoff = nextBackoff(backoff, a.cfg.ReconnectMax)
			continue
		}
		backoff = a.cfg.ReconnectMin

		a.readLoop(ctx, cb)

		a.setStatus(sources.StatusError)
		if !sleepOrDone(ctx, backoff) {
			return ctx.Err()
		}
		backoff = nextBackoff(backoff, a.cfg.ReconnectMax)
	}
}

func (a *Adapter) readLoop(ctx context.Context, cb sources.PositionCallback) {
	keepalive := time.NewTicker(a.cfg.KeepaliveEvery)
	defer keepalive.Stop()

	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			a.mu.Lock()
			conn := a.conn
			a.mu.Unlock()
			if conn == nil {
				return
			}
			var frame wireFrame
			if err := conn.ReadJSON(&frame); err != nil {
				log.Warn("%s: read error: %v", a.cfg.Name, err)
				return
			}
			pos, ok := framePosition(frame)
			if !ok {
				continue
			}
			pos.Source = a.cfg.Name
			a.cacheMu.Lock()
			a.cache[pos.MMSI] = cachedPosition{pos: pos, expiresAt: time.Now().Add(a.cfg.CacheTTL)}
			a.cacheMu.Unlock()
			cb(pos)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			a.Disconnect()
			<-done
			return
		case <-keepalive.C:
			a.mu.Lock()
			conn := a.conn
			a.mu.Unlock()
			if conn != nil {
				_ = conn.WriteMessage(websocket.PingMessage, nil)
			}
		case <-done:
			return
		}
	}
}

func framePosition(f wireFrame) (model.Position, bool) {
	lat, ok1 := firstFloat(f.Lat, f.Latitude)
	lon, ok2 := firstFloat(f.Lon, f.Longitude)
	if !ok1 || !ok2 {
		return model.Position{}, false
	}
	sog, _ := firstFloat(f.SOG, f.Speed)
	cog, _ := firstFloat(f.COG, f.Course)

	parsed := geo.ParseTimestamp(f.Timestamp)

	pos := model.Position{
		MMSI:               f.MMSI.String(),
		Latitude:           lat,
		Longitude:          lon,
		SpeedOverGroundKn:  sog,
		CourseOverGround:   cog,
		NavStatus:          f.NavStatus,
		Timestamp:          parsed.Time,
		TimestampRecovered: parsed.Recovered,
	}
	if f.Heading != nil {
		pos.Heading = f.Heading
	}
	if !pos.IsValid() {
		return model.Position{}, false
	}
	return pos, true
}

func nextBackoff(cur, max time.Duration) time.Duration {
	next := cur * 2
	if next > max {
		return max
	}
	return next
}

func sleepOrDone(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}
