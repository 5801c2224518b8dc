// Package sources defines the capability contract every AIS/SAR data
// provider implements, plus the manager that fuses them into one
// deduplicated position stream.
package sources

import (
	"context"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

// Status is an adapter's connection state, per the source lifecycle in
// spec.md §4.3: DISCONNECTED -> CONNECTING -> CONNECTED -> RATE_LIMITED
// <-> CONNECTED -> ERROR -> DISCONNECTED.
type Status int

const (
	StatusDisconnected Status = iota
	StatusConnecting
	StatusConnected
	StatusRateLimited
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusDisconnected:
		return "disconnected"
	case StatusConnecting:
		return "connecting"
	case StatusConnected:
		return "connected"
	case StatusRateLimited:
		return "rate_limited"
	case StatusError:
		return "error"
	default:
		return "unknown"
	}
}

// PositionCallback is invoked by a streaming adapter for every position it
// receives, off its own read loop.
type PositionCallback func(model.Position)

// Adapter is the capability surface every data source implements. Not
// every adapter supports every method meaningfully — the enrichment
// adapter's FetchPositions and Subscribe return errors, the REST adapter's
// Subscribe polls FetchPositions on a ticker, and the streaming adapter's
// FetchPositions returns the positions it has cached from its read loop.
type Adapter interface {
	Name() string
	Priority() int
	Status() Status

	Connect(ctx context.Context) error
	Disconnect() error

	FetchPositions(ctx context.Context) ([]model.Position, error)
	FetchVesselInfo(ctx context.Context, mmsi string) (model.VesselInfo, error)
	Subscribe(ctx context.Context, cb PositionCallback) error
}
