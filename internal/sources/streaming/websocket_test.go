package streaming

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/rawblock/darkfleet-engine/internal/model"
)

var upgrader = websocket.Upgrader{}

func newEchoWSServer(t *testing.T, frame string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte(frame))
		// keep the connection open briefly so Subscribe's read loop has
		// time to deliver the frame before the test cancels its context.
		time.Sleep(50 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestSubscribeDeliversPositionFrame(t *testing.T) {
	srv := newEchoWSServer(t, `{"mmsi":"227123456","latitude":43.3,"longitude":5.3,"sog":11}`)
	url := "ws" + strings.TrimPrefix(srv.URL, "http")

	a := New(Config{Name: "aisstream", URL: url, KeepaliveEvery: time.Hour})

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	var mu sync.Mutex
	var got model.Position
	go a.Subscribe(ctx, func(p model.Position) {
		mu.Lock()
		got = p
		mu.Unlock()
	})

	<-ctx.Done()
	mu.Lock()
	defer mu.Unlock()
	if got.MMSI != "227123456" {
		t.Fatalf("expected Subscribe to deliver the streamed position, got %+v", got)
	}
}

func TestNextBackoffCapsAtMax(t *testing.T) {
	if got := nextBackoff(20*time.Second, 30*time.Second); got != 30*time.Second {
		t.Fatalf("expected backoff to cap at max, got %s", got)
	}
	if got := nextBackoff(time.Second, 30*time.Second); got != 2*time.Second {
		t.Fatalf("expected backoff to double, got %s", got)
	}
}

func TestFramePositionParsesCoordinateSynonyms(t *testing.T) {
	var f wireFrame
	f.MMSI = "227123456"
	lat, lon, sog := 43.3, 5.3, 11.0
	f.Latitude = &lat
	f.Longitude = &lon
	f.SOG = &sog
	f.Timestamp = "2026-01-01T00:00:00Z"

	pos, ok := framePosition(f)
	if !ok {
		t.Fatal("expected a valid position")
	}
	if pos.MMSI != "227123456" || pos.SpeedOverGroundKn != 11.0 {
		t.Fatalf("unexpected position: %+v", pos)
	}
}

func TestFramePositionRejectsMissingCoordinates(t *testing.T) {
	var f wireFrame
	f.MMSI = "227123456"
	if _, ok := framePosition(f); ok {
		t.Fatal("expected a frame with no coordinates to be rejected")
	}
}
