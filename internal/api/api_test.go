package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/darkfleet-engine/internal/alert"
	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/sanctions"
	"github.com/rawblock/darkfleet-engine/internal/store"
	"github.com/rawblock/darkfleet-engine/internal/zone"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db, err := store.NewTestConnection()
	if err != nil {
		t.Fatalf("failed to open test store: %v", err)
	}
	ts := store.New(db)
	sanctionsIdx := sanctions.NewIndex(nil)
	zoneIdx := zone.NewIndex()
	alertMgr := alert.NewManager(nil)
	hub := NewHub()
	go hub.Run()

	lookup := func(mmsi string) (model.Assessment, bool) {
		if mmsi != "227123456" {
			return model.Assessment{}, false
		}
		return model.Assessment{MMSI: mmsi, Level: model.AssessmentLevelHigh}, true
	}

	return SetupRouter(ts, sanctionsIdx, zoneIdx, alertMgr, hub, lookup)
}

func TestHealthEndpoint(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAssessmentEndpointNotFound(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vessels/999999999/assessment", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", w.Code)
	}
}

func TestAssessmentEndpointFound(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vessels/227123456/assessment", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestSanctionCheckEndpointUnlisted(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/sanctions/9074729", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}

func TestAlertHistoryEndpointEmpty(t *testing.T) {
	r := newTestRouter(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/alerts", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
}
