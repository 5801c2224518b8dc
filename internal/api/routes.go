// Package api exposes the query/stream boundary: REST lookups for vessel
// metadata, track history, assessments, sanctions checks, and alert
// history, plus a websocket stream fed through the Hub (the stream command
// publishes derived events and recomputed assessments on it).
package api

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/rawblock/darkfleet-engine/internal/alert"
	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/sanctions"
	"github.com/rawblock/darkfleet-engine/internal/store"
	"github.com/rawblock/darkfleet-engine/internal/zone"
)

// AssessmentLookup produces the current fused assessment for a vessel.
// The orchestrator supplies this as a closure over its live components.
type AssessmentLookup func(mmsi string) (model.Assessment, bool)

// Handler holds every dependency the route handlers need.
type Handler struct {
	store         *store.TrackStore
	sanctions     *sanctions.Index
	zones         *zone.Index
	alertManager  *alert.Manager
	hub           *Hub
	assessmentFor AssessmentLookup
}

// SetupRouter builds the gin.Engine exposing the public and protected
// route groups, wiring rate limiting and bearer-token auth the same way
// on every protected endpoint.
func SetupRouter(trackStore *store.TrackStore, sanctionsIndex *sanctions.Index, zoneIndex *zone.Index, alertManager *alert.Manager, hub *Hub, assessmentFor AssessmentLookup) *gin.Engine {
	r := gin.Default()

	allowedOrigins := os.Getenv("ALLOWED_ORIGINS")
	r.Use(func(c *gin.Context) {
		origin := c.Request.Header.Get("Origin")
		if allowedOrigins == "" || allowedOrigins == "*" {
			c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		} else {
			for _, allowed := range strings.Split(allowedOrigins, ",") {
				if strings.TrimSpace(allowed) == origin {
					c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
					break
				}
			}
		}
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	})

	h := &Handler{
		store:         trackStore,
		sanctions:     sanctionsIndex,
		zones:         zoneIndex,
		alertManager:  alertManager,
		hub:           hub,
		assessmentFor: assessmentFor,
	}

	pub := r.Group("/api/v1")
	{
		pub.GET("/health", h.handleHealth)
		pub.GET("/stream", hub.Subscribe)
	}

	auth := r.Group("/api/v1")
	auth.Use(AuthMiddleware())
	auth.Use(NewRateLimiter(60, 10).Middleware())
	{
		auth.GET("/vessels/:mmsi", h.handleVessel)
		auth.GET("/vessels/:mmsi/track", h.handleTrack)
		auth.GET("/vessels/:mmsi/assessment", h.handleAssessment)
		auth.GET("/sanctions/:imo", h.handleSanctionCheck)
		auth.GET("/alerts", h.handleAlertHistory)
	}

	return r
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "time": time.Now().UTC()})
}

func (h *Handler) handleVessel(c *gin.Context) {
	mmsi := c.Param("mmsi")
	v, ok, err := h.store.Vessel(mmsi)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "vessel not found"})
		return
	}
	c.JSON(http.StatusOK, v)
}

func (h *Handler) handleTrack(c *gin.Context) {
	mmsi := c.Param("mmsi")
	since := parseTimeOrDefault(c.Query("since"), time.Now().Add(-24*time.Hour))
	until := parseTimeOrDefault(c.Query("until"), time.Now())

	track, err := h.store.History(mmsi, since, until)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"mmsi": mmsi, "positions": track})
}

func (h *Handler) handleAssessment(c *gin.Context) {
	mmsi := c.Param("mmsi")
	a, ok := h.assessmentFor(mmsi)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no assessment available for this vessel"})
		return
	}
	c.JSON(http.StatusOK, a)
}

func (h *Handler) handleSanctionCheck(c *gin.Context) {
	imo := c.Param("imo")
	rec, ok := h.sanctions.CheckIMO(imo)
	if !ok {
		c.JSON(http.StatusOK, gin.H{"sanctioned": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sanctioned": true, "record": rec})
}

func (h *Handler) handleAlertHistory(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil {
			limit = n
		}
	}
	c.JSON(http.StatusOK, h.alertManager.History(limit))
}

func parseTimeOrDefault(raw string, fallback time.Time) time.Time {
	if raw == "" {
		return fallback
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fallback
	}
	return t
}
