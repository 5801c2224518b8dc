package alert

import (
	"bytes"
	"encoding/json"
	"net/http"
	"sync"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/obslog"
)

var log = obslog.New("alert")

// SuppressionWindow is how long an identical (rule, MMSI) pair is
// suppressed from re-firing after it first alerts.
const SuppressionWindow = 6 * time.Hour

const maxHistory = 1000

// Webhook is a registered delivery endpoint, gated by a minimum severity.
type Webhook struct {
	Name        string
	URL         string
	Headers     map[string]string
	MinSeverity model.AlertSeverity
}

var severityRank = map[model.AlertSeverity]int{
	model.AlertSeverityInfo:     0,
	model.AlertSeverityWarning:  1,
	model.AlertSeverityCritical: 2,
}

func meetsThreshold(severity, minimum model.AlertSeverity) bool {
	return severityRank[severity] >= severityRank[minimum]
}

// Manager applies duplicate suppression to generated alerts, keeps
// in-memory history, and fans surviving alerts out to registered
// webhooks and an optional broadcast callback (e.g. the websocket hub).
type Manager struct {
	mu           sync.Mutex
	lastFired    map[string]time.Time // "rule:mmsi" -> last emission time
	history      []model.Alert
	webhooks     []Webhook
	httpClient   *http.Client
	broadcast    func(model.Alert)
}

// NewManager constructs an alert manager. broadcast may be nil.
func NewManager(broadcast func(model.Alert)) *Manager {
	return &Manager{
		lastFired:  make(map[string]time.Time),
		httpClient: &http.Client{Timeout: 5 * time.Second},
		broadcast:  broadcast,
	}
}

// RegisterWebhook adds a delivery target.
func (m *Manager) RegisterWebhook(w Webhook) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.webhooks = append(m.webhooks, w)
}

func suppressionKey(rule, mmsi string) string { return rule + ":" + mmsi }

// Emit applies suppression to each alert in alerts, recording surviving
// alerts to history, broadcasting them, and delivering them to webhooks
// whose MinSeverity threshold the alert meets. Returns only the alerts
// that were not suppressed.
func (m *Manager) Emit(alerts []model.Alert) []model.Alert {
	now := time.Now().UTC()
	var delivered []model.Alert

	m.mu.Lock()
	var webhooks []Webhook
	for _, a := range alerts {
		key := suppressionKey(a.Rule, a.MMSI)
		if last, ok := m.lastFired[key]; ok && now.Sub(last) < SuppressionWindow {
			continue
		}
		m.lastFired[key] = now
		m.history = append(m.history, a)
		if len(m.history) > maxHistory {
			m.history = m.history[len(m.history)-maxHistory:]
		}
		delivered = append(delivered, a)
	}
	webhooks = append(webhooks, m.webhooks...)
	m.mu.Unlock()

	for _, a := range delivered {
		if m.broadcast != nil {
			m.broadcast(a)
		}
		for _, wh := range webhooks {
			if meetsThreshold(a.Severity, wh.MinSeverity) {
				go m.sendWebhook(wh, a)
			}
		}
		log.Printf("[%s] %s: %s", a.Severity, a.Rule, a.Message)
	}

	return delivered
}

func (m *Manager) sendWebhook(wh Webhook, a model.Alert) {
	payload, err := json.Marshal(a)
	if err != nil {
		log.Error("failed to marshal alert for webhook %s: %v", wh.Name, err)
		return
	}
	req, err := http.NewRequest(http.MethodPost, wh.URL, bytes.NewReader(payload))
	if err != nil {
		log.Error("failed to build webhook request for %s: %v", wh.Name, err)
		return
	}
	req.Header.Set("Content-Type", "application/json")
	for k, v := range wh.Headers {
		req.Header.Set(k, v)
	}
	resp, err := m.httpClient.Do(req)
	if err != nil {
		log.Warn("webhook delivery to %s failed: %v", wh.Name, err)
		return
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 400 {
		log.Warn("webhook %s returned status %d", wh.Name, resp.StatusCode)
	}
}

// History returns the most recent alerts, most recent first, capped at
// limit (0 means no cap).
func (m *Manager) History(limit int) []model.Alert {
	m.mu.Lock()
	defer m.mu.Unlock()
	if limit <= 0 || limit > len(m.history) {
		limit = len(m.history)
	}
	out := make([]model.Alert, limit)
	for i := 0; i < limit; i++ {
		out[i] = m.history[len(m.history)-1-i]
	}
	return out
}
