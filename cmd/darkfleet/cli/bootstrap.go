package cli

import (
	"fmt"

	"github.com/rawblock/darkfleet-engine/internal/alert"
	"github.com/rawblock/darkfleet-engine/internal/config"
	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/orchestrator"
	"github.com/rawblock/darkfleet-engine/internal/sanctions"
	"github.com/rawblock/darkfleet-engine/internal/sources"
	"github.com/rawblock/darkfleet-engine/internal/sources/enrichment"
	"github.com/rawblock/darkfleet-engine/internal/sources/rest"
	"github.com/rawblock/darkfleet-engine/internal/sources/streaming"
	"github.com/rawblock/darkfleet-engine/internal/store"
	"github.com/rawblock/darkfleet-engine/internal/zone"
)

// bootstrap builds an orchestrator.Engine from the resolved config: an
// opened/migrated store, every configured source adapter registered with
// the source manager, the sanctions index warm-loaded from the store,
// and an empty zone index ready for the caller to populate.
func bootstrap(cfgPath string) (*config.Config, *orchestrator.Engine, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	db, err := store.NewConnection(store.Config{Path: cfg.Store.Path})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open store: %w", err)
	}
	ts := store.New(db)

	var adapters []sources.Adapter
	for _, s := range cfg.Sources.Streaming {
		adapters = append(adapters, streaming.New(streaming.Config{Name: s.Name, URL: s.URL, Priority: s.Priority}))
	}
	for _, s := range cfg.Sources.REST {
		adapters = append(adapters, rest.New(rest.Config{
			Name:              s.Name,
			BaseURL:           s.BaseURL,
			Priority:          s.Priority,
			RequestsPerSecond: s.RequestsPerSecond,
			Burst:             1,
			PollInterval:      s.PollInterval,
		}))
	}
	var enrichers []*enrichment.Adapter
	for _, s := range cfg.Sources.Enrichment {
		enrichers = append(enrichers, enrichment.New(enrichment.Config{
			Name:     s.Name,
			BaseURL:  s.BaseURL,
			Priority: s.Priority,
			CacheTTL: s.CacheTTL,
		}))
	}

	sm := sources.NewManager(adapters...)

	sanctionsRecords, err := ts.AllSanctions()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load sanctions list: %w", err)
	}
	sanctionsIdx := sanctions.NewIndex(sanctionsRecords)
	zoneIdx := zone.NewIndex()

	alertMgr := alert.NewManager(nil)
	for _, w := range cfg.Alert.Webhooks {
		alertMgr.RegisterWebhook(alert.Webhook{
			Name:        w.Name,
			URL:         w.URL,
			MinSeverity: model.AlertSeverity(w.MinSeverity),
		})
	}

	engine := orchestrator.New(sm, ts, sanctionsIdx, zoneIdx, alertMgr, enrichers...)
	return cfg, engine, nil
}
