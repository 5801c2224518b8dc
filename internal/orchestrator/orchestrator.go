// Package orchestrator wires the source manager, track store, behavior
// detectors, SAR correlator, risk scorer, sanctions/zone indices, and
// alert engine into one running pipeline: positions in, assessments and
// alerts out.
package orchestrator

import (
	"context"
	"sync"
	"time"

	"github.com/rawblock/darkfleet-engine/internal/alert"
	"github.com/rawblock/darkfleet-engine/internal/assessment"
	"github.com/rawblock/darkfleet-engine/internal/behavior"
	"github.com/rawblock/darkfleet-engine/internal/geo"
	"github.com/rawblock/darkfleet-engine/internal/identity"
	"github.com/rawblock/darkfleet-engine/internal/model"
	"github.com/rawblock/darkfleet-engine/internal/obslog"
	"github.com/rawblock/darkfleet-engine/internal/risk"
	"github.com/rawblock/darkfleet-engine/internal/sanctions"
	"github.com/rawblock/darkfleet-engine/internal/sar"
	"github.com/rawblock/darkfleet-engine/internal/sources"
	"github.com/rawblock/darkfleet-engine/internal/sources/enrichment"
	"github.com/rawblock/darkfleet-engine/internal/store"
	"github.com/rawblock/darkfleet-engine/internal/zone"
)

var log = obslog.New("orchestrator")

// ReassessInterval is how often a dirtied vessel's full assessment is
// recomputed from its stored track, rather than on every single fix.
const ReassessInterval = 30 * time.Second

// EvictInterval is how often each enrichment adapter's TTL cache is swept
// for expired entries.
const EvictInterval = time.Hour

// enrichTimeout bounds a single registry lookup during reassessment so a
// slow or unreachable registry never stalls the dirty-set drain.
const enrichTimeout = 5 * time.Second

// Engine is the live pipeline: it owns no transport concerns (those are
// the caller's sources.Adapter and api.Hub) but fuses everything in
// between.
type Engine struct {
	Sources       *sources.Manager
	Store         *store.TrackStore
	Sanctions     *sanctions.Index
	Zones         *zone.Index
	zoneTracker   *zone.Tracker
	Alerts        *alert.Manager
	Thresholds    behavior.Thresholds
	SARThresholds sar.CorrelationThresholds
	Enrichment    []*enrichment.Adapter

	onEvent      func(model.Event)
	onAssessment func(model.Assessment)

	mu    sync.Mutex
	dirty map[string]bool
	cache map[string]model.Assessment
}

// New constructs an Engine from its already-built components. enrichers,
// if given, are consulted in order to backfill vessel metadata (name,
// IMO, flag state) for dirtied vessels and are periodically swept of
// expired cache entries.
func New(sm *sources.Manager, ts *store.TrackStore, sanctionsIdx *sanctions.Index, zoneIdx *zone.Index, alertMgr *alert.Manager, enrichers ...*enrichment.Adapter) *Engine {
	return &Engine{
		Sources:       sm,
		Store:         ts,
		Sanctions:     sanctionsIdx,
		Zones:         zoneIdx,
		zoneTracker:   zone.NewTracker(zoneIdx),
		Alerts:        alertMgr,
		Thresholds:    behavior.DefaultThresholds,
		SARThresholds: sar.DefaultCorrelationThresholds,
		Enrichment:    enrichers,
		dirty:         make(map[string]bool),
		cache:         make(map[string]model.Assessment),
	}
}

// OnEvent registers a callback fired for every derived behavior or zone
// event, e.g. to broadcast it over a websocket hub.
func (e *Engine) OnEvent(fn func(model.Event)) { e.onEvent = fn }

// OnAssessment registers a callback fired whenever a vessel's assessment
// is recomputed.
func (e *Engine) OnAssessment(fn func(model.Assessment)) { e.onAssessment = fn }

// Assessment returns the most recently computed assessment for mmsi, if
// one has been produced yet.
func (e *Engine) Assessment(mmsi string) (model.Assessment, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	a, ok := e.cache[mmsi]
	return a, ok
}

// Run starts ingesting positions from the source manager and
// periodically recomputing assessments for vessels with new data, until
// ctx is cancelled.
func (e *Engine) Run(ctx context.Context, pollFallback time.Duration) {
	e.Sources.OnPosition(e.handlePosition)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		e.Sources.Run(ctx, pollFallback)
	}()
	go func() {
		defer wg.Done()
		e.reassessLoop(ctx)
	}()
	if len(e.Enrichment) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			e.evictLoop(ctx)
		}()
	}
	wg.Wait()
}

func (e *Engine) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(EvictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			for _, a := range e.Enrichment {
				a.EvictExpired()
			}
		}
	}
}

// enrichVessel asks each registered enrichment adapter in turn for mmsi's
// metadata, stopping at the first that answers, and upserts the result
// into the store. Best-effort: a miss or error just leaves the existing
// (possibly absent) vessel record in place.
func (e *Engine) enrichVessel(mmsi string) {
	if len(e.Enrichment) == 0 {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
	defer cancel()
	for _, a := range e.Enrichment {
		info, err := a.FetchVesselInfo(ctx, mmsi)
		if err != nil {
			continue
		}
		if err := e.Store.UpsertVessel(info); err != nil {
			log.Warn("failed to persist enriched vessel info for %s: %v", mmsi, err)
		}
		return
	}
}

func (e *Engine) handlePosition(p model.Position) {
	if err := e.Store.AppendPosition(p); err != nil {
		log.Error("failed to persist position for %s: %v", p.MMSI, err)
		return
	}

	for _, ev := range e.zoneTracker.Update(p) {
		e.emitEvent(ev)
	}

	e.mu.Lock()
	e.dirty[p.MMSI] = true
	e.mu.Unlock()
}

func (e *Engine) reassessLoop(ctx context.Context) {
	ticker := time.NewTicker(ReassessInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.drainDirty()
		}
	}
}

func (e *Engine) drainDirty() {
	e.mu.Lock()
	mmsis := make([]string, 0, len(e.dirty))
	for mmsi := range e.dirty {
		mmsis = append(mmsis, mmsi)
	}
	e.dirty = make(map[string]bool)
	e.mu.Unlock()

	for _, mmsi := range mmsis {
		e.enrichVessel(mmsi)
		a, err := e.Assess(mmsi)
		if err != nil {
			log.Error("failed to assess %s: %v", mmsi, err)
			continue
		}
		if e.onAssessment != nil {
			e.onAssessment(a)
		}
		e.Alerts.Emit(alert.Evaluate(a))
	}
}

// Assess recomputes the full Assessment for mmsi from its stored track,
// running the single-track behavior detectors (loitering, AIS gaps,
// impossible speed, spoofing), the risk scorer, and the sanctions/zone
// lookups, and caches the result. Encounter/STS detection, which needs a
// second vessel's track, is not run here, so the STS risk factor is always
// zero.
func (e *Engine) Assess(mmsi string) (model.Assessment, error) {
	track, err := e.Store.History(mmsi, time.Now().Add(-30*24*time.Hour), time.Now())
	if err != nil {
		return model.Assessment{}, err
	}

	var events []model.Event
	events = append(events, behavior.DetectLoitering(mmsi, track, e.Thresholds)...)
	events = append(events, behavior.DetectAISGaps(mmsi, track, e.Thresholds)...)
	events = append(events, behavior.DetectImpossibleSpeed(mmsi, track, e.Thresholds)...)
	events = append(events, behavior.DetectSpoofing(mmsi, track, e.Thresholds)...)
	for _, ev := range events {
		e.emitEvent(ev)
		if err := e.Store.AppendEvent(ev); err != nil {
			log.Warn("failed to persist event for %s: %v", mmsi, err)
		}
	}

	gapCount, spoofCount, loiterCount, stsCount := 0, 0, 0, 0
	for _, ev := range events {
		switch ev.Type {
		case model.EventAISGap:
			gapCount++
		case model.EventSpoofing:
			spoofCount++
		case model.EventLoitering:
			loiterCount++
		case model.EventSTSTransfer:
			stsCount++
		}
	}

	flagCountry, _ := identity.FlagCountry(mmsi)
	vessel, _, _ := e.Store.Vessel(mmsi)

	aisConsistency := risk.AISConsistency(track)
	behavioralNormalcy := risk.BehavioralNormalcy(track)
	hasSARData, err := e.Store.HasSARData()
	if err != nil {
		log.Warn("failed to check SAR data presence for %s: %v", mmsi, err)
	}
	matchedSAR, totalSAR := e.sarCorroborationCounts(mmsi, track)
	sarCorroboration := risk.SARCorroboration(hasSARData, matchedSAR, totalSAR, len(track))
	overall := risk.OverallConfidence(aisConsistency, behavioralNormalcy, sarCorroboration)

	deception := risk.DeceptionLikelihood(risk.DeceptionFactors{
		AISConsistency:     aisConsistency,
		HasPositionAnomaly: risk.PositionAnomalyCount(track) > 0,
		BehavioralNormalcy: behavioralNormalcy,
		SARContradicts:     totalSAR > 0 && matchedSAR == 0,
	})

	sanctioned := false
	var sanctionRecord *model.SanctionedVesselRecord
	if rec, ok := e.Sanctions.CheckMMSI(mmsi); ok {
		sanctioned = true
		sanctionRecord = &rec
	}

	darkFleetRisk, darkFleetFactors := risk.DarkFleetRisk(risk.DarkFleetFactors{
		IsShadowFleetFlag:   identity.IsShadowFleetFlag(flagCountry),
		IsFlagOfConvenience: identity.IsFlagOfConvenience(flagCountry),
		VesselAgeYears:      risk.VesselAge(vessel.YearBuilt, time.Now()),
		OwnerUnknown:        vessel.Owner == "",
		AISGapCount:         gapCount,
		SpoofingCount:       spoofCount,
		LoiteringCount:      loiterCount,
		STSCount:            stsCount,
		IsTanker:            model.ShipTypeText(vessel.ShipType) == "Tanker",
	})
	score := model.ConfidenceScore{
		MMSI:               mmsi,
		AISConsistency:     aisConsistency,
		BehavioralNormalcy: behavioralNormalcy,
		SARCorroboration:   sarCorroboration,
		OverallConfidence:  overall,
		Level:              risk.ConfidenceLevelFor(overall),
		DeceptionLikelihood: deception,
		DarkFleetRisk:       darkFleetRisk,
		DarkFleetRiskLevel:  risk.DarkFleetRiskLevelFor(darkFleetRisk),
		DarkFleetFactors:    darkFleetFactors,
		ComputedAt:          time.Now().UTC(),
	}

	var zoneNames []string
	if last, ok, _ := e.Store.LastPosition(mmsi); ok {
		zoneNames = e.Zones.MatchingZones(last.Latitude, last.Longitude)
	}

	a := assessment.Assemble(assessment.Input{
		MMSI:           mmsi,
		Events:         events,
		Score:          score,
		Sanctioned:     sanctioned,
		SanctionRecord: sanctionRecord,
		ZoneNames:      zoneNames,
	})

	e.mu.Lock()
	e.cache[mmsi] = a
	e.mu.Unlock()

	return a, nil
}

// sarCorroborationCounts reports how many SAR passes near mmsi's recent
// track actually matched it versus how many passed nearby in total,
// feeding risk.SARCorroboration. The box is centered on the vessel's
// last known fix rather than the whole track's extent, since a pass
// anywhere along a long track says little about whether the vessel was
// really there at the time.
func (e *Engine) sarCorroborationCounts(mmsi string, track []model.Position) (matched, total int) {
	if len(track) == 0 {
		return 0, 0
	}
	last := track[len(track)-1]
	box := geo.BoxAroundNM(last.Latitude, last.Longitude, e.SARThresholds.MaxRangeNM)
	detections, err := e.Store.SARDetectionsInBox(box, track[0].Timestamp, last.Timestamp)
	if err != nil {
		log.Warn("failed to load SAR detections for %s: %v", mmsi, err)
		return 0, 0
	}
	for _, d := range detections {
		if d.MatchedMMSI == mmsi {
			matched++
		}
	}
	return matched, len(detections)
}

// IngestSARBatch correlates a batch of SAR detections against the track
// store, persisting matches and emitting dark-vessel events for
// detections with no nearby AIS track.
func (e *Engine) IngestSARBatch(detections []model.SARDetection, progress *sar.BatchProgress) ([]model.SARDetection, []model.Event) {
	if progress != nil {
		progress.Start()
		defer progress.Finish()
	}

	lookup := func(d model.SARDetection) []model.Position {
		box := geo.BoxAroundNM(d.Latitude, d.Longitude, e.SARThresholds.MaxRangeNM)
		positions, err := e.Store.AllPositionsInBox(box, d.Timestamp.Add(-e.SARThresholds.MaxTimeDelta), d.Timestamp.Add(e.SARThresholds.MaxTimeDelta))
		if err != nil {
			log.Error("failed to query positions near SAR detection %s: %v", d.ID, err)
			return nil
		}
		return positions
	}

	matched, darkVesselEvents := sar.Correlate(detections, lookup, e.SARThresholds)

	for _, d := range matched {
		if err := e.Store.AppendSAR(d); err != nil {
			log.Warn("failed to persist SAR detection %s: %v", d.ID, err)
		}
		if d.MatchedMMSI != "" {
			e.mu.Lock()
			e.dirty[d.MatchedMMSI] = true
			e.mu.Unlock()
		}
	}
	for _, ev := range darkVesselEvents {
		e.emitEvent(ev)
	}

	if progress != nil {
		progress.RecordBatch(matched, darkVesselEvents)
	}

	return matched, darkVesselEvents
}

func (e *Engine) emitEvent(ev model.Event) {
	if e.onEvent != nil {
		e.onEvent(ev)
	}
}
