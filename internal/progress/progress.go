// Package progress implements the export pipeline's weighted stage
// tracking: a concurrency-safe subscription registry keyed by export ID
// and a tracker that scales per-stage 0-100 sub-progress into a single
// overall percentage.
package progress

import "sync"

// Update is delivered to subscribers as a pipeline moves through its
// stages.
type Update struct {
	ExportID string
	Stage    string
	StagePct int // 0-100 within the stage
	Overall  int // 0-100 across all stages
	Label    string
}

// Callback receives progress updates for one export ID.
type Callback func(Update)

// StageWeight names a stage and its share of the overall percentage.
// Weights are expected to sum to 100.
type StageWeight struct {
	Name   string
	Weight int
}

// Registry maps export IDs to progress callbacks. Distinct IDs may be
// registered and unregistered concurrently; reusing an ID across
// concurrent exports is a caller error.
type Registry struct {
	mu   sync.RWMutex
	subs map[string]Callback
}

func NewRegistry() *Registry {
	return &Registry{subs: make(map[string]Callback)}
}

func (r *Registry) Subscribe(exportID string, cb Callback) {
	if cb == nil {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs[exportID] = cb
}

func (r *Registry) Unsubscribe(exportID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.subs, exportID)
}

// Subscribed reports whether a callback is registered for the ID.
func (r *Registry) Subscribed(exportID string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.subs[exportID]
	return ok
}

func (r *Registry) publish(u Update) {
	r.mu.RLock()
	cb := r.subs[u.ExportID]
	r.mu.RUnlock()
	if cb != nil {
		cb(u)
	}
}

// NewStageTracker builds a tracker for one export invocation. Stage
// order is fixed; the tracker assumes stages run sequentially in the
// order given.
func (r *Registry) NewStageTracker(exportID string, stages []StageWeight) *StageTracker {
	return &StageTracker{registry: r, exportID: exportID, stages: stages}
}

// StageTracker converts per-stage sub-progress into one overall 0-100
// percentage. It carries no mutable state of its own: the overall value
// is derived from the stage name and sub-progress alone, so repeated or
// out-of-order updates cannot corrupt it.
type StageTracker struct {
	registry *Registry
	exportID string
	stages   []StageWeight
}

// UpdateStage reports sub-progress for a named stage. Percentages are
// clamped to [0, 100]; unknown stage names report the weight of all
// stages (treated as complete).
func (t *StageTracker) UpdateStage(stage string, pct int, label string) {
	if pct < 0 {
		pct = 0
	}
	if pct > 100 {
		pct = 100
	}
	t.registry.publish(Update{
		ExportID: t.exportID,
		Stage:    stage,
		StagePct: pct,
		Overall:  t.overall(stage, pct),
		Label:    label,
	})
}

// Complete reports 100% overall.
func (t *StageTracker) Complete(label string) {
	last := ""
	if len(t.stages) > 0 {
		last = t.stages[len(t.stages)-1].Name
	}
	t.registry.publish(Update{
		ExportID: t.exportID,
		Stage:    last,
		StagePct: 100,
		Overall:  100,
		Label:    label,
	})
}

func (t *StageTracker) overall(stage string, pct int) int {
	done := 0
	for _, s := range t.stages {
		if s.Name == stage {
			return done + s.Weight*pct/100
		}
		done += s.Weight
	}
	return done
}
