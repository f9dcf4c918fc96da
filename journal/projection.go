package journal

import (
	"context"
	"sync"
	"time"
)

// ActivitySummary is a read model of journaled activity for one store:
// how often each intent, state, and effect type was recorded.
type ActivitySummary struct {
	Store        string         `json:"store"`
	Intents      map[string]int `json:"intents,omitempty"`
	States       map[string]int `json:"states,omitempty"`
	Effects      map[string]int `json:"effects,omitempty"`
	FirstEntry   time.Time      `json:"first_entry"`
	LastEntry    time.Time      `json:"last_entry"`
	TotalEntries int            `json:"total_entries"`
}

// ActivityProjection maintains in-memory per-store activity summaries,
// reconstructed from journal entries.
type ActivityProjection struct {
	mu      sync.RWMutex
	journal Journal
	stores  map[string]*ActivitySummary
}

// NewActivityProjection creates a projection backed by the given journal.
func NewActivityProjection(j Journal) *ActivityProjection {
	return &ActivityProjection{
		journal: j,
		stores:  make(map[string]*ActivitySummary),
	}
}

// Rebuild reconstructs the projection from all journal entries. Typically
// called at startup.
func (p *ActivityProjection) Rebuild(ctx context.Context) error {
	entries, err := p.journal.GetRange(ctx, time.Time{}, time.Now().Add(time.Hour))
	if err != nil {
		return err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	p.stores = make(map[string]*ActivitySummary)
	for _, e := range entries {
		p.applyLocked(e)
	}
	return nil
}

// Apply processes a single entry, for real-time updates.
func (p *ActivityProjection) Apply(e Entry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.applyLocked(e)
}

func (p *ActivityProjection) applyLocked(e Entry) {
	summary, ok := p.stores[e.Store]
	if !ok {
		summary = &ActivitySummary{
			Store:      e.Store,
			Intents:    make(map[string]int),
			States:     make(map[string]int),
			Effects:    make(map[string]int),
			FirstEntry: e.Timestamp,
		}
		p.stores[e.Store] = summary
	}

	switch e.Kind {
	case KindIntent:
		summary.Intents[e.Type]++
	case KindState:
		summary.States[e.Type]++
	case KindEffect:
		summary.Effects[e.Type]++
	}
	summary.TotalEntries++
	if e.Timestamp.After(summary.LastEntry) {
		summary.LastEntry = e.Timestamp
	}
}

// Summary returns the activity summary for one store.
func (p *ActivityProjection) Summary(store string) (*ActivitySummary, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	summary, ok := p.stores[store]
	if !ok {
		return nil, false
	}
	cp := *summary
	return &cp, true
}

// Stores returns the names of all stores with journaled activity.
func (p *ActivityProjection) Stores() []string {
	p.mu.RLock()
	defer p.mu.RUnlock()

	names := make([]string, 0, len(p.stores))
	for name := range p.stores {
		names = append(names, name)
	}
	return names
}
