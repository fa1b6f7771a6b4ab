package folium

import (
	"maps"
	"slices"
	"sync"
	"time"
)

// Instrument is reference data for a tradable security, refreshed
// periodically from an external collaborator. Its lifecycle is independent of
// transaction data.
type Instrument struct {
	ISIN          string
	Symbol        string
	Name          string
	Sector        string
	Industry      string
	LastRefreshed time.Time
}

// Reference is the instrument reference data store, looked up by the
// aggregator for sector classification.
type Reference struct {
	mu     sync.RWMutex
	byISIN map[string]Instrument
}

// NewReference creates an empty reference store.
func NewReference() *Reference {
	return &Reference{byISIN: make(map[string]Instrument)}
}

// Put stores or replaces an instrument's reference data.
func (r *Reference) Put(inst Instrument) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byISIN[inst.ISIN] = inst
}

// Get returns the reference data for an instrument identifier.
func (r *Reference) Get(isin string) (Instrument, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	inst, ok := r.byISIN[isin]
	return inst, ok
}

// Sector returns the sector classification for an instrument, or "Unknown"
// when no reference data is available.
func (r *Reference) Sector(isin string) string {
	if inst, ok := r.Get(isin); ok && inst.Sector != "" {
		return inst.Sector
	}
	return "Unknown"
}

// All returns all instruments sorted by identifier.
func (r *Reference) All() []Instrument {
	r.mu.RLock()
	defer r.mu.RUnlock()
	isins := slices.Collect(maps.Keys(r.byISIN))
	slices.Sort(isins)
	out := make([]Instrument, 0, len(isins))
	for _, isin := range isins {
		out = append(out, r.byISIN[isin])
	}
	return out
}
