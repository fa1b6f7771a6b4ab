package folium

import (
	"iter"
	"maps"
	"slices"
	"sync"
)

// Store holds the canonical events, addressed per instrument identifier, and
// the append-only raw import logs, one per broker source.
//
// Aggregation and valuation are pure reads over a snapshot; imports are the
// only writer. The readers-writer lock lets report queries run concurrently
// while an import/reconciliation pass holds exclusive access.
type Store struct {
	mu     sync.RWMutex
	events map[string][]Event     // by ISIN, each sequence ordered by time
	raw    map[string][]RawRecord // by broker source, append-only
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{
		events: make(map[string][]Event),
		raw:    make(map[string][]RawRecord),
	}
}

// Append adds events to their instrument sequences, keeping each sequence
// ordered by time.
func (s *Store) Append(events ...Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	touched := make(map[string]struct{})
	for _, e := range events {
		s.events[e.ISIN] = append(s.events[e.ISIN], e)
		touched[e.ISIN] = struct{}{}
	}
	for isin := range touched {
		sortEvents(s.events[isin])
	}
}

// Replace swaps the whole event sequence of one instrument. This is the
// reconciler's single permitted mutation.
func (s *Store) Replace(isin string, events []Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	seq := slices.Clone(events)
	sortEvents(seq)
	if len(seq) == 0 {
		delete(s.events, isin)
		return
	}
	s.events[isin] = seq
}

// Events returns a copy of one instrument's event sequence, ordered by time.
func (s *Store) Events(isin string) []Event {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.events[isin])
}

// Instruments returns all instrument identifiers present, sorted.
func (s *Store) Instruments() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	isins := slices.Collect(maps.Keys(s.events))
	slices.Sort(isins)
	return isins
}

// All returns an iterator over instrument identifier and event sequence pairs
// in sorted identifier order. The yielded slices are snapshots.
func (s *Store) All() iter.Seq2[string, []Event] {
	return func(yield func(string, []Event) bool) {
		for _, isin := range s.Instruments() {
			if !yield(isin, s.Events(isin)) {
				return
			}
		}
	}
}

// Len returns the total number of canonical events.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	n := 0
	for _, seq := range s.events {
		n += len(seq)
	}
	return n
}

// AppendRaw appends raw import records to a broker source's log.
// Raw records are never mutated after this point.
func (s *Store) AppendRaw(source string, records ...RawRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.raw[source] = append(s.raw[source], records...)
}

// RawRecords returns a copy of one broker source's raw log.
func (s *Store) RawRecords(source string) []RawRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.raw[source])
}

// Sources returns all broker sources with a raw log, sorted.
func (s *Store) Sources() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sources := slices.Collect(maps.Keys(s.raw))
	slices.Sort(sources)
	return sources
}
