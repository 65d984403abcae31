package store

import (
	"sort"
	"sync"

	"boardsync/internal/record"
)

// Listener receives store change notifications.
type Listener func(Change)

// ListenOptions filter which changes a listener receives. The zero value
// matches every change.
type ListenOptions struct {
	Source Source
	Scope  Scope
}

type listenerEntry struct {
	fn   Listener
	opts ListenOptions
}

// Store is the client-local authoritative set of records for one whiteboard
// session. At most one record per id.
type Store struct {
	mu        sync.RWMutex
	records   map[string]record.Record
	listeners map[int]listenerEntry
	nextToken int
}

func New() *Store {
	return &Store{
		records:   make(map[string]record.Record),
		listeners: make(map[int]listenerEntry),
	}
}

// Put inserts or replaces records keyed by id. An update is a full
// replacement, never a partial patch. Records of mixed scopes emit one
// change per scope.
func (s *Store) Put(recs []record.Record, src Source) {
	if len(recs) == 0 {
		return
	}

	changes := make(map[Scope]*Change)

	s.mu.Lock()
	for _, r := range recs {
		if r.ID == "" {
			continue
		}

		scope := scopeOf(r.TypeName)
		ch, ok := changes[scope]
		if !ok {
			ch = &Change{
				Added:   make(map[string]record.Record),
				Updated: make(map[string]record.Record),
				Removed: make(map[string]record.Record),
				Source:  src,
				Scope:   scope,
			}
			changes[scope] = ch
		}

		if _, exists := s.records[r.ID]; exists {
			ch.Updated[r.ID] = r
		} else {
			ch.Added[r.ID] = r
		}
		s.records[r.ID] = r
	}
	entries := s.snapshotListeners()
	s.mu.Unlock()

	s.notify(entries, changes)
}

// Remove deletes records by id. Unknown ids are ignored.
func (s *Store) Remove(ids []string, src Source) {
	if len(ids) == 0 {
		return
	}

	changes := make(map[Scope]*Change)

	s.mu.Lock()
	for _, id := range ids {
		r, exists := s.records[id]
		if !exists {
			continue
		}

		scope := scopeOf(r.TypeName)
		ch, ok := changes[scope]
		if !ok {
			ch = &Change{
				Added:   make(map[string]record.Record),
				Updated: make(map[string]record.Record),
				Removed: make(map[string]record.Record),
				Source:  src,
				Scope:   scope,
			}
			changes[scope] = ch
		}

		ch.Removed[id] = r
		delete(s.records, id)
	}
	entries := s.snapshotListeners()
	s.mu.Unlock()

	s.notify(entries, changes)
}

// Get retrieves a record by id.
func (s *Store) Get(id string) (record.Record, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	r, ok := s.records[id]
	return r, ok
}

// AllRecords returns a snapshot of every record, ordered by id.
func (s *Store) AllRecords() []record.Record {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]record.Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Count returns the number of records in the store.
func (s *Store) Count() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return len(s.records)
}

// Listen registers a change listener and returns its unsubscribe function.
func (s *Store) Listen(fn Listener, opts ListenOptions) func() {
	s.mu.Lock()
	token := s.nextToken
	s.nextToken++
	s.listeners[token] = listenerEntry{fn: fn, opts: opts}
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.listeners, token)
		s.mu.Unlock()
	}
}

// snapshotListeners copies the listener set; callers hold the lock.
func (s *Store) snapshotListeners() []listenerEntry {
	entries := make([]listenerEntry, 0, len(s.listeners))
	for _, e := range s.listeners {
		entries = append(entries, e)
	}
	return entries
}

// notify delivers changes outside the lock so listeners may call back into
// the store. Document-scope changes are delivered before session-scope ones.
func (s *Store) notify(entries []listenerEntry, changes map[Scope]*Change) {
	for _, scope := range []Scope{ScopeDocument, ScopeSession} {
		ch, ok := changes[scope]
		if !ok || ch.Empty() {
			continue
		}
		for _, e := range entries {
			if e.opts.Source != SourceAll && e.opts.Source != ch.Source {
				continue
			}
			if e.opts.Scope != ScopeAll && e.opts.Scope != ch.Scope {
				continue
			}
			e.fn(*ch)
		}
	}
}
