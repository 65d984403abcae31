package store

import (
	"sort"

	"boardsync/internal/record"
)

// Source identifies who caused a store mutation.
type Source int

const (
	SourceAll Source = iota // listener filter wildcard, never a mutation source
	SourceUser
	SourceRemote
)

func (s Source) String() string {
	switch s {
	case SourceUser:
		return "user"
	case SourceRemote:
		return "remote"
	case SourceAll:
		return "all"
	default:
		return "unknown"
	}
}

// Scope separates durable document content from ephemeral session state.
type Scope int

const (
	ScopeAll Scope = iota // listener filter wildcard
	ScopeDocument
	ScopeSession
)

func (s Scope) String() string {
	switch s {
	case ScopeDocument:
		return "document"
	case ScopeSession:
		return "session"
	case ScopeAll:
		return "all"
	default:
		return "unknown"
	}
}

// scopeOf: session-scope record kinds never leave this client
func scopeOf(typeName string) Scope {
	switch typeName {
	case record.TypeInstance, record.TypeCamera, record.TypePointer:
		return ScopeSession
	default:
		return ScopeDocument
	}
}

// Change describes one store mutation batch.
type Change struct {
	Added   map[string]record.Record
	Updated map[string]record.Record
	Removed map[string]record.Record
	Source  Source
	Scope   Scope
}

// Records flattens added, updated and removed into one slice ordered by
// record id. Downstream consumers go through here instead of branching on
// the three collections.
func (c Change) Records() []record.Record {
	out := make([]record.Record, 0, len(c.Added)+len(c.Updated)+len(c.Removed))
	for _, r := range c.Added {
		out = append(out, r)
	}
	for _, r := range c.Updated {
		out = append(out, r)
	}
	for _, r := range c.Removed {
		out = append(out, r)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Empty reports whether the change carries no records at all.
func (c Change) Empty() bool {
	return len(c.Added) == 0 && len(c.Updated) == 0 && len(c.Removed) == 0
}
