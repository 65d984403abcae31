package client

import (
	"errors"
	"log"
	"sync"

	"boardsync/internal/store"
)

// Registry hands out one shared client per room with reference counting, so
// teardown is deterministic instead of relying on package-level connection
// maps.
type Registry struct {
	base    Options
	mu      sync.Mutex
	handles map[string]*Handle
}

// Handle is one acquired room session.
type Handle struct {
	Client *Client
	Store  *store.Store
	refs   int
}

// NewRegistry creates a registry. The base options supply everything but the
// room and store; each room gets its own store.
func NewRegistry(base Options) *Registry {
	return &Registry{
		base:    base,
		handles: make(map[string]*Handle),
	}
}

// Acquire returns the handle for a room, dialing on first acquisition.
func (r *Registry) Acquire(room string) (*Handle, error) {
	if room == "" {
		return nil, errors.New("room code missing")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if h, exists := r.handles[room]; exists {
		h.refs++
		return h, nil
	}

	opts := r.base
	opts.Room = room
	opts.Store = store.New()

	cl, err := Dial(opts)
	if err != nil {
		return nil, err
	}

	h := &Handle{Client: cl, Store: opts.Store, refs: 1}
	r.handles[room] = h
	return h, nil
}

// Release drops one reference to a room, closing the client when the last
// reference goes away. Releasing an unknown room is a no-op.
func (r *Registry) Release(room string) {
	r.mu.Lock()
	h, exists := r.handles[room]
	if exists {
		h.refs--
		if h.refs <= 0 {
			delete(r.handles, room)
		}
	}
	r.mu.Unlock()

	if exists && h.refs <= 0 {
		if err := h.Client.Close(); err != nil {
			log.Printf("Error: closing client for room %s - %v", room, err)
		}
	}
}

// RoomCount returns the number of rooms currently held open.
func (r *Registry) RoomCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.handles)
}
