package presence

import (
	"sort"
	"sync"
	"time"
)

// Peer is a remote collaborator observed on the wire.
type Peer struct {
	SessionID string
	Color     string
	LastSeen  time.Time
}

// Roster tracks the remote sessions contributing to a room, assigning each a
// stable display color. Purely local; nothing here is ever transmitted.
type Roster struct {
	peers  map[string]*Peer
	colors *ColorGenerator
	mu     sync.RWMutex
}

func NewRoster() *Roster {
	return &Roster{
		peers:  make(map[string]*Peer),
		colors: NewColorGenerator(),
	}
}

// Touch records activity from a session, assigning a color on first sight.
func (r *Roster) Touch(sessionID string) {
	if sessionID == "" {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if p, exists := r.peers[sessionID]; exists {
		p.LastSeen = time.Now()
		return
	}

	r.peers[sessionID] = &Peer{
		SessionID: sessionID,
		Color:     r.colors.NextColor(),
		LastSeen:  time.Now(),
	}
}

// Peer returns a snapshot of one peer.
func (r *Roster) Peer(sessionID string) (Peer, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, exists := r.peers[sessionID]
	if !exists {
		return Peer{}, false
	}
	return *p, true
}

// Peers returns a snapshot of all peers ordered by session id.
func (r *Roster) Peers() []Peer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Peer, 0, len(r.peers))
	for _, p := range r.peers {
		out = append(out, *p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SessionID < out[j].SessionID })
	return out
}

// Cleanup removes peers idle for longer than maxIdle.
func (r *Roster) Cleanup(maxIdle time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for id, p := range r.peers {
		if now.Sub(p.LastSeen) > maxIdle {
			delete(r.peers, id)
		}
	}
}
