package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/url"
	"path"
	"sync"
	"sync/atomic"
	"time"

	"boardsync/internal/record"
	"boardsync/internal/store"
	"boardsync/internal/wire"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// ConnState is the connection lifecycle state, readable at any time.
type ConnState int32

const (
	StateDisconnected ConnState = iota
	StateConnecting
	StateConnected
)

func (s ConnState) String() string {
	switch s {
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	default:
		return "disconnected"
	}
}

// Cache persists room snapshots between sessions.
type Cache interface {
	SaveRoom(room string, recs []record.Record) error
	LoadRoom(room string) ([]record.Record, error)
}

// Roster observes remote sessions seen in inbound updates.
type Roster interface {
	Touch(sessionID string)
}

// Options configure one sync client.
type Options struct {
	URL       string // ws base URL, e.g. ws://host:8080
	Room      string
	SessionID string // generated when empty
	Store     *store.Store
	Validator *record.Validator // optional; inbound records skipped when invalid
	Cache     Cache             // optional room snapshot persistence
	Roster    Roster            // optional collaborator tracking
	Reconnect bool              // redial with backoff after unexpected loss

	HandshakeTimeout time.Duration
}

// Client keeps one room's local store in sync with the server: it applies
// server snapshots and remote updates, publishes local document changes and
// answers liveness pings.
type Client struct {
	opts      Options
	sessionID string

	writeMu sync.Mutex
	conn    *websocket.Conn

	state     atomic.Int32
	alive     atomic.Bool
	done      chan struct{}
	closeOnce sync.Once

	unsubscribe func()
	warnLimiter *rate.Limiter
}

// Dial connects to the room and starts the sync loops.
func Dial(opts Options) (*Client, error) {
	if opts.Store == nil {
		return nil, errors.New("store is required")
	}
	if opts.Room == "" {
		return nil, errors.New("room code missing")
	}

	sessionID := opts.SessionID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	c := &Client{
		opts:        opts,
		sessionID:   sessionID,
		done:        make(chan struct{}),
		warnLimiter: rate.NewLimiter(1, 5), // cap noisy-frame logging
	}
	c.alive.Store(true)

	// Offline-first: render last known content until the snapshot arrives.
	// Loaded before the publisher subscribes, so nothing is echoed out.
	if opts.Cache != nil {
		cached, err := opts.Cache.LoadRoom(opts.Room)
		if err != nil {
			log.Printf("Error: loading cached room %s - %v", opts.Room, err)
		} else if len(cached) > 0 {
			opts.Store.Put(cached, store.SourceRemote)
		}
	}

	conn, err := c.connect()
	if err != nil {
		return nil, err
	}

	c.unsubscribe = opts.Store.Listen(c.publish, store.ListenOptions{
		Source: store.SourceUser,
		Scope:  store.ScopeDocument,
	})

	go c.readPump(conn)
	return c, nil
}

// State returns the current connection state.
func (c *Client) State() ConnState {
	return ConnState(c.state.Load())
}

// SessionID returns this client's session identity.
func (c *Client) SessionID() string {
	return c.sessionID
}

// Close tears the client down: publisher unsubscribed first so a half-torn
// client cannot emit one more send, then the socket closed with a normal
// closure. Safe to call more than once.
func (c *Client) Close() error {
	c.closeOnce.Do(func() {
		c.alive.Store(false)
		close(c.done)

		if c.unsubscribe != nil {
			c.unsubscribe()
		}

		c.writeMu.Lock()
		conn := c.conn
		c.conn = nil
		c.writeMu.Unlock()

		if conn != nil {
			deadline := time.Now().Add(time.Second)
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "client teardown")
			if err := conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil {
				log.Printf("Error: sending close frame for room %s - %v", c.opts.Room, err)
			}
			conn.Close()
		}

		c.state.Store(int32(StateDisconnected))
	})
	return nil
}

// endpoint builds <ws-base>/connect/<room>?sessionId=<sessionID>.
func (c *Client) endpoint() (string, error) {
	u, err := url.Parse(c.opts.URL)
	if err != nil {
		return "", fmt.Errorf("parse base URL %s: %w", c.opts.URL, err)
	}

	u.Path = path.Join(u.Path, "connect", c.opts.Room)
	q := u.Query()
	q.Set("sessionId", c.sessionID)
	u.RawQuery = q.Encode()
	return u.String(), nil
}

// connect dials the endpoint and installs the connection.
func (c *Client) connect() (*websocket.Conn, error) {
	c.state.Store(int32(StateConnecting))

	endpoint, err := c.endpoint()
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		return nil, err
	}

	timeout := c.opts.HandshakeTimeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}

	dialer := websocket.Dialer{HandshakeTimeout: timeout}
	conn, _, err := dialer.Dial(endpoint, nil)
	if err != nil {
		c.state.Store(int32(StateDisconnected))
		return nil, fmt.Errorf("dial %s: %w", endpoint, err)
	}

	c.writeMu.Lock()
	c.conn = conn
	c.writeMu.Unlock()
	c.state.Store(int32(StateConnected))
	return conn, nil
}

// readPump processes inbound frames in socket delivery order.
func (c *Client) readPump(conn *websocket.Conn) {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			c.state.Store(int32(StateDisconnected))
			if !c.alive.Load() {
				return // client teardown
			}
			log.Printf("Error: Reading message in room %s - %v", c.opts.Room, err)
			if c.opts.Reconnect {
				c.runReconnect()
			}
			return
		}

		if !c.alive.Load() {
			return
		}

		if err := c.handleMessage(msg); err != nil {
			if c.warnLimiter.Allow() {
				log.Printf("Error handling message in room %s: %v", c.opts.Room, err)
			}
			continue // Skip message
		}
	}
}

// handleMessage routes an inbound frame by its type tag.
func (c *Client) handleMessage(msg []byte) error {
	msgType, err := wire.DecodeType(msg)
	if err != nil {
		return err
	}

	switch msgType {
	case wire.TypeRoomState:
		return c.handleRoomState(msg)
	case wire.TypeDocumentUpdate:
		return c.handleDocumentUpdate(msg)
	case wire.TypePing:
		return c.send(wire.NewPong())
	default:
		return fmt.Errorf("unknown message type: %s", msgType)
	}
}

// handleRoomState applies an authoritative snapshot: drawables are replaced,
// every other record kind is preserved.
func (c *Client) handleRoomState(msg []byte) error {
	var m wire.RoomState
	if err := json.Unmarshal(msg, &m); err != nil {
		return fmt.Errorf("unmarshal room-state: %w", err)
	}

	incoming := c.screen(m.State.Records.Records())

	var stale []string
	for _, r := range c.opts.Store.AllRecords() {
		if record.Drawable(r.TypeName) {
			stale = append(stale, r.ID)
		}
	}

	c.opts.Store.Remove(stale, store.SourceRemote)
	c.opts.Store.Put(incoming, store.SourceRemote)
	c.saveSnapshot()
	return nil
}

// handleDocumentUpdate applies a remote incremental update. Updates carrying
// this client's own session id are reflections of its own sends and are
// dropped.
func (c *Client) handleDocumentUpdate(msg []byte) error {
	var m wire.DocumentUpdate
	if err := json.Unmarshal(msg, &m); err != nil {
		return fmt.Errorf("unmarshal document-update: %w", err)
	}

	if m.SessionID == c.sessionID {
		return nil // echo suppression
	}

	if c.opts.Roster != nil && m.SessionID != "" {
		c.opts.Roster.Touch(m.SessionID)
	}

	recs := c.screen(m.Data.Records.Records())
	if len(recs) == 0 {
		return nil
	}

	c.opts.Store.Put(recs, store.SourceRemote)
	c.saveSnapshot()
	return nil
}

// screen runs inbound records through the validator; invalid records are
// logged and skipped without affecting the rest of the batch.
func (c *Client) screen(recs []record.Record) []record.Record {
	if c.opts.Validator == nil {
		return recs
	}

	out := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		clean, err := c.opts.Validator.Validate(r)
		if err != nil {
			if c.warnLimiter.Allow() {
				log.Printf("Error: rejecting record %s in room %s - %v", r.ID, c.opts.Room, err)
			}
			continue
		}
		out = append(out, clean)
	}
	return out
}

// publish transmits one local document change as a single document-update.
// Registered only for user-sourced document-scope changes, so remote
// reconciliation can never feed back out.
func (c *Client) publish(ch store.Change) {
	if !c.alive.Load() {
		return
	}
	if c.State() != StateConnected {
		return
	}

	recs := ch.Records()
	syncable := make([]record.Record, 0, len(recs))
	for _, r := range recs {
		if record.Syncable(r.TypeName) {
			syncable = append(syncable, r)
		}
	}
	if len(syncable) == 0 {
		return
	}

	if err := c.send(wire.NewDocumentUpdate(syncable)); err != nil {
		log.Printf("Error: publishing update for room %s - %v", c.opts.Room, err)
	}
}

// send marshals and writes one frame, refusing when the socket is not open.
func (c *Client) send(v interface{}) error {
	msg, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("marshal outbound message: %w", err)
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if c.conn == nil || ConnState(c.state.Load()) != StateConnected {
		return errors.New("socket is not open")
	}
	return c.conn.WriteMessage(websocket.TextMessage, msg)
}

// saveSnapshot persists the current syncable records for offline startup.
func (c *Client) saveSnapshot() {
	if c.opts.Cache == nil {
		return
	}

	recs := make([]record.Record, 0)
	for _, r := range c.opts.Store.AllRecords() {
		if record.Syncable(r.TypeName) {
			recs = append(recs, r)
		}
	}

	if err := c.opts.Cache.SaveRoom(c.opts.Room, recs); err != nil {
		log.Printf("Error: saving room cache for %s - %v", c.opts.Room, err)
	}
}
