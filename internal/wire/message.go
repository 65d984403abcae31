package wire

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"boardsync/internal/record"
)

// Message types exchanged with the sync server.
const (
	TypeRoomState      = "room-state"
	TypeDocumentUpdate = "document-update"
	TypePing           = "ping"
	TypePong           = "pong"
)

// Envelope carries only the type tag, used to sniff a frame before the
// typed decode.
type Envelope struct {
	Type string `json:"type"`
}

// DecodeType extracts the message type from a raw frame.
func DecodeType(frame []byte) (string, error) {
	var env Envelope
	if err := json.Unmarshal(frame, &env); err != nil {
		return "", fmt.Errorf("unmarshal base message: %w", err)
	}
	if env.Type == "" {
		return "", fmt.Errorf("missing message type")
	}
	return env.Type, nil
}

// RoomState is the server's authoritative full snapshot of drawable content.
type RoomState struct {
	Type  string        `json:"type"`
	State RoomStateBody `json:"state"`
}

type RoomStateBody struct {
	Records RecordMap `json:"records"`
}

// DocumentUpdate carries incremental record replacements. Inbound updates
// are stamped with the originating sessionId by the server; outbound ones
// carry no sessionId.
type DocumentUpdate struct {
	Type      string     `json:"type"`
	Data      UpdateBody `json:"data"`
	SessionID string     `json:"sessionId,omitempty"`
	Timestamp int64      `json:"timestamp"`
}

type UpdateBody struct {
	Records RecordMap `json:"records"`
}

// Pong answers a server liveness probe.
type Pong struct {
	Type      string `json:"type"`
	Timestamp int64  `json:"timestamp"`
}

// NewDocumentUpdate builds an outbound update keyed by record id, stamped
// with the send time in Unix milliseconds.
func NewDocumentUpdate(recs []record.Record) DocumentUpdate {
	records := make(RecordMap, len(recs))
	for _, r := range recs {
		records[r.ID] = r
	}
	return DocumentUpdate{
		Type:      TypeDocumentUpdate,
		Data:      UpdateBody{Records: records},
		Timestamp: time.Now().UnixMilli(),
	}
}

func NewPong() Pong {
	return Pong{Type: TypePong, Timestamp: time.Now().UnixMilli()}
}

// RecordMap is a record collection keyed by id. Servers have shipped the
// records collection both as an id-keyed object and as a plain array;
// decoding normalizes either shape so nothing downstream branches on the
// container.
type RecordMap map[string]record.Record

func (m *RecordMap) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimLeft(data, " \t\r\n")
	if len(trimmed) == 0 {
		return fmt.Errorf("empty records collection")
	}

	if trimmed[0] == '[' {
		var list []record.Record
		if err := json.Unmarshal(data, &list); err != nil {
			return err
		}
		out := make(RecordMap, len(list))
		for _, r := range list {
			out[r.ID] = r
		}
		*m = out
		return nil
	}

	var keyed map[string]record.Record
	if err := json.Unmarshal(data, &keyed); err != nil {
		return err
	}
	out := make(RecordMap, len(keyed))
	for _, r := range keyed {
		// The record's own id wins over the map key.
		out[r.ID] = r
	}
	*m = out
	return nil
}

// Records returns the collection as a slice ordered by record id.
func (m RecordMap) Records() []record.Record {
	out := make([]record.Record, 0, len(m))
	for _, r := range m {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
