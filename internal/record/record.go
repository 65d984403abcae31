package record

import (
	"encoding/json"
	"fmt"
)

// Record kinds carried by the sync protocol.
const (
	TypeShape   = "shape"
	TypeBinding = "binding"
	TypeAsset   = "asset"
	TypePage    = "page"

	// Session-scope kinds that live only on this client.
	TypeDocument = "document"
	TypeInstance = "instance"
	TypeCamera   = "camera"
	TypePointer  = "pointer"
)

var syncableTypes = map[string]bool{
	TypeShape:   true,
	TypeBinding: true,
	TypeAsset:   true,
	TypePage:    true,
}

var drawableTypes = map[string]bool{
	TypeShape:   true,
	TypeBinding: true,
}

// Syncable reports whether records of this kind are transmitted to the server.
func Syncable(typeName string) bool {
	return syncableTypes[typeName]
}

// Drawable reports whether records of this kind are replaced by a room snapshot.
func Drawable(typeName string) bool {
	return drawableTypes[typeName]
}

// Record is one unit of whiteboard document state. Everything beyond id and
// typeName is an opaque payload owned by the rendering layer and passed
// through unmodified.
type Record struct {
	ID       string
	TypeName string
	Payload  map[string]interface{}
}

// MarshalJSON flattens the payload back around id and typeName.
func (r Record) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(r.Payload)+2)
	for k, v := range r.Payload {
		m[k] = v
	}
	m["id"] = r.ID
	m["typeName"] = r.TypeName
	return json.Marshal(m)
}

// UnmarshalJSON extracts id and typeName and keeps the rest as payload.
func (r *Record) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	id, ok := m["id"].(string)
	if !ok || id == "" {
		return fmt.Errorf("missing record id")
	}

	typeName, ok := m["typeName"].(string)
	if !ok || typeName == "" {
		return fmt.Errorf("missing typeName for record %s", id)
	}

	delete(m, "id")
	delete(m, "typeName")

	r.ID = id
	r.TypeName = typeName
	r.Payload = m
	return nil
}
