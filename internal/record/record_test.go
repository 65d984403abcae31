package record

import (
	"encoding/json"
	"testing"
)

func TestRecordJSONKeepsOpaquePayload(t *testing.T) {
	raw := `{"id":"s1","typeName":"shape","type":"draw","x":2.5,"props":{"color":"red"}}`

	var r Record
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if r.ID != "s1" || r.TypeName != TypeShape {
		t.Fatalf("identity fields wrong: %+v", r)
	}
	if r.Payload["x"] != 2.5 {
		t.Fatalf("payload field lost: %+v", r.Payload)
	}

	buf, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var m map[string]interface{}
	if err := json.Unmarshal(buf, &m); err != nil {
		t.Fatalf("reparse: %v", err)
	}
	if m["id"] != "s1" || m["typeName"] != "shape" || m["x"] != 2.5 {
		t.Fatalf("marshaled record dropped fields: %v", m)
	}
	props, _ := m["props"].(map[string]interface{})
	if props["color"] != "red" {
		t.Fatalf("nested payload lost: %v", m)
	}
}

func TestRecordUnmarshalRejectsMissingIdentity(t *testing.T) {
	var r Record
	if err := json.Unmarshal([]byte(`{"typeName":"shape"}`), &r); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if err := json.Unmarshal([]byte(`{"id":"a"}`), &r); err == nil {
		t.Fatalf("expected error for missing typeName")
	}
}

func TestKindPredicates(t *testing.T) {
	for _, kind := range []string{TypeShape, TypeBinding, TypeAsset, TypePage} {
		if !Syncable(kind) {
			t.Fatalf("%s must be syncable", kind)
		}
	}
	for _, kind := range []string{TypeDocument, TypeInstance, TypeCamera, TypePointer, "selection"} {
		if Syncable(kind) {
			t.Fatalf("%s must not be syncable", kind)
		}
	}
	if !Drawable(TypeShape) || !Drawable(TypeBinding) {
		t.Fatalf("shape and binding are drawable")
	}
	if Drawable(TypeAsset) || Drawable(TypePage) {
		t.Fatalf("asset and page must survive snapshots")
	}
}
