package record

import (
	"testing"
)

func TestValidateDrawShape(t *testing.T) {
	v := NewValidator()

	rec := Record{
		ID:       "s1",
		TypeName: TypeShape,
		Payload: map[string]interface{}{
			"type":   "draw",
			"x":      10.0,
			"y":      20.0,
			"points": []interface{}{map[string]interface{}{"x": 0.0, "y": 0.0}, map[string]interface{}{"x": 5.0, "y": 5.0}},
		},
	}

	clean, err := v.Validate(rec)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if clean.ID != "s1" || clean.Payload["x"] != 10.0 {
		t.Fatalf("validated record mangled: %+v", clean)
	}
}

func TestValidateRejectsUnknownShapeType(t *testing.T) {
	v := NewValidator()

	rec := Record{
		ID:       "s1",
		TypeName: TypeShape,
		Payload:  map[string]interface{}{"type": "hologram"},
	}

	if _, err := v.Validate(rec); err == nil {
		t.Fatalf("expected error for unknown shape type")
	}
}

func TestValidateRejectsOutOfRangeCoordinate(t *testing.T) {
	v := NewValidator()

	rec := Record{
		ID:       "s1",
		TypeName: TypeShape,
		Payload: map[string]interface{}{
			"type":   "draw",
			"x":      2000000.0,
			"points": []interface{}{map[string]interface{}{"x": 0.0, "y": 0.0}},
		},
	}

	if _, err := v.Validate(rec); err == nil {
		t.Fatalf("expected range validation error")
	}
}

func TestValidateSanitizesText(t *testing.T) {
	v := NewValidator()

	rec := Record{
		ID:       "s1",
		TypeName: TypeShape,
		Payload: map[string]interface{}{
			"type": "text",
			"x":    1.0,
			"y":    1.0,
			"text": "hello <b>world</b>",
		},
	}

	clean, err := v.Validate(rec)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if clean.Payload["text"] != "hello world" {
		t.Fatalf("expected markup stripped, got %q", clean.Payload["text"])
	}
	// original record untouched
	if rec.Payload["text"] != "hello <b>world</b>" {
		t.Fatalf("input record mutated")
	}
}

func TestValidatePassesNonShapeKinds(t *testing.T) {
	v := NewValidator()

	rec := Record{
		ID:       "p1",
		TypeName: TypePage,
		Payload:  map[string]interface{}{"name": "Page <i>1</i>"},
	}

	clean, err := v.Validate(rec)
	if err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if clean.Payload["name"] != "Page 1" {
		t.Fatalf("expected sanitized page name, got %q", clean.Payload["name"])
	}
}

func TestValidateRejectsMissingIdentity(t *testing.T) {
	v := NewValidator()

	if _, err := v.Validate(Record{TypeName: TypeShape}); err == nil {
		t.Fatalf("expected error for missing id")
	}
	if _, err := v.Validate(Record{ID: "a"}); err == nil {
		t.Fatalf("expected error for missing typeName")
	}
}
