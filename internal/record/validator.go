package record

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
)

// Validator: validation and sanitization of inbound records
type Validator struct {
	validate  *validator.Validate
	sanitizer *bluemonday.Policy
}

func NewValidator() *Validator {
	// removes all HTML/scripts
	policy := bluemonday.StrictPolicy()

	return &Validator{
		validate:  validator.New(validator.WithRequiredStructEnabled()),
		sanitizer: policy,
	}
}

// Validate: checks a record's structure, validates shape payloads against
// their schemas and sanitizes string fields. Returns a sanitized copy.
func (v *Validator) Validate(rec Record) (Record, error) {
	if rec.ID == "" {
		return Record{}, fmt.Errorf("missing record id")
	}
	if rec.TypeName == "" {
		return Record{}, fmt.Errorf("missing typeName for record %s", rec.ID)
	}

	// Only shape payloads carry a schema; other kinds pass through with
	// string sanitization only.
	if rec.TypeName != TypeShape {
		return v.sanitizeRecord(rec), nil
	}

	shapeType, _ := rec.Payload["type"].(string)
	if !AllowedShapeTypes[shapeType] {
		return Record{}, fmt.Errorf("invalid shape type: %s (allowed types: draw, geo, line, text, note)", shapeType)
	}

	schema := schemaForShapeType(shapeType)
	if schema == nil {
		return Record{}, fmt.Errorf("no schema found for shape type: %s", shapeType)
	}

	// Convert map[string]interface{} to typed struct
	if err := mapToStruct(rec.Payload, schema); err != nil {
		return Record{}, fmt.Errorf("failed to parse shape data: %w", err)
	}

	// Validate the struct
	if err := v.validate.Struct(schema); err != nil {
		if validationErrors, ok := err.(validator.ValidationErrors); ok {
			return Record{}, formatValidationErrors(validationErrors)
		}
		return Record{}, fmt.Errorf("validation failed: %w", err)
	}

	return v.sanitizeRecord(rec), nil
}

func (v *Validator) sanitizeRecord(rec Record) Record {
	if rec.Payload == nil {
		return rec
	}
	return Record{
		ID:       rec.ID,
		TypeName: rec.TypeName,
		Payload:  v.sanitizeMap(rec.Payload),
	}
}

// mapToStruct: converts a map[string]interface{} to a typed struct using JSON marshaling
func mapToStruct(data map[string]interface{}, target interface{}) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal data: %w", err)
	}

	if err := json.Unmarshal(jsonData, target); err != nil {
		return fmt.Errorf("failed to unmarshal data: %w", err)
	}

	return nil
}

// sanitizeMap recursively sanitizes all string values in a map
func (v *Validator) sanitizeMap(data map[string]interface{}) map[string]interface{} {
	result := make(map[string]interface{}, len(data))

	for key, value := range data {
		result[key] = v.sanitizeValue(value)
	}

	return result
}

// sanitizeValue sanitizes a value based on its type
func (v *Validator) sanitizeValue(value interface{}) interface{} {
	if value == nil {
		return nil
	}

	switch val := value.(type) {
	case string:
		// Sanitize string to remove any HTML/scripts
		return v.sanitizer.Sanitize(val)
	case map[string]interface{}:
		return v.sanitizeMap(val)
	case []interface{}:
		result := make([]interface{}, len(val))
		for i, item := range val {
			result[i] = v.sanitizeValue(item)
		}
		return result
	default:
		// Return non-string values as-is (numbers, bools, etc.)
		return value
	}
}

// formatValidationErrors converts validator errors to a user-friendly error message
func formatValidationErrors(errors validator.ValidationErrors) error {
	var messages []string
	for _, err := range errors {
		messages = append(messages, formatSingleError(err))
	}
	return fmt.Errorf("validation failed: %s", messages[0]) // Return first error for simplicity
}

// formatSingleError formats a single validation error with common cases
func formatSingleError(err validator.FieldError) string {
	field := err.Field()
	tag := err.Tag()

	switch tag {
	case "required":
		return fmt.Sprintf("'%s' is required", field)
	case "min", "max":
		return fmt.Sprintf("'%s' value out of allowed range", field)
	default:
		return fmt.Sprintf("'%s' is invalid", field)
	}
}
