package adapter

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// envelopeSchema accepts either a bare array of records or an object whose
// "jobs" property is an array. Records themselves are not constrained; field
// coercion handles them.
const envelopeSchema = `{
	"anyOf": [
		{"type": "array"},
		{
			"type": "object",
			"required": ["jobs"],
			"properties": {"jobs": {"type": "array"}}
		}
	]
}`

var envelope = gojsonschema.NewStringLoader(envelopeSchema)

// validateEnvelope checks the raw body against envelopeSchema. The returned
// error lists the schema violations.
func validateEnvelope(body []byte) error {
	result, err := gojsonschema.Validate(envelope, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("validate envelope: %w", err)
	}
	if result.Valid() {
		return nil
	}
	msgs := make([]string, 0, len(result.Errors()))
	for _, e := range result.Errors() {
		msgs = append(msgs, e.String())
	}
	return fmt.Errorf("no jobs array found in the response: %s", strings.Join(msgs, "; "))
}

// extractRecords returns the record list from an envelope that already passed
// validateEnvelope.
func extractRecords(payload any) ([]any, bool) {
	switch p := payload.(type) {
	case []any:
		return p, true
	case map[string]any:
		jobs, ok := p["jobs"].([]any)
		return jobs, ok
	}
	return nil, false
}
