package dunning

// BuildSequenceJSONSchema returns the sequence contract as a generic schema
// map, sent to the oracle and replayed locally.
func BuildSequenceJSONSchema() map[string]any {
	return map[string]any{
		"type": "array",
		"items": map[string]any{
			"type":                 "object",
			"additionalProperties": false,
			"properties": map[string]any{
				"level":   map[string]any{"type": "integer", "minimum": 1},
				"subject": map[string]any{"type": "string", "minLength": 1},
				"body":    map[string]any{"type": "string", "minLength": 1},
				"tone":    map[string]any{"type": "string"},
			},
			"required": []string{"level", "subject", "body", "tone"},
		},
	}
}
