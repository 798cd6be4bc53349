package extraction

// BuildDraftJSONSchema returns the draft contract as a generic schema map.
// It is passed to the oracle as a response constraint and replayed locally
// to validate the reply.
func BuildDraftJSONSchema() map[string]any {
	return map[string]any{
		"type":                 "object",
		"additionalProperties": false,
		"properties": map[string]any{
			"clientName": map[string]any{"type": "string"},
			"amount":     map[string]any{"type": "number", "minimum": 0},
			"dueDate":    map[string]any{"type": "string", "pattern": `^\d{4}-\d{2}-\d{2}$`},
			"riskLevel": map[string]any{
				"type": "string",
				"enum": []string{"Faible", "Moyen", "Élevé", "Low", "Medium", "High"},
			},
		},
		"required": []string{"clientName", "amount", "dueDate", "riskLevel"},
	}
}
