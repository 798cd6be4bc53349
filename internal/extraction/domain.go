package extraction

import (
	"errors"
	"strings"

	"github.com/smallbiznis/recouvro/internal/locale"
)

var (
	// ErrEmptyInput indicates no text or document was provided.
	ErrEmptyInput = errors.New("empty_input")
	// ErrMalformedResponse indicates the oracle replied with JSON that does
	// not satisfy the draft contract.
	ErrMalformedResponse = errors.New("malformed_extraction_response")
)

// RiskLevel is the assessed non-payment risk of a draft.
type RiskLevel string

const (
	RiskLow    RiskLevel = "low"
	RiskMedium RiskLevel = "medium"
	RiskHigh   RiskLevel = "high"
)

// ParseRiskLevel maps canonical and localized labels onto the enum.
// Unknown labels degrade to low.
func ParseRiskLevel(value string) RiskLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "medium", "moyen":
		return RiskMedium
	case "high", "élevé", "eleve", "élevée":
		return RiskHigh
	default:
		return RiskLow
	}
}

// Localized returns the display label used by the product UI.
func (r RiskLevel) Localized(lang locale.Language) string {
	if lang == locale.English {
		switch r {
		case RiskHigh:
			return "High"
		case RiskMedium:
			return "Medium"
		default:
			return "Low"
		}
	}
	switch r {
	case RiskHigh:
		return "Élevé"
	case RiskMedium:
		return "Moyen"
	default:
		return "Faible"
	}
}

// DraftStatusPending is the only status a draft carries before confirmation.
const DraftStatusPending = "pending"

// Draft is the structured result of analyzing invoice text or a document.
type Draft struct {
	ID         string    `json:"id"`
	ClientName string    `json:"client_name"`
	Amount     float64   `json:"amount"`
	DueDate    string    `json:"due_date"`
	RiskLevel  RiskLevel `json:"risk_level"`
	Status     string    `json:"status"`

	// MissingFields flags draft fields the oracle left empty or zero so the
	// UI can prompt the user before confirmation.
	MissingFields []string `json:"missing_fields,omitempty"`
}

func missingFields(clientName string, amount float64, dueDate string) []string {
	var missing []string
	if strings.TrimSpace(clientName) == "" {
		missing = append(missing, "client_name")
	}
	if amount <= 0 {
		missing = append(missing, "amount")
	}
	if strings.TrimSpace(dueDate) == "" {
		missing = append(missing, "due_date")
	}
	return missing
}
