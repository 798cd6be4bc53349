package dunning

import (
	"errors"
	"strings"
)

// ErrMalformedResponse indicates the oracle replied with JSON that does not
// satisfy the sequence contract.
var ErrMalformedResponse = errors.New("malformed_sequence_response")

// Tone is the canonical severity register of a dunning letter.
type Tone string

const (
	ToneEmpathetic Tone = "empathetic"
	ToneFirm       Tone = "firm"
	ToneLegal      Tone = "legal"
)

// ParseTone maps canonical and localized labels onto the enum. Labels the
// oracle invents are kept verbatim, lowercased.
func ParseTone(value string) Tone {
	normalized := strings.ToLower(strings.TrimSpace(value))
	switch normalized {
	case "empathetic", "empathique", "polite", "courtois", "courtoise":
		return ToneEmpathetic
	case "firm", "ferme":
		return ToneFirm
	case "legal", "légal", "juridique", "formal notice", "mise en demeure":
		return ToneLegal
	default:
		return Tone(normalized)
	}
}

// Draft is one generated dunning letter.
type Draft struct {
	Level   int    `json:"level"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
	Tone    Tone   `json:"tone"`
}
