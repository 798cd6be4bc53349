package locale

import "strings"

// Language selects the output language for generated content.
type Language string

const (
	French  Language = "fr"
	English Language = "en"
)

// Parse normalizes a language tag, defaulting to French like the product UI.
func Parse(value string) Language {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "en", "en-us", "en-gb", "english":
		return English
	default:
		return French
	}
}

// Name returns the English name of the language for prompt text.
func (l Language) Name() string {
	if l == English {
		return "English"
	}
	return "French"
}
