package letters

import "errors"

var (
	ErrUnknownKind  = errors.New("unknown_letter_kind")
	ErrEmptyContext = errors.New("empty_letter_context")
)

// Kind selects which administrative letter to draft.
type Kind string

const (
	KindFineDispute Kind = "fine"
	KindVisa        Kind = "visa"
	KindReview      Kind = "review"
)

func ParseKind(value string) (Kind, bool) {
	switch Kind(value) {
	case KindFineDispute, KindVisa, KindReview:
		return Kind(value), true
	default:
		return "", false
	}
}

// Letter is a generated administrative letter body.
type Letter struct {
	Kind     Kind   `json:"kind"`
	Language string `json:"language"`
	Body     string `json:"body"`
}
