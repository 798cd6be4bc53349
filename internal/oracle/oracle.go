package oracle

import (
	"context"
	"errors"
)

var (
	// ErrUnavailable indicates the oracle could not be reached or refused the call.
	ErrUnavailable = errors.New("oracle_unavailable")
	// ErrEmptyResponse indicates the oracle answered without any candidate text.
	ErrEmptyResponse = errors.New("oracle_empty_response")
)

// Blob is an inline binary attachment, typically an uploaded invoice document.
type Blob struct {
	MIMEType string
	Data     []byte
}

// Part is a single fragment of a prompt: text or an inline blob.
type Part struct {
	Text   string
	Inline *Blob
}

// Turn is one message of a multi-turn conversation.
type Turn struct {
	Role  string
	Parts []Part
}

// Request describes a single generation call.
type Request struct {
	Model             string
	Parts             []Part
	History           []Turn
	SystemInstruction string
	Temperature       float64

	// ResponseSchema constrains the reply to a JSON document. When set,
	// ResponseMIMEType should be application/json.
	ResponseSchema   map[string]any
	ResponseMIMEType string
}

// Generator produces text from a prompt. Implementations must return
// ErrUnavailable for transport-level failures and ErrEmptyResponse when
// the reply carries no text.
type Generator interface {
	GenerateText(ctx context.Context, req Request) (string, error)
}

// GeneratorFunc adapts a function to the Generator interface.
type GeneratorFunc func(ctx context.Context, req Request) (string, error)

func (f GeneratorFunc) GenerateText(ctx context.Context, req Request) (string, error) {
	return f(ctx, req)
}
