package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/recouvro/internal/dunning"
	"github.com/smallbiznis/recouvro/internal/extraction"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/locale"
)

var (
	ErrEmptyInput        = errors.New("empty_input")
	ErrNotFound          = errors.New("procedure_not_found")
	ErrInvalidState      = errors.New("invalid_procedure_state")
	ErrEmptySequence     = errors.New("empty_sequence")
	ErrConfirmInFlight   = errors.New("confirm_in_flight")
	ErrPersistenceFailed = errors.New("persistence_failed")
)

// Extractor produces an invoice draft from raw input.
type Extractor interface {
	ExtractText(ctx context.Context, text string, lang locale.Language) (extraction.Draft, error)
	ExtractFile(ctx context.Context, data []byte, mimeType string, lang locale.Language) (extraction.Draft, error)
}

// SequenceGenerator produces the escalation sequence for a draft.
type SequenceGenerator interface {
	GenerateSequence(ctx context.Context, clientName string, amount float64, lang locale.Language) ([]dunning.Draft, error)
}

type StartRequest struct {
	Text     string
	FileData []byte
	FileMime string
	Language string
}

type Service interface {
	Start(ctx context.Context, req StartRequest) (Procedure, error)
	Get(ctx context.Context, id string) (Procedure, error)
	Confirm(ctx context.Context, id string) (invoicedomain.Invoice, error)
	Cancel(ctx context.Context, id string) (Procedure, error)
}
