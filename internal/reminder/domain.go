package reminder

import (
	"context"
	"errors"
	"io"
)

var (
	ErrInvalidRecipient = errors.New("invalid_recipient")
	ErrInvalidLevel     = errors.New("invalid_level")
	ErrNoDraft          = errors.New("no_draft_available")
)

type SendRequest struct {
	InvoiceID string
	To        string
	Level     int
	Language  string
	// Subject and Body override the generated draft when set.
	Subject string
	Body    string
}

type NoticeRequest struct {
	InvoiceID string
	Language  string
}

type Service interface {
	Send(ctx context.Context, req SendRequest) error
	Notice(ctx context.Context, req NoticeRequest) (io.Reader, error)
}
