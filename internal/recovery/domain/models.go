package domain

import (
	"time"

	"github.com/smallbiznis/recouvro/internal/dunning"
	"github.com/smallbiznis/recouvro/internal/extraction"
	"github.com/smallbiznis/recouvro/internal/locale"
)

// State is the explicit workflow position of a procedure.
type State string

const (
	StateExtracting      State = "extracting"
	StateDraftReady      State = "draft_ready"
	StateSequencePending State = "sequence_pending"
	StateSequenceReady   State = "sequence_ready"
	StateConfirmed       State = "confirmed"
	StateCancelled       State = "cancelled"
)

// Failure records a non-fatal oracle or decode incident during the workflow.
type Failure struct {
	Stage   string `json:"stage"` // extraction, sequence, persistence
	Kind    string `json:"kind"`  // unavailable, empty_response, malformed
	Message string `json:"message"`
}

// Procedure is one recovery workflow instance.
type Procedure struct {
	ID           string           `json:"id"`
	Language     locale.Language  `json:"language"`
	State        State            `json:"state"`
	Draft        extraction.Draft `json:"draft"`
	UsedFallback bool             `json:"used_fallback"`
	Sequence     []dunning.Draft  `json:"sequence"`
	Failures     []Failure        `json:"failures,omitempty"`
	InvoiceID    string           `json:"invoice_id,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	UpdatedAt    time.Time        `json:"updated_at"`
}
