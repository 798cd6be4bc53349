package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/dunning"
	"github.com/smallbiznis/recouvro/internal/extraction"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/observability/metrics"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"github.com/smallbiznis/recouvro/internal/recovery/domain"
)

type Params struct {
	fx.In

	Log       *zap.Logger
	Clock     clock.Clock
	Extractor domain.Extractor
	Sequencer domain.SequenceGenerator
	Invoices  invoicedomain.Service
	Metrics   *metrics.Metrics `optional:"true"`
}

type service struct {
	log       *zap.Logger
	clock     clock.Clock
	extractor domain.Extractor
	sequencer domain.SequenceGenerator
	invoices  invoicedomain.Service
	metrics   *metrics.Metrics

	mu         sync.Mutex
	procedures map[string]*procedure
}

// procedure wraps the public snapshot with the confirm guard. The guard is
// separate from State so a failed insert can roll back to sequence_ready
// without losing the draft or the sequence.
type procedure struct {
	domain.Procedure
	confirming bool
}

func New(p Params) domain.Service {
	return &service{
		log:        p.Log.Named("recovery.service"),
		clock:      p.Clock,
		extractor:  p.Extractor,
		sequencer:  p.Sequencer,
		invoices:   p.Invoices,
		metrics:    p.Metrics,
		procedures: make(map[string]*procedure),
	}
}

func (s *service) Start(ctx context.Context, req domain.StartRequest) (domain.Procedure, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" && len(req.FileData) == 0 {
		return domain.Procedure{}, domain.ErrEmptyInput
	}

	lang := locale.Parse(req.Language)
	now := s.clock.Now()
	proc := &procedure{Procedure: domain.Procedure{
		ID:        uuid.NewString(),
		Language:  lang,
		State:     domain.StateExtracting,
		CreatedAt: now,
		UpdatedAt: now,
	}}

	draft, err := s.runExtraction(ctx, text, req.FileData, req.FileMime, lang)
	if err != nil {
		proc.Failures = append(proc.Failures, domain.Failure{
			Stage:   "extraction",
			Kind:    failureKind(err),
			Message: err.Error(),
		})
		proc.UsedFallback = true
		draft = extraction.FallbackDraft(s.clock, lang)
		s.log.Warn("extraction failed, using fallback draft",
			zap.String("procedure_id", proc.ID),
			zap.Error(err))
	}
	proc.Draft = draft
	proc.State = domain.StateDraftReady

	proc.State = domain.StateSequencePending
	clientName := strings.TrimSpace(draft.ClientName)
	if clientName == "" {
		clientName = "Client"
	}
	amount := draft.Amount
	if amount < 0 {
		amount = 0
	}
	sequence, err := s.sequencer.GenerateSequence(ctx, clientName, amount, lang)
	if err != nil {
		proc.Failures = append(proc.Failures, domain.Failure{
			Stage:   "sequence",
			Kind:    failureKind(err),
			Message: err.Error(),
		})
		sequence = nil
		s.log.Warn("sequence generation failed",
			zap.String("procedure_id", proc.ID),
			zap.Error(err))
	}
	proc.Sequence = sequence
	proc.State = domain.StateSequenceReady
	proc.UpdatedAt = s.clock.Now()

	s.mu.Lock()
	s.procedures[proc.ID] = proc
	s.mu.Unlock()

	return proc.Procedure, nil
}

func (s *service) runExtraction(ctx context.Context, text string, fileData []byte, fileMime string, lang locale.Language) (extraction.Draft, error) {
	if len(fileData) > 0 {
		return s.extractor.ExtractFile(ctx, fileData, fileMime, lang)
	}
	return s.extractor.ExtractText(ctx, text, lang)
}

func (s *service) Get(ctx context.Context, id string) (domain.Procedure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc, ok := s.procedures[id]
	if !ok {
		return domain.Procedure{}, domain.ErrNotFound
	}
	return proc.Procedure, nil
}

func (s *service) Confirm(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	s.mu.Lock()
	proc, ok := s.procedures[id]
	if !ok {
		s.mu.Unlock()
		return invoicedomain.Invoice{}, domain.ErrNotFound
	}
	if proc.confirming {
		s.mu.Unlock()
		return invoicedomain.Invoice{}, domain.ErrConfirmInFlight
	}
	if proc.State != domain.StateSequenceReady {
		s.mu.Unlock()
		return invoicedomain.Invoice{}, fmt.Errorf("%w: %s", domain.ErrInvalidState, proc.State)
	}
	if len(proc.Sequence) == 0 {
		s.mu.Unlock()
		return invoicedomain.Invoice{}, domain.ErrEmptySequence
	}
	proc.confirming = true
	req := s.buildCreateRequest(proc.Draft, proc.Language, proc.Sequence)
	s.mu.Unlock()

	inv, err := s.invoices.Create(ctx, req)
	if err != nil {
		s.mu.Lock()
		proc.confirming = false
		proc.Failures = append(proc.Failures, domain.Failure{
			Stage:   "persistence",
			Kind:    "store",
			Message: err.Error(),
		})
		proc.UpdatedAt = s.clock.Now()
		s.mu.Unlock()
		s.log.Error("invoice persistence failed, procedure kept for retry",
			zap.String("procedure_id", id),
			zap.Error(err))
		return invoicedomain.Invoice{}, fmt.Errorf("%w: %v", domain.ErrPersistenceFailed, err)
	}

	s.mu.Lock()
	proc.confirming = false
	proc.State = domain.StateConfirmed
	proc.InvoiceID = strconv.FormatInt(int64(inv.ID), 10)
	proc.UpdatedAt = s.clock.Now()
	s.mu.Unlock()

	s.metrics.RecordConfirmation()
	s.log.Info("recovery procedure confirmed",
		zap.String("procedure_id", id),
		zap.String("invoice_id", proc.InvoiceID))
	return inv, nil
}

func (s *service) buildCreateRequest(draft extraction.Draft, lang locale.Language, sequence []dunning.Draft) invoicedomain.CreateInvoiceRequest {
	clientName := strings.TrimSpace(draft.ClientName)
	if clientName == "" {
		if lang == locale.French {
			clientName = "Inconnu"
		} else {
			clientName = "Unknown"
		}
	}
	amount := draft.Amount
	if amount < 0 {
		amount = 0
	}
	dueDate := strings.TrimSpace(draft.DueDate)
	if dueDate == "" {
		dueDate = s.clock.Now().Format("2006-01-02")
	}
	return invoicedomain.CreateInvoiceRequest{
		ClientName:        clientName,
		Amount:            amount,
		DueDate:           dueDate,
		Status:            invoicedomain.StatusRecoveryActive,
		RiskLevel:         string(draft.RiskLevel),
		LastAction:        "recovery_started",
		AIAnalysis:        analysisSummary(sequence),
		RecommendedAction: firstSubject(sequence),
		ActionType:        "dunning_sequence",
	}
}

func (s *service) Cancel(ctx context.Context, id string) (domain.Procedure, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	proc, ok := s.procedures[id]
	if !ok {
		return domain.Procedure{}, domain.ErrNotFound
	}
	if proc.confirming || proc.State == domain.StateConfirmed || proc.State == domain.StateCancelled {
		return domain.Procedure{}, fmt.Errorf("%w: %s", domain.ErrInvalidState, proc.State)
	}
	proc.State = domain.StateCancelled
	proc.UpdatedAt = s.clock.Now()
	return proc.Procedure, nil
}

func failureKind(err error) string {
	switch {
	case errors.Is(err, oracle.ErrUnavailable):
		return "unavailable"
	case errors.Is(err, oracle.ErrEmptyResponse):
		return "empty_response"
	case errors.Is(err, extraction.ErrMalformedResponse), errors.Is(err, dunning.ErrMalformedResponse):
		return "malformed"
	default:
		return "error"
	}
}

func analysisSummary(sequence []dunning.Draft) string {
	if len(sequence) == 0 {
		return ""
	}
	return fmt.Sprintf("%d-step dunning sequence generated", len(sequence))
}

func firstSubject(sequence []dunning.Draft) string {
	if len(sequence) == 0 {
		return ""
	}
	return sequence[0].Subject
}
