package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/dunning"
	"github.com/smallbiznis/recouvro/internal/extraction"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"github.com/smallbiznis/recouvro/internal/recovery/domain"
)

type extractorStub struct {
	draft extraction.Draft
	err   error
}

func (s *extractorStub) ExtractText(ctx context.Context, text string, lang locale.Language) (extraction.Draft, error) {
	return s.draft, s.err
}

func (s *extractorStub) ExtractFile(ctx context.Context, data []byte, mimeType string, lang locale.Language) (extraction.Draft, error) {
	return s.draft, s.err
}

type sequencerStub struct {
	sequence  []dunning.Draft
	err       error
	gotClient string
	gotAmount float64
}

func (s *sequencerStub) GenerateSequence(ctx context.Context, clientName string, amount float64, lang locale.Language) ([]dunning.Draft, error) {
	s.gotClient = clientName
	s.gotAmount = amount
	return s.sequence, s.err
}

type invoiceStub struct {
	invoicedomain.Service

	mu      sync.Mutex
	created []invoicedomain.CreateInvoiceRequest
	err     error
	block   chan struct{}
}

func (s *invoiceStub) Create(ctx context.Context, req invoicedomain.CreateInvoiceRequest) (invoicedomain.Invoice, error) {
	if s.block != nil {
		<-s.block
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return invoicedomain.Invoice{}, s.err
	}
	s.created = append(s.created, req)
	return invoicedomain.Invoice{
		ID:         42,
		ClientName: req.ClientName,
		Amount:     req.Amount,
		Status:     req.Status,
	}, nil
}

func (s *invoiceStub) count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.created)
}

func threeDrafts() []dunning.Draft {
	return []dunning.Draft{
		{Level: 1, Subject: "Petit rappel", Body: "Bonjour", Tone: dunning.ToneEmpathetic},
		{Level: 2, Subject: "Relance", Body: "Madame, Monsieur", Tone: dunning.ToneFirm},
		{Level: 3, Subject: "Mise en demeure", Body: "Sans réponse", Tone: dunning.ToneLegal},
	}
}

func newTestService(t *testing.T, ext domain.Extractor, seq domain.SequenceGenerator, inv invoicedomain.Service) domain.Service {
	t.Helper()
	return New(Params{
		Log:       zap.NewNop(),
		Clock:     clock.NewFake(time.Date(2026, 2, 10, 9, 0, 0, 0, time.UTC)),
		Extractor: ext,
		Sequencer: seq,
		Invoices:  inv,
	})
}

func TestStartHappyPath(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{
		ClientName: "Acme SARL",
		Amount:     1200.50,
		DueDate:    "2026-01-15",
		RiskLevel:  extraction.RiskMedium,
	}}
	seq := &sequencerStub{sequence: threeDrafts()}
	inv := &invoiceStub{}
	svc := newTestService(t, ext, seq, inv)

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "Facture 1200,50 EUR Acme SARL"})
	assert.NoError(t, err)
	assert.NotEmpty(t, proc.ID)
	assert.Equal(t, domain.StateSequenceReady, proc.State)
	assert.False(t, proc.UsedFallback)
	assert.Len(t, proc.Sequence, 3)
	assert.Empty(t, proc.Failures)
	assert.Equal(t, "Acme SARL", seq.gotClient)
	assert.Equal(t, 1200.50, seq.gotAmount)

	got, err := svc.Get(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, proc.ID, got.ID)

	created, err := svc.Confirm(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, invoicedomain.StatusRecoveryActive, created.Status)
	assert.Equal(t, 1, inv.count())
	assert.Equal(t, invoicedomain.StatusRecoveryActive, inv.created[0].Status)
	assert.Equal(t, "Acme SARL", inv.created[0].ClientName)
	assert.Equal(t, "2026-01-15", inv.created[0].DueDate)

	got, err = svc.Get(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StateConfirmed, got.State)
	assert.Equal(t, "42", got.InvoiceID)
}

func TestStartRejectsEmptyInput(t *testing.T) {
	svc := newTestService(t, &extractorStub{}, &sequencerStub{}, &invoiceStub{})

	_, err := svc.Start(context.Background(), domain.StartRequest{Text: "   "})
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
}

func TestStartFallsBackWhenOracleUnavailable(t *testing.T) {
	ext := &extractorStub{err: oracle.ErrUnavailable}
	seq := &sequencerStub{sequence: threeDrafts()}
	svc := newTestService(t, ext, seq, &invoiceStub{})

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture", Language: "fr"})
	assert.NoError(t, err)
	assert.True(t, proc.UsedFallback)
	assert.Equal(t, "Client Inconnu (Erreur API)", proc.Draft.ClientName)
	assert.Equal(t, float64(0), proc.Draft.Amount)
	assert.Equal(t, domain.StateSequenceReady, proc.State)
	if assert.Len(t, proc.Failures, 1) {
		assert.Equal(t, "extraction", proc.Failures[0].Stage)
		assert.Equal(t, "unavailable", proc.Failures[0].Kind)
	}
	// Fallback draft still carries a usable name for the sequence prompt.
	assert.Equal(t, "Client Inconnu (Erreur API)", seq.gotClient)
}

func TestStartSequenceFailureLeavesEmptySequence(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{ClientName: "Acme", Amount: 100, DueDate: "2026-01-01"}}
	seq := &sequencerStub{err: dunning.ErrMalformedResponse}
	svc := newTestService(t, ext, seq, &invoiceStub{})

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture"})
	assert.NoError(t, err)
	assert.Equal(t, domain.StateSequenceReady, proc.State)
	assert.Empty(t, proc.Sequence)
	if assert.Len(t, proc.Failures, 1) {
		assert.Equal(t, "sequence", proc.Failures[0].Stage)
		assert.Equal(t, "malformed", proc.Failures[0].Kind)
	}

	_, err = svc.Confirm(context.Background(), proc.ID)
	assert.ErrorIs(t, err, domain.ErrEmptySequence)
}

func TestStartSequencePromptFallbacks(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{ClientName: "  ", Amount: -50}}
	seq := &sequencerStub{sequence: threeDrafts()}
	svc := newTestService(t, ext, seq, &invoiceStub{})

	_, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture"})
	assert.NoError(t, err)
	assert.Equal(t, "Client", seq.gotClient)
	assert.Equal(t, float64(0), seq.gotAmount)
}

func TestConfirmDefaultsMissingDraftFields(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{ClientName: "", Amount: -10, DueDate: ""}}
	seq := &sequencerStub{sequence: threeDrafts()}
	inv := &invoiceStub{}
	svc := newTestService(t, ext, seq, inv)

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture", Language: "en"})
	assert.NoError(t, err)

	_, err = svc.Confirm(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, "Unknown", inv.created[0].ClientName)
	assert.Equal(t, float64(0), inv.created[0].Amount)
	assert.Equal(t, "2026-02-10", inv.created[0].DueDate)
}

func TestConfirmPersistenceFailureKeepsProcedure(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{ClientName: "Acme", Amount: 100, DueDate: "2026-01-01"}}
	seq := &sequencerStub{sequence: threeDrafts()}
	inv := &invoiceStub{err: errors.New("connection reset")}
	svc := newTestService(t, ext, seq, inv)

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture"})
	assert.NoError(t, err)

	_, err = svc.Confirm(context.Background(), proc.ID)
	assert.ErrorIs(t, err, domain.ErrPersistenceFailed)

	got, err := svc.Get(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StateSequenceReady, got.State)
	assert.Len(t, got.Sequence, 3)
	assert.Equal(t, "Acme", got.Draft.ClientName)

	// Retry succeeds once the store recovers.
	inv.mu.Lock()
	inv.err = nil
	inv.mu.Unlock()
	_, err = svc.Confirm(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, 1, inv.count())
}

func TestConfirmRejectsConcurrentConfirm(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{ClientName: "Acme", Amount: 100, DueDate: "2026-01-01"}}
	seq := &sequencerStub{sequence: threeDrafts()}
	inv := &invoiceStub{block: make(chan struct{})}
	svc := newTestService(t, ext, seq, inv)

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture"})
	assert.NoError(t, err)

	firstDone := make(chan error, 1)
	go func() {
		_, err := svc.Confirm(context.Background(), proc.ID)
		firstDone <- err
	}()

	// Wait for the first confirm to take the in-flight guard.
	assert.Eventually(t, func() bool {
		_, err := svc.Confirm(context.Background(), proc.ID)
		return errors.Is(err, domain.ErrConfirmInFlight)
	}, time.Second, 5*time.Millisecond)

	close(inv.block)
	assert.NoError(t, <-firstDone)
	assert.Equal(t, 1, inv.count())

	_, err = svc.Confirm(context.Background(), proc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestCancel(t *testing.T) {
	ext := &extractorStub{draft: extraction.Draft{ClientName: "Acme", Amount: 100, DueDate: "2026-01-01"}}
	seq := &sequencerStub{sequence: threeDrafts()}
	inv := &invoiceStub{}
	svc := newTestService(t, ext, seq, inv)

	proc, err := svc.Start(context.Background(), domain.StartRequest{Text: "facture"})
	assert.NoError(t, err)

	cancelled, err := svc.Cancel(context.Background(), proc.ID)
	assert.NoError(t, err)
	assert.Equal(t, domain.StateCancelled, cancelled.State)

	_, err = svc.Confirm(context.Background(), proc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)

	_, err = svc.Cancel(context.Background(), proc.ID)
	assert.ErrorIs(t, err, domain.ErrInvalidState)
}

func TestGetUnknownProcedure(t *testing.T) {
	svc := newTestService(t, &extractorStub{}, &sequencerStub{}, &invoiceStub{})

	_, err := svc.Get(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Confirm(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = svc.Cancel(context.Background(), "does-not-exist")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
