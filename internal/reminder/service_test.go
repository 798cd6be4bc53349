package reminder

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/recouvro/internal/account/domain"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/dunning"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/oracle"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"github.com/smallbiznis/recouvro/internal/providers/pdf"
)

type invoiceStub struct {
	invoicedomain.Service

	invoice invoicedomain.Invoice
	err     error
}

func (s *invoiceStub) GetByID(ctx context.Context, req invoicedomain.GetInvoiceRequest) (invoicedomain.Invoice, error) {
	if s.err != nil {
		return invoicedomain.Invoice{}, s.err
	}
	return s.invoice, nil
}

type sequencerStub struct {
	sequence []dunning.Draft
	err      error
}

func (s *sequencerStub) GenerateSequence(ctx context.Context, clientName string, amount float64, lang locale.Language) ([]dunning.Draft, error) {
	return s.sequence, s.err
}

type emailStub struct {
	to      []string
	subject string
	body    string
	err     error
}

func (e *emailStub) Send(ctx context.Context, to []string, subject, htmlBody string) error {
	e.to, e.subject, e.body = to, subject, htmlBody
	return e.err
}

type pdfStub struct {
	data pdf.NoticeData
}

func (p *pdfStub) GenerateNotice(ctx context.Context, data pdf.NoticeData) (io.Reader, error) {
	p.data = data
	return strings.NewReader("%PDF-1.7"), nil
}

type activityStub struct {
	records []activitydomain.RecordRequest
}

func (a *activityStub) Record(ctx context.Context, req activitydomain.RecordRequest) (activitydomain.Entry, error) {
	a.records = append(a.records, req)
	return activitydomain.Entry{}, nil
}

func (a *activityStub) List(ctx context.Context, req activitydomain.ListRequest) ([]activitydomain.Entry, error) {
	return nil, nil
}

type accountStub struct {
	accountdomain.Repository

	profile *accountdomain.Profile
}

func (s *accountStub) FindProfile(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*accountdomain.Profile, error) {
	return s.profile, nil
}

type harness struct {
	svc      Service
	invoices *invoiceStub
	seq      *sequencerStub
	email    *emailStub
	pdf      *pdfStub
	activity *activityStub
	account  *accountStub
	orgID    snowflake.ID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	node, _ := snowflake.NewNode(1)
	orgID := node.Generate()

	h := &harness{
		invoices: &invoiceStub{invoice: invoicedomain.Invoice{
			ID:         node.Generate(),
			OrgID:      orgID,
			ClientName: "Acme SARL",
			Amount:     1200,
			DueDate:    time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC),
			Status:     invoicedomain.StatusOverdue,
		}},
		seq: &sequencerStub{sequence: []dunning.Draft{
			{Level: 1, Subject: "Petit rappel", Body: "Bonjour,\n\nUn petit rappel.", Tone: dunning.ToneEmpathetic},
			{Level: 2, Subject: "Relance ferme", Body: "Relance.", Tone: dunning.ToneFirm},
			{Level: 3, Subject: "Mise en demeure", Body: "Sans paiement sous 8 jours.", Tone: dunning.ToneLegal},
		}},
		email:    &emailStub{},
		pdf:      &pdfStub{},
		activity: &activityStub{},
		account:  &accountStub{profile: &accountdomain.Profile{Name: "Studio Martin"}},
		orgID:    orgID,
	}
	h.svc = New(Params{
		DB:        nil,
		Log:       zap.NewNop(),
		Clock:     clock.NewFake(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)),
		Invoices:  h.invoices,
		Sequencer: h.seq,
		Email:     h.email,
		PDF:       h.pdf,
		Activity:  h.activity,
		Account:   h.account,
	})
	return h
}

func (h *harness) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), h.orgID)
}

func TestSendReminder(t *testing.T) {
	h := newHarness(t)

	err := h.svc.Send(h.ctx(), SendRequest{
		InvoiceID: h.invoices.invoice.ID.String(),
		To:        "client@acme.fr",
		Level:     2,
		Language:  "fr",
	})
	assert.NoError(t, err)
	assert.Equal(t, []string{"client@acme.fr"}, h.email.to)
	assert.Equal(t, "Relance ferme", h.email.subject)
	assert.Contains(t, h.email.body, "<p>Relance.</p>")

	if assert.Len(t, h.activity.records, 1) {
		assert.Equal(t, activitydomain.TypeEmailSent, h.activity.records[0].Type)
		assert.Contains(t, h.activity.records[0].Description, "level 2")
		assert.Contains(t, h.activity.records[0].Description, "Acme SARL")
	}
}

func TestSendReminderOverrides(t *testing.T) {
	h := newHarness(t)
	h.seq.err = oracle.ErrUnavailable

	// Explicit subject and body skip the oracle entirely.
	err := h.svc.Send(h.ctx(), SendRequest{
		InvoiceID: "1",
		To:        "client@acme.fr",
		Subject:   "Rappel manuel",
		Body:      "Merci de régler la facture.",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Rappel manuel", h.email.subject)
}

func TestSendReminderValidation(t *testing.T) {
	h := newHarness(t)

	err := h.svc.Send(h.ctx(), SendRequest{InvoiceID: "1", To: "not-an-email"})
	assert.ErrorIs(t, err, ErrInvalidRecipient)

	err = h.svc.Send(h.ctx(), SendRequest{InvoiceID: "1", To: "a@b.fr", Level: 9})
	assert.ErrorIs(t, err, ErrInvalidLevel)

	h.invoices.err = invoicedomain.ErrNotFound
	err = h.svc.Send(h.ctx(), SendRequest{InvoiceID: "1", To: "a@b.fr"})
	assert.ErrorIs(t, err, invoicedomain.ErrNotFound)
}

func TestSendReminderOracleFailure(t *testing.T) {
	h := newHarness(t)
	h.seq.err = oracle.ErrUnavailable

	err := h.svc.Send(h.ctx(), SendRequest{InvoiceID: "1", To: "a@b.fr"})
	assert.ErrorIs(t, err, oracle.ErrUnavailable)
	assert.Empty(t, h.activity.records)
}

func TestNotice(t *testing.T) {
	h := newHarness(t)

	reader, err := h.svc.Notice(h.ctx(), NoticeRequest{InvoiceID: "1", Language: "fr"})
	assert.NoError(t, err)
	assert.NotNil(t, reader)

	assert.Equal(t, "Studio Martin", h.pdf.data.OrgName)
	assert.Equal(t, "Acme SARL", h.pdf.data.ClientName)
	assert.Equal(t, "1200.00 EUR", h.pdf.data.Amount)
	assert.Equal(t, "2026-01-15", h.pdf.data.DueDate)
	assert.Equal(t, "2026-02-10", h.pdf.data.IssueDate)
	assert.Equal(t, "Mise en demeure", h.pdf.data.Subject)
}

func TestNoticeUnderDeliveryUsesLastDraft(t *testing.T) {
	h := newHarness(t)
	h.seq.sequence = h.seq.sequence[:2]

	_, err := h.svc.Notice(h.ctx(), NoticeRequest{InvoiceID: "1"})
	assert.NoError(t, err)
	assert.Equal(t, "Relance ferme", h.pdf.data.Subject)

	h.seq.sequence = nil
	_, err = h.svc.Notice(h.ctx(), NoticeRequest{InvoiceID: "1"})
	assert.ErrorIs(t, err, ErrNoDraft)
}
