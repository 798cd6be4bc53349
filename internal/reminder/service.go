package reminder

import (
	"context"
	"fmt"
	"io"
	"strings"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/recouvro/internal/account/domain"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/dunning"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/locale"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"github.com/smallbiznis/recouvro/internal/providers/email"
	"github.com/smallbiznis/recouvro/internal/providers/pdf"
)

// SequenceGenerator is the subset of the dunning generator the reminder
// service needs.
type SequenceGenerator interface {
	GenerateSequence(ctx context.Context, clientName string, amount float64, lang locale.Language) ([]dunning.Draft, error)
}

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Invoices  invoicedomain.Service
	Sequencer SequenceGenerator
	Email     email.Provider
	PDF       pdf.Provider
	Activity  activitydomain.Service
	Account   accountdomain.Repository
}

type service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	invoices  invoicedomain.Service
	sequencer SequenceGenerator
	email     email.Provider
	pdf       pdf.Provider
	activity  activitydomain.Service
	account   accountdomain.Repository
}

func New(p Params) Service {
	return &service{
		db:        p.DB,
		log:       p.Log.Named("reminder.service"),
		clock:     p.Clock,
		invoices:  p.Invoices,
		sequencer: p.Sequencer,
		email:     p.Email,
		pdf:       p.PDF,
		activity:  p.Activity,
		account:   p.Account,
	}
}

// Send emails a dunning reminder for an invoice and logs it to the
// activity feed.
func (s *service) Send(ctx context.Context, req SendRequest) error {
	to := strings.TrimSpace(req.To)
	if to == "" || !strings.Contains(to, "@") {
		return ErrInvalidRecipient
	}
	level := req.Level
	if level == 0 {
		level = 1
	}
	if level < 1 || level > dunning.MaxLevels {
		return ErrInvalidLevel
	}

	inv, err := s.invoices.GetByID(ctx, invoicedomain.GetInvoiceRequest{ID: req.InvoiceID})
	if err != nil {
		return err
	}

	lang := locale.Parse(req.Language)
	subject, body := strings.TrimSpace(req.Subject), strings.TrimSpace(req.Body)
	if subject == "" || body == "" {
		draft, err := s.draftForLevel(ctx, inv, level, lang)
		if err != nil {
			return err
		}
		if subject == "" {
			subject = draft.Subject
		}
		if body == "" {
			body = draft.Body
		}
	}

	if err := s.email.Send(ctx, []string{to}, subject, toHTML(body)); err != nil {
		return err
	}

	_, err = s.activity.Record(ctx, activitydomain.RecordRequest{
		Type:        activitydomain.TypeEmailSent,
		Description: fmt.Sprintf("Reminder level %d sent to %s for %s", level, to, inv.ClientName),
	})
	if err != nil {
		s.log.Warn("reminder.activity_record_failed", zap.Error(err))
	}

	s.log.Info("reminder.sent",
		zap.String("invoice_id", inv.ID.String()),
		zap.Int("level", level),
	)
	return nil
}

// Notice renders the formal notice PDF for an invoice.
func (s *service) Notice(ctx context.Context, req NoticeRequest) (io.Reader, error) {
	inv, err := s.invoices.GetByID(ctx, invoicedomain.GetInvoiceRequest{ID: req.InvoiceID})
	if err != nil {
		return nil, err
	}

	lang := locale.Parse(req.Language)
	draft, err := s.draftForLevel(ctx, inv, dunning.MaxLevels, lang)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	return s.pdf.GenerateNotice(ctx, pdf.NoticeData{
		OrgName:    s.orgName(ctx),
		ClientName: inv.ClientName,
		Amount:     fmt.Sprintf("%.2f EUR", inv.Amount),
		DueDate:    inv.DueDate.Format("2006-01-02"),
		IssueDate:  now.Format("2006-01-02"),
		Subject:    draft.Subject,
		Body:       draft.Body,
		Reference:  inv.ID.String(),
	})
}

// draftForLevel picks the requested escalation level, falling back to the
// last draft when the oracle under-delivers.
func (s *service) draftForLevel(ctx context.Context, inv invoicedomain.Invoice, level int, lang locale.Language) (dunning.Draft, error) {
	sequence, err := s.sequencer.GenerateSequence(ctx, inv.ClientName, inv.Amount, lang)
	if err != nil {
		return dunning.Draft{}, err
	}
	if len(sequence) == 0 {
		return dunning.Draft{}, ErrNoDraft
	}
	for _, draft := range sequence {
		if draft.Level == level {
			return draft, nil
		}
	}
	return sequence[len(sequence)-1], nil
}

func (s *service) orgName(ctx context.Context) string {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return "Cash-flow AI"
	}
	profile, err := s.account.FindProfile(ctx, s.db, orgID)
	if err != nil || profile == nil {
		return "Cash-flow AI"
	}
	return profile.Name
}

func toHTML(body string) string {
	paragraphs := strings.Split(body, "\n\n")
	var b strings.Builder
	for _, p := range paragraphs {
		b.WriteString("<p>")
		b.WriteString(strings.ReplaceAll(strings.TrimSpace(p), "\n", "<br>"))
		b.WriteString("</p>")
	}
	return b.String()
}
