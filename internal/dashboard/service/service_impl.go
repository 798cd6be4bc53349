package service

import (
	"context"
	"sort"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// legalCostPerAction estimates the lawyer fee saved per processed dossier.
const legalCostPerAction = 90.0

const monthsOfHistory = 6

const maxUpcomingActions = 10

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	Clock clock.Clock
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	clock clock.Clock
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("dashboard.service"),
		clock: p.Clock,
	}
}

func (s *Service) Overview(ctx context.Context) (domain.Overview, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Overview{}, domain.ErrInvalidOrganization
	}

	stats, err := s.stats(ctx, orgID)
	if err != nil {
		return domain.Overview{}, err
	}

	now := s.clock.Now()
	since := now.AddDate(0, -monthsOfHistory, 0)

	var invoices []invoicedomain.Invoice
	err = s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("org_id = ?", orgID).
		Where("created_at >= ? OR payment_date >= ? OR status <> ?", since, since, invoicedomain.StatusPaid).
		Find(&invoices).Error
	if err != nil {
		return domain.Overview{}, err
	}

	return domain.Overview{
		Stats:           stats,
		Monthly:         monthlySeries(invoices, now),
		UpcomingActions: upcomingActions(invoices, now),
	}, nil
}

func (s *Service) stats(ctx context.Context, orgID snowflake.ID) (domain.Stats, error) {
	var row struct {
		Recovered float64
		Pending   float64
		Processed int64
	}
	err := s.db.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Select(
			"COALESCE(SUM(CASE WHEN status = ? THEN amount ELSE 0 END), 0) AS recovered, "+
				"COALESCE(SUM(CASE WHEN status IN (?, ?, ?) THEN amount ELSE 0 END), 0) AS pending, "+
				"COUNT(*) AS processed",
			invoicedomain.StatusPaid,
			invoicedomain.StatusPending,
			invoicedomain.StatusOverdue,
			invoicedomain.StatusRecoveryActive,
		).
		Where("org_id = ?", orgID).
		Scan(&row).Error
	if err != nil {
		return domain.Stats{}, err
	}

	return domain.Stats{
		TotalRecovered: row.Recovered,
		TotalPending:   row.Pending,
		ProcessedCount: row.Processed,
		LegalSavings:   float64(row.Processed) * legalCostPerAction,
	}, nil
}

func monthlySeries(invoices []invoicedomain.Invoice, now time.Time) []domain.MonthlyPoint {
	points := make(map[string]*domain.MonthlyPoint, monthsOfHistory)
	months := make([]string, 0, monthsOfHistory)
	for i := monthsOfHistory - 1; i >= 0; i-- {
		month := now.AddDate(0, -i, 0).Format("2006-01")
		points[month] = &domain.MonthlyPoint{Month: month}
		months = append(months, month)
	}

	for _, invoice := range invoices {
		switch invoice.Status {
		case invoicedomain.StatusPaid:
			when := invoice.CreatedAt
			if invoice.PaymentDate != nil {
				when = *invoice.PaymentDate
			}
			if point, ok := points[when.Format("2006-01")]; ok {
				point.Recovered += invoice.Amount
			}
		case invoicedomain.StatusPending, invoicedomain.StatusOverdue, invoicedomain.StatusRecoveryActive:
			if point, ok := points[invoice.DueDate.Format("2006-01")]; ok {
				point.Pending += invoice.Amount
			}
		}
	}

	series := make([]domain.MonthlyPoint, 0, len(months))
	for _, month := range months {
		series = append(series, *points[month])
	}
	return series
}

func upcomingActions(invoices []invoicedomain.Invoice, now time.Time) []domain.UpcomingAction {
	actions := make([]domain.UpcomingAction, 0)
	for _, invoice := range invoices {
		switch invoice.Status {
		case invoicedomain.StatusPending, invoicedomain.StatusOverdue, invoicedomain.StatusRecoveryActive:
		default:
			continue
		}
		days := int(now.Sub(invoice.DueDate).Hours() / 24)
		if days < 3 {
			continue
		}
		bucket, action := escalationWindow(days)
		actions = append(actions, domain.UpcomingAction{
			InvoiceID:   invoice.ID.String(),
			ClientName:  invoice.ClientName,
			Amount:      invoice.Amount,
			DaysOverdue: days,
			Bucket:      bucket,
			Action:      action,
		})
	}

	sort.SliceStable(actions, func(i, j int) bool {
		return actions[i].DaysOverdue > actions[j].DaysOverdue
	})
	if len(actions) > maxUpcomingActions {
		actions = actions[:maxUpcomingActions]
	}
	return actions
}

func escalationWindow(daysOverdue int) (string, string) {
	switch {
	case daysOverdue >= 20:
		return "J+20", "formal_notice"
	case daysOverdue >= 10:
		return "J+10", "firm_reminder"
	default:
		return "J+3", "reminder"
	}
}
