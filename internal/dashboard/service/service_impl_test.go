package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func seedInvoice(t *testing.T, db *gorm.DB, node *snowflake.Node, orgID snowflake.ID, status invoicedomain.Status, amount float64, dueDate time.Time, paymentDate *time.Time) invoicedomain.Invoice {
	t.Helper()
	invoice := invoicedomain.Invoice{
		ID:          node.Generate(),
		OrgID:       orgID,
		ClientName:  "Client",
		Amount:      amount,
		DueDate:     dueDate,
		PaymentDate: paymentDate,
		Status:      status,
		CreatedAt:   dueDate.AddDate(0, 0, -30),
		UpdatedAt:   dueDate,
	}
	if err := db.Create(&invoice).Error; err != nil {
		t.Fatal(err)
	}
	return invoice
}

func TestOverview(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := gdb.AutoMigrate(&invoicedomain.Invoice{}); err != nil {
		t.Fatal(err)
	}

	node, _ := snowflake.NewNode(1)
	orgID := node.Generate()
	now := time.Date(2026, 2, 15, 12, 0, 0, 0, time.UTC)
	fake := clock.NewFake(now)

	paidAt := time.Date(2026, 1, 20, 0, 0, 0, 0, time.UTC)
	seedInvoice(t, gdb, node, orgID, invoicedomain.StatusPaid, 1000, time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC), &paidAt)
	seedInvoice(t, gdb, node, orgID, invoicedomain.StatusPending, 200, now.AddDate(0, 0, 10), nil)
	seedInvoice(t, gdb, node, orgID, invoicedomain.StatusOverdue, 450, now.AddDate(0, 0, -12), nil)
	seedInvoice(t, gdb, node, orgID, invoicedomain.StatusRecoveryActive, 1200, now.AddDate(0, 0, -25), nil)
	seedInvoice(t, gdb, node, orgID, invoicedomain.StatusDisputed, 99, now.AddDate(0, 0, -5), nil)

	// Another org's invoice must not leak into the aggregates.
	seedInvoice(t, gdb, node, node.Generate(), invoicedomain.StatusPaid, 5000, now, &now)

	svc := New(Params{DB: gdb, Log: zap.NewNop(), Clock: fake})
	ctx := orgcontext.WithOrgID(context.Background(), orgID)

	overview, err := svc.Overview(ctx)
	if err != nil {
		t.Fatalf("Overview: %v", err)
	}

	assert.Equal(t, 1000.0, overview.Stats.TotalRecovered)
	assert.Equal(t, 1850.0, overview.Stats.TotalPending)
	assert.Equal(t, int64(5), overview.Stats.ProcessedCount)
	assert.Equal(t, 5*legalCostPerAction, overview.Stats.LegalSavings)

	if assert.Len(t, overview.Monthly, monthsOfHistory) {
		assert.Equal(t, "2026-02", overview.Monthly[monthsOfHistory-1].Month)
		var recoveredJan float64
		for _, point := range overview.Monthly {
			if point.Month == "2026-01" {
				recoveredJan = point.Recovered
			}
		}
		assert.Equal(t, 1000.0, recoveredJan)
	}

	if assert.Len(t, overview.UpcomingActions, 2) {
		// Most overdue first.
		assert.Equal(t, "J+20", overview.UpcomingActions[0].Bucket)
		assert.Equal(t, "formal_notice", overview.UpcomingActions[0].Action)
		assert.Equal(t, 1200.0, overview.UpcomingActions[0].Amount)
		assert.Equal(t, "J+10", overview.UpcomingActions[1].Bucket)
		assert.Equal(t, "firm_reminder", overview.UpcomingActions[1].Action)
	}
}

func TestOverviewRequiresOrg(t *testing.T) {
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	svc := New(Params{DB: gdb, Log: zap.NewNop(), Clock: clock.New()})

	_, err = svc.Overview(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)
}
