package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	accountdomain "github.com/smallbiznis/recouvro/internal/account/domain"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
)

const (
	defaultProfileName  = "Demo Freelance"
	defaultProfileEmail = "demo@recouvro.local"
	defaultProfilePlan  = "pro"
)

// EnsureDefaultProfile seeds the account profile for the default
// organization so the settings page works on a fresh install.
func EnsureDefaultProfile(db *gorm.DB, orgID snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		_, err := ensureProfileTx(ctx, tx, node, orgID)
		return err
	})
}

// EnsureDemoData seeds a demo billing history and sample invoices for the
// default organization. Safe to call repeatedly.
func EnsureDemoData(db *gorm.DB, orgID snowflake.ID) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	node, err := snowflake.NewNode(1)
	if err != nil {
		return err
	}

	ctx := context.Background()
	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if _, err := ensureProfileTx(ctx, tx, node, orgID); err != nil {
			return err
		}
		if err := ensurePaymentMethodTx(ctx, tx, node, orgID); err != nil {
			return err
		}
		if err := ensureBillingRecordsTx(ctx, tx, node, orgID); err != nil {
			return err
		}
		if err := ensureSampleInvoicesTx(ctx, tx, node, orgID); err != nil {
			return err
		}
		return ensureWelcomeEntryTx(ctx, tx, node, orgID)
	})
}

func ensureProfileTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) (*accountdomain.Profile, error) {
	var profile accountdomain.Profile
	err := tx.WithContext(ctx).
		Where("org_id = ?", orgID).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID != 0 {
		return &profile, nil
	}

	profile = accountdomain.Profile{
		ID:    node.Generate(),
		OrgID: orgID,
		Name:  defaultProfileName,
		Email: defaultProfileEmail,
		Plan:  defaultProfilePlan,
	}
	if err := tx.WithContext(ctx).Create(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

func ensurePaymentMethodTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&accountdomain.PaymentMethod{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}

	return tx.WithContext(ctx).Create(&accountdomain.PaymentMethod{
		ID:        node.Generate(),
		OrgID:     orgID,
		Brand:     "visa",
		Last4:     "4242",
		Expiry:    "12/27",
		IsDefault: true,
	}).Error
}

func ensureBillingRecordsTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&accountdomain.BillingRecord{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}

	now := time.Now().UTC()
	for i := 0; i < 3; i++ {
		record := accountdomain.BillingRecord{
			ID:          node.Generate(),
			OrgID:       orgID,
			Date:        now.AddDate(0, -i, 0),
			Amount:      29,
			Description: "Abonnement Pro",
			Status:      "paid",
		}
		if err := tx.WithContext(ctx).Create(&record).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureSampleInvoicesTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&invoicedomain.Invoice{}).
		Where("org_id = ?", orgID).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}

	now := time.Now().UTC()
	paidAt := now.AddDate(0, 0, -12)
	samples := []invoicedomain.Invoice{
		{
			ID:          node.Generate(),
			OrgID:       orgID,
			ClientName:  "Studio Lumio",
			Amount:      1800,
			DueDate:     now.AddDate(0, 0, -20),
			PaymentDate: &paidAt,
			Status:      invoicedomain.StatusPaid,
			RiskLevel:   "low",
			LastAction:  "marked_paid",
		},
		{
			ID:         node.Generate(),
			OrgID:      orgID,
			ClientName: "Atelier Nord",
			Amount:     950,
			DueDate:    now.AddDate(0, 0, -11),
			Status:     invoicedomain.StatusOverdue,
			RiskLevel:  "medium",
		},
	}
	for i := range samples {
		if err := tx.WithContext(ctx).Create(&samples[i]).Error; err != nil {
			return err
		}
	}
	return nil
}

func ensureWelcomeEntryTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, orgID snowflake.ID) error {
	var count int64
	err := tx.WithContext(ctx).
		Model(&activitydomain.Entry{}).
		Where("org_id = ? AND type = ?", orgID, activitydomain.TypeSystem).
		Count(&count).Error
	if err != nil || count > 0 {
		return err
	}

	return tx.WithContext(ctx).Create(&activitydomain.Entry{
		ID:          node.Generate(),
		OrgID:       orgID,
		Type:        activitydomain.TypeSystem,
		Description: "Workspace initialized",
	}).Error
}
