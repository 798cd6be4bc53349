package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	FindProfile(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*Profile, error)
	SaveProfile(ctx context.Context, db *gorm.DB, profile *Profile) error
	ListPaymentMethods(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*PaymentMethod, error)
	InsertPaymentMethod(ctx context.Context, db *gorm.DB, method *PaymentMethod) error
	ListBillingRecords(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*BillingRecord, error)
	InsertBillingRecord(ctx context.Context, db *gorm.DB, record *BillingRecord) error
}
