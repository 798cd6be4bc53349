package repository

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"

	"github.com/smallbiznis/recouvro/internal/account/domain"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) FindProfile(ctx context.Context, db *gorm.DB, orgID snowflake.ID) (*domain.Profile, error) {
	var profile domain.Profile
	err := db.WithContext(ctx).
		Where("org_id = ?", orgID).
		Limit(1).
		Find(&profile).Error
	if err != nil {
		return nil, err
	}
	if profile.ID == 0 {
		return nil, nil
	}
	return &profile, nil
}

func (r *repo) SaveProfile(ctx context.Context, db *gorm.DB, profile *domain.Profile) error {
	return db.WithContext(ctx).Save(profile).Error
}

func (r *repo) ListPaymentMethods(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.PaymentMethod, error) {
	var methods []*domain.PaymentMethod
	err := db.WithContext(ctx).
		Model(&domain.PaymentMethod{}).
		Where("org_id = ?", orgID).
		Order("is_default desc, created_at desc").
		Find(&methods).Error
	if err != nil {
		return nil, err
	}
	return methods, nil
}

func (r *repo) InsertPaymentMethod(ctx context.Context, db *gorm.DB, method *domain.PaymentMethod) error {
	return db.WithContext(ctx).Create(method).Error
}

func (r *repo) ListBillingRecords(ctx context.Context, db *gorm.DB, orgID snowflake.ID) ([]*domain.BillingRecord, error) {
	var records []*domain.BillingRecord
	err := db.WithContext(ctx).
		Model(&domain.BillingRecord{}).
		Where("org_id = ?", orgID).
		Order("date desc, id desc").
		Find(&records).Error
	if err != nil {
		return nil, err
	}
	return records, nil
}

func (r *repo) InsertBillingRecord(ctx context.Context, db *gorm.DB, record *domain.BillingRecord) error {
	return db.WithContext(ctx).Create(record).Error
}
