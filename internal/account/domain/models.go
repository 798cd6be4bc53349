package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// Profile is the account owner shown on the settings page.
type Profile struct {
	ID         snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID      snowflake.ID `gorm:"not null;uniqueIndex" json:"organization_id"`
	Name       string       `gorm:"not null" json:"name"`
	Email      string       `gorm:"not null" json:"email"`
	Plan       string       `gorm:"not null;default:'free'" json:"plan"`
	AvatarURL  string       `json:"avatar_url,omitempty"`
	AvatarPath string       `json:"-"`
	CreatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt  time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Profile) TableName() string { return "account_profiles" }

// PaymentMethod is a stored card summary.
type PaymentMethod struct {
	ID        snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID     snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Brand     string       `gorm:"not null" json:"brand"`
	Last4     string       `gorm:"not null" json:"last4"`
	Expiry    string       `gorm:"not null" json:"expiry"`
	IsDefault bool         `gorm:"not null;default:false" json:"is_default"`
	CreatedAt time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (PaymentMethod) TableName() string { return "payment_methods" }

// BillingRecord is one line of the billing history.
type BillingRecord struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Date        time.Time    `gorm:"not null" json:"date"`
	Amount      float64      `gorm:"not null" json:"amount"`
	Description string       `gorm:"not null" json:"description"`
	Status      string       `gorm:"not null" json:"status"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (BillingRecord) TableName() string { return "billing_records" }
