package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// EntryType classifies an activity feed entry.
type EntryType string

const (
	TypeEmailSent      EntryType = "email_sent"
	TypePayment        EntryType = "payment"
	TypeInvoiceCreated EntryType = "invoice_created"
	TypeSystem         EntryType = "system"
)

type Entry struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	Type        EntryType    `gorm:"not null" json:"type"`
	Description string       `gorm:"not null" json:"description"`
	CreatedAt   time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
}

func (Entry) TableName() string { return "activity_entries" }
