package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"gorm.io/datatypes"
)

// Status is the lifecycle state of a persisted invoice.
type Status string

const (
	StatusPending        Status = "pending"
	StatusOverdue        Status = "overdue"
	StatusPaid           Status = "paid"
	StatusDisputed       Status = "disputed"
	StatusRecoveryActive Status = "recovery_active"
)

// ParseStatus maps canonical and legacy localized labels onto the enum.
func ParseStatus(value string) (Status, bool) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "pending", "en attente":
		return StatusPending, true
	case "overdue", "en retard":
		return StatusOverdue, true
	case "paid", "payée", "payee":
		return StatusPaid, true
	case "disputed", "en litige":
		return StatusDisputed, true
	case "recovery_active", "recouvrement actif":
		return StatusRecoveryActive, true
	default:
		return "", false
	}
}

type Invoice struct {
	ID          snowflake.ID `gorm:"primaryKey" json:"id"`
	OrgID       snowflake.ID `gorm:"not null;index" json:"organization_id"`
	ClientName  string       `gorm:"not null" json:"client_name"`
	Amount      float64      `gorm:"not null" json:"amount"`
	DueDate     time.Time    `gorm:"not null" json:"due_date"`
	PaymentDate *time.Time   `json:"payment_date,omitempty"`
	Status      Status       `gorm:"not null;index" json:"status"`
	RiskLevel   string       `json:"risk_level,omitempty"`

	LastAction        string `json:"last_action,omitempty"`
	AIAnalysis        string `gorm:"column:ai_analysis" json:"ai_analysis,omitempty"`
	RecommendedAction string `json:"recommended_action,omitempty"`
	ActionType        string `json:"action_type,omitempty"`

	FileURL  string `gorm:"column:file_url" json:"file_url,omitempty"`
	FilePath string `json:"file_path,omitempty"`
	FileName string `json:"file_name,omitempty"`
	FileType string `json:"file_type,omitempty"`

	Metadata  datatypes.JSONMap `gorm:"type:jsonb;not null;default:'{}'" json:"metadata,omitempty"`
	CreatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt time.Time         `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

func (Invoice) TableName() string { return "invoices" }
