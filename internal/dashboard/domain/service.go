package domain

import (
	"context"
	"errors"
)

// Stats are the headline figures of the overview page.
type Stats struct {
	TotalRecovered float64 `json:"total_recovered"`
	TotalPending   float64 `json:"total_pending"`
	ProcessedCount int64   `json:"processed_count"`
	LegalSavings   float64 `json:"legal_savings"`
}

// MonthlyPoint is one bar of the recovered/pending chart.
type MonthlyPoint struct {
	Month     string  `json:"month"` // YYYY-MM
	Recovered float64 `json:"recovered"`
	Pending   float64 `json:"pending"`
}

// UpcomingAction is an overdue invoice bucketed by escalation window.
type UpcomingAction struct {
	InvoiceID   string  `json:"invoice_id"`
	ClientName  string  `json:"client_name"`
	Amount      float64 `json:"amount"`
	DaysOverdue int     `json:"days_overdue"`
	Bucket      string  `json:"bucket"` // J+3, J+10, J+20
	Action      string  `json:"action"` // reminder, firm_reminder, formal_notice
}

type Overview struct {
	Stats           Stats            `json:"stats"`
	Monthly         []MonthlyPoint   `json:"monthly"`
	UpcomingActions []UpcomingAction `json:"upcoming_actions"`
}

type Service interface {
	Overview(ctx context.Context) (Overview, error)
}

var ErrInvalidOrganization = errors.New("invalid_organization")
