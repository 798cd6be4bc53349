package domain

import (
	"context"
	"errors"

	"github.com/smallbiznis/recouvro/pkg/db/pagination"
)

type CreateInvoiceRequest struct {
	ClientName        string
	Amount            float64
	DueDate           string // YYYY-MM-DD
	Status            Status
	RiskLevel         string
	LastAction        string
	AIAnalysis        string
	RecommendedAction string
	ActionType        string
}

type ListInvoiceRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListInvoiceResponse struct {
	pagination.PageInfo
	Invoices []Invoice `json:"invoices"`
}

type GetInvoiceRequest struct {
	ID string
}

type UpdateStatusRequest struct {
	ID     string
	Status string
}

type DeleteInvoiceRequest struct {
	ID string
}

type AttachFileRequest struct {
	ID          string
	FileName    string
	ContentType string
	Data        []byte
}

type Service interface {
	Create(context.Context, CreateInvoiceRequest) (Invoice, error)
	List(context.Context, ListInvoiceRequest) (ListInvoiceResponse, error)
	GetByID(context.Context, GetInvoiceRequest) (Invoice, error)
	UpdateStatus(context.Context, UpdateStatusRequest) (Invoice, error)
	Delete(context.Context, DeleteInvoiceRequest) error
	AttachFile(context.Context, AttachFileRequest) (Invoice, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidClientName   = errors.New("invalid_client_name")
	ErrInvalidAmount       = errors.New("invalid_amount")
	ErrInvalidDueDate      = errors.New("invalid_due_date")
	ErrInvalidStatus       = errors.New("invalid_status")
	ErrInvalidID           = errors.New("invalid_id")
	ErrInvalidFile         = errors.New("invalid_file")
	ErrNotFound            = errors.New("not_found")
)
