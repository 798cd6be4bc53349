package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"github.com/smallbiznis/recouvro/internal/providers/files"
	"github.com/smallbiznis/recouvro/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Repo     domain.Repository
	Files    files.Provider
	Activity activitydomain.Service
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	files    files.Provider
	activity activitydomain.Service
}

func New(p Params) domain.Service {
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("invoice.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		files:    p.Files,
		activity: p.Activity,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	clientName := strings.TrimSpace(req.ClientName)
	if clientName == "" {
		return domain.Invoice{}, domain.ErrInvalidClientName
	}
	if req.Amount < 0 {
		return domain.Invoice{}, domain.ErrInvalidAmount
	}

	dueDate, err := time.Parse("2006-01-02", strings.TrimSpace(req.DueDate))
	if err != nil {
		return domain.Invoice{}, domain.ErrInvalidDueDate
	}

	status := req.Status
	if status == "" {
		status = domain.StatusPending
	}
	if _, ok := domain.ParseStatus(string(status)); !ok {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	now := s.clock.Now()
	invoice := domain.Invoice{
		ID:                s.genID.Generate(),
		OrgID:             orgID,
		ClientName:        clientName,
		Amount:            req.Amount,
		DueDate:           dueDate,
		Status:            status,
		RiskLevel:         strings.TrimSpace(req.RiskLevel),
		LastAction:        strings.TrimSpace(req.LastAction),
		AIAnalysis:        strings.TrimSpace(req.AIAnalysis),
		RecommendedAction: strings.TrimSpace(req.RecommendedAction),
		ActionType:        strings.TrimSpace(req.ActionType),
		Metadata:          datatypes.JSONMap{},
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		return domain.Invoice{}, err
	}

	if _, err := s.activity.Record(ctx, activitydomain.RecordRequest{
		Type:        activitydomain.TypeInvoiceCreated,
		Description: "Invoice created for " + clientName,
	}); err != nil {
		s.log.Warn("activity record failed", zap.Error(err))
	}

	s.log.Info("invoice created",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("status", string(invoice.Status)),
	)
	return invoice, nil
}

func (s *Service) List(ctx context.Context, req domain.ListInvoiceRequest) (domain.ListInvoiceResponse, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ListInvoiceResponse{}, domain.ErrInvalidOrganization
	}

	var filter domain.ListInvoiceFilter
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, ok := domain.ParseStatus(raw)
		if !ok {
			return domain.ListInvoiceResponse{}, domain.ErrInvalidStatus
		}
		filter.Status = status
	}

	pageSize := req.PageSize
	if pageSize <= 0 {
		pageSize = 50
	}

	items, err := s.repo.List(ctx, s.db, orgID, filter, pagination.Pagination{
		PageToken: req.PageToken,
		PageSize:  int(pageSize),
	})
	if err != nil {
		return domain.ListInvoiceResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(invoice *domain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        invoice.ID.String(),
			CreatedAt: invoice.CreatedAt.Format(time.RFC3339),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]domain.Invoice, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		invoices = append(invoices, *item)
	}

	resp := domain.ListInvoiceResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, req domain.GetInvoiceRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}
	return *item, nil
}

func (s *Service) UpdateStatus(ctx context.Context, req domain.UpdateStatusRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}

	status, valid := domain.ParseStatus(req.Status)
	if !valid {
		return domain.Invoice{}, domain.ErrInvalidStatus
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	now := s.clock.Now()
	item.Status = status
	item.UpdatedAt = now
	if status == domain.StatusPaid {
		item.PaymentDate = &now
		item.LastAction = "marked_paid"
	} else {
		item.PaymentDate = nil
		item.LastAction = "status_changed"
	}

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Invoice{}, err
	}

	if status == domain.StatusPaid {
		if _, err := s.activity.Record(ctx, activitydomain.RecordRequest{
			Type:        activitydomain.TypePayment,
			Description: "Payment received from " + item.ClientName,
		}); err != nil {
			s.log.Warn("activity record failed", zap.Error(err))
		}
	}

	return *item, nil
}

func (s *Service) Delete(ctx context.Context, req domain.DeleteInvoiceRequest) error {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return err
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return err
	}
	if item == nil {
		return domain.ErrNotFound
	}

	if item.FilePath != "" {
		if err := s.files.Delete(ctx, item.FilePath); err != nil {
			s.log.Warn("attachment delete failed",
				zap.String("invoice_id", item.ID.String()),
				zap.Error(err),
			)
		}
	}

	return s.repo.Delete(ctx, s.db, orgID, id)
}

func (s *Service) AttachFile(ctx context.Context, req domain.AttachFileRequest) (domain.Invoice, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Invoice{}, domain.ErrInvalidOrganization
	}

	id, err := s.parseID(req.ID)
	if err != nil {
		return domain.Invoice{}, err
	}
	if len(req.Data) == 0 {
		return domain.Invoice{}, domain.ErrInvalidFile
	}

	item, err := s.repo.FindByID(ctx, s.db, orgID, id)
	if err != nil {
		return domain.Invoice{}, err
	}
	if item == nil {
		return domain.Invoice{}, domain.ErrNotFound
	}

	stored, err := s.files.Save(ctx, req.FileName, req.ContentType, req.Data)
	if err != nil {
		return domain.Invoice{}, err
	}

	if item.FilePath != "" {
		if err := s.files.Delete(ctx, item.FilePath); err != nil {
			s.log.Warn("previous attachment delete failed", zap.Error(err))
		}
	}

	item.FileURL = stored.URL
	item.FilePath = stored.Path
	item.FileName = stored.Name
	item.FileType = stored.Type
	item.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, s.db, item); err != nil {
		return domain.Invoice{}, err
	}
	return *item, nil
}

func (s *Service) parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
