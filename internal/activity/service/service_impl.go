package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Clock clock.Clock
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	clock clock.Clock
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("activity.service"),
		genID: p.GenID,
		clock: p.Clock,
		repo:  p.Repo,
	}
}

func (s *Service) Record(ctx context.Context, req domain.RecordRequest) (domain.Entry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return domain.Entry{}, domain.ErrInvalidOrganization
	}

	switch req.Type {
	case domain.TypeEmailSent, domain.TypePayment, domain.TypeInvoiceCreated, domain.TypeSystem:
	default:
		return domain.Entry{}, domain.ErrInvalidType
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return domain.Entry{}, domain.ErrInvalidDescription
	}

	entry := domain.Entry{
		ID:          s.genID.Generate(),
		OrgID:       orgID,
		Type:        req.Type,
		Description: description,
		CreatedAt:   s.clock.Now(),
	}

	if err := s.repo.Insert(ctx, s.db, &entry); err != nil {
		return domain.Entry{}, err
	}

	return entry, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Entry, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok || orgID == 0 {
		return nil, domain.ErrInvalidOrganization
	}

	limit := req.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	items, err := s.repo.ListRecent(ctx, s.db, orgID, limit)
	if err != nil {
		return nil, err
	}

	entries := make([]domain.Entry, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		entries = append(entries, *item)
	}
	return entries, nil
}
