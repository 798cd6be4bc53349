package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	"github.com/smallbiznis/recouvro/internal/account/domain"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"github.com/smallbiznis/recouvro/internal/providers/files"
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

type service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	repo     domain.Repository
	files    files.Provider
	activity activitydomain.Service
}

func New(p Params) domain.Service {
	return &service{
		db:       p.DB,
		log:      p.Log.Named("account.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		repo:     p.Repo,
		files:    p.Files,
		activity: p.Activity,
	}
}

const recentActivityLimit = 10

// Overview fetches the profile, payment methods, billing history and the
// recent activity feed concurrently.
func (s *service) Overview(ctx context.Context) (domain.Overview, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Overview{}, domain.ErrInvalidOrganization
	}

	var out domain.Overview
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		profile, err := s.repo.FindProfile(gctx, s.db, orgID)
		if err != nil {
			return err
		}
		if profile == nil {
			return domain.ErrProfileNotFound
		}
		out.Profile = *profile
		return nil
	})
	g.Go(func() error {
		methods, err := s.repo.ListPaymentMethods(gctx, s.db, orgID)
		if err != nil {
			return err
		}
		out.PaymentMethods = methods
		return nil
	})
	g.Go(func() error {
		records, err := s.repo.ListBillingRecords(gctx, s.db, orgID)
		if err != nil {
			return err
		}
		out.BillingRecords = records
		return nil
	})
	g.Go(func() error {
		entries, err := s.activity.List(gctx, activitydomain.ListRequest{Limit: recentActivityLimit})
		if err != nil {
			return err
		}
		out.Activity = entries
		return nil
	})
	if err := g.Wait(); err != nil {
		return domain.Overview{}, err
	}
	return out, nil
}

func (s *service) UpdateProfile(ctx context.Context, req domain.UpdateProfileRequest) (domain.Profile, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrInvalidOrganization
	}

	name := strings.TrimSpace(req.Name)
	if name == "" {
		return domain.Profile{}, domain.ErrInvalidName
	}
	email := strings.TrimSpace(req.Email)
	if email == "" || !strings.Contains(email, "@") {
		return domain.Profile{}, domain.ErrInvalidEmail
	}

	profile, err := s.repo.FindProfile(ctx, s.db, orgID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrProfileNotFound
	}

	profile.Name = name
	profile.Email = email
	if plan := strings.TrimSpace(req.Plan); plan != "" {
		profile.Plan = plan
	}
	profile.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveProfile(ctx, s.db, profile); err != nil {
		return domain.Profile{}, err
	}

	s.log.Info("account.profile_updated", zap.String("org_id", orgID.String()))
	return *profile, nil
}

func (s *service) UploadAvatar(ctx context.Context, req domain.UploadAvatarRequest) (domain.Profile, error) {
	orgID, ok := orgcontext.OrgIDFromContext(ctx)
	if !ok {
		return domain.Profile{}, domain.ErrInvalidOrganization
	}
	if len(req.Data) == 0 {
		return domain.Profile{}, domain.ErrInvalidFile
	}

	profile, err := s.repo.FindProfile(ctx, s.db, orgID)
	if err != nil {
		return domain.Profile{}, err
	}
	if profile == nil {
		return domain.Profile{}, domain.ErrProfileNotFound
	}

	stored, err := s.files.Save(ctx, req.FileName, req.ContentType, req.Data)
	if err != nil {
		return domain.Profile{}, err
	}

	if profile.AvatarPath != "" {
		if err := s.files.Delete(ctx, profile.AvatarPath); err != nil {
			s.log.Warn("account.avatar_cleanup_failed",
				zap.String("path", profile.AvatarPath),
				zap.Error(err))
		}
	}

	profile.AvatarURL = stored.URL
	profile.AvatarPath = stored.Path
	profile.UpdatedAt = s.clock.Now()
	if err := s.repo.SaveProfile(ctx, s.db, profile); err != nil {
		return domain.Profile{}, err
	}
	return *profile, nil
}
