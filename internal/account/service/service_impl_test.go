package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/smallbiznis/recouvro/internal/account/domain"
	"github.com/smallbiznis/recouvro/internal/account/repository"
	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
	"github.com/smallbiznis/recouvro/internal/clock"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
	"github.com/smallbiznis/recouvro/internal/providers/files"
)

type activityStub struct {
	entries []activitydomain.Entry
}

func (a *activityStub) Record(ctx context.Context, req activitydomain.RecordRequest) (activitydomain.Entry, error) {
	return activitydomain.Entry{}, nil
}

func (a *activityStub) List(ctx context.Context, req activitydomain.ListRequest) ([]activitydomain.Entry, error) {
	return a.entries, nil
}

type filesStub struct {
	saved   []string
	deleted []string
}

func (f *filesStub) Save(ctx context.Context, name, contentType string, data []byte) (files.Stored, error) {
	f.saved = append(f.saved, name)
	return files.Stored{Path: "avatars/" + name, URL: "/files/avatars/" + name, Name: name, Type: contentType, Size: int64(len(data))}, nil
}

func (f *filesStub) Delete(ctx context.Context, path string) error {
	f.deleted = append(f.deleted, path)
	return nil
}

func (f *filesStub) Open(ctx context.Context, path string) ([]byte, error) { return nil, nil }

type harness struct {
	svc      domain.Service
	db       *gorm.DB
	repo     domain.Repository
	node     *snowflake.Node
	activity *activityStub
	files    *filesStub
	orgID    snowflake.ID
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatal(err)
	}
	if err := gdb.AutoMigrate(&domain.Profile{}, &domain.PaymentMethod{}, &domain.BillingRecord{}); err != nil {
		t.Fatal(err)
	}

	node, _ := snowflake.NewNode(1)
	activity := &activityStub{}
	fs := &filesStub{}
	repo := repository.Provide()

	svc := New(Params{
		DB:       gdb,
		Log:      zap.NewNop(),
		GenID:    node,
		Clock:    clock.NewFake(time.Date(2026, 2, 10, 12, 0, 0, 0, time.UTC)),
		Repo:     repo,
		Files:    fs,
		Activity: activity,
	})

	return &harness{
		svc:      svc,
		db:       gdb,
		repo:     repo,
		node:     node,
		activity: activity,
		files:    fs,
		orgID:    node.Generate(),
	}
}

func (h *harness) ctx() context.Context {
	return orgcontext.WithOrgID(context.Background(), h.orgID)
}

func (h *harness) seedProfile(t *testing.T) *domain.Profile {
	t.Helper()
	profile := &domain.Profile{
		ID:    h.node.Generate(),
		OrgID: h.orgID,
		Name:  "Alex Martin",
		Email: "alex@studio.fr",
		Plan:  "pro",
	}
	if err := h.repo.SaveProfile(context.Background(), h.db, profile); err != nil {
		t.Fatal(err)
	}
	return profile
}

func TestOverview(t *testing.T) {
	h := newHarness(t)
	h.seedProfile(t)

	err := h.repo.InsertPaymentMethod(context.Background(), h.db, &domain.PaymentMethod{
		ID: h.node.Generate(), OrgID: h.orgID, Brand: "visa", Last4: "4242", Expiry: "12/27", IsDefault: true,
	})
	assert.NoError(t, err)
	err = h.repo.InsertBillingRecord(context.Background(), h.db, &domain.BillingRecord{
		ID: h.node.Generate(), OrgID: h.orgID,
		Date: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), Amount: 29, Description: "Pro plan", Status: "paid",
	})
	assert.NoError(t, err)
	err = h.repo.InsertBillingRecord(context.Background(), h.db, &domain.BillingRecord{
		ID: h.node.Generate(), OrgID: h.orgID,
		Date: time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC), Amount: 29, Description: "Pro plan", Status: "paid",
	})
	assert.NoError(t, err)
	h.activity.entries = []activitydomain.Entry{{Type: activitydomain.TypeEmailSent, Description: "Relance envoyée"}}

	overview, err := h.svc.Overview(h.ctx())
	assert.NoError(t, err)
	assert.Equal(t, "Alex Martin", overview.Profile.Name)
	assert.Len(t, overview.PaymentMethods, 1)
	assert.Equal(t, "4242", overview.PaymentMethods[0].Last4)
	if assert.Len(t, overview.BillingRecords, 2) {
		// Newest billing record first.
		assert.Equal(t, time.Month(2), overview.BillingRecords[0].Date.Month())
	}
	assert.Len(t, overview.Activity, 1)
}

func TestOverviewErrors(t *testing.T) {
	h := newHarness(t)

	_, err := h.svc.Overview(context.Background())
	assert.ErrorIs(t, err, domain.ErrInvalidOrganization)

	_, err = h.svc.Overview(h.ctx())
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestUpdateProfile(t *testing.T) {
	h := newHarness(t)
	h.seedProfile(t)

	updated, err := h.svc.UpdateProfile(h.ctx(), domain.UpdateProfileRequest{
		Name:  "Alex Durand",
		Email: "alex.durand@studio.fr",
	})
	assert.NoError(t, err)
	assert.Equal(t, "Alex Durand", updated.Name)
	assert.Equal(t, "alex.durand@studio.fr", updated.Email)
	assert.Equal(t, "pro", updated.Plan)

	_, err = h.svc.UpdateProfile(h.ctx(), domain.UpdateProfileRequest{Name: "", Email: "a@b.fr"})
	assert.ErrorIs(t, err, domain.ErrInvalidName)
	_, err = h.svc.UpdateProfile(h.ctx(), domain.UpdateProfileRequest{Name: "Alex", Email: "not-an-email"})
	assert.ErrorIs(t, err, domain.ErrInvalidEmail)
}

func TestUploadAvatarReplacesPrevious(t *testing.T) {
	h := newHarness(t)
	h.seedProfile(t)

	first, err := h.svc.UploadAvatar(h.ctx(), domain.UploadAvatarRequest{
		FileName: "me.png", ContentType: "image/png", Data: []byte{1, 2, 3},
	})
	assert.NoError(t, err)
	assert.Equal(t, "/files/avatars/me.png", first.AvatarURL)
	assert.Empty(t, h.files.deleted)

	second, err := h.svc.UploadAvatar(h.ctx(), domain.UploadAvatarRequest{
		FileName: "new.png", ContentType: "image/png", Data: []byte{4, 5},
	})
	assert.NoError(t, err)
	assert.Equal(t, "/files/avatars/new.png", second.AvatarURL)
	assert.Equal(t, []string{"avatars/me.png"}, h.files.deleted)

	_, err = h.svc.UploadAvatar(h.ctx(), domain.UploadAvatarRequest{FileName: "x.png"})
	assert.ErrorIs(t, err, domain.ErrInvalidFile)
}
