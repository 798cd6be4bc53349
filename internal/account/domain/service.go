package domain

import (
	"context"
	"errors"

	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
)

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidName         = errors.New("invalid_name")
	ErrInvalidEmail        = errors.New("invalid_email")
	ErrInvalidFile         = errors.New("invalid_file")
	ErrProfileNotFound     = errors.New("profile_not_found")
)

type UpdateProfileRequest struct {
	Name  string
	Email string
	Plan  string
}

type UploadAvatarRequest struct {
	FileName    string
	ContentType string
	Data        []byte
}

// Overview aggregates everything the settings page shows.
type Overview struct {
	Profile        Profile                `json:"profile"`
	PaymentMethods []*PaymentMethod       `json:"payment_methods"`
	BillingRecords []*BillingRecord       `json:"billing_records"`
	Activity       []activitydomain.Entry `json:"activity"`
}

type Service interface {
	Overview(ctx context.Context) (Overview, error)
	UpdateProfile(ctx context.Context, req UpdateProfileRequest) (Profile, error)
	UploadAvatar(ctx context.Context, req UploadAvatarRequest) (Profile, error)
}
