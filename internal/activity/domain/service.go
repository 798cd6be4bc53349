package domain

import (
	"context"
	"errors"
)

type RecordRequest struct {
	Type        EntryType
	Description string
}

type ListRequest struct {
	Limit int
}

type Service interface {
	Record(context.Context, RecordRequest) (Entry, error)
	List(context.Context, ListRequest) ([]Entry, error)
}

var (
	ErrInvalidOrganization = errors.New("invalid_organization")
	ErrInvalidType         = errors.New("invalid_type")
	ErrInvalidDescription  = errors.New("invalid_description")
)
