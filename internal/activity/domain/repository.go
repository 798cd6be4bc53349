package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, entry *Entry) error
	ListRecent(ctx context.Context, db *gorm.DB, orgID snowflake.ID, limit int) ([]*Entry, error)
}
