package option

import (
	"time"

	"github.com/smallbiznis/recouvro/pkg/db/pagination"
	"gorm.io/gorm"
)

// Option mutates a gorm statement.
type Option interface {
	Apply(*gorm.DB) *gorm.DB
}

type paginationOption struct {
	page pagination.Pagination
}

// ApplyPagination decodes the cursor token and limits the statement to one
// row past the page size so callers can detect a next page.
func ApplyPagination(page pagination.Pagination) Option {
	return paginationOption{page: page}
}

func (o paginationOption) Apply(stmt *gorm.DB) *gorm.DB {
	size := o.page.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 250 {
		size = 250
	}
	stmt = stmt.Limit(size + 1)

	if o.page.PageToken == "" {
		return stmt
	}
	cursor, err := pagination.DecodeCursor(o.page.PageToken)
	if err != nil || cursor.CreatedAt == "" {
		return stmt
	}
	createdAt, err := time.Parse(time.RFC3339, cursor.CreatedAt)
	if err != nil {
		return stmt
	}
	return stmt.Where("created_at < ? OR (created_at = ? AND id < ?)", createdAt, createdAt, cursor.ID)
}
