package orgcontext

import (
	"context"

	"github.com/bwmarrin/snowflake"
)

type orgContextKey struct{}

// WithOrgID returns a context carrying the organization scope.
func WithOrgID(ctx context.Context, id snowflake.ID) context.Context {
	return context.WithValue(ctx, orgContextKey{}, id)
}

// OrgIDFromContext extracts the organization scope, if any.
func OrgIDFromContext(ctx context.Context) (snowflake.ID, bool) {
	id, ok := ctx.Value(orgContextKey{}).(snowflake.ID)
	return id, ok
}
