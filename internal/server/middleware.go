package server

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/bwmarrin/snowflake"
	obscontext "github.com/smallbiznis/recouvro/internal/observability/context"
	"github.com/smallbiznis/recouvro/internal/orgcontext"
)

const HeaderOrg = "X-Org-ID"

// OrgContext resolves the organization from the X-Org-ID header, falling
// back to the configured default org.
func (s *Server) OrgContext() gin.HandlerFunc {
	return func(c *gin.Context) {
		orgID := snowflake.ID(s.cfg.DefaultOrgID)
		if raw := strings.TrimSpace(c.GetHeader(HeaderOrg)); raw != "" {
			parsed, err := strconv.ParseInt(raw, 10, 64)
			if err != nil || parsed <= 0 {
				AbortWithError(c, newValidationError("org", "invalid_org", "invalid organization header"))
				return
			}
			orgID = snowflake.ID(parsed)
		}
		if orgID == 0 {
			AbortWithError(c, newValidationError("org", "missing_org", "organization is required"))
			return
		}

		ctx := orgcontext.WithOrgID(c.Request.Context(), orgID)
		ctx = obscontext.WithOrgID(ctx, orgID.String())
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

// APITokenRequired gates the /api mirror with the static token.
func (s *Server) APITokenRequired() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimSpace(c.GetHeader("Authorization"))
		token = strings.TrimPrefix(token, "Bearer ")
		if s.cfg.APIToken == "" || token != s.cfg.APIToken {
			AbortWithError(c, ErrUnauthorized)
			return
		}
		c.Next()
	}
}

// RateLimit bounds oracle-backed endpoints per organization.
func (s *Server) RateLimit(endpoint string) gin.HandlerFunc {
	return func(c *gin.Context) {
		subject := "anonymous"
		if orgID, ok := orgcontext.OrgIDFromContext(c.Request.Context()); ok {
			subject = orgID.String()
		}
		if !s.limiter.Allow(endpoint, subject) {
			AbortWithError(c, ErrRateLimited)
			return
		}
		c.Next()
	}
}
