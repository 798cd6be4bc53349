package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	activitydomain "github.com/smallbiznis/recouvro/internal/activity/domain"
)

func (s *Server) ListActivity(c *gin.Context) {
	var query struct {
		Limit int `form:"limit"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	entries, err := s.activitySvc.List(c.Request.Context(), activitydomain.ListRequest{Limit: query.Limit})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": entries})
}
