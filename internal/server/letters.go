package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/smallbiznis/recouvro/internal/letters"
	"github.com/smallbiznis/recouvro/internal/locale"
)

type generateLetterRequest struct {
	Type     string `json:"type"`
	Context  string `json:"context"`
	Language string `json:"language"`
}

func (s *Server) GenerateLetter(c *gin.Context) {
	var req generateLetterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	kind, ok := letters.ParseKind(strings.TrimSpace(req.Type))
	if !ok {
		AbortWithError(c, letters.ErrUnknownKind)
		return
	}

	letter, err := s.letterSvc.Generate(c.Request.Context(), kind, req.Context, locale.Parse(req.Language))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": letter})
}
