package server

import (
	"encoding/base64"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	recoverydomain "github.com/smallbiznis/recouvro/internal/recovery/domain"
)

type startRecoveryRequest struct {
	Text     string `json:"text"`
	File     string `json:"file"` // base64
	MimeType string `json:"mime_type"`
	Language string `json:"language"`
}

func (s *Server) StartRecovery(c *gin.Context) {
	var req startRecoveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	var fileData []byte
	if strings.TrimSpace(req.File) != "" {
		decoded, err := base64.StdEncoding.DecodeString(req.File)
		if err != nil {
			AbortWithError(c, newValidationError("file", "invalid_file", "file must be base64 encoded"))
			return
		}
		fileData = decoded
	}

	proc, err := s.recoverySvc.Start(c.Request.Context(), recoverydomain.StartRequest{
		Text:     req.Text,
		FileData: fileData,
		FileMime: strings.TrimSpace(req.MimeType),
		Language: strings.TrimSpace(req.Language),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": proc})
}

func (s *Server) GetRecoveryProcedure(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	proc, err := s.recoverySvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": proc})
}

func (s *Server) ConfirmRecoveryProcedure(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	inv, err := s.recoverySvc.Confirm(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": inv})
}

func (s *Server) CancelRecoveryProcedure(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	proc, err := s.recoverySvc.Cancel(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": proc})
}
