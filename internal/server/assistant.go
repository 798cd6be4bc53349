package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) CreateAssistantSession(c *gin.Context) {
	session := s.assistantSvc.NewSession(c.Request.Context())
	c.JSON(http.StatusOK, gin.H{"data": session})
}

func (s *Server) GetAssistantSession(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	session, err := s.assistantSvc.Get(c.Request.Context(), id)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": session})
}

type sendAssistantMessageRequest struct {
	Text string `json:"text"`
}

func (s *Server) SendAssistantMessage(c *gin.Context) {
	var req sendAssistantMessageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	answer, err := s.assistantSvc.SendMessage(c.Request.Context(), strings.TrimSpace(c.Param("id")), req.Text)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": answer})
}
