package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	accountdomain "github.com/smallbiznis/recouvro/internal/account/domain"
)

func (s *Server) GetAccountOverview(c *gin.Context) {
	overview, err := s.accountSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": overview})
}

// GetAccountBilling serves the billing slice of the overview for the
// settings page's billing tab.
func (s *Server) GetAccountBilling(c *gin.Context) {
	overview, err := s.accountSvc.Overview(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{
		"payment_methods": overview.PaymentMethods,
		"billing_records": overview.BillingRecords,
	}})
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Plan  string `json:"plan"`
}

func (s *Server) UpdateAccountProfile(c *gin.Context) {
	var req updateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	profile, err := s.accountSvc.UpdateProfile(c.Request.Context(), accountdomain.UpdateProfileRequest{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.TrimSpace(req.Email),
		Plan:  strings.TrimSpace(req.Plan),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}

func (s *Server) UploadAccountAvatar(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, accountdomain.ErrInvalidFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, accountdomain.ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, accountdomain.ErrInvalidFile)
		return
	}

	profile, err := s.accountSvc.UploadAvatar(c.Request.Context(), accountdomain.UploadAvatarRequest{
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": profile})
}
