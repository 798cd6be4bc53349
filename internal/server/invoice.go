package server

import (
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	invoicedomain "github.com/smallbiznis/recouvro/internal/invoice/domain"
	"github.com/smallbiznis/recouvro/internal/reminder"
	"github.com/smallbiznis/recouvro/pkg/db/pagination"
)

type createInvoiceRequest struct {
	ClientName string  `json:"client_name"`
	Amount     float64 `json:"amount"`
	DueDate    string  `json:"due_date"`
	Status     string  `json:"status"`
	RiskLevel  string  `json:"risk_level"`
}

func (s *Server) CreateInvoice(c *gin.Context) {
	var req createInvoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	status := invoicedomain.StatusPending
	if strings.TrimSpace(req.Status) != "" {
		parsed, ok := invoicedomain.ParseStatus(req.Status)
		if !ok {
			AbortWithError(c, invoicedomain.ErrInvalidStatus)
			return
		}
		status = parsed
	}

	resp, err := s.invoiceSvc.Create(c.Request.Context(), invoicedomain.CreateInvoiceRequest{
		ClientName: strings.TrimSpace(req.ClientName),
		Amount:     req.Amount,
		DueDate:    strings.TrimSpace(req.DueDate),
		Status:     status,
		RiskLevel:  strings.TrimSpace(req.RiskLevel),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) ListInvoices(c *gin.Context) {
	var query struct {
		pagination.Pagination
		Status string `form:"status"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.List(c.Request.Context(), invoicedomain.ListInvoiceRequest{
		PageToken: query.PageToken,
		PageSize:  int32(query.PageSize),
		Status:    strings.TrimSpace(query.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) GetInvoiceByID(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	resp, err := s.invoiceSvc.GetByID(c.Request.Context(), invoicedomain.GetInvoiceRequest{ID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type updateInvoiceStatusRequest struct {
	Status string `json:"status"`
}

func (s *Server) UpdateInvoiceStatus(c *gin.Context) {
	var req updateInvoiceStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	resp, err := s.invoiceSvc.UpdateStatus(c.Request.Context(), invoicedomain.UpdateStatusRequest{
		ID:     strings.TrimSpace(c.Param("id")),
		Status: strings.TrimSpace(req.Status),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) DeleteInvoice(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if err := s.invoiceSvc.Delete(c.Request.Context(), invoicedomain.DeleteInvoiceRequest{ID: id}); err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) AttachInvoiceFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidFile)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidFile)
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		AbortWithError(c, invoicedomain.ErrInvalidFile)
		return
	}

	resp, err := s.invoiceSvc.AttachFile(c.Request.Context(), invoicedomain.AttachFileRequest{
		ID:          strings.TrimSpace(c.Param("id")),
		FileName:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

type sendReminderRequest struct {
	To       string `json:"to"`
	Level    int    `json:"level"`
	Language string `json:"language"`
	Subject  string `json:"subject"`
	Body     string `json:"body"`
}

func (s *Server) SendInvoiceReminder(c *gin.Context) {
	var req sendReminderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	err := s.reminderSvc.Send(c.Request.Context(), reminder.SendRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		To:        strings.TrimSpace(req.To),
		Level:     req.Level,
		Language:  strings.TrimSpace(req.Language),
		Subject:   req.Subject,
		Body:      req.Body,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": gin.H{"sent": true}})
}

func (s *Server) DownloadInvoiceNotice(c *gin.Context) {
	reader, err := s.reminderSvc.Notice(c.Request.Context(), reminder.NoticeRequest{
		InvoiceID: strings.TrimSpace(c.Param("id")),
		Language:  strings.TrimSpace(c.Query("language")),
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="mise-en-demeure.pdf"`)
	c.Header("Content-Type", "application/pdf")
	c.Status(http.StatusOK)
	_, _ = io.Copy(c.Writer, reader)
}
