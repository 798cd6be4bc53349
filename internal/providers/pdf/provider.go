package pdf

import (
	"context"
	"io"
)

// NoticeData carries the fields rendered on a formal notice letter.
type NoticeData struct {
	OrgName    string
	ClientName string
	Amount     string
	DueDate    string
	IssueDate  string
	Subject    string
	Body       string
	Reference  string
}

type Provider interface {
	GenerateNotice(ctx context.Context, data NoticeData) (io.Reader, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) GenerateNotice(ctx context.Context, data NoticeData) (io.Reader, error) {
	return nil, nil
}
