package files

import "context"

// Stored describes a persisted attachment.
type Stored struct {
	Path string
	URL  string
	Name string
	Type string
	Size int64
}

type Provider interface {
	Save(ctx context.Context, name, contentType string, data []byte) (Stored, error)
	Delete(ctx context.Context, path string) error
	Open(ctx context.Context, path string) ([]byte, error)
}

type NoOpProvider struct{}

func (p *NoOpProvider) Save(ctx context.Context, name, contentType string, data []byte) (Stored, error) {
	return Stored{Name: name, Type: contentType, Size: int64(len(data))}, nil
}

func (p *NoOpProvider) Delete(ctx context.Context, path string) error { return nil }

func (p *NoOpProvider) Open(ctx context.Context, path string) ([]byte, error) { return nil, nil }
