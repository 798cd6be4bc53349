package files

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

type Config struct {
	Dir       string
	PublicURL string
	MaxBytes  int64
}

// LocalProvider stores attachments on the local disk, standing in for an
// object-storage bucket.
type LocalProvider struct {
	cfg Config
}

func NewLocal(cfg Config) (*LocalProvider, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, fmt.Errorf("files dir not configured")
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("create files dir: %w", err)
	}
	return &LocalProvider{cfg: cfg}, nil
}

func (p *LocalProvider) Save(ctx context.Context, name, contentType string, data []byte) (Stored, error) {
	_ = ctx
	if len(data) == 0 {
		return Stored{}, fmt.Errorf("empty file")
	}
	if p.cfg.MaxBytes > 0 && int64(len(data)) > p.cfg.MaxBytes {
		return Stored{}, fmt.Errorf("file exceeds %d bytes", p.cfg.MaxBytes)
	}

	safe := safeName(name)
	stored := uuid.NewString() + "-" + safe
	full := filepath.Join(p.cfg.Dir, stored)
	if err := os.WriteFile(full, data, 0o644); err != nil {
		return Stored{}, fmt.Errorf("write file: %w", err)
	}

	return Stored{
		Path: stored,
		URL:  strings.TrimRight(p.cfg.PublicURL, "/") + "/" + stored,
		Name: safe,
		Type: contentType,
		Size: int64(len(data)),
	}, nil
}

func (p *LocalProvider) Delete(ctx context.Context, path string) error {
	_ = ctx
	path = filepath.Base(strings.TrimSpace(path))
	if path == "" || path == "." {
		return nil
	}
	err := os.Remove(filepath.Join(p.cfg.Dir, path))
	if os.IsNotExist(err) {
		return nil
	}
	return err
}

func (p *LocalProvider) Open(ctx context.Context, path string) ([]byte, error) {
	_ = ctx
	path = filepath.Base(strings.TrimSpace(path))
	return os.ReadFile(filepath.Join(p.cfg.Dir, path))
}

func safeName(name string) string {
	ext := filepath.Ext(name)
	base := strings.TrimSuffix(filepath.Base(name), ext)
	safe := slug.Make(base)
	if safe == "" {
		safe = "file"
	}
	return safe + strings.ToLower(ext)
}

var _ Provider = (*LocalProvider)(nil)
