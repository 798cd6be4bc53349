package files

import (
	"github.com/smallbiznis/recouvro/internal/config"
	"go.uber.org/fx"
)

var Module = fx.Module("providers.files",
	fx.Provide(NewFromConfig),
)

func NewFromConfig(cfg config.Config) (Provider, error) {
	return NewLocal(Config{
		Dir:       cfg.Files.Dir,
		PublicURL: cfg.Files.PublicURL,
		MaxBytes:  cfg.Files.MaxBytes,
	})
}
