package oracle

import (
	"github.com/smallbiznis/recouvro/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("oracle",
	fx.Provide(Provide),
)

// Provide builds the Generator from application configuration.
func Provide(cfg config.Config, log *zap.Logger) Generator {
	return NewClient(cfg.Oracle, log)
}
