package reminder

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/recouvro/internal/dunning"
)

var Module = fx.Module("reminder.service",
	fx.Provide(func(g *dunning.Generator) SequenceGenerator { return g }),
	fx.Provide(New),
)
