package recovery

import (
	"go.uber.org/fx"

	"github.com/smallbiznis/recouvro/internal/dunning"
	"github.com/smallbiznis/recouvro/internal/extraction"
	"github.com/smallbiznis/recouvro/internal/recovery/domain"
	"github.com/smallbiznis/recouvro/internal/recovery/service"
)

var Module = fx.Module("recovery.service",
	fx.Provide(func(e *extraction.Extractor) domain.Extractor { return e }),
	fx.Provide(func(g *dunning.Generator) domain.SequenceGenerator { return g }),
	fx.Provide(service.New),
)
