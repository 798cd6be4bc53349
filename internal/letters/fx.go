package letters

import "go.uber.org/fx"

var Module = fx.Module("letters.service",
	fx.Provide(New),
)
