package assistant

import "go.uber.org/fx"

var Module = fx.Module("assistant.service",
	fx.Provide(New),
)
