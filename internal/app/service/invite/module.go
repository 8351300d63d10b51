package invite

import "go.uber.org/fx"

// Module exposes the invite-code redemption engine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
