package order

import "go.uber.org/fx"

// Module exposes the order/payment engine via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
