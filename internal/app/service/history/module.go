package history

import "go.uber.org/fx"

// Module exposes the payment history service via Fx.
var Module = fx.Options(
	fx.Provide(NewService),
)
