package checkout

import (
	"go.uber.org/fx"

	"github.com/wigglebyte/console/internal/platform/razorpay"
)

// Module exposes the checkout service and the gateway adapter via Fx.
var Module = fx.Options(
	fx.Provide(razorpay.New),
	fx.Provide(NewService),
)
