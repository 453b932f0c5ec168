package components

import (
	"hub-route-engine/internal/handler"
	"hub-route-engine/internal/handler/api"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewFeasibilityHandler,
		api.NewReservationHandler,
		api.NewEventHandler,
	),
	fx.Invoke(handler.NewRouter),
)
