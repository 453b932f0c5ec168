package bootstrap

import (
	"context"
	"log/slog"
	"time"

	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/pkg/config"
	"hub-route-engine/internal/usecase/commands"

	"go.uber.org/fx"
)

var SweeperModule = fx.Module("sweeper",
	fx.Invoke(StartSweeper),
)

// StartSweeper runs the periodic hold-expiry pass. It is the only background
// process in the engine; everything else happens inside request transactions.
func StartSweeper(lc fx.Lifecycle, cfg config.Config, reservationCommands commands.ReservationCommands, clk clock.Clock) {
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})

	lc.Append(fx.Hook{
		OnStart: func(_ context.Context) error {
			go func() {
				defer close(done)
				ticker := time.NewTicker(cfg.Engine.SweepInterval)
				defer ticker.Stop()
				slog.Info("expiry sweeper started", "interval", cfg.Engine.SweepInterval)
				for {
					select {
					case <-ctx.Done():
						return
					case <-ticker.C:
						count, err := reservationCommands.ExpireDue(ctx, clk.Now())
						if err != nil {
							slog.Error("expiry sweep failed", "error", err)
							continue
						}
						if count > 0 {
							slog.Info("expiry sweep completed", "expired", count)
						}
					}
				}
			}()
			return nil
		},
		OnStop: func(stopCtx context.Context) error {
			cancel()
			select {
			case <-done:
			case <-stopCtx.Done():
			}
			return nil
		},
	})
}
