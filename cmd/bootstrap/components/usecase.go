package components

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/fx"

	"hub-route-engine/internal/domain/audit"
	"hub-route-engine/internal/infra/notify"
	"hub-route-engine/internal/infra/quotecache"
	repo_impl "hub-route-engine/internal/infra/repository"
	"hub-route-engine/internal/infra/transport"
	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/pkg/config"
	"hub-route-engine/internal/usecase/commands"
	"hub-route-engine/internal/usecase/queries"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseCommandsModule,
	usecaseQueriesModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	audit.NewRegistry,
	fx.Annotate(
		notify.NewSlogNotifier,
		fx.As(new(commands.DecisionNotifier)),
	),
	fx.Annotate(
		notify.NewSlogAlertSink,
		fx.As(new(commands.AlertSink)),
	),
	fx.Annotate(
		NewTransportRater,
		fx.As(new(queries.TransportRater)),
	),
	fx.Annotate(
		NewQuoteCache,
		fx.As(new(queries.QuoteCache)),
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewEventCommands,
		NewReservationCommands,
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		NewFeasibilityQueries,
		queries.NewAuditQueries,
	),
)

func NewReservationCommands(
	cfg config.Config,
	uow commands.UnitOfWork,
	capacityLedger commands.CapacityLedger,
	inventoryLedger commands.InventoryLedger,
	reservations commands.ReservationStore,
	shipments commands.ShipmentStore,
	hubs commands.HubDirectory,
	events commands.EventCommands,
	notifier commands.DecisionNotifier,
	alerts commands.AlertSink,
	clk clock.Clock,
) commands.ReservationCommands {
	return commands.NewReservationCommands(
		uow, capacityLedger, inventoryLedger, reservations, shipments, hubs,
		events, notifier, alerts, clk, cfg.Engine.HoldTTL,
	)
}

func NewFeasibilityQueries(
	p Pricing,
	db queries.DBProvider,
	shipments queries.ShipmentReader,
	hubs queries.HubReader,
	capacityReader queries.CapacityReader,
	stocks queries.InventoryReader,
	rater queries.TransportRater,
	quotes queries.QuoteCache,
	clk clock.Clock,
) queries.FeasibilityQueries {
	return queries.NewFeasibilityQueries(
		db, shipments, hubs, capacityReader, stocks, rater, quotes, clk,
		p.MarginPercent,
	)
}

func NewTransportRater(p Pricing) *transport.StaticRates {
	return transport.NewStaticRates(p.WhiteGloveLeg, p.DHLLeg)
}

func NewQuoteCache(cfg config.Config, pool *pgxpool.Pool, repo *repo_impl.QuoteRepository, clk clock.Clock) *quotecache.Cache {
	return quotecache.New(pool, repo, clk, cfg.Engine.QuoteCacheTTL, cfg.Engine.QuoteHotLayerTTL)
}
