package components

import (
	repo_impl "hub-route-engine/internal/infra/repository"
	"hub-route-engine/internal/infra/uow"
	"hub-route-engine/internal/usecase/commands"
	"hub-route-engine/internal/usecase/queries"

	"go.uber.org/fx"
)

var RepositoryModule = fx.Module("repository",
	fx.Provide(
		// UnitOfWork doubles as the query-side connection provider.
		fx.Annotate(
			uow.NewPostgresUoW,
			fx.As(new(commands.UnitOfWork)),
			fx.As(new(queries.DBProvider)),
		),
		fx.Annotate(
			repo_impl.NewCapacityRepository,
			fx.As(new(commands.CapacityLedger)),
			fx.As(new(queries.CapacityReader)),
		),
		fx.Annotate(
			repo_impl.NewInventoryRepository,
			fx.As(new(commands.InventoryLedger)),
			fx.As(new(queries.InventoryReader)),
		),
		fx.Annotate(
			repo_impl.NewReservationRepository,
			fx.As(new(commands.ReservationStore)),
		),
		fx.Annotate(
			repo_impl.NewEventRepository,
			fx.As(new(commands.EventStore)),
			fx.As(new(queries.TrailReader)),
		),
		fx.Annotate(
			repo_impl.NewShipmentRepository,
			fx.As(new(commands.ShipmentStore)),
			fx.As(new(queries.ShipmentReader)),
		),
		fx.Annotate(
			NewHubDirectory,
			fx.As(new(commands.HubDirectory)),
			fx.As(new(queries.HubReader)),
		),
		repo_impl.NewQuoteRepository,
	),
)

func NewHubDirectory(p Pricing) *repo_impl.HubDirectoryRepository {
	return repo_impl.NewHubDirectoryRepository(p.DefaultFees)
}
