package queries

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hub-route-engine/internal/domain/capacity"
	"hub-route-engine/internal/domain/inventory"
	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/infra/repository"
)

// DBProvider hands queries a connection source without binding them to a
// concrete pool type.
type DBProvider interface {
	WithDB(ctx context.Context, fn func(db pg.DBTX) error) error
}

type CapacityReader interface {
	Find(ctx context.Context, db pg.DBTX, hubID uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error)
}

type InventoryReader interface {
	Find(ctx context.Context, db pg.DBTX, hubID uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error)
}

type ShipmentReader interface {
	FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*repository.ShipmentRecord, error)
}

type HubReader interface {
	FindHub(ctx context.Context, db pg.DBTX, hubID uuid.UUID) (*repository.HubInfo, error)
}

type TrailReader interface {
	ListTrail(ctx context.Context, db pg.DBTX, resourceType, resourceID string, limit int) ([]repository.TrailRow, error)
}

// TransportRater prices one transport leg. Implementations are expected to
// be slow or metered, so the planner fronts them with the quote cache.
type TransportRater interface {
	Rate(ctx context.Context, from, to string, mode route.LegMode) (decimal.Decimal, error)
}

// QuoteCache is the two-level external quote cache. Get reports a miss for
// expired or unknown keys; Put never fails loudly.
type QuoteCache interface {
	Get(ctx context.Context, cacheKey string) ([]byte, bool)
	Put(ctx context.Context, cacheKey string, payload []byte)
}
