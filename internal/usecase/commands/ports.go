package commands

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hub-route-engine/internal/domain/capacity"
	"hub-route-engine/internal/domain/inventory"
	"hub-route-engine/internal/domain/reservation"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/infra/repository"
)

// UnitOfWork runs a function inside a retried read-committed transaction
// (Within) or against the pool with implicit transactions (WithDB).
type UnitOfWork interface {
	Within(ctx context.Context, fn func(db pg.DBTX) error) error
	WithDB(ctx context.Context, fn func(db pg.DBTX) error) error
}

type CapacityLedger interface {
	Find(ctx context.Context, db pg.DBTX, hubID uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error)
	GetForUpdate(ctx context.Context, db pg.DBTX, hubID uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error)
	Save(ctx context.Context, db pg.DBTX, d *capacity.HubResourceDay) error
}

type InventoryLedger interface {
	Find(ctx context.Context, db pg.DBTX, hubID uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error)
	GetForUpdate(ctx context.Context, db pg.DBTX, hubID uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error)
	Save(ctx context.Context, db pg.DBTX, s *inventory.Stock) error
}

type ReservationStore interface {
	Create(ctx context.Context, db pg.DBTX, res *reservation.Reservation) error
	FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	GetForUpdate(ctx context.Context, db pg.DBTX, id uuid.UUID) (*reservation.Reservation, error)
	HasActiveHold(ctx context.Context, db pg.DBTX, shipmentID, hubID uuid.UUID, kind reservation.ResourceKind) (bool, error)
	UpdateStatus(ctx context.Context, db pg.DBTX, res *reservation.Reservation, fromStatus reservation.Status) (bool, error)
	ClaimDue(ctx context.Context, db pg.DBTX, now time.Time, limit int) ([]*reservation.Reservation, error)
}

type ShipmentStore interface {
	FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*repository.ShipmentRecord, error)
}

type HubDirectory interface {
	FindHub(ctx context.Context, db pg.DBTX, hubID uuid.UUID) (*repository.HubInfo, error)
}

// DecisionNotifier is the outbound integration seam: delivery failures are
// the sink's problem to log and retry, never the core transaction's.
type DecisionNotifier interface {
	ReservationsPlaced(ctx context.Context, shipmentID uuid.UUID, reservations []*reservation.Reservation)
	ReservationCancelled(ctx context.Context, res *reservation.Reservation, reason string)
	ReservationsExpired(ctx context.Context, count int)
}

// AlertSink consumes non-blocking low-stock signals.
type AlertSink interface {
	LowStock(ctx context.Context, alert inventory.LowStockAlert)
}
