package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hub-route-engine/internal/domain/reservation"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/pgconv"
)

type ReservationRepository struct{}

func NewReservationRepository() *ReservationRepository {
	return &ReservationRepository{}
}

const reservationColumns = `id, shipment_id, hub_id, resource_kind, quantity, day, status, expires_at, created_by, created_at, consumed_at, cancelled_at`

// Create inserts a new hold. The partial unique index on
// (shipment_id, hub_id, resource_kind) WHERE status = 'active' is the
// storage-level guarantee behind the at-most-one-active-hold invariant; an
// index conflict surfaces as KindConflict.
func (r *ReservationRepository) Create(ctx context.Context, db pg.DBTX, res *reservation.Reservation) error {
	stmt := `INSERT INTO reservations (` + reservationColumns + `)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	_, err := db.Exec(ctx, stmt,
		res.ID(), res.ShipmentID(), res.HubID(), res.Kind().String(), res.Quantity(),
		res.Day(), res.Status().String(), res.ExpiresAt(), res.CreatedBy(), res.CreatedAt(),
		pgconv.TimePtrToPgtype(res.ConsumedAt()), pgconv.TimePtrToPgtype(res.CancelledAt()),
	)
	if err != nil {
		if pg.IsUniqueViolation(err) {
			return infra.WrapRepoErr("active hold already exists for shipment/hub/resource", err, infra.KindConflict)
		}
		return infra.WrapRepoErr("failed to create reservation", err)
	}
	return nil
}

func (r *ReservationRepository) FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1`
	return r.scanOne(db.QueryRow(ctx, query, id))
}

func (r *ReservationRepository) GetForUpdate(ctx context.Context, db pg.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE id = $1 FOR UPDATE`
	return r.scanOne(db.QueryRow(ctx, query, id))
}

// HasActiveHold is the fail-closed pre-check for the duplicate-hold
// invariant; the partial unique index backs it up under races.
func (r *ReservationRepository) HasActiveHold(ctx context.Context, db pg.DBTX, shipmentID, hubID uuid.UUID, kind reservation.ResourceKind) (bool, error) {
	query := `SELECT EXISTS (
SELECT 1 FROM reservations
WHERE shipment_id = $1 AND hub_id = $2 AND resource_kind = $3 AND status = 'active')`
	var exists bool
	if err := db.QueryRow(ctx, query, shipmentID, hubID, kind.String()).Scan(&exists); err != nil {
		return false, infra.WrapRepoErr("failed to check active hold", err)
	}
	return exists, nil
}

// UpdateStatus persists a lifecycle transition, guarded so only a row still
// in fromStatus moves. Zero rows affected means another caller transitioned
// it first.
func (r *ReservationRepository) UpdateStatus(ctx context.Context, db pg.DBTX, res *reservation.Reservation, fromStatus reservation.Status) (bool, error) {
	stmt := `UPDATE reservations
SET status = $2, consumed_at = $3, cancelled_at = $4, updated_at = NOW()
WHERE id = $1 AND status = $5`
	tag, err := db.Exec(ctx, stmt,
		res.ID(), res.Status().String(),
		pgconv.TimePtrToPgtype(res.ConsumedAt()), pgconv.TimePtrToPgtype(res.CancelledAt()),
		fromStatus.String(),
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to update reservation status", err)
	}
	return tag.RowsAffected() > 0, nil
}

// ClaimDue locks active holds past their deadline. SKIP LOCKED keeps
// concurrent sweeps and user-triggered transitions from queueing on each
// other; whoever wins the row lock does the transition, everyone else skips.
func (r *ReservationRepository) ClaimDue(ctx context.Context, db pg.DBTX, now time.Time, limit int) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations
WHERE status = 'active' AND expires_at < $1
ORDER BY expires_at
LIMIT $2
FOR UPDATE SKIP LOCKED`
	rows, err := db.Query(ctx, query, now, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to claim due reservations", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate due reservations", err)
	}
	return result, nil
}

func (r *ReservationRepository) FindByShipment(ctx context.Context, db pg.DBTX, shipmentID uuid.UUID) ([]*reservation.Reservation, error) {
	query := `SELECT ` + reservationColumns + ` FROM reservations WHERE shipment_id = $1 ORDER BY created_at DESC`
	rows, err := db.Query(ctx, query, shipmentID)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find reservations by shipment", err)
	}
	defer rows.Close()

	var result []*reservation.Reservation
	for rows.Next() {
		res, err := r.scanOne(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, res)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate reservations", err)
	}
	return result, nil
}

func (r *ReservationRepository) scanOne(row interface{ Scan(dest ...any) error }) (*reservation.Reservation, error) {
	var (
		id, shipmentID, hubID   uuid.UUID
		kind, status, createdBy string
		quantity                int
		day, expiresAt, created time.Time
		consumedAt, cancelledAt *time.Time
	)
	err := row.Scan(&id, &shipmentID, &hubID, &kind, &quantity, &day, &status,
		&expiresAt, &createdBy, &created, &consumedAt, &cancelledAt)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("reservation not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to scan reservation", err)
	}
	return reservation.ReconstructReservation(
		id, shipmentID, hubID,
		reservation.ResourceKind(kind), quantity, day,
		reservation.Status(status), expiresAt, createdBy, created,
		consumedAt, cancelledAt,
	), nil
}
