package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hub-route-engine/internal/domain/capacity"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/pgconv"
)

// CapacityRepository persists HubResourceDay rows. Every mutation goes
// through GetForUpdate + Save inside one transaction so concurrent holds on
// the same (hub, resource, day) serialize on the row lock.
type CapacityRepository struct{}

func NewCapacityRepository() *CapacityRepository {
	return &CapacityRepository{}
}

const capacityColumns = `hub_id, resource_type, day, total_capacity, reserved_capacity, is_blackout, is_maintenance`

func (r *CapacityRepository) Find(ctx context.Context, db pg.DBTX, hubID uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error) {
	query := `SELECT ` + capacityColumns + ` FROM hub_resource_days
WHERE hub_id = $1 AND resource_type = $2 AND day = $3`
	return r.scanOne(db.QueryRow(ctx, query, hubID, rt.String(), capacity.NormalizeDay(day)))
}

func (r *CapacityRepository) GetForUpdate(ctx context.Context, db pg.DBTX, hubID uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error) {
	query := `SELECT ` + capacityColumns + ` FROM hub_resource_days
WHERE hub_id = $1 AND resource_type = $2 AND day = $3 FOR UPDATE`
	return r.scanOne(db.QueryRow(ctx, query, hubID, rt.String(), capacity.NormalizeDay(day)))
}

func (r *CapacityRepository) Save(ctx context.Context, db pg.DBTX, d *capacity.HubResourceDay) error {
	stmt := `UPDATE hub_resource_days SET reserved_capacity = $4, updated_at = NOW()
WHERE hub_id = $1 AND resource_type = $2 AND day = $3`
	tag, err := db.Exec(ctx, stmt, d.HubID(), d.ResourceType().String(), d.Day(), d.ReservedCapacity())
	if err != nil {
		return infra.WrapRepoErr("failed to save hub resource day", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("hub resource day not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *CapacityRepository) scanOne(row interface{ Scan(dest ...any) error }) (*capacity.HubResourceDay, error) {
	var (
		hubID                     uuid.UUID
		resourceType              string
		day                       time.Time
		total, reserved           int
		isBlackout, isMaintenance bool
	)
	if err := row.Scan(&hubID, &resourceType, &day, &total, &reserved, &isBlackout, &isMaintenance); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("hub resource day not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find hub resource day", err)
	}
	return capacity.ReconstructHubResourceDay(
		hubID, capacity.ResourceType(resourceType), day, total, reserved, isBlackout, isMaintenance,
	), nil
}
