package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/pgconv"
)

// ShipmentRecord is the read-only view the engine needs: service tier and
// declared value. The shipment store itself belongs to the wider platform.
type ShipmentRecord struct {
	ID            uuid.UUID
	Tier          route.Tier
	DeclaredValue decimal.Decimal
}

type ShipmentRepository struct{}

func NewShipmentRepository() *ShipmentRepository {
	return &ShipmentRepository{}
}

func (r *ShipmentRepository) FindByID(ctx context.Context, db pg.DBTX, id uuid.UUID) (*ShipmentRecord, error) {
	query := `SELECT id, tier, declared_value FROM shipments WHERE id = $1`

	var (
		rec  ShipmentRecord
		tier int
	)
	if err := db.QueryRow(ctx, query, id).Scan(&rec.ID, &tier, &rec.DeclaredValue); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("shipment not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find shipment", err)
	}

	t, err := route.NewTier(tier)
	if err != nil {
		return nil, infra.WrapRepoErr("shipment has invalid tier", err)
	}
	rec.Tier = t
	return &rec, nil
}
