package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"hub-route-engine/internal/domain/inventory"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/pgconv"
)

// InventoryRepository persists per-hub consumable stock. Same row-lock
// discipline as the capacity ledger, keyed (hub, item_kind) without a date.
type InventoryRepository struct{}

func NewInventoryRepository() *InventoryRepository {
	return &InventoryRepository{}
}

const inventoryColumns = `hub_id, item_kind, stock, reserved, minimum_level, last_restocked_at`

func (r *InventoryRepository) Find(ctx context.Context, db pg.DBTX, hubID uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_stocks WHERE hub_id = $1 AND item_kind = $2`
	return r.scanOne(db.QueryRow(ctx, query, hubID, kind.String()))
}

func (r *InventoryRepository) GetForUpdate(ctx context.Context, db pg.DBTX, hubID uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_stocks WHERE hub_id = $1 AND item_kind = $2 FOR UPDATE`
	return r.scanOne(db.QueryRow(ctx, query, hubID, kind.String()))
}

func (r *InventoryRepository) Save(ctx context.Context, db pg.DBTX, s *inventory.Stock) error {
	stmt := `UPDATE inventory_stocks
SET stock = $3, reserved = $4, last_restocked_at = $5, updated_at = NOW()
WHERE hub_id = $1 AND item_kind = $2`
	tag, err := db.Exec(ctx, stmt,
		s.HubID(), s.ItemKind().String(), s.OnHand(), s.Reserved(),
		pgconv.TimePtrToPgtype(s.LastRestockedAt()),
	)
	if err != nil {
		return infra.WrapRepoErr("failed to save inventory stock", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("inventory stock not found", nil, infra.KindNotFound)
	}
	return nil
}

func (r *InventoryRepository) scanOne(row interface{ Scan(dest ...any) error }) (*inventory.Stock, error) {
	var (
		hubID           uuid.UUID
		itemKind        string
		stock, reserved int
		minimumLevel    int
		lastRestockedAt *time.Time
	)
	if err := row.Scan(&hubID, &itemKind, &stock, &reserved, &minimumLevel, &lastRestockedAt); err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("inventory stock not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find inventory stock", err)
	}
	return inventory.ReconstructStock(
		hubID, inventory.ItemKind(itemKind), stock, reserved, minimumLevel, lastRestockedAt,
	), nil
}
