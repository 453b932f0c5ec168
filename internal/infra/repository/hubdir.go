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

// HubInfo is the directory view of a hub: identity, owning network, and its
// resolved fee table.
type HubInfo struct {
	ID        uuid.UUID
	Name      string
	Network   string
	Operating bool
	Fees      route.FeeTable
	// DefaultFees is true when the hub has no stored price book and the
	// platform default table was substituted.
	DefaultFees bool
}

// HubDirectoryRepository resolves hubs and their price books. A hub without
// a price book row gets the injected default fee table rather than an error.
type HubDirectoryRepository struct {
	defaultFees route.FeeTable
}

func NewHubDirectoryRepository(defaultFees route.FeeTable) *HubDirectoryRepository {
	return &HubDirectoryRepository{defaultFees: defaultFees}
}

func (r *HubDirectoryRepository) FindHub(ctx context.Context, db pg.DBTX, hubID uuid.UUID) (*HubInfo, error) {
	query := `SELECT h.id, h.name, h.network, h.operating,
       p.auth_fee, p.sewing_fee, p.qa_fee, p.nfc_unit_fee, p.tag_unit_fee, p.internal_rollout_fee
FROM hubs h
LEFT JOIN hub_price_books p ON p.hub_id = h.id
WHERE h.id = $1`

	var (
		info                                               HubInfo
		authFee, sewingFee, qaFee, nfcFee, tagFee, rollFee *decimal.Decimal
	)
	err := db.QueryRow(ctx, query, hubID).Scan(
		&info.ID, &info.Name, &info.Network, &info.Operating,
		&authFee, &sewingFee, &qaFee, &nfcFee, &tagFee, &rollFee,
	)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, infra.WrapRepoErr("hub not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find hub", err)
	}

	if authFee == nil {
		info.Fees = r.defaultFees
		info.DefaultFees = true
		return &info, nil
	}
	info.Fees = route.FeeTable{
		Auth:            *authFee,
		Sewing:          orDefault(sewingFee, r.defaultFees.Sewing),
		QA:              orDefault(qaFee, r.defaultFees.QA),
		NFCUnit:         orDefault(nfcFee, r.defaultFees.NFCUnit),
		TagUnit:         orDefault(tagFee, r.defaultFees.TagUnit),
		InternalRollout: orDefault(rollFee, r.defaultFees.InternalRollout),
	}
	return &info, nil
}

func orDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return *v
}
