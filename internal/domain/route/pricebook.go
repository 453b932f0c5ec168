package route

import (
	"github.com/shopspring/decimal"

	"hub-route-engine/internal/domain/reservation"
)

// FeeTable is one hub's price book: per-service fees plus per-unit consumable
// fees. Hubs without a stored price book get the platform default table so a
// missing entry degrades cost accuracy, never the whole computation.
type FeeTable struct {
	Auth            decimal.Decimal
	Sewing          decimal.Decimal
	QA              decimal.Decimal
	NFCUnit         decimal.Decimal
	TagUnit         decimal.Decimal
	InternalRollout decimal.Decimal
}

func (t FeeTable) FeeFor(kind reservation.ResourceKind) decimal.Decimal {
	switch kind {
	case reservation.KindAuth:
		return t.Auth
	case reservation.KindSewing:
		return t.Sewing
	case reservation.KindQA:
		return t.QA
	case reservation.KindNFC:
		return t.NFCUnit
	case reservation.KindTag:
		return t.TagUnit
	default:
		return decimal.Zero
	}
}

// FeeLine is one priced resource consumption at one hub.
type FeeLine struct {
	HubID   string
	Kind    reservation.ResourceKind
	Qty     int
	UnitFee decimal.Decimal
	Amount  decimal.Decimal
}

func NewFeeLine(hubID string, kind reservation.ResourceKind, qty int, table FeeTable) FeeLine {
	unit := table.FeeFor(kind)
	return FeeLine{
		HubID:   hubID,
		Kind:    kind,
		Qty:     qty,
		UnitFee: unit,
		Amount:  unit.Mul(decimal.NewFromInt(int64(qty))),
	}
}
