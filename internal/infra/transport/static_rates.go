package transport

import (
	"context"

	"github.com/shopspring/decimal"

	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/pkg/errs"
)

var ErrUnratedMode = errs.New("no rate configured for leg mode")

// StaticRates prices external legs from a fixed per-mode table. It stands in
// for the courier rating APIs; the quote cache in front of it keeps the call
// pattern identical to a real integration.
type StaticRates struct {
	rates map[route.LegMode]decimal.Decimal
}

func NewStaticRates(whiteGlove, dhl decimal.Decimal) *StaticRates {
	return &StaticRates{
		rates: map[route.LegMode]decimal.Decimal{
			route.LegWhiteGlove: whiteGlove,
			route.LegDHL:        dhl,
		},
	}
}

func (s *StaticRates) Rate(_ context.Context, _, _ string, mode route.LegMode) (decimal.Decimal, error) {
	rate, ok := s.rates[mode]
	if !ok {
		return decimal.Zero, errs.Wrapf(ErrUnratedMode, "mode %s", mode)
	}
	return rate, nil
}
