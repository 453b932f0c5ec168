package components

import (
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/pkg/config"
	"hub-route-engine/internal/pkg/errs"
)

// Pricing is the parsed money configuration shared by the hub directory, the
// route planner, and the static transport rater.
type Pricing struct {
	DefaultFees   route.FeeTable
	MarginPercent decimal.Decimal
	WhiteGloveLeg decimal.Decimal
	DHLLeg        decimal.Decimal
}

var PricingModule = fx.Module("pricing",
	fx.Provide(
		NewPricing,
	),
)

func NewPricing(cfg config.Config) (Pricing, error) {
	var (
		p      Pricing
		err    error
		fields = []struct {
			dst *decimal.Decimal
			raw string
		}{
			{&p.DefaultFees.Auth, cfg.Pricing.DefaultAuthFee},
			{&p.DefaultFees.Sewing, cfg.Pricing.DefaultSewingFee},
			{&p.DefaultFees.QA, cfg.Pricing.DefaultQAFee},
			{&p.DefaultFees.NFCUnit, cfg.Pricing.DefaultNFCUnitFee},
			{&p.DefaultFees.TagUnit, cfg.Pricing.DefaultTagUnitFee},
			{&p.DefaultFees.InternalRollout, cfg.Pricing.InternalRolloutFee},
			{&p.MarginPercent, cfg.Pricing.MarginPercent},
			{&p.WhiteGloveLeg, cfg.Pricing.WhiteGloveLegFee},
			{&p.DHLLeg, cfg.Pricing.DHLLegFee},
		}
	)
	for _, f := range fields {
		if *f.dst, err = decimal.NewFromString(f.raw); err != nil {
			return Pricing{}, errs.Wrapf(err, "invalid pricing value %q", f.raw)
		}
	}
	return p, nil
}
