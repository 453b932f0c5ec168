package route

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hub-route-engine/internal/domain/reservation"
)

// ClientEndpoint labels the non-hub end of a transport leg.
const ClientEndpoint = "client"

// HubResource is one resource consumption a tier/model combination demands
// at a specific hub.
type HubResource struct {
	HubID uuid.UUID
	Kind  reservation.ResourceKind
	Qty   int
}

// Leg is one transport segment of a route option.
type Leg struct {
	From string
	To   string
	Mode LegMode
	Cost decimal.Decimal
}

// Shortfall names exactly what blocks an option: which resource at which hub
// on which day.
type Shortfall struct {
	HubID  uuid.UUID
	Kind   reservation.ResourceKind
	Day    time.Time
	Reason string
}

// Option is one costed, feasibility-flagged service-model candidate. The
// feasible flag is advisory: the actual claim happens later through the
// reservation manager.
type Option struct {
	Model       ServiceModel
	Legs        []Leg
	HubFees     []FeeLine
	HubFeeTotal decimal.Decimal
	Transport   decimal.Decimal
	Margin      decimal.Decimal
	TotalCost   decimal.Decimal
	Feasible    bool
	Shortfalls  []Shortfall
}

// ConsumptionFor maps tier rules onto per-hub resource demands.
// Tier 2: authentication + security tag at hub 1 only.
// Tier 3: authentication + NFC at hub 1; sewing + QA at hub 2, folded into
// hub 1 when no second hub is designated.
func ConsumptionFor(t Tier, hub1 uuid.UUID, hub2 *uuid.UUID) ([]HubResource, error) {
	switch t {
	case Tier2:
		return []HubResource{
			{HubID: hub1, Kind: reservation.KindAuth, Qty: 1},
			{HubID: hub1, Kind: reservation.KindTag, Qty: 1},
		}, nil
	case Tier3:
		finishingHub := hub1
		if hub2 != nil {
			finishingHub = *hub2
		}
		return []HubResource{
			{HubID: hub1, Kind: reservation.KindAuth, Qty: 1},
			{HubID: hub1, Kind: reservation.KindNFC, Qty: 1},
			{HubID: finishingHub, Kind: reservation.KindSewing, Qty: 1},
			{HubID: finishingHub, Kind: reservation.KindQA, Qty: 1},
		}, nil
	default:
		return nil, ErrTierWithoutHubLegs
	}
}

// LegsFor lays out the transport segments of a service model with zero costs;
// the caller prices each leg afterwards. The hub1→hub2 segment is always an
// internal rollout.
func LegsFor(m ServiceModel, hub1 uuid.UUID, hub2 *uuid.UUID) ([]Leg, error) {
	if !m.IsValid() {
		return nil, ErrInvalidServiceModel
	}

	inbound, outbound := LegWhiteGlove, LegWhiteGlove
	switch m {
	case ModelDHLFull:
		inbound, outbound = LegDHL, LegDHL
	case ModelHybridWGDHL:
		outbound = LegDHL
	case ModelHybridDHLWG:
		inbound = LegDHL
	}

	exitHub := hub1
	legs := []Leg{
		{From: ClientEndpoint, To: hub1.String(), Mode: inbound},
	}
	if hub2 != nil {
		legs = append(legs, Leg{From: hub1.String(), To: hub2.String(), Mode: LegInternalRollout})
		exitHub = *hub2
	}
	legs = append(legs, Leg{From: exitHub.String(), To: ClientEndpoint, Mode: outbound})
	return legs, nil
}

// AssembleOption totals hub fees and priced legs, then applies the margin.
func AssembleOption(m ServiceModel, legs []Leg, fees []FeeLine, marginPercent decimal.Decimal) Option {
	hubTotal := decimal.Zero
	for _, f := range fees {
		hubTotal = hubTotal.Add(f.Amount)
	}
	transport := decimal.Zero
	for _, l := range legs {
		transport = transport.Add(l.Cost)
	}

	base := hubTotal.Add(transport)
	margin := base.Mul(marginPercent).Div(decimal.NewFromInt(100)).Round(2)

	return Option{
		Model:       m,
		Legs:        legs,
		HubFees:     fees,
		HubFeeTotal: hubTotal,
		Transport:   transport,
		Margin:      margin,
		TotalCost:   base.Add(margin),
		Feasible:    true,
	}
}

// MarkInfeasible records a shortfall and clears the advisory flag.
func (o *Option) MarkInfeasible(s Shortfall) {
	o.Feasible = false
	o.Shortfalls = append(o.Shortfalls, s)
}
