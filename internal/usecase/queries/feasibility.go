package queries

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/infra/quotecache"
	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/pkg/errs"
)

var (
	ErrShipmentNotFound   = errs.New("shipment not found")
	ErrHubNotFound        = errs.New("hub not found")
	ErrTierWithoutOptions = errs.New("tier routes directly without hub processing")
	ErrQueryFailure       = errs.New("feasibility query failed")
)

type FeasibilityInput struct {
	ShipmentID uuid.UUID
	Hub1       uuid.UUID
	Hub2       *uuid.UUID
	Day        time.Time
}

type FeasibilityResult struct {
	ShipmentID  uuid.UUID
	Tier        route.Tier
	Day         time.Time
	Options     []route.Option
	GeneratedAt time.Time
}

type FeasibilityQueries interface {
	// Plan enumerates every service model the shipment's tier permits,
	// prices each one, and flags options whose resources fall short. The
	// feasibility flags are advisory snapshots, not claims.
	Plan(ctx context.Context, in FeasibilityInput) (*FeasibilityResult, error)
}

type feasibilityQueriesImpl struct {
	db        DBProvider
	shipments ShipmentReader
	hubs      HubReader
	capacity  CapacityReader
	stocks    InventoryReader
	rater     TransportRater
	quotes    QuoteCache
	clock     clock.Clock
	margin    decimal.Decimal
}

func NewFeasibilityQueries(
	db DBProvider,
	shipments ShipmentReader,
	hubs HubReader,
	capacity CapacityReader,
	stocks InventoryReader,
	rater TransportRater,
	quotes QuoteCache,
	clk clock.Clock,
	marginPercent decimal.Decimal,
) FeasibilityQueries {
	return &feasibilityQueriesImpl{
		db:        db,
		shipments: shipments,
		hubs:      hubs,
		capacity:  capacity,
		stocks:    stocks,
		rater:     rater,
		quotes:    quotes,
		clock:     clk,
		margin:    marginPercent,
	}
}

func (q *feasibilityQueriesImpl) Plan(ctx context.Context, in FeasibilityInput) (*FeasibilityResult, error) {
	day := in.Day
	result := &FeasibilityResult{ShipmentID: in.ShipmentID, Day: day}

	err := q.db.WithDB(ctx, func(db pg.DBTX) error {
		shipment, err := q.shipments.FindByID(ctx, db, in.ShipmentID)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrShipmentNotFound
			}
			return errs.Mark(err, ErrQueryFailure)
		}
		result.Tier = shipment.Tier
		if !shipment.Tier.HasHubLegs() {
			return ErrTierWithoutOptions
		}

		hub1, err := q.findHub(ctx, db, in.Hub1)
		if err != nil {
			return err
		}
		hubFees := map[uuid.UUID]route.FeeTable{hub1.ID: hub1.Fees}
		if in.Hub2 != nil {
			hub2, err := q.findHub(ctx, db, *in.Hub2)
			if err != nil {
				return err
			}
			hubFees[hub2.ID] = hub2.Fees
		}

		demands, err := route.ConsumptionFor(shipment.Tier, in.Hub1, in.Hub2)
		if err != nil {
			return errs.Mark(err, ErrQueryFailure)
		}

		shortfalls, err := q.checkAvailability(ctx, db, demands, day)
		if err != nil {
			return err
		}

		fees := make([]route.FeeLine, 0, len(demands))
		for _, d := range demands {
			fees = append(fees, route.NewFeeLine(d.HubID.String(), d.Kind, d.Qty, hubFees[d.HubID]))
		}

		for _, model := range route.ModelsForTier(shipment.Tier) {
			legs, err := route.LegsFor(model, in.Hub1, in.Hub2)
			if err != nil {
				return errs.Mark(err, ErrQueryFailure)
			}
			for i := range legs {
				legs[i].Cost, err = q.priceLeg(ctx, legs[i], hubFees[hub1.ID])
				if err != nil {
					return err
				}
			}

			option := route.AssembleOption(model, legs, fees, q.margin)
			for _, s := range shortfalls {
				option.MarkInfeasible(s)
			}
			result.Options = append(result.Options, option)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	result.GeneratedAt = q.clock.Now()
	return result, nil
}

func (q *feasibilityQueriesImpl) findHub(ctx context.Context, db pg.DBTX, id uuid.UUID) (*hubView, error) {
	info, err := q.hubs.FindHub(ctx, db, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrHubNotFound
		}
		return nil, errs.Mark(err, ErrQueryFailure)
	}
	return &hubView{ID: info.ID, Fees: info.Fees}, nil
}

type hubView struct {
	ID   uuid.UUID
	Fees route.FeeTable
}

// checkAvailability snapshots both ledgers for the demanded resources. A
// missing ledger row reads as a shortfall, not as an error.
func (q *feasibilityQueriesImpl) checkAvailability(ctx context.Context, db pg.DBTX, demands []route.HubResource, day time.Time) ([]route.Shortfall, error) {
	var shortfalls []route.Shortfall
	add := func(d route.HubResource, reason string) {
		shortfalls = append(shortfalls, route.Shortfall{HubID: d.HubID, Kind: d.Kind, Day: day, Reason: reason})
	}

	for _, d := range demands {
		if capType, ok := d.Kind.CapacityType(); ok {
			dayRow, err := q.capacity.Find(ctx, db, d.HubID, capType, day)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					add(d, "no capacity scheduled for day")
					continue
				}
				return nil, errs.Mark(err, ErrQueryFailure)
			}
			if !dayRow.IsOpen() {
				add(d, "hub closed for day")
				continue
			}
			if dayRow.Available() < d.Qty {
				add(d, "capacity exhausted")
			}
			continue
		}

		itemKind, _ := d.Kind.ItemKind()
		stock, err := q.stocks.Find(ctx, db, d.HubID, itemKind)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				add(d, "no stock at hub")
				continue
			}
			return nil, errs.Mark(err, ErrQueryFailure)
		}
		if stock.Available() < d.Qty {
			add(d, "stock exhausted")
		}
	}
	return shortfalls, nil
}

// transportQuote is the payload shape stored in the quote cache.
type transportQuote struct {
	Amount string `json:"amount"`
}

// priceLeg resolves one leg's cost. Internal rollouts are priced from the
// origin hub's fee table; external modes go through the quote cache and fall
// back to the rater on a miss.
func (q *feasibilityQueriesImpl) priceLeg(ctx context.Context, leg route.Leg, originFees route.FeeTable) (decimal.Decimal, error) {
	if leg.Mode == route.LegInternalRollout {
		return originFees.InternalRollout, nil
	}

	key := quotecache.BuildKey("transport", map[string]string{
		"from": leg.From,
		"to":   leg.To,
		"mode": leg.Mode.String(),
	})
	if payload, ok := q.quotes.Get(ctx, key); ok {
		var quote transportQuote
		if err := json.Unmarshal(payload, &quote); err == nil {
			if amount, err := decimal.NewFromString(quote.Amount); err == nil {
				return amount, nil
			}
		}
		slog.Warn("discarding malformed cached quote", "cache_key", key)
	}

	amount, err := q.rater.Rate(ctx, leg.From, leg.To, leg.Mode)
	if err != nil {
		return decimal.Zero, errs.Mark(errs.Wrap(err, "transport rate lookup failed"), ErrQueryFailure)
	}
	if payload, err := json.Marshal(transportQuote{Amount: amount.String()}); err == nil {
		q.quotes.Put(ctx, key, payload)
	}
	return amount, nil
}
