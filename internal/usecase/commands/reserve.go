package commands

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"hub-route-engine/internal/domain/audit"
	"hub-route-engine/internal/domain/inventory"
	"hub-route-engine/internal/domain/reservation"
	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/pkg/errs"
)

var (
	ErrShipmentNotFound    = errs.New("shipment not found")
	ErrHubNotFound         = errs.New("hub not found")
	ErrInvalidServiceModel = errs.New("service model not permitted for tier")
	ErrInvalidRequest      = errs.New("invalid reservation request")
	ErrCapacityExceeded    = errs.New("capacity exceeded")
	ErrInsufficientStock   = errs.New("insufficient stock")
	ErrDuplicateHold       = errs.New("active hold already exists")
	ErrReservationNotFound = errs.New("reservation not found")
	ErrInvalidState        = errs.New("reservation is not active")
	ErrStoreFailure        = errs.New("reservation store operation failed")
)

// ResourceFault pins a feasibility failure to the exact resource, hub, and
// day so callers can surface an actionable message.
type ResourceFault struct {
	HubID  uuid.UUID
	Kind   reservation.ResourceKind
	Day    time.Time
	Reason string
}

func (f *ResourceFault) Error() string {
	return fmt.Sprintf("%s at hub %s on %s: %s",
		f.Kind, f.HubID, f.Day.Format("2006-01-02"), f.Reason)
}

type PlaceHoldInput struct {
	ShipmentID uuid.UUID
	HubID      uuid.UUID
	Spec       reservation.ResourceSpec
	Day        time.Time
	TTL        time.Duration
	By         string
}

type ReserveOptionInput struct {
	ShipmentID uuid.UUID
	Model      route.ServiceModel
	Hub1       uuid.UUID
	Hub2       *uuid.UUID
	Day        time.Time
	By         string
}

type ReservationCommands interface {
	// ReserveOption turns a chosen route option into holds across both hubs,
	// all-or-nothing.
	ReserveOption(ctx context.Context, in ReserveOptionInput) ([]*reservation.Reservation, error)
	// PlaceHold claims one hub's resources for one day as a single unit.
	PlaceHold(ctx context.Context, in PlaceHoldInput) ([]*reservation.Reservation, error)
	Consume(ctx context.Context, id uuid.UUID, by string) error
	Cancel(ctx context.Context, id uuid.UUID, by, reason string) error
	// ExpireDue sweeps overdue active holds and releases what they held.
	ExpireDue(ctx context.Context, now time.Time) (int, error)
}

type reservationCommandsImpl struct {
	uow          UnitOfWork
	capacityRepo CapacityLedger
	stockRepo    InventoryLedger
	reservations ReservationStore
	shipments    ShipmentStore
	hubs         HubDirectory
	events       EventCommands
	notifier     DecisionNotifier
	alerts       AlertSink
	clock        clock.Clock
	holdTTL      time.Duration
}

func NewReservationCommands(
	uow UnitOfWork,
	capacityRepo CapacityLedger,
	stockRepo InventoryLedger,
	reservations ReservationStore,
	shipments ShipmentStore,
	hubs HubDirectory,
	events EventCommands,
	notifier DecisionNotifier,
	alerts AlertSink,
	clk clock.Clock,
	holdTTL time.Duration,
) ReservationCommands {
	return &reservationCommandsImpl{
		uow:          uow,
		capacityRepo: capacityRepo,
		stockRepo:    stockRepo,
		reservations: reservations,
		shipments:    shipments,
		hubs:         hubs,
		events:       events,
		notifier:     notifier,
		alerts:       alerts,
		clock:        clk,
		holdTTL:      holdTTL,
	}
}

// holdLine is one (hub, kind, qty) claim inside a multi-resource hold.
type holdLine struct {
	hubID uuid.UUID
	kind  reservation.ResourceKind
	qty   int
}

// lockKey gives holdLines a total order so concurrent multi-resource holds
// acquire row locks in the same sequence and cannot deadlock.
func (l holdLine) lockKey() string {
	return l.hubID.String() + "/" + l.kind.String()
}

func (r *reservationCommandsImpl) ReserveOption(ctx context.Context, in ReserveOptionInput) ([]*reservation.Reservation, error) {
	shipment, err := r.loadShipment(ctx, in.ShipmentID)
	if err != nil {
		return nil, err
	}

	// Model legality is checked before any ledger row is touched.
	if err := route.ValidateModelForTier(shipment.Tier, in.Model); err != nil {
		return nil, errs.Mark(err, ErrInvalidServiceModel)
	}

	if err := r.checkHubs(ctx, in.Hub1, in.Hub2); err != nil {
		return nil, err
	}

	demands, err := route.ConsumptionFor(shipment.Tier, in.Hub1, in.Hub2)
	if err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}
	lines := make([]holdLine, 0, len(demands))
	for _, d := range demands {
		lines = append(lines, holdLine{hubID: d.HubID, kind: d.Kind, qty: d.Qty})
	}

	var (
		placed []*reservation.Reservation
		alerts []inventory.LowStockAlert
	)
	err = r.uow.Within(ctx, func(db pg.DBTX) error {
		placed, alerts, err = r.placeLines(ctx, db, in.ShipmentID, lines, in.Day, r.holdTTL, in.By)
		if err != nil {
			return err
		}
		return r.recordRouteSelected(ctx, db, in, placed)
	})
	if err != nil {
		return nil, err
	}

	r.afterPlacement(ctx, in.ShipmentID, placed, alerts)
	return placed, nil
}

func (r *reservationCommandsImpl) PlaceHold(ctx context.Context, in PlaceHoldInput) ([]*reservation.Reservation, error) {
	if err := in.Spec.Validate(); err != nil {
		return nil, errs.Mark(err, ErrInvalidRequest)
	}
	ttl := in.TTL
	if ttl <= 0 {
		ttl = r.holdTTL
	}

	lines := make([]holdLine, 0, len(in.Spec.Lines))
	for _, l := range in.Spec.Lines {
		lines = append(lines, holdLine{hubID: in.HubID, kind: l.Kind, qty: l.Quantity})
	}

	var (
		placed []*reservation.Reservation
		alerts []inventory.LowStockAlert
	)
	err := r.uow.Within(ctx, func(db pg.DBTX) error {
		var err error
		placed, alerts, err = r.placeLines(ctx, db, in.ShipmentID, lines, in.Day, ttl, in.By)
		return err
	})
	if err != nil {
		return nil, err
	}

	r.afterPlacement(ctx, in.ShipmentID, placed, alerts)
	return placed, nil
}

// placeLines claims every line inside the caller's transaction. A failure on
// any line aborts the transaction, so no partial hold ever survives. Rows
// are locked in lockKey order.
func (r *reservationCommandsImpl) placeLines(
	ctx context.Context,
	db pg.DBTX,
	shipmentID uuid.UUID,
	lines []holdLine,
	day time.Time,
	ttl time.Duration,
	by string,
) ([]*reservation.Reservation, []inventory.LowStockAlert, error) {
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].lockKey() < lines[j].lockKey()
	})

	now := r.clock.Now()
	actor := actorOrSystem(by)

	placed := make([]*reservation.Reservation, 0, len(lines))
	var alerts []inventory.LowStockAlert
	for _, line := range lines {
		exists, err := r.reservations.HasActiveHold(ctx, db, shipmentID, line.hubID, line.kind)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrStoreFailure)
		}
		if exists {
			fault := &ResourceFault{HubID: line.hubID, Kind: line.kind, Day: day, Reason: "active hold already exists"}
			return nil, nil, errs.Mark(fault, ErrDuplicateHold)
		}

		var event audit.Event
		if capType, ok := line.kind.CapacityType(); ok {
			dayRow, err := r.capacityRepo.GetForUpdate(ctx, db, line.hubID, capType, day)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					fault := &ResourceFault{HubID: line.hubID, Kind: line.kind, Day: day, Reason: "no capacity for day"}
					return nil, nil, errs.Mark(fault, ErrCapacityExceeded)
				}
				return nil, nil, errs.Mark(err, ErrStoreFailure)
			}
			before := dayRow.ReservedCapacity()
			if err := dayRow.Reserve(line.qty); err != nil {
				fault := &ResourceFault{HubID: line.hubID, Kind: line.kind, Day: day, Reason: err.Error()}
				return nil, nil, errs.Mark(fault, ErrCapacityExceeded)
			}
			if err := r.capacityRepo.Save(ctx, db, dayRow); err != nil {
				return nil, nil, errs.Mark(err, ErrStoreFailure)
			}
			event = ledgerEvent(audit.TypeCapacityReserved, line, shipmentID, actor, now,
				ledgerState(before, dayRow.TotalCapacity(), day),
				ledgerState(dayRow.ReservedCapacity(), dayRow.TotalCapacity(), day))
		} else {
			itemKind, _ := line.kind.ItemKind()
			stock, err := r.stockRepo.GetForUpdate(ctx, db, line.hubID, itemKind)
			if err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					fault := &ResourceFault{HubID: line.hubID, Kind: line.kind, Day: day, Reason: "no stock at hub"}
					return nil, nil, errs.Mark(fault, ErrInsufficientStock)
				}
				return nil, nil, errs.Mark(err, ErrStoreFailure)
			}
			before := stock.Reserved()
			if err := stock.Reserve(line.qty); err != nil {
				fault := &ResourceFault{HubID: line.hubID, Kind: line.kind, Day: day, Reason: err.Error()}
				return nil, nil, errs.Mark(fault, ErrInsufficientStock)
			}
			if err := r.stockRepo.Save(ctx, db, stock); err != nil {
				return nil, nil, errs.Mark(err, ErrStoreFailure)
			}
			if stock.IsBelowMinimum() {
				alerts = append(alerts, inventory.LowStockAlert{
					HubID:        stock.HubID(),
					ItemKind:     stock.ItemKind(),
					Available:    stock.Available(),
					MinimumLevel: stock.MinimumLevel(),
					OccurredAt:   now,
				})
			}
			event = ledgerEvent(audit.TypeInventoryReserved, line, shipmentID, actor, now,
				stockState(before, stock.OnHand()),
				stockState(stock.Reserved(), stock.OnHand()))
		}

		res, err := reservation.NewReservation(shipmentID, line.hubID, line.kind, line.qty, day, ttl, actor, now)
		if err != nil {
			return nil, nil, errs.Mark(err, ErrInvalidRequest)
		}
		if err := r.reservations.Create(ctx, db, res); err != nil {
			if infra.IsKind(err, infra.KindConflict) {
				fault := &ResourceFault{HubID: line.hubID, Kind: line.kind, Day: day, Reason: "active hold already exists"}
				return nil, nil, errs.Mark(fault, ErrDuplicateHold)
			}
			return nil, nil, errs.Mark(err, ErrStoreFailure)
		}

		event.EventID = res.ID().String()
		if _, err := r.events.RecordInTx(ctx, db, event); err != nil {
			return nil, nil, err
		}
		placed = append(placed, res)
	}

	return placed, alerts, nil
}

func (r *reservationCommandsImpl) Consume(ctx context.Context, id uuid.UUID, by string) error {
	actor := actorOrSystem(by)
	return r.uow.Within(ctx, func(db pg.DBTX) error {
		res, err := r.loadForUpdate(ctx, db, id)
		if err != nil {
			return err
		}

		now := r.clock.Now()
		if err := res.Consume(now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		ok, err := r.reservations.UpdateStatus(ctx, db, res, reservation.StatusActive)
		if err != nil {
			return errs.Mark(err, ErrStoreFailure)
		}
		if !ok {
			// Another caller transitioned it between the lock and the update.
			return ErrInvalidState
		}

		eventType := audit.TypeCapacityConsumed
		if itemKind, isItem := res.Kind().ItemKind(); isItem {
			eventType = audit.TypeInventoryConsumed
			stock, err := r.stockRepo.GetForUpdate(ctx, db, res.HubID(), itemKind)
			if err != nil {
				return errs.Mark(err, ErrStoreFailure)
			}
			if err := stock.Consume(res.Quantity()); err != nil {
				return errs.Mark(err, ErrStoreFailure)
			}
			if err := r.stockRepo.Save(ctx, db, stock); err != nil {
				return errs.Mark(err, ErrStoreFailure)
			}
		}

		event := reservationEvent(eventType, res, actor, now, map[string]any{"status": "active"}, map[string]any{"status": "consumed"})
		_, err = r.events.RecordInTx(ctx, db, event)
		return err
	})
}

func (r *reservationCommandsImpl) Cancel(ctx context.Context, id uuid.UUID, by, reason string) error {
	actor := actorOrSystem(by)
	var cancelled *reservation.Reservation
	err := r.uow.Within(ctx, func(db pg.DBTX) error {
		res, err := r.loadForUpdate(ctx, db, id)
		if err != nil {
			return err
		}

		now := r.clock.Now()
		if err := res.Cancel(now); err != nil {
			return errs.Mark(err, ErrInvalidState)
		}
		ok, err := r.reservations.UpdateStatus(ctx, db, res, reservation.StatusActive)
		if err != nil {
			return errs.Mark(err, ErrStoreFailure)
		}
		if !ok {
			return ErrInvalidState
		}

		eventType, err := r.releaseHeld(ctx, db, res)
		if err != nil {
			return err
		}

		event := reservationEvent(eventType, res, actor, now,
			map[string]any{"status": "active"},
			map[string]any{"status": "cancelled", "reason": reason})
		if _, err := r.events.RecordInTx(ctx, db, event); err != nil {
			return err
		}
		cancelled = res
		return nil
	})
	if err != nil {
		return err
	}

	r.notifier.ReservationCancelled(ctx, cancelled, reason)
	return nil
}

const expireBatchSize = 500

func (r *reservationCommandsImpl) ExpireDue(ctx context.Context, now time.Time) (int, error) {
	expired := 0
	err := r.uow.Within(ctx, func(db pg.DBTX) error {
		due, err := r.reservations.ClaimDue(ctx, db, now, expireBatchSize)
		if err != nil {
			return errs.Mark(err, ErrStoreFailure)
		}

		// Ledger rows are locked in the same hub/kind order placeLines uses,
		// so a sweep batch cannot deadlock with a concurrent hold.
		sort.Slice(due, func(i, j int) bool {
			return releaseLockKey(due[i]) < releaseLockKey(due[j])
		})

		for _, res := range due {
			if err := res.Expire(); err != nil {
				// Raced with consume/cancel after the claim; skip, not an error.
				continue
			}
			ok, err := r.reservations.UpdateStatus(ctx, db, res, reservation.StatusActive)
			if err != nil {
				return errs.Mark(err, ErrStoreFailure)
			}
			if !ok {
				continue
			}

			eventType, err := r.releaseHeld(ctx, db, res)
			if err != nil {
				return err
			}
			event := reservationEvent(eventType, res, "sweeper", now,
				map[string]any{"status": "active"},
				map[string]any{"status": "expired"})
			if _, err := r.events.RecordInTx(ctx, db, event); err != nil {
				return err
			}
			expired++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	if expired > 0 {
		r.notifier.ReservationsExpired(ctx, expired)
	}
	return expired, nil
}

// releaseLockKey matches holdLine.lockKey for the reservation's ledger row.
func releaseLockKey(res *reservation.Reservation) string {
	return res.HubID().String() + "/" + res.Kind().String()
}

// releaseHeld returns a cancelled or expired hold's quantities to the owning
// ledger and names the matching release event type.
func (r *reservationCommandsImpl) releaseHeld(ctx context.Context, db pg.DBTX, res *reservation.Reservation) (audit.EventType, error) {
	if capType, ok := res.Kind().CapacityType(); ok {
		dayRow, err := r.capacityRepo.GetForUpdate(ctx, db, res.HubID(), capType, res.Day())
		if err != nil {
			return "", errs.Mark(err, ErrStoreFailure)
		}
		dayRow.Release(res.Quantity())
		if err := r.capacityRepo.Save(ctx, db, dayRow); err != nil {
			return "", errs.Mark(err, ErrStoreFailure)
		}
		return audit.TypeCapacityReleased, nil
	}

	itemKind, _ := res.Kind().ItemKind()
	stock, err := r.stockRepo.GetForUpdate(ctx, db, res.HubID(), itemKind)
	if err != nil {
		return "", errs.Mark(err, ErrStoreFailure)
	}
	stock.Release(res.Quantity())
	if err := r.stockRepo.Save(ctx, db, stock); err != nil {
		return "", errs.Mark(err, ErrStoreFailure)
	}
	return audit.TypeInventoryReleased, nil
}

func (r *reservationCommandsImpl) loadShipment(ctx context.Context, id uuid.UUID) (*shipmentView, error) {
	var view *shipmentView
	err := r.uow.WithDB(ctx, func(db pg.DBTX) error {
		rec, err := r.shipments.FindByID(ctx, db, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				return ErrShipmentNotFound
			}
			return errs.Mark(err, ErrStoreFailure)
		}
		view = &shipmentView{ID: rec.ID, Tier: rec.Tier}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return view, nil
}

type shipmentView struct {
	ID   uuid.UUID
	Tier route.Tier
}

func (r *reservationCommandsImpl) checkHubs(ctx context.Context, hub1 uuid.UUID, hub2 *uuid.UUID) error {
	return r.uow.WithDB(ctx, func(db pg.DBTX) error {
		ids := []uuid.UUID{hub1}
		if hub2 != nil {
			ids = append(ids, *hub2)
		}
		for _, id := range ids {
			if _, err := r.hubs.FindHub(ctx, db, id); err != nil {
				if infra.IsKind(err, infra.KindNotFound) {
					return ErrHubNotFound
				}
				return errs.Mark(err, ErrStoreFailure)
			}
		}
		return nil
	})
}

func (r *reservationCommandsImpl) loadForUpdate(ctx context.Context, db pg.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	res, err := r.reservations.GetForUpdate(ctx, db, id)
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrReservationNotFound
		}
		return nil, errs.Mark(err, ErrStoreFailure)
	}
	return res, nil
}

func (r *reservationCommandsImpl) recordRouteSelected(ctx context.Context, db pg.DBTX, in ReserveOptionInput, placed []*reservation.Reservation) error {
	ids := make([]string, len(placed))
	for i, res := range placed {
		ids[i] = res.ID().String()
	}
	post := map[string]any{
		"service_model":   in.Model.String(),
		"hub1":            in.Hub1.String(),
		"reservation_ids": ids,
	}
	if in.Hub2 != nil {
		post["hub2"] = in.Hub2.String()
	}

	event := audit.Event{
		EventID:       in.ShipmentID.String() + "/" + in.Model.String(),
		EventType:     audit.TypeRouteSelected,
		ActorID:       actorOrSystem(in.By),
		CorrelationID: in.ShipmentID.String(),
		EffectiveAt:   r.clock.Now(),
		ResourceType:  "shipment",
		ResourceID:    in.ShipmentID.String(),
		PostState:     post,
	}
	_, err := r.events.RecordInTx(ctx, db, event)
	return err
}

func (r *reservationCommandsImpl) afterPlacement(ctx context.Context, shipmentID uuid.UUID, placed []*reservation.Reservation, alerts []inventory.LowStockAlert) {
	r.notifier.ReservationsPlaced(ctx, shipmentID, placed)
	for _, a := range alerts {
		r.alerts.LowStock(ctx, a)
	}
}

func actorOrSystem(by string) string {
	if by == "" {
		return "system"
	}
	return by
}

func ledgerEvent(t audit.EventType, line holdLine, shipmentID uuid.UUID, actor string, now time.Time, pre, post map[string]any) audit.Event {
	return audit.Event{
		EventType:     t,
		ActorID:       actor,
		CorrelationID: shipmentID.String(),
		EffectiveAt:   now,
		ResourceType:  "hub",
		ResourceID:    line.hubID.String(),
		FieldsChanged: []string{"reserved"},
		PreState:      pre,
		PostState:     post,
	}
}

func reservationEvent(t audit.EventType, res *reservation.Reservation, actor string, now time.Time, pre, post map[string]any) audit.Event {
	return audit.Event{
		EventID:       res.ID().String() + "/" + string(t),
		EventType:     t,
		ActorID:       actor,
		CorrelationID: res.ShipmentID().String(),
		EffectiveAt:   now,
		ResourceType:  "hub",
		ResourceID:    res.HubID().String(),
		FieldsChanged: []string{"status"},
		PreState:      pre,
		PostState:     post,
	}
}

func ledgerState(reserved, total int, day time.Time) map[string]any {
	return map[string]any{
		"reserved": reserved,
		"total":    total,
		"day":      day.Format("2006-01-02"),
	}
}

func stockState(reserved, onHand int) map[string]any {
	return map[string]any{
		"reserved": reserved,
		"stock":    onHand,
	}
}
