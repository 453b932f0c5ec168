//go:build unit

package commands_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hub-route-engine/internal/domain/audit"
	"hub-route-engine/internal/domain/capacity"
	"hub-route-engine/internal/domain/inventory"
	"hub-route-engine/internal/domain/reservation"
	"hub-route-engine/internal/domain/route"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/infra/repository"
	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/usecase/commands"
)

var (
	testNow = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	testDay = time.Date(2026, 9, 2, 0, 0, 0, 0, time.UTC)
)

// ---- fakes -----------------------------------------------------------------

// txStore lets the fake unit of work snapshot a store before the transaction
// body runs and restore it when the body fails.
type txStore interface {
	snapshot() any
	restore(any)
}

// fakeUoW mirrors transaction semantics in memory: a failing body rolls every
// participating store back to its pre-transaction state.
type fakeUoW struct {
	stores []txStore
}

func (f *fakeUoW) Within(_ context.Context, fn func(db pg.DBTX) error) error {
	saved := make([]any, len(f.stores))
	for i, s := range f.stores {
		saved[i] = s.snapshot()
	}
	if err := fn(nil); err != nil {
		for i, s := range f.stores {
			s.restore(saved[i])
		}
		return err
	}
	return nil
}

func (f *fakeUoW) WithDB(_ context.Context, fn func(db pg.DBTX) error) error { return fn(nil) }

type capKey struct {
	hub uuid.UUID
	rt  capacity.ResourceType
	day string
}

type fakeCapacityLedger struct {
	rows     map[capKey]*capacity.HubResourceDay
	getCalls int
	lockLog  *[]string
}

func newFakeCapacityLedger() *fakeCapacityLedger {
	return &fakeCapacityLedger{rows: map[capKey]*capacity.HubResourceDay{}}
}

func (f *fakeCapacityLedger) put(hub uuid.UUID, rt capacity.ResourceType, day time.Time, total, reserved int) {
	k := capKey{hub, rt, day.Format("2006-01-02")}
	f.rows[k] = capacity.ReconstructHubResourceDay(hub, rt, day, total, reserved, false, false)
}

func (f *fakeCapacityLedger) reserved(hub uuid.UUID, rt capacity.ResourceType, day time.Time) int {
	return f.rows[capKey{hub, rt, day.Format("2006-01-02")}].ReservedCapacity()
}

func (f *fakeCapacityLedger) find(hub uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error) {
	row, ok := f.rows[capKey{hub, rt, day.Format("2006-01-02")}]
	if !ok {
		return nil, infra.WrapRepoErr("hub resource day not found", nil, infra.KindNotFound)
	}
	return capacity.ReconstructHubResourceDay(
		row.HubID(), row.ResourceType(), row.Day(),
		row.TotalCapacity(), row.ReservedCapacity(), row.IsBlackout(), row.IsMaintenance(),
	), nil
}

func (f *fakeCapacityLedger) Find(_ context.Context, _ pg.DBTX, hub uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error) {
	return f.find(hub, rt, day)
}

func (f *fakeCapacityLedger) GetForUpdate(_ context.Context, _ pg.DBTX, hub uuid.UUID, rt capacity.ResourceType, day time.Time) (*capacity.HubResourceDay, error) {
	f.getCalls++
	if f.lockLog != nil {
		*f.lockLog = append(*f.lockLog, hub.String()+"/"+string(rt))
	}
	return f.find(hub, rt, day)
}

func (f *fakeCapacityLedger) Save(_ context.Context, _ pg.DBTX, d *capacity.HubResourceDay) error {
	f.rows[capKey{d.HubID(), d.ResourceType(), d.Day().Format("2006-01-02")}] = d
	return nil
}

func (f *fakeCapacityLedger) snapshot() any {
	saved := make(map[capKey]*capacity.HubResourceDay, len(f.rows))
	for k, v := range f.rows {
		saved[k] = v
	}
	return saved
}

func (f *fakeCapacityLedger) restore(s any) {
	f.rows = s.(map[capKey]*capacity.HubResourceDay)
}

type invKey struct {
	hub  uuid.UUID
	kind inventory.ItemKind
}

type fakeInventoryLedger struct {
	rows     map[invKey]*inventory.Stock
	getCalls int
	lockLog  *[]string
}

func newFakeInventoryLedger() *fakeInventoryLedger {
	return &fakeInventoryLedger{rows: map[invKey]*inventory.Stock{}}
}

func (f *fakeInventoryLedger) put(hub uuid.UUID, kind inventory.ItemKind, stock, reserved, minimum int) {
	f.rows[invKey{hub, kind}] = inventory.ReconstructStock(hub, kind, stock, reserved, minimum, nil)
}

func (f *fakeInventoryLedger) find(hub uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error) {
	row, ok := f.rows[invKey{hub, kind}]
	if !ok {
		return nil, infra.WrapRepoErr("inventory stock not found", nil, infra.KindNotFound)
	}
	return inventory.ReconstructStock(
		row.HubID(), row.ItemKind(), row.OnHand(), row.Reserved(), row.MinimumLevel(), row.LastRestockedAt(),
	), nil
}

func (f *fakeInventoryLedger) Find(_ context.Context, _ pg.DBTX, hub uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error) {
	return f.find(hub, kind)
}

func (f *fakeInventoryLedger) GetForUpdate(_ context.Context, _ pg.DBTX, hub uuid.UUID, kind inventory.ItemKind) (*inventory.Stock, error) {
	f.getCalls++
	if f.lockLog != nil {
		*f.lockLog = append(*f.lockLog, hub.String()+"/"+string(kind))
	}
	return f.find(hub, kind)
}

func (f *fakeInventoryLedger) Save(_ context.Context, _ pg.DBTX, s *inventory.Stock) error {
	f.rows[invKey{s.HubID(), s.ItemKind()}] = s
	return nil
}

func (f *fakeInventoryLedger) snapshot() any {
	saved := make(map[invKey]*inventory.Stock, len(f.rows))
	for k, v := range f.rows {
		saved[k] = v
	}
	return saved
}

func (f *fakeInventoryLedger) restore(s any) {
	f.rows = s.(map[invKey]*inventory.Stock)
}

type fakeReservationStore struct {
	rows map[uuid.UUID]*reservation.Reservation
}

func newFakeReservationStore() *fakeReservationStore {
	return &fakeReservationStore{rows: map[uuid.UUID]*reservation.Reservation{}}
}

func cloneReservation(r *reservation.Reservation) *reservation.Reservation {
	return reservation.ReconstructReservation(
		r.ID(), r.ShipmentID(), r.HubID(), r.Kind(), r.Quantity(), r.Day(),
		r.Status(), r.ExpiresAt(), r.CreatedBy(), r.CreatedAt(),
		r.ConsumedAt(), r.CancelledAt(),
	)
}

func (f *fakeReservationStore) Create(_ context.Context, _ pg.DBTX, res *reservation.Reservation) error {
	for _, existing := range f.rows {
		if existing.Status() == reservation.StatusActive &&
			existing.ShipmentID() == res.ShipmentID() &&
			existing.HubID() == res.HubID() &&
			existing.Kind() == res.Kind() {
			return infra.WrapRepoErr("active hold already exists", nil, infra.KindConflict)
		}
	}
	f.rows[res.ID()] = cloneReservation(res)
	return nil
}

func (f *fakeReservationStore) FindByID(_ context.Context, _ pg.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	row, ok := f.rows[id]
	if !ok {
		return nil, infra.WrapRepoErr("reservation not found", nil, infra.KindNotFound)
	}
	return cloneReservation(row), nil
}

func (f *fakeReservationStore) GetForUpdate(ctx context.Context, db pg.DBTX, id uuid.UUID) (*reservation.Reservation, error) {
	return f.FindByID(ctx, db, id)
}

func (f *fakeReservationStore) HasActiveHold(_ context.Context, _ pg.DBTX, shipmentID, hubID uuid.UUID, kind reservation.ResourceKind) (bool, error) {
	for _, existing := range f.rows {
		if existing.Status() == reservation.StatusActive &&
			existing.ShipmentID() == shipmentID &&
			existing.HubID() == hubID &&
			existing.Kind() == kind {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeReservationStore) UpdateStatus(_ context.Context, _ pg.DBTX, res *reservation.Reservation, fromStatus reservation.Status) (bool, error) {
	stored, ok := f.rows[res.ID()]
	if !ok || stored.Status() != fromStatus {
		return false, nil
	}
	f.rows[res.ID()] = cloneReservation(res)
	return true, nil
}

func (f *fakeReservationStore) ClaimDue(_ context.Context, _ pg.DBTX, now time.Time, limit int) ([]*reservation.Reservation, error) {
	var due []*reservation.Reservation
	for _, r := range f.rows {
		if r.Status() == reservation.StatusActive && r.IsDue(now) {
			due = append(due, cloneReservation(r))
			if len(due) == limit {
				break
			}
		}
	}
	return due, nil
}

func (f *fakeReservationStore) snapshot() any {
	saved := make(map[uuid.UUID]*reservation.Reservation, len(f.rows))
	for k, v := range f.rows {
		saved[k] = v
	}
	return saved
}

func (f *fakeReservationStore) restore(s any) {
	f.rows = s.(map[uuid.UUID]*reservation.Reservation)
}

func (f *fakeReservationStore) active() int {
	n := 0
	for _, r := range f.rows {
		if r.Status() == reservation.StatusActive {
			n++
		}
	}
	return n
}

type fakeShipmentStore struct {
	tiers map[uuid.UUID]route.Tier
}

func (f *fakeShipmentStore) FindByID(_ context.Context, _ pg.DBTX, id uuid.UUID) (*repository.ShipmentRecord, error) {
	tier, ok := f.tiers[id]
	if !ok {
		return nil, infra.WrapRepoErr("shipment not found", nil, infra.KindNotFound)
	}
	return &repository.ShipmentRecord{ID: id, Tier: tier}, nil
}

type fakeHubDirectory struct {
	hubs map[uuid.UUID]bool
}

func (f *fakeHubDirectory) FindHub(_ context.Context, _ pg.DBTX, id uuid.UUID) (*repository.HubInfo, error) {
	if !f.hubs[id] {
		return nil, infra.WrapRepoErr("hub not found", nil, infra.KindNotFound)
	}
	return &repository.HubInfo{ID: id, Name: "hub", Network: "emea", Operating: true}, nil
}

type fakeEventCommands struct {
	events []audit.Event
}

func (f *fakeEventCommands) Record(ctx context.Context, e audit.Event) (*commands.RecordResult, error) {
	return f.RecordInTx(ctx, nil, e)
}

func (f *fakeEventCommands) RecordInTx(_ context.Context, _ pg.DBTX, e audit.Event) (*commands.RecordResult, error) {
	f.events = append(f.events, e)
	return &commands.RecordResult{Stored: true, EventID: e.EventID}, nil
}

func (f *fakeEventCommands) snapshot() any { return len(f.events) }
func (f *fakeEventCommands) restore(s any) { f.events = f.events[:s.(int)] }

func (f *fakeEventCommands) ofType(t audit.EventType) int {
	n := 0
	for _, e := range f.events {
		if e.EventType == t {
			n++
		}
	}
	return n
}

type fakeNotifier struct {
	placed    [][]*reservation.Reservation
	cancelled int
	expired   []int
}

func (f *fakeNotifier) ReservationsPlaced(_ context.Context, _ uuid.UUID, rs []*reservation.Reservation) {
	f.placed = append(f.placed, rs)
}
func (f *fakeNotifier) ReservationCancelled(_ context.Context, _ *reservation.Reservation, _ string) {
	f.cancelled++
}
func (f *fakeNotifier) ReservationsExpired(_ context.Context, count int) {
	f.expired = append(f.expired, count)
}

type fakeAlertSink struct {
	alerts []inventory.LowStockAlert
}

func (f *fakeAlertSink) LowStock(_ context.Context, a inventory.LowStockAlert) {
	f.alerts = append(f.alerts, a)
}

// ---- fixture ---------------------------------------------------------------

type fixture struct {
	commands commands.ReservationCommands
	capRepo  *fakeCapacityLedger
	invRepo  *fakeInventoryLedger
	resStore *fakeReservationStore
	events   *fakeEventCommands
	notifier *fakeNotifier
	alerts   *fakeAlertSink
	clock    *clock.MockClock
	lockLog  []string

	shipmentTier3 uuid.UUID
	shipmentTier2 uuid.UUID
	hubA          uuid.UUID
	hubB          uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		capRepo:       newFakeCapacityLedger(),
		invRepo:       newFakeInventoryLedger(),
		resStore:      newFakeReservationStore(),
		events:        &fakeEventCommands{},
		notifier:      &fakeNotifier{},
		alerts:        &fakeAlertSink{},
		clock:         clock.NewMockClock(testNow),
		shipmentTier3: uuid.New(),
		shipmentTier2: uuid.New(),
		hubA:          uuid.New(),
		hubB:          uuid.New(),
	}

	// Hub A: authentication line with a single slot, NFC and tag stock.
	f.capRepo.put(f.hubA, capacity.ResourceAuth, testDay, 1, 0)
	f.invRepo.put(f.hubA, inventory.ItemNFC, 10, 0, 0)
	f.invRepo.put(f.hubA, inventory.ItemTag, 10, 0, 0)
	// Hub B: finishing lines.
	f.capRepo.put(f.hubB, capacity.ResourceSewing, testDay, 5, 0)
	f.capRepo.put(f.hubB, capacity.ResourceQA, testDay, 5, 0)

	shipments := &fakeShipmentStore{tiers: map[uuid.UUID]route.Tier{
		f.shipmentTier3: route.Tier3,
		f.shipmentTier2: route.Tier2,
	}}
	hubs := &fakeHubDirectory{hubs: map[uuid.UUID]bool{f.hubA: true, f.hubB: true}}
	f.capRepo.lockLog = &f.lockLog
	f.invRepo.lockLog = &f.lockLog
	uow := &fakeUoW{stores: []txStore{f.capRepo, f.invRepo, f.resStore, f.events}}

	f.commands = commands.NewReservationCommands(
		uow, f.capRepo, f.invRepo, f.resStore, shipments, hubs,
		f.events, f.notifier, f.alerts, f.clock, 30*time.Minute,
	)
	return f
}

func (f *fixture) reserveTier3(t *testing.T) []*reservation.Reservation {
	t.Helper()
	placed, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
		ShipmentID: f.shipmentTier3,
		Model:      route.ModelHybridWGDHL,
		Hub1:       f.hubA,
		Hub2:       &f.hubB,
		Day:        testDay,
		By:         "ops@example.com",
	})
	require.NoError(t, err)
	return placed
}

// ---- tests -----------------------------------------------------------------

func TestReserveOption(t *testing.T) {
	t.Run("tier 3 two-hub reserve claims all four resources atomically", func(t *testing.T) {
		f := newFixture(t)

		placed := f.reserveTier3(t)
		require.Len(t, placed, 4)

		assert.Equal(t, 1, f.capRepo.reserved(f.hubA, capacity.ResourceAuth, testDay))
		assert.Equal(t, 1, f.capRepo.reserved(f.hubB, capacity.ResourceSewing, testDay))
		assert.Equal(t, 1, f.capRepo.reserved(f.hubB, capacity.ResourceQA, testDay))

		stock, err := f.invRepo.find(f.hubA, inventory.ItemNFC)
		require.NoError(t, err)
		assert.Equal(t, 1, stock.Reserved())

		for _, res := range placed {
			assert.Equal(t, reservation.StatusActive, res.Status())
			assert.Equal(t, testNow.Add(30*time.Minute), res.ExpiresAt())
		}

		require.Len(t, f.notifier.placed, 1)
		assert.Len(t, f.notifier.placed[0], 4)
		assert.Equal(t, 3, f.events.ofType(audit.TypeCapacityReserved))
		assert.Equal(t, 1, f.events.ofType(audit.TypeInventoryReserved))
		assert.Equal(t, 1, f.events.ofType(audit.TypeRouteSelected))
	})

	t.Run("tier 2 hybrid rejected before any ledger access", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: f.shipmentTier2,
			Model:      route.ModelHybridWGDHL,
			Hub1:       f.hubA,
			Day:        testDay,
		})

		assert.ErrorIs(t, err, commands.ErrInvalidServiceModel)
		assert.Zero(t, f.capRepo.getCalls)
		assert.Zero(t, f.invRepo.getCalls)
		assert.Empty(t, f.events.events)
	})

	t.Run("second reserve for the same shipment is a duplicate hold", func(t *testing.T) {
		f := newFixture(t)
		f.reserveTier3(t)

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: f.shipmentTier3,
			Model:      route.ModelWhiteGloveFull,
			Hub1:       f.hubA,
			Hub2:       &f.hubB,
			Day:        testDay,
		})

		assert.ErrorIs(t, err, commands.ErrDuplicateHold)
		assert.Equal(t, 4, f.resStore.active())
	})

	t.Run("exhausted capacity fails with the offending resource", func(t *testing.T) {
		f := newFixture(t)
		f.capRepo.put(f.hubA, capacity.ResourceAuth, testDay, 1, 1)

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: f.shipmentTier2,
			Model:      route.ModelDHLFull,
			Hub1:       f.hubA,
			Day:        testDay,
		})

		require.ErrorIs(t, err, commands.ErrCapacityExceeded)
		var fault *commands.ResourceFault
		require.ErrorAs(t, err, &fault)
		assert.Equal(t, f.hubA, fault.HubID)
		assert.Equal(t, reservation.KindAuth, fault.Kind)
	})

	t.Run("missing stock row reads as insufficient stock", func(t *testing.T) {
		f := newFixture(t)
		delete(f.invRepo.rows, invKey{f.hubA, inventory.ItemTag})

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: f.shipmentTier2,
			Model:      route.ModelDHLFull,
			Hub1:       f.hubA,
			Day:        testDay,
		})

		assert.ErrorIs(t, err, commands.ErrInsufficientStock)
	})

	t.Run("failed line rolls back lines already claimed", func(t *testing.T) {
		f := newFixture(t)
		delete(f.invRepo.rows, invKey{f.hubA, inventory.ItemTag})

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: f.shipmentTier2,
			Model:      route.ModelDHLFull,
			Hub1:       f.hubA,
			Day:        testDay,
		})

		require.ErrorIs(t, err, commands.ErrInsufficientStock)
		// The auth slot is claimed before the tag line fails; none of it
		// may survive the aborted hold.
		assert.Equal(t, 1, f.capRepo.getCalls)
		assert.Equal(t, 0, f.capRepo.reserved(f.hubA, capacity.ResourceAuth, testDay))
		assert.Equal(t, 0, f.resStore.active())
		assert.Empty(t, f.events.events)
		assert.Empty(t, f.notifier.placed)
	})

	t.Run("unknown shipment", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: uuid.New(),
			Model:      route.ModelDHLFull,
			Hub1:       f.hubA,
			Day:        testDay,
		})

		assert.ErrorIs(t, err, commands.ErrShipmentNotFound)
	})

	t.Run("unknown hub", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.commands.ReserveOption(context.Background(), commands.ReserveOptionInput{
			ShipmentID: f.shipmentTier2,
			Model:      route.ModelDHLFull,
			Hub1:       uuid.New(),
			Day:        testDay,
		})

		assert.ErrorIs(t, err, commands.ErrHubNotFound)
	})
}

func TestPlaceHold(t *testing.T) {
	t.Run("multi-resource spec succeeds as a unit", func(t *testing.T) {
		f := newFixture(t)

		placed, err := f.commands.PlaceHold(context.Background(), commands.PlaceHoldInput{
			ShipmentID: f.shipmentTier2,
			HubID:      f.hubA,
			Spec: reservation.ResourceSpec{Lines: []reservation.ResourceLine{
				{Kind: reservation.KindAuth, Quantity: 1},
				{Kind: reservation.KindTag, Quantity: 2},
			}},
			Day: testDay,
			By:  "ops@example.com",
		})

		require.NoError(t, err)
		assert.Len(t, placed, 2)
		stock, err := f.invRepo.find(f.hubA, inventory.ItemTag)
		require.NoError(t, err)
		assert.Equal(t, 2, stock.Reserved())
	})

	t.Run("empty spec rejected", func(t *testing.T) {
		f := newFixture(t)

		_, err := f.commands.PlaceHold(context.Background(), commands.PlaceHoldInput{
			ShipmentID: f.shipmentTier2,
			HubID:      f.hubA,
			Day:        testDay,
		})

		assert.ErrorIs(t, err, commands.ErrInvalidRequest)
	})

	t.Run("low stock alert fires after commit", func(t *testing.T) {
		f := newFixture(t)
		f.invRepo.put(f.hubA, inventory.ItemTag, 10, 0, 9)

		_, err := f.commands.PlaceHold(context.Background(), commands.PlaceHoldInput{
			ShipmentID: f.shipmentTier2,
			HubID:      f.hubA,
			Spec: reservation.ResourceSpec{Lines: []reservation.ResourceLine{
				{Kind: reservation.KindTag, Quantity: 2},
			}},
			Day: testDay,
		})

		require.NoError(t, err)
		require.Len(t, f.alerts.alerts, 1)
		assert.Equal(t, inventory.ItemTag, f.alerts.alerts[0].ItemKind)
		assert.Equal(t, 8, f.alerts.alerts[0].Available)
	})
}

func TestConsume(t *testing.T) {
	t.Run("consume keeps capacity but removes inventory", func(t *testing.T) {
		f := newFixture(t)
		placed := f.reserveTier3(t)

		for _, res := range placed {
			require.NoError(t, f.commands.Consume(context.Background(), res.ID(), "hub-op"))
		}

		// Capacity stays reserved: the slot was used, not freed.
		assert.Equal(t, 1, f.capRepo.reserved(f.hubA, capacity.ResourceAuth, testDay))

		stock, err := f.invRepo.find(f.hubA, inventory.ItemNFC)
		require.NoError(t, err)
		assert.Equal(t, 9, stock.OnHand())
		assert.Equal(t, 0, stock.Reserved())

		assert.Equal(t, 1, f.events.ofType(audit.TypeInventoryConsumed))
		assert.Equal(t, 3, f.events.ofType(audit.TypeCapacityConsumed))
	})

	t.Run("consuming twice is invalid state", func(t *testing.T) {
		f := newFixture(t)
		placed := f.reserveTier3(t)

		require.NoError(t, f.commands.Consume(context.Background(), placed[0].ID(), "hub-op"))
		err := f.commands.Consume(context.Background(), placed[0].ID(), "hub-op")
		assert.ErrorIs(t, err, commands.ErrInvalidState)
	})

	t.Run("unknown reservation", func(t *testing.T) {
		f := newFixture(t)
		err := f.commands.Consume(context.Background(), uuid.New(), "hub-op")
		assert.ErrorIs(t, err, commands.ErrReservationNotFound)
	})
}

func TestCancel(t *testing.T) {
	t.Run("cancel releases held quantities", func(t *testing.T) {
		f := newFixture(t)
		placed := f.reserveTier3(t)

		for _, res := range placed {
			require.NoError(t, f.commands.Cancel(context.Background(), res.ID(), "ops", "client withdrew"))
		}

		assert.Equal(t, 0, f.capRepo.reserved(f.hubA, capacity.ResourceAuth, testDay))
		assert.Equal(t, 0, f.capRepo.reserved(f.hubB, capacity.ResourceSewing, testDay))

		stock, err := f.invRepo.find(f.hubA, inventory.ItemNFC)
		require.NoError(t, err)
		assert.Equal(t, 10, stock.OnHand())
		assert.Equal(t, 0, stock.Reserved())

		assert.Equal(t, 4, f.notifier.cancelled)
		assert.Equal(t, 0, f.resStore.active())
	})

	t.Run("cancel after consume is invalid state", func(t *testing.T) {
		f := newFixture(t)
		placed := f.reserveTier3(t)

		require.NoError(t, f.commands.Consume(context.Background(), placed[0].ID(), "hub-op"))
		err := f.commands.Cancel(context.Background(), placed[0].ID(), "ops", "")
		assert.ErrorIs(t, err, commands.ErrInvalidState)
	})
}

func TestExpireDue(t *testing.T) {
	t.Run("due holds expire and release, second sweep is a no-op", func(t *testing.T) {
		f := newFixture(t)
		f.reserveTier3(t)

		sweepAt := testNow.Add(31 * time.Minute)
		count, err := f.commands.ExpireDue(context.Background(), sweepAt)
		require.NoError(t, err)
		assert.Equal(t, 4, count)

		assert.Equal(t, 0, f.capRepo.reserved(f.hubA, capacity.ResourceAuth, testDay))
		stock, err := f.invRepo.find(f.hubA, inventory.ItemNFC)
		require.NoError(t, err)
		assert.Equal(t, 0, stock.Reserved())
		assert.Equal(t, []int{4}, f.notifier.expired)

		count, err = f.commands.ExpireDue(context.Background(), sweepAt)
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, []int{4}, f.notifier.expired)
	})

	t.Run("sweep releases ledger rows in hold placement order", func(t *testing.T) {
		f := newFixture(t)
		f.reserveTier3(t)
		f.lockLog = nil

		_, err := f.commands.ExpireDue(context.Background(), testNow.Add(31*time.Minute))
		require.NoError(t, err)

		// The claim comes back in expiry order; releases must still take
		// ledger locks in the same hub/kind order holds are placed in.
		require.Len(t, f.lockLog, 4)
		assert.True(t, sort.StringsAreSorted(f.lockLog))
	})

	t.Run("holds before the deadline survive", func(t *testing.T) {
		f := newFixture(t)
		f.reserveTier3(t)

		count, err := f.commands.ExpireDue(context.Background(), testNow.Add(29*time.Minute))
		require.NoError(t, err)
		assert.Zero(t, count)
		assert.Equal(t, 4, f.resStore.active())
	})
}
