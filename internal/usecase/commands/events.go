package commands

import (
	"context"
	"fmt"
	"time"

	"hub-route-engine/internal/domain/audit"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/pkg/errs"
)

var (
	ErrEventValidation = errs.New("event validation failed")
	ErrEventStore      = errs.New("event store operation failed")
)

const duplicateReason = "duplicate"

// RecordResult reports the outcome of recording one logical event. A replay
// of an already-stored payload is a successful no-op, not an error.
type RecordResult struct {
	Stored      bool
	EventID     string
	PayloadHash string
	Reason      string
}

type EventStore interface {
	Insert(ctx context.Context, db pg.DBTX, e audit.Event, payloadHash string, diff audit.StateDiff, recordedAt time.Time) error
	InsertTrailRow(ctx context.Context, db pg.DBTX, e audit.Event, payloadHash string, summary string, recordedAt time.Time) error
}

type EventCommands interface {
	Record(ctx context.Context, e audit.Event) (*RecordResult, error)
	// RecordInTx lets other commands append events atomically with their own
	// writes.
	RecordInTx(ctx context.Context, db pg.DBTX, e audit.Event) (*RecordResult, error)
}

type eventCommandsImpl struct {
	registry *audit.Registry
	store    EventStore
	uow      UnitOfWork
	clock    clock.Clock
}

func NewEventCommands(registry *audit.Registry, store EventStore, uow UnitOfWork, clk clock.Clock) EventCommands {
	return &eventCommandsImpl{
		registry: registry,
		store:    store,
		uow:      uow,
		clock:    clk,
	}
}

func (c *eventCommandsImpl) Record(ctx context.Context, e audit.Event) (*RecordResult, error) {
	var result *RecordResult
	err := c.uow.Within(ctx, func(db pg.DBTX) error {
		r, err := c.RecordInTx(ctx, db, e)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// RecordInTx validates, hashes, diffs, and appends the event plus its audit
// projection as one atomic unit. A payload-hash replay reports the benign
// duplicate outcome without disturbing the caller's transaction, so commands
// that append events mid-transaction survive a replayed payload.
func (c *eventCommandsImpl) RecordInTx(ctx context.Context, db pg.DBTX, e audit.Event) (*RecordResult, error) {
	if err := c.registry.Validate(e); err != nil {
		return nil, errs.Mark(err, ErrEventValidation)
	}

	payloadHash, err := audit.PayloadHash(e)
	if err != nil {
		return nil, errs.Mark(err, ErrEventValidation)
	}

	diff := audit.ComputeStateDiff(e.PreState, e.PostState)
	recordedAt := c.clock.Now()

	if err := c.store.Insert(ctx, db, e, payloadHash, diff, recordedAt); err != nil {
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return &RecordResult{
				Stored:      false,
				EventID:     e.EventID,
				PayloadHash: payloadHash,
				Reason:      duplicateReason,
			}, nil
		}
		return nil, errs.Mark(err, ErrEventStore)
	}

	summary := summarize(e, diff)
	if err := c.store.InsertTrailRow(ctx, db, e, payloadHash, summary, recordedAt); err != nil {
		return nil, errs.Mark(err, ErrEventStore)
	}

	return &RecordResult{
		Stored:      true,
		EventID:     e.EventID,
		PayloadHash: payloadHash,
	}, nil
}

func summarize(e audit.Event, diff audit.StateDiff) string {
	return fmt.Sprintf("%s on %s/%s by %s (+%d ~%d -%d)",
		e.EventType, e.ResourceType, e.ResourceID, e.ActorID,
		len(diff.Added), len(diff.Modified), len(diff.Removed))
}
