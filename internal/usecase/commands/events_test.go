//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hub-route-engine/internal/domain/audit"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/clock"
	"hub-route-engine/internal/usecase/commands"
)

type fakeEventStore struct {
	hashes     map[string]bool
	trailRows  int
	failInsert error
}

func newFakeEventStore() *fakeEventStore {
	return &fakeEventStore{hashes: map[string]bool{}}
}

func (f *fakeEventStore) Insert(_ context.Context, _ pg.DBTX, _ audit.Event, payloadHash string, _ audit.StateDiff, _ time.Time) error {
	if f.failInsert != nil {
		return f.failInsert
	}
	if f.hashes[payloadHash] {
		return infra.WrapRepoErr("payload hash conflict", nil, infra.KindDuplicateKey)
	}
	f.hashes[payloadHash] = true
	return nil
}

func (f *fakeEventStore) InsertTrailRow(_ context.Context, _ pg.DBTX, _ audit.Event, _ string, _ string, _ time.Time) error {
	f.trailRows++
	return nil
}

func validEvent() audit.Event {
	return audit.Event{
		EventID:       "res-1",
		EventType:     audit.TypeCapacityReserved,
		ActorID:       "ops@example.com",
		CorrelationID: "3f9b5b4e-6f1a-4a2c-9d7e-0c8a1b2d3e4f",
		EffectiveAt:   testNow,
		ResourceType:  "hub",
		ResourceID:    "hub-1",
		FieldsChanged: []string{"reserved"},
		PreState:      map[string]any{"reserved": 0},
		PostState:     map[string]any{"reserved": 1},
	}
}

func TestRecord(t *testing.T) {
	newCommands := func(store commands.EventStore) commands.EventCommands {
		return commands.NewEventCommands(audit.NewRegistry(), store, &fakeUoW{}, clock.NewMockClock(testNow))
	}

	t.Run("first submission stores event and trail row", func(t *testing.T) {
		store := newFakeEventStore()
		c := newCommands(store)

		result, err := c.Record(context.Background(), validEvent())

		require.NoError(t, err)
		assert.True(t, result.Stored)
		assert.Equal(t, "res-1", result.EventID)
		assert.NotEmpty(t, result.PayloadHash)
		assert.Equal(t, 1, store.trailRows)
	})

	t.Run("replays of the same payload are benign no-ops", func(t *testing.T) {
		store := newFakeEventStore()
		c := newCommands(store)

		first, err := c.Record(context.Background(), validEvent())
		require.NoError(t, err)

		for i := 0; i < 3; i++ {
			replay, err := c.Record(context.Background(), validEvent())
			require.NoError(t, err)
			assert.False(t, replay.Stored)
			assert.Equal(t, "duplicate", replay.Reason)
			assert.Equal(t, first.PayloadHash, replay.PayloadHash)
		}
		assert.Equal(t, 1, store.trailRows)
	})

	t.Run("changed body under the same event id stores again", func(t *testing.T) {
		store := newFakeEventStore()
		c := newCommands(store)

		_, err := c.Record(context.Background(), validEvent())
		require.NoError(t, err)

		changed := validEvent()
		changed.PostState = map[string]any{"reserved": 2}
		result, err := c.Record(context.Background(), changed)

		require.NoError(t, err)
		assert.True(t, result.Stored)
		assert.Equal(t, 2, store.trailRows)
	})

	t.Run("unknown event type is a validation error", func(t *testing.T) {
		c := newCommands(newFakeEventStore())

		bad := validEvent()
		bad.EventType = "capacity.reserved.v2"
		_, err := c.Record(context.Background(), bad)

		assert.ErrorIs(t, err, commands.ErrEventValidation)
	})

	t.Run("missing resource marker is a validation error", func(t *testing.T) {
		c := newCommands(newFakeEventStore())

		bad := validEvent()
		bad.ResourceID = ""
		_, err := c.Record(context.Background(), bad)

		assert.ErrorIs(t, err, commands.ErrEventValidation)
	})

	t.Run("store failure surfaces as event store error", func(t *testing.T) {
		store := newFakeEventStore()
		store.failInsert = infra.WrapRepoErr("connection reset", nil, infra.KindDBFailure)
		c := newCommands(store)

		_, err := c.Record(context.Background(), validEvent())

		assert.ErrorIs(t, err, commands.ErrEventStore)
	})
}
