package repository

import (
	"context"
	"encoding/json"
	"time"

	"hub-route-engine/internal/domain/audit"
	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
)

// EventRepository writes the append-only events ledger and the denormalized
// audit trail. The unique index on payload_hash is the replay guard: the
// insert either lands exactly once or reports a duplicate, never both.
type EventRepository struct{}

func NewEventRepository() *EventRepository {
	return &EventRepository{}
}

// Insert appends the event with its computed diff. ON CONFLICT DO NOTHING
// keeps a payload_hash replay from raising 23505 and aborting the enclosing
// transaction; zero rows affected comes back as KindDuplicateKey.
func (r *EventRepository) Insert(ctx context.Context, db pg.DBTX, e audit.Event, payloadHash string, diff audit.StateDiff, recordedAt time.Time) error {
	preJSON, err := json.Marshal(e.PreState)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal pre state", err)
	}
	postJSON, err := json.Marshal(e.PostState)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal post state", err)
	}
	diffJSON, err := json.Marshal(diff)
	if err != nil {
		return infra.WrapRepoErr("failed to marshal state diff", err)
	}

	stmt := `INSERT INTO events
(event_id, event_type, payload_hash, actor_id, correlation_id, effective_at,
 resource_type, resource_id, fields_changed, pre_state, post_state, state_diff, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
ON CONFLICT (payload_hash) DO NOTHING`
	tag, err := db.Exec(ctx, stmt,
		e.EventID, e.EventType.String(), payloadHash, e.ActorID, e.CorrelationID,
		e.EffectiveAt, e.ResourceType, e.ResourceID, e.FieldsChanged,
		preJSON, postJSON, diffJSON, recordedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert event", err)
	}
	if tag.RowsAffected() == 0 {
		return infra.WrapRepoErr("event payload already recorded", nil, infra.KindDuplicateKey)
	}
	return nil
}

// InsertTrailRow writes the read-optimized audit projection in the same
// transaction as the event itself.
func (r *EventRepository) InsertTrailRow(ctx context.Context, db pg.DBTX, e audit.Event, payloadHash string, summary string, recordedAt time.Time) error {
	stmt := `INSERT INTO audit_trail
(event_id, payload_hash, event_type, resource_type, resource_id, actor_id, summary, recorded_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := db.Exec(ctx, stmt,
		e.EventID, payloadHash, e.EventType.String(), e.ResourceType, e.ResourceID,
		e.ActorID, summary, recordedAt,
	)
	if err != nil {
		return infra.WrapRepoErr("failed to insert audit trail row", err)
	}
	return nil
}

// TrailRow is the denormalized audit projection returned to readers.
type TrailRow struct {
	EventID      string
	PayloadHash  string
	EventType    string
	ResourceType string
	ResourceID   string
	ActorID      string
	Summary      string
	RecordedAt   time.Time
}

func (r *EventRepository) ListTrail(ctx context.Context, db pg.DBTX, resourceType, resourceID string, limit int) ([]TrailRow, error) {
	query := `SELECT event_id, payload_hash, event_type, resource_type, resource_id, actor_id, summary, recorded_at
FROM audit_trail
WHERE resource_type = $1 AND resource_id = $2
ORDER BY recorded_at DESC, event_id DESC
LIMIT $3`
	rows, err := db.Query(ctx, query, resourceType, resourceID, limit)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list audit trail", err)
	}
	defer rows.Close()

	var result []TrailRow
	for rows.Next() {
		var t TrailRow
		if err := rows.Scan(&t.EventID, &t.PayloadHash, &t.EventType, &t.ResourceType,
			&t.ResourceID, &t.ActorID, &t.Summary, &t.RecordedAt); err != nil {
			return nil, infra.WrapRepoErr("failed to scan audit trail row", err)
		}
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate audit trail", err)
	}
	return result, nil
}
