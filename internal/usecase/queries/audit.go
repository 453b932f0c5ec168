package queries

import (
	"context"
	"time"

	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/errs"
)

const (
	defaultTrailLimit = 50
	maxTrailLimit     = 200
)

type TrailEntry struct {
	EventID      string
	PayloadHash  string
	EventType    string
	ResourceType string
	ResourceID   string
	ActorID      string
	Summary      string
	RecordedAt   time.Time
}

type AuditQueries interface {
	// Trail lists recorded events for one resource, newest first.
	Trail(ctx context.Context, resourceType, resourceID string, limit int) ([]TrailEntry, error)
}

type auditQueriesImpl struct {
	db    DBProvider
	trail TrailReader
}

func NewAuditQueries(db DBProvider, trail TrailReader) AuditQueries {
	return &auditQueriesImpl{db: db, trail: trail}
}

func (q *auditQueriesImpl) Trail(ctx context.Context, resourceType, resourceID string, limit int) ([]TrailEntry, error) {
	if limit <= 0 {
		limit = defaultTrailLimit
	}
	if limit > maxTrailLimit {
		limit = maxTrailLimit
	}

	var entries []TrailEntry
	err := q.db.WithDB(ctx, func(db pg.DBTX) error {
		rows, err := q.trail.ListTrail(ctx, db, resourceType, resourceID, limit)
		if err != nil {
			return errs.Mark(err, ErrQueryFailure)
		}
		entries = make([]TrailEntry, len(rows))
		for i, r := range rows {
			entries[i] = TrailEntry{
				EventID:      r.EventID,
				PayloadHash:  r.PayloadHash,
				EventType:    r.EventType,
				ResourceType: r.ResourceType,
				ResourceID:   r.ResourceID,
				ActorID:      r.ActorID,
				Summary:      r.Summary,
				RecordedAt:   r.RecordedAt,
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
