package repository

import (
	"context"
	"time"

	"hub-route-engine/internal/infra"
	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/pkg/pgconv"
)

// QuoteRepository is the persisted tier of the external quote cache. An
// expired row is indistinguishable from an absent one on read; the next put
// overwrites it in place.
type QuoteRepository struct{}

func NewQuoteRepository() *QuoteRepository {
	return &QuoteRepository{}
}

// Get returns the payload on a genuine (non-expired) hit and bumps
// hit_count in the same statement, so the counter never moves on a miss.
func (r *QuoteRepository) Get(ctx context.Context, db pg.DBTX, cacheKey string, now time.Time) ([]byte, bool, error) {
	stmt := `UPDATE quote_cache
SET hit_count = hit_count + 1
WHERE cache_key = $1 AND expires_at > $2
RETURNING payload`
	var payload []byte
	err := db.QueryRow(ctx, stmt, cacheKey, now).Scan(&payload)
	if err != nil {
		if pgconv.IsNoRows(err) {
			return nil, false, nil
		}
		return nil, false, infra.WrapRepoErr("failed to read quote cache", err)
	}
	return payload, true, nil
}

// Put upserts the entry with a fresh expiry and resets the hit counter.
func (r *QuoteRepository) Put(ctx context.Context, db pg.DBTX, cacheKey string, payload []byte, ttl time.Duration, now time.Time) error {
	stmt := `INSERT INTO quote_cache (cache_key, payload, ttl_seconds, expires_at, hit_count, created_at)
VALUES ($1, $2, $3, $4, 0, $5)
ON CONFLICT (cache_key) DO UPDATE
SET payload = EXCLUDED.payload,
    ttl_seconds = EXCLUDED.ttl_seconds,
    expires_at = EXCLUDED.expires_at,
    hit_count = 0`
	_, err := db.Exec(ctx, stmt, cacheKey, payload, int(ttl.Seconds()), now.Add(ttl), now)
	if err != nil {
		return infra.WrapRepoErr("failed to put quote cache entry", err)
	}
	return nil
}
