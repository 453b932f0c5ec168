package quotecache

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	gocache "github.com/patrickmn/go-cache"

	"hub-route-engine/internal/infra/repository"
	"hub-route-engine/internal/pkg/clock"
)

// BuildKey derives the deterministic cache key for an external quote lookup:
// the source name plus its query parameters in sorted order.
func BuildKey(source string, params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(source)
	for _, k := range keys {
		b.WriteByte('|')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	return b.String()
}

// Cache memoizes third-party pricing lookups. The go-cache layer absorbs hot
// keys in process; the quote_cache table is the source of truth and owns hit
// counting. Store trouble degrades a lookup to a miss, it never fails route
// planning.
type Cache struct {
	hot    *gocache.Cache
	repo   *repository.QuoteRepository
	db     *pgxpool.Pool
	clock  clock.Clock
	ttl    time.Duration
	hotTTL time.Duration
}

func New(db *pgxpool.Pool, repo *repository.QuoteRepository, clk clock.Clock, ttl, hotTTL time.Duration) *Cache {
	if hotTTL > ttl {
		hotTTL = ttl
	}
	return &Cache{
		hot:    gocache.New(hotTTL, 2*hotTTL),
		repo:   repo,
		db:     db,
		clock:  clk,
		ttl:    ttl,
		hotTTL: hotTTL,
	}
}

func (c *Cache) Get(ctx context.Context, cacheKey string) ([]byte, bool) {
	if v, found := c.hot.Get(cacheKey); found {
		if payload, ok := v.([]byte); ok {
			return payload, true
		}
	}

	payload, found, err := c.repo.Get(ctx, c.db, cacheKey, c.clock.Now())
	if err != nil {
		slog.Warn("quote cache read degraded to miss", "cache_key", cacheKey, "error", err)
		return nil, false
	}
	if !found {
		return nil, false
	}

	c.hot.Set(cacheKey, payload, c.hotTTL)
	return payload, true
}

func (c *Cache) Put(ctx context.Context, cacheKey string, payload []byte) {
	if err := c.repo.Put(ctx, c.db, cacheKey, payload, c.ttl, c.clock.Now()); err != nil {
		slog.Warn("quote cache write failed", "cache_key", cacheKey, "error", err)
	}
	c.hot.Set(cacheKey, payload, c.hotTTL)
}

func (c *Cache) TTL() time.Duration {
	return c.ttl
}
