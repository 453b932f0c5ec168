package uow

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"hub-route-engine/internal/infra/pg"
	"hub-route-engine/internal/usecase/shared"
)

// PostgresUoW executes use case functions against the pool. Within wraps the
// function in a retried transaction; WithDB runs it with implicit
// per-statement transactions.
type PostgresUoW struct {
	pool *pgxpool.Pool
}

func NewPostgresUoW(pool *pgxpool.Pool) *PostgresUoW {
	return &PostgresUoW{pool: pool}
}

func (u *PostgresUoW) Within(ctx context.Context, fn func(db pg.DBTX) error) error {
	_, err := shared.WithDefaultRetry(ctx, u.pool, func(tx pg.DBTX) (struct{}, error) {
		return struct{}{}, fn(tx)
	})
	return err
}

func (u *PostgresUoW) WithDB(ctx context.Context, fn func(db pg.DBTX) error) error {
	return fn(u.pool)
}
