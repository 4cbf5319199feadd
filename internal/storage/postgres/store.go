package postgres

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/indatwa/events-api/internal/storage"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Ensure Store satisfies the storage.Store interface at compile time.
var _ storage.Store = (*Store)(nil)

const uniqueViolation = "23505"

// Options tunes pool construction.
type Options struct {
	MaxConns    int32
	AutoMigrate bool
}

// Store provides Postgres-backed persistence for users and bookings. Every
// method acquires a pooled connection for a single statement and releases it.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore opens the pool, verifies connectivity and optionally applies the
// embedded migrations.
func NewStore(ctx context.Context, databaseURL string, opts Options) (*Store, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("parse database url: %w", err)
	}
	if opts.MaxConns > 0 {
		cfg.MaxConns = opts.MaxConns
	}

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if opts.AutoMigrate {
		if err := MigrateUp(databaseURL); err != nil {
			pool.Close()
			return nil, err
		}
	}

	return &Store{pool: pool}, nil
}

// NewFromPool wraps an existing pool. The caller keeps ownership of it.
func NewFromPool(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// Ping checks that the database answers.
func (s *Store) Ping(ctx context.Context) error {
	return storage.Wrap("ping", s.pool.Ping(ctx))
}

// Close releases database resources.
func (s *Store) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}

// outOfRange reports ids no SERIAL (int4) column can hold. pgx refuses to
// encode them, so they are answered as missing without a round trip.
func outOfRange(id int64) bool {
	return id < 1 || id > math.MaxInt32
}
