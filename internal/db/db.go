// Package db provides PostgreSQL access to profile records, metrics, study
// plans and job preferences.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jonathan/career-guide/internal/analysis"
	"github.com/jonathan/career-guide/internal/assistant"
	"github.com/jonathan/career-guide/internal/profile"
)

var (
	_ profile.Store            = (*DB)(nil)
	_ analysis.MetricsWriter   = (*DB)(nil)
	_ analysis.StudyPlanStore  = (*DB)(nil)
	_ analysis.PreferenceStore = (*DB)(nil)
	_ assistant.History        = (*DB)(nil)
)

// DB wraps a PostgreSQL connection pool
type DB struct {
	pool *pgxpool.Pool
}

// Connect establishes a connection pool to the database
func Connect(ctx context.Context, databaseURL string) (*DB, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Verify connection
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{pool: pool}, nil
}

// Close closes the connection pool
func (db *DB) Close() {
	if db.pool != nil {
		db.pool.Close()
	}
}

// Ping verifies the database is reachable
func (db *DB) Ping(ctx context.Context) error {
	return db.pool.Ping(ctx)
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func intPtr(v *int32) *int {
	if v == nil {
		return nil
	}
	i := int(*v)
	return &i
}
