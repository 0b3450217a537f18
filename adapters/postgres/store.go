// Package postgres implements the storage ports over PostgreSQL using sqlx.
package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

// Connect opens and verifies a PostgreSQL connection
func Connect(databaseURL string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// EnsureSchema creates the tables if they do not exist. Idempotent; safe to
// run at every startup.
func EnsureSchema(ctx context.Context, db *sqlx.DB) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS sources (
			id UUID PRIMARY KEY,
			url TEXT NOT NULL,
			credibility TEXT NOT NULL,
			retrieved_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS facts (
			id UUID PRIMARY KEY,
			fact_type TEXT NOT NULL,
			value DOUBLE PRECISION,
			entity TEXT NOT NULL DEFAULT '',
			unit TEXT NOT NULL DEFAULT '',
			context TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			is_inferred BOOLEAN NOT NULL DEFAULT FALSE,
			created_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_facts_fact_type ON facts (fact_type)`,
		`CREATE TABLE IF NOT EXISTS claims (
			id UUID PRIMARY KEY,
			claim_text TEXT NOT NULL,
			claim_type TEXT NOT NULL,
			value DOUBLE PRECISION,
			unit TEXT NOT NULL DEFAULT '',
			source_url TEXT NOT NULL DEFAULT '',
			excerpt TEXT NOT NULL DEFAULT '',
			credibility TEXT NOT NULL,
			claim_confidence TEXT NOT NULL,
			retrieved_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_claims_claim_type ON claims (claim_type)`,
		`CREATE TABLE IF NOT EXISTS analyses (
			id UUID PRIMARY KEY,
			idea TEXT NOT NULL,
			payload JSONB NOT NULL,
			created_at TIMESTAMPTZ NOT NULL
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
