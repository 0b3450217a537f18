package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"marketscope/domain/core"
	"marketscope/domain/market"
)

// FactRepository stores extracted facts and serves immutable snapshots to the
// estimation core.
type FactRepository struct {
	db *sqlx.DB
}

// NewFactRepository creates a new fact repository
func NewFactRepository(db *sqlx.DB) *FactRepository {
	return &FactRepository{db: db}
}

const factColumns = `id, fact_type, value, entity, unit, context, source_url, is_inferred, created_at`

func scanFact(scanner interface {
	Scan(dest ...interface{}) error
}) (market.Fact, error) {
	var fact market.Fact
	var id string
	var createdAt time.Time

	err := scanner.Scan(
		&id,
		&fact.Type,
		&fact.Value,
		&fact.Entity,
		&fact.Unit,
		&fact.Context,
		&fact.SourceURL,
		&fact.IsInferred,
		&createdAt,
	)
	if err != nil {
		return market.Fact{}, err
	}
	fact.ID = core.FactID(id)
	fact.Timestamp = core.NewTimestamp(createdAt)
	return fact, nil
}

// InsertFact appends a fact. Facts are immutable; there is no update path.
func (r *FactRepository) InsertFact(ctx context.Context, fact market.Fact) (core.FactID, error) {
	if fact.ID == "" {
		fact.ID = core.FactID(core.NewID())
	}
	if fact.Timestamp.IsZero() {
		fact.Timestamp = core.Now()
	}

	query := `
		INSERT INTO facts (` + factColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`

	_, err := r.db.ExecContext(ctx, query,
		fact.ID.String(),
		fact.Type,
		fact.Value,
		fact.Entity,
		fact.Unit,
		fact.Context,
		fact.SourceURL,
		fact.IsInferred,
		fact.Timestamp.Time(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to insert fact: %w", err)
	}
	return fact.ID, nil
}

// FactSnapshot returns all non-inferred facts grouped by category
func (r *FactRepository) FactSnapshot(ctx context.Context) (market.FactSet, error) {
	query := `
		SELECT ` + factColumns + `
		FROM facts
		WHERE is_inferred = FALSE
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query fact snapshot: %w", err)
	}
	defer rows.Close()

	snapshot := market.FactSet{}
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		snapshot[fact.Type] = append(snapshot[fact.Type], fact)
	}
	return snapshot, rows.Err()
}

// AllFacts returns every stored fact, inferred placeholders included
func (r *FactRepository) AllFacts(ctx context.Context) ([]market.Fact, error) {
	query := `
		SELECT ` + factColumns + `
		FROM facts
		ORDER BY created_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query facts: %w", err)
	}
	defer rows.Close()

	var facts []market.Fact
	for rows.Next() {
		fact, err := scanFact(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan fact: %w", err)
		}
		facts = append(facts, fact)
	}
	return facts, rows.Err()
}

// DeleteAllFacts clears the fact store, used between analysis runs
func (r *FactRepository) DeleteAllFacts(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM facts`); err != nil {
		return fmt.Errorf("failed to delete facts: %w", err)
	}
	return nil
}
