package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"marketscope/domain/core"
	"marketscope/domain/evidence"
)

// LedgerRepository is the append-only evidence ledger: claims tied to source
// excerpts with credibility ratings.
type LedgerRepository struct {
	db *sqlx.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *sqlx.DB) *LedgerRepository {
	return &LedgerRepository{db: db}
}

// StoreClaim appends a claim to the ledger. Claim confidence is derived from
// source credibility when not set.
func (r *LedgerRepository) StoreClaim(ctx context.Context, claim evidence.Claim) (core.ClaimID, error) {
	if claim.ID == "" {
		claim.ID = core.ClaimID(core.NewID())
	}
	if claim.Confidence == "" {
		claim.Confidence = evidence.ConfidenceFor(claim.Credibility)
	}
	if claim.RetrievedAt.IsZero() {
		claim.RetrievedAt = core.Now()
	}

	query := `
		INSERT INTO claims (
			id, claim_text, claim_type, value, unit, source_url,
			excerpt, credibility, claim_confidence, retrieved_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.db.ExecContext(ctx, query,
		claim.ID.String(),
		claim.Text,
		claim.Type,
		claim.Value,
		claim.Unit,
		claim.SourceURL,
		claim.Excerpt,
		claim.Credibility,
		claim.Confidence,
		claim.RetrievedAt.Time(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store claim: %w", err)
	}
	return claim.ID, nil
}

// HasLowCredibility reports whether any low-credibility claim exists for the
// given claim type. An empty claimType checks across all claim types.
func (r *LedgerRepository) HasLowCredibility(ctx context.Context, claimType string) (bool, error) {
	query := `
		SELECT EXISTS (
			SELECT 1 FROM claims
			WHERE credibility = 'low' AND ($1 = '' OR claim_type = $1)
		)`

	var exists bool
	if err := r.db.QueryRowContext(ctx, query, claimType).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check claim credibility: %w", err)
	}
	return exists, nil
}

// SourceRepository stores retrieved web sources with trust ratings
type SourceRepository struct {
	db *sqlx.DB
}

// NewSourceRepository creates a new source repository
func NewSourceRepository(db *sqlx.DB) *SourceRepository {
	return &SourceRepository{db: db}
}

// StoreSource records a retrieved source
func (r *SourceRepository) StoreSource(ctx context.Context, source evidence.Source) (core.SourceID, error) {
	if source.ID == "" {
		source.ID = core.SourceID(core.NewID())
	}
	if source.RetrievedAt.IsZero() {
		source.RetrievedAt = core.Now()
	}

	query := `
		INSERT INTO sources (id, url, credibility, retrieved_at)
		VALUES ($1, $2, $3, $4)`

	_, err := r.db.ExecContext(ctx, query,
		source.ID.String(),
		source.URL,
		source.Credibility,
		source.RetrievedAt.Time(),
	)
	if err != nil {
		return "", fmt.Errorf("failed to store source: %w", err)
	}
	return source.ID, nil
}

// AllSources returns every retrieved source in retrieval order
func (r *SourceRepository) AllSources(ctx context.Context) ([]evidence.Source, error) {
	query := `
		SELECT id, url, credibility, retrieved_at
		FROM sources
		ORDER BY retrieved_at ASC, id ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query sources: %w", err)
	}
	defer rows.Close()

	var sources []evidence.Source
	for rows.Next() {
		var source evidence.Source
		var id string
		var retrievedAt time.Time
		if err := rows.Scan(&id, &source.URL, &source.Credibility, &retrievedAt); err != nil {
			return nil, fmt.Errorf("failed to scan source: %w", err)
		}
		source.ID = core.SourceID(id)
		source.RetrievedAt = core.NewTimestamp(retrievedAt)
		sources = append(sources, source)
	}
	return sources, rows.Err()
}
