package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"marketscope/domain/core"
	"marketscope/internal/errors"
	"marketscope/ports"
)

// AnalysisRepository persists completed pipeline results as JSONB payloads.
// Results are write-once; the payload schema is the AnalysisRecord itself.
type AnalysisRepository struct {
	db *sqlx.DB
}

// NewAnalysisRepository creates a new analysis repository
func NewAnalysisRepository(db *sqlx.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

// SaveAnalysis stores a completed analysis
func (r *AnalysisRepository) SaveAnalysis(ctx context.Context, record ports.AnalysisRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("failed to marshal analysis payload: %w", err)
	}

	query := `
		INSERT INTO analyses (id, idea, payload, created_at)
		VALUES ($1, $2, $3, $4)`

	_, err = r.db.ExecContext(ctx, query,
		record.ID.String(),
		record.Idea,
		payload,
		record.CreatedAt.Time(),
	)
	if err != nil {
		return fmt.Errorf("failed to save analysis: %w", err)
	}
	return nil
}

// GetAnalysis retrieves one analysis by ID
func (r *AnalysisRepository) GetAnalysis(ctx context.Context, id core.AnalysisID) (*ports.AnalysisRecord, error) {
	query := `SELECT payload FROM analyses WHERE id = $1`

	var payload []byte
	err := r.db.QueryRowContext(ctx, query, id.String()).Scan(&payload)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.NotFound("analysis")
		}
		return nil, fmt.Errorf("failed to get analysis: %w", err)
	}

	var record ports.AnalysisRecord
	if err := json.Unmarshal(payload, &record); err != nil {
		return nil, fmt.Errorf("failed to unmarshal analysis payload: %w", err)
	}
	return &record, nil
}

// ListAnalyses returns the most recent analyses, newest first
func (r *AnalysisRepository) ListAnalyses(ctx context.Context, limit int) ([]ports.AnalysisRecord, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT payload, created_at
		FROM analyses
		ORDER BY created_at DESC
		LIMIT $1`

	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list analyses: %w", err)
	}
	defer rows.Close()

	var records []ports.AnalysisRecord
	for rows.Next() {
		var payload []byte
		var createdAt time.Time
		if err := rows.Scan(&payload, &createdAt); err != nil {
			return nil, fmt.Errorf("failed to scan analysis row: %w", err)
		}
		var record ports.AnalysisRecord
		if err := json.Unmarshal(payload, &record); err != nil {
			return nil, fmt.Errorf("failed to unmarshal analysis payload: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
