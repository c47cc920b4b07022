package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"prepquiz-service/internal/domain"
)

// AttemptRecorder writes the attempt history to Postgres.
type AttemptRecorder struct {
	pool *pgxpool.Pool
}

func NewAttemptRecorder(pool *pgxpool.Pool) *AttemptRecorder {
	return &AttemptRecorder{pool: pool}
}

func (r *AttemptRecorder) Record(ctx context.Context, attempt domain.Attempt) error {
	meta, err := json.Marshal(attempt.Meta)
	if err != nil {
		return fmt.Errorf("marshal attempt meta: %w", err)
	}
	_, err = r.pool.Exec(ctx,
		`INSERT INTO attempts (id, type, meta, correct, total, time_taken_sec, xp_earned, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		attempt.ID, string(attempt.Type), string(meta), attempt.Correct, attempt.Total,
		attempt.TimeTakenSec, attempt.XPEarned, attempt.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert attempt: %w", err)
	}
	return nil
}

// Recent returns up to limit attempts, newest first.
func (r *AttemptRecorder) Recent(ctx context.Context, limit int) ([]domain.Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.pool.Query(ctx,
		`SELECT id, type, meta, correct, total, time_taken_sec, xp_earned, created_at
		 FROM attempts ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()

	var attempts []domain.Attempt
	for rows.Next() {
		var (
			a        domain.Attempt
			kind     string
			metaJSON []byte
		)
		if err := rows.Scan(&a.ID, &kind, &metaJSON, &a.Correct, &a.Total, &a.TimeTakenSec, &a.XPEarned, &a.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		a.Type = domain.AttemptType(kind)
		if len(metaJSON) > 0 {
			_ = json.Unmarshal(metaJSON, &a.Meta)
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
