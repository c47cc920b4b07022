package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v4/pgxpool"

	"prepquiz-service/internal/domain"
)

// ContentLoader loads category JSONB documents from Postgres, in display order.
type ContentLoader struct {
	pool *pgxpool.Pool
}

func NewContentLoader(pool *pgxpool.Pool) *ContentLoader {
	return &ContentLoader{pool: pool}
}

func (l *ContentLoader) LoadContent(ctx context.Context) (domain.Content, error) {
	rows, err := l.pool.Query(ctx, `SELECT data FROM content_categories ORDER BY position, id`)
	if err != nil {
		return domain.Content{}, fmt.Errorf("load content: %w", err)
	}
	defer rows.Close()

	var content domain.Content
	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return domain.Content{}, fmt.Errorf("scan category: %w", err)
		}
		var category domain.Category
		if err := json.Unmarshal(raw, &category); err != nil {
			return domain.Content{}, fmt.Errorf("unmarshal category: %w", err)
		}
		content.Categories = append(content.Categories, category)
	}
	if err := rows.Err(); err != nil {
		return domain.Content{}, fmt.Errorf("load content: %w", err)
	}
	if len(content.Categories) == 0 {
		return domain.Content{}, domain.ErrContentNotFound
	}
	return content, nil
}

// SaveCategory upserts one category at the given position.
func (l *ContentLoader) SaveCategory(ctx context.Context, position int, category domain.Category) error {
	data, err := json.Marshal(category)
	if err != nil {
		return fmt.Errorf("marshal category: %w", err)
	}
	_, err = l.pool.Exec(ctx,
		`INSERT INTO content_categories (id, position, data) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET position = EXCLUDED.position, data = EXCLUDED.data`,
		category.ID, position, string(data))
	if err != nil {
		return fmt.Errorf("save category: %w", err)
	}
	return nil
}
