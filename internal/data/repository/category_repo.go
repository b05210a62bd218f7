package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type MatchCategoryRepository interface {
	FindAll(ctx context.Context) ([]*entity.MatchCategory, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.MatchCategory, error)
}

type matchCategoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewMatchCategoryRepository(db database.PgxIface, log *zap.Logger) MatchCategoryRepository {
	return &matchCategoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "match_category")),
	}
}

func (r *matchCategoryRepository) FindAll(ctx context.Context) ([]*entity.MatchCategory, error) {
	query := `SELECT id, name, created_at FROM match_categories ORDER BY name`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find match categories", zap.Error(err))
		return nil, fmt.Errorf("find match categories: %w", err)
	}
	defer rows.Close()

	var categories []*entity.MatchCategory
	for rows.Next() {
		var category entity.MatchCategory
		if err := rows.Scan(&category.ID, &category.Name, &category.CreatedAt); err != nil {
			r.log.Error("Failed to scan match category row", zap.Error(err))
			return nil, fmt.Errorf("scan match category row: %w", err)
		}
		categories = append(categories, &category)
	}

	return categories, nil
}

func (r *matchCategoryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.MatchCategory, error) {
	query := `SELECT id, name, created_at FROM match_categories WHERE id = $1`

	var category entity.MatchCategory
	err := r.db.QueryRow(ctx, query, id).Scan(&category.ID, &category.Name, &category.CreatedAt)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find match category by ID",
			zap.Error(err),
			zap.String("category_id", id.String()),
		)
		return nil, fmt.Errorf("find match category by ID %s: %w", id.String(), err)
	}

	return &category, nil
}
