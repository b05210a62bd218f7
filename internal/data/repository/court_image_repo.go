package repository

import (
	"context"
	"fmt"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type CourtImageRepository interface {
	Create(ctx context.Context, image *entity.CourtImage) error
	FindByCourtID(ctx context.Context, courtID uuid.UUID) ([]*entity.CourtImage, error)
	Delete(ctx context.Context, id uuid.UUID) error
	DeleteByCourtID(ctx context.Context, courtID uuid.UUID) error
}

type courtImageRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCourtImageRepository(db database.PgxIface, log *zap.Logger) CourtImageRepository {
	return &courtImageRepository{
		db:  db,
		log: log.With(zap.String("repository", "court_image")),
	}
}

func (r *courtImageRepository) Create(ctx context.Context, image *entity.CourtImage) error {
	query := `
		INSERT INTO court_images (id, court_id, url, created_at)
		VALUES ($1, $2, $3, $4)
	`

	_, err := r.db.Exec(ctx, query,
		image.ID,
		image.CourtID,
		image.URL,
		image.CreatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create court image",
			zap.Error(err),
			zap.String("court_id", image.CourtID.String()),
		)
		return fmt.Errorf("create image for court %s: %w", image.CourtID.String(), err)
	}

	return nil
}

func (r *courtImageRepository) FindByCourtID(ctx context.Context, courtID uuid.UUID) ([]*entity.CourtImage, error) {
	query := `SELECT id, court_id, url, created_at FROM court_images WHERE court_id = $1 ORDER BY created_at`

	rows, err := r.db.Query(ctx, query, courtID)
	if err != nil {
		r.log.Error("Failed to find court images",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find images for court %s: %w", courtID.String(), err)
	}
	defer rows.Close()

	var images []*entity.CourtImage
	for rows.Next() {
		var image entity.CourtImage
		if err := rows.Scan(&image.ID, &image.CourtID, &image.URL, &image.CreatedAt); err != nil {
			r.log.Error("Failed to scan court image row", zap.Error(err))
			return nil, fmt.Errorf("scan court image row: %w", err)
		}
		images = append(images, &image)
	}

	return images, nil
}

func (r *courtImageRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM court_images WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete court image",
			zap.Error(err),
			zap.String("image_id", id.String()),
		)
		return fmt.Errorf("delete court image %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court image %s not found", id.String())
	}

	return nil
}

func (r *courtImageRepository) DeleteByCourtID(ctx context.Context, courtID uuid.UUID) error {
	query := `DELETE FROM court_images WHERE court_id = $1`

	_, err := r.db.Exec(ctx, query, courtID)
	if err != nil {
		r.log.Error("Failed to delete court images",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return fmt.Errorf("delete images for court %s: %w", courtID.String(), err)
	}

	return nil
}
