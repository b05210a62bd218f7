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

type PlanRepository interface {
	FindAll(ctx context.Context) ([]*entity.Plan, error)
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Plan, error)
}

type planRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewPlanRepository(db database.PgxIface, log *zap.Logger) PlanRepository {
	return &planRepository{
		db:  db,
		log: log.With(zap.String("repository", "plan")),
	}
}

func (r *planRepository) FindAll(ctx context.Context) ([]*entity.Plan, error) {
	query := `
		SELECT id, name, description, price, is_active, created_at, updated_at
		FROM plans
		WHERE is_active = TRUE
		ORDER BY price
	`

	rows, err := r.db.Query(ctx, query)
	if err != nil {
		r.log.Error("Failed to find plans", zap.Error(err))
		return nil, fmt.Errorf("find plans: %w", err)
	}
	defer rows.Close()

	var plans []*entity.Plan
	for rows.Next() {
		var plan entity.Plan
		err := rows.Scan(
			&plan.ID,
			&plan.Name,
			&plan.Description,
			&plan.Price,
			&plan.IsActive,
			&plan.CreatedAt,
			&plan.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan plan row", zap.Error(err))
			return nil, fmt.Errorf("scan plan row: %w", err)
		}
		plans = append(plans, &plan)
	}

	return plans, nil
}

func (r *planRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Plan, error) {
	query := `
		SELECT id, name, description, price, is_active, created_at, updated_at
		FROM plans
		WHERE id = $1
	`

	var plan entity.Plan
	err := r.db.QueryRow(ctx, query, id).Scan(
		&plan.ID,
		&plan.Name,
		&plan.Description,
		&plan.Price,
		&plan.IsActive,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find plan by ID",
			zap.Error(err),
			zap.String("plan_id", id.String()),
		)
		return nil, fmt.Errorf("find plan by ID %s: %w", id.String(), err)
	}

	return &plan, nil
}
