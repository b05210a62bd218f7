package repository

import (
	"context"
	"fmt"
	"strings"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// CourtQueryOptions enumerates the supported court list filters.
type CourtQueryOptions struct {
	NameContains *string
	IsActive     *bool
	Limit        int
	Offset       int
}

type CourtRepository interface {
	Create(ctx context.Context, court *entity.Court) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error)
	FindAll(ctx context.Context, opts CourtQueryOptions) ([]*entity.Court, error)
	CountAll(ctx context.Context, opts CourtQueryOptions) (int64, error)
	Update(ctx context.Context, court *entity.Court) error
	SetActive(ctx context.Context, id uuid.UUID, active bool) error
	Delete(ctx context.Context, id uuid.UUID) error

	// LockRow takes a FOR UPDATE lock on the court row inside the given
	// transaction, serializing concurrent booking creation per court.
	LockRow(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error)
}

type courtRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCourtRepository(db database.PgxIface, log *zap.Logger) CourtRepository {
	return &courtRepository{
		db:  db,
		log: log.With(zap.String("repository", "court")),
	}
}

func (r *courtRepository) Create(ctx context.Context, court *entity.Court) error {
	query := `
		INSERT INTO courts (id, name, description, price, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.Description,
		court.Price,
		court.IsActive,
		court.CreatedAt,
		court.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create court",
			zap.Error(err),
			zap.String("name", court.Name),
		)
		return fmt.Errorf("create court %s: %w", court.Name, err)
	}

	return nil
}

func (r *courtRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Court, error) {
	query := `
		SELECT id, name, description, price, is_active, created_at, updated_at
		FROM courts
		WHERE id = $1
	`

	var court entity.Court
	err := r.db.QueryRow(ctx, query, id).Scan(
		&court.ID,
		&court.Name,
		&court.Description,
		&court.Price,
		&court.IsActive,
		&court.CreatedAt,
		&court.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find court by ID",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return nil, fmt.Errorf("find court by ID %s: %w", id.String(), err)
	}

	return &court, nil
}

func buildCourtFilter(opts CourtQueryOptions, args []any) (string, []any) {
	var clauses []string

	if opts.NameContains != nil {
		args = append(args, "%"+*opts.NameContains+"%")
		clauses = append(clauses, fmt.Sprintf("name ILIKE $%d", len(args)))
	}
	if opts.IsActive != nil {
		args = append(args, *opts.IsActive)
		clauses = append(clauses, fmt.Sprintf("is_active = $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *courtRepository) FindAll(ctx context.Context, opts CourtQueryOptions) ([]*entity.Court, error) {
	where, args := buildCourtFilter(opts, nil)

	query := `SELECT id, name, description, price, is_active, created_at, updated_at FROM courts` +
		where + fmt.Sprintf(` ORDER BY name LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find courts", zap.Error(err))
		return nil, fmt.Errorf("find courts: %w", err)
	}
	defer rows.Close()

	var courts []*entity.Court
	for rows.Next() {
		var court entity.Court
		err := rows.Scan(
			&court.ID,
			&court.Name,
			&court.Description,
			&court.Price,
			&court.IsActive,
			&court.CreatedAt,
			&court.UpdatedAt,
		)
		if err != nil {
			r.log.Error("Failed to scan court row", zap.Error(err))
			return nil, fmt.Errorf("scan court row: %w", err)
		}
		courts = append(courts, &court)
	}

	return courts, nil
}

func (r *courtRepository) CountAll(ctx context.Context, opts CourtQueryOptions) (int64, error) {
	where, args := buildCourtFilter(opts, nil)
	query := `SELECT COUNT(*) FROM courts` + where

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count courts", zap.Error(err))
		return 0, fmt.Errorf("count courts: %w", err)
	}

	return count, nil
}

func (r *courtRepository) Update(ctx context.Context, court *entity.Court) error {
	query := `
		UPDATE courts
		SET name = $2, description = $3, price = $4, is_active = $5, updated_at = $6
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		court.ID,
		court.Name,
		court.Description,
		court.Price,
		court.IsActive,
		court.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update court",
			zap.Error(err),
			zap.String("court_id", court.ID.String()),
		)
		return fmt.Errorf("update court %s: %w", court.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s not found", court.ID.String())
	}

	return nil
}

func (r *courtRepository) SetActive(ctx context.Context, id uuid.UUID, active bool) error {
	query := `UPDATE courts SET is_active = $2, updated_at = NOW() WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id, active)
	if err != nil {
		r.log.Error("Failed to set court active flag",
			zap.Error(err),
			zap.String("court_id", id.String()),
			zap.Bool("active", active),
		)
		return fmt.Errorf("set court %s active=%t: %w", id.String(), active, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s not found", id.String())
	}

	return nil
}

// Delete hard-deletes a court and cascades to its images and bookings.
// Deactivation via SetActive is the normal path; this is for the audited
// admin cleanup flow only.
func (r *courtRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM courts WHERE id = $1`

	result, err := r.db.Exec(ctx, query, id)
	if err != nil {
		r.log.Error("Failed to delete court",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return fmt.Errorf("delete court %s: %w", id.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("court %s not found", id.String())
	}

	r.log.Info("Court deleted", zap.String("court_id", id.String()))
	return nil
}

func (r *courtRepository) LockRow(ctx context.Context, q database.Querier, id uuid.UUID) (bool, error) {
	query := `SELECT id FROM courts WHERE id = $1 FOR UPDATE`

	var lockedID uuid.UUID
	err := q.QueryRow(ctx, query, id).Scan(&lockedID)
	if err == pgx.ErrNoRows {
		return false, nil
	}
	if err != nil {
		r.log.Error("Failed to lock court row",
			zap.Error(err),
			zap.String("court_id", id.String()),
		)
		return false, fmt.Errorf("lock court row %s: %w", id.String(), err)
	}

	return true, nil
}
