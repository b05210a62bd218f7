package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"court-booking/internal/data/entity"
	"court-booking/pkg/database"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

// BookingQueryOptions enumerates the supported booking list filters.
type BookingQueryOptions struct {
	UserID *uuid.UUID
	Status *entity.BookingStatus
	From   *time.Time
	To     *time.Time
	Limit  int
	Offset int
}

type BookingRepository interface {
	CreateIn(ctx context.Context, q database.Querier, booking *entity.Booking) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error)
	FindAll(ctx context.Context, opts BookingQueryOptions) ([]*entity.Booking, error)
	CountAll(ctx context.Context, opts BookingQueryOptions) (int64, error)
	Update(ctx context.Context, booking *entity.Booking) error
	UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error
	SetPaymentIn(ctx context.Context, q database.Querier, bookingID, paymentID uuid.UUID) error

	// Interval queries. Half-open semantics: [start, end) — a booking ending
	// at the instant another starts does not overlap it.
	FindOverlapping(ctx context.Context, q database.Querier, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error)
	FindActiveInRange(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error)
}

type bookingRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewBookingRepository(db database.PgxIface, log *zap.Logger) BookingRepository {
	return &bookingRepository{
		db:  db,
		log: log.With(zap.String("repository", "booking")),
	}
}

const bookingColumns = `id, court_id, user_id, start_time, end_time, status, payment_id, created_at, updated_at`

func scanBooking(row pgx.Row) (*entity.Booking, error) {
	var booking entity.Booking
	err := row.Scan(
		&booking.ID,
		&booking.CourtID,
		&booking.UserID,
		&booking.StartTime,
		&booking.EndTime,
		&booking.Status,
		&booking.PaymentID,
		&booking.CreatedAt,
		&booking.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) CreateIn(ctx context.Context, q database.Querier, booking *entity.Booking) error {
	query := `
		INSERT INTO bookings (id, court_id, user_id, start_time, end_time, status, payment_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := q.Exec(ctx, query,
		booking.ID,
		booking.CourtID,
		booking.UserID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.PaymentID,
		booking.CreatedAt,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to create booking",
			zap.Error(err),
			zap.String("court_id", booking.CourtID.String()),
			zap.String("user_id", booking.UserID.String()),
		)
		return fmt.Errorf("create booking %s: %w", booking.ID.String(), err)
	}

	return nil
}

func (r *bookingRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`

	booking, err := scanBooking(r.db.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find booking by ID",
			zap.Error(err),
			zap.String("booking_id", id.String()),
		)
		return nil, fmt.Errorf("find booking by ID %s: %w", id.String(), err)
	}

	return booking, nil
}

// buildBookingFilter appends WHERE clauses for the typed query options.
func buildBookingFilter(opts BookingQueryOptions, args []any) (string, []any) {
	var clauses []string

	if opts.UserID != nil {
		args = append(args, *opts.UserID)
		clauses = append(clauses, fmt.Sprintf("user_id = $%d", len(args)))
	}
	if opts.Status != nil {
		args = append(args, *opts.Status)
		clauses = append(clauses, fmt.Sprintf("status = $%d", len(args)))
	}
	if opts.From != nil {
		args = append(args, *opts.From)
		clauses = append(clauses, fmt.Sprintf("end_time > $%d", len(args)))
	}
	if opts.To != nil {
		args = append(args, *opts.To)
		clauses = append(clauses, fmt.Sprintf("start_time < $%d", len(args)))
	}

	if len(clauses) == 0 {
		return "", args
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

func (r *bookingRepository) FindAll(ctx context.Context, opts BookingQueryOptions) ([]*entity.Booking, error) {
	where, args := buildBookingFilter(opts, nil)

	query := `SELECT ` + bookingColumns + ` FROM bookings` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, len(args)+1, len(args)+2)
	args = append(args, opts.Limit, opts.Offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find bookings", zap.Error(err))
		return nil, fmt.Errorf("find bookings: %w", err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Failed to read booking rows", zap.Error(err))
		return nil, fmt.Errorf("read booking rows: %w", err)
	}

	return bookings, nil
}

func (r *bookingRepository) CountAll(ctx context.Context, opts BookingQueryOptions) (int64, error) {
	where, args := buildBookingFilter(opts, nil)
	query := `SELECT COUNT(*) FROM bookings` + where

	var count int64
	err := r.db.QueryRow(ctx, query, args...).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count bookings", zap.Error(err))
		return 0, fmt.Errorf("count bookings: %w", err)
	}

	return count, nil
}

func (r *bookingRepository) Update(ctx context.Context, booking *entity.Booking) error {
	query := `
		UPDATE bookings
		SET court_id = $2, user_id = $3, start_time = $4, end_time = $5,
		    status = $6, payment_id = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := r.db.Exec(ctx, query,
		booking.ID,
		booking.CourtID,
		booking.UserID,
		booking.StartTime,
		booking.EndTime,
		booking.Status,
		booking.PaymentID,
		booking.UpdatedAt,
	)

	if err != nil {
		r.log.Error("Failed to update booking",
			zap.Error(err),
			zap.String("booking_id", booking.ID.String()),
		)
		return fmt.Errorf("update booking %s: %w", booking.ID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", booking.ID.String())
	}

	return nil
}

func (r *bookingRepository) UpdateStatusIn(ctx context.Context, q database.Querier, id uuid.UUID, status entity.BookingStatus) error {
	query := `UPDATE bookings SET status = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, id, status)
	if err != nil {
		r.log.Error("Failed to update booking status",
			zap.Error(err),
			zap.String("booking_id", id.String()),
			zap.String("status", string(status)),
		)
		return fmt.Errorf("update booking %s status to %s: %w", id.String(), string(status), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", id.String())
	}

	return nil
}

func (r *bookingRepository) SetPaymentIn(ctx context.Context, q database.Querier, bookingID, paymentID uuid.UUID) error {
	query := `UPDATE bookings SET payment_id = $2, updated_at = NOW() WHERE id = $1`

	result, err := q.Exec(ctx, query, bookingID, paymentID)
	if err != nil {
		r.log.Error("Failed to link payment to booking",
			zap.Error(err),
			zap.String("booking_id", bookingID.String()),
			zap.String("payment_id", paymentID.String()),
		)
		return fmt.Errorf("link payment %s to booking %s: %w", paymentID.String(), bookingID.String(), err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("booking %s not found", bookingID.String())
	}

	return nil
}

// FindOverlapping returns active bookings on the court whose [start_time,
// end_time) interval overlaps [start, end). Runs on the given Querier so the
// service can hold it inside the same transaction as the insert.
func (r *bookingRepository) FindOverlapping(ctx context.Context, q database.Querier, courtID uuid.UUID, start, end time.Time, excludeID *uuid.UUID) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1
		  AND start_time < $3
		  AND end_time > $2
		  AND status IN ('pending', 'confirmed')
	`
	args := []any{courtID, start, end}

	if excludeID != nil {
		args = append(args, *excludeID)
		query += fmt.Sprintf(" AND id <> $%d", len(args))
	}

	// Callers outside a transaction may pass a nil querier.
	if q == nil {
		q = r.db
	}

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to find overlapping bookings",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
			zap.Time("start", start),
			zap.Time("end", end),
		)
		return nil, fmt.Errorf("find overlapping bookings for court %s: %w", courtID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	// A truncated result here would let a conflicting booking through.
	if err := rows.Err(); err != nil {
		r.log.Error("Failed to read overlapping booking rows", zap.Error(err))
		return nil, fmt.Errorf("read overlapping booking rows: %w", err)
	}

	return bookings, nil
}

// FindActiveInRange feeds the availability projector: all non-cancelled
// bookings on the court touching [start, end). Read-only, no locking.
func (r *bookingRepository) FindActiveInRange(ctx context.Context, courtID uuid.UUID, start, end time.Time) ([]*entity.Booking, error) {
	query := `
		SELECT ` + bookingColumns + `
		FROM bookings
		WHERE court_id = $1
		  AND start_time < $3
		  AND end_time > $2
		  AND status <> 'cancelled'
		ORDER BY start_time
	`

	rows, err := r.db.Query(ctx, query, courtID, start, end)
	if err != nil {
		r.log.Error("Failed to find bookings in range",
			zap.Error(err),
			zap.String("court_id", courtID.String()),
		)
		return nil, fmt.Errorf("find bookings in range for court %s: %w", courtID.String(), err)
	}
	defer rows.Close()

	var bookings []*entity.Booking
	for rows.Next() {
		booking, err := scanBooking(rows)
		if err != nil {
			r.log.Error("Failed to scan booking row", zap.Error(err))
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, booking)
	}

	if err := rows.Err(); err != nil {
		r.log.Error("Failed to read booking rows", zap.Error(err))
		return nil, fmt.Errorf("read booking rows: %w", err)
	}

	return bookings, nil
}
