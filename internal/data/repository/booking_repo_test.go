package repository

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

// brokenRows reports no rows and surfaces an iteration error, the shape a
// dropped connection mid-result-set takes.
type brokenRows struct {
	err error
}

func (r *brokenRows) Close()                                       {}
func (r *brokenRows) Err() error                                   { return r.err }
func (r *brokenRows) CommandTag() pgconn.CommandTag                { return pgconn.CommandTag{} }
func (r *brokenRows) FieldDescriptions() []pgconn.FieldDescription { return nil }
func (r *brokenRows) Next() bool                                   { return false }
func (r *brokenRows) Scan(dest ...any) error                       { return nil }
func (r *brokenRows) Values() ([]any, error)                       { return nil, nil }
func (r *brokenRows) RawValues() [][]byte                          { return nil }
func (r *brokenRows) Conn() *pgx.Conn                              { return nil }

type brokenRowsQuerier struct {
	err error
}

func (q *brokenRowsQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	return &brokenRows{err: q.err}, nil
}

func (q *brokenRowsQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	return nil
}

func (q *brokenRowsQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	return pgconn.CommandTag{}, nil
}

func TestFindOverlapping_IterationErrorSurfaces(t *testing.T) {
	repo := NewBookingRepository(nil, zap.NewNop())
	q := &brokenRowsQuerier{err: errors.New("connection reset")}

	start := time.Now()
	end := start.Add(time.Hour)

	bookings, err := repo.FindOverlapping(context.Background(), q, uuid.New(), start, end, nil)
	if err == nil {
		t.Fatal("an iteration error must not look like a free slot")
	}
	if bookings != nil {
		t.Errorf("expected no bookings on iteration error, got %v", bookings)
	}
}
