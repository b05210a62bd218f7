package database

import (
	"context"
	"fmt"
)

// WithTx runs fn inside a single transaction. The transaction is rolled back
// on error or panic, committed otherwise. Conflict-sensitive sequences
// (overlap check + insert, capacity count + insert) must go through here so
// they see a consistent snapshot and hold their row locks until commit.
func WithTx(ctx context.Context, db PgxIface, fn func(q Querier) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(ctx); rbErr != nil {
			return fmt.Errorf("rollback after %w: %v", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}

	return nil
}
