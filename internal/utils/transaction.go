package utils

import (
	"context"
	"errors"

	"github.com/JaineelPandya/social-book/internal/interfaces"
	"github.com/jackc/pgx/v5"
)

// WithTransaction runs fn inside a database transaction. The transaction is committed if fn returns nil
// and rolled back otherwise. The error of fn is returned unchanged.
func WithTransaction(ctx context.Context, pool interfaces.PgxPoolIface, fn func(tx pgx.Tx) error) error {
	LogMessageWithFields(ctx, "debug", "Beginning transaction...")

	tx, err := pool.Begin(ctx)
	if err != nil {
		LogMessageWithFieldsAndError(ctx, "error", "Error beginning transaction", err)
		return err
	}

	if err = fn(tx); err != nil {
		RollbackTransaction(ctx, tx)
		return err
	}

	return CommitTransaction(ctx, tx)
}

// RollbackTransaction rolls back the given transaction.
// It logs any errors that occur during the rollback, except if the transaction is already closed.
func RollbackTransaction(ctx context.Context, tx pgx.Tx) {
	LogMessageWithFields(ctx, "debug", "Rolling back transaction...")

	if err := tx.Rollback(ctx); err != nil {
		if errors.Is(err, pgx.ErrTxClosed) {
			return
		}
		LogMessageWithFieldsAndError(ctx, "error", "Error rolling back transaction", err)
		return
	}
	LogMessageWithFields(ctx, "debug", "Transaction rolled back")
}

// CommitTransaction attempts to commit the given transaction.
func CommitTransaction(ctx context.Context, tx pgx.Tx) error {
	LogMessageWithFields(ctx, "debug", "Committing transaction...")

	if err := tx.Commit(ctx); err != nil {
		LogMessageWithFieldsAndError(ctx, "error", "Error committing transaction", err)
		return err
	}

	LogMessageWithFields(ctx, "debug", "Transaction committed")
	return nil
}
