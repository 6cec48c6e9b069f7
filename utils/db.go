package utils

import (
	"context"
	"database/sql"
)

// WithTx runs fn inside a transaction, committing on success and
// rolling back on error or panic.
func WithTx[T any](
	ctx context.Context,
	db *sql.DB,
	opts *sql.TxOptions,
	fn func(tx *sql.Tx) (T, error),
) (out T, err error) {
	tx, err := db.BeginTx(ctx, opts)
	if err != nil {
		return out, err
	}

	defer func() {
		if p := recover(); p != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				Logger.Errorf("transaction rollback error: %v", rollbackErr)
			}
			panic(p)
		}
		if err != nil {
			if rollbackErr := tx.Rollback(); rollbackErr != nil {
				Logger.Errorf("transaction rollback error: %v", rollbackErr)
			}
		}
	}()

	out, err = fn(tx)
	if err != nil {
		return out, err
	}

	if cerr := tx.Commit(); cerr != nil {
		err = cerr
		return out, err
	}
	return out, nil
}
