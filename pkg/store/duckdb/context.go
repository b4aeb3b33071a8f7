package duckdb

import (
	"context"
	"database/sql"
)

type txKey struct{}

// WithTransaction lets callers scope store operations to an existing
// transaction; stores pick it up via GetTransaction.
func WithTransaction(ctx context.Context, tx *sql.Tx) context.Context {
	return context.WithValue(ctx, txKey{}, tx)
}

func GetTransaction(ctx context.Context) *sql.Tx {
	tx, _ := ctx.Value(txKey{}).(*sql.Tx)
	return tx
}
