package core

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"
)

type (
	// DBExecutor is the query surface repositories run against; it is
	// satisfied by both *sqlx.DB and *sqlx.Tx, so a service can hand a
	// repository its transaction.
	DBExecutor interface {
		sqlx.ExtContext
	}

	DB interface {
		DBExecutor

		BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	}
)

type DBOrdering struct {
	Field     string
	Ascending bool
}

func (ord DBOrdering) String() string {
	direction := "DESC"
	if ord.Ascending {
		direction = "ASC"
	}
	return ord.Field + " " + direction
}

// RunInTx runs fn within a transaction, rolling back if fn errors out.
// Every logical write goes through here so each one gets its own short
// transaction.
// A nil db runs fn outside any transaction; in-memory repositories used in
// tests ignore the executor entirely.
func RunInTx(ctx context.Context, db DB, fn func(tx *sqlx.Tx) error) error {
	if db == nil {
		return fn(nil)
	}
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	if err = fn(tx); err != nil {
		_ = tx.Rollback()
		return err
	}
	return tx.Commit()
}
