package loader

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/rotisserie/eris"

	"github.com/sells-group/locseed/internal/db"
	"github.com/sells-group/locseed/internal/model"
)

// PostgresStore implements Store over a pgx pool.
type PostgresStore struct {
	pool  db.Pool
	table string
}

// NewPostgresStore creates a store writing to model.Table.
func NewPostgresStore(pool db.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, table: model.Table}
}

// Begin opens the load transaction.
func (s *PostgresStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: begin tx")
	}
	return &pgTx{
		tx:        tx,
		deleteSQL: db.DeleteAllSQL(s.table),
		insertSQL: db.InsertSQL(s.table, model.Columns, db.Dollar),
	}, nil
}

// Summary reads back the aggregate counts.
func (s *PostgresStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.pool.QueryRow(ctx, db.SummarySQL(s.table)).Scan(&sum.Records, &sum.Places, &sum.Counties)
	if err != nil {
		return Summary{}, eris.Wrap(err, "postgres: summary")
	}
	return sum, nil
}

type pgTx struct {
	tx        pgx.Tx
	deleteSQL string
	insertSQL string
}

func (t *pgTx) Clear(ctx context.Context) error {
	if _, err := t.tx.Exec(ctx, t.deleteSQL); err != nil {
		return eris.Wrap(err, "postgres: clear table")
	}
	return nil
}

func (t *pgTx) InsertOne(ctx context.Context, rec model.LocationRecord) error {
	if _, err := t.tx.Exec(ctx, "SAVEPOINT "+rowSavepoint); err != nil {
		return eris.Wrap(err, "postgres: savepoint")
	}

	if _, err := t.tx.Exec(ctx, t.insertSQL, rec.Row()...); err != nil {
		if _, rbErr := t.tx.Exec(ctx, "ROLLBACK TO SAVEPOINT "+rowSavepoint); rbErr != nil {
			return eris.Wrap(rbErr, "postgres: rollback to savepoint")
		}
		if _, relErr := t.tx.Exec(ctx, "RELEASE SAVEPOINT "+rowSavepoint); relErr != nil {
			return eris.Wrap(relErr, "postgres: release savepoint")
		}
		return &InsertRowError{Record: rec, Err: err}
	}

	if _, err := t.tx.Exec(ctx, "RELEASE SAVEPOINT "+rowSavepoint); err != nil {
		return eris.Wrap(err, "postgres: release savepoint")
	}
	return nil
}

func (t *pgTx) Commit(ctx context.Context) error {
	if err := t.tx.Commit(ctx); err != nil {
		return eris.Wrap(err, "postgres: commit tx")
	}
	return nil
}

func (t *pgTx) Rollback(ctx context.Context) error {
	if err := t.tx.Rollback(ctx); err != nil && !errors.Is(err, pgx.ErrTxClosed) {
		return eris.Wrap(err, "postgres: rollback tx")
	}
	return nil
}
