package loader

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/locseed/internal/db"
	"github.com/sells-group/locseed/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite. It backs local
// scratch loads and end-to-end tests.
type SQLiteStore struct {
	db    *sql.DB
	table string
}

// OpenSQLite opens a SQLite database. The pool is pinned to one connection so
// ":memory:" databases survive across calls.
func OpenSQLite(dsn string) (*SQLiteStore, error) {
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	sqlDB.SetMaxOpenConns(1)

	if _, err := sqlDB.Exec("PRAGMA busy_timeout=5000"); err != nil {
		_ = sqlDB.Close()
		return nil, eris.Wrap(err, "sqlite: exec PRAGMA busy_timeout")
	}
	return NewSQLiteStore(sqlDB), nil
}

// NewSQLiteStore wraps an open database.
func NewSQLiteStore(sqlDB *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: sqlDB, table: model.Table}
}

// SQLiteDSN maps a sqlite:// URL onto a modernc DSN. ok is false for other schemes.
func SQLiteDSN(url string) (dsn string, ok bool) {
	switch {
	case strings.HasPrefix(url, "sqlite://"):
		return strings.TrimPrefix(url, "sqlite://"), true
	case strings.HasPrefix(url, "sqlite:"):
		return strings.TrimPrefix(url, "sqlite:"), true
	default:
		return "", false
	}
}

const sqliteLocationsTable = `
CREATE TABLE IF NOT EXISTS norwegian_locations (
	id                   INTEGER PRIMARY KEY AUTOINCREMENT,
	postal_code          TEXT NOT NULL DEFAULT '',
	place_name           TEXT NOT NULL DEFAULT '',
	municipality_code    TEXT NOT NULL DEFAULT '',
	municipality_name    TEXT NOT NULL DEFAULT '',
	county_name          TEXT NOT NULL DEFAULT '',
	county_code          TEXT NOT NULL DEFAULT '',
	region               TEXT NOT NULL DEFAULT '',
	category             TEXT NOT NULL DEFAULT 'G',
	category_description TEXT NOT NULL DEFAULT 'Street address'
);
`

// CreateTable creates the locations table in a scratch database if missing.
func (s *SQLiteStore) CreateTable(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteLocationsTable)
	return eris.Wrap(err, "sqlite: create table")
}

// Close closes the database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Begin opens the load transaction.
func (s *SQLiteStore) Begin(ctx context.Context) (Tx, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: begin tx")
	}
	return &sqliteTx{
		tx:        tx,
		deleteSQL: db.DeleteAllSQL(s.table),
		insertSQL: db.InsertSQL(s.table, model.Columns, db.Question),
	}, nil
}

// Summary reads back the aggregate counts.
func (s *SQLiteStore) Summary(ctx context.Context) (Summary, error) {
	var sum Summary
	err := s.db.QueryRowContext(ctx, db.SummarySQL(s.table)).Scan(&sum.Records, &sum.Places, &sum.Counties)
	if err != nil {
		return Summary{}, eris.Wrap(err, "sqlite: summary")
	}
	return sum, nil
}

type sqliteTx struct {
	tx        *sql.Tx
	deleteSQL string
	insertSQL string
}

func (t *sqliteTx) Clear(ctx context.Context) error {
	if _, err := t.tx.ExecContext(ctx, t.deleteSQL); err != nil {
		return eris.Wrap(err, "sqlite: clear table")
	}
	return nil
}

func (t *sqliteTx) InsertOne(ctx context.Context, rec model.LocationRecord) error {
	if _, err := t.tx.ExecContext(ctx, "SAVEPOINT "+rowSavepoint); err != nil {
		return eris.Wrap(err, "sqlite: savepoint")
	}

	if _, err := t.tx.ExecContext(ctx, t.insertSQL, rec.Row()...); err != nil {
		if _, rbErr := t.tx.ExecContext(ctx, "ROLLBACK TO SAVEPOINT "+rowSavepoint); rbErr != nil {
			return eris.Wrap(rbErr, "sqlite: rollback to savepoint")
		}
		if _, relErr := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+rowSavepoint); relErr != nil {
			return eris.Wrap(relErr, "sqlite: release savepoint")
		}
		return &InsertRowError{Record: rec, Err: err}
	}

	if _, err := t.tx.ExecContext(ctx, "RELEASE SAVEPOINT "+rowSavepoint); err != nil {
		return eris.Wrap(err, "sqlite: release savepoint")
	}
	return nil
}

func (t *sqliteTx) Commit(context.Context) error {
	if err := t.tx.Commit(); err != nil {
		return eris.Wrap(err, "sqlite: commit tx")
	}
	return nil
}

func (t *sqliteTx) Rollback(context.Context) error {
	if err := t.tx.Rollback(); err != nil && !errors.Is(err, sql.ErrTxDone) {
		return eris.Wrap(err, "sqlite: rollback tx")
	}
	return nil
}
