// Package loader replaces the contents of the locations table with a fresh
// batch of records inside one transaction.
package loader

import (
	"context"

	"github.com/sells-group/locseed/internal/model"
)

// Summary is the read-back aggregate over the loaded table.
type Summary struct {
	Records  int64 `json:"records"`
	Places   int64 `json:"places"`
	Counties int64 `json:"counties"`
}

// Store is a destination for location records.
type Store interface {
	// Begin opens the transaction that bounds one load.
	Begin(ctx context.Context) (Tx, error)

	// Summary counts rows, distinct place names and distinct county names.
	Summary(ctx context.Context) (Summary, error)
}

// Tx is one load transaction.
type Tx interface {
	// Clear deletes every row of the table.
	Clear(ctx context.Context) error

	// InsertOne inserts a single record. A record the database rejects is
	// reported as *InsertRowError and leaves the transaction usable; any
	// other error means the transaction is lost.
	InsertOne(ctx context.Context, rec model.LocationRecord) error

	Commit(ctx context.Context) error
	Rollback(ctx context.Context) error
}

// rowSavepoint guards each insert so a rejected row does not abort the batch.
const rowSavepoint = "locseed_row"
