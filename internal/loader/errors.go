package loader

import (
	"fmt"

	"github.com/sells-group/locseed/internal/model"
)

// ConnectionError means the destination could not be reached. It is fatal.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("loader: connect: %v", e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// InsertRowError is one record rejected by the destination. The batch continues.
type InsertRowError struct {
	Index  int
	Record model.LocationRecord
	Err    error
}

func (e *InsertRowError) Error() string {
	return fmt.Sprintf("loader: insert record %d (%s): %v", e.Index, e.Record.Label(), e.Err)
}

func (e *InsertRowError) Unwrap() error { return e.Err }

// TransactionError is a failure of the load transaction itself. The
// transaction has been rolled back (or never committed) and the run is fatal.
type TransactionError struct {
	Op          string
	Err         error
	RollbackErr error
}

func (e *TransactionError) Error() string {
	if e.RollbackErr != nil {
		return fmt.Sprintf("loader: %s: %v (rollback: %v)", e.Op, e.Err, e.RollbackErr)
	}
	return fmt.Sprintf("loader: %s: %v", e.Op, e.Err)
}

func (e *TransactionError) Unwrap() error { return e.Err }
