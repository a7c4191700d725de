package loader

import (
	"context"
	"errors"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/locseed/internal/model"
)

// progressEvery is how many successful inserts pass between progress events.
const progressEvery = 100

// Observer receives load events.
type Observer interface {
	Clearing(table string)
	Progress(inserted int)
	RowFailed(err *InsertRowError)
}

// NopObserver ignores every event.
type NopObserver struct{}

func (NopObserver) Clearing(string)           {}
func (NopObserver) Progress(int)              {}
func (NopObserver) RowFailed(*InsertRowError) {}

// LoadResult describes a committed load.
type LoadResult struct {
	Inserted int `json:"inserted"`
	Failed   int `json:"failed"`

	// Summary is nil when the read-back failed after commit.
	Summary *Summary `json:"summary,omitempty"`
}

// Load clears the table and inserts records, all in one transaction.
// Rejected rows are counted and skipped. Anything else aborts the load and
// leaves the previous table contents in place.
func Load(ctx context.Context, store Store, records []model.LocationRecord, obs Observer) (*LoadResult, error) {
	if len(records) == 0 {
		return nil, eris.New("loader: no records to load")
	}
	if obs == nil {
		obs = NopObserver{}
	}
	log := zap.L().With(zap.String("table", model.Table), zap.Int("records", len(records)))

	tx, err := store.Begin(ctx)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}

	abort := func(op string, cause error) error {
		txErr := &TransactionError{Op: op, Err: cause}
		if rbErr := tx.Rollback(context.WithoutCancel(ctx)); rbErr != nil {
			txErr.RollbackErr = rbErr
		}
		log.Error("loader: load aborted", zap.String("op", op), zap.Error(cause))
		return txErr
	}

	obs.Clearing(model.Table)
	if err := tx.Clear(ctx); err != nil {
		return nil, abort("clear", err)
	}

	res := &LoadResult{}
	for i, rec := range records {
		if err := ctx.Err(); err != nil {
			return nil, abort("insert", err)
		}

		err := tx.InsertOne(ctx, rec)
		if err == nil {
			res.Inserted++
			if res.Inserted%progressEvery == 0 {
				obs.Progress(res.Inserted)
			}
			continue
		}

		var rowErr *InsertRowError
		if !errors.As(err, &rowErr) {
			return nil, abort("insert", err)
		}
		rowErr.Index = i
		res.Failed++
		log.Warn("loader: record rejected",
			zap.Int("index", i),
			zap.String("postal_code", rec.PostalCode),
			zap.String("place_name", rec.PlaceName),
			zap.Error(rowErr.Err),
		)
		obs.RowFailed(rowErr)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, abort("commit", err)
	}
	log.Info("loader: committed", zap.Int("inserted", res.Inserted), zap.Int("failed", res.Failed))

	sum, err := store.Summary(ctx)
	if err != nil {
		log.Warn("loader: summary unavailable", zap.Error(err))
		return res, nil
	}
	res.Summary = &sum
	return res, nil
}
