package main

import (
	"context"
	"io"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/locseed/internal/config"
	"github.com/sells-group/locseed/internal/db"
	"github.com/sells-group/locseed/internal/fetcher"
	"github.com/sells-group/locseed/internal/loader"
	"github.com/sells-group/locseed/internal/report"
	"github.com/sells-group/locseed/internal/source"
)

type seedOptions struct {
	FallbackOnly bool
	DryRun       bool
}

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Fetch postal codes and replace the table contents",
	Long: `Tries each configured source in order and loads the first one that yields
records. When every source fails the built-in catalog of 25 cities is loaded.

The table is cleared and refilled in a single transaction. Rows the database
rejects are skipped and counted; any other database error rolls back and
leaves the previous contents in place.

Use --dry-run to acquire and report without touching the database.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		opts := seedOptions{}
		opts.FallbackOnly, _ = cmd.Flags().GetBool("fallback-only")
		opts.DryRun, _ = cmd.Flags().GetBool("dry-run")

		mode := "seed"
		if opts.DryRun {
			mode = "dry-run"
		}
		if err := cfg.Validate(mode); err != nil {
			return err
		}

		f := fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
			UserAgent: cfg.Fetch.UserAgent,
			Timeout:   cfg.Fetch.Timeout(),
		})

		return runSeed(ctx, cmd.OutOrStdout(), cfg, opts, source.Remotes(cfg.Sources, f), openStore)
	},
}

func init() {
	seedCmd.Flags().Bool("fallback-only", false, "skip remote sources and load the built-in catalog")
	seedCmd.Flags().Bool("dry-run", false, "acquire and report without writing to the database")
	rootCmd.AddCommand(seedCmd)
}

// storeOpener opens the destination and returns a release func.
type storeOpener func(ctx context.Context, dsn string) (loader.Store, func(), error)

// openStore connects to Postgres, or to SQLite for sqlite: URLs.
func openStore(ctx context.Context, dsn string) (loader.Store, func(), error) {
	if path, ok := loader.SQLiteDSN(dsn); ok {
		store, err := loader.OpenSQLite(path)
		if err != nil {
			return nil, nil, err
		}
		if err := store.CreateTable(ctx); err != nil {
			_ = store.Close()
			return nil, nil, err
		}
		return store, func() { _ = store.Close() }, nil
	}

	pool, err := db.Connect(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	return loader.NewPostgresStore(pool), pool.Close, nil
}

func runSeed(ctx context.Context, out io.Writer, cfg *config.Config, opts seedOptions, strategies []source.Strategy, open storeOpener) error {
	runID := uuid.NewString()
	log := zap.L().With(zap.String("command", "seed"), zap.String("run_id", runID))
	rep := report.New(out)

	log.Info("starting seed",
		zap.Int("sources", len(strategies)),
		zap.Bool("fallback_only", opts.FallbackOnly),
		zap.Bool("dry_run", opts.DryRun),
	)

	rep.Start()
	pipeline := source.NewPipeline(strategies, rep)
	var acquired *source.Result
	if opts.FallbackOnly {
		acquired = pipeline.AcquireFallback()
	} else {
		acquired = pipeline.Acquire(ctx)
	}
	if len(acquired.Records) == 0 {
		return eris.New("seed: no records acquired")
	}
	log.Info("records acquired",
		zap.String("source", acquired.Source),
		zap.Int("records", len(acquired.Records)),
		zap.Bool("fallback", acquired.UsedFallback),
	)

	if opts.DryRun {
		rep.DryRun(acquired.Source, len(acquired.Records))
		return nil
	}

	store, release, err := open(ctx, cfg.Database.DSN())
	if err != nil {
		log.Error("database unreachable", zap.Error(err))
		return &loader.ConnectionError{Err: err}
	}
	defer release()

	rep.Loading(len(acquired.Records))
	res, err := loader.Load(ctx, store, acquired.Records, rep)
	if err != nil {
		return eris.Wrap(err, "seed")
	}

	rep.Summary(res)
	rep.Done()
	log.Info("seed complete",
		zap.Int("inserted", res.Inserted),
		zap.Int("failed", res.Failed),
	)
	return nil
}
