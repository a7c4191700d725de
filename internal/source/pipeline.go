package source

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/locseed/internal/fetcher"
	"github.com/sells-group/locseed/internal/model"
	"github.com/sells-group/locseed/internal/resilience"
)

// Strategy produces records from one provider.
type Strategy interface {
	Name() string
	FetchAndParse(ctx context.Context) ([]model.LocationRecord, error)
}

// Observer receives pipeline progress. Implementations must not block.
type Observer interface {
	SourceStarted(name string)
	SourceFailed(name string, err error)
	SourceEmpty(name string)
	SourceSucceeded(name string, records int)
	FallbackUsed(records int)
}

// NopObserver ignores all events.
type NopObserver struct{}

func (NopObserver) SourceStarted(string)        {}
func (NopObserver) SourceFailed(string, error)  {}
func (NopObserver) SourceEmpty(string)          {}
func (NopObserver) SourceSucceeded(string, int) {}
func (NopObserver) FallbackUsed(int)            {}

// Remote fetches a Descriptor over a Fetcher and parses it.
type Remote struct {
	Descriptor Descriptor
	Fetcher    fetcher.Fetcher
}

// NewRemote creates a Remote strategy.
func NewRemote(d Descriptor, f fetcher.Fetcher) *Remote {
	return &Remote{Descriptor: d, Fetcher: f}
}

// Remotes wraps each descriptor, keeping the given order.
func Remotes(descs []Descriptor, f fetcher.Fetcher) []Strategy {
	out := make([]Strategy, 0, len(descs))
	for _, d := range descs {
		out = append(out, NewRemote(d, f))
	}
	return out
}

// Name returns the descriptor name.
func (r *Remote) Name() string { return r.Descriptor.Name }

// FetchAndParse downloads the document and parses it. Errors are *FetchError
// or *ParseError.
func (r *Remote) FetchAndParse(ctx context.Context) ([]model.LocationRecord, error) {
	body, err := r.Fetcher.Download(ctx, r.Descriptor.URL)
	if err != nil {
		return nil, &FetchError{Source: r.Descriptor.Name, Err: err}
	}
	defer body.Close() //nolint:errcheck

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, &FetchError{Source: r.Descriptor.Name, Err: eris.Wrap(err, "read body")}
	}

	records, err := Parse(data, r.Descriptor.Format, r.Descriptor.Charset)
	if err != nil {
		var pe *ParseError
		if errors.As(err, &pe) {
			pe.Source = r.Descriptor.Name
			return nil, pe
		}
		return nil, &ParseError{Source: r.Descriptor.Name, Format: r.Descriptor.Format, Err: err}
	}
	return records, nil
}

// Attempt is the outcome of trying one strategy.
type Attempt struct {
	Source  string
	Records int
	Err     error
}

// Result is what Acquire settled on.
type Result struct {
	Records      []model.LocationRecord
	Source       string // winning source name, or FallbackSource
	UsedFallback bool
	Attempts     []Attempt
}

// FallbackSource is the Result.Source value when the catalog was used.
const FallbackSource = "fallback catalog"

// Pipeline tries strategies in priority order and falls back to the catalog.
type Pipeline struct {
	strategies []Strategy
	fallback   func() []model.LocationRecord
	observer   Observer
}

// NewPipeline creates a pipeline over strategies. A nil observer is replaced
// by NopObserver.
func NewPipeline(strategies []Strategy, obs Observer) *Pipeline {
	if obs == nil {
		obs = NopObserver{}
	}
	return &Pipeline{
		strategies: strategies,
		fallback:   Fallback,
		observer:   obs,
	}
}

// Acquire returns the records of the first strategy that yields any. It never
// fails: when every strategy errors or comes back empty, or ctx is cancelled,
// the fallback catalog is returned.
func (p *Pipeline) Acquire(ctx context.Context) *Result {
	log := zap.L().With(zap.String("component", "source.pipeline"))
	res := &Result{}

	for i, s := range p.strategies {
		if err := ctx.Err(); err != nil {
			log.Warn("acquisition cancelled, skipping remaining sources", zap.Error(err))
			break
		}

		name := s.Name()
		sLog := log.With(zap.String("source", name), zap.Int("priority", i))
		sLog.Info("trying source")
		p.observer.SourceStarted(name)

		start := time.Now()
		records, err := s.FetchAndParse(ctx)
		elapsed := time.Since(start)

		if err != nil {
			sLog.Warn("source failed",
				zap.Error(err),
				zap.String("class", string(resilience.Classify(err))),
				zap.Duration("elapsed", elapsed),
			)
			res.Attempts = append(res.Attempts, Attempt{Source: name, Err: err})
			p.observer.SourceFailed(name, err)
			continue
		}

		res.Attempts = append(res.Attempts, Attempt{Source: name, Records: len(records)})

		if len(records) == 0 {
			sLog.Warn("source returned no records", zap.Duration("elapsed", elapsed))
			p.observer.SourceEmpty(name)
			continue
		}

		sLog.Info("source succeeded",
			zap.Int("records", len(records)),
			zap.Duration("elapsed", elapsed),
		)
		p.observer.SourceSucceeded(name, len(records))
		res.Records = records
		res.Source = name
		return res
	}

	res.Records = p.fallback()
	res.Source = FallbackSource
	res.UsedFallback = true
	log.Warn("using fallback catalog", zap.Int("records", len(res.Records)))
	p.observer.FallbackUsed(len(res.Records))
	return res
}

// AcquireFallback skips all strategies. It is used by --fallback-only runs.
func (p *Pipeline) AcquireFallback() *Result {
	records := p.fallback()
	p.observer.FallbackUsed(len(records))
	return &Result{
		Records:      records,
		Source:       FallbackSource,
		UsedFallback: true,
	}
}
