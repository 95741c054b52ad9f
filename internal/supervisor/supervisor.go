package supervisor

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/handiism/flags-downloader/internal/gate"
	"github.com/handiism/flags-downloader/internal/model"
	"github.com/handiism/flags-downloader/internal/progress"
	"github.com/handiism/flags-downloader/internal/store"
)

const (
	// DefaultConcurrency is used by the command line tools when nothing is configured.
	DefaultConcurrency = 5

	// DefaultMaxConcurrency caps Options.Concurrency when MaxConcurrency is zero.
	DefaultMaxConcurrency = 1000

	// DefaultTimeout is the per-request timeout used when Options.Timeout is zero.
	DefaultTimeout = 6100 * time.Millisecond
)

// ErrInvalidConcurrency is returned when the concurrency limit is out of range.
var ErrInvalidConcurrency = errors.New("supervisor: invalid concurrency")

// Options configures a Supervisor.
type Options struct {
	// Concurrency is the maximum number of requests in flight.
	Concurrency int

	// MaxConcurrency is the ceiling Concurrency is checked against.
	MaxConcurrency int

	// Timeout bounds each individual request.
	Timeout time.Duration

	// BaseURL is the prefix item targets are derived from.
	BaseURL string

	// CountryNames stores each flag under its country name, read from the
	// item's metadata document.
	CountryNames bool

	// Verbose emits one ProgressEvent per outcome instead of Reporter updates.
	Verbose bool

	// Reporter receives (completed, total) updates when not verbose.
	Reporter progress.Reporter

	// OnEvent receives human-readable progress messages.
	OnEvent func(ProgressEvent)

	// Logger receives structured diagnostics.
	Logger *zap.Logger
}

// Supervisor runs batches of fetches.
type Supervisor struct {
	opts    Options
	fetcher Fetcher
	store   store.Store
}

// New creates a Supervisor. It fails when opts.Concurrency is outside
// [1, MaxConcurrency].
func New(fetcher Fetcher, sink store.Store, opts Options) (*Supervisor, error) {
	if opts.MaxConcurrency <= 0 {
		opts.MaxConcurrency = DefaultMaxConcurrency
	}
	if err := validateConcurrency(opts.Concurrency, opts.MaxConcurrency); err != nil {
		return nil, err
	}
	if fetcher == nil || sink == nil {
		return nil, errors.New("supervisor: fetcher and store are required")
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Reporter == nil {
		opts.Reporter = progress.Nop{}
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	return &Supervisor{
		opts:    opts,
		fetcher: fetcher,
		store:   sink,
	}, nil
}

func validateConcurrency(concurrency, max int) error {
	if concurrency < 1 || concurrency > max {
		return errors.WithHintf(
			errors.Wrapf(ErrInvalidConcurrency, "got %d", concurrency),
			"concurrency must lie in [1, %d]", max,
		)
	}
	return nil
}

// Run downloads every distinct key and returns the Tally.
//
// Run blocks until every item has an outcome or ctx is cancelled. The only
// error it returns is a configuration error; per-item failures are counted
// in the Tally.
func (s *Supervisor) Run(ctx context.Context, keys []string) (model.Tally, error) {
	return s.RunItems(ctx, model.BuildWorkItems(keys, s.opts.BaseURL))
}

// RunItems is Run for prepared items. Items sharing a key are dispatched once.
func (s *Supervisor) RunItems(ctx context.Context, items []model.WorkItem) (model.Tally, error) {
	if err := validateConcurrency(s.opts.Concurrency, s.opts.MaxConcurrency); err != nil {
		return model.NewTally(), err
	}
	items = uniqueItems(items)
	if len(items) == 0 {
		return model.NewTally(), nil
	}

	g, err := gate.New(s.opts.Concurrency)
	if err != nil {
		return model.NewTally(), err
	}

	logger := s.opts.Logger.With(zap.String("batch", uuid.NewString()))
	logger.Info("batch started",
		zap.Int("items", len(items)),
		zap.Int("concurrency", g.Capacity()),
		zap.Duration("timeout", s.opts.Timeout),
	)
	start := time.Now()

	w := &worker{
		gate:         g,
		fetcher:      s.fetcher,
		store:        s.store,
		timeout:      s.opts.Timeout,
		countryNames: s.opts.CountryNames,
		logger:       logger,
	}
	c := &collector{
		verbose:  s.opts.Verbose,
		reporter: s.opts.Reporter,
		onEvent:  s.opts.OnEvent,
		logger:   logger,
	}

	// Buffered so workers finishing after a cancellation never block.
	results := make(chan model.Outcome, len(items))
	var workers errgroup.Group
	for _, item := range items {
		workers.Go(func() error {
			results <- w.run(ctx, item)
			return nil
		})
	}

	tally, pending, done := c.collect(ctx, items, results)
	cancelled := len(pending) > 0

	// Workers see the cancelled context too; waiting here guarantees every
	// permit is back, no store call outlives Run, and every outcome is in
	// results before the stragglers are settled.
	_ = workers.Wait()
	c.settle(&tally, pending, results, done, len(items))

	logger.Info("batch finished",
		zap.Stringer("tally", tally),
		zap.Bool("cancelled", cancelled),
		zap.Int("peak_in_flight", g.Peak()),
		zap.Duration("elapsed", time.Since(start)),
	)
	return tally, nil
}

func uniqueItems(items []model.WorkItem) []model.WorkItem {
	seen := make(map[string]struct{}, len(items))
	out := make([]model.WorkItem, 0, len(items))
	for _, item := range items {
		if _, ok := seen[item.Key]; ok {
			continue
		}
		seen[item.Key] = struct{}{}
		out = append(out, item)
	}
	return out
}
