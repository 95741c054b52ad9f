package app

import (
	"context"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/handiism/flags-downloader/internal/config"
	"github.com/handiism/flags-downloader/internal/fetch"
	"github.com/handiism/flags-downloader/internal/model"
	"github.com/handiism/flags-downloader/internal/progress"
	"github.com/handiism/flags-downloader/internal/store"
	"github.com/handiism/flags-downloader/internal/supervisor"
)

// Hooks carries the presentation side of a run.
type Hooks struct {
	Verbose  bool
	Reporter progress.Reporter
	OnEvent  func(supervisor.ProgressEvent)
	Logger   *zap.Logger
}

// Result describes a finished batch.
type Result struct {
	Tally     model.Tally
	Items     int
	Elapsed   time.Duration
	Cancelled bool
}

// Keys returns the normalised key list for args, falling back to POP20.
func Keys(args []string) []string {
	items := model.BuildWorkItems(args, "")
	if len(items) == 0 {
		items = model.BuildWorkItems(model.POP20, "")
	}
	keys := make([]string, len(items))
	for i, item := range items {
		keys[i] = item.Key
	}
	return keys
}

// Run downloads keys using settings. The returned error is non-nil only
// for configuration or setup problems; per-item failures are in the Tally.
func Run(ctx context.Context, settings *config.Settings, keys []string, hooks Hooks) (Result, error) {
	if err := settings.Validate(); err != nil {
		return Result{}, err
	}
	logger := hooks.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	items := model.BuildWorkItems(keys, settings.BaseURL)

	sink, err := store.Open(ctx, settings.ToStoreOptions())
	if err != nil {
		return Result{}, errors.Wrap(err, "open destination")
	}
	defer func() {
		if cerr := sink.Close(); cerr != nil {
			logger.Warn("closing destination", zap.Error(cerr))
		}
	}()

	fetcher := fetch.NewClient(settings.ToFetchOptions())

	opts := settings.ToSupervisorOptions(len(items))
	opts.Verbose = hooks.Verbose
	opts.Reporter = hooks.Reporter
	opts.OnEvent = hooks.OnEvent
	opts.Logger = logger

	sup, err := supervisor.New(fetcher, sink, opts)
	if err != nil {
		return Result{}, err
	}

	start := time.Now()
	tally, err := sup.RunItems(ctx, items)
	if err != nil {
		return Result{}, err
	}

	return Result{
		Tally:     tally,
		Items:     len(items),
		Elapsed:   time.Since(start),
		Cancelled: ctx.Err() != nil && tally.Count(model.StatusCancelled) > 0,
	}, nil
}
