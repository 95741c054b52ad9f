package supervisor

import (
	"context"
	"fmt"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"github.com/handiism/flags-downloader/internal/fetch"
	"github.com/handiism/flags-downloader/internal/gate"
	"github.com/handiism/flags-downloader/internal/model"
	"github.com/handiism/flags-downloader/internal/store"
)

// Fetcher retrieves the body at url within timeout.
//
// Failures should be *fetch.Error values; anything else is treated as a
// transport failure.
type Fetcher interface {
	Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error)
}

// metadata is the JSON document stored next to each flag.
type metadata struct {
	Country string `json:"country"`
}

// worker turns one WorkItem into one Outcome.
type worker struct {
	gate         *gate.Gate
	fetcher      Fetcher
	store        store.Store
	timeout      time.Duration
	countryNames bool
	logger       *zap.Logger
}

// run fetches and stores item. It never panics and always returns exactly
// one Outcome.
func (w *worker) run(ctx context.Context, item model.WorkItem) (out model.Outcome) {
	defer func() {
		if r := recover(); r != nil {
			w.logger.Error("worker panic", zap.String("key", item.Key), zap.Any("panic", r))
			out = model.Failed(item.Key, model.KindInternal, fmt.Sprintf("panic: %v", r))
		}
	}()

	if ctx.Err() != nil {
		return model.Abandoned(item.Key)
	}

	payload, err := w.fetch(ctx, item.Target)
	if err != nil {
		return w.classify(ctx, item, item.Target, err)
	}

	name := item.FileName()
	if w.countryNames {
		body, err := w.fetch(ctx, item.MetadataTarget)
		if err != nil {
			return w.classify(ctx, item, item.MetadataTarget, err)
		}
		var meta metadata
		if err := fetch.DecodeJSON(item.MetadataTarget, body, &meta); err != nil {
			return w.classify(ctx, item, item.MetadataTarget, err)
		}
		if meta.Country == "" {
			return model.Failed(item.Key, model.KindInternal, "metadata has no country")
		}
		name = store.CountryFileName(meta.Country, ".gif")
	}

	if err := w.store.Store(ctx, name, payload); err != nil {
		if ctx.Err() != nil {
			return model.Abandoned(item.Key)
		}
		return model.Failed(item.Key, model.KindStorage, err.Error())
	}

	out = model.Succeeded(item.Key, payload)
	out.Name = name
	return out
}

// fetch performs one gated request. The permit is held only for the
// duration of the network call.
func (w *worker) fetch(ctx context.Context, url string) ([]byte, error) {
	var body []byte
	err := w.gate.Do(ctx, func() error {
		var err error
		body, err = w.fetcher.Fetch(ctx, url, w.timeout)
		return err
	})
	return body, err
}

func (w *worker) classify(ctx context.Context, item model.WorkItem, url string, err error) model.Outcome {
	switch fetch.KindOf(err) {
	case fetch.KindNotFound:
		out := model.Missing(item.Key)
		out.URL = url
		return out
	case fetch.KindCancelled:
		return model.Abandoned(item.Key)
	case fetch.KindTimeout:
		return model.Failed(item.Key, model.KindTimeout, err.Error())
	case fetch.KindDecode:
		return model.Failed(item.Key, model.KindInternal, err.Error())
	}

	switch {
	case errors.Is(err, gate.ErrReleaseWithoutAcquire):
		return model.Failed(item.Key, model.KindInternal, err.Error())
	case ctx.Err() != nil:
		return model.Abandoned(item.Key)
	default:
		return model.Failed(item.Key, model.KindTransport, err.Error())
	}
}
