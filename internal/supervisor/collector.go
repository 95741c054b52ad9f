package supervisor

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/handiism/flags-downloader/internal/model"
	"github.com/handiism/flags-downloader/internal/progress"
)

// collector drains worker outcomes in completion order and owns the Tally.
// It runs on a single goroutine, so the Tally needs no locking.
type collector struct {
	verbose  bool
	reporter progress.Reporter
	onEvent  func(ProgressEvent)
	logger   *zap.Logger
}

// collect receives one outcome per item from results until every item is
// accounted for or ctx is cancelled. On cancellation it returns the keys
// still pending; the caller settles them with settle once every worker
// has returned.
func (c *collector) collect(ctx context.Context, items []model.WorkItem, results <-chan model.Outcome) (tally model.Tally, pending map[string]struct{}, done int) {
	tally = model.NewTally()
	total := len(items)

	pending = make(map[string]struct{}, total)
	for _, item := range items {
		pending[item.Key] = struct{}{}
	}

	for len(pending) > 0 {
		if ctx.Err() != nil {
			return tally, pending, done
		}

		select {
		case <-ctx.Done():
			return tally, pending, done

		case out := <-results:
			if c.take(&tally, pending, out) {
				done++
				c.observe(out, done, total)
			}
		}
	}

	return tally, pending, done
}

// settle drains the outcomes that arrived after collect stopped. It must
// only be called once every worker has sent its outcome, so nothing that
// completed is lost: a flag stored during the cancellation still counts as
// a Success. Keys without an outcome are counted as Cancelled.
func (c *collector) settle(tally *model.Tally, pending map[string]struct{}, results <-chan model.Outcome, done, total int) {
	if len(pending) == 0 {
		return
	}
	c.logger.Info("batch cancelled", zap.Int("outstanding", len(pending)))

	cancelled := 0
drain:
	for len(pending) > 0 {
		select {
		case out := <-results:
			if !c.take(tally, pending, out) {
				continue
			}
			done++
			if out.Status == model.StatusCancelled {
				cancelled++
			} else {
				c.logger.Debug("outcome completed during cancellation", zap.String("key", out.Key), zap.Stringer("status", out.Status))
			}
			c.observe(out, done, total)
		default:
			break drain
		}
	}

	cancelled += c.abandon(tally, pending)
	if cancelled > 0 {
		c.emit(ProgressEvent{Message: fmt.Sprintf("Cancelled with %d item(s) outstanding", cancelled), Level: LevelWarning})
	}
}

// take counts out if its key is still pending.
func (c *collector) take(tally *model.Tally, pending map[string]struct{}, out model.Outcome) bool {
	if _, ok := pending[out.Key]; !ok {
		c.logger.Warn("dropping unexpected outcome", zap.String("key", out.Key), zap.Stringer("status", out.Status))
		return false
	}
	delete(pending, out.Key)
	tally.Add(out.Status)
	return true
}

func (c *collector) observe(out model.Outcome, done, total int) {
	fields := []zap.Field{
		zap.String("key", out.Key),
		zap.Stringer("status", out.Status),
		zap.Int("completed", done),
		zap.Int("total", total),
	}
	if out.Status == model.StatusFailure {
		fields = append(fields, zap.Stringer("kind", out.Kind), zap.String("error", out.Message))
	}
	c.logger.Debug("outcome", fields...)

	if c.verbose {
		c.emit(ProgressEvent{Message: out.Line(), Level: levelFor(out.Status)})
		return
	}
	c.reporter.Report(done, total)
}

// abandon counts every key without an outcome as Cancelled.
func (c *collector) abandon(tally *model.Tally, pending map[string]struct{}) int {
	n := len(pending)
	for key := range pending {
		tally.Add(model.StatusCancelled)
		if c.verbose {
			c.emit(ProgressEvent{Message: model.Abandoned(key).Line(), Level: LevelVerbose})
		}
		delete(pending, key)
	}
	return n
}

func (c *collector) emit(event ProgressEvent) {
	if c.onEvent != nil {
		c.onEvent(event)
	}
}
