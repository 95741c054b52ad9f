package progress

import (
	"io"
	"sync/atomic"
	"time"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress updates.
type Reporter interface {
	Report(completed, total int)
}

// Nop is a Reporter that discards every update.
type Nop struct{}

// Report does nothing.
func (Nop) Report(int, int) {}

// Func adapts a function to the Reporter interface.
type Func func(completed, total int)

// Report calls f.
func (f Func) Report(completed, total int) {
	f(completed, total)
}

// Bar renders progress as a terminal bar.
//
// Example:
//
//	bar := progress.NewBar(os.Stderr, "Downloading")
//	defer bar.Finish()
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar creates a Bar writing to w. The total is taken from the first Report.
func NewBar(w io.Writer, description string) *Bar {
	return &Bar{
		bar: progressbar.NewOptions(-1,
			progressbar.OptionSetWriter(w),
			progressbar.OptionSetDescription(description),
			progressbar.OptionSetWidth(40),
			progressbar.OptionShowCount(),
			progressbar.OptionShowIts(),
			progressbar.OptionSetItsString("flags"),
			progressbar.OptionThrottle(65*time.Millisecond),
			progressbar.OptionSetPredictTime(true),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionSetTheme(progressbar.Theme{
				Saucer:        "=",
				SaucerHead:    ">",
				SaucerPadding: " ",
				BarStart:      "[",
				BarEnd:        "]",
			}),
		),
	}
}

// Report moves the bar to completed out of total.
func (b *Bar) Report(completed, total int) {
	if int64(total) != b.bar.GetMax64() {
		b.bar.ChangeMax(total)
	}
	_ = b.bar.Set(completed)
}

// Finish completes and clears the bar.
func (b *Bar) Finish() error {
	return b.bar.Finish()
}

// Counter keeps the most recent update for readers on other goroutines.
type Counter struct {
	completed atomic.Int64
	total     atomic.Int64
}

// Report stores the update.
func (c *Counter) Report(completed, total int) {
	c.total.Store(int64(total))
	c.completed.Store(int64(completed))
}

// Snapshot returns the last reported values.
func (c *Counter) Snapshot() (completed, total int) {
	return int(c.completed.Load()), int(c.total.Load())
}

// Fraction returns completed/total, or zero before the first update.
func (c *Counter) Fraction() float64 {
	completed, total := c.Snapshot()
	if total <= 0 {
		return 0
	}
	return float64(completed) / float64(total)
}

// Reset clears the counter.
func (c *Counter) Reset() {
	c.completed.Store(0)
	c.total.Store(0)
}
