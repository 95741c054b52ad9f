// Package supervisor runs a batch of fetches with bounded concurrency.
//
// # Supervisor
//
// The Supervisor coordinates a whole batch:
//
//  1. Normalize and deduplicate the keys
//  2. Start one worker per item, each gated by a shared admission gate
//  3. Collect outcomes in the order they complete
//  4. Count them into a Tally and return it
//
// # Basic Usage
//
//	sup, err := supervisor.New(fetchClient, sink, supervisor.Options{
//	    Concurrency: 5,
//	    BaseURL:     "https://www.fluentpython.com/data/flags",
//	    Reporter:    progress.NewBar(os.Stderr, "Downloading"),
//	})
//	if err != nil {
//	    log.Fatal(err) // invalid concurrency
//	}
//
//	tally, err := sup.Run(ctx, []string{"BR", "CN", "US"})
//
// # Concurrency
//
// At most Options.Concurrency fetches are in flight at any moment. The limit
// must lie in [1, Options.MaxConcurrency]; anything else is rejected before
// a single request is made.
//
// # Outcomes
//
// Every item ends as exactly one of Success, NotFound, Failure or Cancelled.
// Per-item errors never surface as a Run error; they are folded into the
// Tally. A store failure turns a fetched item into a Failure.
//
// # Cancellation
//
// When ctx is cancelled, Run stops waiting for new outcomes and lets the
// in-flight workers return. Outcomes they already produced keep their
// status, so every stored flag is a Success; the remaining items are
// counted as Cancelled.
//
// # Progress Tracking
//
// In verbose mode one ProgressEvent is emitted per outcome:
//
//	type ProgressEvent struct {
//	    Message string
//	    Level   ProgressLevel // Info, Verbose, Warning, Error, Success
//	}
//
// Otherwise (completed, total) is forwarded to the configured Reporter.
package supervisor
