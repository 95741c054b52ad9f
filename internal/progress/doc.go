// Package progress provides sinks for (completed, total) progress updates.
//
// A Reporter receives one Report call per finished item. Implementations
// must return quickly: the collector calls them from its only goroutine.
//
//   - Nop discards updates
//   - Func adapts a plain function
//   - Bar renders a terminal progress bar
//   - Counter stores the latest values for polling (used by the TUI)
package progress
