// Package tui provides a Bubble Tea terminal user interface for flags-downloader.
//
// The user types country codes (or nothing, for the 20 most populous
// countries), toggles options, and watches the batch run. Progress is
// polled from a progress.Counter on a timer; per-flag lines are buffered
// by an eventLog and picked up on the same tick.
package tui
