package summary

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"

	"github.com/handiism/flags-downloader/internal/model"
)

var (
	bold   = color.New(color.Bold)
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
)

// Line returns the one-line result, e.g. "20 downloads in 1.52s".
func Line(tally model.Tally, elapsed time.Duration) string {
	return fmt.Sprintf("%d downloads in %.2fs", tally.Count(model.StatusSuccess), elapsed.Seconds())
}

// Render writes a table of per-status counts followed by Line.
func Render(w io.Writer, tally model.Tally, elapsed time.Duration) error {
	table := tablewriter.NewWriter(w)
	table.Header("Status", "Count")

	for _, s := range model.Statuses {
		if err := table.Append(s.String(), strconv.Itoa(tally.Count(s))); err != nil {
			return err
		}
	}
	if err := table.Append("Total", strconv.Itoa(tally.Total())); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	_, err := colorFor(tally).Fprintln(w, Line(tally, elapsed))
	return err
}

// colorFor picks green for a clean batch, yellow when some keys were
// missing or cancelled, red when anything failed.
func colorFor(tally model.Tally) *color.Color {
	switch {
	case tally.Count(model.StatusFailure) > 0:
		return red
	case tally.Count(model.StatusNotFound) > 0, tally.Count(model.StatusCancelled) > 0:
		return yellow
	case tally.Total() == 0:
		return bold
	default:
		return green
	}
}
