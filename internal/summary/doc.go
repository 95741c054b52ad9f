// Package summary renders the end-of-batch report.
package summary
