// Package app wires settings into a running batch: it opens the store,
// builds the HTTP client and supervisor, and times the run. Both command
// line front ends go through Run.
package app
