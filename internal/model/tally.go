package model

import (
	"fmt"
	"strings"
)

// Tally counts outcomes by Status.
//
// A Tally is not safe for concurrent mutation. The collector that builds it
// is its only writer.
type Tally struct {
	counts map[Status]int
}

// NewTally returns an empty Tally.
func NewTally() Tally {
	return Tally{counts: make(map[Status]int, len(Statuses))}
}

// Add records one outcome of status s.
func (t *Tally) Add(s Status) {
	if t.counts == nil {
		t.counts = make(map[Status]int, len(Statuses))
	}
	t.counts[s]++
}

// Count returns how many outcomes of status s were recorded.
func (t Tally) Count(s Status) int {
	return t.counts[s]
}

// Total returns the number of recorded outcomes.
func (t Tally) Total() int {
	n := 0
	for _, c := range t.counts {
		n += c
	}
	return n
}

// Counts returns a copy of the non-zero counts.
func (t Tally) Counts() map[Status]int {
	out := make(map[Status]int, len(t.counts))
	for s, c := range t.counts {
		if c > 0 {
			out[s] = c
		}
	}
	return out
}

// Equal reports whether both tallies hold the same non-zero counts.
func (t Tally) Equal(other Tally) bool {
	for _, s := range Statuses {
		if t.Count(s) != other.Count(s) {
			return false
		}
	}
	return true
}

func (t Tally) String() string {
	parts := make([]string, 0, len(Statuses))
	for _, s := range Statuses {
		if c := t.Count(s); c > 0 {
			parts = append(parts, fmt.Sprintf("%s:%d", s, c))
		}
	}
	return "{" + strings.Join(parts, ", ") + "}"
}
