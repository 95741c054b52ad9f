package tui

import (
	"sync"

	"github.com/handiism/flags-downloader/internal/supervisor"
)

const maxLogs = 10

// eventLog keeps the most recent events for the view. It is written from
// the supervisor's collector goroutine and read on ticks.
type eventLog struct {
	mu     sync.Mutex
	events []supervisor.ProgressEvent
}

func (l *eventLog) add(e supervisor.ProgressEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = append(l.events, e)
	if len(l.events) > maxLogs {
		l.events = l.events[len(l.events)-maxLogs:]
	}
}

func (l *eventLog) recent() []supervisor.ProgressEvent {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]supervisor.ProgressEvent, len(l.events))
	copy(out, l.events)
	return out
}

func (l *eventLog) reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.events = nil
}
