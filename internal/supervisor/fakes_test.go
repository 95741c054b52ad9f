package supervisor

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/cockroachdb/errors"

	"github.com/handiism/flags-downloader/internal/fetch"
)

const testBaseURL = "https://flags.test/data"

// fakeFetcher serves canned responses keyed by URL and records how many
// calls overlap.
type fakeFetcher struct {
	delay  time.Duration
	errs   map[string]error
	bodies map[string][]byte
	panics map[string]bool

	calls       atomic.Int32
	inFlight    atomic.Int32
	maxInFlight atomic.Int32
}

func newFakeFetcher() *fakeFetcher {
	return &fakeFetcher{
		errs:   make(map[string]error),
		bodies: make(map[string][]byte),
		panics: make(map[string]bool),
	}
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string, timeout time.Duration) ([]byte, error) {
	f.calls.Add(1)
	n := f.inFlight.Add(1)
	defer f.inFlight.Add(-1)
	for {
		m := f.maxInFlight.Load()
		if n <= m || f.maxInFlight.CompareAndSwap(m, n) {
			break
		}
	}

	if f.delay > 0 {
		select {
		case <-time.After(f.delay):
		case <-ctx.Done():
			return nil, &fetch.Error{Kind: fetch.KindCancelled, URL: url, Err: ctx.Err()}
		}
	}

	if f.panics[url] {
		panic("fetcher exploded")
	}
	if err, ok := f.errs[url]; ok {
		return nil, err
	}
	if body, ok := f.bodies[url]; ok {
		return body, nil
	}
	return []byte("GIF89a " + url), nil
}

func (f *fakeFetcher) notFound(key string) {
	f.errs[flagURL(key)] = notFoundErr(flagURL(key))
}

func notFoundErr(url string) error {
	return &fetch.Error{Kind: fetch.KindNotFound, URL: url, StatusCode: 404, Status: "Not Found"}
}

func (f *fakeFetcher) timeout(key string) {
	url := flagURL(key)
	f.errs[url] = &fetch.Error{Kind: fetch.KindTimeout, URL: url, Err: context.DeadlineExceeded}
}

func (f *fakeFetcher) serverError(key string) {
	url := flagURL(key)
	f.errs[url] = &fetch.Error{Kind: fetch.KindTransport, URL: url, StatusCode: 503, Status: "Service Unavailable"}
}

func flagURL(key string) string {
	k := strings.ToLower(key)
	return testBaseURL + "/" + k + "/" + k + ".gif"
}

func metaURL(key string) string {
	return testBaseURL + "/" + strings.ToLower(key) + "/metadata.json"
}

// memStore keeps payloads in memory and can be told to fail for names.
type memStore struct {
	mu     sync.Mutex
	data   map[string][]byte
	calls  int
	failOn map[string]bool
}

func newMemStore() *memStore {
	return &memStore{
		data:   make(map[string][]byte),
		failOn: make(map[string]bool),
	}
}

func (m *memStore) Store(ctx context.Context, name string, data []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.failOn[name] {
		return errors.New("disk full")
	}
	m.data[name] = data
	return nil
}

func (m *memStore) Close() error { return nil }

func (m *memStore) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls
}

func (m *memStore) has(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.data[name]
	return ok
}
