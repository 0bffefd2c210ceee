package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
)

// PageFunc fetches one page, numbered from 1.
type PageFunc[P any] func(ctx context.Context, page int) (P, error)

// Infinite accumulates pages for one key in fetch order. At most one page
// fetch runs at a time.
type Infinite[P any] struct {
	c          *Cache
	key        Key
	totalPages func(P) int

	mu        sync.Mutex
	fetch     PageFunc[P]
	pages     []P
	total     int
	fetching  bool
	err       error
	fetchedAt time.Time
	fetches   int
}

// InfiniteSnapshot is a copy of the accumulation taken under lock.
type InfiniteSnapshot[P any] struct {
	Pages    []P
	HasNext  bool
	Fetching bool
	Err      error
	Stale    bool
}

// InfiniteFor returns the accumulation registered for key, creating it on
// first use. Later calls replace the fetch function but keep loaded pages.
func InfiniteFor[P any](c *Cache, key Key, totalPages func(P) int, fetch PageFunc[P]) (*Infinite[P], error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if existing, ok := c.infinite[key]; ok {
		inf, ok := existing.(*Infinite[P])
		if !ok {
			return nil, fmt.Errorf("query: %s is registered as %T", key, existing)
		}
		inf.mu.Lock()
		inf.fetch = fetch
		inf.mu.Unlock()
		return inf, nil
	}
	inf := &Infinite[P]{c: c, key: key, totalPages: totalPages, fetch: fetch, total: -1}
	c.infinite[key] = inf
	return inf, nil
}

func (i *Infinite[P]) Key() Key { return i.key }

func (i *Infinite[P]) hasNextLocked() bool {
	if len(i.pages) == 0 {
		return true
	}
	return len(i.pages)+1 <= i.total
}

// HasNext reports whether another page exists. It is true before the first
// page has been loaded.
func (i *Infinite[P]) HasNext() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.hasNextLocked()
}

func (i *Infinite[P]) Fetching() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.fetching
}

func (i *Infinite[P]) Err() error {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.err
}

// Pages returns a copy of the loaded pages.
func (i *Infinite[P]) Pages() []P {
	i.mu.Lock()
	defer i.mu.Unlock()
	return append([]P(nil), i.pages...)
}

// Fetches counts completed page fetches, successful or not.
func (i *Infinite[P]) Fetches() int {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.fetches
}

func (i *Infinite[P]) Snapshot() InfiniteSnapshot[P] {
	i.mu.Lock()
	defer i.mu.Unlock()
	return InfiniteSnapshot[P]{
		Pages:    append([]P(nil), i.pages...),
		HasNext:  i.hasNextLocked(),
		Fetching: i.fetching,
		Err:      i.err,
		Stale:    i.staleLocked(),
	}
}

// FetchNext loads the next page. It returns false without fetching when a
// fetch is already in flight or no further page exists.
func (i *Infinite[P]) FetchNext(ctx context.Context) (bool, error) {
	i.mu.Lock()
	if i.fetching || !i.hasNextLocked() {
		i.mu.Unlock()
		return false, nil
	}
	i.fetching = true
	next := len(i.pages) + 1
	fetch := i.fetch
	i.mu.Unlock()
	i.c.emit(Event{Key: i.key, Status: StatusLoading})

	v, err := i.c.retry(ctx, i.key, func(ctx context.Context) (any, error) {
		return fetch(ctx, next)
	}, i.c.Policy(i.key.Kind).Retries)

	i.mu.Lock()
	i.fetching = false
	i.fetches++
	if err != nil {
		i.err = err
	} else if len(i.pages)+1 == next {
		// The guard above is false when a reset landed mid-fetch.
		p := v.(P)
		i.pages = append(i.pages, p)
		i.total = i.totalPages(p)
		i.err = nil
		if next == 1 {
			i.fetchedAt = i.c.now()
		}
	}
	i.mu.Unlock()

	if err != nil {
		i.c.logger.WithError(err).WithFields(log.Fields{
			"key":  i.key.String(),
			"page": next,
		}).Warn("page fetch failed")
		i.c.emit(Event{Key: i.key, Status: StatusError})
		return true, err
	}
	i.c.emit(Event{Key: i.key, Status: StatusReady})
	return true, nil
}

// Refetch clears a failure and tries again: from page 1 when nothing is
// loaded, otherwise the page that failed.
func (i *Infinite[P]) Refetch(ctx context.Context) (bool, error) {
	i.mu.Lock()
	i.err = nil
	i.mu.Unlock()
	return i.FetchNext(ctx)
}

func (i *Infinite[P]) staleLocked() bool {
	if len(i.pages) == 0 {
		return false
	}
	return i.c.now().Sub(i.fetchedAt) > i.c.Policy(i.key.Kind).StaleTime
}

// Stale reports whether the first page is older than the freshness window.
func (i *Infinite[P]) Stale() bool {
	i.mu.Lock()
	defer i.mu.Unlock()
	return i.staleLocked()
}

// Revalidate refetches every loaded page in order and swaps them in only when
// all succeed. Loaded pages stay visible meanwhile.
func (i *Infinite[P]) Revalidate(ctx context.Context) error {
	i.mu.Lock()
	if i.fetching || len(i.pages) == 0 {
		i.mu.Unlock()
		return nil
	}
	i.fetching = true
	n := len(i.pages)
	fetch := i.fetch
	i.mu.Unlock()

	fresh := make([]P, 0, n)
	var err error
	for page := 1; page <= n; page++ {
		var v any
		v, err = i.c.retry(ctx, i.key, func(ctx context.Context) (any, error) {
			return fetch(ctx, page)
		}, i.c.Policy(i.key.Kind).Retries)
		if err != nil {
			break
		}
		fresh = append(fresh, v.(P))
	}

	i.mu.Lock()
	i.fetching = false
	if err == nil && len(i.pages) == n {
		i.pages = fresh
		i.total = i.totalPages(fresh[n-1])
		i.fetchedAt = i.c.now()
	}
	i.mu.Unlock()

	if err != nil {
		i.c.logger.WithError(err).WithField("key", i.key.String()).Warn("revalidate failed")
		return err
	}
	i.c.emit(Event{Key: i.key, Status: StatusReady})
	return nil
}

func (i *Infinite[P]) reset() {
	i.mu.Lock()
	defer i.mu.Unlock()
	i.pages = nil
	i.total = -1
	i.err = nil
	i.fetchedAt = time.Time{}
}
