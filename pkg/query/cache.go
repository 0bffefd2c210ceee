// Package query caches remote results by key. Concurrent requests for the
// same key share one fetch, stale values are served while a background
// refetch runs, and paged results accumulate under a single key.
package query

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// Event reports a state change for a key. Views re-render on receipt.
type Event struct {
	Key    Key
	Status Status
}

type entry struct {
	value     any
	err       error
	updatedAt time.Time
	usedAt    time.Time
	fetching  bool
}

// Cache holds results keyed by Key. It is safe for concurrent use.
type Cache struct {
	mu       sync.Mutex
	entries  map[Key]*entry
	infinite map[Key]any
	group    singleflight.Group

	policies map[Kind]Policy
	gcTime   time.Duration
	prunedAt time.Time
	now      func() time.Time
	sleep    func(context.Context, time.Duration) error
	logger   log.Interface

	events chan Event
	bg     sync.WaitGroup
}

// Option configures a Cache.
type Option func(*Cache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *Cache) { c.now = now }
}

// WithSleep replaces the backoff sleep between retries.
func WithSleep(sleep func(context.Context, time.Duration) error) Option {
	return func(c *Cache) { c.sleep = sleep }
}

// WithPolicies overrides entries of the policy table.
func WithPolicies(p map[Kind]Policy) Option {
	return func(c *Cache) {
		for k, v := range p {
			c.policies[k] = v
		}
	}
}

// WithGCTime drops entries nobody has read for d. Without it entries live as
// long as the cache, which suits the short-lived CLI and the terminal UI.
func WithGCTime(d time.Duration) Option {
	return func(c *Cache) { c.gcTime = d }
}

// WithLogger sets the logger.
func WithLogger(l log.Interface) Option {
	return func(c *Cache) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates an empty cache.
func New(opts ...Option) *Cache {
	c := &Cache{
		entries:  make(map[Key]*entry),
		infinite: make(map[Key]any),
		policies: make(map[Kind]Policy, len(Policies)),
		now:      time.Now,
		sleep:    sleepContext,
		logger:   log.Log,
		events:   make(chan Event, 64),
	}
	for k, v := range Policies {
		c.policies[k] = v
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Policy returns the policy for kind.
func (c *Cache) Policy(kind Kind) Policy {
	if p, ok := c.policies[kind]; ok {
		return p
	}
	return Policy{Retries: DefaultRetries}
}

// Events delivers state changes. Sends never block; slow readers miss events.
func (c *Cache) Events() <-chan Event { return c.events }

// Wait blocks until background refetches have finished.
func (c *Cache) Wait() { c.bg.Wait() }

// Invalidate drops the cached value and any paged accumulation for key.
func (c *Cache) Invalidate(key Key) {
	c.mu.Lock()
	delete(c.entries, key)
	inf := c.infinite[key]
	c.mu.Unlock()

	if r, ok := inf.(interface{ reset() }); ok {
		r.reset()
	}
	c.emit(Event{Key: key, Status: StatusIdle})
}

func (c *Cache) emit(ev Event) {
	select {
	case c.events <- ev:
	default:
	}
}

// pruneLocked drops entries nobody has read within the GC window. It scans
// at most once per window.
func (c *Cache) pruneLocked() {
	if c.gcTime <= 0 {
		return
	}
	now := c.now()
	if now.Sub(c.prunedAt) < c.gcTime {
		return
	}
	c.prunedAt = now
	for k, e := range c.entries {
		if !e.fetching && now.Sub(e.usedAt) > c.gcTime {
			delete(c.entries, k)
		}
	}
}

func (c *Cache) isStale(kind Kind, updatedAt time.Time) bool {
	return c.now().Sub(updatedAt) > c.Policy(kind).StaleTime
}

// Get returns the value for key, fetching it when nothing usable is cached.
// A stale value is returned as is and refreshed in the background.
func Get[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	return get(ctx, c, key, fetch, c.Policy(key.Kind).Retries)
}

// GetOnce is Get with a single attempt. Fetches made from inside another
// query's fetch use it, so the outer query's retries are the only ones.
func GetOnce[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error)) (T, error) {
	return get(ctx, c, key, fetch, 0)
}

func get[T any](ctx context.Context, c *Cache, key Key, fetch func(context.Context) (T, error), retries int) (T, error) {
	var zero T
	fn := func(ctx context.Context) (any, error) { return fetch(ctx) }

	c.mu.Lock()
	c.pruneLocked()
	e := c.entries[key]
	if e != nil && e.value != nil {
		e.usedAt = c.now()
		v, ok := e.value.(T)
		stale := c.isStale(key.Kind, e.updatedAt)
		c.mu.Unlock()
		if !ok {
			return zero, fmt.Errorf("query: %s holds %T", key, e.value)
		}
		if stale {
			c.revalidate(ctx, key, fn)
		}
		return v, nil
	}
	c.mu.Unlock()

	v, err := c.load(ctx, key, fn, retries)
	if err != nil {
		return zero, err
	}
	out, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("query: %s holds %T", key, v)
	}
	return out, nil
}

// Peek reports the state of key without fetching.
func Peek[T any](c *Cache, key Key) State[T] {
	c.mu.Lock()
	defer c.mu.Unlock()

	e := c.entries[key]
	if e != nil {
		e.usedAt = c.now()
	}
	switch {
	case e == nil:
		return Idle[T]()
	case e.value != nil:
		v, ok := e.value.(T)
		if !ok {
			return Failed[T](fmt.Errorf("query: %s holds %T", key, e.value))
		}
		return Ready(v, c.isStale(key.Kind, e.updatedAt))
	case e.fetching:
		return Loading[T]()
	case e.err != nil:
		return Failed[T](e.err)
	default:
		return Idle[T]()
	}
}

// load runs fn once per key no matter how many callers arrive while it is in
// flight.
func (c *Cache) load(ctx context.Context, key Key, fn func(context.Context) (any, error), retries int) (any, error) {
	v, err, _ := c.group.Do(key.String(), func() (any, error) {
		c.mu.Lock()
		e := c.entries[key]
		if e == nil {
			e = &entry{}
			c.entries[key] = e
		}
		e.fetching = true
		e.usedAt = c.now()
		c.mu.Unlock()
		c.emit(Event{Key: key, Status: StatusLoading})

		v, err := c.retry(ctx, key, fn, retries)

		c.mu.Lock()
		e = c.entries[key]
		if e == nil {
			// Invalidated while in flight.
			e = &entry{}
			c.entries[key] = e
		}
		e.fetching = false
		if err != nil {
			// A refresh failure keeps whatever value is already cached.
			if e.value == nil {
				e.err = err
			}
		} else {
			e.value, e.err, e.updatedAt = v, nil, c.now()
		}
		hasValue := e.value != nil
		c.mu.Unlock()

		if err != nil {
			c.logger.WithError(err).WithField("key", key.String()).Warn("query failed")
			if !hasValue {
				c.emit(Event{Key: key, Status: StatusError})
				return nil, err
			}
		}
		c.emit(Event{Key: key, Status: StatusReady})
		return v, err
	})
	return v, err
}

func (c *Cache) revalidate(ctx context.Context, key Key, fn func(context.Context) (any, error)) {
	ctx = context.WithoutCancel(ctx)
	c.bg.Add(1)
	go func() {
		defer c.bg.Done()
		_, _ = c.load(ctx, key, fn, c.Policy(key.Kind).Retries)
	}()
}

// retry calls fn up to 1+retries times, backing off between attempts.
func (c *Cache) retry(ctx context.Context, key Key, fn func(context.Context) (any, error), retries int) (any, error) {
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= retries || ctx.Err() != nil {
			return nil, err
		}
		c.logger.WithError(err).WithFields(log.Fields{
			"key":     key.String(),
			"attempt": attempt + 1,
		}).Debug("query retry")
		if serr := c.sleep(ctx, RetryDelay(attempt)); serr != nil {
			return nil, err
		}
	}
}
