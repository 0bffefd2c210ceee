package query

import (
	"context"
	"time"
)

// Kind names an operation whose results the cache holds.
type Kind string

const (
	KindList     Kind = "pokemon/list"
	KindDetail   Kind = "pokemon/detail"
	KindSearch   Kind = "pokemon/search"
	KindType     Kind = "pokemon/type"
	KindTypeList Kind = "pokemon/type-list"
	KindMove     Kind = "move/detail"
)

// Key identifies one cached result: the operation plus its parameters.
type Key struct {
	Kind   Kind
	Params string
}

// KeyOf builds a key for kind with the given parameter.
func KeyOf(kind Kind, params string) Key {
	return Key{Kind: kind, Params: params}
}

func (k Key) String() string {
	if k.Params == "" {
		return string(k.Kind)
	}
	return string(k.Kind) + "/" + k.Params
}

// Policy is the freshness window and retry count applied to a kind.
type Policy struct {
	StaleTime time.Duration
	Retries   int
}

// DefaultRetries applies to kinds without an explicit retry count.
const DefaultRetries = 3

// DefaultGCTime is the idle window long-running servers pass to WithGCTime.
const DefaultGCTime = 5 * time.Minute

// MaxRetryDelay caps the exponential backoff between attempts.
const MaxRetryDelay = 30 * time.Second

// Policies is the per-kind policy table.
var Policies = map[Kind]Policy{
	KindList:     {StaleTime: 5 * time.Minute, Retries: 2},
	KindDetail:   {StaleTime: 10 * time.Minute, Retries: 2},
	KindSearch:   {StaleTime: 0, Retries: 1},
	KindType:     {StaleTime: 15 * time.Minute, Retries: DefaultRetries},
	KindTypeList: {StaleTime: 10 * time.Minute, Retries: 2},
	KindMove:     {StaleTime: 30 * time.Minute, Retries: 1},
}

// RetryDelay is min(1s * 2^attempt, 30s).
func RetryDelay(attempt int) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt >= 5 {
		return MaxRetryDelay
	}
	return min(time.Second<<attempt, MaxRetryDelay)
}

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
