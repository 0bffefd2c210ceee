package query

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

type page struct {
	n     int
	total int
}

func pageTotal(p page) int { return p.total }

func TestInfiniteStopsAtLastPage(t *testing.T) {
	c := newTestCache(&fakeClock{now: time.Unix(0, 0)})
	var requested []int
	inf, err := InfiniteFor(c, KeyOf(KindList, "infinite"), pageTotal, func(ctx context.Context, n int) (page, error) {
		requested = append(requested, n)
		return page{n: n, total: 66}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	for inf.HasNext() {
		if _, err := inf.FetchNext(ctx); err != nil {
			t.Fatal(err)
		}
	}
	if got := len(inf.Pages()); got != 66 {
		t.Fatalf("expected 66 pages, got %d", got)
	}
	fetched, err := inf.FetchNext(ctx)
	if fetched || err != nil {
		t.Fatalf("page 67 must not be requested, fetched=%v err=%v", fetched, err)
	}
	if requested[len(requested)-1] != 66 {
		t.Fatalf("last page requested was %d", requested[len(requested)-1])
	}
	for i, p := range inf.Pages() {
		if p.n != i+1 {
			t.Fatalf("page order broken at %d: %d", i, p.n)
		}
	}
}

func TestInfiniteConcurrentFetchNextRunsOnce(t *testing.T) {
	c := newTestCache(&fakeClock{now: time.Unix(0, 0)})
	var calls atomic.Int32
	started := make(chan struct{})
	release := make(chan struct{})
	inf, err := InfiniteFor(c, KeyOf(KindTypeList, "fire"), pageTotal, func(ctx context.Context, n int) (page, error) {
		if calls.Add(1) == 1 {
			close(started)
		}
		<-release
		return page{n: n, total: 5}, nil
	})
	if err != nil {
		t.Fatal(err)
	}

	ctx := context.Background()
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_, _ = inf.FetchNext(ctx)
	}()
	<-started

	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if fetched, _ := inf.FetchNext(ctx); fetched {
				t.Error("second fetch started while one was in flight")
			}
		}()
	}
	time.Sleep(10 * time.Millisecond)
	close(release)
	wg.Wait()

	if n := calls.Load(); n != 1 {
		t.Fatalf("expected one fetch, got %d", n)
	}
	if n := len(inf.Pages()); n != 1 {
		t.Fatalf("expected one page, got %d", n)
	}
}

func TestInfiniteErrorAndRefetch(t *testing.T) {
	c := newTestCache(&fakeClock{now: time.Unix(0, 0)})
	failPage := 2
	boom := errors.New("failed to fetch Pokemon list")
	inf, err := InfiniteFor(c, KeyOf(KindList, "infinite"), pageTotal, func(ctx context.Context, n int) (page, error) {
		if n == failPage {
			return page{}, boom
		}
		return page{n: n, total: 3}, nil
	})
	if err != nil {
		t.Fatal(err)
	}
	ctx := context.Background()
	if _, err := inf.FetchNext(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := inf.FetchNext(ctx); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}
	snap := inf.Snapshot()
	if !errors.Is(snap.Err, boom) || len(snap.Pages) != 1 || snap.Fetching {
		t.Fatalf("unexpected snapshot %+v", snap)
	}

	failPage = 0
	if _, err := inf.Refetch(ctx); err != nil {
		t.Fatal(err)
	}
	snap = inf.Snapshot()
	if snap.Err != nil || len(snap.Pages) != 2 || snap.Pages[1].n != 2 {
		t.Fatalf("unexpected snapshot after refetch %+v", snap)
	}
}

func TestInfiniteRefetchFromFirstPage(t *testing.T) {
	c := newTestCache(&fakeClock{now: time.Unix(0, 0)})
	fail := true
	inf, _ := InfiniteFor(c, KeyOf(KindList, "infinite"), pageTotal, func(ctx context.Context, n int) (page, error) {
		if fail {
			return page{}, errors.New("down")
		}
		return page{n: n, total: 2}, nil
	})
	ctx := context.Background()
	if _, err := inf.FetchNext(ctx); err == nil {
		t.Fatal("expected error")
	}
	fail = false
	if _, err := inf.Refetch(ctx); err != nil {
		t.Fatal(err)
	}
	if p := inf.Pages(); len(p) != 1 || p[0].n != 1 {
		t.Fatalf("unexpected pages %+v", p)
	}
}

func TestInfiniteSurvivesReRegistration(t *testing.T) {
	c := newTestCache(&fakeClock{now: time.Unix(0, 0)})
	key := KeyOf(KindList, "infinite")
	fetch := func(ctx context.Context, n int) (page, error) { return page{n: n, total: 4}, nil }
	first, _ := InfiniteFor(c, key, pageTotal, fetch)
	_, _ = first.FetchNext(context.Background())

	second, err := InfiniteFor(c, key, pageTotal, fetch)
	if err != nil {
		t.Fatal(err)
	}
	if first != second || len(second.Pages()) != 1 {
		t.Fatalf("expected the same accumulation")
	}

	if _, err := InfiniteFor(c, key, func(int) int { return 0 }, func(context.Context, int) (int, error) { return 0, nil }); err == nil {
		t.Fatal("expected type mismatch error")
	}

	c.Invalidate(key)
	if len(second.Pages()) != 0 || !second.HasNext() {
		t.Fatal("invalidate should reset the accumulation")
	}
}

func TestInfiniteStaleAndRevalidate(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	c := newTestCache(clock)
	generation := 1
	inf, _ := InfiniteFor(c, KeyOf(KindList, "infinite"), pageTotal, func(ctx context.Context, n int) (page, error) {
		return page{n: n * generation, total: 10}, nil
	})
	ctx := context.Background()
	_, _ = inf.FetchNext(ctx)
	_, _ = inf.FetchNext(ctx)

	clock.Advance(4 * time.Minute)
	if inf.Stale() {
		t.Fatal("should be fresh inside the window")
	}
	clock.Advance(2 * time.Minute)
	if !inf.Stale() {
		t.Fatal("should be stale after five minutes")
	}

	generation = 10
	if err := inf.Revalidate(ctx); err != nil {
		t.Fatal(err)
	}
	pages := inf.Pages()
	if len(pages) != 2 || pages[0].n != 10 || pages[1].n != 20 {
		t.Fatalf("unexpected pages after revalidate %+v", pages)
	}
	if inf.Stale() {
		t.Fatal("revalidate should reset freshness")
	}
}

func TestInfiniteEmptyTotal(t *testing.T) {
	c := newTestCache(&fakeClock{now: time.Unix(0, 0)})
	inf, _ := InfiniteFor(c, KeyOf(KindTypeList, "shadow"), pageTotal, func(ctx context.Context, n int) (page, error) {
		return page{n: n, total: 0}, nil
	})
	if !inf.HasNext() {
		t.Fatal("expected a first page before loading")
	}
	_, _ = inf.FetchNext(context.Background())
	if inf.HasNext() {
		t.Fatal("no further pages for an empty member list")
	}
}
