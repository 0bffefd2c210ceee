package list

import (
	"context"

	tea "github.com/charmbracelet/bubbletea/v2"

	"tableflip.dev/pokedex/pkg/intersect"
	"tableflip.dev/pokedex/pkg/pokemon"
	"tableflip.dev/pokedex/pkg/query"
	"tableflip.dev/pokedex/pkg/tui/components/grid"
	"tableflip.dev/pokedex/pkg/tui/route"
)

// PageMsg reports that a page fetch for Key finished.
type PageMsg struct {
	Key query.Key
	Err error
}

// Feed is an infinitely paged card grid. The last card row is watched by an
// intersection trigger, and the next page is requested once it scrolls near
// the viewport.
type Feed struct {
	ctx     context.Context
	inf     *query.Infinite[*pokemon.Page]
	Grid    *grid.Model
	obs     *intersect.Observer
	trigger *intersect.Trigger
	pending []tea.Cmd
}

// NewFeed binds a grid to inf.
func NewFeed(ctx context.Context, inf *query.Infinite[*pokemon.Page], g *grid.Model) *Feed {
	f := &Feed{ctx: ctx, inf: inf, Grid: g}
	f.obs = intersect.NewObserver(intersect.DefaultMargin)
	f.trigger = intersect.NewTrigger(f.obs, f.onVisible, false)
	return f
}

// Key is the cache key of the paged query.
func (f *Feed) Key() query.Key { return f.inf.Key() }

// Snapshot is the current accumulated state.
func (f *Feed) Snapshot() query.InfiniteSnapshot[*pokemon.Page] { return f.inf.Snapshot() }

// Init loads the first page, or revalidates cached pages that went stale.
func (f *Feed) Init() tea.Cmd {
	snap := f.inf.Snapshot()
	if len(snap.Pages) == 0 {
		return f.fetch(false)
	}
	cmd := f.Sync()
	if snap.Stale {
		return tea.Batch(cmd, f.revalidate())
	}
	return cmd
}

func (f *Feed) onVisible() {
	// Deactivate until the page lands so one sighting yields one fetch.
	f.trigger.SetActive(false)
	f.pending = append(f.pending, f.fetch(false))
}

func (f *Feed) fetch(retry bool) tea.Cmd {
	inf, ctx := f.inf, f.ctx
	return func() tea.Msg {
		var err error
		if retry {
			_, err = inf.Refetch(ctx)
		} else {
			_, err = inf.FetchNext(ctx)
		}
		return PageMsg{Key: inf.Key(), Err: err}
	}
}

func (f *Feed) revalidate() tea.Cmd {
	inf, ctx := f.inf, f.ctx
	return func() tea.Msg {
		return PageMsg{Key: inf.Key(), Err: inf.Revalidate(ctx)}
	}
}

// Retry refetches after a failure.
func (f *Feed) Retry() tea.Cmd {
	if f.inf.Err() == nil {
		return nil
	}
	return f.fetch(true)
}

// Sync lays out the loaded pages and re-arms the trigger on the last row.
// A last row that is already in view requests the following page at once.
func (f *Feed) Sync() tea.Cmd {
	snap := f.inf.Snapshot()
	f.Grid.SetItems(Flatten(snap.Pages))
	f.obs.Scroll(f.Grid.Viewport())
	if last := f.Grid.LastRow(); last >= 0 {
		f.trigger.Observe(last)
	}
	// A sighting during the scroll above already queued the next page.
	f.trigger.SetActive(len(f.pending) == 0 && snap.HasNext && !snap.Fetching && snap.Err == nil)
	return f.drain()
}

// Update handles navigation keys and page results. It reports whether msg
// was consumed.
func (f *Feed) Update(msg tea.Msg) (bool, tea.Cmd) {
	switch msg := msg.(type) {
	case PageMsg:
		if msg.Key != f.inf.Key() {
			return false, nil
		}
		return true, f.Sync()
	case route.CacheMsg:
		if msg.Event.Key != f.inf.Key() || msg.Event.Status == query.StatusLoading {
			return false, nil
		}
		return true, f.Sync()
	case tea.KeyPressMsg:
		if !f.Grid.Update(msg) {
			return false, nil
		}
		f.obs.Scroll(f.Grid.Viewport())
		return true, f.drain()
	}
	return false, nil
}

// SetSize resizes the grid and re-lays the pages; a taller viewport may
// reveal the trigger row.
func (f *Feed) SetSize(width, height int) tea.Cmd {
	f.Grid.SetSize(width, height)
	return f.Sync()
}

// Close stops observing.
func (f *Feed) Close() { f.trigger.Close() }

func (f *Feed) drain() tea.Cmd {
	if len(f.pending) == 0 {
		return nil
	}
	cmds := f.pending
	f.pending = nil
	return tea.Batch(cmds...)
}

// Flatten concatenates page members in page order.
func Flatten(pages []*pokemon.Page) []pokemon.Summary {
	var out []pokemon.Summary
	for _, p := range pages {
		if p != nil {
			out = append(out, p.Pokemon...)
		}
	}
	return out
}

// Loaded returns "N of M loaded" counts from the accumulated pages.
func Loaded(pages []*pokemon.Page) (loaded, total int) {
	for _, p := range pages {
		if p == nil {
			continue
		}
		loaded += len(p.Pokemon)
		total = p.TotalCount
	}
	return loaded, total
}
