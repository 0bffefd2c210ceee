// Package intersect reports when a row of a scrolling list comes into view.
// Rows are line offsets into the full content; the viewport is the window of
// lines currently on screen.
package intersect

import "sync"

// DefaultMargin extends the viewport so a row fires slightly before it is
// actually visible.
const DefaultMargin = 5

// Viewport is the visible window of a scrolling list.
type Viewport struct {
	Top    int
	Height int
}

// Contains reports whether row lies inside the viewport grown by margin on
// both edges.
func (v Viewport) Contains(row, margin int) bool {
	if v.Height <= 0 {
		return false
	}
	return row >= v.Top-margin && row < v.Top+v.Height+margin
}

// Observer tracks subscriptions against the latest viewport.
type Observer struct {
	mu     sync.Mutex
	margin int
	subs   map[*Subscription]struct{}
	last   Viewport
	seen   bool
}

// NewObserver returns an Observer with the given margin. A negative margin
// selects DefaultMargin.
func NewObserver(margin int) *Observer {
	if margin < 0 {
		margin = DefaultMargin
	}
	return &Observer{margin: margin, subs: make(map[*Subscription]struct{})}
}

// Subscription is a single observed row. Cancel it to stop observation.
type Subscription struct {
	o      *Observer
	row    int
	fn     func()
	inView bool
}

// Row is the observed row.
func (s *Subscription) Row() int { return s.row }

// Cancel stops the subscription. It is safe to call more than once.
func (s *Subscription) Cancel() {
	if s == nil || s.o == nil {
		return
	}
	s.o.mu.Lock()
	delete(s.o.subs, s)
	s.o.mu.Unlock()
}

// Observe starts watching row. fn runs each time the row moves from outside
// the viewport to inside it. When a viewport is already known and the row is
// inside it, fn runs before Observe returns.
func (o *Observer) Observe(row int, fn func()) *Subscription {
	s := &Subscription{o: o, row: row, fn: fn}
	o.mu.Lock()
	o.subs[s] = struct{}{}
	fire := o.seen && o.last.Contains(row, o.margin)
	s.inView = fire
	o.mu.Unlock()

	if fire {
		fn()
	}
	return s
}

// Scroll records the new viewport and fires every subscription whose row
// entered it. It returns the number of callbacks run.
func (o *Observer) Scroll(vp Viewport) int {
	o.mu.Lock()
	o.last, o.seen = vp, true
	var fire []func()
	for s := range o.subs {
		in := vp.Contains(s.row, o.margin)
		if in && !s.inView {
			fire = append(fire, s.fn)
		}
		s.inView = in
	}
	o.mu.Unlock()

	for _, fn := range fire {
		fn()
	}
	return len(fire)
}

// Len is the number of live subscriptions.
func (o *Observer) Len() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.subs)
}
