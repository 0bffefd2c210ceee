package intersect

import "sync"

// Trigger runs a callback when its row comes into view, typically to request
// the next page. It observes at most one row at a time and does nothing while
// inactive.
type Trigger struct {
	mu       sync.Mutex
	obs      *Observer
	callback func()
	active   bool
	row      int
	hasRow   bool
	sub      *Subscription
	closed   bool
}

// NewTrigger binds callback to obs.
func NewTrigger(obs *Observer, callback func(), active bool) *Trigger {
	return &Trigger{obs: obs, callback: callback, active: active}
}

func (t *Trigger) fire() {
	t.mu.Lock()
	ok := t.active && !t.closed
	cb := t.callback
	t.mu.Unlock()
	if ok && cb != nil {
		cb()
	}
}

// subscribeLocked swaps the live subscription. The previous one is cancelled
// before the new one exists.
func (t *Trigger) subscribeLocked() (sub func()) {
	if t.sub != nil {
		t.sub.Cancel()
		t.sub = nil
	}
	if !t.active || !t.hasRow || t.closed {
		return nil
	}
	row := t.row
	return func() {
		s := t.obs.Observe(row, t.fire)
		t.mu.Lock()
		if t.closed || !t.active || t.row != row {
			t.mu.Unlock()
			s.Cancel()
			return
		}
		t.sub = s
		t.mu.Unlock()
	}
}

// Observe points the trigger at row, dropping any previous row.
func (t *Trigger) Observe(row int) {
	t.mu.Lock()
	if t.hasRow && t.row == row && t.sub != nil {
		t.mu.Unlock()
		return
	}
	t.row, t.hasRow = row, true
	start := t.subscribeLocked()
	t.mu.Unlock()
	if start != nil {
		start()
	}
}

// SetActive toggles the trigger. Reactivating re-observes the current row, so
// a row that is still in view fires again.
func (t *Trigger) SetActive(active bool) {
	t.mu.Lock()
	if t.active == active {
		t.mu.Unlock()
		return
	}
	t.active = active
	start := t.subscribeLocked()
	t.mu.Unlock()
	if start != nil {
		start()
	}
}

// Active reports whether the trigger may fire.
func (t *Trigger) Active() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

// Close tears down observation. The trigger never fires afterwards.
func (t *Trigger) Close() {
	t.mu.Lock()
	t.closed = true
	if t.sub != nil {
		t.sub.Cancel()
		t.sub = nil
	}
	t.mu.Unlock()
}
