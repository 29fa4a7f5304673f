package loop

import "time"

type manualTimer struct {
	every time.Duration
	due   time.Duration
	fn    func()
}

// Manual is a Scheduler driven by a virtual clock. It is not safe for
// concurrent use; tests drive it from a single goroutine.
type Manual struct {
	now    time.Duration
	next   Handle
	timers map[Handle]*manualTimer
}

// NewManual returns a Manual scheduler at virtual time zero.
func NewManual() *Manual {
	return &Manual{timers: make(map[Handle]*manualTimer)}
}

// SetInterval implements Scheduler.
func (m *Manual) SetInterval(d time.Duration, fn func()) Handle {
	if d <= 0 {
		d = time.Millisecond
	}
	m.next++
	m.timers[m.next] = &manualTimer{every: d, due: m.now + d, fn: fn}
	return m.next
}

// ClearInterval implements Scheduler.
func (m *Manual) ClearInterval(h Handle) {
	delete(m.timers, h)
}

// Dispatch implements Scheduler by running fn immediately.
func (m *Manual) Dispatch(fn func()) {
	if fn != nil {
		fn()
	}
}

// Advance moves the clock forward by d, firing every interval that comes due
// in time order. Intervals due at the same instant fire in creation order.
func (m *Manual) Advance(d time.Duration) {
	target := m.now + d
	for {
		t := m.earliest(target)
		if t == nil {
			break
		}
		m.now = t.due
		t.due += t.every
		t.fn()
	}
	m.now = target
}

// Ticks advances the clock by n periods of d.
func (m *Manual) Ticks(n int, d time.Duration) {
	for i := 0; i < n; i++ {
		m.Advance(d)
	}
}

// Now returns the virtual time elapsed since NewManual.
func (m *Manual) Now() time.Duration {
	return m.now
}

// Pending returns the number of active intervals.
func (m *Manual) Pending() int {
	return len(m.timers)
}

func (m *Manual) earliest(limit time.Duration) *manualTimer {
	var (
		best  Handle
		found *manualTimer
	)
	for h, t := range m.timers {
		if t.due > limit {
			continue
		}
		if found == nil || t.due < found.due || (t.due == found.due && h < best) {
			best, found = h, t
		}
	}
	return found
}
