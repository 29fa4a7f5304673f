package loop

import (
	"context"
	"errors"
	"log/slog"
	"runtime/debug"
	"sync"
	"sync/atomic"
	"time"
)

// DefaultQueueSize is the capacity of the task queue.
const DefaultQueueSize = 256

// ErrClosed is returned by Run when the loop was closed before it started.
var ErrClosed = errors.New("loop: closed")

// Handle identifies an interval created with SetInterval.
type Handle uint64

// Scheduler starts and cancels repeating timers and dispatches work onto the
// goroutine that owns the document.
type Scheduler interface {
	// SetInterval calls fn every d until the returned handle is cleared.
	SetInterval(d time.Duration, fn func()) Handle

	// ClearInterval stops the interval. Clearing an unknown or already
	// cleared handle is a no-op.
	ClearInterval(h Handle)

	// Dispatch runs fn on the scheduler's goroutine.
	Dispatch(fn func())
}

// Option configures a Loop.
type Option func(*Loop)

// WithQueueSize sets the capacity of the task queue.
func WithQueueSize(n int) Option {
	return func(l *Loop) {
		if n > 0 {
			l.queueSize = n
		}
	}
}

// WithLogger sets the logger used for task panics.
func WithLogger(logger *slog.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

type interval struct {
	stop    chan struct{}
	cleared atomic.Bool
}

// Loop is a single-goroutine task runner. Create one with New and start it
// with Run.
type Loop struct {
	queueSize int
	logger    *slog.Logger
	tasks     chan func()

	// backlog holds tasks in order while tasks is full.
	qmu     sync.Mutex
	backlog []func()

	mu        sync.Mutex
	intervals map[Handle]*interval
	next      Handle

	done      chan struct{}
	closeOnce sync.Once
	running   atomic.Bool
}

// New creates a Loop. The loop does nothing until Run is called.
func New(opts ...Option) *Loop {
	l := &Loop{
		queueSize: DefaultQueueSize,
		logger:    slog.Default(),
		intervals: make(map[Handle]*interval),
		done:      make(chan struct{}),
	}
	for _, opt := range opts {
		opt(l)
	}
	l.tasks = make(chan func(), l.queueSize)
	return l
}

// Run executes dispatched tasks until ctx is cancelled or Close is called.
// It returns ctx.Err() on cancellation and nil after Close.
func (l *Loop) Run(ctx context.Context) error {
	select {
	case <-l.done:
		return ErrClosed
	default:
	}
	l.running.Store(true)
	defer l.running.Store(false)

	for {
		select {
		case <-ctx.Done():
			l.Close()
			return ctx.Err()
		case <-l.done:
			return nil
		case fn := <-l.tasks:
			l.safeExecute(fn)
			l.refill()
		}
	}
}

// refill moves backlogged tasks into the queue while it has room.
func (l *Loop) refill() {
	l.qmu.Lock()
	defer l.qmu.Unlock()
	for len(l.backlog) > 0 {
		select {
		case l.tasks <- l.backlog[0]:
			l.backlog[0] = nil
			l.backlog = l.backlog[1:]
		default:
			return
		}
	}
}

// Running reports whether Run is currently executing.
func (l *Loop) Running() bool {
	return l.running.Load()
}

// Dispatch queues fn to run on the loop goroutine. It never blocks, so a
// running task may dispatch more work: once the queue is full, tasks wait in
// an ordered backlog. Tasks dispatched after Close are dropped.
func (l *Loop) Dispatch(fn func()) {
	if fn == nil {
		return
	}
	select {
	case <-l.done:
		return
	default:
	}

	l.qmu.Lock()
	defer l.qmu.Unlock()
	if len(l.backlog) == 0 {
		select {
		case l.tasks <- fn:
			return
		default:
		}
	}
	l.backlog = append(l.backlog, fn)
}

// SetInterval starts a ticker whose ticks are dispatched onto the loop.
// The first tick happens after d.
func (l *Loop) SetInterval(d time.Duration, fn func()) Handle {
	if d <= 0 {
		d = time.Millisecond
	}
	iv := &interval{stop: make(chan struct{})}

	l.mu.Lock()
	l.next++
	h := l.next
	l.intervals[h] = iv
	l.mu.Unlock()

	tick := func() {
		if iv.cleared.Load() {
			return
		}
		fn()
	}

	go func() {
		ticker := time.NewTicker(d)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				l.Dispatch(tick)
			case <-iv.stop:
				return
			case <-l.done:
				return
			}
		}
	}()

	return h
}

// ClearInterval stops the interval identified by h.
func (l *Loop) ClearInterval(h Handle) {
	l.mu.Lock()
	iv, ok := l.intervals[h]
	delete(l.intervals, h)
	l.mu.Unlock()

	if !ok {
		return
	}
	iv.cleared.Store(true)
	close(iv.stop)
}

// Pending returns the number of active intervals.
func (l *Loop) Pending() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.intervals)
}

// Close stops every interval and makes Run return. It is safe to call more
// than once.
func (l *Loop) Close() {
	l.closeOnce.Do(func() {
		close(l.done)

		l.mu.Lock()
		for h, iv := range l.intervals {
			iv.cleared.Store(true)
			delete(l.intervals, h)
		}
		l.mu.Unlock()

		l.qmu.Lock()
		l.backlog = nil
		l.qmu.Unlock()
	})
}

// Done is closed when the loop has been closed.
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// safeExecute runs a task with panic recovery.
func (l *Loop) safeExecute(fn func()) {
	defer func() {
		if r := recover(); r != nil {
			l.logger.Error("task panic",
				"panic", r,
				"stack", string(debug.Stack()))
		}
	}()

	fn()
}
