package fx

import (
	"log/slog"
	"strconv"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/loop"
)

// Kind names a fade direction.
type Kind string

const (
	KindFadeIn  Kind = "fade_in"
	KindFadeOut Kind = "fade_out"
)

const (
	fadeInLast  = 10 // the step that sets opacity 1
	fadeOutFrom = 9  // fade-out starts at "0.9"
)

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithMetrics records fades in m.
func WithMetrics(m *Metrics) AnimatorOption {
	return func(a *Animator) {
		a.metrics = m
	}
}

// WithLogger sets the logger for fade lifecycle events.
func WithLogger(logger *slog.Logger) AnimatorOption {
	return func(a *Animator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// Animator runs opacity fades on a scheduler.
type Animator struct {
	sched   loop.Scheduler
	logger  *slog.Logger
	metrics *Metrics
}

// New creates an Animator that ticks on s.
func New(s loop.Scheduler, opts ...AnimatorOption) *Animator {
	a := &Animator{
		sched:  s,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Scheduler returns the scheduler the animator ticks on.
func (a *Animator) Scheduler() loop.Scheduler {
	return a.sched
}

// FadeIn shows el and raises its opacity from 0 to 1 in tenths, one step per
// tick. If el already has display "block" nothing happens and no timer is
// started.
//
// Eleven ticks set "0.0" through "0.9" and then exactly "1"; the last of
// them cancels the timer and then runs the completion callback. FadeIn
// returns at once. It must be called on the scheduler's goroutine, and el
// must not already be fading.
func (a *Animator) FadeIn(el *dom.Element, opts ...Option) {
	o := buildOptions(opts)
	style := el.Style()
	if style.Display() == dom.DisplayBlock {
		a.metrics.recordSkipped(KindFadeIn)
		a.logger.Debug("fade skipped", "kind", KindFadeIn, "tag", el.TagName())
		return
	}

	style.Set("opacity", "0")
	style.Set("display", dom.DisplayBlock)

	f := &fade{animator: a, kind: KindFadeIn, el: el, step: 0, done: o.done}
	a.start(f, o)
}

// FadeOut lowers el's opacity from 0.9 to 0.0 in tenths, one step per tick,
// then sets display "none", cancels the timer and runs the completion
// callback. It does not check the element's current state. FadeOut returns
// at once; the same goroutine rules as FadeIn apply.
func (a *Animator) FadeOut(el *dom.Element, opts ...Option) {
	o := buildOptions(opts)
	f := &fade{animator: a, kind: KindFadeOut, el: el, step: fadeOutFrom, done: o.done}
	a.start(f, o)
}

func (a *Animator) start(f *fade, o options) {
	a.metrics.recordStarted(f.kind)
	a.logger.Debug("fade started", "kind", f.kind, "tag", f.el.TagName(), "speed", o.speed)
	f.handle = a.sched.SetInterval(o.speed, f.tick)
}

// fade is the state of one running animation.
type fade struct {
	animator *Animator
	kind     Kind
	el       *dom.Element
	step     int
	handle   loop.Handle
	done     func()
	finished bool
}

func (f *fade) tick() {
	if f.finished {
		return
	}
	switch f.kind {
	case KindFadeIn:
		f.tickIn()
	case KindFadeOut:
		f.tickOut()
	}
}

func (f *fade) tickIn() {
	f.el.Style().Set("opacity", opacityAt(f.step))
	f.animator.metrics.recordTick(f.kind)
	f.step++
	if f.step == fadeInLast+1 {
		f.finish()
	}
}

func (f *fade) tickOut() {
	f.el.Style().Set("opacity", opacityAt(f.step))
	f.animator.metrics.recordTick(f.kind)
	f.step--
	if f.step == -1 {
		f.finish()
	}
}

// finish cancels the timer before anything else so the callback may start a
// new fade on the same element.
func (f *fade) finish() {
	f.finished = true
	f.animator.sched.ClearInterval(f.handle)
	if f.kind == KindFadeOut {
		f.el.Style().Set("display", dom.DisplayNone)
	}
	f.animator.metrics.recordCompleted(f.kind)
	f.animator.logger.Debug("fade completed", "kind", f.kind, "tag", f.el.TagName())
	if f.done != nil {
		f.done()
	}
}

// opacityAt formats a step as an opacity: "0.<step>" below 10 and exactly
// "1" at 10.
func opacityAt(step int) string {
	if step >= fadeInLast {
		return "1"
	}
	return "0." + strconv.Itoa(step)
}

// FadeIn runs Animator.FadeIn with a plain animator on s.
func FadeIn(s loop.Scheduler, el *dom.Element, opts ...Option) {
	New(s).FadeIn(el, opts...)
}

// FadeOut runs Animator.FadeOut with a plain animator on s.
func FadeOut(s loop.Scheduler, el *dom.Element, opts ...Option) {
	New(s).FadeOut(el, opts...)
}
