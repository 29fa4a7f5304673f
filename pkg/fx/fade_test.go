package fx

import (
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/loop"
)

const speed = 10 * time.Millisecond

func newElement(t *testing.T) *dom.Element {
	t.Helper()
	doc := dom.NewDocument()
	el := doc.CreateElement("div")
	doc.Body().AppendChild(el)
	return el
}

// recordOpacity collects every opacity written to el's style.
func recordOpacity(el *dom.Element) *[]string {
	var got []string
	el.OwnerDocument().Observe(func(m dom.Mutation) {
		if m.Target == el && m.Name == "style" {
			got = append(got, el.Style().Opacity())
		}
	})
	return &got
}

func counterValue(t *testing.T, c *prometheus.CounterVec, kind Kind) float64 {
	t.Helper()
	var m dto.Metric
	if err := c.WithLabelValues(string(kind)).Write(&m); err != nil {
		t.Fatalf("counter Write() error: %v", err)
	}
	return m.GetCounter().GetValue()
}

func TestFadeIn_Sequence(t *testing.T) {
	s := loop.NewManual()
	el := newElement(t)
	el.Style().Set("display", "none")

	calls := 0
	New(s).FadeIn(el, Speed(speed), OnComplete(func() { calls++ }))

	if got := el.Style().Opacity(); got != "0" {
		t.Errorf("opacity before first tick = %q, want %q", got, "0")
	}
	if got := el.Style().Display(); got != dom.DisplayBlock {
		t.Errorf("display = %q, want %q", got, dom.DisplayBlock)
	}

	seen := recordOpacity(el)
	for i := 0; i < 10; i++ {
		s.Advance(speed)
	}
	if calls != 0 {
		t.Fatalf("callback ran after 10 ticks, want it on the 11th")
	}
	if s.Pending() != 1 {
		t.Fatalf("Pending() = %d after 10 ticks, want 1", s.Pending())
	}

	s.Advance(speed)

	want := "0.0 0.1 0.2 0.3 0.4 0.5 0.6 0.7 0.8 0.9 1"
	if got := strings.Join(*seen, " "); got != want {
		t.Errorf("opacity sequence = %q, want %q", got, want)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after completion, want 0", s.Pending())
	}

	// No further ticks touch the element.
	s.Advance(10 * speed)
	if len(*seen) != 11 {
		t.Errorf("opacity written %d times, want 11", len(*seen))
	}
	if got := el.Style().Opacity(); got != "1" {
		t.Errorf("final opacity = %q, want exactly %q", got, "1")
	}
}

func TestFadeIn_AlreadyShownIsNoop(t *testing.T) {
	s := loop.NewManual()
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg))
	el := newElement(t)
	el.Style().Set("display", "block")
	el.Style().Set("opacity", "0.4")

	mutations := 0
	el.OwnerDocument().Observe(func(dom.Mutation) { mutations++ })

	called := false
	New(s, WithMetrics(m)).FadeIn(el, OnComplete(func() { called = true }))
	s.Advance(time.Second)

	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	if mutations != 0 {
		t.Errorf("mutations = %d, want 0", mutations)
	}
	if got := el.Style().Opacity(); got != "0.4" {
		t.Errorf("opacity = %q, want unchanged %q", got, "0.4")
	}
	if called {
		t.Error("callback ran for a skipped fade")
	}
	if v := counterValue(t, m.skipped, KindFadeIn); v != 1 {
		t.Errorf("skipped = %v, want 1", v)
	}
	if v := counterValue(t, m.started, KindFadeIn); v != 0 {
		t.Errorf("started = %v, want 0", v)
	}
}

func TestFadeOut_Sequence(t *testing.T) {
	s := loop.NewManual()
	el := newElement(t)
	el.Style().Set("display", "block")
	el.Style().Set("opacity", "1")

	seen := recordOpacity(el)
	var displayAtCallback string
	pendingAtCallback := -1
	calls := 0
	New(s).FadeOut(el, Speed(speed), OnComplete(func() {
		calls++
		displayAtCallback = el.Style().Display()
		pendingAtCallback = s.Pending()
	}))

	s.Advance(9 * speed)
	if calls != 0 {
		t.Fatal("callback ran before the 10th tick")
	}
	s.Advance(speed)

	// The final style write is display=none; opacity stays at 0.0.
	want := "0.9 0.8 0.7 0.6 0.5 0.4 0.3 0.2 0.1 0.0 0.0"
	if got := strings.Join(*seen, " "); got != want {
		t.Errorf("opacity sequence = %q, want %q", got, want)
	}
	if calls != 1 {
		t.Errorf("callback ran %d times, want 1", calls)
	}
	if displayAtCallback != dom.DisplayNone {
		t.Errorf("display at callback = %q, want %q", displayAtCallback, dom.DisplayNone)
	}
	if pendingAtCallback != 0 {
		t.Errorf("timer still active when callback ran (Pending() = %d)", pendingAtCallback)
	}

	s.Advance(10 * speed)
	if calls != 1 {
		t.Errorf("callback ran %d times after extra ticks, want 1", calls)
	}
}

func TestFadeOut_StartsAtPointNineRegardlessOfState(t *testing.T) {
	s := loop.NewManual()
	el := newElement(t)
	el.Style().Set("display", "none")
	el.Style().Set("opacity", "0.2")

	New(s).FadeOut(el, Speed(speed))
	s.Advance(speed)

	if got := el.Style().Opacity(); got != "0.9" {
		t.Errorf("opacity after first tick = %q, want %q", got, "0.9")
	}
}

func TestOnCompleteWith_PassesArgument(t *testing.T) {
	s := loop.NewManual()
	el := newElement(t)

	var got *dom.Element
	New(s).FadeOut(el, Speed(speed), OnCompleteWith(func(e *dom.Element) { got = e }, el))
	s.Advance(10 * speed)

	if got != el {
		t.Errorf("callback argument = %v, want the faded element", got)
	}

	var label string
	n := 0
	New(s).FadeIn(el, Speed(speed), OnCompleteWith(func(v string) { label = v; n++ }, "shown"))
	s.Advance(11 * speed)
	if label != "shown" || n != 1 {
		t.Errorf("callback got %q (%d calls), want %q once", label, n, "shown")
	}
}

func TestCallbackMayStartNewFade(t *testing.T) {
	s := loop.NewManual()
	el := newElement(t)
	a := New(s)

	rounds := 0
	var fadeOut func()
	fadeOut = func() {
		a.FadeOut(el, Speed(speed), OnComplete(func() {
			rounds++
			if rounds < 3 {
				a.FadeIn(el, Speed(speed), OnComplete(fadeOut))
			}
		}))
	}
	fadeOut()

	s.Advance(100 * speed)

	if rounds != 3 {
		t.Errorf("rounds = %d, want 3", rounds)
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", s.Pending())
	}
	if got := el.Style().Display(); got != dom.DisplayNone {
		t.Errorf("display = %q, want %q", got, dom.DisplayNone)
	}
}

func TestSpeedDefaults(t *testing.T) {
	s := loop.NewManual()
	el := newElement(t)

	FadeOut(s, el, Speed(-time.Second))
	s.Advance(DefaultSpeed - time.Millisecond)
	if el.Style().Opacity() != "" {
		t.Fatalf("opacity changed before DefaultSpeed elapsed")
	}
	s.Advance(time.Millisecond)
	if got := el.Style().Opacity(); got != "0.9" {
		t.Errorf("opacity = %q after DefaultSpeed, want %q", got, "0.9")
	}
}

func TestMetrics_CountLifecycle(t *testing.T) {
	s := loop.NewManual()
	reg := prometheus.NewRegistry()
	m := NewMetrics(WithRegistry(reg), WithNamespace("test"))
	el := newElement(t)
	a := New(s, WithMetrics(m))

	a.FadeIn(el, Speed(speed))
	s.Advance(11 * speed)
	a.FadeOut(el, Speed(speed))
	s.Advance(10 * speed)

	checks := []struct {
		name string
		c    *prometheus.CounterVec
		kind Kind
		want float64
	}{
		{"started in", m.started, KindFadeIn, 1},
		{"completed in", m.completed, KindFadeIn, 1},
		{"ticks in", m.ticks, KindFadeIn, 11},
		{"started out", m.started, KindFadeOut, 1},
		{"completed out", m.completed, KindFadeOut, 1},
		{"ticks out", m.ticks, KindFadeOut, 10},
	}
	for _, c := range checks {
		if got := counterValue(t, c.c, c.kind); got != c.want {
			t.Errorf("%s = %v, want %v", c.name, got, c.want)
		}
	}

	families, err := reg.Gather()
	if err != nil {
		t.Fatalf("Gather() error: %v", err)
	}
	found := false
	for _, f := range families {
		if f.GetName() == "test_fx_animations_completed_total" {
			found = true
		}
	}
	if !found {
		t.Error("test_fx_animations_completed_total not registered")
	}
}
