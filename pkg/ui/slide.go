package ui

import (
	"strconv"

	"github.com/vango-dev/mini/pkg/mini"
)

const (
	// ClassWindow marks the elements a slide show moves between.
	ClassWindow = "mini_ui_window"

	// AttrWindowID records the index of the visible window.
	AttrWindowID = "mini_ui_window_id"

	windowCSS = "position: absolute; top: 0; left: 0; width: 100%"
)

type targetKind int

const (
	targetIndex targetKind = iota
	targetNext
	targetPrev
)

// Target names the window SlideTo moves to.
type Target struct {
	kind  targetKind
	index int
}

var (
	// Next is the window after the current one.
	Next = Target{kind: targetNext}
	// Prev is the window before the current one.
	Prev = Target{kind: targetPrev}
)

// Frame is the window at index n.
func Frame(n int) Target {
	return Target{kind: targetIndex, index: n}
}

func (t Target) resolve(current int) int {
	switch t.kind {
	case targetNext:
		return current + 1
	case targetPrev:
		return current - 1
	default:
		return t.index
	}
}

// Slide positions every window under the wrapped element. The first window
// is left in view; the others wait off to the right.
func Slide(m *mini.Mini) {
	for i, w := range m.Element().GetElementsByClassName(ClassWindow) {
		w.Style().SetCSSText(windowCSS)
		if i != 0 {
			w.Style().Set("left", "110%")
		}
	}
}

// SlideTo moves from the current window to t. Moving back sends the current
// window right, moving forward sends it left. Targets outside the window
// list are ignored and SlideTo reports false.
func SlideTo(m *mini.Mini, t Target) bool {
	el := m.Element()
	windows := el.GetElementsByClassName(ClassWindow)

	current := Current(m)
	target := t.resolve(current)
	if target < 0 || target >= len(windows) {
		return false
	}

	if current >= 0 && current < len(windows) {
		if target < current {
			windows[current].Style().Set("left", "110%")
		} else {
			windows[current].Style().Set("left", "-110%")
		}
	}
	windows[target].Style().Set("left", "0%")

	el.SetAttribute(AttrWindowID, strconv.Itoa(target))
	return true
}

// Current returns the index recorded by the last successful SlideTo, or 0.
func Current(m *mini.Mini) int {
	v, ok := m.Element().GetAttribute(AttrWindowID)
	if !ok {
		return 0
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0
	}
	return n
}
