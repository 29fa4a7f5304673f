package ui

import (
	"errors"
	"testing"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/loop"
	"github.com/vango-dev/mini/pkg/mini"
)

const page = `<html><body>
<div id="confirm" style="display: none"><p>Really <b>delete</b>?</p></div>
<div id="wizard">
  <div class="mini_ui_window">one</div>
  <div class="mini_ui_window">two</div>
  <div class="mini_ui_window">three</div>
</div>
</body></html>`

func setup(t *testing.T, id string) (*mini.Mini, *loop.Manual) {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	s := loop.NewManual()
	m, err := mini.Select(doc, id, mini.WithScheduler(s))
	if err != nil {
		t.Fatalf("Select(%q) error: %v", id, err)
	}
	return m, s
}

func TestDialog(t *testing.T) {
	m, _ := setup(t, "#confirm")

	var clicked []string
	err := Dialog(m, DialogOptions{
		Title: "Delete <i>item</i>",
		Buttons: []Button{
			{Label: "Yes", OnClick: func(*dom.Event) { clicked = append(clicked, "yes") }},
			{Label: "No", OnClick: func(*dom.Event) { clicked = append(clicked, "no") }},
		},
	})
	if err != nil {
		t.Fatalf("Dialog() error: %v", err)
	}

	parts := m.Element().Children()
	if len(parts) != 3 {
		t.Fatalf("children = %d, want 3", len(parts))
	}
	for i, class := range []string{ClassDialogTitle, ClassDialogContent, ClassDialogButtons} {
		if !parts[i].ClassList().Contains(class) {
			t.Errorf("child %d class = %v, want %q", i, parts[i].ClassList().Values(), class)
		}
	}
	if got := parts[0].InnerHTML(); got != "Delete <i>item</i>" {
		t.Errorf("title = %q", got)
	}
	if got := parts[1].InnerHTML(); got != "<p>Really <b>delete</b>?</p>" {
		t.Errorf("content = %q", got)
	}

	style := m.Element().Style()
	if style.Get("width") != "600px" || style.Get("height") != "400px" {
		t.Errorf("size = %s x %s, want 600px x 400px", style.Get("width"), style.Get("height"))
	}

	buttons := parts[2].Children()
	if len(buttons) != 2 {
		t.Fatalf("buttons = %d, want 2", len(buttons))
	}
	if buttons[0].InnerText() != "Yes" || buttons[1].InnerText() != "No" {
		t.Errorf("button labels = %q, %q", buttons[0].InnerText(), buttons[1].InnerText())
	}
	buttons[1].Click()
	buttons[0].Click()
	if len(clicked) != 2 || clicked[0] != "no" || clicked[1] != "yes" {
		t.Errorf("clicked = %v, want [no yes]", clicked)
	}
}

func TestDialog_NoButtons(t *testing.T) {
	m, _ := setup(t, "#confirm")

	if err := Dialog(m, DialogOptions{Title: "Hi", Width: 300, Height: 120}); err != nil {
		t.Fatalf("Dialog() error: %v", err)
	}
	if n := len(m.Element().Children()); n != 2 {
		t.Errorf("children = %d, want 2", n)
	}
	if got := m.Element().Style().Get("width"); got != "300px" {
		t.Errorf("width = %q, want %q", got, "300px")
	}
}

func TestDialog_InvalidSize(t *testing.T) {
	m, _ := setup(t, "#confirm")
	before := m.HTML()

	for _, opts := range []DialogOptions{{Width: -1}, {Height: -5}} {
		if err := Dialog(m, opts); !errors.Is(err, ErrInvalidOption) {
			t.Errorf("Dialog(%+v) error = %v, want ErrInvalidOption", opts, err)
		}
	}
	if m.HTML() != before {
		t.Error("invalid options modified the element")
	}
}

func TestShowHideDialog(t *testing.T) {
	m, s := setup(t, "#confirm")
	if err := Dialog(m, DialogOptions{}); err != nil {
		t.Fatalf("Dialog() error: %v", err)
	}

	if err := ShowDialog(m); err != nil {
		t.Fatalf("ShowDialog() error: %v", err)
	}
	s.Advance(11 * DialogSpeed)
	if got := m.Element().Style().Opacity(); got != "1" {
		t.Errorf("opacity after show = %q, want %q", got, "1")
	}
	if s.Pending() != 0 {
		t.Errorf("Pending() = %d after show, want 0", s.Pending())
	}

	if err := HideDialog(m); err != nil {
		t.Fatalf("HideDialog() error: %v", err)
	}
	s.Advance(9 * DialogSpeed)
	if got := m.Element().Style().Display(); got != dom.DisplayBlock {
		t.Errorf("display mid-hide = %q, want %q", got, dom.DisplayBlock)
	}
	s.Advance(DialogSpeed)
	if got := m.Element().Style().Display(); got != dom.DisplayNone {
		t.Errorf("display after hide = %q, want %q", got, dom.DisplayNone)
	}

	bare := mini.Wrap(m.Element())
	if err := ShowDialog(bare); !errors.Is(err, mini.ErrNoScheduler) {
		t.Errorf("ShowDialog() without scheduler error = %v", err)
	}
}

func lefts(m *mini.Mini) []string {
	var out []string
	for _, w := range m.Element().GetElementsByClassName(ClassWindow) {
		out = append(out, w.Style().Get("left"))
	}
	return out
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func TestSlide(t *testing.T) {
	m, _ := setup(t, "#wizard")
	Slide(m)

	windows := m.Element().GetElementsByClassName(ClassWindow)
	if got := windows[0].Style().CSSText(); got != "position: absolute; top: 0; left: 0; width: 100%;" {
		t.Errorf("first window css = %q", got)
	}
	if got := windows[1].Style().CSSText(); got != "position: absolute; top: 0; left: 110%; width: 100%;" {
		t.Errorf("second window css = %q", got)
	}
	if m.Element().HasAttribute(AttrWindowID) {
		t.Error("Slide recorded a window id")
	}
}

func TestSlideTo(t *testing.T) {
	m, _ := setup(t, "#wizard")
	Slide(m)

	steps := []struct {
		target Target
		moved  bool
		lefts  []string
		cur    int
	}{
		{Prev, false, []string{"0", "110%", "110%"}, 0},
		{Next, true, []string{"-110%", "0%", "110%"}, 1},
		{Next, true, []string{"-110%", "-110%", "0%"}, 2},
		{Next, false, []string{"-110%", "-110%", "0%"}, 2},
		{Frame(0), true, []string{"0%", "-110%", "110%"}, 0},
		{Frame(3), false, []string{"0%", "-110%", "110%"}, 0},
		{Frame(-1), false, []string{"0%", "-110%", "110%"}, 0},
	}

	for i, st := range steps {
		if got := SlideTo(m, st.target); got != st.moved {
			t.Errorf("step %d: SlideTo() = %v, want %v", i, got, st.moved)
		}
		if got := lefts(m); !equal(got, st.lefts) {
			t.Errorf("step %d: lefts = %v, want %v", i, got, st.lefts)
		}
		if got := Current(m); got != st.cur {
			t.Errorf("step %d: Current() = %d, want %d", i, got, st.cur)
		}
	}
}
