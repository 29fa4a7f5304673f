package mini

import (
	"errors"
	"testing"
	"time"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/fx"
	"github.com/vango-dev/mini/pkg/loop"
)

const page = `<html><body>
<div id="panel" class="card" style="display: none">
  <p data-kind="a">one</p>
  <p data-kind="b">two</p>
  <p data-kind="a">three</p>
</div>
<input id="email" value="a@b.c">
</body></html>`

func newDoc(t *testing.T) *dom.Document {
	t.Helper()
	doc, err := dom.ParseString(page)
	if err != nil {
		t.Fatalf("ParseString() error: %v", err)
	}
	return doc
}

func TestSelect(t *testing.T) {
	doc := newDoc(t)

	m, err := Select(doc, "p")
	if err != nil {
		t.Fatalf("Select(p) error: %v", err)
	}
	if m.Count() != 3 {
		t.Errorf("Count() = %d, want 3", m.Count())
	}
	if m.Text() != "one" {
		t.Errorf("Text() = %q, want %q", m.Text(), "one")
	}

	if _, err := Select(doc, "#missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("Select(#missing) error = %v, want ErrNotFound", err)
	}
	if _, err := Select(doc, "p[["); !errors.Is(err, dom.ErrInvalidSelector) {
		t.Errorf("Select(bad) error = %v, want dom.ErrInvalidSelector", err)
	}

	root, err := Select(doc, DocumentSelector)
	if err != nil {
		t.Fatalf("Select(document) error: %v", err)
	}
	if root.Element() != doc.Root() {
		t.Error("Select(document) did not wrap the document root")
	}
}

func TestAccessors(t *testing.T) {
	doc := newDoc(t)
	panel, _ := Select(doc, "#panel")

	if v, ok := panel.Attr("class"); !ok || v != "card" {
		t.Errorf("Attr(class) = %q, %v", v, ok)
	}
	panel.SetAttr("data-open", "1")
	if v, _ := panel.Attr("data-open"); v != "1" {
		t.Errorf("Attr(data-open) = %q, want %q", v, "1")
	}

	panel.ToggleClass("open")
	if !panel.Element().ClassList().Contains("open") {
		t.Error("ToggleClass did not add the class")
	}

	got := panel.GetElementsByAttributeValue("data-kind", "a")
	if len(got) != 2 {
		t.Errorf("GetElementsByAttributeValue() = %d elements, want 2", len(got))
	}
	if n := len(panel.GetElementsByTagName("p")); n != 3 {
		t.Errorf("GetElementsByTagName(p) = %d, want 3", n)
	}

	html, err := panel.SetHTML("<b>bold</b>")
	if err != nil || html != "<b>bold</b>" || panel.HTML() != html {
		t.Errorf("SetHTML() = %q, %v", html, err)
	}
	if got := panel.SetText("plain"); got != "plain" {
		t.Errorf("SetText() = %q, want %q", got, "plain")
	}

	input, _ := Select(doc, "#email")
	if input.Value() != "a@b.c" {
		t.Errorf("Value() = %q", input.Value())
	}
	if got := input.SetValue("x@y.z"); got != "x@y.z" {
		t.Errorf("SetValue() = %q", got)
	}
}

func TestCSS(t *testing.T) {
	doc := newDoc(t)
	panel, _ := Select(doc, "#panel")

	panel.CSS("width", "600px")
	panel.CSSMap(map[string]string{"height": "400px", "color": "red"})

	want := "display: none; width: 600px; color: red; height: 400px;"
	if got := panel.Element().Style().CSSText(); got != want {
		t.Errorf("CSSText() = %q, want %q", got, want)
	}
}

func TestAppendAndRemove(t *testing.T) {
	doc := newDoc(t)
	panel, _ := Select(doc, "#panel")

	child := MustCreate(doc, "<span class='tag'>new</span>")
	panel.Append(child)
	if found, _ := doc.QuerySelector("#panel > span.tag"); found != child {
		t.Error("appended element not found under #panel")
	}

	panel.Remove()
	if found, _ := doc.QuerySelector("#panel"); found != nil {
		t.Error("#panel still in the document after Remove")
	}
}

func TestListeners(t *testing.T) {
	doc := newDoc(t)
	panel, _ := Select(doc, "#panel")

	clicks := 0
	l := panel.Click(func(*dom.Event) { clicks++ })
	panel.Element().Click()
	panel.RemoveListener("click", l)
	panel.Element().Click()
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}

	root, _ := Select(doc, DocumentSelector)
	ready := 0
	root.Ready(func(*dom.Event) { ready++ })
	doc.FireReady()
	if ready != 1 {
		t.Errorf("ready = %d, want 1", ready)
	}
}

func TestFade(t *testing.T) {
	doc := newDoc(t)
	s := loop.NewManual()
	panel, _ := Select(doc, "#panel", WithScheduler(s))

	done := false
	if err := panel.FadeIn(fx.Speed(time.Millisecond), fx.OnComplete(func() { done = true })); err != nil {
		t.Fatalf("FadeIn() error: %v", err)
	}
	s.Advance(11 * time.Millisecond)
	if !done {
		t.Fatal("fade in did not complete")
	}
	if got := panel.Element().Style().Opacity(); got != "1" {
		t.Errorf("opacity = %q, want %q", got, "1")
	}

	if err := panel.FadeOut(fx.Speed(time.Millisecond)); err != nil {
		t.Fatalf("FadeOut() error: %v", err)
	}
	s.Advance(10 * time.Millisecond)
	if got := panel.Element().Style().Display(); got != dom.DisplayNone {
		t.Errorf("display = %q, want %q", got, dom.DisplayNone)
	}

	bare := Wrap(panel.Element())
	if err := bare.FadeIn(); !errors.Is(err, ErrNoScheduler) {
		t.Errorf("FadeIn() without scheduler error = %v, want ErrNoScheduler", err)
	}
	if err := panel.With(panel.Element()).FadeOut(); err != nil {
		t.Errorf("With().FadeOut() error = %v", err)
	}
}

func TestConvertTimestamp(t *testing.T) {
	got := ConvertTimestamp(1_000_000_000).UTC()
	want := time.Date(2001, time.September, 9, 1, 46, 40, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("ConvertTimestamp() = %v, want %v", got, want)
	}
}
