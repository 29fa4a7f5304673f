package mini

import (
	"fmt"
	"sort"
	"time"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/fx"
	"github.com/vango-dev/mini/pkg/loop"
)

// DocumentSelector selects the document root instead of an element.
const DocumentSelector = "document"

// Option configures a Mini wrapper.
type Option func(*Mini)

// WithScheduler sets the scheduler used by FadeIn and FadeOut.
func WithScheduler(s loop.Scheduler) Option {
	return func(m *Mini) {
		m.sched = s
	}
}

// WithAnimator sets the animator used by FadeIn and FadeOut. It takes
// precedence over WithScheduler.
func WithAnimator(a *fx.Animator) Option {
	return func(m *Mini) {
		m.anim = a
	}
}

// Mini wraps one element and offers short-hand accessors for it.
type Mini struct {
	elem  *dom.Element
	count int
	sched loop.Scheduler
	anim  *fx.Animator
}

// Select wraps the first element of doc matching selector. The selector
// "document" wraps the document root. Select returns ErrNotFound when
// nothing matches.
func Select(doc *dom.Document, selector string, opts ...Option) (*Mini, error) {
	if selector == DocumentSelector {
		return Wrap(doc.Root(), opts...), nil
	}
	all, err := doc.QuerySelectorAll(selector)
	if err != nil {
		return nil, err
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrNotFound, selector)
	}
	m := Wrap(all[0], opts...)
	m.count = len(all)
	return m, nil
}

// Wrap wraps an element directly.
func Wrap(el *dom.Element, opts ...Option) *Mini {
	m := &Mini{elem: el, count: 1}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// With wraps another element sharing m's scheduler and animator.
func (m *Mini) With(el *dom.Element) *Mini {
	return &Mini{elem: el, count: 1, sched: m.sched, anim: m.anim}
}

// Element returns the wrapped element.
func (m *Mini) Element() *dom.Element {
	return m.elem
}

// Document returns the wrapped element's document.
func (m *Mini) Document() *dom.Document {
	return m.elem.OwnerDocument()
}

// Count returns how many elements the selector matched.
func (m *Mini) Count() int {
	return m.count
}

// =============================================================================
// Animations
// =============================================================================

// FadeIn fades the element in. See fx.Animator.FadeIn.
func (m *Mini) FadeIn(opts ...fx.Option) error {
	a, err := m.animator()
	if err != nil {
		return err
	}
	a.FadeIn(m.elem, opts...)
	return nil
}

// FadeOut fades the element out. See fx.Animator.FadeOut.
func (m *Mini) FadeOut(opts ...fx.Option) error {
	a, err := m.animator()
	if err != nil {
		return err
	}
	a.FadeOut(m.elem, opts...)
	return nil
}

func (m *Mini) animator() (*fx.Animator, error) {
	if m.anim != nil {
		return m.anim, nil
	}
	if m.sched == nil {
		return nil, ErrNoScheduler
	}
	m.anim = fx.New(m.sched)
	return m.anim, nil
}

// =============================================================================
// Events
// =============================================================================

// AddListener registers fn for event and returns the listener so it can be
// removed later.
func (m *Mini) AddListener(event string, fn func(*dom.Event), capture bool) *dom.Listener {
	l := dom.NewListener(fn)
	m.elem.AddEventListener(event, l, capture)
	return l
}

// RemoveListener unregisters a listener returned by AddListener.
func (m *Mini) RemoveListener(event string, l *dom.Listener) {
	m.elem.RemoveEventListener(event, l)
}

// Click registers fn for click events.
func (m *Mini) Click(fn func(*dom.Event)) *dom.Listener {
	return m.AddListener("click", fn, false)
}

// Ready registers fn for the DOMContentLoaded event.
func (m *Mini) Ready(fn func(*dom.Event)) *dom.Listener {
	return m.AddListener(dom.EventReady, fn, false)
}

// =============================================================================
// Tree and lookups
// =============================================================================

// ToggleClass toggles a class on the element.
func (m *Mini) ToggleClass(name string) {
	m.elem.ClassList().Toggle(name)
}

// Remove detaches the element from the document.
func (m *Mini) Remove() {
	m.elem.Remove()
}

// Append appends child to the element.
func (m *Mini) Append(child *dom.Element) {
	m.elem.AppendChild(child)
}

// GetElementsByAttributeValue returns descendants whose attribute equals
// value.
func (m *Mini) GetElementsByAttributeValue(attr, value string) []*dom.Element {
	return m.elem.GetElementsByAttributeValue(attr, value)
}

// GetElementsByTagName returns descendants named tag.
func (m *Mini) GetElementsByTagName(tag string) []*dom.Element {
	return m.elem.GetElementsByTagName(tag)
}

// =============================================================================
// Accessors
// =============================================================================

// Value returns the element's form value.
func (m *Mini) Value() string {
	return m.elem.Value()
}

// SetValue sets the form value and returns it.
func (m *Mini) SetValue(v string) string {
	m.elem.SetValue(v)
	return m.elem.Value()
}

// HTML returns the inner HTML.
func (m *Mini) HTML() string {
	return m.elem.InnerHTML()
}

// SetHTML replaces the inner HTML and returns the serialised result.
func (m *Mini) SetHTML(html string) (string, error) {
	if err := m.elem.SetInnerHTML(html); err != nil {
		return "", err
	}
	return m.elem.InnerHTML(), nil
}

// Text returns the inner text.
func (m *Mini) Text() string {
	return m.elem.InnerText()
}

// SetText replaces the content with text and returns it.
func (m *Mini) SetText(text string) string {
	m.elem.SetInnerText(text)
	return m.elem.InnerText()
}

// Attr returns an attribute value and whether it is present.
func (m *Mini) Attr(name string) (string, bool) {
	return m.elem.GetAttribute(name)
}

// SetAttr sets an attribute.
func (m *Mini) SetAttr(name, value string) {
	m.elem.SetAttribute(name, value)
}

// CSS sets one inline style property, keeping the others.
func (m *Mini) CSS(prop, value string) {
	m.elem.Style().Set(prop, value)
}

// CSSMap sets several inline style properties in property name order.
func (m *Mini) CSSMap(props map[string]string) {
	keys := make([]string, 0, len(props))
	for k := range props {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		m.elem.Style().Set(k, props[k])
	}
}

// ConvertTimestamp converts a Unix timestamp in seconds to a time.Time.
func ConvertTimestamp(seconds int64) time.Time {
	return time.Unix(seconds, 0)
}
