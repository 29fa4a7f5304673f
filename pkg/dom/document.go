package dom

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Sentinel errors for document operations.
var (
	// ErrInvalidSelector is returned when a CSS selector cannot be parsed.
	ErrInvalidSelector = errors.New("dom: invalid selector")

	// ErrNotElement is returned when an element operation is applied to a
	// non-element node such as the document root.
	ErrNotElement = errors.New("dom: not an element")
)

// EventReady is the event type fired by FireReady.
const EventReady = "DOMContentLoaded"

const blankDocument = "<!DOCTYPE html><html><head></head><body></body></html>"

type observer struct {
	id int
	fn func(Mutation)
}

// Document is an HTML document.
type Document struct {
	root      *html.Node
	elements  map[*html.Node]*Element
	observers []observer
	nextObs   int
	ready     bool
}

// NewDocument returns an empty HTML document with html, head and body.
func NewDocument() *Document {
	doc, err := ParseString(blankDocument)
	if err != nil {
		panic(err)
	}
	return doc
}

// Parse reads an HTML document.
func Parse(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("dom: parse: %w", err)
	}
	return &Document{
		root:     root,
		elements: make(map[*html.Node]*Element),
	}, nil
}

// ParseString parses an HTML document from a string.
func ParseString(s string) (*Document, error) {
	return Parse(strings.NewReader(s))
}

// Root returns the document node wrapped as an Element. Its TagName is
// "#document".
func (d *Document) Root() *Element {
	return d.element(d.root)
}

// DocumentElement returns the <html> element.
func (d *Document) DocumentElement() *Element {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			return d.element(c)
		}
	}
	return nil
}

// Head returns the <head> element, or nil.
func (d *Document) Head() *Element {
	return d.firstByAtom(atom.Head)
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *Element {
	return d.firstByAtom(atom.Body)
}

func (d *Document) firstByAtom(a atom.Atom) *Element {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && n.DataAtom == a {
			found = n
			return false
		}
		return true
	})
	if found == nil {
		return nil
	}
	return d.element(found)
}

// CreateElement creates a detached element owned by this document. The tag
// name is lower-cased.
func (d *Document) CreateElement(tag string) *Element {
	tag = strings.ToLower(tag)
	n := &html.Node{
		Type:     html.ElementNode,
		Data:     tag,
		DataAtom: atom.Lookup([]byte(tag)),
	}
	return d.element(n)
}

// QuerySelector returns the first descendant of the document matching sel,
// or nil when nothing matches.
func (d *Document) QuerySelector(sel string) (*Element, error) {
	return d.Root().QuerySelector(sel)
}

// QuerySelectorAll returns every descendant matching sel in document order.
func (d *Document) QuerySelectorAll(sel string) ([]*Element, error) {
	return d.Root().QuerySelectorAll(sel)
}

// GetElementsByTagName returns all elements named tag, or all elements
// when tag is "*".
func (d *Document) GetElementsByTagName(tag string) []*Element {
	return d.Root().GetElementsByTagName(tag)
}

// GetElementsByClassName returns all elements carrying class name.
func (d *Document) GetElementsByClassName(name string) []*Element {
	return d.Root().GetElementsByClassName(name)
}

// Observe registers fn to receive every mutation. The returned function
// removes the observer.
func (d *Document) Observe(fn func(Mutation)) (cancel func()) {
	d.nextObs++
	id := d.nextObs
	d.observers = append(d.observers, observer{id: id, fn: fn})
	return func() {
		for i, o := range d.observers {
			if o.id == id {
				d.observers = append(d.observers[:i:i], d.observers[i+1:]...)
				return
			}
		}
	}
}

// Ready reports whether FireReady has been called.
func (d *Document) Ready() bool {
	return d.ready
}

// FireReady dispatches DOMContentLoaded on the document root. Only the
// first call has an effect.
func (d *Document) FireReady() {
	if d.ready {
		return
	}
	d.ready = true
	d.Root().DispatchEvent(NewEvent(EventReady))
}

// Render writes the document as HTML.
func (d *Document) Render(w io.Writer) error {
	return html.Render(w, d.root)
}

// String returns the document as HTML.
func (d *Document) String() string {
	var buf bytes.Buffer
	_ = d.Render(&buf)
	return buf.String()
}

// element returns the Element wrapping n, creating it on first use.
func (d *Document) element(n *html.Node) *Element {
	if n == nil {
		return nil
	}
	if el, ok := d.elements[n]; ok {
		return el
	}
	el := &Element{node: n, doc: d}
	d.elements[n] = el
	return el
}

func (d *Document) notify(m Mutation) {
	for _, o := range d.observers {
		o.fn(m)
	}
}

// compileSelector parses a comma separated CSS selector group.
func compileSelector(sel string) (cascadia.Matcher, error) {
	s, err := cascadia.ParseGroup(sel)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrInvalidSelector, sel, err)
	}
	return s, nil
}

// walk visits n and its descendants in document order until visit returns
// false.
func walk(n *html.Node, visit func(*html.Node) bool) bool {
	if !visit(n) {
		return false
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if !walk(c, visit) {
			return false
		}
	}
	return true
}
