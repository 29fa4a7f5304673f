package dom

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// Attribute is a single name/value pair on an element.
type Attribute struct {
	Name  string
	Value string
}

// Element is a handle to a node in a Document. Handles are unique per node,
// so two lookups of the same node return the same *Element.
type Element struct {
	node      *html.Node
	doc       *Document
	listeners map[string][]registration
	value     *string
}

// Node returns the underlying html node.
func (e *Element) Node() *html.Node {
	return e.node
}

// OwnerDocument returns the document the element belongs to.
func (e *Element) OwnerDocument() *Document {
	return e.doc
}

// IsElement reports whether the handle refers to an element node rather
// than the document root.
func (e *Element) IsElement() bool {
	return e.node.Type == html.ElementNode
}

// TagName returns the lower-case tag name, or "#document" for the root.
func (e *Element) TagName() string {
	if e.node.Type == html.DocumentNode {
		return "#document"
	}
	return e.node.Data
}

// =============================================================================
// Attributes
// =============================================================================

// GetAttribute returns the value of the named attribute and whether it is
// present.
func (e *Element) GetAttribute(name string) (string, bool) {
	for _, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			return a.Val, true
		}
	}
	return "", false
}

// HasAttribute reports whether the named attribute is present.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.GetAttribute(name)
	return ok
}

// SetAttribute sets the named attribute. New attributes are appended, so
// Attributes preserves the order in which they were first set.
func (e *Element) SetAttribute(name, value string) {
	if !e.IsElement() {
		return
	}
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr[i].Val = value
			e.mutated(Mutation{Kind: MutationAttributes, Name: name, Value: value})
			return
		}
	}
	e.node.Attr = append(e.node.Attr, html.Attribute{Key: name, Val: value})
	e.mutated(Mutation{Kind: MutationAttributes, Name: name, Value: value})
}

// RemoveAttribute deletes the named attribute if present.
func (e *Element) RemoveAttribute(name string) {
	for i, a := range e.node.Attr {
		if a.Namespace == "" && a.Key == name {
			e.node.Attr = append(e.node.Attr[:i:i], e.node.Attr[i+1:]...)
			e.mutated(Mutation{Kind: MutationAttributes, Name: name, Removed: true})
			return
		}
	}
}

// Attributes returns a copy of the element's attributes in order.
func (e *Element) Attributes() []Attribute {
	attrs := make([]Attribute, 0, len(e.node.Attr))
	for _, a := range e.node.Attr {
		name := a.Key
		if a.Namespace != "" {
			name = a.Namespace + ":" + a.Key
		}
		attrs = append(attrs, Attribute{Name: name, Value: a.Val})
	}
	return attrs
}

// ID returns the id attribute.
func (e *Element) ID() string {
	v, _ := e.GetAttribute("id")
	return v
}

// =============================================================================
// Content
// =============================================================================

// SetInnerHTML replaces the element's children with the parsed fragment.
func (e *Element) SetInnerHTML(s string) error {
	if !e.IsElement() {
		return ErrNotElement
	}
	nodes, err := html.ParseFragment(strings.NewReader(s), e.node)
	if err != nil {
		return fmt.Errorf("dom: inner html: %w", err)
	}
	e.clearChildren()
	for _, n := range nodes {
		e.node.AppendChild(n)
	}
	e.mutated(Mutation{Kind: MutationChildList})
	return nil
}

// InnerHTML serialises the element's children.
func (e *Element) InnerHTML() string {
	var buf bytes.Buffer
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		_ = html.Render(&buf, c)
	}
	return buf.String()
}

// OuterHTML serialises the element including its own tag.
func (e *Element) OuterHTML() string {
	var buf bytes.Buffer
	_ = html.Render(&buf, e.node)
	return buf.String()
}

// SetInnerText replaces the element's children with a single text node.
func (e *Element) SetInnerText(s string) {
	e.clearChildren()
	if s != "" {
		e.node.AppendChild(&html.Node{Type: html.TextNode, Data: s})
	}
	e.mutated(Mutation{Kind: MutationChildList})
}

// InnerText returns the concatenated text of all descendant text nodes.
func (e *Element) InnerText() string {
	var b strings.Builder
	walk(e.node, func(n *html.Node) bool {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		return true
	})
	return b.String()
}

// Value returns the form value. Until SetValue is called it reflects the
// value attribute.
func (e *Element) Value() string {
	if e.value != nil {
		return *e.value
	}
	v, _ := e.GetAttribute("value")
	return v
}

// SetValue sets the form value without touching the value attribute.
func (e *Element) SetValue(v string) {
	e.value = &v
}

func (e *Element) clearChildren() {
	for c := e.node.FirstChild; c != nil; {
		next := c.NextSibling
		e.node.RemoveChild(c)
		c = next
	}
}

// =============================================================================
// Tree
// =============================================================================

// Parent returns the parent element, the document root, or nil when the
// element is detached.
func (e *Element) Parent() *Element {
	return e.doc.element(e.node.Parent)
}

// Children returns the element children in order.
func (e *Element) Children() []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode {
			out = append(out, e.doc.element(c))
		}
	}
	return out
}

// AppendChild moves child to the end of e's children.
func (e *Element) AppendChild(child *Element) {
	if child == nil || child == e {
		return
	}
	if p := child.node.Parent; p != nil {
		p.RemoveChild(child.node)
	}
	e.node.AppendChild(child.node)
	e.mutated(Mutation{Kind: MutationChildList})
}

// Remove detaches the element from its parent.
func (e *Element) Remove() {
	p := e.node.Parent
	if p == nil {
		return
	}
	p.RemoveChild(e.node)
	e.doc.element(p).mutated(Mutation{Kind: MutationChildList})
}

// Contains reports whether other is e or a descendant of e.
func (e *Element) Contains(other *Element) bool {
	for n := other.node; n != nil; n = n.Parent {
		if n == e.node {
			return true
		}
	}
	return false
}

// GetElementsByTagName returns descendant elements named tag, or every
// descendant element when tag is "*".
func (e *Element) GetElementsByTagName(tag string) []*Element {
	tag = strings.ToLower(tag)
	return e.descendants(func(n *html.Node) bool {
		return tag == "*" || n.Data == tag
	})
}

// GetElementsByClassName returns descendant elements carrying class name.
func (e *Element) GetElementsByClassName(name string) []*Element {
	return e.descendants(func(n *html.Node) bool {
		return hasClass(n, name)
	})
}

// GetElementsByAttributeValue returns descendant elements whose attribute
// equals value.
func (e *Element) GetElementsByAttributeValue(attr, value string) []*Element {
	return e.descendants(func(n *html.Node) bool {
		for _, a := range n.Attr {
			if a.Namespace == "" && a.Key == attr {
				return a.Val == value
			}
		}
		return false
	})
}

// QuerySelector returns the first descendant matching sel, or nil.
func (e *Element) QuerySelector(sel string) (*Element, error) {
	m, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	n := cascadia.Query(e.node, m)
	if n == nil {
		return nil, nil
	}
	return e.doc.element(n), nil
}

// QuerySelectorAll returns all descendants matching sel in document order.
func (e *Element) QuerySelectorAll(sel string) ([]*Element, error) {
	m, err := compileSelector(sel)
	if err != nil {
		return nil, err
	}
	nodes := cascadia.QueryAll(e.node, m)
	out := make([]*Element, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, e.doc.element(n))
	}
	return out, nil
}

// Matches reports whether the element matches sel.
func (e *Element) Matches(sel string) (bool, error) {
	m, err := compileSelector(sel)
	if err != nil {
		return false, err
	}
	return m.Match(e.node), nil
}

func (e *Element) descendants(match func(*html.Node) bool) []*Element {
	var out []*Element
	for c := e.node.FirstChild; c != nil; c = c.NextSibling {
		walk(c, func(n *html.Node) bool {
			if n.Type == html.ElementNode && match(n) {
				out = append(out, e.doc.element(n))
			}
			return true
		})
	}
	return out
}

// =============================================================================
// Style and classes
// =============================================================================

// Style returns the element's inline style declaration block.
func (e *Element) Style() *Style {
	return &Style{el: e}
}

// ClassList returns the element's class list.
func (e *Element) ClassList() *ClassList {
	return &ClassList{el: e}
}

func (e *Element) mutated(m Mutation) {
	m.Target = e
	e.doc.notify(m)
}

// String returns the element's outer HTML.
func (e *Element) String() string {
	return e.OuterHTML()
}
