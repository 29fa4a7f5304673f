package dom

import (
	"strings"

	"golang.org/x/net/html"
)

// ClassList manipulates the class attribute of an element.
type ClassList struct {
	el *Element
}

// Values returns the classes in order.
func (c *ClassList) Values() []string {
	v, _ := c.el.GetAttribute("class")
	return strings.Fields(v)
}

// Contains reports whether name is present.
func (c *ClassList) Contains(name string) bool {
	for _, v := range c.Values() {
		if v == name {
			return true
		}
	}
	return false
}

// Add appends name when it is not already present.
func (c *ClassList) Add(name string) {
	if name == "" || c.Contains(name) {
		return
	}
	c.el.SetAttribute("class", strings.Join(append(c.Values(), name), " "))
}

// Remove deletes every occurrence of name.
func (c *ClassList) Remove(name string) {
	values := c.Values()
	kept := values[:0]
	for _, v := range values {
		if v != name {
			kept = append(kept, v)
		}
	}
	if len(kept) == len(values) {
		return
	}
	c.el.SetAttribute("class", strings.Join(kept, " "))
}

// Toggle removes name if present, otherwise adds it. It reports whether
// name is present afterwards.
func (c *ClassList) Toggle(name string) bool {
	if c.Contains(name) {
		c.Remove(name)
		return false
	}
	c.Add(name)
	return true
}

func hasClass(n *html.Node, name string) bool {
	for _, a := range n.Attr {
		if a.Namespace == "" && a.Key == "class" {
			for _, v := range strings.Fields(a.Val) {
				if v == name {
					return true
				}
			}
		}
	}
	return false
}
