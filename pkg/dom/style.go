package dom

import (
	"strings"

	"github.com/aymerick/douceur/css"
	"github.com/aymerick/douceur/parser"
)

// Common inline style values.
const (
	DisplayBlock = "block"
	DisplayNone  = "none"
)

// Declaration is one property of an inline style.
type Declaration struct {
	Property  string
	Value     string
	Important bool
}

// Style is the inline style of an element, backed by its style attribute.
// Declarations keep the order in which properties were first set.
type Style struct {
	el *Element
}

// Declarations parses the style attribute. An unparsable attribute yields
// no declarations.
func (s *Style) Declarations() []Declaration {
	_, decls, err := s.parse()
	if err != nil {
		return nil
	}
	return decls
}

// parse returns the raw attribute text and its declarations.
func (s *Style) parse() (string, []Declaration, error) {
	text, ok := s.el.GetAttribute("style")
	if !ok || strings.TrimSpace(text) == "" {
		return "", nil, nil
	}
	decls, err := parseDeclarations(text)
	return text, decls, err
}

// Get returns the value of prop, or "" when unset.
func (s *Style) Get(prop string) string {
	prop = strings.ToLower(prop)
	for _, d := range s.Declarations() {
		if d.Property == prop {
			return d.Value
		}
	}
	return ""
}

// Set assigns prop. An empty value removes the property. When the style
// attribute cannot be parsed its text is kept: a new declaration is appended
// after it and removals are ignored.
func (s *Style) Set(prop, value string) {
	prop = strings.ToLower(strings.TrimSpace(prop))
	if prop == "" {
		return
	}
	value = strings.TrimSpace(value)
	raw, decls, err := s.parse()
	if err != nil {
		if value != "" {
			raw = strings.TrimSpace(raw)
			if !strings.HasSuffix(raw, ";") {
				raw += ";"
			}
			s.el.SetAttribute("style", raw+" "+serialize([]Declaration{{Property: prop, Value: value}}))
		}
		return
	}
	for i, d := range decls {
		if d.Property != prop {
			continue
		}
		if value == "" {
			decls = append(decls[:i:i], decls[i+1:]...)
		} else {
			decls[i].Value = value
			decls[i].Important = false
		}
		s.write(decls)
		return
	}
	if value == "" {
		return
	}
	s.write(append(decls, Declaration{Property: prop, Value: value}))
}

// Remove deletes prop.
func (s *Style) Remove(prop string) {
	s.Set(prop, "")
}

// CSSText returns the serialised declarations.
func (s *Style) CSSText() string {
	return serialize(s.Declarations())
}

// SetCSSText replaces all declarations with those parsed from text.
func (s *Style) SetCSSText(text string) {
	if strings.TrimSpace(text) == "" {
		s.el.RemoveAttribute("style")
		return
	}
	decls, err := parseDeclarations(text)
	if err != nil {
		s.el.SetAttribute("style", text)
		return
	}
	s.write(decls)
}

// Opacity returns the opacity property.
func (s *Style) Opacity() string { return s.Get("opacity") }

// Display returns the display property.
func (s *Style) Display() string { return s.Get("display") }

func (s *Style) write(decls []Declaration) {
	if len(decls) == 0 {
		s.el.RemoveAttribute("style")
		return
	}
	s.el.SetAttribute("style", serialize(decls))
}

func serialize(decls []Declaration) string {
	parts := make([]string, 0, len(decls))
	for _, d := range decls {
		v := d.Value
		if d.Important {
			v += " !important"
		}
		parts = append(parts, d.Property+": "+v+";")
	}
	return strings.Join(parts, " ")
}

// parseDeclarations parses a declaration list. The parser only closes a
// declaration on ';', so a missing final terminator is added.
func parseDeclarations(text string) ([]Declaration, error) {
	text = strings.TrimSpace(text)
	if !strings.HasSuffix(text, ";") {
		text += ";"
	}
	decls, err := parser.ParseDeclarations(text)
	if err != nil {
		return nil, err
	}
	return fromCSS(decls), nil
}

func fromCSS(decls []*css.Declaration) []Declaration {
	out := make([]Declaration, 0, len(decls))
	for _, d := range decls {
		out = append(out, Declaration{
			Property:  strings.ToLower(strings.TrimSpace(d.Property)),
			Value:     strings.TrimSpace(d.Value),
			Important: d.Important,
		})
	}
	return out
}
