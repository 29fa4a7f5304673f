package mini

import (
	"strings"
	"unicode"

	"github.com/vango-dev/mini/pkg/dom"
)

const selfClose = "/>"

// elementSpec is the parsed form of a single-tag literal.
type elementSpec struct {
	tag         string
	attrs       []dom.Attribute
	inner       string
	selfClosing bool
}

// Create builds a detached element from a single-tag HTML literal:
//
//	<tag name='value' other='value'>inner html</tag>
//	<tag name='value'/>
//
// Attribute values use single quotes and cannot contain one. Attributes are
// set in the order written, trimmed of surrounding whitespace. '=' is only a
// separator and is dropped from values too, so 'x?a=b' becomes "x?ab".
// Everything between the end of the opening tag and the closing tag is
// assigned verbatim as inner HTML; it is opaque, so quotes and markup there
// are not inspected. A self-closing literal gets no inner HTML assignment.
//
// Create returns a *ParseError when the literal does not start with a tag,
// when quoting inside the opening tag is unbalanced, or when it does not end in "/>" or the
// matching closing tag.
func Create(doc *dom.Document, spec string) (*dom.Element, error) {
	s, err := parseSpec(spec)
	if err != nil {
		return nil, err
	}

	el := doc.CreateElement(s.tag)
	for _, a := range s.attrs {
		el.SetAttribute(a.Name, a.Value)
	}
	if !s.selfClosing {
		if err := el.SetInnerHTML(s.inner); err != nil {
			return nil, &ParseError{Spec: spec, Reason: err.Error()}
		}
	}
	return el, nil
}

// MustCreate is like Create but panics on error. It is meant for literals
// written in source code.
func MustCreate(doc *dom.Document, spec string) *dom.Element {
	el, err := Create(doc, spec)
	if err != nil {
		panic(err)
	}
	return el
}

func parseSpec(spec string) (elementSpec, error) {
	var s elementSpec

	src := strings.TrimSpace(spec)
	if !strings.HasPrefix(src, "<") {
		return s, parseErrorf(spec, "missing tag token")
	}

	// Tag name runs from '<' to the first space, '>' or '/'.
	end := 1
	for end < len(src) && !isTagDelim(rune(src[end])) {
		end++
	}
	s.tag = src[1:end]
	if s.tag == "" || !unicode.IsLetter(rune(s.tag[0])) {
		return s, parseErrorf(spec, "missing tag token")
	}

	rest := src[end:]
	pos := 0
	for {
		pos = skipSpace(rest, pos)
		if pos >= len(rest) {
			return s, parseErrorf(spec, "unterminated opening tag")
		}
		if rest[pos] == '>' || strings.HasPrefix(rest[pos:], selfClose) {
			break
		}

		nameStart := pos
		for pos < len(rest) && !isNameDelim(rest[pos]) {
			pos++
		}
		name := rest[nameStart:pos]
		if name == "" {
			return s, parseErrorf(spec, "attribute without a name at offset %d", end+nameStart)
		}

		// Separators between name and value are optional; only the quote matters.
		pos = skipSpace(rest, pos)
		for pos < len(rest) && rest[pos] == '=' {
			pos++
		}
		pos = skipSpace(rest, pos)
		if pos >= len(rest) || rest[pos] != '\'' {
			return s, parseErrorf(spec, "attribute %q has no quoted value", name)
		}

		closing := strings.IndexByte(rest[pos+1:], '\'')
		if closing < 0 {
			return s, parseErrorf(spec, "unbalanced quote in attribute %q", name)
		}
		value := rest[pos+1 : pos+1+closing]
		pos += closing + 2

		s.attrs = append(s.attrs, dom.Attribute{
			Name:  strings.TrimSpace(name),
			Value: strings.TrimSpace(strings.ReplaceAll(value, "=", "")),
		})
	}

	tail := strings.TrimSpace(rest[pos:])
	if tail == selfClose {
		s.selfClosing = true
		return s, nil
	}

	closeTag := "</" + s.tag + ">"
	if len(tail) < 1+len(closeTag) || tail[0] != '>' || !strings.EqualFold(tail[len(tail)-len(closeTag):], closeTag) {
		return s, parseErrorf(spec, "expected %q or \">...%s\"", selfClose, closeTag)
	}
	s.inner = tail[1 : len(tail)-len(closeTag)]
	return s, nil
}

func isTagDelim(r rune) bool {
	return unicode.IsSpace(r) || r == '>' || r == '/'
}

func isNameDelim(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '=', '\'', '>', '/':
		return true
	}
	return false
}

func skipSpace(s string, pos int) int {
	for pos < len(s) && unicode.IsSpace(rune(s[pos])) {
		pos++
	}
	return pos
}
