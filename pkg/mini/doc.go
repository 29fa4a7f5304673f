// Package mini is a small DOM convenience layer over package dom.
//
// Select wraps one element and exposes short-hand accessors, event binding
// and fades:
//
//	m, err := mini.Select(doc, "#notice", mini.WithScheduler(l))
//	if err != nil {
//	    return err
//	}
//	m.SetText("Saved")
//	m.Click(func(*dom.Event) { m.FadeOut() })
//
// Create builds a detached element from a single-tag literal:
//
//	btn, err := mini.Create(doc, "<button class='primary' type='submit'>Save</button>")
//
// Errors from Create are *ParseError and match ErrParse with errors.Is.
package mini
