// Package dom provides a small, mutable HTML document model.
//
// A Document wraps a golang.org/x/net/html node tree. Elements are thin
// handles over *html.Node with the operations a DOM convenience library
// needs: ordered attributes, inner HTML and text, an inline style
// declaration block, a class list, event listeners and CSS selector queries.
//
// # Threading
//
// A Document is not safe for concurrent use. All access must happen on one
// goroutine, normally the goroutine of a loop.Loop:
//
//	l.Dispatch(func() {
//	    el, _ := doc.QuerySelector("#banner")
//	    el.Style().Set("display", "none")
//	})
//
// # Mutations
//
// Every attribute or child list change is reported to observers registered
// with Document.Observe. Style changes are attribute changes on "style".
package dom
