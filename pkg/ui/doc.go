// Package ui provides two small widgets built on package mini: a dialog box
// and a sliding window set.
//
// A dialog restructures an element in place:
//
//	d, _ := mini.Select(doc, "#confirm", mini.WithScheduler(l))
//	err := ui.Dialog(d, ui.DialogOptions{
//	    Title: "Delete item?",
//	    Buttons: []ui.Button{
//	        {Label: "Delete", OnClick: onDelete},
//	        {Label: "Cancel", OnClick: func(*dom.Event) { ui.HideDialog(d) }},
//	    },
//	})
//	ui.ShowDialog(d)
//
// A slide show positions every descendant with class mini_ui_window and
// moves between them:
//
//	s, _ := mini.Select(doc, "#wizard")
//	ui.Slide(s)
//	ui.SlideTo(s, ui.Next)
package ui
