package ui

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/fx"
	"github.com/vango-dev/mini/pkg/mini"
)

// ErrInvalidOption is returned when a widget option is out of range.
var ErrInvalidOption = errors.New("ui: option is invalid")

// Dialog defaults.
const (
	DefaultDialogWidth  = 600
	DefaultDialogHeight = 400

	// DialogSpeed is the fade interval used by ShowDialog and HideDialog.
	DialogSpeed = 25 * time.Millisecond
)

// Class names of the parts Dialog creates.
const (
	ClassDialogTitle   = "mini_ui_dialog_title"
	ClassDialogContent = "mini_ui_dialog_content"
	ClassDialogButtons = "mini_ui_dialog_buttons"
)

// Button is one dialog button. Label is inserted as HTML.
type Button struct {
	Label   string
	OnClick func(*dom.Event)
}

// DialogOptions configures Dialog. Zero Width or Height selects the default.
type DialogOptions struct {
	Title   string
	Width   int
	Height  int
	Buttons []Button
}

func (o *DialogOptions) applyDefaults() error {
	if o.Width < 0 {
		return fmt.Errorf("%w: width %d", ErrInvalidOption, o.Width)
	}
	if o.Height < 0 {
		return fmt.Errorf("%w: height %d", ErrInvalidOption, o.Height)
	}
	if o.Width == 0 {
		o.Width = DefaultDialogWidth
	}
	if o.Height == 0 {
		o.Height = DefaultDialogHeight
	}
	return nil
}

// Dialog turns the wrapped element into a dialog box. Its current content
// moves into a content block placed after a title block; when Buttons is
// non-nil a button block follows with one button per entry, in order.
// Width and height are set in pixels. The element is not shown; use
// ShowDialog.
func Dialog(m *mini.Mini, opts DialogOptions) error {
	if err := opts.applyDefaults(); err != nil {
		return err
	}
	el := m.Element()
	doc := m.Document()

	content := el.InnerHTML()
	if err := el.SetInnerHTML(""); err != nil {
		return err
	}

	m.CSS("width", strconv.Itoa(opts.Width)+"px")
	m.CSS("height", strconv.Itoa(opts.Height)+"px")

	title, err := block(doc, ClassDialogTitle, opts.Title)
	if err != nil {
		return err
	}
	body, err := block(doc, ClassDialogContent, content)
	if err != nil {
		return err
	}

	el.AppendChild(title)
	el.AppendChild(body)

	if opts.Buttons != nil {
		bar, err := block(doc, ClassDialogButtons, "")
		if err != nil {
			return err
		}
		for _, b := range opts.Buttons {
			btn, err := mini.Create(doc, "<button id=''></button>")
			if err != nil {
				return err
			}
			if err := btn.SetInnerHTML(b.Label); err != nil {
				return err
			}
			if b.OnClick != nil {
				m.With(btn).Click(b.OnClick)
			}
			bar.AppendChild(btn)
		}
		el.AppendChild(bar)
	}
	return nil
}

// block creates a div with class and inner HTML. The inner HTML is set
// after Create so that quotes in it never reach the literal parser.
func block(doc *dom.Document, class, inner string) (*dom.Element, error) {
	el, err := mini.Create(doc, "<div class='"+class+"'></div>")
	if err != nil {
		return nil, err
	}
	if err := el.SetInnerHTML(inner); err != nil {
		return nil, err
	}
	return el, nil
}

// ShowDialog fades the dialog in.
func ShowDialog(m *mini.Mini) error {
	return m.FadeIn(fx.Speed(DialogSpeed))
}

// HideDialog fades the dialog out.
func HideDialog(m *mini.Mini) error {
	return m.FadeOut(fx.Speed(DialogSpeed))
}
