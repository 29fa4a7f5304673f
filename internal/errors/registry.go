package errors

import (
	stderrors "errors"
	"sort"

	"github.com/vango-dev/mini/pkg/ajax"
	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/mini"
	"github.com/vango-dev/mini/pkg/ui"
)

// ErrorTemplate defines a registered error.
type ErrorTemplate struct {
	Category   Category
	Message    string
	Detail     string
	Suggestion string
}

var registry = map[string]ErrorTemplate{
	// ============================================
	// Element Errors (E100-E109)
	// ============================================

	"E100": {
		Category:   CategoryElement,
		Message:    "Malformed element spec",
		Detail:     "An element spec is a single tag literal: an opening tag with single-quoted attributes, then either '/>' or the inner HTML and the matching closing tag.",
		Suggestion: "Write it as <tag name='value'>inner</tag> or <tag name='value'/>",
	},
	"E101": {
		Category: CategoryElement,
		Message:  "Invalid selector",
		Detail:   "The selector could not be parsed as a CSS selector group.",
	},
	"E102": {
		Category: CategoryElement,
		Message:  "No element matches the selector",
		Detail:   "The selector is valid but nothing in the document matches it.",
	},
	"E103": {
		Category: CategoryElement,
		Message:  "Invalid widget option",
		Detail:   "A dialog width or height was negative.",
	},

	// ============================================
	// Request Errors (E110-E119)
	// ============================================

	"E110": {
		Category: CategoryRequest,
		Message:  "Request failed",
		Detail:   "The server could not be reached or answered with a status other than 200.",
	},
	"E111": {
		Category:   CategoryRequest,
		Message:    "Invalid request",
		Detail:     "Requests need a URL, a GET or POST method, and data that is empty, a form-encoded string or form values.",
		Suggestion: "Pass form fields with --data key=value",
	},

	// ============================================
	// Config Errors (E120-E129)
	// ============================================

	"E120": {
		Category: CategoryConfig,
		Message:  "Invalid configuration",
		Detail:   "mini.json contains a value that is out of range.",
	},
	"E121": {
		Category:   CategoryConfig,
		Message:    "Configuration file not found",
		Detail:     "No mini.json was found at the given path.",
		Suggestion: "Run without --config to use the defaults",
	},
	"E122": {
		Category: CategoryConfig,
		Message:  "Configuration file is not valid JSON",
		Detail:   "mini.json could not be decoded.",
	},

	// ============================================
	// CLI Errors (E130-E139)
	// ============================================

	"E130": {
		Category: CategoryCLI,
		Message:  "Invalid argument",
		Detail:   "A command-line flag or argument has an invalid value.",
	},

	// ============================================
	// Server Errors (E140-E149)
	// ============================================

	"E140": {
		Category: CategoryServer,
		Message:  "Preview server failed",
		Detail:   "The preview server stopped with an error.",
	},
}

// classified maps library errors to codes, checked in order.
var classified = []struct {
	err  error
	code string
}{
	{mini.ErrParse, "E100"},
	{dom.ErrInvalidSelector, "E101"},
	{mini.ErrNotFound, "E102"},
	{ui.ErrInvalidOption, "E103"},
	{ajax.ErrEmptyURL, "E111"},
	{ajax.ErrInvalidMethod, "E111"},
	{ajax.ErrInvalidData, "E111"},
}

// Classify returns the code registered for a library error, or "".
func Classify(err error) string {
	for _, c := range classified {
		if stderrors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}

// GetAllCodes returns all registered codes, sorted.
func GetAllCodes() []string {
	codes := make([]string, 0, len(registry))
	for code := range registry {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// GetTemplate returns the template for a code.
func GetTemplate(code string) (ErrorTemplate, bool) {
	t, ok := registry[code]
	return t, ok
}

// Register adds or replaces a template.
func Register(code string, template ErrorTemplate) {
	registry[code] = template
}
