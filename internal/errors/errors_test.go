package errors

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vango-dev/mini/pkg/ajax"
	"github.com/vango-dev/mini/pkg/dom"
	"github.com/vango-dev/mini/pkg/mini"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name    string
		code    string
		wantMsg string
		wantCat Category
	}{
		{"element error", "E100", "Malformed element spec", CategoryElement},
		{"request error", "E110", "Request failed", CategoryRequest},
		{"config error", "E121", "Configuration file not found", CategoryConfig},
		{"unknown error code", "E999", "Unknown error", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := New(tt.code)
			if err.Message != tt.wantMsg {
				t.Errorf("Message = %q, want %q", err.Message, tt.wantMsg)
			}
			if err.Category != tt.wantCat {
				t.Errorf("Category = %q, want %q", err.Category, tt.wantCat)
			}
			if err.Code != tt.code {
				t.Errorf("Code = %q, want %q", err.Code, tt.code)
			}
		})
	}
}

func TestMiniError_Error(t *testing.T) {
	if got, want := New("E130").Error(), "E130: Invalid argument"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	wrapped := New("E110").Wrap(fmt.Errorf("status 404"))
	if got, want := wrapped.Error(), "E110: Request failed: status 404"; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	plain := Newf(CategoryCLI, "bad %s", "flag")
	if plain.Error() != "bad flag" {
		t.Errorf("Error() = %q, want %q", plain.Error(), "bad flag")
	}
}

func TestMiniError_WithLocation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mini.json")
	content := "{\n  \"fade\": {\n    \"speed\": 25\n  }\n}\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	err := New("E122").WithLocation(path, 3, 14)
	if err.Location.String() != path+":3:14" {
		t.Errorf("Location = %q", err.Location.String())
	}
	if len(err.Context) == 0 {
		t.Fatal("Context should not be empty")
	}

	DisableColors()
	defer EnableColors()
	out := err.Format()
	if !strings.Contains(out, "→    3 │     \"speed\": 25") {
		t.Errorf("Format() does not mark line 3:\n%s", out)
	}
	if !strings.Contains(out, strings.Repeat(" ", 13)+"^") {
		t.Errorf("Format() does not mark column 14:\n%s", out)
	}
}

func TestFromError(t *testing.T) {
	if FromError(nil, "E110") != nil {
		t.Error("FromError(nil) should be nil")
	}

	existing := New("E121")
	wrapped := fmt.Errorf("loading: %w", existing)
	if got := FromError(wrapped, "E110"); got != existing {
		t.Errorf("FromError() = %v, want the wrapped MiniError", got)
	}

	_, parseErr := mini.Create(dom.NewDocument(), "<a href='x>y</a>")
	tests := []struct {
		err  error
		want string
	}{
		{parseErr, "E100"},
		{fmt.Errorf("select: %w", dom.ErrInvalidSelector), "E101"},
		{mini.ErrNotFound, "E102"},
		{ajax.ErrInvalidMethod, "E111"},
		{stderrors.New("boom"), "E140"},
	}
	for _, tt := range tests {
		got := FromError(tt.err, "E140")
		if got.Code != tt.want {
			t.Errorf("FromError(%v).Code = %q, want %q", tt.err, got.Code, tt.want)
		}
		if !stderrors.Is(got, tt.err) {
			t.Errorf("FromError(%v) does not wrap the original error", tt.err)
		}
	}
}

func TestFormat(t *testing.T) {
	DisableColors()
	defer EnableColors()

	err := New("E100").WithContext("<a href='x>y</a>")
	out := err.Format()

	for _, want := range []string{
		"ERROR E100: Malformed element spec",
		"│ <a href='x>y</a>",
		"Hint: Write it as",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("Format() missing %q:\n%s", want, out)
		}
	}
	if strings.Contains(out, "\x1b[") {
		t.Error("Format() contains escape codes with colors disabled")
	}
}

func TestFormat_Colors(t *testing.T) {
	EnableColors()
	if out := New("E130").Format(); !strings.Contains(out, "\x1b[") {
		t.Errorf("Format() has no escape codes with colors enabled: %q", out)
	}
}

func TestFormatCompact(t *testing.T) {
	err := New("E120")
	err.Location = &Location{File: "mini.json", Line: 4}
	if got, want := err.FormatCompact(), "mini.json:4: E120: Invalid configuration"; got != want {
		t.Errorf("FormatCompact() = %q, want %q", got, want)
	}
}

func TestFormatJSON(t *testing.T) {
	got := New("E110").Wrap(stderrors.New("timeout")).FormatJSON()
	for _, want := range []string{`"code":"E110"`, `"category":"request"`, `"cause":"timeout"`} {
		if !strings.Contains(got, want) {
			t.Errorf("FormatJSON() = %s, missing %s", got, want)
		}
	}
}

func TestFprint(t *testing.T) {
	DisableColors()
	defer EnableColors()

	var buf bytes.Buffer
	Fprint(&buf, stderrors.New("plain failure"))
	if !strings.Contains(buf.String(), "ERROR: plain failure") {
		t.Errorf("Fprint() = %q", buf.String())
	}
}

func TestRegistry(t *testing.T) {
	codes := GetAllCodes()
	for i := 1; i < len(codes); i++ {
		if codes[i-1] >= codes[i] {
			t.Errorf("GetAllCodes() not sorted at %d: %v", i, codes)
		}
	}
	for _, code := range codes {
		tmpl, _ := GetTemplate(code)
		if tmpl.Message == "" || tmpl.Category == "" {
			t.Errorf("template %s is incomplete: %+v", code, tmpl)
		}
	}

	Register("E199", ErrorTemplate{Category: CategoryCLI, Message: "Custom"})
	defer delete(registry, "E199")
	if New("E199").Message != "Custom" {
		t.Error("Register() did not add the template")
	}
}

func TestWrapText(t *testing.T) {
	lines := wrapText("one two three four five six", 10)
	for _, l := range lines {
		if len(l) > 10 {
			t.Errorf("line %q longer than 10", l)
		}
	}
	if strings.Join(lines, " ") != "one two three four five six" {
		t.Errorf("wrapText lost words: %v", lines)
	}
}
