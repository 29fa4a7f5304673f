package errors

import (
	"bufio"
	stderrors "errors"
	"fmt"
	"os"
)

// Category groups error codes.
type Category string

const (
	CategoryElement Category = "element"
	CategoryRequest Category = "request"
	CategoryConfig  Category = "config"
	CategoryCLI     Category = "cli"
	CategoryServer  Category = "server"
)

// Location points into a file, such as mini.json.
type Location struct {
	File   string
	Line   int
	Column int
}

// String returns the location as file:line[:column].
func (l *Location) String() string {
	if l == nil {
		return ""
	}
	if l.Column > 0 {
		return fmt.Sprintf("%s:%d:%d", l.File, l.Line, l.Column)
	}
	return fmt.Sprintf("%s:%d", l.File, l.Line)
}

// MiniError is a coded error with an explanation and an optional hint,
// shown by the CLI.
type MiniError struct {
	// Code is the registry code, e.g. "E100".
	Code string

	Category Category

	// Message is a short description.
	Message string

	// Detail is a longer explanation.
	Detail string

	// Location is set for errors tied to a file.
	Location *Location

	// Context holds the lines around Location, or the offending input.
	Context []string

	// Suggestion is a hint on how to fix the error.
	Suggestion string

	// Wrapped is the underlying error.
	Wrapped error
}

// Error implements the error interface.
func (e *MiniError) Error() string {
	msg := e.Message
	if e.Code != "" {
		msg = e.Code + ": " + msg
	}
	if e.Wrapped != nil {
		msg += ": " + e.Wrapped.Error()
	}
	return msg
}

// Unwrap returns the wrapped error.
func (e *MiniError) Unwrap() error {
	return e.Wrapped
}

// WithLocation records a file position and reads the surrounding lines.
func (e *MiniError) WithLocation(file string, line, column int) *MiniError {
	e.Location = &Location{File: file, Line: line, Column: column}
	e.Context = readContextLines(file, line, 5)
	return e
}

// WithSuggestion adds a hint.
func (e *MiniError) WithSuggestion(s string) *MiniError {
	e.Suggestion = s
	return e
}

// WithDetail replaces the registered explanation.
func (e *MiniError) WithDetail(d string) *MiniError {
	e.Detail = d
	return e
}

// WithContext sets the context lines, e.g. the input that failed.
func (e *MiniError) WithContext(lines ...string) *MiniError {
	e.Context = lines
	return e
}

// Wrap sets the underlying error.
func (e *MiniError) Wrap(err error) *MiniError {
	e.Wrapped = err
	return e
}

func readContextLines(filename string, targetLine, contextSize int) []string {
	file, err := os.Open(filename)
	if err != nil {
		return nil
	}
	defer file.Close()

	var lines []string
	scanner := bufio.NewScanner(file)
	lineNum := 0
	startLine := targetLine - contextSize/2
	endLine := targetLine + contextSize/2

	for scanner.Scan() {
		lineNum++
		if lineNum >= startLine && lineNum <= endLine {
			lines = append(lines, scanner.Text())
		}
		if lineNum > endLine {
			break
		}
	}
	return lines
}

// New creates a MiniError from a registered code.
func New(code string) *MiniError {
	template, ok := registry[code]
	if !ok {
		return &MiniError{Code: code, Message: "Unknown error"}
	}
	return &MiniError{
		Code:       code,
		Category:   template.Category,
		Message:    template.Message,
		Detail:     template.Detail,
		Suggestion: template.Suggestion,
	}
}

// Newf creates an uncoded MiniError.
func Newf(category Category, format string, args ...any) *MiniError {
	return &MiniError{
		Category: category,
		Message:  fmt.Sprintf(format, args...),
	}
}

// FromError returns err as a *MiniError. Errors already in the chain are
// returned as is; known library errors get their own code; anything else
// is wrapped under fallback.
func FromError(err error, fallback string) *MiniError {
	if err == nil {
		return nil
	}
	var me *MiniError
	if stderrors.As(err, &me) {
		return me
	}
	if code := Classify(err); code != "" {
		return New(code).Wrap(err)
	}
	return New(fallback).Wrap(err)
}
