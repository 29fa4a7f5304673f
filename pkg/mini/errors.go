package mini

import (
	"errors"
	"fmt"
)

// Sentinel errors for selection and element construction.
var (
	// ErrNotFound is returned by Select when the selector matches nothing.
	ErrNotFound = errors.New("mini: cannot find selector")

	// ErrParse is matched by every *ParseError.
	ErrParse = errors.New("mini: malformed element spec")

	// ErrNoScheduler is returned by FadeIn and FadeOut when the wrapper has
	// neither a scheduler nor an animator.
	ErrNoScheduler = errors.New("mini: no scheduler configured")
)

// ParseError reports an element spec that Create cannot build.
type ParseError struct {
	Spec   string // the input spec
	Reason string // what was wrong with it
}

// Error returns the reason together with the offending spec.
func (e *ParseError) Error() string {
	return fmt.Sprintf("mini: malformed element spec %q: %s", e.Spec, e.Reason)
}

// Is reports whether target is ErrParse.
func (e *ParseError) Is(target error) bool {
	return target == ErrParse
}

func parseErrorf(spec, format string, args ...any) *ParseError {
	return &ParseError{Spec: spec, Reason: fmt.Sprintf(format, args...)}
}
