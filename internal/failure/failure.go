// Package failure defines the error kinds produced while converting an export.
// Callers classify an error with errors.Is against one of the sentinel kinds.
package failure

import (
	"errors"
	"fmt"
)

// Error kinds.
var (
	ErrInputNotFound  = errors.New("input not found")
	ErrMalformedInput = errors.New("malformed input")
	ErrMissingField   = errors.New("missing field")
	ErrIdentityLookup = errors.New("identity not mapped")
	ErrIOWrite        = errors.New("write failed")
)

// Error attaches a kind, the file being processed and an optional cause to a
// message.
type Error struct {
	Kind error
	Path string
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	s := e.Kind.Error()
	if e.Msg != "" {
		s += ": " + e.Msg
	}
	if e.Err != nil {
		s += ": " + e.Err.Error()
	}
	if e.Path != "" {
		s = e.Path + ": " + s
	}
	return s
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// New returns an error of the given kind with a formatted message.
func New(kind error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Wrap returns an error of the given kind caused by err.
func Wrap(kind error, err error, format string, args ...any) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...), Err: err}
}

// WithPath records the file an error relates to. Errors that already carry a
// path are returned unchanged; other errors are wrapped without changing
// their kind.
func WithPath(err error, path string) error {
	if err == nil {
		return nil
	}
	if fe, ok := err.(*Error); ok {
		if fe.Path != "" {
			return err
		}
		cp := *fe
		cp.Path = path
		return &cp
	}
	return fmt.Errorf("%s: %w", path, err)
}

// KindOf returns the sentinel kind of err, or nil if err is not classified.
func KindOf(err error) error {
	for _, k := range []error{ErrInputNotFound, ErrMalformedInput, ErrMissingField, ErrIdentityLookup, ErrIOWrite} {
		if errors.Is(err, k) {
			return k
		}
	}
	return nil
}
