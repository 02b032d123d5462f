// Package fault classifies pipeline errors so callers can branch on the
// failure class without string matching.
package fault

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

// Kind is the failure class of an Error.
type Kind string

const (
	// Validation marks structurally invalid inputs or agent replies.
	Validation Kind = "validation"
	// Security marks rejected filesystem access.
	Security Kind = "security"
	// Parse marks agent output that could not be decoded.
	Parse Kind = "parse"
	// Timeout marks an agent invocation that exceeded its deadline.
	Timeout Kind = "timeout"
	// Process marks an agent subprocess that failed to start or exited nonzero.
	Process Kind = "process"
)

// Error is a classified error with a stable code and optional context fields.
type Error struct {
	Kind    Kind
	Code    string
	Message string
	Cause   error
	Context map[string]string
}

// New returns an Error with the given kind, code, and message.
func New(kind Kind, code, message string) *Error {
	return &Error{Kind: kind, Code: code, Message: message}
}

// Newf returns an Error with a formatted message.
func Newf(kind Kind, code, format string, args ...any) *Error {
	return &Error{Kind: kind, Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap returns an Error that records cause and unwraps to it.
func Wrap(kind Kind, code, message string, cause error) *Error {
	return &Error{Kind: kind, Code: code, Message: message, Cause: cause}
}

// With records a context field and returns the receiver.
func (e *Error) With(key, value string) *Error {
	if e.Context == nil {
		e.Context = make(map[string]string)
	}
	e.Context[key] = value
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	b.WriteString(": ")
	b.WriteString(e.Message)
	if len(e.Context) > 0 {
		keys := make([]string, 0, len(e.Context))
		for k := range e.Context {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		b.WriteString(" (")
		for i, k := range keys {
			if i > 0 {
				b.WriteString(", ")
			}
			b.WriteString(k)
			b.WriteString("=")
			b.WriteString(e.Context[k])
		}
		b.WriteString(")")
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

// Unwrap exposes the cause for errors.Is and errors.As.
func (e *Error) Unwrap() error {
	return e.Cause
}

// KindOf returns the kind of the nearest *Error in err's chain, or "".
func KindOf(err error) Kind {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return ""
}

// IsKind reports whether err's chain contains an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// CodeOf returns the code of the nearest *Error in err's chain, or "".
func CodeOf(err error) string {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Code
	}
	return ""
}
