package errors

import (
	stderrors "errors"
	"fmt"
	"strings"
)

// Kind classifies failures so callers can branch without matching on text.
type Kind int

// Error kinds.
const (
	KindUnknown Kind = iota
	// KindExternalTool means the tool could not be launched at all.
	KindExternalTool
	// KindNonZeroExit means the tool ran and reported failure.
	KindNonZeroExit
	// KindParse means tool output could not be interpreted.
	KindParse
	KindCacheRead
	KindCacheWrite
	// KindTaskFailure means a single unit of a batch panicked or was aborted.
	KindTaskFailure
)

func (k Kind) String() string {
	switch k {
	case KindExternalTool:
		return "external_tool"
	case KindNonZeroExit:
		return "non_zero_exit"
	case KindParse:
		return "parse"
	case KindCacheRead:
		return "cache_read"
	case KindCacheWrite:
		return "cache_write"
	case KindTaskFailure:
		return "task_failure"
	default:
		return "unknown"
	}
}

// sentinel maps a kind to the sentinel error it matches under errors.Is.
func (k Kind) sentinel() error {
	switch k {
	case KindExternalTool:
		return ErrToolLaunch
	case KindNonZeroExit:
		return ErrToolFailed
	case KindCacheRead:
		return ErrCacheRead
	case KindCacheWrite:
		return ErrCacheWrite
	case KindTaskFailure:
		return ErrTaskFailure
	default:
		return nil
	}
}

// Error is a structured failure carrying its kind and any captured tool output.
type Error struct {
	Kind   Kind
	Op     string
	Msg    string
	Output string
	Err    error
}

// New creates a structured error of the given kind.
func New(kind Kind, op, msg string) *Error {
	return &Error{Kind: kind, Op: op, Msg: msg}
}

// E wraps err in a structured error of the given kind.
func E(kind Kind, op string, err error) *Error {
	return &Error{Kind: kind, Op: op, Err: err}
}

// WithOutput attaches captured tool output.
func (e *Error) WithOutput(output string) *Error {
	e.Output = strings.TrimSpace(output)
	return e
}

func (e *Error) Error() string {
	var b strings.Builder
	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	switch {
	case e.Msg != "" && e.Err != nil:
		fmt.Fprintf(&b, "%s: %v", e.Msg, e.Err)
	case e.Msg != "":
		b.WriteString(e.Msg)
	case e.Err != nil:
		b.WriteString(e.Err.Error())
	default:
		b.WriteString(e.Kind.String())
	}
	if e.Output != "" {
		fmt.Fprintf(&b, ": %s", e.Output)
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel associated with e's kind.
func (e *Error) Is(target error) bool {
	if s := e.Kind.sentinel(); s != nil && target == s {
		return true
	}
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind && t.Op == "" && t.Msg == "" && t.Err == nil
}

// KindOf returns the kind of the first structured error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if stderrors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// Is is a convenience re-export of errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As is a convenience re-export of errors.As.
func As(err error, target any) bool {
	return stderrors.As(err, target)
}
