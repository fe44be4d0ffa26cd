// Package invariant provides contract assertions for the cera front end.
//
// Assertions guard programming errors, not user input: a malformed source
// file is reported through typed errors, while a caller handing the lexer a
// negative offset is a bug and panics here.
package invariant

import (
	"fmt"
	"runtime"
)

// Precondition checks an input contract at function entry.
//
//	func (s Span) Shift(n int) Span {
//	    invariant.Precondition(s.Offset+n >= 0, "shifted offset must not be negative")
//	    ...
//	}
func Precondition(condition bool, format string, args ...any) {
	if !condition {
		fail("PRECONDITION", format, args...)
	}
}

// Postcondition checks an output contract before function return.
func Postcondition(condition bool, format string, args ...any) {
	if !condition {
		fail("POSTCONDITION", format, args...)
	}
}

// Invariant checks internal consistency, e.g. that a scan loop made progress.
func Invariant(condition bool, format string, args ...any) {
	if !condition {
		fail("INVARIANT", format, args...)
	}
}

// InRange panics if value is outside [minVal, maxVal].
func InRange(value, minVal, maxVal int, name string) {
	if value < minVal || value > maxVal {
		fail("PRECONDITION", "%s must be in range [%d, %d], got %d",
			name, minVal, maxVal, value)
	}
}

// NotNegative panics if value < 0. Offsets and lengths use it.
func NotNegative(value int, name string) {
	if value < 0 {
		fail("PRECONDITION", "%s must not be negative, got %d", name, value)
	}
}

// fail panics with a formatted message and the caller's file:line.
func fail(kind, format string, args ...any) {
	pc := make([]uintptr, 10)
	n := runtime.Callers(3, pc)
	frames := runtime.CallersFrames(pc[:n])

	msg := fmt.Sprintf("%s VIOLATION: "+format, append([]any{kind}, args...)...)
	if frame, ok := frames.Next(); ok {
		msg += fmt.Sprintf("\n  at %s:%d", frame.File, frame.Line)
	}

	panic(msg)
}
