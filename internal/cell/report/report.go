// Package report builds the fatal diagnostics raised by the cell package.
//
// Cells never return these conditions as errors. Each one means the
// single-owner contract or the borrow bookkeeping has been broken, so the
// only sane reaction is to stop: the caller panics with a *Violation.
//
// The printed form follows the layout of Go's own race reports:
//
//	==================
//	FATAL: REFCELL INVARIANT VIOLATION
//	Release of read guard on *cell.RefCell[int] while exclusively borrowed
//	Detected by goroutine 7:
//	  main.worker()
//	      /path/to/file.go:10 +0x48
//
//	Cell owned by goroutine 1, created at:
//	  main.main()
//	      /path/to/file.go:4 +0x1c
//	==================
package report

import (
	"fmt"
	"io"
	"runtime"
	"strings"
)

// Kind classifies a Violation.
type Kind int

const (
	// InvariantViolation means a guard was released while the borrow state
	// did not match its kind. Unreachable under correct use.
	InvariantViolation Kind = iota

	// OwnerViolation means a cell was touched by a goroutine other than the
	// one that owns it.
	OwnerViolation

	// GuardReleased means a guard was used after Release.
	GuardReleased
)

// String returns the string representation of a Kind.
func (k Kind) String() string {
	switch k {
	case InvariantViolation:
		return "invariant violation"
	case OwnerViolation:
		return "owner violation"
	case GuardReleased:
		return "use of released guard"
	default:
		return "unknown violation"
	}
}

// maxStackDepth is the maximum number of stack frames to capture.
const maxStackDepth = 32

// Violation describes a fatal misuse of a cell.
type Violation struct {
	// Kind classifies the violation.
	Kind Kind

	// Detail is a one-line description of what was attempted.
	Detail string

	// GoroutineID is the goroutine that detected the violation.
	GoroutineID int64

	// Stack holds program counters for the detecting call.
	Stack []uintptr

	// OwnerID is the goroutine owning the cell, 0 when not tracked.
	OwnerID int64

	// OwnerStack holds program counters captured when the cell was created
	// or last transferred. Nil when the owner check was off at that time.
	OwnerStack []uintptr

	// Err is the sentinel error behind the violation, if any.
	Err error
}

// New creates a Violation and captures the caller's stack.
//
// skip is the number of frames above New to drop; 0 starts at New's caller.
func New(kind Kind, gid int64, skip int, format string, args ...any) *Violation {
	return &Violation{
		Kind:        kind,
		Detail:      fmt.Sprintf(format, args...),
		GoroutineID: gid,
		Stack:       CaptureStack(skip + 1),
	}
}

// Error implements error with the single-line summary.
func (v *Violation) Error() string {
	return "refcell: " + v.Kind.String() + ": " + v.Detail
}

// Unwrap returns the sentinel error behind the violation.
func (v *Violation) Unwrap() error {
	return v.Err
}

// String returns the full multi-line report.
func (v *Violation) String() string {
	var b strings.Builder
	b.WriteString("==================\n")
	fmt.Fprintf(&b, "FATAL: REFCELL %s\n", strings.ToUpper(v.Kind.String()))
	b.WriteString(v.Detail)
	b.WriteString("\n")
	if v.GoroutineID != 0 {
		fmt.Fprintf(&b, "Detected by goroutine %d:\n", v.GoroutineID)
	} else {
		b.WriteString("Detected at:\n")
	}
	b.WriteString(FormatStack(v.Stack))

	if v.OwnerID != 0 {
		fmt.Fprintf(&b, "\nCell owned by goroutine %d, created at:\n", v.OwnerID)
		b.WriteString(FormatStack(v.OwnerStack))
	}
	b.WriteString("==================\n")
	return b.String()
}

// WriteTo writes the full report to w, typically os.Stderr.
func (v *Violation) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, v.String())
	return int64(n), err
}

// Raise panics with v. It never returns.
func Raise(v *Violation) {
	panic(v)
}

// CaptureStack captures the current call stack.
//
// skip is the number of frames above CaptureStack to drop; 0 starts at the
// caller of CaptureStack.
func CaptureStack(skip int) []uintptr {
	pcs := make([]uintptr, maxStackDepth)
	// +2 skips runtime.Callers and CaptureStack itself.
	n := runtime.Callers(skip+2, pcs)
	return pcs[:n]
}

// FormatStack renders program counters the way Go's race reports do,
// dropping runtime frames and the cell machinery itself:
//
//	main.reader()
//	    /path/to/file.go:15 +0x3b
func FormatStack(pcs []uintptr) string {
	if len(pcs) == 0 {
		return "  (no stack trace available)\n"
	}

	frames := runtime.CallersFrames(pcs)
	var buf strings.Builder

	for {
		frame, more := frames.Next()

		if !internalFrame(frame.Function) {
			buf.WriteString("  ")
			buf.WriteString(frame.Function)
			buf.WriteString("()\n")
			fmt.Fprintf(&buf, "      %s:%d +0x%x\n", frame.File, frame.Line, frame.PC&0xfff)
		}

		if !more {
			break
		}
	}

	if buf.Len() == 0 {
		return "  (all frames filtered - runtime internal)\n"
	}
	return buf.String()
}

// internalFrame reports whether a function belongs to the runtime or to the
// cell implementation rather than to the caller.
func internalFrame(fn string) bool {
	return strings.HasPrefix(fn, "runtime.") ||
		strings.HasPrefix(fn, "internal/") ||
		strings.Contains(fn, "/refcell/internal/cell/") ||
		strings.Contains(fn, "/refcell/cell.")
}
