package cell

import (
	"github.com/juju/errors"

	"github.com/kolkov/refcell/internal/cell/report"
)

// Sentinel errors for cell operations.
const (
	// ErrBorrowDenied indicates that a requested borrow conflicts with a
	// guard that is still live. The cell is left unchanged.
	ErrBorrowDenied = errors.ConstError("refcell: borrow denied")

	// ErrReleased indicates use of a guard after Release. It is never
	// returned; it is the cause carried by the panic value so a recovered
	// panic can be matched with errors.Is.
	ErrReleased = errors.ConstError("refcell: guard already released")
)

// Violation is the panic value raised for fatal misuse of a cell. Its
// String method prints the full report; errors.Is matches its Err.
type Violation = report.Violation

// ViolationKind classifies a Violation.
type ViolationKind = report.Kind

// Violation kinds.
const (
	InvariantViolation = report.InvariantViolation
	OwnerViolation     = report.OwnerViolation
	GuardReleased      = report.GuardReleased
)
