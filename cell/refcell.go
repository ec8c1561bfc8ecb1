package cell

import (
	"github.com/juju/errors"

	"github.com/kolkov/refcell/internal/cell/goid"
	"github.com/kolkov/refcell/internal/cell/owner"
	"github.com/kolkov/refcell/internal/cell/report"
)

// RefCell is a mutable slot whose borrows are checked at run time.
//
// At any instant a RefCell has either any number of live read guards
// (*Ref), exactly one live write guard (*RefMut), or no guards at all.
// A borrow that would break this rule is denied immediately: Borrow and
// BorrowMut never block, queue or retry.
//
// Every guard must be released exactly once, on every exit path. Use
// defer, or the scoped helpers With and WithMut:
//
//	r, ok := rc.Borrow()
//	if !ok {
//		return errBusy
//	}
//	defer r.Release()
//
// RefCell is not safe for concurrent use. It must be confined to one
// goroutine at a time; see SetOwnerCheck and Transfer.
//
// The zero value is an unborrowed RefCell holding the zero T, with no
// owner recorded. A RefCell must not be copied after first use.
type RefCell[T any] struct {
	noCopy noCopy

	owner owner.Owner
	state Cell[borrowState]
	value T
}

// NewRefCell constructs an unborrowed RefCell holding value.
func NewRefCell[T any](value T) *RefCell[T] {
	rc := &RefCell[T]{value: value}
	rc.owner.Claim()
	return rc
}

// Borrow takes a read guard on the payload.
//
// It succeeds unless a write guard is live, in which case it returns
// (nil, false) and leaves the cell unchanged.
func (rc *RefCell[T]) Borrow() (*Ref[T], bool) {
	rc.owner.Check("RefCell.Borrow")
	if !rc.share() {
		return nil, false
	}
	return &Ref[T]{cell: rc}, true
}

// BorrowMut takes the write guard on the payload.
//
// It succeeds only when no guard is live; otherwise it returns
// (nil, false) and leaves the cell unchanged.
func (rc *RefCell[T]) BorrowMut() (*RefMut[T], bool) {
	rc.owner.Check("RefCell.BorrowMut")
	if !rc.lock() {
		return nil, false
	}
	return &RefMut[T]{cell: rc}, true
}

// TryBorrow is like Borrow but reports a denial as an error wrapping
// ErrBorrowDenied.
func (rc *RefCell[T]) TryBorrow() (*Ref[T], error) {
	return rc.tryBorrow("RefCell.TryBorrow")
}

// TryBorrowMut is like BorrowMut but reports a denial as an error wrapping
// ErrBorrowDenied.
func (rc *RefCell[T]) TryBorrowMut() (*RefMut[T], error) {
	return rc.tryBorrowMut("RefCell.TryBorrowMut")
}

// With calls fn with a read view of the payload and releases the read
// guard when fn returns, fails, panics or exits the goroutine.
//
// fn must not write through the pointer nor retain it after returning.
// With returns an error wrapping ErrBorrowDenied without calling fn when a
// write guard is live; otherwise it returns fn's error.
func (rc *RefCell[T]) With(fn func(v *T) error) error {
	r, err := rc.tryBorrow("RefCell.With")
	if err != nil {
		return err
	}
	defer r.Release()
	return fn(r.Get())
}

// WithMut calls fn with a read-write view of the payload and releases the
// write guard when fn returns, fails, panics or exits the goroutine.
//
// fn must not retain the pointer after returning. WithMut returns an error
// wrapping ErrBorrowDenied without calling fn when any guard is live;
// otherwise it returns fn's error.
func (rc *RefCell[T]) WithMut(fn func(v *T) error) error {
	w, err := rc.tryBorrowMut("RefCell.WithMut")
	if err != nil {
		return err
	}
	defer w.Release()
	return fn(w.Get())
}

// Replace stores value under a write borrow and returns the previous
// payload. It fails with ErrBorrowDenied while any guard is live.
func (rc *RefCell[T]) Replace(value T) (T, error) {
	w, err := rc.tryBorrowMut("RefCell.Replace")
	if err != nil {
		var zero T
		return zero, err
	}
	defer w.Release()

	p := w.Get()
	old := *p
	*p = value
	return old, nil
}

// Take returns the payload, leaving the zero T in its place.
// It fails with ErrBorrowDenied while any guard is live.
func (rc *RefCell[T]) Take() (T, error) {
	var zero T
	return rc.Replace(zero)
}

// Swap exchanges the payloads of rc and other. Both cells must be free of
// live guards; otherwise Swap fails with ErrBorrowDenied and neither cell
// changes. Swapping a RefCell with itself is a no-op.
func (rc *RefCell[T]) Swap(other *RefCell[T]) error {
	if rc == other {
		return nil
	}
	a, err := rc.tryBorrowMut("RefCell.Swap")
	if err != nil {
		return err
	}
	defer a.Release()

	b, err := other.tryBorrowMut("RefCell.Swap")
	if err != nil {
		return err
	}
	defer b.Release()

	pa, pb := a.Get(), b.Get()
	*pa, *pb = *pb, *pa
	return nil
}

// Transfer makes the calling goroutine the owner of rc.
//
// Use it on the receiving side after handing a RefCell to another
// goroutine. Guards taken by the previous owner must have been released.
// While the owner check is disabled, Transfer drops any recorded owner.
func (rc *RefCell[T]) Transfer() {
	rc.owner.Claim()
}

func (rc *RefCell[T]) tryBorrow(op string) (*Ref[T], error) {
	rc.owner.Check(op)
	if !rc.share() {
		return nil, rc.denied("read borrow")
	}
	return &Ref[T]{cell: rc}, nil
}

func (rc *RefCell[T]) tryBorrowMut(op string) (*RefMut[T], error) {
	rc.owner.Check(op)
	if !rc.lock() {
		return nil, rc.denied("write borrow")
	}
	return &RefMut[T]{cell: rc}, nil
}

// denied builds the error for a refused borrow. It reads the state but
// never changes it.
func (rc *RefCell[T]) denied(mode string) error {
	return errors.Annotatef(ErrBorrowDenied, "%s of %T while %s", mode, rc, rc.state.Get())
}

// share registers one more read guard. It reports false, with no state
// change, while a write guard is live.
func (rc *RefCell[T]) share() bool {
	s := rc.state.Get()
	if s == maxShared {
		rc.fail("read borrow with reader count at its limit", s)
	}
	next, ok := s.acquireRead()
	if !ok {
		return false
	}
	rc.state.Set(next)
	return true
}

// unshare drops one read guard.
func (rc *RefCell[T]) unshare() {
	s := rc.state.Get()
	next, ok := s.releaseRead()
	if !ok {
		rc.fail("release of read guard", s)
	}
	rc.state.Set(next)
}

// lock registers the write guard. It reports false, with no state change,
// while any guard is live.
func (rc *RefCell[T]) lock() bool {
	next, ok := rc.state.Get().acquireWrite()
	if !ok {
		return false
	}
	rc.state.Set(next)
	return true
}

// unlock drops the write guard.
func (rc *RefCell[T]) unlock() {
	s := rc.state.Get()
	next, ok := s.releaseWrite()
	if !ok {
		rc.fail("release of write guard", s)
	}
	rc.state.Set(next)
}

// fail raises an InvariantViolation. The borrow bookkeeping is corrupt,
// so there is nothing to recover.
func (rc *RefCell[T]) fail(what string, s borrowState) {
	v := report.New(report.InvariantViolation, goid.Get(), 1, "%s on %T while %s", what, rc, s)
	v.OwnerID = rc.owner.ID()
	v.OwnerStack = rc.owner.Stack()
	report.Raise(v)
}
