// Package cell provides single-owner interior-mutability cells.
//
// Two primitives are provided:
//
//   - [Cell] stores one value and only ever copies it in and out
//     ([Cell.Set], [Cell.Get], [Cell.Replace], ...). No reference into the
//     slot escapes, so no borrow tracking is needed.
//   - [RefCell] hands out references into its payload and checks at run
//     time that they never conflict: any number of read guards ([Ref]) or
//     exactly one write guard ([RefMut]), never both.
//
// # Quick Start
//
//	rc := cell.NewRefCell(5)
//
//	w, ok := rc.BorrowMut()
//	if !ok {
//		return errBusy
//	}
//	*w.Get() = 42
//	w.Release()
//
//	err := rc.With(func(v *int) error {
//		fmt.Println(*v) // 42
//		return nil
//	})
//
// # Borrow Rules
//
// A RefCell moves between three states:
//
//	unshared  --Borrow-->     shared(1)
//	shared(n) --Borrow-->     shared(n+1)
//	unshared  --BorrowMut-->  exclusive
//	shared(n) --Release-->    shared(n-1), or unshared when n == 1
//	exclusive --Release-->    unshared
//
// Any other request is denied: [RefCell.Borrow] and [RefCell.BorrowMut]
// return (nil, false), the Try and scoped variants return an error wrapping
// [ErrBorrowDenied]. A denial never changes the cell, and the cell never
// blocks, queues or retries. The caller decides whether to retry, fall back
// or fail.
//
// # Releasing Guards
//
// Go has no destructors, so a guard is released by calling Release. Every
// guard must be released on every exit path; use defer, or the scoped
// helpers [RefCell.With] and [RefCell.WithMut], which release on return,
// error, panic and runtime.Goexit alike. Release is idempotent per guard.
// Using a guard after Release panics.
//
// A guard keeps its cell reachable, so a cell can never be collected while
// a guard still points into it.
//
// # Goroutines
//
// Neither type is safe for concurrent use: there are no locks and no
// atomics on the payload. Each instance must be confined to one goroutine
// at a time. The confinement can be verified at run time with
// [SetOwnerCheck] or the REFCELL_CHECKOWNER environment variable; a cell
// may be handed to another goroutine with [RefCell.Transfer].
//
// # Fatal Conditions
//
// The following are not errors but broken contracts. They panic with a
// *[Violation] whose String method prints a report in the style of
// Go's race detector:
//
//   - a guard released while the borrow state does not admit it
//   - a guard used after Release (the violation wraps [ErrReleased])
//   - a cell touched by a goroutine other than its owner, when the owner
//     check is on
package cell
