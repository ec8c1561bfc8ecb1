package cell

import (
	"fmt"

	"github.com/kolkov/refcell/internal/cell/goid"
	"github.com/kolkov/refcell/internal/cell/report"
)

// Ref is a live read guard on a RefCell.
//
// While a Ref is live, no write guard can be taken on its cell. The guard
// points back into the cell without owning it; Release hands the read
// borrow back. Any number of Refs may be live at once.
type Ref[T any] struct {
	// cell is nil once the guard has been released.
	cell *RefCell[T]
}

// Get returns a pointer to the payload without copying it.
//
// The pointer is a read-only view: writing through it, or using it after
// Release, breaks the RefCell contract. Get on a released guard panics.
func (r *Ref[T]) Get() *T {
	rc := r.live("Ref.Get")
	return &rc.value
}

// Value returns a copy of the payload.
func (r *Ref[T]) Value() T {
	return *r.Get()
}

// Clone takes another read guard on the same cell. Both guards must be
// released independently. Cloning a released guard panics.
func (r *Ref[T]) Clone() *Ref[T] {
	rc := r.live("Ref.Clone")
	if !rc.share() {
		// A live Ref means the cell is shared; share cannot be refused.
		rc.fail("clone of read guard", rc.state.Get())
	}
	return &Ref[T]{cell: rc}
}

// Release gives the read borrow back to the cell. Only the first call has
// an effect, so an explicit Release may be combined with a deferred one.
func (r *Ref[T]) Release() {
	if r == nil || r.cell == nil {
		return
	}
	rc := r.cell
	rc.owner.Check("Ref.Release")
	r.cell = nil
	rc.unshare()
}

// String formats the payload, or reports that the guard was released.
func (r *Ref[T]) String() string {
	if r == nil || r.cell == nil {
		return "<released>"
	}
	return fmt.Sprint(r.cell.value)
}

func (r *Ref[T]) live(op string) *RefCell[T] {
	if r.cell == nil {
		released(op)
	}
	r.cell.owner.Check(op)
	return r.cell
}

// RefMut is the live write guard on a RefCell.
//
// While a RefMut is live, no other guard of either kind can be taken on its
// cell. Release hands the exclusive borrow back.
type RefMut[T any] struct {
	// cell is nil once the guard has been released.
	cell *RefCell[T]
}

// Get returns a read-write pointer to the payload without copying it.
//
// The pointer must not be used after Release. Get on a released guard
// panics.
func (w *RefMut[T]) Get() *T {
	rc := w.live("RefMut.Get")
	return &rc.value
}

// Value returns a copy of the payload.
func (w *RefMut[T]) Value() T {
	return *w.Get()
}

// Set overwrites the payload.
func (w *RefMut[T]) Set(value T) {
	*w.Get() = value
}

// Release gives the exclusive borrow back to the cell. Only the first call
// has an effect, so an explicit Release may be combined with a deferred one.
func (w *RefMut[T]) Release() {
	if w == nil || w.cell == nil {
		return
	}
	rc := w.cell
	rc.owner.Check("RefMut.Release")
	w.cell = nil
	rc.unlock()
}

// String formats the payload, or reports that the guard was released.
func (w *RefMut[T]) String() string {
	if w == nil || w.cell == nil {
		return "<released>"
	}
	return fmt.Sprint(w.cell.value)
}

func (w *RefMut[T]) live(op string) *RefCell[T] {
	if w.cell == nil {
		released(op)
	}
	w.cell.owner.Check(op)
	return w.cell
}

// released raises a GuardReleased violation for op.
func released(op string) {
	v := report.New(report.GuardReleased, goid.Get(), 2, "%s after Release", op)
	v.Err = ErrReleased
	report.Raise(v)
}
