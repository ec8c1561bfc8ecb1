package cell

import "github.com/kolkov/refcell/internal/cell/owner"

// Cell is a mutable slot holding one value of type T.
//
// Cell performs no borrow tracking and no synchronization: values are only
// ever copied in and out, so no reference into the slot escapes. A Cell
// must be confined to one goroutine at a time. See SetOwnerCheck to have
// that confinement verified at run time.
//
// The zero value is a Cell holding the zero T, with no owner recorded.
// A Cell must not be copied after first use.
type Cell[T any] struct {
	noCopy noCopy

	owner owner.Owner
	value T
}

// New constructs a cell holding value.
func New[T any](value T) *Cell[T] {
	c := &Cell[T]{value: value}
	c.owner.Claim()
	return c
}

// Get returns a copy of the value contained within the cell.
func (c *Cell[T]) Get() T {
	c.owner.Check("Cell.Get")
	return c.value
}

// Set stores a new value in the cell, replacing the old value.
func (c *Cell[T]) Set(value T) {
	c.owner.Check("Cell.Set")
	c.value = value
}

// Replace stores value and returns the previous one.
func (c *Cell[T]) Replace(value T) T {
	c.owner.Check("Cell.Replace")
	old := c.value
	c.value = value
	return old
}

// Take returns the value, leaving the zero T in its place.
func (c *Cell[T]) Take() T {
	var zero T
	return c.Replace(zero)
}

// Update stores fn applied to the current value and returns the new value.
// fn must not access c.
func (c *Cell[T]) Update(fn func(T) T) T {
	c.owner.Check("Cell.Update")
	c.value = fn(c.value)
	return c.value
}

// Swap exchanges the values of c and other. Swapping a cell with itself is
// a no-op. Both cells must be owned by the calling goroutine.
func (c *Cell[T]) Swap(other *Cell[T]) {
	if c == other {
		return
	}
	c.owner.Check("Cell.Swap")
	other.owner.Check("Cell.Swap")
	c.value, other.value = other.value, c.value
}

// Transfer makes the calling goroutine the owner of c.
//
// Use it on the receiving side after handing a cell to another goroutine
// (for example over a channel). The previous owner must not touch the cell
// afterwards. While the owner check is disabled, Transfer drops any
// recorded owner and the cell becomes unchecked.
func (c *Cell[T]) Transfer() {
	c.owner.Claim()
}
