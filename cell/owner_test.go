package cell_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kolkov/refcell/cell"
)

// ownerCheck turns the owner check on for the duration of a test.
func ownerCheck(t *testing.T) {
	t.Helper()
	prev := cell.OwnerCheckEnabled()
	cell.SetOwnerCheck(true)
	t.Cleanup(func() { cell.SetOwnerCheck(prev) })
}

// elsewhere runs fn on a new goroutine and returns what it panicked with.
func elsewhere(fn func()) any {
	result := make(chan any)
	go func() {
		defer func() { result <- recover() }()
		fn()
	}()
	return <-result
}

func requireOwnerViolation(t *testing.T, r any, op string) *cell.Violation {
	t.Helper()
	require.NotNil(t, r, "%s from a foreign goroutine should panic", op)
	v, ok := r.(*cell.Violation)
	require.True(t, ok, "panic value %T: %v", r, r)
	assert.Equal(t, cell.OwnerViolation, v.Kind)
	assert.Contains(t, v.Detail, op)
	assert.NotZero(t, v.OwnerID)
	assert.NotEqual(t, v.OwnerID, v.GoroutineID)
	assert.Contains(t, v.String(), "Cell owned by goroutine")
	return v
}

func TestOwnerCheck_Toggle(t *testing.T) {
	ownerCheck(t)
	assert.True(t, cell.OwnerCheckEnabled())
	assert.True(t, cell.GetInfo().OwnerCheck)

	cell.SetOwnerCheck(false)
	assert.False(t, cell.OwnerCheckEnabled())
	assert.False(t, cell.GetInfo().OwnerCheck)
}

func TestOwnerCheck_Cell(t *testing.T) {
	ownerCheck(t)
	c := cell.New(1)

	// The owner is unaffected.
	c.Set(2)
	assert.Equal(t, 2, c.Get())

	requireOwnerViolation(t, elsewhere(func() { c.Get() }), "Cell.Get")
	requireOwnerViolation(t, elsewhere(func() { c.Set(3) }), "Cell.Set")
	requireOwnerViolation(t, elsewhere(func() { c.Update(func(v int) int { return v }) }), "Cell.Update")
	assert.Equal(t, 2, c.Get())
}

func TestOwnerCheck_RefCell(t *testing.T) {
	ownerCheck(t)
	rc := cell.NewRefCell(1)

	requireOwnerViolation(t, elsewhere(func() { rc.Borrow() }), "RefCell.Borrow")
	requireOwnerViolation(t, elsewhere(func() { rc.BorrowMut() }), "RefCell.BorrowMut")
	requireOwnerViolation(t, elsewhere(func() { _ = rc.With(func(*int) error { return nil }) }), "RefCell.With")

	// Denied checks happen before any state change.
	w, ok := rc.BorrowMut()
	require.True(t, ok)
	w.Release()
}

func TestOwnerCheck_Guards(t *testing.T) {
	ownerCheck(t)
	rc := cell.NewRefCell(1)

	r, ok := rc.Borrow()
	require.True(t, ok)
	requireOwnerViolation(t, elsewhere(func() { r.Get() }), "Ref.Get")
	requireOwnerViolation(t, elsewhere(r.Release), "Ref.Release")

	// The failed foreign release left the guard live.
	_, ok = rc.BorrowMut()
	assert.False(t, ok)
	r.Release()

	w, ok := rc.BorrowMut()
	require.True(t, ok)
	requireOwnerViolation(t, elsewhere(func() { w.Set(5) }), "RefMut.Get")
	w.Release()
}

func TestOwnerCheck_Transfer(t *testing.T) {
	ownerCheck(t)
	rc := cell.NewRefCell(1)
	c := cell.New("a")

	handoff := make(chan struct{})
	got := make(chan any)
	go func() {
		defer func() { got <- recover() }()
		<-handoff
		rc.Transfer()
		c.Transfer()
		w, ok := rc.BorrowMut()
		if ok {
			w.Set(2)
			w.Release()
		}
		c.Set("b")
	}()
	close(handoff)
	require.Nil(t, <-got)

	// The creator is no longer the owner.
	requireOwnerViolation(t, func() (r any) {
		defer func() { r = recover() }()
		rc.Borrow()
		return nil
	}(), "RefCell.Borrow")
	requireOwnerViolation(t, func() (r any) {
		defer func() { r = recover() }()
		c.Get()
		return nil
	}(), "Cell.Get")
}

// TestOwnerCheck_UntrackedCell: cells created while the check is off are
// never checked.
func TestOwnerCheck_UntrackedCell(t *testing.T) {
	prev := cell.OwnerCheckEnabled()
	t.Cleanup(func() { cell.SetOwnerCheck(prev) })

	cell.SetOwnerCheck(false)
	rc := cell.NewRefCell(1)
	cell.SetOwnerCheck(true)

	assert.Nil(t, elsewhere(func() {
		r, _ := rc.Borrow()
		r.Release()
	}))
}
