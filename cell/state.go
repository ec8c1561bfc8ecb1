package cell

import (
	"math"
	"strconv"
)

// borrowState is the sharing state of a RefCell.
//
// It is a tagged variant packed into a signed integer:
//
//	 0      unshared: no live guards
//	 n > 0  shared(n): n live read guards
//	-1      exclusive: one live write guard
//
// Any other negative value is never produced by a transition.
// The zero value is unshared, which makes the zero RefCell usable.
type borrowState int

const (
	unshared  borrowState = 0
	exclusive borrowState = -1

	// maxShared is the largest representable reader count.
	maxShared borrowState = math.MaxInt
)

// shared returns the state with n live read guards. n must be positive.
func shared(n int) borrowState {
	return borrowState(n)
}

// String returns the string representation of a borrowState.
func (s borrowState) String() string {
	switch {
	case s == unshared:
		return "unshared"
	case s == exclusive:
		return "exclusive"
	case s > 0:
		return "shared(" + strconv.Itoa(int(s)) + ")"
	default:
		return "corrupt(" + strconv.Itoa(int(s)) + ")"
	}
}

// acquireRead returns the state after granting a read guard.
// ok is false when the request must be denied; s is then unchanged.
//
//	unshared  -> shared(1)
//	shared(n) -> shared(n+1)
//	exclusive -> denied
func (s borrowState) acquireRead() (next borrowState, ok bool) {
	switch {
	case s == unshared:
		return shared(1), true
	case s > 0:
		return s + 1, true
	default:
		return s, false
	}
}

// acquireWrite returns the state after granting the write guard.
// ok is false when the request must be denied; s is then unchanged.
//
//	unshared  -> exclusive
//	shared(n) -> denied
//	exclusive -> denied
func (s borrowState) acquireWrite() (next borrowState, ok bool) {
	if s == unshared {
		return exclusive, true
	}
	return s, false
}

// releaseRead returns the state after a read guard is released.
// ok is false when s does not admit a live read guard.
//
//	shared(1)   -> unshared
//	shared(n>1) -> shared(n-1)
func (s borrowState) releaseRead() (next borrowState, ok bool) {
	if s <= 0 {
		return s, false
	}
	return s - 1, true
}

// releaseWrite returns the state after the write guard is released.
// ok is false when s does not admit a live write guard.
//
//	exclusive -> unshared
func (s borrowState) releaseWrite() (next borrowState, ok bool) {
	if s != exclusive {
		return s, false
	}
	return unshared, true
}
