package cell

import "github.com/kolkov/refcell/internal/cell/owner"

// OwnerCheckEnv is the environment variable that switches the owner check
// on at process start when set to a true value ("1", "true", ...).
const OwnerCheckEnv = owner.EnvVar

// SetOwnerCheck switches the owner check on or off.
//
// While the check is on, every Cell and RefCell created (or transferred)
// records the goroutine that created it, and every later operation from a
// different goroutine panics with an owner-violation report naming both
// goroutines. Cells created while the check is off are never checked.
//
// The check costs about a microsecond per operation. Enable it in tests
// and debug builds:
//
//	func TestMain(m *testing.M) {
//		cell.SetOwnerCheck(true)
//		os.Exit(m.Run())
//	}
func SetOwnerCheck(on bool) {
	if on {
		owner.Enable()
	} else {
		owner.Disable()
	}
}

// OwnerCheckEnabled reports whether the owner check is on.
func OwnerCheckEnabled() bool {
	return owner.Enabled()
}
