// Package owner confines a cell to the goroutine that created it.
//
// Cells carry no locks, so sharing one between goroutines is a data race.
// The owner check turns that race into a deterministic fatal report: when
// enabled, a cell records its creating goroutine and every operation
// compares the caller against it.
//
// The check is off by default because extracting a goroutine ID costs about
// a microsecond. It is switched on either programmatically with Enable or by
// starting the process with REFCELL_CHECKOWNER set to a true value
// ("1", "t", "true", ...).
//
// Cells created while the check is off are never checked, even if the check
// is enabled later.
package owner

import (
	"os"
	"strconv"
	"sync/atomic"

	"github.com/kolkov/refcell/internal/cell/goid"
	"github.com/kolkov/refcell/internal/cell/report"
)

// EnvVar is the environment variable read at startup.
const EnvVar = "REFCELL_CHECKOWNER"

// enabled controls whether new cells record an owner and whether recorded
// owners are verified.
var enabled atomic.Bool

func init() {
	enabled.Store(parseEnv(os.Getenv(EnvVar)))
}

// parseEnv interprets the value of EnvVar. Anything strconv.ParseBool rejects
// leaves the check off.
func parseEnv(v string) bool {
	if v == "" {
		return false
	}
	on, err := strconv.ParseBool(v)
	return err == nil && on
}

// Enable switches the owner check on.
func Enable() {
	enabled.Store(true)
}

// Disable switches the owner check off.
func Disable() {
	enabled.Store(false)
}

// Enabled reports whether the owner check is on.
func Enabled() bool {
	return enabled.Load()
}

// Owner records the goroutine a cell is confined to.
//
// The zero value is an untracked owner: Check always passes.
type Owner struct {
	gid   int64
	stack []uintptr
}

// Claim makes the calling goroutine the owner when the check is enabled,
// and clears any previous owner otherwise.
func (o *Owner) Claim() {
	if !enabled.Load() {
		o.gid = 0
		o.stack = nil
		return
	}
	o.gid = goid.Get()
	o.stack = report.CaptureStack(1)
}

// Check raises an OwnerViolation if the calling goroutine is not the owner.
// op names the attempted operation in the report.
func (o *Owner) Check(op string) {
	if o.gid == 0 || !enabled.Load() {
		return
	}
	g := goid.Get()
	if g == o.gid {
		return
	}
	v := report.New(report.OwnerViolation, g, 1,
		"%s from goroutine %d on a cell owned by goroutine %d", op, g, o.gid)
	v.OwnerID = o.gid
	v.OwnerStack = o.stack
	report.Raise(v)
}

// ID returns the owning goroutine ID, or 0 when untracked.
func (o *Owner) ID() int64 {
	return o.gid
}

// Stack returns the program counters captured by the last Claim.
func (o *Owner) Stack() []uintptr {
	return o.stack
}
