package cell

import (
	"strings"

	"golang.org/x/mod/semver"
)

// Version information for the refcell module.
const (
	// Version is the current version of the module.
	Version = "0.1.0"

	// VersionMajor is the major version number.
	VersionMajor = 0

	// VersionMinor is the minor version number.
	VersionMinor = 1

	// VersionPatch is the patch version number.
	VersionPatch = 0
)

// Info provides runtime information about the cell package.
type Info struct {
	// Version is the module version string.
	Version string

	// OwnerCheck indicates whether the owner check is active.
	OwnerCheck bool
}

// GetInfo returns information about the cell package.
//
// Example:
//
//	info := cell.GetInfo()
//	fmt.Printf("refcell %s (owner check: %v)\n", info.Version, info.OwnerCheck)
func GetInfo() Info {
	return Info{
		Version:    Version,
		OwnerCheck: OwnerCheckEnabled(),
	}
}

// Compatible reports whether this build satisfies the minimum version,
// given as "1.2.3" or "v1.2.3". The major versions must match and this
// version must not be older than the minimum. Invalid versions are never satisfied.
func Compatible(minimum string) bool {
	want := canonical(minimum)
	if !semver.IsValid(want) {
		return false
	}
	have := canonical(Version)
	return semver.Major(have) == semver.Major(want) && semver.Compare(have, want) >= 0
}

// canonical adds the "v" prefix semver expects.
func canonical(v string) string {
	if strings.HasPrefix(v, "v") {
		return v
	}
	return "v" + v
}
