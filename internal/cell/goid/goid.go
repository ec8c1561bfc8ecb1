// Copyright 2025 The refcell Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package goid extracts the ID of the calling goroutine.
//
// The ID is parsed from the header line of runtime.Stack output:
//
//	goroutine 123 [running]:
//
// This is the portable path that works on every Go version and architecture.
// It costs roughly a microsecond per call, which is why callers in this
// module only use it when the owner check is switched on.
package goid

import "runtime"

// prefix is the fixed header that runtime.Stack writes before the ID.
const prefix = "goroutine "

// Get returns the current goroutine ID.
//
// Returns:
//   - int64: Goroutine ID (always positive), or 0 if parsing fails
func Get() int64 {
	// Only the first line is needed, 64 bytes is plenty.
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	return Parse(buf[:n])
}

// Parse extracts the goroutine ID from stack trace bytes.
//
// Expected format: "goroutine 123 [running]:..."
// Returns the numeric ID (123 in this example) or 0 if the format is invalid.
//
// No string conversion of the number and no allocations.
func Parse(buf []byte) int64 {
	if len(buf) < len(prefix) {
		return 0
	}
	if string(buf[:len(prefix)]) != prefix {
		return 0
	}

	var gid int64
	digits := 0
	for i := len(prefix); i < len(buf); i++ {
		c := buf[i]
		if c < '0' || c > '9' {
			// Usually the space before "[running]".
			break
		}
		gid = gid*10 + int64(c-'0')
		digits++
	}
	if digits == 0 {
		return 0
	}

	return gid
}
