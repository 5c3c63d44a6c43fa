// Package goroutine provides a way to identify the calling goroutine.
//
// The runtime does not expose goroutine identity through any public API.
// Callers that need to assert single-owner access to a piece of state
// (rather than merely document it) have no supported alternative to
// parsing the header line of runtime.Stack, which is the idiom this
// package wraps.
package goroutine

import (
	"bytes"
	"runtime"
	"strconv"
)

// ID returns a number that identifies the calling goroutine for the
// duration of its lifetime. Two calls from the same goroutine always
// return the same value; calls from different goroutines are
// overwhelmingly likely to differ, since the runtime never reuses a
// goroutine id while the goroutine is alive.
//
// This is for contract assertions, not scheduling decisions: nothing
// in this module branches on the numeric value beyond equality.
func ID() uint64 {
	buf := make([]byte, 64)
	n := runtime.Stack(buf, false)
	buf = buf[:n]

	// The header line looks like "goroutine 123 [running]:".
	const prefix = "goroutine "
	buf = bytes.TrimPrefix(buf, []byte(prefix))
	idField := buf[:bytes.IndexByte(buf, ' ')]

	id, err := strconv.ParseUint(string(idField), 10, 64)
	if err != nil {
		panic("goroutine: could not parse goroutine id: " + err.Error())
	}
	return id
}
