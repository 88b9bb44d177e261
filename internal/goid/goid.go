// Package goid exposes the identity of the calling goroutine.
//
// The runtime deliberately hides goroutine IDs, so the ID is recovered from
// the header line of a single-goroutine stack dump ("goroutine N [running]:").
// The cost is one runtime.Stack call per lookup, which is acceptable for the
// affinity checks this package exists to serve.
package goid

import (
	"bytes"
	"runtime"
	"strconv"
)

var prefix = []byte("goroutine ")

// ID returns the calling goroutine's ID, or 0 if the stack header cannot be
// parsed.
func ID() int64 {
	var buf [64]byte
	n := runtime.Stack(buf[:], false)
	header := buf[:n]

	if !bytes.HasPrefix(header, prefix) {
		return 0
	}
	header = header[len(prefix):]

	end := bytes.IndexByte(header, ' ')
	if end <= 0 {
		return 0
	}

	id, err := strconv.ParseInt(string(header[:end]), 10, 64)
	if err != nil {
		return 0
	}
	return id
}
