package mmapalloc

import "unsafe"

const maxUintptr = ^uintptr(0)

// roundTo rounds n up to a multiple of unit. ok is false when the result
// does not fit in a uintptr.
func roundTo(n, unit uintptr) (uintptr, bool) {
	if unit <= 1 {
		return n, true
	}
	rem := n % unit
	if rem == 0 {
		return n, true
	}
	if n > maxUintptr-(unit-rem) {
		return 0, false
	}
	return n + unit - rem, true
}

// isAligned reports whether p is a multiple of align. Zero and one are
// treated as no requirement.
func isAligned(p unsafe.Pointer, align uintptr) bool {
	return align <= 1 || uintptr(p)%align == 0
}

// copyMemory copies n bytes from src to dst. The regions must not overlap.
func copyMemory(dst, src unsafe.Pointer, n uintptr) {
	if n == 0 {
		return
	}
	copy(unsafe.Slice((*byte)(dst), n), unsafe.Slice((*byte)(src), n))
}
