package mmapalloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// remap resizes the mapping at p from oldLength to newLength with mremap(2).
// MREMAP_MAYMOVE lets the kernel relocate the pages when they cannot grow in
// place; contents move with them. On failure the old mapping is untouched
// and the errno (ENOMEM for an impossible size, EINVAL for zero) is returned.
func (osVM) remap(p unsafe.Pointer, oldLength, newLength uintptr) (unsafe.Pointer, error) {
	q, err := unix.MremapPtr(p, oldLength, nil, newLength, unix.MREMAP_MAYMOVE)
	if err != nil {
		return nil, err
	}
	return q, nil
}

// canRemap is true: Linux has mremap(2).
func (osVM) canRemap() bool { return true }
