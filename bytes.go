package mmapalloc

import (
	"fmt"
	"unsafe"
)

// Alloc maps size bytes with the Default allocator and returns them as a
// slice with len and cap equal to size. This is best used for sizes that are
// a multiple of PageSize.
func Alloc(size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}
	p, err := Default.Acquire(uintptr(size), 1)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), size), nil
}

// Free releases a slice returned by Alloc or Realloc. It must be passed the
// same slice (not a derived one).
func Free(b []byte) {
	if cap(b) == 0 {
		return
	}
	Default.Release(unsafe.Pointer(unsafe.SliceData(b)), uintptr(cap(b)))
}

// Realloc resizes a slice returned by Alloc, preserving its contents up to
// the smaller of the two sizes. On error b is left valid and unchanged.
func Realloc(b []byte, size int) ([]byte, error) {
	if size < 0 {
		return nil, fmt.Errorf("invalid size %d", size)
	}
	if cap(b) == 0 {
		return Alloc(size)
	}
	p, err := Default.Resize(unsafe.Pointer(unsafe.SliceData(b)), uintptr(cap(b)), uintptr(size), 1)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(p), size), nil
}
