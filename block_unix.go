//go:build aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris

package mmapalloc

import (
	"unsafe"

	"golang.org/x/sys/unix"
)

// osVM issues mmap(2)/munmap(2) directly by address and length, bypassing
// the slice bookkeeping of unix.Mmap so that callers only need (p, size).
type osVM struct{}

// mapAnon requests a new mapping of length bytes with mmap(2).
// It returns the start of the mapping, or nil and the errno on failure.
// A zero length is passed through and rejected by the kernel with EINVAL.
func (osVM) mapAnon(length uintptr) (unsafe.Pointer, error) {
	// mmap parameters:
	// MAP_ANON: not backed by any file; contents are initialized to zero.
	// MAP_PRIVATE: copy-on-write, never visible to other processes.
	// PROT_READ | PROT_WRITE: pages may be read and written.
	// MAP_UNINITIALIZED is deliberately not requested.
	p, err := unix.MmapPtr(
		-1,     // fd: -1 for anonymous mapping
		0,      // offset: must be 0 for anonymous mapping
		nil,    // addr: no hint, the kernel picks the address
		length, // length in bytes, rounded up to pages by the kernel
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_PRIVATE|unix.MAP_ANON,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// mapAligned returns a mapping whose start is a multiple of align, which is
// larger than the page size. munmap(2) may release part of a mapping, so the
// slack around the aligned run is trimmed and only that run stays mapped.
func (v osVM) mapAligned(length, align uintptr) (unsafe.Pointer, error) {
	return trimAligned(v, length, align)
}

// unmap releases [p, p+length) with munmap(2). The kernel accepts ranges
// that are not mapped; it rejects an address that is not page aligned with
// EINVAL and leaves everything mapped.
func (osVM) unmap(p unsafe.Pointer, length uintptr) error {
	return unix.MunmapPtr(p, length)
}

// pageSize is the mapping granularity, as reported to the runtime at start.
func (osVM) pageSize() uintptr {
	return uintptr(unix.Getpagesize())
}

func osPageSize() int {
	return unix.Getpagesize()
}
