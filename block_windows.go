package mmapalloc

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/windows"
)

// osVM maps memory with VirtualAlloc/VirtualFree. Committed pages are
// zero-filled by the OS, matching anonymous mappings elsewhere.
type osVM struct{}

// mapAnon reserves and commits length bytes with VirtualAlloc. The region
// starts on an allocation-granularity boundary (64KiB on most systems).
func (osVM) mapAnon(length uintptr) (unsafe.Pointer, error) {
	addr, err := windows.VirtualAlloc(
		0,      // lpAddress: let the OS choose
		length, // dwSize: zero is rejected with ERROR_INVALID_PARAMETER
		windows.MEM_RESERVE|windows.MEM_COMMIT,
		windows.PAGE_READWRITE,
	)
	if err != nil {
		return nil, err
	}
	return unsafe.Pointer(addr), nil
}

// mapAligned cannot trim a VirtualAlloc region, so it reserves a larger
// range to learn a suitable address, releases it and commits exactly there.
// Another thread may take the address in between; that attempt is retried.
func (v osVM) mapAligned(length, align uintptr) (unsafe.Pointer, error) {
	if length == 0 || length > maxUintptr-align {
		return v.mapAnon(length)
	}

	lastErr := ErrUnsatisfiableAlignment
	for i := 0; i < alignRetries; i++ {
		base, err := windows.VirtualAlloc(0, length+align, windows.MEM_RESERVE, windows.PAGE_NOACCESS)
		if err != nil {
			return nil, err
		}
		aligned := base + (align-base%align)%align
		if err := windows.VirtualFree(base, 0, windows.MEM_RELEASE); err != nil {
			return nil, err
		}

		addr, err := windows.VirtualAlloc(aligned, length, windows.MEM_RESERVE|windows.MEM_COMMIT, windows.PAGE_READWRITE)
		if err == nil {
			return unsafe.Pointer(addr), nil
		}
		lastErr = err
	}
	return nil, errors.Join(ErrUnsatisfiableAlignment, lastErr)
}

// unmap releases the whole region that starts at p. VirtualFree with
// MEM_RELEASE requires a zero size, so length is only informational.
func (osVM) unmap(p unsafe.Pointer, _ uintptr) error {
	return windows.VirtualFree(uintptr(p), 0, windows.MEM_RELEASE)
}

// remap is not available: VirtualAlloc regions cannot be resized or moved.
func (osVM) remap(unsafe.Pointer, uintptr, uintptr) (unsafe.Pointer, error) {
	return nil, errors.ErrUnsupported
}

// canRemap is false, so Resize maps, copies and releases.
func (osVM) canRemap() bool { return false }

// pageSize is the system page size (4KiB), not the allocation granularity.
func (osVM) pageSize() uintptr {
	return uintptr(osPageSize())
}

func osPageSize() int {
	return os.Getpagesize()
}
