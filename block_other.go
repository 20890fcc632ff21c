//go:build !(aix || darwin || dragonfly || freebsd || linux || netbsd || openbsd || solaris || windows)

package mmapalloc

import (
	"errors"
	"os"
	"unsafe"
)

// osVM on platforms without an anonymous mapping primitive: every request
// fails, nothing falls back to the Go heap.
type osVM struct{}

func (osVM) mapAnon(uintptr) (unsafe.Pointer, error) {
	return nil, errors.ErrUnsupported
}

func (osVM) mapAligned(uintptr, uintptr) (unsafe.Pointer, error) {
	return nil, errors.ErrUnsupported
}

func (osVM) unmap(unsafe.Pointer, uintptr) error {
	return errors.ErrUnsupported
}

func (osVM) remap(unsafe.Pointer, uintptr, uintptr) (unsafe.Pointer, error) {
	return nil, errors.ErrUnsupported
}

func (osVM) canRemap() bool { return false }

func (osVM) pageSize() uintptr { return uintptr(osPageSize()) }

func osPageSize() int { return os.Getpagesize() }
