//go:build aix || darwin || dragonfly || freebsd || netbsd || openbsd || solaris

package mmapalloc

import (
	"errors"
	"unsafe"
)

// No mremap(2) with MREMAP_MAYMOVE semantics here; Resize emulates it.
func (osVM) remap(unsafe.Pointer, uintptr, uintptr) (unsafe.Pointer, error) {
	return nil, errors.ErrUnsupported
}

func (osVM) canRemap() bool { return false }
