// Package mmapalloc is an allocator backend that satisfies every request with
// its own anonymous private mapping from the OS.
//
// There are no size classes, free lists or caches: Acquire is one mmap,
// Release is one munmap, and Resize is one mremap where the OS has it. The OS
// is the only source of reuse. Memory returned here lives outside the Go heap
// and is never scanned by the garbage collector, so it must not hold the only
// reference to Go-allocated objects.
package mmapalloc

import (
	"unsafe"

	"github.com/sirupsen/logrus"
)

// Backend is the contract consumed by allocation front-ends. Handles are not
// tracked: callers pass the original size back on Release and Resize.
type Backend interface {
	Acquire(size, align uintptr) (unsafe.Pointer, error)
	AcquireZeroed(size, align uintptr) (unsafe.Pointer, error)
	Release(p unsafe.Pointer, size uintptr)
	Resize(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error)
}

var _ Backend = Allocator{}

// Allocator is a stateless Backend. The zero value uses the default
// configuration and is safe for concurrent use.
type Allocator struct {
	sys           vm
	policy        AlignPolicy
	emulateResize bool
}

// Default is the allocator used by the package-level helpers.
var Default = Allocator{}

// NewAllocator returns an Allocator for cfg. cfg is expected to have passed Validate.
func NewAllocator(cfg Config) Allocator {
	return Allocator{
		policy:        cfg.AlignPolicy,
		emulateResize: cfg.EmulateResize,
	}
}

func (a Allocator) sysVM() vm {
	if a.sys == nil {
		return osVM{}
	}
	return a.sys
}

// NativeResize reports whether Resize is served by the OS remap primitive.
// When false, Resize maps, copies and unmaps.
func (a Allocator) NativeResize() bool {
	return !a.emulateResize && a.sysVM().canRemap()
}

// Acquire maps size bytes of zeroed, readable and writable memory whose
// address is a multiple of align and of the page size. size must be > 0 and
// align a power of two; neither is checked here, the OS rejects a zero size.
// On failure it returns nil and an *Error carrying the OS error code.
func (a Allocator) Acquire(size, align uintptr) (unsafe.Pointer, error) {
	p, err := a.mapping(size, align)
	if err != nil {
		return nil, opError("acquire", size, align, err)
	}
	return p, nil
}

// AcquireZeroed is Acquire. Anonymous mappings are already zero-filled.
func (a Allocator) AcquireZeroed(size, align uintptr) (unsafe.Pointer, error) {
	return a.Acquire(size, align)
}

// Release unmaps size bytes at p. p and size must describe a live handle.
// Releasing memory that is not mapped is not reported; it cannot be used to
// detect double release.
func (a Allocator) Release(p unsafe.Pointer, size uintptr) {
	if err := a.sysVM().unmap(p, size); err != nil && debugEnabled() {
		logEntry().WithFields(logrus.Fields{
			"addr": uintptr(p),
			"size": size,
		}).WithError(err).Debug("release rejected by OS")
	}
}

// Resize changes the size of the mapping at p from oldSize to newSize and
// returns its new address, which may differ from p. Contents up to
// min(oldSize, newSize) are preserved. After success p is invalid; after
// failure p still holds the original, unmodified mapping.
func (a Allocator) Resize(p unsafe.Pointer, oldSize, newSize, align uintptr) (unsafe.Pointer, error) {
	sys := a.sysVM()

	// mremap only promises page alignment for a moved mapping.
	if a.NativeResize() && align <= sys.pageSize() {
		q, err := sys.remap(p, oldSize, newSize)
		if err != nil {
			return nil, opError("resize", newSize, align, err)
		}
		if debugEnabled() {
			logEntry().WithFields(logrus.Fields{
				"old":   oldSize,
				"new":   newSize,
				"moved": q != p,
			}).Debug("resized mapping in kernel")
		}
		return q, nil
	}

	q, err := a.mapping(newSize, align)
	if err != nil {
		return nil, opError("resize", newSize, align, err)
	}
	copyMemory(q, p, min(oldSize, newSize))
	a.Release(p, oldSize)

	if debugEnabled() {
		logEntry().WithFields(logrus.Fields{
			"old": oldSize,
			"new": newSize,
		}).Debug("resized mapping by copy")
	}
	return q, nil
}

func (a Allocator) mapping(size, align uintptr) (unsafe.Pointer, error) {
	sys := a.sysVM()
	if align <= sys.pageSize() {
		return sys.mapAnon(size)
	}

	if a.policy == AlignAbort {
		logEntry().WithFields(logrus.Fields{
			"size":  size,
			"align": align,
			"page":  sys.pageSize(),
		}).Error("alignment exceeds page size")
		panic(ErrUnsatisfiableAlignment)
	}

	p, err := sys.mapAligned(size, align)
	if err != nil {
		return nil, err
	}
	if !isAligned(p, align) {
		// Never hand out a misaligned pointer.
		_ = sys.unmap(p, size)
		return nil, ErrUnsatisfiableAlignment
	}
	return p, nil
}
