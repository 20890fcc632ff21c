package mmapalloc

import (
	"syscall"
	"unsafe"

	"github.com/sirupsen/logrus"
)

// vm is the narrow OS boundary the allocator is written against. Each method
// issues a single OS request unless stated otherwise, reports failure through
// its error and never panics.
type vm interface {
	// mapAnon requests a private, anonymous, read/write mapping at an address
	// of the OS's choosing.
	mapAnon(length uintptr) (unsafe.Pointer, error)

	// mapAligned is mapAnon with an address that is a multiple of align,
	// where align is larger than the page size. May take several OS calls.
	mapAligned(length, align uintptr) (unsafe.Pointer, error)

	// unmap releases [p, p+length). Releasing a range that is not mapped is
	// left to the OS to accept or reject.
	unmap(p unsafe.Pointer, length uintptr) error

	// remap grows or shrinks a mapping, moving it if needed. The original
	// mapping is untouched on failure. Only valid when canRemap is true.
	remap(p unsafe.Pointer, oldLength, newLength uintptr) (unsafe.Pointer, error)

	canRemap() bool
	pageSize() uintptr
}

// trimAligned implements mapAligned for systems that can unmap part of a
// mapping: it maps length+align-page bytes, then unmaps the slack on both
// sides of the aligned run so only [aligned, aligned+roundUp(length)) stays.
func trimAligned(v vm, length, align uintptr) (unsafe.Pointer, error) {
	if length == 0 {
		// Let the OS reject it like any other zero-length request.
		return v.mapAnon(0)
	}

	page := v.pageSize()
	span, ok := roundTo(length, page)
	if !ok || span > maxUintptr-(align-page) {
		return nil, syscall.ENOMEM
	}
	total := span + align - page

	base, err := v.mapAnon(total)
	if err != nil {
		return nil, err
	}

	start := uintptr(base)
	lead := (align - start%align) % align
	tail := total - lead - span

	if lead > 0 {
		_ = v.unmap(base, lead)
	}
	if tail > 0 {
		_ = v.unmap(unsafe.Add(base, lead+span), tail)
	}

	if debugEnabled() {
		logEntry().WithFields(logrus.Fields{
			"length": length,
			"align":  align,
			"lead":   lead,
			"tail":   tail,
		}).Debug("trimmed over-aligned mapping")
	}
	return unsafe.Add(base, lead), nil
}
