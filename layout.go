package mmapalloc

import "unsafe"

// Layout is an allocation request: a size in bytes and a power-of-two
// alignment.
type Layout struct {
	Size  uintptr
	Align uintptr
}

// LayoutOf returns the layout of a single T.
func LayoutOf[T any]() Layout {
	var zero T
	return Layout{Size: unsafe.Sizeof(zero), Align: unsafe.Alignof(zero)}
}

// New maps zeroed memory for one T. T must not contain Go pointers: the
// garbage collector does not see memory obtained from the OS.
func New[T any](b Backend) (*T, error) {
	l := LayoutOf[T]()
	p, err := b.AcquireZeroed(l.Size, l.Align)
	if err != nil {
		return nil, err
	}
	return (*T)(p), nil
}

// Delete releases memory obtained from New with the same Backend.
func Delete[T any](b Backend, p *T) {
	if p == nil {
		return
	}
	b.Release(unsafe.Pointer(p), LayoutOf[T]().Size)
}
