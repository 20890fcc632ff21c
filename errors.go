package mmapalloc

import (
	"errors"
	"fmt"
	"syscall"
)

// ErrUnsatisfiableAlignment is reported when a mapping cannot be placed at the
// requested alignment. Under AlignAbort it is the panic value.
var ErrUnsatisfiableAlignment = errors.New("alignment cannot be satisfied by the OS mapping")

// Error describes a failed backend operation. Err holds the OS error code
// (a syscall.Errno) whenever the OS produced one.
type Error struct {
	Op    string  // acquire, resize
	Size  uintptr // requested size in bytes
	Align uintptr // requested alignment
	Err   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("mmapalloc: %s %d bytes (align %d): %v", e.Op, e.Size, e.Align, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Errno returns the OS error code carried by err, or 0 if there is none.
func Errno(err error) syscall.Errno {
	var errno syscall.Errno
	if errors.As(err, &errno) {
		return errno
	}
	return 0
}

func opError(op string, size, align uintptr, err error) error {
	return &Error{Op: op, Size: size, Align: align, Err: err}
}
