package mmapalloc

import (
	"sync/atomic"
	"unsafe"
)

// countingVM forwards to the real OS boundary and counts calls.
type countingVM struct {
	vm
	maps    atomic.Int32
	unmaps  atomic.Int32
	remaps  atomic.Int32
	noRemap bool
}

func newCountingVM(noRemap bool) *countingVM {
	return &countingVM{vm: osVM{}, noRemap: noRemap}
}

func (c *countingVM) mapAnon(length uintptr) (unsafe.Pointer, error) {
	c.maps.Add(1)
	return c.vm.mapAnon(length)
}

func (c *countingVM) mapAligned(length, align uintptr) (unsafe.Pointer, error) {
	c.maps.Add(1)
	return c.vm.mapAligned(length, align)
}

func (c *countingVM) unmap(p unsafe.Pointer, length uintptr) error {
	c.unmaps.Add(1)
	return c.vm.unmap(p, length)
}

func (c *countingVM) remap(p unsafe.Pointer, oldLength, newLength uintptr) (unsafe.Pointer, error) {
	c.remaps.Add(1)
	return c.vm.remap(p, oldLength, newLength)
}

func (c *countingVM) canRemap() bool {
	return !c.noRemap && c.vm.canRemap()
}

func bytesAt(p unsafe.Pointer, n uintptr) []byte {
	return unsafe.Slice((*byte)(p), n)
}

func fillPattern(b []byte, seed byte) {
	for i := range b {
		b[i] = byte(i) ^ seed
	}
}

func checkPattern(b []byte, seed byte) int {
	for i := range b {
		if b[i] != byte(i)^seed {
			return i
		}
	}
	return -1
}
