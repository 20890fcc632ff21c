package mmapalloc

import "sync"

// pageSize holds the single process-wide answer. sync.OnceValue publishes it
// safely to goroutines racing on the first call.
var pageSize = sync.OnceValue(osPageSize)

// PageSize returns the OS virtual-memory granularity in bytes. The first call
// asks the OS; later calls return the cached value. The value never changes
// for the life of the process. It is 0 only if the OS reported nothing
// usable, so callers dividing by it should check.
func PageSize() int {
	return pageSize()
}

// RoundUp rounds n up to a multiple of PageSize. ok is false if the result
// would overflow.
func RoundUp(n uintptr) (rounded uintptr, ok bool) {
	return roundTo(n, uintptr(PageSize()))
}
