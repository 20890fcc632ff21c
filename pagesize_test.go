package mmapalloc

import (
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPageSizeStable(t *testing.T) {
	first := PageSize()
	second := PageSize()

	require.Greater(t, first, 0)
	assert.Equal(t, first, second)
	assert.Zero(t, first&(first-1), "page size %d is not a power of two", first)
	assert.Equal(t, os.Getpagesize(), first)
}

func TestPageSizeConcurrent(t *testing.T) {
	const readers = 32
	got := make([]int, readers)

	var wg sync.WaitGroup
	for i := 0; i < readers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i] = PageSize()
		}(i)
	}
	wg.Wait()

	for _, v := range got {
		assert.Equal(t, got[0], v)
	}
}

func TestRoundUp(t *testing.T) {
	page := uintptr(PageSize())

	tests := []struct {
		in   uintptr
		want uintptr
	}{
		{0, 0},
		{1, page},
		{page - 1, page},
		{page, page},
		{page + 1, 2 * page},
		{5*page + 17, 6 * page},
	}
	for _, tt := range tests {
		got, ok := RoundUp(tt.in)
		assert.True(t, ok, "RoundUp(%d)", tt.in)
		assert.Equal(t, tt.want, got, "RoundUp(%d)", tt.in)
	}

	_, ok := RoundUp(maxUintptr - 1)
	assert.False(t, ok)
}

func TestRoundToUnit(t *testing.T) {
	got, ok := roundTo(13, 1)
	assert.True(t, ok)
	assert.Equal(t, uintptr(13), got)

	got, ok = roundTo(13, 0)
	assert.True(t, ok)
	assert.Equal(t, uintptr(13), got)

	got, ok = roundTo(maxUintptr, 1)
	assert.True(t, ok)
	assert.Equal(t, maxUintptr, got)
}
