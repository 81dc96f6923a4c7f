package blackbox

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldFilterZeroKeepsEverything(t *testing.T) {
	var f FieldFilter
	applied := f.apply([]string{"time", "motor[0]", "motor[1]"})
	require.Equal(t, 3, applied.Len())
	for i := 0; i < 3; i++ {
		idx, ok := applied.Get(i)
		require.True(t, ok)
		assert.Equal(t, i, idx)
	}
}

func TestFieldFilterMatchesBaseName(t *testing.T) {
	f := NewFieldFilter("motor")
	applied := f.apply([]string{"time", "motor[0]", "motor[1]", "vbat"})
	require.Equal(t, 2, applied.Len())

	idx0, ok := applied.Get(0)
	require.True(t, ok)
	assert.Equal(t, 1, idx0)

	idx1, ok := applied.Get(1)
	require.True(t, ok)
	assert.Equal(t, 2, idx1)
}

func TestFieldFilterEmptyExplicit(t *testing.T) {
	f := NewFieldFilter()
	applied := f.apply([]string{"time", "vbat"})
	assert.Equal(t, 0, applied.Len())
}

func TestAppliedFilterGetOutOfRange(t *testing.T) {
	f := NewFieldFilter("vbat")
	applied := f.apply([]string{"vbat"})
	_, ok := applied.Get(5)
	assert.False(t, ok)
	_, ok = applied.Get(-1)
	assert.False(t, ok)
}
