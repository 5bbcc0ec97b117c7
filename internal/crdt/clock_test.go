package crdt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewVectorClock(t *testing.T) {
	clock := NewVectorClock("node-a")

	require.NotNil(t, clock)
	assert.Equal(t, int64(0), clock.Get("node-a"), "Initial counter should be 0")
	assert.Len(t, clock, 1)
}

func TestVectorClock_Tick(t *testing.T) {
	clock := NewVectorClock("node-a")

	tests := []struct {
		name          string
		expectedValue int64
	}{
		{"First tick", 1},
		{"Second tick", 2},
		{"Third tick", 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := clock.Tick("node-a")
			assert.Equal(t, tt.expectedValue, result, "Tick should return incremented value")
			assert.Equal(t, tt.expectedValue, clock.Get("node-a"))
		})
	}

	// Чужие записи Tick не трогает
	assert.Equal(t, int64(0), clock.Get("node-b"))
}

func TestVectorClock_Update(t *testing.T) {
	tests := []struct {
		local    VectorClock
		remote   VectorClock
		expected VectorClock
		name     string
	}{
		{
			name:     "remote ahead on own entry",
			local:    VectorClock{"a": 1},
			remote:   VectorClock{"b": 5},
			expected: VectorClock{"a": 2, "b": 5},
		},
		{
			name:     "remote behind everywhere",
			local:    VectorClock{"a": 10, "b": 7},
			remote:   VectorClock{"a": 3, "b": 2},
			expected: VectorClock{"a": 11, "b": 7},
		},
		{
			name:     "remote knows our future counter",
			local:    VectorClock{"a": 1},
			remote:   VectorClock{"a": 9, "c": 1},
			expected: VectorClock{"a": 10, "c": 1},
		},
		{
			name:     "empty remote",
			local:    VectorClock{"a": 0},
			remote:   VectorClock{},
			expected: VectorClock{"a": 1},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clock := tt.local.Copy()
			result := clock.Update("a", tt.remote)

			assert.Equal(t, tt.expected, clock)
			assert.Equal(t, tt.expected["a"], result)
		})
	}
}

func TestVectorClock_Descends(t *testing.T) {
	a := VectorClock{"a": 2, "b": 1}
	b := VectorClock{"a": 1, "b": 1}
	c := VectorClock{"a": 1, "b": 3}

	assert.True(t, a.Descends(b))
	assert.False(t, b.Descends(a))
	assert.True(t, a.Descends(a))

	assert.True(t, a.Concurrent(c), "a and c diverged")
	assert.False(t, a.Concurrent(b))
}

func TestVectorClock_Copy(t *testing.T) {
	clock := VectorClock{"a": 1}
	copied := clock.Copy()
	copied.Tick("a")

	assert.Equal(t, int64(1), clock.Get("a"), "copy must be independent")
	assert.Equal(t, int64(2), copied.Get("a"))
}

func TestWallClock(t *testing.T) {
	first := WallClock()
	second := WallClock()

	assert.Greater(t, first, float64(1_600_000_000), "wall clock should be unix seconds")
	assert.GreaterOrEqual(t, second, first)
}
