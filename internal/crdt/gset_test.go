package crdt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGSet_AddContains(t *testing.T) {
	set := NewGSet()

	assert.False(t, set.Contains("config.dev1.topic"))

	set.Add("config.dev1.topic")
	set.Add("config.dev1.topic")

	assert.True(t, set.Contains("config.dev1.topic"))
	assert.Equal(t, 1, set.Len(), "Add must be idempotent")
}

func TestGSet_ZeroValue(t *testing.T) {
	var set GSet

	assert.False(t, set.Contains("k"))
	assert.Equal(t, 0, set.Len())

	require.NotPanics(t, func() { set.Add("k") })
	assert.True(t, set.Contains("k"))
	assert.Equal(t, []string{"k", "x"}, set.Merge(NewGSet("x")).Elements())
}

func TestGSet_Merge(t *testing.T) {
	a := NewGSet("x", "y")
	b := NewGSet("y", "z")

	merged := a.Merge(b)

	assert.Equal(t, []string{"x", "y", "z"}, merged.Elements())
	assert.Equal(t, merged.Elements(), b.Merge(a).Elements(), "union is commutative")
	assert.Equal(t, a.Elements(), a.Merge(a).Elements(), "union is idempotent")

	// Операнды не изменяются
	assert.Equal(t, []string{"x", "y"}, a.Elements())
	assert.Equal(t, []string{"y", "z"}, b.Elements())
}

func TestGSet_Elements_Empty(t *testing.T) {
	set := NewGSet()

	elements := set.Elements()
	require.NotNil(t, elements)
	assert.Empty(t, elements)

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"elements":[]}`, string(data))
}

func TestGSet_JSON(t *testing.T) {
	set := NewGSet("b", "a", "c")

	data, err := json.Marshal(set)
	require.NoError(t, err)
	assert.Equal(t, `{"elements":["a","b","c"]}`, string(data))

	decoded := NewGSet()
	require.NoError(t, json.Unmarshal(data, decoded))
	assert.Equal(t, set.Elements(), decoded.Elements())
}

func TestGSet_Clone(t *testing.T) {
	set := NewGSet("a")
	clone := set.Clone()
	clone.Add("b")

	assert.False(t, set.Contains("b"))
	assert.True(t, clone.Contains("a"))
}
