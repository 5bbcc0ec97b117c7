package crdt

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/models"
)

func TestNewLWWRegister(t *testing.T) {
	reg := NewLWWRegister("node1", models.String("X"), 100)

	assert.Equal(t, "node1", reg.NodeID)
	assert.Equal(t, 100.0, reg.Timestamp)
	v, ok := reg.Value.AsString()
	require.True(t, ok)
	assert.Equal(t, "X", v)
}

func TestLWWRegister_Update(t *testing.T) {
	base := NewLWWRegister("node-b", models.String("old"), 100)

	tests := []struct {
		name          string
		writer        string
		value         string
		timestamp     float64
		expectWinner  string
		expectedValue string
	}{
		{
			name:          "newer timestamp wins",
			writer:        "node-a",
			value:         "new",
			timestamp:     101,
			expectWinner:  "node-a",
			expectedValue: "new",
		},
		{
			name:          "older timestamp is ignored",
			writer:        "node-z",
			value:         "stale",
			timestamp:     99,
			expectWinner:  "node-b",
			expectedValue: "old",
		},
		{
			name:          "same timestamp, greater writer wins",
			writer:        "node-c",
			value:         "tie",
			timestamp:     100,
			expectWinner:  "node-c",
			expectedValue: "tie",
		},
		{
			name:          "same timestamp, smaller writer loses",
			writer:        "node-a",
			value:         "tie",
			timestamp:     100,
			expectWinner:  "node-b",
			expectedValue: "old",
		},
		{
			name:          "same timestamp, same writer keeps current",
			writer:        "node-b",
			value:         "dup",
			timestamp:     100,
			expectWinner:  "node-b",
			expectedValue: "old",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := base.Update(tt.writer, models.String(tt.value), tt.timestamp)

			assert.Equal(t, tt.expectWinner, result.NodeID)
			v, _ := result.Value.AsString()
			assert.Equal(t, tt.expectedValue, v)
			assert.GreaterOrEqual(t, result.Timestamp, base.Timestamp, "timestamp must not decrease")

			// Исходный регистр не меняется
			orig, _ := base.Value.AsString()
			assert.Equal(t, "old", orig)
		})
	}
}

// Регистр, сравнивающий узел сам с собой, молча терял бы запись другого узла
// с тем же timestamp. Writer передается явно.
func TestLWWRegister_Update_SameTimestampFromDifferentNode(t *testing.T) {
	reg := NewLWWRegister("a", models.String("from-a"), 500)

	updated := reg.Update("b", models.String("from-b"), 500)

	assert.Equal(t, "b", updated.NodeID)
	v, _ := updated.Value.AsString()
	assert.Equal(t, "from-b", v)
}

func TestLWWRegister_Merge_TieBreak(t *testing.T) {
	a := NewLWWRegister("a", models.String("value-a"), 42)
	b := NewLWWRegister("b", models.String("value-b"), 42)

	ab := a.Merge(b)
	ba := b.Merge(a)

	assert.True(t, ab.Equal(ba), "merge must be commutative")
	assert.Equal(t, "b", ab.NodeID, "lexicographically greater node id wins")
}

func TestLWWRegister_Merge_Properties(t *testing.T) {
	regs := []LWWRegister{
		NewLWWRegister("a", models.String("1"), 10),
		NewLWWRegister("b", models.Number(2), 10),
		NewLWWRegister("a", models.Bool(true), 11),
		NewLWWRegister("c", models.Null(), 9),
		NewLWWRegister("a", models.String("same-node-same-ts"), 10),
	}

	for i, x := range regs {
		for j, y := range regs {
			assert.True(t, x.Merge(y).Equal(y.Merge(x)), "commutativity %d/%d", i, j)
			for k, z := range regs {
				left := x.Merge(y).Merge(z)
				right := x.Merge(y.Merge(z))
				assert.True(t, left.Equal(right), "associativity %d/%d/%d", i, j, k)
			}
		}
		assert.True(t, x.Merge(x).Equal(x), "idempotence %d", i)
	}
}

func TestLWWRegister_Merge_NewerTimestampWins(t *testing.T) {
	older := NewLWWRegister("z", models.String("old"), 100)
	newer := NewLWWRegister("a", models.String("new"), 105)

	assert.True(t, older.Merge(newer).Equal(newer))
	assert.True(t, newer.Merge(older).Equal(newer))
}

func TestLWWRegister_JSON(t *testing.T) {
	reg := NewLWWRegister("node1", models.MustValue(map[string]any{"topic": "X", "qos": 1.0}), 1700000000.25)

	data, err := json.Marshal(reg)
	require.NoError(t, err)
	assert.JSONEq(t, `{"node_id":"node1","value":{"qos":1,"topic":"X"},"timestamp":1700000000.25}`, string(data))

	var decoded LWWRegister
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.True(t, reg.Equal(decoded))
}
