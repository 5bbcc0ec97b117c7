package projector

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iudanet/isync/internal/crdt"
	"github.com/iudanet/isync/internal/models"
)

func newState(nodeID string) *crdt.SyncState {
	ts := 100.0
	return crdt.NewSyncState(nodeID, crdt.WithClock(func() float64 {
		ts++
		return ts
	}))
}

func TestProjector_ShouldSync(t *testing.T) {
	p := New(DefaultFilter())

	tests := []struct {
		path     string
		expected bool
	}{
		{"config._id.topic", true},
		{"config.dev._id.x.topic", true},
		{"config.dev1.topic", false},
		{"other._id.topic", false},
		{"configX._id.topic", false},
		{"._id.config.", false},
		{"", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.expected, p.ShouldSync(tt.path))
		})
	}
}

func TestProjector_ShouldSync_EmptyMarker(t *testing.T) {
	p := New(Filter{Table: "devices"})

	assert.True(t, p.ShouldSync("devices.dev1.topic"))
	assert.False(t, p.ShouldSync("config.dev1.topic"))
	assert.Equal(t, "devices", p.Filter().Table)
}

func TestProjector_ParsePath(t *testing.T) {
	p := New(DefaultFilter())

	tests := []struct {
		name     string
		path     string
		recordID string
		field    string
		wantErr  bool
	}{
		{name: "simple", path: "config._id.topic", recordID: "_id", field: "topic"},
		{name: "dotted record id", path: "config.dev._id.7.qos", recordID: "dev._id.7", field: "qos"},
		{name: "other table", path: "users.x.y", wantErr: true},
		{name: "no field", path: "config.dev1", wantErr: true},
		{name: "empty field", path: "config.dev1.", wantErr: true},
		{name: "empty record", path: "config..field", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recordID, field, err := p.ParsePath(tt.path)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidPath)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.recordID, recordID)
			assert.Equal(t, tt.field, field)
		})
	}
}

func TestProjector_ExtractAndApply(t *testing.T) {
	p := New(DefaultFilter())
	state := newState("node-a")

	snapshot := models.Snapshot{
		"config": models.Table{
			"_id": models.Record{
				"id":    models.String("_id"),
				"topic": models.String("X"),
				"qos":   models.Number(1),
			},
			"dev1": models.Record{
				"topic": models.String("not synced"),
			},
			"dev._id.7": models.Record{
				"enabled":    models.Bool(true),
				"bad.field": models.String("skipped"),
			},
		},
		"users": models.Table{
			"_id": models.Record{"name": models.String("skipped")},
		},
	}

	changed, err := p.ExtractAndApply(state, snapshot)
	require.NoError(t, err)
	assert.True(t, changed)

	registers := state.Registers()
	assert.Len(t, registers, 4)
	assert.Contains(t, registers, "config._id.topic")
	assert.Contains(t, registers, "config._id.qos")
	assert.Contains(t, registers, "config._id.id")
	assert.Contains(t, registers, "config.dev._id.7.enabled")

	// Повторное извлечение без изменений ничего не меняет
	clockBefore := state.Clock()
	changed, err = p.ExtractAndApply(state, snapshot)
	require.NoError(t, err)
	assert.False(t, changed)
	assert.Equal(t, clockBefore, state.Clock())
}

func TestProjector_ExtractAndApply_SkipsTombstones(t *testing.T) {
	p := New(DefaultFilter())
	state := newState("node-a")
	state.DeleteKey("config._id.topic")

	snapshot := models.Snapshot{
		"config": models.Table{
			"_id": models.Record{"topic": models.String("stale")},
		},
	}

	changed, err := p.ExtractAndApply(state, snapshot)
	require.NoError(t, err)
	assert.False(t, changed)

	_, ok := state.GetValue("config._id.topic")
	assert.False(t, ok)
}

func TestProjector_ExtractAndApply_InvalidValue(t *testing.T) {
	p := New(DefaultFilter())
	state := newState("node-a")

	snapshot := models.Snapshot{
		"config": models.Table{
			"_id": models.Record{"qos": models.Number(math.NaN())},
		},
	}

	_, err := p.ExtractAndApply(state, snapshot)
	require.Error(t, err)
	assert.ErrorIs(t, err, models.ErrInvalidValue)
	assert.Equal(t, 0, state.Len())
}

func TestProjector_ExtractAndApply_NoTable(t *testing.T) {
	p := New(DefaultFilter())
	state := newState("node-a")

	changed, err := p.ExtractAndApply(state, models.Snapshot{})
	require.NoError(t, err)
	assert.False(t, changed)
}

func TestProjector_ProjectBack(t *testing.T) {
	p := New(DefaultFilter())
	state := newState("node-a")
	state.SetValue("config._id.topic", models.String("X"))
	state.SetValue("config.dev._id.9.qos", models.Number(2))
	state.SetValue("config._id.gone", models.String("old"))
	state.DeleteKey("config._id.gone")
	state.SetValue("config.plain.field", models.String("filtered out"))

	snapshot := models.Snapshot{
		"config": models.Table{
			"_id": models.Record{
				"id":    models.String("_id"),
				"gone":  models.String("old"),
				"local": models.String("kept"),
			},
		},
		"users": models.Table{"u1": models.Record{"name": models.String("alice")}},
	}
	original := snapshot.Clone()

	projected := p.ProjectBack(state, snapshot)

	assert.True(t, snapshot.Equal(original), "input snapshot must not be mutated")

	expected := models.Snapshot{
		"config": models.Table{
			"_id": models.Record{
				"id":    models.String("_id"),
				"topic": models.String("X"),
				"local": models.String("kept"),
			},
			"dev._id.9": models.Record{
				"id":  models.String("dev._id.9"),
				"qos": models.Number(2),
			},
		},
		"users": models.Table{"u1": models.Record{"name": models.String("alice")}},
	}
	assert.True(t, expected.Equal(projected), "got %+v", projected)

	// Идемпотентность
	again := p.ProjectBack(state, projected)
	assert.True(t, projected.Equal(again))
}

func TestProjector_RoundTrip(t *testing.T) {
	p := New(DefaultFilter())
	source := newState("node-a")
	target := newState("node-b")

	store := models.Snapshot{
		"config": models.Table{
			"_id": models.Record{
				"id":     models.String("_id"),
				"topic":  models.String("sensors/#"),
				"broker": models.MustValue(map[string]any{"host": "10.0.0.1", "port": 1883}),
			},
		},
	}

	changed, err := p.ExtractAndApply(source, store)
	require.NoError(t, err)
	require.True(t, changed)

	target.Merge(source)
	projected := p.ProjectBack(target, models.Snapshot{})

	assert.True(t, store.Equal(projected), "projection must invert extraction")
}
