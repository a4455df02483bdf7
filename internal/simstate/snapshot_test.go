package simstate

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotZeroValue(t *testing.T) {
	var snap Snapshot

	assert.False(t, snap.HasDomain("gpu_state"))
	assert.Empty(t, snap.Domains())
	_, ok := snap.Field("gpu_state", "temperature")
	assert.False(t, ok)
}

func TestNewSnapshotCopiesInput(t *testing.T) {
	initial := map[string]map[string]any{
		"gpu_state": {"temperature": 45, "persistence_mode": false},
	}
	snap := NewSnapshot(initial)

	initial["gpu_state"]["temperature"] = 99
	v, ok := snap.Field("gpu_state", "temperature")
	require.True(t, ok)
	assert.Equal(t, 45, v, "snapshot is isolated from the caller's map")
}

func TestSnapshotWithMergesFields(t *testing.T) {
	snap := NewSnapshot(map[string]map[string]any{
		"gpu_state": {"temperature": 45, "persistence_mode": false},
	})

	next := snap.With("gpu_state", map[string]any{"persistence_mode": true})

	// Untouched field survives the merge.
	fields, ok := next.Domain("gpu_state")
	require.True(t, ok)
	want := map[string]any{"temperature": 45, "persistence_mode": true}
	assert.Empty(t, cmp.Diff(want, fields))

	// The prior snapshot is unchanged.
	v, _ := snap.Field("gpu_state", "persistence_mode")
	assert.Equal(t, false, v)
}

func TestSnapshotWithCreatesDomain(t *testing.T) {
	var snap Snapshot

	next := snap.With("port_counters", map[string]any{"symbol_errors": 0})

	assert.True(t, next.HasDomain("port_counters"))
	assert.False(t, snap.HasDomain("port_counters"))
}

func TestSnapshotDisjointWritesAccumulate(t *testing.T) {
	var snap Snapshot

	a := snap.With("gpu_state", map[string]any{"persistence_mode": true})
	b := a.With("gpu_state", map[string]any{"power_limit": 250})

	fields, ok := b.Domain("gpu_state")
	require.True(t, ok)
	want := map[string]any{"persistence_mode": true, "power_limit": 250}
	assert.Empty(t, cmp.Diff(want, fields))
}

func TestSnapshotDomainReturnsCopy(t *testing.T) {
	snap := NewSnapshot(map[string]map[string]any{
		"node_state": {"state": "idle"},
	})

	fields, ok := snap.Domain("node_state")
	require.True(t, ok)
	fields["state"] = "drain"

	v, _ := snap.Field("node_state", "state")
	assert.Equal(t, "idle", v)
}

func TestContextElevation(t *testing.T) {
	ctx := NewContext()
	assert.False(t, ctx.Elevated())

	root := ctx.withPrivilege("root")
	assert.True(t, root.Elevated())
	assert.False(t, ctx.Elevated(), "context is a value; the original is untouched")
}
