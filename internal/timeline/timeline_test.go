package timeline

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppend_RecordsCheckpoint(t *testing.T) {
	tl := New(nil)

	cp := tl.Append("EXEC:started", CategorySyscall, "pid 42")

	require.Equal(t, 1, tl.Len())
	assert.Equal(t, "EXEC:started", cp.ID)
	assert.Equal(t, CategorySyscall, cp.Category)
	assert.Equal(t, "pid 42", cp.Context)
	assert.True(t, cp.Persisted)
	assert.False(t, cp.TriggerFired)
}

func TestAppend_OffsetsNonDecreasing(t *testing.T) {
	tl := New(nil)

	var last Checkpoint
	for i := 0; i < 50; i++ {
		cp := tl.Append(fmt.Sprintf("PERF:tick_%d", i), CategoryPerformance, "")
		assert.GreaterOrEqual(t, cp.Offset, last.Offset)
		last = cp
	}
}

func TestAppend_OverflowDropsNewest(t *testing.T) {
	tl := New(nil)

	for i := 0; i < Capacity; i++ {
		tl.Append("MEM:sample", CategoryMemory, "")
	}
	require.Equal(t, Capacity, tl.Len())
	require.Equal(t, 0, tl.Dropped())

	overflow := tl.Append("MEM:sample", CategoryMemory, "over the top")

	// The append is a no-op on the stored log but the caller still gets
	// the event data back, flagged as not persisted.
	assert.Equal(t, Capacity, tl.Len())
	assert.Equal(t, 1, tl.Dropped())
	assert.False(t, overflow.Persisted)
	assert.Equal(t, "over the top", overflow.Context)
}

func TestAppend_OverflowNeverDispatchesTriggers(t *testing.T) {
	registry := NewRegistry()
	fired := 0
	require.NoError(t, registry.Register("*", "counter", func(*Checkpoint) { fired++ }))

	tl := New(registry)
	for i := 0; i < Capacity+10; i++ {
		tl.Append("LOAD:fill", CategoryLoad, "")
	}

	assert.Equal(t, Capacity, fired)
	assert.Equal(t, 10, tl.Dropped())
}

func TestGet_OutOfRange(t *testing.T) {
	tl := New(nil)
	tl.Append("EXIT:done", CategoryExit, "")

	_, ok := tl.Get(-1)
	assert.False(t, ok)
	_, ok = tl.Get(1)
	assert.False(t, ok)

	cp, ok := tl.Get(0)
	require.True(t, ok)
	assert.Equal(t, "EXIT:done", cp.ID)
}

func TestAll_ReturnsRestartableSnapshot(t *testing.T) {
	tl := New(nil)
	tl.Append("LOAD:a", CategoryLoad, "")
	tl.Append("LOAD:b", CategoryLoad, "")

	snapshot := tl.All()
	require.Len(t, snapshot, 2)

	// Appending after the snapshot must not disturb it.
	tl.Append("LOAD:c", CategoryLoad, "")
	assert.Len(t, snapshot, 2)

	// Multiple passes over the same snapshot see the same data.
	for pass := 0; pass < 2; pass++ {
		assert.Equal(t, "LOAD:a", snapshot[0].ID)
		assert.Equal(t, "LOAD:b", snapshot[1].ID)
	}
}

func TestExport_CarriesDroppedCount(t *testing.T) {
	tl := New(nil)
	for i := 0; i < Capacity+3; i++ {
		tl.Append("SEC:probe", CategorySecurity, "")
	}

	export := tl.Export()

	assert.Len(t, export.Checkpoints, Capacity)
	assert.Equal(t, 3, export.Dropped)
	assert.Equal(t, "SEC:probe", export.Checkpoints[0].ID)
}
