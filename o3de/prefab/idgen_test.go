package prefab_test

import (
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mogaika/unity2o3de/o3de/prefab"
)

func numeric(t *testing.T, id string) int {
	t.Helper()
	open := strings.Index(id, "[")
	end := strings.Index(id, "]")
	require.True(t, open >= 0 && end > open)
	n, err := strconv.Atoi(id[open+1 : end])
	require.NoError(t, err)
	return n
}

// Entity and instance ids share one counter; nothing is ever reused.
func TestIdGenMonotonic(t *testing.T) {
	g := prefab.NewIdGen()

	prev := prefab.ID_COUNTER_BASE
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		var id string
		if i%3 == 0 {
			id = g.InstanceId()
			assert.True(t, strings.HasPrefix(id, "Instance_["))
		} else {
			id = g.EntityId()
			assert.True(t, strings.HasPrefix(id, "Entity_["))
		}
		require.False(t, seen[id], "id %q reused", id)
		seen[id] = true

		n := numeric(t, id)
		assert.Greater(t, n, prev)
		prev = n
	}
}

func TestComponentIdsDeterministic(t *testing.T) {
	a := prefab.NewIdGen()
	first := []int64{a.ComponentId(), a.ComponentId(), a.ComponentId()}

	b := prefab.NewIdGen()
	second := []int64{b.ComponentId(), b.ComponentId(), b.ComponentId()}

	assert.Equal(t, first, second)
	for _, id := range first {
		assert.GreaterOrEqual(t, id, int64(1000000000000000))
	}
}
