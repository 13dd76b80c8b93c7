package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpawnAssignsDistinctIDs(t *testing.T) {
	store := NewStore()
	id1 := store.SpawnRider(&Rider{State: RiderBrowsing})
	id2 := store.SpawnRider(&Rider{State: RiderBrowsing})
	assert.NotEqual(t, id1, id2)
}

func TestDespawnRemovesEntity(t *testing.T) {
	store := NewStore()
	id := store.SpawnRider(&Rider{State: RiderBrowsing})
	store.DespawnRider(id)

	_, ok := store.Rider(id)
	assert.False(t, ok)
}

func TestDeferredDespawnAppliesOnFlush(t *testing.T) {
	store := NewStore()
	id := store.SpawnRider(&Rider{State: RiderBrowsing})

	store.DeferDespawnRider(id)
	_, stillThere := store.Rider(id)
	require.True(t, stillThere, "entity must survive until Flush")

	store.Flush()
	_, ok := store.Rider(id)
	assert.False(t, ok)
}

func TestFlushIsIdempotentWhenEmpty(t *testing.T) {
	store := NewStore()
	store.Flush()
	store.Flush()
}

func TestIdleDriverIDsSortedAndFiltered(t *testing.T) {
	store := NewStore()
	idle1 := store.SpawnDriver(&Driver{State: DriverIdle})
	store.SpawnDriver(&Driver{State: DriverOnTrip})
	idle2 := store.SpawnDriver(&Driver{State: DriverIdle})

	ids := store.IdleDriverIDs()
	require.Len(t, ids, 2)
	assert.True(t, ids[0] < ids[1])
	assert.Contains(t, ids, idle1)
	assert.Contains(t, ids, idle2)
}

func TestWaitingUnmatchedRiderIDsExcludesMatched(t *testing.T) {
	store := NewStore()
	waiting := store.SpawnRider(&Rider{State: RiderWaiting})
	matched := store.SpawnRider(&Rider{State: RiderWaiting, MatchedDriver: NewRef(1)})
	store.SpawnRider(&Rider{State: RiderBrowsing})

	ids := store.WaitingUnmatchedRiderIDs()
	assert.Contains(t, ids, waiting)
	assert.NotContains(t, ids, matched)
}

func TestRefZeroValueIsUnset(t *testing.T) {
	var r Ref
	assert.False(t, r.IsSet())
	_, ok := r.Get()
	assert.False(t, ok)
}
