package spawn

import (
	"math/rand"
	"testing"

	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cellAt(t *testing.T, lat, lng float64) spatial.CellID {
	t.Helper()
	c, err := spatial.LatLngToCell(lat, lng)
	require.NoError(t, err)
	return c
}

func TestSpawnerShouldSpawnRespectsWindowAndCap(t *testing.T) {
	cfg := Config{
		Distribution: Uniform{IntervalMs: 1000},
		HasStart:     true, StartMs: 1000,
		HasEnd: true, EndMs: 5000,
		HasMaxCount: true, MaxCount: 2,
	}
	s := NewSpawner(cfg)

	assert.False(t, s.ShouldSpawn(500), "before start window")
	assert.True(t, s.ShouldSpawn(1000))
	assert.False(t, s.ShouldSpawn(6000), "past end window")

	s.SpawnedCount = 2
	assert.False(t, s.ShouldSpawn(1000), "cap reached")
}

func TestSpawnerAdvanceSetsNextSpawnTime(t *testing.T) {
	s := NewSpawner(Config{Distribution: Uniform{IntervalMs: 2500}})
	s.Advance(1000)
	assert.Equal(t, uint64(3500), s.NextSpawnTimeMs)
	assert.Equal(t, uint64(1), s.SpawnedCount)
}

func TestSpawnerSampleCellUsesWeightingWhenPresent(t *testing.T) {
	cell := cellAt(t, 52.52, 13.405)
	cfg := Config{Weighting: NewUniformWeighting([]spatial.CellID{cell})}
	s := NewSpawner(cfg)

	got, ok := s.SampleCell(rand.New(rand.NewSource(1)))
	require.True(t, ok)
	assert.Equal(t, cell, got)
}

func TestSampleDestinationCellWithinRequestedRange(t *testing.T) {
	pickup := cellAt(t, 52.52, 13.405)
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 20; i++ {
		dest, ok := SampleDestinationCell(rng, pickup, 2, 10)
		require.True(t, ok)
		d := spatial.GridDistance(pickup, dest)
		assert.GreaterOrEqual(t, d, 2)
		assert.LessOrEqual(t, d, 10)
	}
}

func TestSampleDestinationCellRejectsInvalidRange(t *testing.T) {
	pickup := cellAt(t, 52.52, 13.405)
	rng := rand.New(rand.NewSource(1))

	_, ok := SampleDestinationCell(rng, pickup, 10, 2)
	assert.False(t, ok)
}

func TestSampleDestinationCellLargeRangeUsesRejectionSampling(t *testing.T) {
	pickup := cellAt(t, 52.52, 13.405)
	rng := rand.New(rand.NewSource(7))

	dest, ok := SampleDestinationCell(rng, pickup, 5, 40)
	require.True(t, ok)
	d := spatial.GridDistance(pickup, dest)
	assert.GreaterOrEqual(t, d, 0, "a valid cell distance was resolved")
	_ = d
}
