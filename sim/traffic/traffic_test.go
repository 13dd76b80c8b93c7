package traffic

import (
	"math/rand"
	"testing"

	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNoneProfileIsAlwaysOne(t *testing.T) {
	p := NoneProfile()
	for hour := 0; hour < 24; hour++ {
		assert.Equal(t, 1.0, p.HourlyFactors[hour])
	}
}

func TestBerlinProfileRushHoursAreSlower(t *testing.T) {
	p := BerlinProfile()
	assert.Less(t, p.HourlyFactors[7], 1.0)
	assert.Less(t, p.HourlyFactors[17], p.HourlyFactors[7])
	assert.Equal(t, 1.0, p.HourlyFactors[3])
}

func TestFactorAtWrapsAroundMidnight(t *testing.T) {
	p := BerlinProfile()
	// epochMs=0 means sim time 0 == hour 0 UTC; 25 hours later wraps to hour 1.
	factorHour1 := p.FactorAt(1*3_600_000, 0)
	factorHour25 := p.FactorAt(25*3_600_000, 0)
	assert.Equal(t, factorHour1, factorHour25)
}

func TestZoneSetFirstMatchWins(t *testing.T) {
	center, err := spatial.LatLngToCell(52.52, 13.405)
	require.NoError(t, err)

	zones := NewZoneSet([]ZoneOverride{
		{Center: center, Radius: 1, Factor: 0.5},
		{Center: center, Radius: 2, Factor: 0.2},
	})

	factor, ok := zones.FactorAt(center)
	require.True(t, ok)
	assert.Equal(t, 0.5, factor)
}

func TestZoneSetNilIsNoMatch(t *testing.T) {
	var zones *ZoneSet
	center, err := spatial.LatLngToCell(52.52, 13.405)
	require.NoError(t, err)

	factor, ok := zones.FactorAt(center)
	assert.False(t, ok)
	assert.Equal(t, 1.0, factor)
}

func TestDensityConfigStepFunction(t *testing.T) {
	cfg := DefaultDensityConfig()
	cfg.Enabled = true

	assert.Equal(t, 1.0, cfg.Factor(0))
	assert.Equal(t, 1.0, cfg.Factor(2))
	assert.Equal(t, 0.85, cfg.Factor(3))
	assert.Equal(t, 0.85, cfg.Factor(5))
	assert.Equal(t, 0.70, cfg.Factor(6))
	assert.Equal(t, 0.70, cfg.Factor(10))
	assert.Equal(t, 0.55, cfg.Factor(11))
	assert.Equal(t, 0.55, cfg.Factor(50))
}

func TestDensityConfigDisabledIsAlwaysOne(t *testing.T) {
	cfg := DefaultDensityConfig()
	assert.Equal(t, 1.0, cfg.Factor(50))
}

func TestModelSampleSpeedWithinConfiguredRange(t *testing.T) {
	m := DefaultModel(0)
	rng := rand.New(rand.NewSource(1))

	cell, err := spatial.LatLngToCell(52.52, 13.405)
	require.NoError(t, err)

	lo, hi := m.sampleRange()
	factor := m.CompositeFactor(cell, 0, 0)
	for i := 0; i < 100; i++ {
		speed := m.SampleSpeedKmh(rng, cell, 0, 0)
		assert.GreaterOrEqual(t, speed, lo*factor)
		assert.LessOrEqual(t, speed, hi*factor)
	}
}

func TestModelSampleRangeOverride(t *testing.T) {
	m := DefaultModel(0)
	m.FreeFlowSpeedKmh = 80.0
	lo, hi := m.sampleRange()
	assert.Equal(t, 70.0, lo)
	assert.Equal(t, 90.0, hi)
}

func TestModelCompositeFactorMultipliesHourlyAndZone(t *testing.T) {
	center, err := spatial.LatLngToCell(52.52, 13.405)
	require.NoError(t, err)

	m := DefaultModel(0)
	m.Profile = BerlinProfile()
	m.Zones = NewZoneSet([]ZoneOverride{{Center: center, Radius: 0, Factor: 0.1}})

	// Hour 17 is Berlin evening rush (0.40); the zone factor stacks with it
	// rather than replacing it (spec §4.2: "product of three multipliers").
	factor := m.CompositeFactor(center, 17*3_600_000, 0)
	assert.InDelta(t, 0.04, factor, 1e-9)
}

func TestModelCompositeFactorMultipliesAllThreeIncludingDensity(t *testing.T) {
	center, err := spatial.LatLngToCell(52.52, 13.405)
	require.NoError(t, err)

	m := DefaultModel(0)
	m.Profile = BerlinProfile()
	m.Density = DensityConfig{Enabled: true, Radius: 0}

	// Hour 7 (0.45) * no zone (1.0) * density band 3-5 (0.85).
	factor := m.CompositeFactor(center, 7*3_600_000, 3)
	assert.InDelta(t, 0.45*0.85, factor, 1e-9)
}
