package traffic

import (
	"math/rand"

	"github.com/ridesim/ridesim/sim/spatial"
)

// defaultFreeFlowSpeedKmh is the base free-flow speed used when no override
// is configured (spec §4.2).
const defaultFreeFlowSpeedKmh = 50.0

// Model composites the three multiplicative factors from spec §4.2 — hourly
// profile, spatial zone override, density congestion — onto a randomized
// base speed sample, grounded on original_source/.../traffic.rs's
// SpeedModel::sample.
type Model struct {
	Profile        Profile
	Zones          *ZoneSet
	Density        DensityConfig
	EpochMs        int64
	FreeFlowSpeedKmh float64
}

// DefaultModel returns a model with no time-of-day effect, no zones, density
// disabled, and the default 50 km/h free-flow base.
func DefaultModel(epochMs int64) Model {
	return Model{
		Profile:          NoneProfile(),
		Zones:            nil,
		Density:          DefaultDensityConfig(),
		EpochMs:          epochMs,
		FreeFlowSpeedKmh: defaultFreeFlowSpeedKmh,
	}
}

// sampleRange returns the [min, max] km/h range the base speed is sampled
// from: [20, 60] when no base override is configured (FreeFlowSpeedKmh
// equals the package default), otherwise [base-10, base+10] (spec §4.2).
func (m Model) sampleRange() (float64, float64) {
	if m.FreeFlowSpeedKmh == defaultFreeFlowSpeedKmh {
		return 20.0, 60.0
	}
	return m.FreeFlowSpeedKmh - 10.0, m.FreeFlowSpeedKmh + 10.0
}

// SampleSpeedKmh draws a uniform base speed in the configured range and
// applies the composite traffic factor for cell at simulation time
// simTimeMs, using localDriverCount drivers occupying the same cell.
func (m Model) SampleSpeedKmh(rng *rand.Rand, cell spatial.CellID, simTimeMs uint64, localDriverCount int) float64 {
	lo, hi := m.sampleRange()
	base := lo + rng.Float64()*(hi-lo)
	return base * m.CompositeFactor(cell, simTimeMs, localDriverCount)
}

// CompositeFactor multiplies the hourly, zone and density factors together
// (spec §4.2: effective speed is "the product of three multipliers";
// original_source/.../traffic.rs's compute_traffic_factor does the same,
// e.g. its composite_factor_multiplies test asserts 0.45 * 1.0 * 0.85).
func (m Model) CompositeFactor(cell spatial.CellID, simTimeMs uint64, localDriverCount int) float64 {
	timeFactor := m.Profile.FactorAt(simTimeMs, m.EpochMs)
	zoneFactor, _ := m.Zones.FactorAt(cell)
	return timeFactor * zoneFactor * m.Density.Factor(localDriverCount)
}
