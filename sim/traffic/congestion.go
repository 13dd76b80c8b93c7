package traffic

import "github.com/ridesim/ridesim/sim/spatial"

// ZoneOverride pins a fixed speed multiplier to every cell within radius
// (grid-disk k) of a center cell (spec §4.2, "spatial zone override"). For
// cells inside it, Model.CompositeFactor multiplies this factor with the
// hourly profile and density factors rather than replacing them. Grounded
// on original_source/.../traffic.rs's CongestionZone.
type ZoneOverride struct {
	Center    spatial.CellID
	Radius    int
	Factor    float64
}

// ZoneSet resolves which, if any, zone override applies to a cell. Zones are
// checked in declaration order; the first match wins (original_source takes
// the same first-match approach rather than averaging overlaps).
type ZoneSet struct {
	Zones []ZoneOverride
	// cells caches the grid_disk membership for each zone, computed once.
	cells []map[spatial.CellID]struct{}
}

// NewZoneSet precomputes grid-disk membership for each zone.
func NewZoneSet(zones []ZoneOverride) *ZoneSet {
	zs := &ZoneSet{Zones: zones, cells: make([]map[spatial.CellID]struct{}, len(zones))}
	for i, z := range zones {
		disk := spatial.GridDisk(z.Center, z.Radius)
		set := make(map[spatial.CellID]struct{}, len(disk))
		for _, c := range disk {
			set[c] = struct{}{}
		}
		zs.cells[i] = set
	}
	return zs
}

// FactorAt returns the override factor for cell, and whether a zone matched.
func (zs *ZoneSet) FactorAt(cell spatial.CellID) (float64, bool) {
	if zs == nil {
		return 1.0, false
	}
	for i, set := range zs.cells {
		if _, ok := set[cell]; ok {
			return zs.Zones[i].Factor, true
		}
	}
	return 1.0, false
}

// DensityConfig parameterizes the step function mapping local driver density
// (drivers occupying the same cell) to a congestion multiplier (spec §4.2:
// "dynamic density factor"). Grounded on original_source/.../traffic.rs's
// DynamicCongestionConfig. Disabled unless configured.
type DensityConfig struct {
	Enabled bool
	Radius  int
}

// DefaultDensityConfig mirrors spec §4.2's density radius of the same cell
// (radius 0); disabled by default.
func DefaultDensityConfig() DensityConfig {
	return DensityConfig{Enabled: false, Radius: 0}
}

// Factor maps a local driver count to a congestion multiplier via the fixed
// step function in spec §4.2: 0-2 -> 1.0, 3-5 -> 0.85, 6-10 -> 0.70, >10 ->
// 0.55.
func (d DensityConfig) Factor(localDriverCount int) float64 {
	if !d.Enabled {
		return 1.0
	}
	switch {
	case localDriverCount <= 2:
		return 1.0
	case localDriverCount <= 5:
		return 0.85
	case localDriverCount <= 10:
		return 0.70
	default:
		return 0.55
	}
}
