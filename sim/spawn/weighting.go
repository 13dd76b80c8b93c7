package spawn

import (
	"sort"

	"github.com/ridesim/ridesim/sim/spatial"
)

// WeightingKind selects how spawn cells are sampled (spec §6:
// spawn_weighting: Uniform | Hotspots).
type WeightingKind int

const (
	WeightingUniform WeightingKind = iota
	WeightingHotspots
)

// WeightedCell is one candidate cell with a relative sampling weight.
type WeightedCell struct {
	Cell   spatial.CellID
	Weight float64
}

// Weighting holds a list of weighted cells plus a precomputed cumulative
// sum array for O(log n) weighted sampling (grounded on
// original_source/.../spawner.rs's SpawnWeighting resource). Named,
// non-uniform hotspots are a supplemented feature relative to the distilled
// spec (spec.md only names the Uniform/Hotspots enum); the concrete
// hotspot list below uses generic place-type labels rather than real city
// geography, since the mechanism — not any specific city's map — is what's
// being ported.
type Weighting struct {
	Kind   WeightingKind
	Cells  []WeightedCell
	cumsum []float64
	total  float64
}

// NewUniformWeighting returns a Weighting that samples uniformly over the
// given cells (equivalent to no weighting at all).
func NewUniformWeighting(cells []spatial.CellID) *Weighting {
	wc := make([]WeightedCell, len(cells))
	for i, c := range cells {
		wc[i] = WeightedCell{Cell: c, Weight: 1.0}
	}
	return newWeighting(WeightingUniform, wc)
}

// NewHotspotWeighting returns a Weighting over an explicit list of weighted
// cells, sorted by descending weight for stable, readable cumulative-sum
// construction.
func NewHotspotWeighting(cells []WeightedCell) *Weighting {
	cp := make([]WeightedCell, len(cells))
	copy(cp, cells)
	sort.SliceStable(cp, func(i, j int) bool { return cp[i].Weight > cp[j].Weight })
	return newWeighting(WeightingHotspots, cp)
}

func newWeighting(kind WeightingKind, cells []WeightedCell) *Weighting {
	cumsum := make([]float64, len(cells))
	total := 0.0
	for i, c := range cells {
		total += c.Weight
		cumsum[i] = total
	}
	return &Weighting{Kind: kind, Cells: cells, cumsum: cumsum, total: total}
}

// Sample picks a cell with probability proportional to its weight. Returns
// (zero, false) if the weighting has no cells or non-positive total weight.
func (w *Weighting) Sample(rng rngFloat) (spatial.CellID, bool) {
	if w == nil || len(w.Cells) == 0 || w.total <= 0 {
		return 0, false
	}
	target := rng.Float64() * w.total
	idx := sort.Search(len(w.cumsum), func(i int) bool { return w.cumsum[i] >= target })
	if idx >= len(w.Cells) {
		idx = len(w.Cells) - 1
	}
	return w.Cells[idx].Cell, true
}

// rngFloat is the minimal surface Sample needs from *rand.Rand.
type rngFloat interface {
	Float64() float64
}

// GenericHotspotLabel names a generic spawn-density hub used to build a
// Hotspots weighting for a scenario. Generic rather than real place names,
// per the supplemented-feature decision recorded in the design notes.
type GenericHotspotLabel struct {
	Name   string
	Lat    float64
	Lng    float64
	Weight float64
}

// RiderHotspots returns a default generic rider-demand hotspot layout: a
// dense central business district, several secondary hubs (transit
// terminal, stadium, university campus, etc.), and a long uniform-weight
// tail. The concrete coordinates describe a generic mid-size city's
// relative geometry, not any specific real city.
func RiderHotspots() []GenericHotspotLabel {
	return []GenericHotspotLabel{
		{Name: "central-business-district", Lat: 0.00, Lng: 0.00, Weight: 20.0},
		{Name: "transit-terminal", Lat: 0.02, Lng: 0.01, Weight: 14.0},
		{Name: "university-campus", Lat: -0.03, Lng: 0.02, Weight: 10.0},
		{Name: "stadium-district", Lat: 0.04, Lng: -0.03, Weight: 9.0},
		{Name: "airport-gateway", Lat: 0.12, Lng: 0.10, Weight: 8.0},
		{Name: "waterfront-entertainment", Lat: -0.02, Lng: -0.04, Weight: 8.0},
		{Name: "convention-center", Lat: 0.01, Lng: -0.02, Weight: 7.0},
		{Name: "old-town-market", Lat: -0.01, Lng: 0.00, Weight: 6.0},
		{Name: "tech-park", Lat: 0.06, Lng: 0.05, Weight: 6.0},
		{Name: "hospital-district", Lat: -0.04, Lng: -0.01, Weight: 5.0},
		{Name: "residential-north", Lat: 0.08, Lng: 0.00, Weight: 4.0},
		{Name: "residential-south", Lat: -0.08, Lng: 0.00, Weight: 4.0},
		{Name: "residential-east", Lat: 0.00, Lng: 0.09, Weight: 4.0},
		{Name: "residential-west", Lat: 0.00, Lng: -0.09, Weight: 4.0},
		{Name: "suburb-fringe", Lat: -0.10, Lng: -0.08, Weight: 2.0},
	}
}

// DriverHotspots returns a default generic driver-supply hotspot layout,
// similar in spirit to RiderHotspots but with fewer, broader hubs (drivers
// stage near demand centers and the transit terminal).
func DriverHotspots() []GenericHotspotLabel {
	return []GenericHotspotLabel{
		{Name: "central-business-district", Lat: 0.00, Lng: 0.00, Weight: 15.0},
		{Name: "transit-terminal", Lat: 0.02, Lng: 0.01, Weight: 12.0},
		{Name: "airport-gateway", Lat: 0.12, Lng: 0.10, Weight: 10.0},
		{Name: "convention-center", Lat: 0.01, Lng: -0.02, Weight: 6.0},
		{Name: "tech-park", Lat: 0.06, Lng: 0.05, Weight: 5.0},
		{Name: "residential-north", Lat: 0.08, Lng: 0.00, Weight: 4.0},
		{Name: "residential-south", Lat: -0.08, Lng: 0.00, Weight: 4.0},
		{Name: "residential-east", Lat: 0.00, Lng: 0.09, Weight: 4.0},
		{Name: "residential-west", Lat: 0.00, Lng: -0.09, Weight: 4.0},
		{Name: "suburb-fringe", Lat: -0.10, Lng: -0.08, Weight: 3.0},
	}
}

// BuildHotspotWeighting snaps each label to a cell (relative to a center
// lat/lng offset applied on top of the label's own small offsets) and
// returns the resulting Weighting. Labels whose coordinates fail to
// resolve to a cell are skipped.
func BuildHotspotWeighting(labels []GenericHotspotLabel, centerLat, centerLng float64) *Weighting {
	cells := make([]WeightedCell, 0, len(labels))
	for _, l := range labels {
		cell, err := spatial.LatLngToCell(centerLat+l.Lat, centerLng+l.Lng)
		if err != nil {
			continue
		}
		cells = append(cells, WeightedCell{Cell: cell, Weight: l.Weight})
	}
	return NewHotspotWeighting(cells)
}
