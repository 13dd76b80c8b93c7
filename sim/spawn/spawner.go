package spawn

import (
	"math"
	"math/rand"
	"sort"

	"github.com/ridesim/ridesim/sim/spatial"
)

// Bounds is a lat/lng spawn bounding box (spec §6: lat_min/max, lng_min/max).
type Bounds struct {
	LatMin, LatMax float64
	LngMin, LngMax float64
}

// Config holds a spawner's static configuration (spec §4.6): the
// inter-arrival distribution, the spawn bounding box (or an optional
// hotspot Weighting), an optional active time window, an optional total
// cap, and the burst of entities created at t=0.
type Config struct {
	Distribution InterArrivalDistribution
	Bounds       Bounds
	Weighting    *Weighting // nil: sample uniformly within Bounds

	StartMs  uint64
	HasStart bool
	EndMs    uint64
	HasEnd   bool

	MaxCount    uint64
	HasMaxCount bool

	InitialCount uint64
	Seed         uint64
}

// Spawner is the mutable per-stream state machine driving rider/driver
// arrivals (spec §4.6): next_spawn_time_ms, spawned_count, initialized.
type Spawner struct {
	Config Config

	NextSpawnTimeMs uint64
	SpawnedCount    uint64
	Initialized     bool
}

// NewSpawner returns a fresh, uninitialized spawner.
func NewSpawner(cfg Config) *Spawner {
	return &Spawner{Config: cfg}
}

// ShouldSpawn reports whether a spawn should occur now: the stream has
// reached its next scheduled time, sits within its active window, and has
// not exhausted its cap (spec §4.6: "should_spawn(now)").
func (s *Spawner) ShouldSpawn(now uint64) bool {
	if now < s.NextSpawnTimeMs {
		return false
	}
	if s.Config.HasStart && now < s.Config.StartMs {
		return false
	}
	if s.Config.HasEnd && now > s.Config.EndMs {
		return false
	}
	if s.Config.HasMaxCount && s.SpawnedCount >= s.Config.MaxCount {
		return false
	}
	return true
}

// Advance samples the next inter-arrival delta, sets NextSpawnTimeMs, and
// increments SpawnedCount (spec §4.6: "advance(now)").
func (s *Spawner) Advance(now uint64) {
	delta := s.Config.Distribution.SampleMs(s.SpawnedCount, now)
	if delta < 0 {
		delta = 0
	}
	s.NextSpawnTimeMs = now + uint64(delta)
	s.SpawnedCount++
}

// SampleCell draws a spawn location: from the configured hotspot Weighting
// if present, otherwise uniformly within Bounds (spec §4.6, §6
// spawn_weighting). Returns false if the draw cannot be snapped to a cell.
func (s *Spawner) SampleCell(rng *rand.Rand) (spatial.CellID, bool) {
	if s.Config.Weighting != nil {
		return s.Config.Weighting.Sample(rng)
	}
	b := s.Config.Bounds
	lat := b.LatMin + rng.Float64()*(b.LatMax-b.LatMin)
	lng := b.LngMin + rng.Float64()*(b.LngMax-b.LngMin)
	cell, err := spatial.LatLngToCell(lat, lng)
	if err != nil {
		return 0, false
	}
	return cell, true
}

// smallDiskThreshold is the max_cells cutoff below which trip-destination
// sampling enumerates the full grid disk rather than rejection-sampling
// (spec §4.6: "If max_cells <= 20: enumerate grid_disk...").
const smallDiskThreshold = 20

// maxRejectionSamples bounds the rejection-sampling loop for long trips
// (spec §4.6: "rejection-sample up to 2,000 uniform cells").
const maxRejectionSamples = 2000

// cellEdgeKm approximates the H3 resolution-9 hexagon edge length (spec §3:
// "~240m edge"; spatial.Resolution's doc comment notes ~174m for true H3
// res 9 — splitting the difference is immaterial here, this value only
// sizes the rejection-sampling search box).
const cellEdgeKm = 0.20

const kmPerDegLat = 111.32

// SampleDestinationCell implements spec §4.6's trip-distance sampling: given
// a pickup cell and an inclusive [minCells, maxCells] grid-distance range,
// returns a destination cell at that distance from pickup. When rejection
// sampling finds no cell in range, the fallback picks any cell within
// (minCells+maxCells)/2 rings of pickup, which may be closer than minCells.
func SampleDestinationCell(rng *rand.Rand, pickup spatial.CellID, minCells, maxCells int) (spatial.CellID, bool) {
	if maxCells <= 0 || minCells > maxCells {
		return pickup, false
	}

	if maxCells <= smallDiskThreshold {
		return sampleFilteredDisk(rng, pickup, minCells, maxCells)
	}

	lat, _ := pickup.ToLatLng()
	spanKm := float64(maxCells) * cellEdgeKm * 2.2
	dLatDeg := spanKm / kmPerDegLat
	dLngDeg := spanKm / (kmPerDegLat * cosDeg(lat))

	plat, plng := pickup.ToLatLng()
	for i := 0; i < maxRejectionSamples; i++ {
		candLat := plat + (rng.Float64()*2-1)*dLatDeg
		candLng := plng + (rng.Float64()*2-1)*dLngDeg
		cell, err := spatial.LatLngToCell(candLat, candLng)
		if err != nil {
			continue
		}
		d := spatial.GridDistance(pickup, cell)
		if d >= minCells && d <= maxCells {
			return cell, true
		}
	}

	// Fallback: pick uniformly from a grid_disk at the midpoint radius
	// (spec §4.6: "fallback to a grid_disk at (min+max)/2").
	mid := (minCells + maxCells) / 2
	disk := spatial.GridDisk(pickup, mid)
	if len(disk) == 0 {
		return pickup, false
	}
	sortCells(disk)
	return disk[rng.Intn(len(disk))], true
}

func sampleFilteredDisk(rng *rand.Rand, pickup spatial.CellID, minCells, maxCells int) (spatial.CellID, bool) {
	disk := spatial.GridDisk(pickup, maxCells)
	candidates := make([]spatial.CellID, 0, len(disk))
	for _, c := range disk {
		d := spatial.GridDistance(pickup, c)
		if d >= minCells && d <= maxCells {
			candidates = append(candidates, c)
		}
	}
	if len(candidates) == 0 {
		return pickup, false
	}
	sortCells(candidates)
	return candidates[rng.Intn(len(candidates))], true
}

func sortCells(cells []spatial.CellID) {
	sort.Slice(cells, func(i, j int) bool { return cells[i] < cells[j] })
}

func cosDeg(deg float64) float64 {
	c := math.Cos(deg * math.Pi / 180.0)
	if c < 0.01 {
		return 0.01
	}
	return c
}
