package matching

import (
	hungarianAlgorithm "github.com/oddg/hungarian-algorithm"

	"github.com/ridesim/ridesim/sim/entity"
)

// scale converts a float score into the integer domain the assignment
// solver operates on (spec §4.7: "score * 1e6").
const scale = 1_000_000.0

// infeasible is the sentinel weight for pairs outside match radius: worse
// than any feasible score but far from over/underflowing once negated and
// summed by the solver (spec §4.7: "INFEASIBLE sentinel (-1e12)").
const infeasible = -1_000_000_000_000

// greedyMaxRiders and greedyMaxDrivers gate the greedy fallback: batches at
// or under both thresholds use greedy assignment instead of paying the
// O(n^3) Hungarian solve (spec §4.7, §8 "Hungarian greedy-fallback
// threshold").
const (
	greedyMaxRiders  = 10
	greedyMaxDrivers = 20
)

// HungarianMatching solves batch-optimal assignment maximizing total score
// (spec §4.7). Single-rider queries delegate to CostBasedMatching.
type HungarianMatching struct {
	EtaWeight float64
	fallback  CostBasedMatching
}

// NewHungarianMatching builds a HungarianMatching with the given scoring
// weight.
func NewHungarianMatching(etaWeight float64) HungarianMatching {
	return HungarianMatching{EtaWeight: etaWeight, fallback: NewCostBasedMatching(etaWeight)}
}

func (h HungarianMatching) FindMatch(rider RiderQuery, drivers []Candidate, radius int) (entity.ID, bool) {
	return h.fallback.FindMatch(rider, drivers, radius)
}

func (h HungarianMatching) FindBatchMatches(riders []RiderQuery, drivers []Candidate, radius int) []Pair {
	if len(riders) == 0 || len(drivers) == 0 {
		return nil
	}

	if len(riders) <= greedyMaxRiders && len(drivers) <= greedyMaxDrivers {
		return h.greedyBatchMatches(riders, drivers, radius)
	}

	// Kuhn-Munkres (as implemented by oddg/hungarian-algorithm) requires
	// rows <= columns; use the smaller side as rows.
	ridersAreRows := len(riders) <= len(drivers)

	rows, cols := len(drivers), len(riders)
	if ridersAreRows {
		rows, cols = len(riders), len(drivers)
	}

	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
		for j := range matrix[i] {
			matrix[i][j] = infeasible
		}
	}

	hasFeasible := false
	if ridersAreRows {
		for i, r := range riders {
			for j, d := range drivers {
				if dist := gridDistance(r.PickupCell, d.Cell); withinRadius(dist, radius) {
					w := scoreToWeight(score(cellDistanceKm(r.PickupCell, d.Cell), h.EtaWeight))
					matrix[i][j] = w
					hasFeasible = true
				}
			}
		}
	} else {
		for i, d := range drivers {
			for j, r := range riders {
				if dist := gridDistance(r.PickupCell, d.Cell); withinRadius(dist, radius) {
					w := scoreToWeight(score(cellDistanceKm(r.PickupCell, d.Cell), h.EtaWeight))
					matrix[i][j] = w
					hasFeasible = true
				}
			}
		}
	}

	if !hasFeasible {
		return nil
	}

	// The solver minimizes total cost; negate to maximize total score.
	cost := make([][]int, rows)
	for i := range matrix {
		cost[i] = make([]int, cols)
		for j := range matrix[i] {
			cost[i][j] = -matrix[i][j]
		}
	}

	assignment, err := hungarianAlgorithm.Solve(cost)
	if err != nil {
		return nil
	}

	results := make([]Pair, 0, len(assignment))
	if ridersAreRows {
		for riderIdx, driverIdx := range assignment {
			if driverIdx < 0 || driverIdx >= len(drivers) {
				continue
			}
			if matrix[riderIdx][driverIdx] <= infeasible {
				continue
			}
			results = append(results, Pair{RiderID: riders[riderIdx].RiderID, DriverID: drivers[driverIdx].DriverID})
		}
	} else {
		for driverIdx, riderIdx := range assignment {
			if riderIdx < 0 || riderIdx >= len(riders) {
				continue
			}
			if matrix[driverIdx][riderIdx] <= infeasible {
				continue
			}
			results = append(results, Pair{RiderID: riders[riderIdx].RiderID, DriverID: drivers[driverIdx].DriverID})
		}
	}
	return results
}

// greedyBatchMatches assigns each rider, in order, the best remaining
// driver within radius (spec §4.7).
func (h HungarianMatching) greedyBatchMatches(riders []RiderQuery, drivers []Candidate, radius int) []Pair {
	pool := make([]Candidate, len(drivers))
	copy(pool, drivers)

	results := make([]Pair, 0)
	for _, r := range riders {
		driverID, ok := h.fallback.FindMatch(r, pool, radius)
		if !ok {
			continue
		}
		results = append(results, Pair{RiderID: r.RiderID, DriverID: driverID})
		pool = removeCandidate(pool, driverID)
	}
	return results
}

// scoreToWeight scales and clamps a float score into the solver's integer
// domain (spec §4.7: "clamped to the signed 64-bit range" — clamped here to
// the native int range, which is 64-bit on all supported platforms).
func scoreToWeight(s float64) int {
	w := s * scale
	const maxInt = int(^uint(0) >> 1)
	const minInt = -maxInt - 1
	if w >= float64(maxInt) {
		return maxInt
	}
	if w <= float64(minInt) {
		return minInt
	}
	return int(w)
}
