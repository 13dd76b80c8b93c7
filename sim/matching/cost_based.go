package matching

import "github.com/ridesim/ridesim/sim/entity"

// CostBasedMatching returns the highest-scoring driver within radius;
// numerical ties are broken by first occurrence (spec §4.7).
type CostBasedMatching struct {
	EtaWeight float64
}

// NewCostBasedMatching builds a CostBasedMatching with the given scoring
// weight (spec §4.7 default eta_weight = 0.1).
func NewCostBasedMatching(etaWeight float64) CostBasedMatching {
	return CostBasedMatching{EtaWeight: etaWeight}
}

func (c CostBasedMatching) FindMatch(rider RiderQuery, drivers []Candidate, radius int) (entity.ID, bool) {
	var (
		bestID    entity.ID
		bestScore float64
		found     bool
	)
	for _, d := range drivers {
		dist := gridDistance(rider.PickupCell, d.Cell)
		if !withinRadius(dist, radius) {
			continue
		}
		distanceKm := cellDistanceKm(rider.PickupCell, d.Cell)
		s := score(distanceKm, c.EtaWeight)
		if !found || s > bestScore {
			bestID, bestScore, found = d.DriverID, s, true
		}
	}
	return bestID, found
}

// FindBatchMatches applies FindMatch greedily in rider order, removing each
// matched driver from the candidate pool.
func (c CostBasedMatching) FindBatchMatches(riders []RiderQuery, drivers []Candidate, radius int) []Pair {
	pool := make([]Candidate, len(drivers))
	copy(pool, drivers)

	pairs := make([]Pair, 0)
	for _, r := range riders {
		driverID, ok := c.FindMatch(r, pool, radius)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{RiderID: r.RiderID, DriverID: driverID})
		pool = removeCandidate(pool, driverID)
	}
	return pairs
}
