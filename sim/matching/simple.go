package matching

import "github.com/ridesim/ridesim/sim/entity"

// SimpleMatching returns the first available driver within radius; ties
// are broken by iteration order (spec §4.7).
type SimpleMatching struct{}

func (SimpleMatching) FindMatch(rider RiderQuery, drivers []Candidate, radius int) (entity.ID, bool) {
	for _, d := range drivers {
		if withinRadius(gridDistance(rider.PickupCell, d.Cell), radius) {
			return d.DriverID, true
		}
	}
	return 0, false
}

// FindBatchMatches applies FindMatch greedily in rider order, removing each
// matched driver from the candidate pool so no driver is assigned twice.
func (s SimpleMatching) FindBatchMatches(riders []RiderQuery, drivers []Candidate, radius int) []Pair {
	pool := make([]Candidate, len(drivers))
	copy(pool, drivers)

	pairs := make([]Pair, 0)
	for _, r := range riders {
		driverID, ok := s.FindMatch(r, pool, radius)
		if !ok {
			continue
		}
		pairs = append(pairs, Pair{RiderID: r.RiderID, DriverID: driverID})
		pool = removeCandidate(pool, driverID)
	}
	return pairs
}

func removeCandidate(pool []Candidate, id entity.ID) []Candidate {
	out := make([]Candidate, 0, len(pool))
	for _, c := range pool {
		if c.DriverID == id {
			continue
		}
		out = append(out, c)
	}
	return out
}
