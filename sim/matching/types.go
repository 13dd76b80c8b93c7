// Package matching implements the pluggable matching strategies that pair
// waiting riders with idle drivers (spec Component G, §4.7).
package matching

import (
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/spatial"
)

// Candidate is a driver available for matching, along with its position.
type Candidate struct {
	DriverID entity.ID
	Cell     spatial.CellID
}

// RiderQuery is a rider seeking a match, along with its pickup cell.
type RiderQuery struct {
	RiderID    entity.ID
	PickupCell spatial.CellID
}

// Pair is one resolved rider-driver assignment.
type Pair struct {
	RiderID  entity.ID
	DriverID entity.ID
}

// Algorithm is the strategy abstraction of spec §4.7: one operation for a
// single rider (used by TryMatch) and one for a whole batch (used by
// BatchMatchRun).
type Algorithm interface {
	FindMatch(rider RiderQuery, drivers []Candidate, radius int) (entity.ID, bool)
	FindBatchMatches(riders []RiderQuery, drivers []Candidate, radius int) []Pair
}
