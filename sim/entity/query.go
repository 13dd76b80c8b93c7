package entity

import (
	"sort"

	"github.com/ridesim/ridesim/sim/spatial"
)

// IdleDriverIDs returns the IDs of every driver in DriverIdle, sorted
// ascending. Sorting is required for cross-run determinism: Go map
// iteration order is randomized, and spec §5 requires hashed collections
// on the hot path to be sorted before iteration.
func (s *Store) IdleDriverIDs() []ID {
	ids := make([]ID, 0)
	for id, d := range s.drivers {
		if d.State == DriverIdle {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

// WaitingUnmatchedRiderIDs returns the IDs of every rider in RiderWaiting
// with no matched driver, sorted ascending.
func (s *Store) WaitingUnmatchedRiderIDs() []ID {
	ids := make([]ID, 0)
	for id, r := range s.riders {
		if r.State == RiderWaiting && !r.MatchedDriver.IsSet() {
			ids = append(ids, id)
		}
	}
	sortIDs(ids)
	return ids
}

func sortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}

// IdleDriversSorted returns every idle driver, sorted by ID, for feeding
// into the matching Algorithm interface deterministically.
func (s *Store) IdleDriversSorted() []*Driver {
	ids := s.IdleDriverIDs()
	out := make([]*Driver, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.drivers[id])
	}
	return out
}

// WaitingUnmatchedRidersSorted returns every unmatched, waiting rider,
// sorted by ID.
func (s *Store) WaitingUnmatchedRidersSorted() []*Rider {
	ids := s.WaitingUnmatchedRiderIDs()
	out := make([]*Rider, 0, len(ids))
	for _, id := range ids {
		out = append(out, s.riders[id])
	}
	return out
}

// DriverCountAtCell counts live drivers (any state) currently at cell, used
// by the density-based congestion factor (spec §4.2).
func (s *Store) DriverCountAtCell(cell spatial.CellID) int {
	count := 0
	for _, d := range s.drivers {
		if d.Cell == cell {
			count++
		}
	}
	return count
}

// RidersWithUnmetNeedInDisk counts riders in Browsing or Waiting (i.e. not
// yet matched to a driver) whose pickup cell falls in cells, used as the
// surge "demand" count (spec §4.8 step 3).
func (s *Store) RidersWithUnmetNeedInDisk(cells map[spatial.CellID]struct{}) int {
	count := 0
	for _, r := range s.riders {
		if _, ok := cells[r.PickupCell]; !ok {
			continue
		}
		if r.State == RiderBrowsing || (r.State == RiderWaiting && !r.MatchedDriver.IsSet()) {
			count++
		}
	}
	return count
}

// IdleDriversInDisk counts idle drivers whose cell falls in cells, used as
// the surge "supply" count (spec §4.8 step 3).
func (s *Store) IdleDriversInDisk(cells map[spatial.CellID]struct{}) int {
	count := 0
	for _, d := range s.drivers {
		if d.State != DriverIdle {
			continue
		}
		if _, ok := cells[d.Cell]; ok {
			count++
		}
	}
	return count
}

// TripByRider returns the live (EnRoute or OnTrip) trip referencing riderID,
// if any. A rider is matched to at most one driver at a time, so this
// lookup is unambiguous regardless of map iteration order.
func (s *Store) TripByRider(riderID ID) (*Trip, bool) {
	for _, t := range s.trips {
		if rid, ok := t.Rider.Get(); ok && rid == riderID && (t.State == TripEnRoute || t.State == TripOnTrip) {
			return t, true
		}
	}
	return nil, false
}
