package entity

import "github.com/ridesim/ridesim/sim/spatial"

// TripState is the closed set of trip lifecycle states (spec §3).
type TripState int

const (
	TripEnRoute TripState = iota
	TripOnTrip
	TripCompleted
	TripCancelled
)

func (s TripState) StateCode() int { return int(s) }

func (s TripState) String() string {
	switch s {
	case TripEnRoute:
		return "EnRoute"
	case TripOnTrip:
		return "OnTrip"
	case TripCompleted:
		return "Completed"
	case TripCancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Trip owns a weak reference to exactly one rider and one driver; spec §3
// invariant 1 requires the trip only exist while both references are live.
// Timestamps absent for a trip's current stage are left at zero; callers
// that need "was this set" should compare against the trip's State.
type Trip struct {
	ID         ID
	State      TripState
	Rider      Ref
	Driver     Ref
	PickupCell  spatial.CellID
	DropoffCell spatial.CellID

	// PickupDistanceKm is frozen at match-accept time (spec §3).
	PickupDistanceKm float64
	Fare             float64
	SurgeImpact      float64

	// PickupEtaMs is the live pickup ETA while EnRoute, updated by MoveStep
	// (spec §4.8 step 12) and cleared to 0 on arrival.
	PickupEtaMs uint64

	RequestedAt uint64
	MatchedAt   uint64
	PickupAt    uint64
	DropoffAt   uint64
	CancelledAt uint64
}
