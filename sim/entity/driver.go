package entity

import "github.com/ridesim/ridesim/sim/spatial"

// DriverState is the closed set of driver lifecycle states (spec §3).
type DriverState int

const (
	DriverIdle DriverState = iota
	DriverEvaluating
	DriverEnRoute
	DriverOnTrip
	DriverOffDuty
)

func (s DriverState) StateCode() int { return int(s) }

func (s DriverState) String() string {
	switch s {
	case DriverIdle:
		return "Idle"
	case DriverEvaluating:
		return "Evaluating"
	case DriverEnRoute:
		return "EnRoute"
	case DriverOnTrip:
		return "OnTrip"
	case DriverOffDuty:
		return "OffDuty"
	default:
		return "Unknown"
	}
}

// Earnings tracks a driver's session-level revenue against their daily
// target (spec §3).
type Earnings struct {
	DailyEarnings  float64
	DailyTarget    float64
	SessionStartMs uint64
}

// Fatigue bounds how long a driver stays on shift before going off duty
// (spec §3, §4.8 step 16).
type Fatigue struct {
	ThresholdMs uint64
}

// Driver is a driver entity (spec §3): current position, lifecycle state,
// a weak reference to the rider it is matched with, and its Earnings and
// Fatigue components.
type Driver struct {
	ID           ID
	State        DriverState
	Cell         spatial.CellID
	MatchedRider Ref // weak; cleared on rejection/completion
	Earnings     Earnings
	Fatigue      Fatigue
}
