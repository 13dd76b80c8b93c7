package telemetry

import "github.com/ridesim/ridesim/sim/entity"

// Counts is the aggregate per-state entity count block of a snapshot (spec
// §6 stable snapshot schema).
type Counts struct {
	RidersBrowsing  int
	RidersWaiting   int
	RidersInTransit int
	RidersCompleted int
	RidersCancelled int

	DriversIdle       int
	DriversEvaluating int
	DriversEnRoute    int
	DriversOnTrip     int
	DriversOffDuty    int

	TripsEnRoute   int
	TripsOnTrip    int
	TripsCompleted int
	TripsCancelled int
}

// RiderProjection is one rider's snapshot row (spec §6).
type RiderProjection struct {
	EntityID  entity.ID
	StateCode int
	Cell      uint64
}

// DriverProjection is one driver's snapshot row. The earnings/target/
// session/fatigue fields are optional in the stable schema (spec §6 marks
// them `?`); HasEarnings distinguishes "zero" from "not applicable".
type DriverProjection struct {
	EntityID        entity.ID
	StateCode       int
	Cell            uint64
	HasEarnings     bool
	DailyEarnings   float64
	Target          float64
	SessionStartMs  uint64
	FatigueThreshMs uint64
}

// TripProjection is one trip's snapshot row (spec §6).
type TripProjection struct {
	EntityID                entity.ID
	RiderID                 entity.ID
	DriverID                entity.ID
	StateCode               int
	PickupCell              uint64
	DropoffCell             uint64
	PickupDistanceKmAtAccept float64
	RequestedAt             uint64
	MatchedAt               uint64
	PickupAt                uint64
	HasPickupAt             bool
	DropoffAt               uint64
	HasDropoffAt            bool
	CancelledAt             uint64
	HasCancelledAt          bool
}

// Snapshot is one periodic capture of world state (spec §4.5, §6).
type Snapshot struct {
	TimestampMs uint64
	Counts      Counts
	Riders      []RiderProjection
	Drivers     []DriverProjection
	Trips       []TripProjection
}

// defaultSnapshotCapacity bounds the deque to avoid unbounded memory growth
// over a long-running scenario (spec §4.5: "bounded deque").
const defaultSnapshotCapacity = 10_000

// Snapshots is a bounded deque of periodic Snapshot captures (spec §4.5).
type Snapshots struct {
	capacity int
	buffer   []Snapshot
}

// NewSnapshots returns an empty bounded deque. capacity <= 0 uses the
// package default.
func NewSnapshots(capacity int) *Snapshots {
	if capacity <= 0 {
		capacity = defaultSnapshotCapacity
	}
	return &Snapshots{capacity: capacity}
}

// Push appends a snapshot, evicting the oldest entry once capacity is
// exceeded.
func (s *Snapshots) Push(snap Snapshot) {
	s.buffer = append(s.buffer, snap)
	if len(s.buffer) > s.capacity {
		s.buffer = s.buffer[len(s.buffer)-s.capacity:]
	}
}

// All returns every retained snapshot, oldest first.
func (s *Snapshots) All() []Snapshot { return s.buffer }

// Len reports how many snapshots are currently retained.
func (s *Snapshots) Len() int { return len(s.buffer) }

// Latest returns the most recently pushed snapshot, if any.
func (s *Snapshots) Latest() (Snapshot, bool) {
	if len(s.buffer) == 0 {
		return Snapshot{}, false
	}
	return s.buffer[len(s.buffer)-1], true
}
