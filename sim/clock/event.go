// Package clock implements the discrete-event scheduler: the closed event
// kind set, the min-heap event queue, and the simulation clock that drives
// the runner loop (spec Component C, §4.3). Event ordering, heap mechanics
// and the BaseEvent/sequence-counter idiom are grounded on
// sim/cluster/event_heap.go and sim/cluster/events.go in the teacher repo.
package clock

import "github.com/ridesim/ridesim/sim/entity"

// Kind is the closed set of event kinds the engine dispatches (spec §4.3).
// Unlike the teacher's polymorphic Event interface (one struct per event
// type), the domain spec calls for a single tagged Event struct — so Kind
// is a plain enum rather than a carrier of per-kind payload types.
type Kind string

const (
	SimulationStarted   Kind = "SimulationStarted"
	SpawnRider          Kind = "SpawnRider"
	SpawnDriver         Kind = "SpawnDriver"
	RequestInbound      Kind = "RequestInbound"
	ShowQuote           Kind = "ShowQuote"
	QuoteDecision       Kind = "QuoteDecision"
	QuoteAccepted       Kind = "QuoteAccepted"
	QuoteRejected       Kind = "QuoteRejected"
	TryMatch            Kind = "TryMatch"
	BatchMatchRun       Kind = "BatchMatchRun"
	MatchAccepted       Kind = "MatchAccepted"
	MatchRejected       Kind = "MatchRejected"
	DriverDecision      Kind = "DriverDecision"
	MoveStep            Kind = "MoveStep"
	PickupEtaUpdated    Kind = "PickupEtaUpdated"
	TripStarted         Kind = "TripStarted"
	TripCompleted       Kind = "TripCompleted"
	RiderCancel         Kind = "RiderCancel"
	CheckDriverOffDuty  Kind = "CheckDriverOffDuty"
	SnapshotTick        Kind = "SnapshotTick"
	SimulationEnd       Kind = "SimulationEnd"
)

// Event is a single scheduled occurrence (spec §3). Subject is the entity
// the event concerns, if any; Sequence is an insertion counter that breaks
// ties between events sharing a timestamp (FIFO within the same tick).
type Event struct {
	TimestampMs uint64
	Kind        Kind
	Subject     entity.Ref
	Sequence    uint64
}
