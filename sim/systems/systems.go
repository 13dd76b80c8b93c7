// Package systems implements the per-event-kind handlers that advance
// riders, drivers and trips through their state machines (spec Component H,
// §4.8). Each handler is a short, pure-by-convention function keyed on
// EventKind and the subject's current state (spec §9: "Handlers are short,
// pure-by-convention functions"); a handler is a no-op when its subject has
// been despawned or sits in an unexpected state (spec §7 "stale event").
//
// Grounded on the teacher's per-system-as-method style in sim/cluster's
// event Execute methods (sim/cluster/cluster_event.go), generalized here
// into a Kind-keyed dispatch table since this engine's Event is one tagged
// struct rather than the teacher's per-kind interface implementations.
package systems

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/world"
)

// HandlerFunc processes one dispatched event against the world.
type HandlerFunc func(w *world.World, e clock.Event)

// SimulationSchedule returns the fixed set of event handlers (spec §6:
// "simulation_schedule() -> returns the fixed set of event handlers").
func SimulationSchedule() map[clock.Kind]HandlerFunc {
	return map[clock.Kind]HandlerFunc{
		clock.SimulationStarted:  simulationStarted,
		clock.SpawnRider:         spawnRider,
		clock.SpawnDriver:        spawnDriver,
		clock.RequestInbound:     requestInbound,
		clock.ShowQuote:          showQuote,
		clock.QuoteDecision:      quoteDecision,
		clock.QuoteAccepted:      quoteAccepted,
		clock.QuoteRejected:      quoteRejected,
		clock.TryMatch:           tryMatch,
		clock.BatchMatchRun:      batchMatchRun,
		clock.MatchAccepted:      matchAccepted,
		clock.MatchRejected:      matchRejected,
		clock.DriverDecision:     driverDecision,
		clock.MoveStep:           moveStep,
		clock.PickupEtaUpdated:   pickupEtaUpdated,
		clock.TripStarted:        tripStarted,
		clock.TripCompleted:      tripCompleted,
		clock.RiderCancel:        riderCancel,
		clock.CheckDriverOffDuty: checkDriverOffDuty,
		clock.SnapshotTick:       snapshotTick,
		clock.SimulationEnd:      simulationEnd,
	}
}

// Dispatch routes a single event to its handler, if one is registered. An
// event kind with no handler is silently ignored.
func Dispatch(w *world.World, schedule map[clock.Kind]HandlerFunc, e clock.Event) {
	if h, ok := schedule[e.Kind]; ok {
		h(w, e)
	}
}

// requestInbound is a reserved hook for external request ingestion (spec
// §4.3 lists it in the closed EventKind set but §4.8's numbered protocol
// never dispatches it — no engine-internal system produces it). No-op.
func requestInbound(w *world.World, e clock.Event) {}

// simulationEnd drains no new events (spec §4.8 step 18); the runner stops
// the loop before most SimulationEnd events are ever dispatched (spec §4.9).
func simulationEnd(w *world.World, e clock.Event) {}

// pickupEtaUpdated is a no-op hook; the live value lives on
// Trip.PickupEtaMs, which moveStep updates before emitting this event.
func pickupEtaUpdated(w *world.World, e clock.Event) {}
