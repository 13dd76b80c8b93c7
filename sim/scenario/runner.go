package scenario

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/systems"
	"github.com/ridesim/ridesim/sim/world"
)

// RunNextEvent pops and dispatches exactly one event, flushing deferred
// store mutations afterward (spec §4.9 runner loop, one iteration). Returns
// false if the queue was empty or the simulation's hard end time has been
// reached, in which case no event was dispatched.
func RunNextEvent(w *world.World, schedule map[clock.Kind]systems.HandlerFunc) bool {
	e, ok := w.Clock.PopNext()
	if !ok {
		return false
	}
	if w.HasSimulationEndTime && e.TimestampMs >= w.SimulationEndTimeMs {
		return false
	}

	systems.Dispatch(w, schedule, e)
	w.Store.Flush()
	return true
}

// RunUntilEmpty drives the runner loop until the queue drains, the
// simulation's hard end time is reached, or maxSteps events have been
// dispatched, whichever comes first (spec §4.9). Returns the number of
// events actually dispatched.
func RunUntilEmpty(w *world.World, schedule map[clock.Kind]systems.HandlerFunc, maxSteps int) int {
	steps := 0
	for {
		if maxSteps > 0 && steps >= maxSteps {
			return steps
		}
		if !RunNextEvent(w, schedule) {
			return steps
		}
		steps++
	}
}
