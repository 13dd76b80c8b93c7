package systems

import (
	"fmt"
	"math"
	"sort"

	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/matching"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/telemetry"
	"github.com/ridesim/ridesim/sim/world"
)

// sortedKeys returns the keys of an entity-keyed map in ascending order,
// required wherever a Go map must be iterated during a decision (spec §9:
// "deterministic ordering... must be sorted or use an insertion-ordered
// structure").
func sortedKeys[T any](m map[entity.ID]T) []entity.ID {
	ids := make([]entity.ID, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// idleCandidates converts every idle driver into a matching.Candidate,
// sorted by ID.
func idleCandidates(w *world.World) []matching.Candidate {
	drivers := w.Store.IdleDriversSorted()
	out := make([]matching.Candidate, len(drivers))
	for i, d := range drivers {
		out[i] = matching.Candidate{DriverID: d.ID, Cell: d.Cell}
	}
	return out
}

// applyMatch wires a rider-driver pair found by the matching algorithm:
// both sides get a weak reference to each other, the driver moves to
// Evaluating, and a MatchAccepted event follows in 1s (spec §4.8 steps 7-9).
func applyMatch(w *world.World, riderID, driverID entity.ID, now uint64) {
	r, ok := w.Store.Rider(riderID)
	if !ok {
		return
	}
	d, ok := w.Store.Driver(driverID)
	if !ok {
		return
	}
	r.MatchedDriver = entity.NewRef(driverID)
	d.MatchedRider = entity.NewRef(riderID)
	d.State = entity.DriverEvaluating
	w.Clock.ScheduleInSecs(1, clock.MatchAccepted, entity.NewRef(riderID))
}

// diskSet converts a grid_disk result to a lookup set, used by the surge
// demand/supply counts (spec §4.8 step 3).
func diskSet(center spatial.CellID, k int) map[spatial.CellID]struct{} {
	disk := spatial.GridDisk(center, k)
	set := make(map[spatial.CellID]struct{}, len(disk))
	for _, c := range disk {
		set[c] = struct{}{}
	}
	return set
}

// sigmoid is the logit link used by the driver-decision acceptance score
// (spec §4.8 step 10).
func sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// saturatingSub returns a-b, or 0 if that would be negative (timestamps are
// unsigned; spec §7 calls for saturating arithmetic generally).
func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// riderCancelWaitRNGName derives a distinct RNG stream name for a rider's
// pickup-timeout wait-duration sample, distinct from the (seed, id,
// rejections) triple QuoteDecision uses (spec §4.8 step 6; not a decision
// point spec.md itself assigns an explicit seed formula to).
func riderCancelWaitRNGName(riderID entity.ID) string {
	return fmt.Sprintf("rider-cancel-wait:%d", riderID)
}

// abandonReasonFor maps a rider's last quote-rejection reason to the
// matching telemetry counter (spec §4.5, §4.8 step 5).
func abandonReasonFor(reason entity.QuoteRejectionReason) telemetry.QuoteAbandonReason {
	switch reason {
	case entity.RejectionPriceTooHigh:
		return telemetry.AbandonPrice
	case entity.RejectionEtaTooLong:
		return telemetry.AbandonEta
	default:
		return telemetry.AbandonStochastic
	}
}
