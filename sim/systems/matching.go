package systems

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/matching"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/world"
)

// tryMatch attempts a per-rider opportunistic match against idle drivers in
// radius; on a miss it retries after MatchRetryConfig.RetryIntervalSecs
// (spec §4.8 step 7).
func tryMatch(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderWaiting || r.MatchedDriver.IsSet() {
		return
	}

	query := matching.RiderQuery{RiderID: riderID, PickupCell: r.PickupCell}
	driverID, found := w.Matching.FindMatch(query, idleCandidates(w), int(w.MatchRadius))
	if !found {
		w.Clock.ScheduleIn(w.MatchRetry.RetryIntervalSecs*1000, clock.TryMatch, e.Subject)
		return
	}
	applyMatch(w, riderID, driverID, e.TimestampMs)
}

// batchMatchRun runs the periodic global assignment over every unmatched
// waiting rider and idle driver, then reschedules itself (spec §4.8 step 8).
func batchMatchRun(w *world.World, e clock.Event) {
	riders := w.Store.WaitingUnmatchedRidersSorted()
	queries := make([]matching.RiderQuery, len(riders))
	for i, r := range riders {
		queries[i] = matching.RiderQuery{RiderID: r.ID, PickupCell: r.PickupCell}
	}

	pairs := w.Matching.FindBatchMatches(queries, idleCandidates(w), int(w.MatchRadius))
	for _, p := range pairs {
		applyMatch(w, p.RiderID, p.DriverID, e.TimestampMs)
	}

	w.Clock.ScheduleIn(w.BatchMatching.IntervalSecs*1000, clock.BatchMatchRun, entity.NoRef)
}

// matchAccepted schedules the driver's accept/reject decision (spec §4.8
// step 9).
func matchAccepted(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderWaiting || !r.MatchedDriver.IsSet() {
		return
	}
	w.Clock.ScheduleInSecs(1, clock.DriverDecision, e.Subject)
}

// driverDecision evaluates the logit-style acceptance score; on accept it
// creates the Trip and starts movement toward pickup, on reject it emits
// MatchRejected (spec §4.8 step 10).
func driverDecision(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderWaiting || !r.MatchedDriver.IsSet() {
		return
	}
	driverID, _ := r.MatchedDriver.Get()
	d, ok := w.Store.Driver(driverID)
	if !ok || d.State != entity.DriverEvaluating {
		return
	}

	pickupDistanceKm := spatial.DistanceKm(d.Cell, r.PickupCell)
	tripDistanceKm := spatial.DistanceKm(r.PickupCell, r.DestinationCell)

	earningsProgress := 0.0
	if d.Earnings.DailyTarget > 0 {
		earningsProgress = d.Earnings.DailyEarnings / d.Earnings.DailyTarget
	}
	fatigueFraction := 0.0
	if d.Fatigue.ThresholdMs > 0 {
		elapsed := saturatingSub(e.TimestampMs, d.Earnings.SessionStartMs)
		fatigueFraction = float64(elapsed) / float64(d.Fatigue.ThresholdMs)
	}

	cfg := w.DriverDecision
	score := cfg.BaseAcceptanceScore +
		cfg.FareWeight*r.PendingFare +
		cfg.PickupDistancePenalty*pickupDistanceKm +
		cfg.TripDistanceBonus*tripDistanceKm +
		cfg.EarningsProgressWeight*earningsProgress +
		cfg.FatiguePenalty*fatigueFraction
	pAccept := sigmoid(score)

	// Trip IDs don't exist until acceptance, so the rider ID stands in for
	// spec §4.8 step 10's "trip_id" component of the RNG triple here.
	rng := w.RNG.ForDecision(uint64(driverID), uint64(riderID))
	if rng.Float64() >= pAccept {
		w.Clock.ScheduleAt(e.TimestampMs, clock.MatchRejected, e.Subject)
		return
	}

	trip := &entity.Trip{
		State:            entity.TripEnRoute,
		Rider:            entity.NewRef(riderID),
		Driver:           entity.NewRef(driverID),
		PickupCell:       r.PickupCell,
		DropoffCell:      r.DestinationCell,
		PickupDistanceKm: pickupDistanceKm,
		Fare:             r.PendingFare,
		SurgeImpact:      r.PendingSurge,
		RequestedAt:      r.RequestedAt,
		MatchedAt:        e.TimestampMs,
	}
	tripID := w.Store.SpawnTrip(trip)
	d.State = entity.DriverEnRoute
	w.Clock.ScheduleInSecs(1, clock.MoveStep, entity.NewRef(tripID))
}

// matchRejected returns the driver to Idle, clears the rider's matched
// reference, and (outside batch matching) re-arms TryMatch (spec §4.8
// step 11).
func matchRejected(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok {
		return
	}

	if r.MatchedDriver.IsSet() {
		driverID, _ := r.MatchedDriver.Get()
		if d, ok := w.Store.Driver(driverID); ok {
			d.State = entity.DriverIdle
			d.MatchedRider = entity.NoRef
		}
	}
	r.MatchedDriver = entity.NoRef

	if r.State != entity.RiderWaiting {
		return
	}
	if !w.BatchMatching.Enabled {
		w.Clock.ScheduleIn(w.MatchRetry.RetryIntervalSecs*1000, clock.TryMatch, e.Subject)
	}
}
