package systems

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/telemetry"
	"github.com/ridesim/ridesim/sim/world"
)

// minStepDelayMs floors the inter-MoveStep delay (spec §4.8 step 12:
// "minimum 1 s").
const minStepDelayMs = 1000

// moveStep advances a trip's driver one grid cell toward its current target
// (pickup while EnRoute, dropoff while OnTrip), or fires the stage's
// terminal event if already there (spec §4.8 step 12).
func moveStep(w *world.World, e clock.Event) {
	tripID, ok := e.Subject.Get()
	if !ok {
		return
	}
	trip, ok := w.Store.Trip(tripID)
	if !ok || (trip.State != entity.TripEnRoute && trip.State != entity.TripOnTrip) {
		return
	}
	driverID, _ := trip.Driver.Get()
	d, ok := w.Store.Driver(driverID)
	if !ok {
		return
	}

	expected := entity.DriverEnRoute
	target := trip.PickupCell
	if trip.State == entity.TripOnTrip {
		expected = entity.DriverOnTrip
		target = trip.DropoffCell
	}
	// CheckDriverOffDuty may force this driver's State to OffDuty mid-trip
	// (spec §4.8 step 16 applies "even in EnRoute/OnTrip"); per the
	// documented decision the live trip is not aborted, so OffDuty is
	// treated as still compatible with the trip's current stage here. Any
	// other mismatch means a genuinely stale event.
	if d.State != expected && d.State != entity.DriverOffDuty {
		return
	}

	if d.Cell == target {
		if trip.State == entity.TripEnRoute {
			trip.PickupEtaMs = 0
			w.Clock.ScheduleInSecs(1, clock.TripStarted, e.Subject)
		} else {
			w.Clock.ScheduleInSecs(1, clock.TripCompleted, e.Subject)
		}
		return
	}

	path := spatial.GridPathCells(d.Cell, target)
	if len(path) < 2 {
		// Routing miss: cannot advance this tick (spec §7), retry next tick.
		w.Clock.ScheduleInSecs(1, clock.MoveStep, e.Subject)
		return
	}
	prevCell := d.Cell
	d.Cell = path[1]

	localCount := w.Store.DriverCountAtCell(d.Cell)
	rng := w.RNG.ForDecision(uint64(driverID), e.TimestampMs)
	speedKmh := w.Speed.SampleSpeedKmh(rng, d.Cell, e.TimestampMs, localCount)
	if speedKmh <= 0 {
		speedKmh = 1.0
	}

	stepDistanceKm := spatial.DistanceKm(prevCell, d.Cell)
	remainingKm := spatial.DistanceKm(d.Cell, target)

	if trip.State == entity.TripEnRoute {
		trip.PickupEtaMs = hoursToMs(remainingKm / speedKmh)
		w.Clock.ScheduleAt(e.TimestampMs, clock.PickupEtaUpdated, e.Subject)
	}

	delayMs := hoursToMs(stepDistanceKm / speedKmh)
	if delayMs < minStepDelayMs {
		delayMs = minStepDelayMs
	}
	w.Clock.ScheduleIn(delayMs, clock.MoveStep, e.Subject)
}

func hoursToMs(hours float64) uint64 {
	if hours < 0 {
		return 0
	}
	return uint64(hours * 3600.0 * 1000.0)
}

// tripStarted transitions the trip/driver/rider into their on-trip states
// and starts movement toward dropoff (spec §4.8 step 13).
func tripStarted(w *world.World, e clock.Event) {
	tripID, ok := e.Subject.Get()
	if !ok {
		return
	}
	trip, ok := w.Store.Trip(tripID)
	if !ok || trip.State != entity.TripEnRoute {
		return
	}
	driverID, _ := trip.Driver.Get()
	riderID, _ := trip.Rider.Get()
	d, dok := w.Store.Driver(driverID)
	r, rok := w.Store.Rider(riderID)
	if !dok || !rok {
		return
	}

	trip.State = entity.TripOnTrip
	trip.PickupAt = e.TimestampMs
	// A driver forced OffDuty mid-pickup (spec §4.8 step 16) keeps that
	// state through the rest of this trip rather than being bounced back to
	// OnTrip, so it doesn't come back as Idle once TripCompleted fires.
	if d.State != entity.DriverOffDuty {
		d.State = entity.DriverOnTrip
	}
	r.State = entity.RiderInTransit

	w.Clock.ScheduleInSecs(1, clock.MoveStep, e.Subject)
}

// tripCompleted closes out the trip: credits platform/driver revenue,
// appends the completed-trip telemetry record, and despawns the rider and
// the terminal trip (spec §4.8 step 14).
func tripCompleted(w *world.World, e clock.Event) {
	tripID, ok := e.Subject.Get()
	if !ok {
		return
	}
	trip, ok := w.Store.Trip(tripID)
	if !ok || trip.State != entity.TripOnTrip {
		return
	}
	driverID, _ := trip.Driver.Get()
	riderID, _ := trip.Rider.Get()
	d, dok := w.Store.Driver(driverID)
	r, rok := w.Store.Rider(riderID)
	if !dok || !rok {
		return
	}

	trip.State = entity.TripCompleted
	trip.DropoffAt = e.TimestampMs
	// Preserve a mid-trip forced OffDuty rather than reviving the driver to
	// Idle (spec §4.8 step 16's "trip is not aborted" decision, §9 Open
	// Question 1): OffDuty only takes effect for matching once the trip's
	// terminal event fires, which is now.
	if d.State != entity.DriverOffDuty {
		d.State = entity.DriverIdle
	}
	d.MatchedRider = entity.NoRef
	r.State = entity.RiderCompleted

	driverShare := w.Telemetry.CreditFare(trip.Fare, w.Pricing.CommissionRate)
	d.Earnings.DailyEarnings += driverShare

	w.Telemetry.RecordCompletedTrip(telemetry.TripRecord{
		TripID:      trip.ID,
		RiderID:     riderID,
		DriverID:    driverID,
		RequestedAt: trip.RequestedAt,
		MatchedAt:   trip.MatchedAt,
		PickupAt:    trip.PickupAt,
		CompletedAt: trip.DropoffAt,
		Fare:        trip.Fare,
		SurgeImpact: trip.SurgeImpact,
	})

	w.Store.DeferDespawnRider(riderID)
	w.Store.DeferDespawnTrip(tripID)
}

// riderCancel fires when a waiting rider's pickup-timeout elapses: if
// matched, the in-flight trip is force-cancelled and the driver freed;
// either way the rider is cancelled and despawned (spec §4.8 step 15).
func riderCancel(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderWaiting {
		return
	}

	if r.MatchedDriver.IsSet() {
		driverID, _ := r.MatchedDriver.Get()
		if trip, ok := w.Store.TripByRider(riderID); ok {
			trip.State = entity.TripCancelled
			trip.CancelledAt = e.TimestampMs
			w.Store.DeferDespawnTrip(trip.ID)
		}
		if d, ok := w.Store.Driver(driverID); ok {
			if d.State != entity.DriverOffDuty {
				d.State = entity.DriverIdle
			}
			d.MatchedRider = entity.NoRef
		}
		r.MatchedDriver = entity.NoRef
	}

	r.State = entity.RiderCancelled
	w.Telemetry.RecordPickupTimeoutCancellation()
	w.Store.DeferDespawnRider(riderID)
}
