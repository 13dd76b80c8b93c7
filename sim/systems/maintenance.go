package systems

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/telemetry"
	"github.com/ridesim/ridesim/sim/world"
)

// checkDriverOffDuty sweeps every on-shift driver, forcing any driver past
// its earnings target or fatigue threshold off duty — including one
// currently EnRoute or OnTrip, per spec §4.8 step 16 ("Applies even in
// EnRoute/OnTrip"); the driver's live trip, if any, is not aborted by this
// (see DESIGN.md Open Question 1). Reschedules itself unconditionally, the
// same as snapshotTick: drivers can still spawn after a sweep finds none
// active. Because it always reschedules, the queue never drains while it
// runs; the runner's SimulationEndTimeMs and max-steps bounds (spec §4.9)
// are what eventually stop it, not a local "anyone left?" check.
func checkDriverOffDuty(w *world.World, e clock.Event) {
	for _, id := range sortedDriverKeys(w) {
		d, ok := w.Store.Driver(id)
		if !ok || d.State == entity.DriverOffDuty {
			continue
		}
		targetHit := d.Earnings.DailyTarget > 0 && d.Earnings.DailyEarnings >= d.Earnings.DailyTarget
		fatigued := d.Fatigue.ThresholdMs > 0 && saturatingSub(e.TimestampMs, d.Earnings.SessionStartMs) >= d.Fatigue.ThresholdMs
		if targetHit || fatigued {
			d.State = entity.DriverOffDuty
		}
	}

	w.Clock.ScheduleIn(offDutyCheckIntervalMs, clock.CheckDriverOffDuty, entity.NoRef)
}

func sortedDriverKeys(w *world.World) []entity.ID {
	return sortedKeys(w.Store.Drivers())
}

// snapshotTick captures a Snapshot of world state and reschedules itself at
// the configured interval (spec §4.5, §4.8 step 17).
func snapshotTick(w *world.World, e clock.Event) {
	w.Snapshots.Push(captureSnapshot(w, e.TimestampMs))
	w.Clock.ScheduleIn(w.SnapshotIntervalMs, clock.SnapshotTick, entity.NoRef)
}

// captureSnapshot builds a Snapshot from the store's current live entities,
// sorted by ID for deterministic export ordering (spec §6, §9).
func captureSnapshot(w *world.World, now uint64) telemetry.Snapshot {
	snap := telemetry.Snapshot{TimestampMs: now}

	for _, id := range sortedKeys(w.Store.Riders()) {
		r := w.Store.Riders()[id]
		switch r.State {
		case entity.RiderBrowsing:
			snap.Counts.RidersBrowsing++
		case entity.RiderWaiting:
			snap.Counts.RidersWaiting++
		case entity.RiderInTransit:
			snap.Counts.RidersInTransit++
		case entity.RiderCompleted:
			snap.Counts.RidersCompleted++
		case entity.RiderCancelled:
			snap.Counts.RidersCancelled++
		}
		snap.Riders = append(snap.Riders, telemetry.RiderProjection{
			EntityID:  r.ID,
			StateCode: r.State.StateCode(),
			Cell:      uint64(r.PickupCell),
		})
	}

	for _, id := range sortedDriverKeys(w) {
		d := w.Store.Drivers()[id]
		switch d.State {
		case entity.DriverIdle:
			snap.Counts.DriversIdle++
		case entity.DriverEvaluating:
			snap.Counts.DriversEvaluating++
		case entity.DriverEnRoute:
			snap.Counts.DriversEnRoute++
		case entity.DriverOnTrip:
			snap.Counts.DriversOnTrip++
		case entity.DriverOffDuty:
			snap.Counts.DriversOffDuty++
		}
		snap.Drivers = append(snap.Drivers, telemetry.DriverProjection{
			EntityID:        d.ID,
			StateCode:       d.State.StateCode(),
			Cell:            uint64(d.Cell),
			HasEarnings:     true,
			DailyEarnings:   d.Earnings.DailyEarnings,
			Target:          d.Earnings.DailyTarget,
			SessionStartMs:  d.Earnings.SessionStartMs,
			FatigueThreshMs: d.Fatigue.ThresholdMs,
		})
	}

	for _, id := range sortedKeys(w.Store.Trips()) {
		t := w.Store.Trips()[id]
		switch t.State {
		case entity.TripEnRoute:
			snap.Counts.TripsEnRoute++
		case entity.TripOnTrip:
			snap.Counts.TripsOnTrip++
		case entity.TripCompleted:
			snap.Counts.TripsCompleted++
		case entity.TripCancelled:
			snap.Counts.TripsCancelled++
		}
		riderID, _ := t.Rider.Get()
		driverID, _ := t.Driver.Get()
		snap.Trips = append(snap.Trips, telemetry.TripProjection{
			EntityID:                 t.ID,
			RiderID:                  riderID,
			DriverID:                 driverID,
			StateCode:                t.State.StateCode(),
			PickupCell:               uint64(t.PickupCell),
			DropoffCell:              uint64(t.DropoffCell),
			PickupDistanceKmAtAccept: t.PickupDistanceKm,
			RequestedAt:              t.RequestedAt,
			MatchedAt:                t.MatchedAt,
			PickupAt:                 t.PickupAt,
			HasPickupAt:              t.PickupAt != 0,
			DropoffAt:                t.DropoffAt,
			HasDropoffAt:             t.DropoffAt != 0,
			CancelledAt:              t.CancelledAt,
			HasCancelledAt:           t.CancelledAt != 0,
		})
	}

	return snap
}
