package systems

import (
	"fmt"

	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/spawn"
	"github.com/ridesim/ridesim/sim/world"
)

// simulationStarted initializes both spawners' initial burst, schedules the
// first streamed spawn of each, the first off-duty sweep, the first
// snapshot tick, and (if configured) the simulation's hard end and first
// batch-match run (spec §4.8 step 1).
func simulationStarted(w *world.World, e clock.Event) {
	initSpawner(w, w.RiderSpawner, e.TimestampMs, func(w *world.World, now, idx uint64) {
		spawnRiderEntity(w, now, initialRiderSpawnRNGName(idx))
	}, clock.SpawnRider)
	initSpawner(w, w.DriverSpawner, e.TimestampMs, func(w *world.World, now, idx uint64) {
		spawnDriverEntity(w, now, initialDriverSpawnRNGName(idx))
	}, clock.SpawnDriver)

	w.Clock.ScheduleIn(offDutyCheckIntervalMs, clock.CheckDriverOffDuty, entity.NoRef)
	w.Clock.ScheduleIn(w.SnapshotIntervalMs, clock.SnapshotTick, entity.NoRef)

	if w.HasSimulationEndTime {
		w.Clock.ScheduleAt(w.SimulationEndTimeMs, clock.SimulationEnd, entity.NoRef)
	}
	if w.BatchMatching.Enabled {
		w.Clock.ScheduleIn(w.BatchMatching.IntervalSecs*1000, clock.BatchMatchRun, entity.NoRef)
	}
}

// offDutyCheckIntervalMs is the fixed 5-minute cadence of CheckDriverOffDuty
// (spec §4.8 steps 1, 16).
const offDutyCheckIntervalMs = 5 * 60 * 1000

func initSpawner(w *world.World, s *spawn.Spawner, now uint64, spawnInitial func(*world.World, uint64, uint64), kind clock.Kind) {
	for i := uint64(0); i < s.Config.InitialCount; i++ {
		spawnInitial(w, now, i)
	}
	s.Initialized = true
	s.Advance(now)
	if s.ShouldSpawn(s.NextSpawnTimeMs) {
		w.Clock.ScheduleAt(s.NextSpawnTimeMs, kind, entity.NoRef)
	}
}

// spawnRider creates one rider from the stream, advances the spawner, and
// reschedules itself if the stream is still eligible (spec §4.8 step 2).
func spawnRider(w *world.World, e clock.Event) {
	spawnRiderEntity(w, e.TimestampMs, riderSpawnRNGName(w.RiderSpawner.SpawnedCount))
	w.RiderSpawner.Advance(e.TimestampMs)
	if w.RiderSpawner.ShouldSpawn(w.RiderSpawner.NextSpawnTimeMs) {
		w.Clock.ScheduleAt(w.RiderSpawner.NextSpawnTimeMs, clock.SpawnRider, entity.NoRef)
	}
}

func spawnDriver(w *world.World, e clock.Event) {
	spawnDriverEntity(w, e.TimestampMs, driverSpawnRNGName(w.DriverSpawner.SpawnedCount))
	w.DriverSpawner.Advance(e.TimestampMs)
	if w.DriverSpawner.ShouldSpawn(w.DriverSpawner.NextSpawnTimeMs) {
		w.Clock.ScheduleAt(w.DriverSpawner.NextSpawnTimeMs, clock.SpawnDriver, entity.NoRef)
	}
}

// initialRiderSpawnRNGName and initialDriverSpawnRNGName key the t=0 burst's
// per-entity RNG stream by its own loop index rather than the spawner's
// SpawnedCount, which stays 0 for every burst entity (SpawnedCount only
// advances once, after the whole burst) — without this every initial rider/
// driver would resample from the identical stream and land on the same
// cell, destination, target and fatigue threshold when initial_*_count > 1.
// Namespaced separately from the streamed spawns' RNG names so the two
// phases never share a stream at the same index.
func riderSpawnRNGName(idx uint64) string  { return fmt.Sprintf("rider-spawn:%d", idx) }
func driverSpawnRNGName(idx uint64) string { return fmt.Sprintf("driver-spawn:%d", idx) }
func initialRiderSpawnRNGName(idx uint64) string {
	return fmt.Sprintf("rider-spawn-initial:%d", idx)
}
func initialDriverSpawnRNGName(idx uint64) string {
	return fmt.Sprintf("driver-spawn-initial:%d", idx)
}

// spawnRiderEntity creates a Browsing rider at a sampled pickup cell with a
// sampled destination, then enqueues its first ShowQuote (spec §4.6 "Rider
// spawn").
func spawnRiderEntity(w *world.World, now uint64, rngName string) {
	rng := w.RNG.ForName(rngName)
	cell, ok := w.RiderSpawner.SampleCell(rng)
	if !ok {
		return
	}
	dest, ok := spawn.SampleDestinationCell(rng, cell, w.MinTripCells, w.MaxTripCells)
	if !ok {
		dest = cell
	}

	r := &entity.Rider{
		State:           entity.RiderBrowsing,
		PickupCell:      cell,
		DestinationCell: dest,
		RequestedAt:     now,
	}
	id := w.Store.SpawnRider(r)
	w.Telemetry.RecordRiderSpawned()
	w.Clock.ScheduleAt(now, clock.ShowQuote, entity.NewRef(id))
}

// spawnDriverEntity creates an Idle driver at a sampled cell with a sampled
// daily target and fatigue threshold (spec §4.6 "Driver spawn").
func spawnDriverEntity(w *world.World, now uint64, rngName string) {
	rng := w.RNG.ForName(rngName)
	cell, ok := w.DriverSpawner.SampleCell(rng)
	if !ok {
		return
	}

	const (
		minTarget    = 100.0
		maxTarget    = 300.0
		minFatigueHr = 8.0
		maxFatigueHr = 12.0
	)
	target := minTarget + rng.Float64()*(maxTarget-minTarget)
	fatigueMs := uint64((minFatigueHr + rng.Float64()*(maxFatigueHr-minFatigueHr)) * 3600 * 1000)

	d := &entity.Driver{
		State: entity.DriverIdle,
		Cell:  cell,
		Earnings: entity.Earnings{
			DailyTarget:    target,
			SessionStartMs: now,
		},
		Fatigue: entity.Fatigue{ThresholdMs: fatigueMs},
	}
	w.Store.SpawnDriver(d)
}
