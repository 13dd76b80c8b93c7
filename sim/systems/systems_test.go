package systems

import (
	"testing"

	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/config"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/matching"
	"github.com/ridesim/ridesim/sim/rng"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/spawn"
	"github.com/ridesim/ridesim/sim/traffic"
	"github.com/ridesim/ridesim/sim/world"
	"github.com/stretchr/testify/require"
)

func cellAt(t *testing.T, lat, lng float64) spatial.CellID {
	t.Helper()
	c, err := spatial.LatLngToCell(lat, lng)
	require.NoError(t, err)
	return c
}

// newTestWorld builds a fully-wired, minimal World for handler unit tests:
// grid routing, simple matching, no traffic effects, generous quote/cancel
// tolerances so a handler under test isn't incidentally short-circuited by
// an unrelated rejection path.
func newTestWorld(t *testing.T) *world.World {
	t.Helper()
	w := world.New(0)
	w.RNG = rng.NewSource(1)
	w.RouteProvider = spatial.GridRouter{}
	w.Matching = matching.SimpleMatching{}
	w.Speed = traffic.DefaultModel(0)

	w.Pricing = config.DefaultPricingConfig()
	w.RiderQuote = config.DefaultRiderQuoteConfig()
	w.DriverDecision = config.DefaultDriverDecisionConfig()
	w.RiderCancel = config.DefaultRiderCancelConfig()
	w.MatchRadius = 5
	w.BatchMatching = config.BatchMatchingConfig{Enabled: false, IntervalSecs: 5}
	w.MatchRetry = config.DefaultMatchRetryConfig()
	w.EtaWeight = config.DefaultEtaWeight

	w.MinTripCells = 1
	w.MaxTripCells = 10
	w.SnapshotIntervalMs = 60_000

	w.RiderSpawner = spawn.NewSpawner(spawn.Config{Distribution: spawn.Uniform{IntervalMs: 1000}})
	w.DriverSpawner = spawn.NewSpawner(spawn.Config{Distribution: spawn.Uniform{IntervalMs: 1000}})

	return w
}

func TestShowQuoteAttachesPendingFareAndSchedulesDecision(t *testing.T) {
	w := newTestWorld(t)
	pickup := cellAt(t, 52.52, 13.405)
	dest := cellAt(t, 52.55, 13.45)

	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderBrowsing, PickupCell: pickup, DestinationCell: dest})
	showQuote(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	r, ok := w.Store.Rider(riderID)
	require.True(t, ok)
	require.Greater(t, r.PendingFare, 0.0)
	require.Equal(t, 1, w.Clock.PendingEventCount())

	e, _ := w.Clock.PopNext()
	require.Equal(t, clock.QuoteDecision, e.Kind)
}

func TestQuoteDecisionRejectsAboveWillingnessToPay(t *testing.T) {
	w := newTestWorld(t)
	w.RiderQuote.MaxWillingnessToPay = 0.01

	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderBrowsing, PendingFare: 50.0})
	quoteDecision(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	r, _ := w.Store.Rider(riderID)
	require.Equal(t, entity.RejectionPriceTooHigh, r.LastRejection)

	e, ok := w.Clock.PopNext()
	require.True(t, ok)
	require.Equal(t, clock.QuoteRejected, e.Kind)
}

func TestQuoteRejectedAbandonsAfterMaxRejections(t *testing.T) {
	w := newTestWorld(t)
	w.RiderQuote.MaxQuoteRejections = 1

	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderBrowsing, QuoteRejections: 1})
	quoteRejected(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	require.Equal(t, int64(1), w.Telemetry.RidersAbandonedQuoteTotal)
	w.Store.Flush()
	_, ok := w.Store.Rider(riderID)
	require.False(t, ok, "rider despawned after exhausting requotes")
}

func TestQuoteAcceptedArmsRiderCancelAndTryMatch(t *testing.T) {
	w := newTestWorld(t)
	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderBrowsing, PendingFare: 10})
	quoteAccepted(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	r, _ := w.Store.Rider(riderID)
	require.Equal(t, entity.RiderWaiting, r.State)
	require.Equal(t, 2, w.Clock.PendingEventCount(), "both RiderCancel and TryMatch scheduled")
}

func TestTryMatchPairsRiderWithIdleDriverInRadius(t *testing.T) {
	w := newTestWorld(t)
	cell := cellAt(t, 52.52, 13.405)

	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderWaiting, PickupCell: cell})
	driverID := w.Store.SpawnDriver(&entity.Driver{State: entity.DriverIdle, Cell: cell})

	tryMatch(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	r, _ := w.Store.Rider(riderID)
	d, _ := w.Store.Driver(driverID)
	require.True(t, r.MatchedDriver.IsSet())
	require.Equal(t, entity.DriverEvaluating, d.State)
}

func TestTryMatchNoCandidateRetriesLater(t *testing.T) {
	w := newTestWorld(t)
	cell := cellAt(t, 52.52, 13.405)
	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderWaiting, PickupCell: cell})

	tryMatch(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	require.Equal(t, 1, w.Clock.PendingEventCount())
	e, _ := w.Clock.PopNext()
	require.Equal(t, clock.TryMatch, e.Kind)
	require.Equal(t, w.MatchRetry.RetryIntervalSecs*1000, e.TimestampMs)
}

func TestDriverDecisionAcceptCreatesTripAndStartsMovement(t *testing.T) {
	w := newTestWorld(t)
	w.DriverDecision.BaseAcceptanceScore = 100 // force sigmoid ~ 1

	pickup := cellAt(t, 52.52, 13.405)
	dest := cellAt(t, 52.55, 13.45)

	riderID := w.Store.SpawnRider(&entity.Rider{
		State: entity.RiderWaiting, PickupCell: pickup, DestinationCell: dest, PendingFare: 10,
	})
	driverID := w.Store.SpawnDriver(&entity.Driver{State: entity.DriverEvaluating, Cell: pickup, MatchedRider: entity.NewRef(riderID)})
	r, _ := w.Store.Rider(riderID)
	r.MatchedDriver = entity.NewRef(driverID)

	driverDecision(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})

	require.Equal(t, 1, w.Store.TripCount())
	trip, ok := w.Store.TripByRider(riderID)
	require.True(t, ok)
	require.Equal(t, entity.TripEnRoute, trip.State)

	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverEnRoute, d.State)
	require.Equal(t, 1, w.Clock.PendingEventCount())
}

func TestDriverDecisionRejectFreesDriverOnMatchRejected(t *testing.T) {
	w := newTestWorld(t)
	w.DriverDecision = config.DriverDecisionConfig{BaseAcceptanceScore: -100}

	pickup := cellAt(t, 52.52, 13.405)
	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderWaiting, PickupCell: pickup, PendingFare: 10})
	driverID := w.Store.SpawnDriver(&entity.Driver{State: entity.DriverEvaluating, Cell: pickup, MatchedRider: entity.NewRef(riderID)})
	r, _ := w.Store.Rider(riderID)
	r.MatchedDriver = entity.NewRef(driverID)

	driverDecision(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(riderID)})
	require.Equal(t, 0, w.Store.TripCount())

	e, ok := w.Clock.PopNext()
	require.True(t, ok)
	require.Equal(t, clock.MatchRejected, e.Kind)

	matchRejected(w, e)
	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverIdle, d.State)
	require.False(t, d.MatchedRider.IsSet())
}

func TestTripCompletedCreditsFareAndDespawns(t *testing.T) {
	w := newTestWorld(t)
	pickup := cellAt(t, 52.52, 13.405)
	dest := cellAt(t, 52.55, 13.45)

	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderInTransit, PickupCell: pickup, DestinationCell: dest})
	driverID := w.Store.SpawnDriver(&entity.Driver{State: entity.DriverOnTrip, Cell: dest})
	tripID := w.Store.SpawnTrip(&entity.Trip{
		State: entity.TripOnTrip, Rider: entity.NewRef(riderID), Driver: entity.NewRef(driverID),
		PickupCell: pickup, DropoffCell: dest, Fare: 20.0,
	})

	tripCompleted(w, clock.Event{TimestampMs: 1000, Subject: entity.NewRef(tripID)})
	w.Store.Flush()

	require.Equal(t, int64(1), w.Telemetry.RidersCompleted)
	require.InDelta(t, 20.0*w.Pricing.CommissionRate, w.Telemetry.PlatformRevenueTotal, 1e-9)

	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverIdle, d.State)
	require.InDelta(t, 20.0*(1-w.Pricing.CommissionRate), d.Earnings.DailyEarnings, 1e-9)

	_, riderStillLive := w.Store.Rider(riderID)
	require.False(t, riderStillLive)
	_, tripStillLive := w.Store.Trip(tripID)
	require.False(t, tripStillLive)
}

func TestRiderCancelForcesTripCancellationWhenMatched(t *testing.T) {
	w := newTestWorld(t)
	pickup := cellAt(t, 52.52, 13.405)

	riderID := w.Store.SpawnRider(&entity.Rider{State: entity.RiderWaiting, PickupCell: pickup})
	driverID := w.Store.SpawnDriver(&entity.Driver{State: entity.DriverEnRoute, Cell: pickup})
	r, _ := w.Store.Rider(riderID)
	r.MatchedDriver = entity.NewRef(driverID)
	tripID := w.Store.SpawnTrip(&entity.Trip{State: entity.TripEnRoute, Rider: entity.NewRef(riderID), Driver: entity.NewRef(driverID)})

	riderCancel(w, clock.Event{TimestampMs: 500, Subject: entity.NewRef(riderID)})
	w.Store.Flush()

	require.Equal(t, int64(1), w.Telemetry.RidersCancelledPickupTimeout)
	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverIdle, d.State)
	_, riderStillLive := w.Store.Rider(riderID)
	require.False(t, riderStillLive)
	_, tripStillLive := w.Store.Trip(tripID)
	require.False(t, tripStillLive)
}

func TestCheckDriverOffDutyTriggersOnEarningsTarget(t *testing.T) {
	w := newTestWorld(t)
	driverID := w.Store.SpawnDriver(&entity.Driver{
		State: entity.DriverIdle,
		Earnings: entity.Earnings{DailyEarnings: 150, DailyTarget: 100, SessionStartMs: 0},
	})

	checkDriverOffDuty(w, clock.Event{TimestampMs: 0})

	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverOffDuty, d.State)
}

func TestCheckDriverOffDutyTriggersOnFatigue(t *testing.T) {
	w := newTestWorld(t)
	driverID := w.Store.SpawnDriver(&entity.Driver{
		State: entity.DriverIdle,
		Fatigue: entity.Fatigue{ThresholdMs: 1000},
	})

	checkDriverOffDuty(w, clock.Event{TimestampMs: 2000})

	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverOffDuty, d.State)
}

// TestCheckDriverOffDutyTriggersWhileEnRoute is the spec's literal scenario
// 6: a driver whose fatigue threshold is crossed while EnRoute is taken off
// duty by the very next check, not just once it goes Idle.
func TestCheckDriverOffDutyTriggersWhileEnRoute(t *testing.T) {
	w := newTestWorld(t)
	driverID := w.Store.SpawnDriver(&entity.Driver{
		State:    entity.DriverEnRoute,
		Fatigue:  entity.Fatigue{ThresholdMs: 8 * 3_600_000},
		Earnings: entity.Earnings{SessionStartMs: 0},
	})

	checkDriverOffDuty(w, clock.Event{TimestampMs: 9 * 3_600_000})

	d, _ := w.Store.Driver(driverID)
	require.Equal(t, entity.DriverOffDuty, d.State)
}

// TestCheckDriverOffDutyReschedulesWithNoActiveDrivers asserts the sweep
// keeps rescheduling itself even when every current driver is OffDuty (or
// none exist yet): drivers can still spawn later in the run, so there is no
// local condition under which this periodic check should stop on its own
// (spec §4.8 steps 1, 16).
func TestCheckDriverOffDutyReschedulesWithNoActiveDrivers(t *testing.T) {
	w := newTestWorld(t)
	w.Store.SpawnDriver(&entity.Driver{State: entity.DriverOffDuty})

	checkDriverOffDuty(w, clock.Event{TimestampMs: 0})

	require.Equal(t, 1, w.Clock.PendingEventCount())
}

func TestSnapshotTickCapturesCountsAndReschedules(t *testing.T) {
	w := newTestWorld(t)
	w.Store.SpawnRider(&entity.Rider{State: entity.RiderBrowsing})
	w.Store.SpawnDriver(&entity.Driver{State: entity.DriverIdle})

	snapshotTick(w, clock.Event{TimestampMs: 0})

	snap, ok := w.Snapshots.Latest()
	require.True(t, ok)
	require.Equal(t, 1, snap.Counts.RidersBrowsing)
	require.Equal(t, 1, snap.Counts.DriversIdle)

	e, ok := w.Clock.PopNext()
	require.True(t, ok)
	require.Equal(t, clock.SnapshotTick, e.Kind)
	require.Equal(t, w.SnapshotIntervalMs, e.TimestampMs)
}

func TestMoveStepAdvancesDriverTowardPickup(t *testing.T) {
	w := newTestWorld(t)
	pickup := cellAt(t, 52.60, 13.50)
	start := cellAt(t, 52.52, 13.405)

	driverID := w.Store.SpawnDriver(&entity.Driver{State: entity.DriverEnRoute, Cell: start})
	tripID := w.Store.SpawnTrip(&entity.Trip{
		State: entity.TripEnRoute, Driver: entity.NewRef(driverID), PickupCell: pickup, DropoffCell: pickup,
	})

	moveStep(w, clock.Event{TimestampMs: 0, Subject: entity.NewRef(tripID)})

	d, _ := w.Store.Driver(driverID)
	require.NotEqual(t, start, d.Cell, "driver advanced one grid cell toward pickup")
	require.Equal(t, 2, w.Clock.PendingEventCount(), "PickupEtaUpdated and the next MoveStep scheduled")
}
