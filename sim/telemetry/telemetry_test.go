package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTripRecordDerivedDurations(t *testing.T) {
	r := TripRecord{RequestedAt: 1000, MatchedAt: 1500, PickupAt: 2000, CompletedAt: 5000}
	assert.Equal(t, uint64(500), r.TimeToMatch())
	assert.Equal(t, uint64(500), r.TimeToPickup())
	assert.Equal(t, uint64(3000), r.TripDuration())
}

func TestTripRecordDerivedDurationsSaturateAtZero(t *testing.T) {
	r := TripRecord{RequestedAt: 1000, MatchedAt: 500}
	assert.Equal(t, uint64(0), r.TimeToMatch())
}

func TestRecordCompletedTripIncrementsCounterAndAppends(t *testing.T) {
	tel := &Telemetry{}
	tel.RecordCompletedTrip(TripRecord{TripID: 1})
	assert.Equal(t, int64(1), tel.RidersCompleted)
	require.Len(t, tel.CompletedTrips, 1)
}

func TestRecordPickupTimeoutCancellationIncrementsBoth(t *testing.T) {
	tel := &Telemetry{}
	tel.RecordPickupTimeoutCancellation()
	assert.Equal(t, int64(1), tel.RidersCancelledPickupTimeout)
	assert.Equal(t, int64(1), tel.RidersCancelledTotal)
}

func TestRecordQuoteAbandonedSplitsByReason(t *testing.T) {
	tel := &Telemetry{}
	tel.RecordQuoteAbandoned(AbandonPrice)
	tel.RecordQuoteAbandoned(AbandonEta)
	tel.RecordQuoteAbandoned(AbandonStochastic)

	assert.Equal(t, int64(3), tel.RidersAbandonedQuoteTotal)
	assert.Equal(t, int64(1), tel.RidersAbandonedQuotePrice)
	assert.Equal(t, int64(1), tel.RidersAbandonedQuoteEta)
	assert.Equal(t, int64(1), tel.RidersAbandonedQuoteStochastic)
}

func TestCreditFareSplitsByCommissionRate(t *testing.T) {
	tel := &Telemetry{}
	driverShare := tel.CreditFare(100.0, 0.2)

	assert.Equal(t, 20.0, tel.PlatformRevenueTotal)
	assert.Equal(t, 100.0, tel.TotalFaresCollected)
	assert.Equal(t, 80.0, driverShare)
}

func TestSnapshotsEvictsOldestBeyondCapacity(t *testing.T) {
	snaps := NewSnapshots(2)
	snaps.Push(Snapshot{TimestampMs: 1})
	snaps.Push(Snapshot{TimestampMs: 2})
	snaps.Push(Snapshot{TimestampMs: 3})

	all := snaps.All()
	require.Len(t, all, 2)
	assert.Equal(t, uint64(2), all[0].TimestampMs)
	assert.Equal(t, uint64(3), all[1].TimestampMs)
}

func TestSnapshotsLatest(t *testing.T) {
	snaps := NewSnapshots(10)
	_, ok := snaps.Latest()
	assert.False(t, ok)

	snaps.Push(Snapshot{TimestampMs: 42})
	latest, ok := snaps.Latest()
	require.True(t, ok)
	assert.Equal(t, uint64(42), latest.TimestampMs)
}

func TestSummarizeComputesMeanAndPercentile(t *testing.T) {
	tel := &Telemetry{}
	tel.RecordCompletedTrip(TripRecord{RequestedAt: 0, MatchedAt: 100})
	tel.RecordCompletedTrip(TripRecord{RequestedAt: 0, MatchedAt: 200})
	tel.RecordCompletedTrip(TripRecord{RequestedAt: 0, MatchedAt: 300})

	stats := tel.Summarize(TripRecord.TimeToMatch, 0.5)
	assert.Equal(t, 3, stats.Count)
	assert.Equal(t, 200.0, stats.Mean)
}

func TestSummarizeEmptyTrips(t *testing.T) {
	tel := &Telemetry{}
	stats := tel.Summarize(TripRecord.TimeToMatch, 0.5)
	assert.Equal(t, 0, stats.Count)
}
