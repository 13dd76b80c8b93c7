// Package telemetry aggregates cumulative counters and completed-trip
// records for final and in-flight reporting (spec Component E, §4.5).
// Counter layout grounded on sim/metrics.go's Metrics struct in the teacher
// repo.
package telemetry

import "github.com/ridesim/ridesim/sim/entity"

// TripRecord is one completed trip's export record (spec §4.5).
type TripRecord struct {
	TripID      entity.ID
	RiderID     entity.ID
	DriverID    entity.ID
	RequestedAt uint64
	MatchedAt   uint64
	PickupAt    uint64
	CompletedAt uint64
	Fare        float64
	SurgeImpact float64
}

// TimeToMatch is the matched_at - requested_at duration in ms.
func (r TripRecord) TimeToMatch() uint64 { return saturatingSub(r.MatchedAt, r.RequestedAt) }

// TimeToPickup is the pickup_at - matched_at duration in ms.
func (r TripRecord) TimeToPickup() uint64 { return saturatingSub(r.PickupAt, r.MatchedAt) }

// TripDuration is the completed_at - pickup_at duration in ms.
func (r TripRecord) TripDuration() uint64 { return saturatingSub(r.CompletedAt, r.PickupAt) }

func saturatingSub(a, b uint64) uint64 {
	if a < b {
		return 0
	}
	return a - b
}

// Telemetry accumulates process-wide counters and completed-trip records
// (spec §4.5). Counter arithmetic saturates rather than overflowing (spec
// §7: "Telemetry saturation... Saturating arithmetic").
type Telemetry struct {
	RidersCompleted int64

	RidersCancelledTotal         int64
	RidersCancelledPickupTimeout int64

	RidersAbandonedQuoteTotal      int64
	RidersAbandonedQuotePrice      int64
	RidersAbandonedQuoteEta        int64
	RidersAbandonedQuoteStochastic int64

	RidersSpawnedTotal int64

	PlatformRevenueTotal float64
	TotalFaresCollected  float64

	CompletedTrips []TripRecord
}

func addSaturating(counter *int64, delta int64) {
	next := *counter + delta
	if delta > 0 && next < *counter {
		next = int64(^uint64(0) >> 1) // saturate at max int64
	}
	*counter = next
}

// RecordRiderSpawned increments the riders-spawned counter.
func (t *Telemetry) RecordRiderSpawned() { addSaturating(&t.RidersSpawnedTotal, 1) }

// RecordCompletedTrip appends a completed-trip record and increments the
// completion counter.
func (t *Telemetry) RecordCompletedTrip(r TripRecord) {
	addSaturating(&t.RidersCompleted, 1)
	t.CompletedTrips = append(t.CompletedTrips, r)
}

// RecordPickupTimeoutCancellation increments both the specific and total
// cancellation counters (spec §4.5: "riders_cancelled_total (split
// ..._pickup_timeout)").
func (t *Telemetry) RecordPickupTimeoutCancellation() {
	addSaturating(&t.RidersCancelledPickupTimeout, 1)
	addSaturating(&t.RidersCancelledTotal, 1)
}

// QuoteAbandonReason is why a rider gave up after exhausting retries.
type QuoteAbandonReason int

const (
	AbandonPrice QuoteAbandonReason = iota
	AbandonEta
	AbandonStochastic
)

// RecordQuoteAbandoned increments both the specific and total
// quote-abandonment counters (spec §4.5).
func (t *Telemetry) RecordQuoteAbandoned(reason QuoteAbandonReason) {
	addSaturating(&t.RidersAbandonedQuoteTotal, 1)
	switch reason {
	case AbandonPrice:
		addSaturating(&t.RidersAbandonedQuotePrice, 1)
	case AbandonEta:
		addSaturating(&t.RidersAbandonedQuoteEta, 1)
	case AbandonStochastic:
		addSaturating(&t.RidersAbandonedQuoteStochastic, 1)
	}
}

// CreditFare applies the platform/driver revenue split for a completed
// trip (spec §4.8 step 14).
func (t *Telemetry) CreditFare(fare float64, commissionRate float64) (driverShare float64) {
	t.PlatformRevenueTotal += fare * commissionRate
	t.TotalFaresCollected += fare
	return fare * (1 - commissionRate)
}
