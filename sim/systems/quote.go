package systems

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/pricing"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/world"
)

// showQuote routes the pickup-to-destination trip, prices it (with surge if
// enabled), attaches the quote to the rider, and schedules QuoteDecision in
// 1s (spec §4.8 step 3).
func showQuote(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderBrowsing {
		return
	}

	distanceKm, etaMs := routeFor(w, r.PickupCell, r.DestinationCell)

	demand, supply := 0, 0
	if w.Pricing.SurgeEnabled {
		cells := diskSet(r.PickupCell, w.Pricing.SurgeRadiusK)
		demand = w.Store.RidersWithUnmetNeedInDisk(cells)
		supply = w.Store.IdleDriversInDisk(cells)
	}
	quote := pricing.NewQuote(w.Pricing, distanceKm, demand, supply, etaMs)

	r.PendingFare = quote.Fare
	r.PendingEtaMs = quote.EtaMs
	r.PendingSurge = quote.SurgeImpact

	w.Clock.ScheduleInSecs(1, clock.QuoteDecision, e.Subject)
}

// routeFor resolves a distance/ETA pair via the configured RouteProvider,
// falling back to haversine distance and a zero ETA on a routing miss (spec
// §7: "a routing miss yields None; callers treat this as 'cannot move this
// step', not a fatal error" — here, as "price without a live ETA").
func routeFor(w *world.World, from, to spatial.CellID) (distanceKm float64, etaMs uint64) {
	if route, ok := w.RouteProvider.Route(from, to); ok {
		return route.DistanceKm, uint64(route.DurationS * 1000.0)
	}
	return spatial.DistanceKm(from, to), 0
}

// quoteDecision rejects deterministically on price or ETA, otherwise
// accepts/rejects stochastically via an RNG stream derived from
// (config.seed, rider_id, rejections) (spec §4.8 step 4).
func quoteDecision(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderBrowsing {
		return
	}

	if r.PendingFare > w.RiderQuote.MaxWillingnessToPay {
		r.LastRejection = entity.RejectionPriceTooHigh
		w.Clock.ScheduleAt(e.TimestampMs, clock.QuoteRejected, e.Subject)
		return
	}
	if r.PendingEtaMs > w.RiderQuote.MaxAcceptableEtaMs {
		r.LastRejection = entity.RejectionEtaTooLong
		w.Clock.ScheduleAt(e.TimestampMs, clock.QuoteRejected, e.Subject)
		return
	}

	rng := w.RNG.ForDecision(uint64(riderID), uint64(r.QuoteRejections))
	if rng.Float64() < w.RiderQuote.AcceptProbability {
		w.Clock.ScheduleAt(e.TimestampMs, clock.QuoteAccepted, e.Subject)
		return
	}
	r.LastRejection = entity.RejectionStochastic
	w.Clock.ScheduleAt(e.TimestampMs, clock.QuoteRejected, e.Subject)
}

// quoteRejected re-quotes up to MaxQuoteRejections times, then abandons the
// rider entirely (spec §4.8 step 5).
func quoteRejected(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok {
		return
	}

	r.QuoteRejections++
	if r.QuoteRejections <= w.RiderQuote.MaxQuoteRejections {
		w.Clock.ScheduleIn(w.RiderQuote.RequoteDelaySecs*1000, clock.ShowQuote, e.Subject)
		return
	}

	r.State = entity.RiderCancelled
	w.Telemetry.RecordQuoteAbandoned(abandonReasonFor(r.LastRejection))
	w.Store.DeferDespawnRider(riderID)
}

// quoteAccepted moves the rider into Waiting, arms its pickup-timeout
// cancellation, and (outside batch matching) kicks off its first TryMatch
// (spec §4.8 step 6).
func quoteAccepted(w *world.World, e clock.Event) {
	riderID, ok := e.Subject.Get()
	if !ok {
		return
	}
	r, ok := w.Store.Rider(riderID)
	if !ok || r.State != entity.RiderBrowsing {
		return
	}

	r.State = entity.RiderWaiting
	r.AcceptedFare = r.PendingFare

	rng := w.RNG.ForName(riderCancelWaitRNGName(riderID))
	span := w.RiderCancel.MaxWaitSecs - w.RiderCancel.MinWaitSecs
	waitSecs := w.RiderCancel.MinWaitSecs
	if span > 0 {
		waitSecs += uint64(rng.Float64() * float64(span))
	}
	w.Clock.ScheduleIn(waitSecs*1000, clock.RiderCancel, e.Subject)

	if !w.BatchMatching.Enabled {
		w.Clock.ScheduleInSecs(1, clock.TryMatch, e.Subject)
	}
}
