package matching

import "github.com/ridesim/ridesim/sim/spatial"

// avgSpeedKmh is the average speed assumed for pickup ETA estimation,
// shared by CostBasedMatching and HungarianMatching (spec §4.7).
const avgSpeedKmh = 40.0

// minPickupEtaMs is the floor on the estimated pickup ETA (spec §4.7:
// "max(1000, ...)").
const minPickupEtaMs = 1000

// pickupEtaMs estimates time-to-pickup from distance, assuming avgSpeedKmh.
func pickupEtaMs(distanceKm float64) uint64 {
	if distanceKm <= 0 {
		return minPickupEtaMs
	}
	etaHours := distanceKm / avgSpeedKmh
	etaMs := etaHours * 3600.0 * 1000.0
	if etaMs < minPickupEtaMs {
		return minPickupEtaMs
	}
	return uint64(etaMs)
}

// score implements spec §4.7's shared scoring formula (higher is better):
//
//	pickup_eta_ms = max(1000, (distance_km / 40.0) * 3_600_000)
//	score         = -distance_km - (pickup_eta_ms / 1000) * eta_weight
func score(distanceKm float64, etaWeight float64) float64 {
	etaMs := pickupEtaMs(distanceKm)
	return -distanceKm - (float64(etaMs)/1000.0)*etaWeight
}

// withinRadius reports whether a grid distance is feasible: non-negative
// (the grid provides one) and at most radius.
func withinRadius(distance int, radius int) bool {
	return distance >= 0 && distance <= radius
}

func gridDistance(a, b spatial.CellID) int {
	return spatial.GridDistance(a, b)
}

func cellDistanceKm(a, b spatial.CellID) float64 {
	return spatial.DistanceKm(a, b)
}
