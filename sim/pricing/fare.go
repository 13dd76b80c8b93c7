// Package pricing computes trip fares and the surge multiplier applied to
// them (spec §4.8 step 3).
package pricing

import "github.com/ridesim/ridesim/sim/config"

// BaseFare computes the unsurged fare for a trip of the given distance.
func BaseFare(cfg config.PricingConfig, distanceKm float64) float64 {
	return cfg.BaseFare + cfg.PerKmRate*distanceKm
}

// SurgeMultiplier implements spec §4.8 step 3's clamp formula:
//
//	multiplier = clamp(1 + (demand-supply)/supply, 1.0, surge_max_multiplier)  when supply > 0
//	multiplier = surge_max_multiplier                                          when supply == 0
//
// demand and supply are the counts of riders with unmet need and idle
// drivers within surge_radius_k of the pickup cell (spec §4.8 step 3).
func SurgeMultiplier(cfg config.PricingConfig, demand, supply int) float64 {
	if !cfg.SurgeEnabled {
		return 1.0
	}
	if supply <= 0 {
		return cfg.SurgeMaxMultiplier
	}
	multiplier := 1.0 + float64(demand-supply)/float64(supply)
	if multiplier < 1.0 {
		return 1.0
	}
	if multiplier > cfg.SurgeMaxMultiplier {
		return cfg.SurgeMaxMultiplier
	}
	return multiplier
}

// Quote bundles a fare and the surge multiplier applied to reach it (spec
// §4.8 step 3: "Attach RiderQuote{fare, eta_ms}").
type Quote struct {
	Fare      float64
	SurgeImpact float64
	EtaMs     uint64
}

// NewQuote applies the surge multiplier on top of the base fare.
func NewQuote(cfg config.PricingConfig, distanceKm float64, demand, supply int, etaMs uint64) Quote {
	base := BaseFare(cfg, distanceKm)
	surge := SurgeMultiplier(cfg, demand, supply)
	return Quote{Fare: base * surge, SurgeImpact: surge, EtaMs: etaMs}
}
