// Package config holds the process-wide, single-writer configuration
// resources the scenario builder assembles into a world (spec §3 "Global
// resources", §6 ScenarioParams). Defaults are grounded on
// original_source/.../scenario/params.rs's Default impls where that file
// specifies a concrete default, and on spec.md's own inline defaults
// otherwise (see DESIGN.md for the pricing defaults, which original_source
// did not retrieve a pricing.rs for).
package config

// MatchingAlgorithmType selects the matching strategy (spec §4.7, §6).
type MatchingAlgorithmType int

const (
	MatchingSimple MatchingAlgorithmType = iota
	MatchingCostBased
	MatchingHungarian
)

// PricingConfig governs fare calculation and surge pricing (spec §4.8 step 3).
type PricingConfig struct {
	BaseFare          float64
	PerKmRate         float64
	CommissionRate    float64
	SurgeEnabled      bool
	SurgeRadiusK      int
	SurgeMaxMultiplier float64
}

// DefaultPricingConfig mirrors typical ride-hailing fare structures: a
// fixed base fare plus a per-km rate, with a 20% platform commission and
// surge disabled by default.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		BaseFare:           2.5,
		PerKmRate:          1.2,
		CommissionRate:     0.20,
		SurgeEnabled:       false,
		SurgeRadiusK:       2,
		SurgeMaxMultiplier: 3.0,
	}
}

// RiderQuoteConfig governs quote accept/reject behavior (spec §4.8 step 4).
type RiderQuoteConfig struct {
	MaxQuoteRejections    int
	RequoteDelaySecs      uint64
	AcceptProbability     float64
	Seed                  uint64
	MaxWillingnessToPay   float64
	MaxAcceptableEtaMs    uint64
}

// DefaultRiderQuoteConfig mirrors original_source/.../scenario/params.rs's
// RiderQuoteConfig::default().
func DefaultRiderQuoteConfig() RiderQuoteConfig {
	return RiderQuoteConfig{
		MaxQuoteRejections:  3,
		RequoteDelaySecs:    10,
		AcceptProbability:   0.8,
		Seed:                0,
		MaxWillingnessToPay: 100.0,
		MaxAcceptableEtaMs:  600_000,
	}
}

// DriverDecisionConfig governs the logit-style accept/reject score (spec
// §4.8 step 10).
type DriverDecisionConfig struct {
	Seed                    uint64
	FareWeight              float64
	PickupDistancePenalty   float64
	TripDistanceBonus       float64
	EarningsProgressWeight  float64
	FatiguePenalty          float64
	BaseAcceptanceScore     float64
}

// DefaultDriverDecisionConfig mirrors
// original_source/.../scenario/params.rs's DriverDecisionConfig::default().
func DefaultDriverDecisionConfig() DriverDecisionConfig {
	return DriverDecisionConfig{
		Seed:                   0,
		FareWeight:             0.1,
		PickupDistancePenalty:  -2.0,
		TripDistanceBonus:      0.5,
		EarningsProgressWeight: -0.5,
		FatiguePenalty:         -1.0,
		BaseAcceptanceScore:    1.0,
	}
}

// RiderCancelConfig bounds how long a waiting rider tolerates no pickup
// (spec §4.8 step 15).
type RiderCancelConfig struct {
	MinWaitSecs uint64
	MaxWaitSecs uint64
	Seed        uint64
}

// DefaultRiderCancelConfig mirrors
// original_source/.../scenario/params.rs's RiderCancelConfig::default().
func DefaultRiderCancelConfig() RiderCancelConfig {
	return RiderCancelConfig{MinWaitSecs: 120, MaxWaitSecs: 2400, Seed: 0}
}

// MatchRadius is the max H3 grid distance for matching; 0 means same-cell
// only (spec §6).
type MatchRadius uint32

// BatchMatchingConfig toggles periodic batch matching vs per-rider TryMatch
// (spec §4.8 steps 7-8).
type BatchMatchingConfig struct {
	Enabled      bool
	IntervalSecs uint64
}

// DefaultBatchMatchingConfig mirrors
// original_source/.../scenario/params.rs's BatchMatchingConfig::default().
func DefaultBatchMatchingConfig() BatchMatchingConfig {
	return BatchMatchingConfig{Enabled: true, IntervalSecs: 5}
}

// MatchRetryConfig controls the TryMatch retry cadence on a match miss
// (spec §4.8 step 7, §9 open question — resolved as configurable rather
// than a hardcoded 30s; see DESIGN.md).
type MatchRetryConfig struct {
	RetryIntervalSecs uint64
}

// DefaultMatchRetryConfig mirrors the literal retry interval spec.md names
// in §4.8 step 7 ("schedule another TryMatch in 30s").
func DefaultMatchRetryConfig() MatchRetryConfig {
	return MatchRetryConfig{RetryIntervalSecs: 30}
}

// DefaultEtaWeight is the scoring weight from spec §4.7.
const DefaultEtaWeight = 0.1
