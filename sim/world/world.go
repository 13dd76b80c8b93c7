// Package world bundles every resource the systems package needs into a
// single handle (spec §6: "the engine exposes a world handle"). It imports
// every leaf component package (A-G) so handlers reach every engine-wide
// resource through this one value.
package world

import (
	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/config"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/matching"
	"github.com/ridesim/ridesim/sim/rng"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/spawn"
	"github.com/ridesim/ridesim/sim/telemetry"
	"github.com/ridesim/ridesim/sim/traffic"
)

// World is the single-writer, process-wide handle the runner drives (spec
// §5 "Shared-resource policy": "the world is owned exclusively by the
// runner"). It is not safe for concurrent use; nothing here synchronizes
// access because the engine is single-threaded at the event granularity.
type World struct {
	Store     *entity.Store
	Clock     *clock.SimulationClock
	Telemetry *telemetry.Telemetry
	Snapshots *telemetry.Snapshots
	RNG       rng.Source

	RouteProvider spatial.RouteProvider
	Matching      matching.Algorithm
	Speed         traffic.Model

	Pricing        config.PricingConfig
	RiderQuote     config.RiderQuoteConfig
	DriverDecision config.DriverDecisionConfig
	RiderCancel    config.RiderCancelConfig
	MatchRadius    config.MatchRadius
	BatchMatching  config.BatchMatchingConfig
	MatchRetry     config.MatchRetryConfig
	EtaWeight      float64

	RiderSpawner  *spawn.Spawner
	DriverSpawner *spawn.Spawner

	MinTripCells int
	MaxTripCells int

	SnapshotIntervalMs uint64

	HasSimulationEndTime bool
	SimulationEndTimeMs  uint64
}

// New assembles an empty World shell; the scenario builder fills in the
// resource fields and seeds the initial entity/event state.
func New(epochMs int64) *World {
	return &World{
		Store:     entity.NewStore(),
		Clock:     clock.NewSimulationClock(epochMs),
		Telemetry: &telemetry.Telemetry{},
		Snapshots: telemetry.NewSnapshots(0),
	}
}
