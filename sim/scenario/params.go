// Package scenario assembles a world.World from a ScenarioParams value and
// drives its event loop (spec Component I, §4.9, §6). Grounded on the
// teacher's cmd/root.go + sim/cluster/simulator.go split: params parsing and
// validation live here, not in cmd/, so the same builder serves both the CLI
// and (eventually) any embedding caller.
package scenario

import (
	"fmt"

	"github.com/ridesim/ridesim/sim/clock"
	"github.com/ridesim/ridesim/sim/config"
	"github.com/ridesim/ridesim/sim/entity"
	"github.com/ridesim/ridesim/sim/matching"
	"github.com/ridesim/ridesim/sim/rng"
	"github.com/ridesim/ridesim/sim/spatial"
	"github.com/ridesim/ridesim/sim/spawn"
	"github.com/ridesim/ridesim/sim/traffic"
	"github.com/ridesim/ridesim/sim/world"
)

// RouteProviderKind selects how ScenarioParams.RouteProviderKind builds the
// world's RouteProvider (spec §6: `route_provider_kind`).
type RouteProviderKind int

const (
	RouteProviderGrid RouteProviderKind = iota
	RouteProviderExternal
	RouteProviderPrecomputed
)

// TrafficProfileKind mirrors traffic.ProfileKind at the params layer so
// callers building ScenarioParams don't need to import sim/traffic directly.
type TrafficProfileKind = traffic.ProfileKind

// ScenarioParams is the full set of recognized build options (spec §6).
// BuildScenario does not replace zero-value fields with the values of
// DefaultScenarioParams; callers start from DefaultScenarioParams and
// override fields from there. A zero MinTripCells or SnapshotIntervalMs
// fails Validate.
type ScenarioParams struct {
	NumRiders  uint64
	NumDrivers uint64

	InitialRiderCount  uint64
	InitialDriverCount uint64

	HasSeed bool
	Seed    uint64

	LatMin, LatMax float64
	LngMin, LngMax float64

	RequestWindowMs uint64
	DriverSpreadMs  uint64

	MatchRadius uint32

	MinTripCells int
	MaxTripCells int

	EpochMs int64

	HasSimulationEndTimeMs bool
	SimulationEndTimeMs    uint64

	Pricing        config.PricingConfig
	RiderQuote     config.RiderQuoteConfig
	DriverDecision config.DriverDecisionConfig
	RiderCancel    config.RiderCancelConfig

	MatchingAlgorithmType config.MatchingAlgorithmType
	BatchMatching         config.BatchMatchingConfig
	MatchRetry            config.MatchRetryConfig
	EtaWeight             float64

	RouteProviderKind     RouteProviderKind
	ExternalRouteEndpoint string
	PrecomputedRouteTable map[[2]spatial.CellID]spatial.Route
	RouteCacheCapacity    int
	RouteCacheFallback    bool

	TrafficProfile      TrafficProfileKind
	CustomHourlyFactors [24]float64
	CongestionZonesEnabled   bool
	CongestionZones          []traffic.ZoneOverride
	DynamicCongestionEnabled bool
	DynamicCongestionRadius  int
	HasBaseSpeedKmh          bool
	BaseSpeedKmh             float64

	SpawnWeighting spawn.WeightingKind

	SnapshotIntervalMs uint64
	MaxSteps           int
}

// DefaultScenarioParams returns the spec's named default values (spec §4.2,
// §4.6, §6) layered under whatever the caller overrides afterward.
func DefaultScenarioParams() ScenarioParams {
	return ScenarioParams{
		NumRiders:          100,
		NumDrivers:         50,
		InitialRiderCount:  10,
		InitialDriverCount: 10,
		LatMin:             -0.10, LatMax: 0.10,
		LngMin: -0.10, LngMax: 0.10,
		RequestWindowMs: 3_600_000,
		DriverSpreadMs:  1_800_000,
		MatchRadius:     3,
		MinTripCells:     2,
		MaxTripCells:     40,
		EpochMs:          0,
		Pricing:          config.DefaultPricingConfig(),
		RiderQuote:       config.DefaultRiderQuoteConfig(),
		DriverDecision:   config.DefaultDriverDecisionConfig(),
		RiderCancel:      config.DefaultRiderCancelConfig(),

		MatchingAlgorithmType: config.MatchingSimple,
		BatchMatching:         config.DefaultBatchMatchingConfig(),
		MatchRetry:            config.DefaultMatchRetryConfig(),
		EtaWeight:             config.DefaultEtaWeight,

		RouteProviderKind:  RouteProviderGrid,
		RouteCacheCapacity: spatial.DefaultRouteCacheCapacity,
		RouteCacheFallback: true,

		TrafficProfile: traffic.ProfileNone,

		SpawnWeighting: spawn.WeightingUniform,

		SnapshotIntervalMs: 60_000,
		MaxSteps:           10_000_000,
	}
}

// Validate fails fast on configuration errors the builder cannot recover
// from (spec §7: "Configuration errors... Fail fast during scenario build").
func (p ScenarioParams) Validate() error {
	if p.LatMin >= p.LatMax {
		return fmt.Errorf("scenario: lat_min (%f) must be < lat_max (%f)", p.LatMin, p.LatMax)
	}
	if p.LngMin >= p.LngMax {
		return fmt.Errorf("scenario: lng_min (%f) must be < lng_max (%f)", p.LngMin, p.LngMax)
	}
	if p.MinTripCells <= 0 || p.MaxTripCells < p.MinTripCells {
		return fmt.Errorf("scenario: invalid trip-cell range [%d, %d]", p.MinTripCells, p.MaxTripCells)
	}
	if p.RouteProviderKind == RouteProviderExternal && p.ExternalRouteEndpoint == "" {
		return fmt.Errorf("scenario: external route provider requires an endpoint")
	}
	if p.RouteProviderKind == RouteProviderPrecomputed && len(p.PrecomputedRouteTable) == 0 {
		return fmt.Errorf("scenario: precomputed route provider requires a non-empty table")
	}
	if p.SnapshotIntervalMs == 0 {
		return fmt.Errorf("scenario: snapshot_interval_ms must be > 0")
	}
	return nil
}

// BuildScenario assembles a fresh World from params: resources first, then
// the RNG source, then the two entity spawners (spec §4.9 "Builder assembles
// resources into the entity store").
func BuildScenario(p ScenarioParams) (*world.World, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}

	w := world.New(p.EpochMs)

	seed := p.Seed
	if !p.HasSeed {
		seed = 0 // spec §6: "when unset, entropy is used"; callers wanting
		// non-deterministic runs should set Seed themselves from a real
		// entropy source before calling BuildScenario (see applyFlags in
		// cmd/root.go).
	}
	w.RNG = rng.NewSource(int64(seed))

	w.RouteProvider = buildRouteProvider(p)
	w.Matching = buildMatchingAlgorithm(p)
	w.Speed = buildSpeedModel(p)

	w.Pricing = p.Pricing
	w.RiderQuote = p.RiderQuote
	w.DriverDecision = p.DriverDecision
	w.RiderCancel = p.RiderCancel
	w.MatchRadius = config.MatchRadius(p.MatchRadius)
	w.BatchMatching = p.BatchMatching
	w.MatchRetry = p.MatchRetry
	w.EtaWeight = p.EtaWeight

	w.MinTripCells = p.MinTripCells
	w.MaxTripCells = p.MaxTripCells
	w.SnapshotIntervalMs = p.SnapshotIntervalMs
	w.HasSimulationEndTime = p.HasSimulationEndTimeMs
	w.SimulationEndTimeMs = p.SimulationEndTimeMs

	bounds := spawn.Bounds{LatMin: p.LatMin, LatMax: p.LatMax, LngMin: p.LngMin, LngMax: p.LngMax}
	w.RiderSpawner = buildSpawner(p, bounds, p.NumRiders, p.InitialRiderCount, p.RequestWindowMs, spawn.RiderHotspots())
	w.DriverSpawner = buildSpawner(p, bounds, p.NumDrivers, p.InitialDriverCount, p.DriverSpreadMs, spawn.DriverHotspots())

	return w, nil
}

// InitializeSimulation enqueues the single SimulationStarted event that
// kicks off spawning and the maintenance sweeps (spec §6: "initialize_
// simulation(world) — enqueues the SimulationStarted event").
func InitializeSimulation(w *world.World) {
	w.Clock.ScheduleAt(0, clock.SimulationStarted, entity.NoRef)
}

func buildMatchingAlgorithm(p ScenarioParams) matching.Algorithm {
	switch p.MatchingAlgorithmType {
	case config.MatchingCostBased:
		return matching.NewCostBasedMatching(p.EtaWeight)
	case config.MatchingHungarian:
		return matching.NewHungarianMatching(p.EtaWeight)
	default:
		return matching.SimpleMatching{}
	}
}

func buildRouteProvider(p ScenarioParams) spatial.RouteProvider {
	var inner spatial.RouteProvider
	switch p.RouteProviderKind {
	case RouteProviderExternal:
		inner = spatial.NewExternalHTTPRouter(p.ExternalRouteEndpoint)
	case RouteProviderPrecomputed:
		inner = spatial.NewPrecomputedTableRouter(p.PrecomputedRouteTable)
	default:
		return spatial.GridRouter{}
	}
	return spatial.NewCachedRouteProvider(inner, p.RouteCacheCapacity, p.RouteCacheFallback)
}

func buildSpeedModel(p ScenarioParams) traffic.Model {
	m := traffic.DefaultModel(p.EpochMs)
	m.Profile = traffic.FromKind(p.TrafficProfile, p.CustomHourlyFactors)
	if p.HasBaseSpeedKmh {
		m.FreeFlowSpeedKmh = p.BaseSpeedKmh
	}
	if p.CongestionZonesEnabled {
		m.Zones = traffic.NewZoneSet(p.CongestionZones)
	}
	m.Density = traffic.DensityConfig{Enabled: p.DynamicCongestionEnabled, Radius: p.DynamicCongestionRadius}
	return m
}

func buildSpawner(p ScenarioParams, bounds spawn.Bounds, total, initial, windowMs uint64, hotspots []spawn.GenericHotspotLabel) *spawn.Spawner {
	remaining := total
	if remaining < initial {
		remaining = 0
	} else {
		remaining -= initial
	}

	rate := 0.0
	if windowMs > 0 && remaining > 0 {
		rate = float64(remaining) / (float64(windowMs) / 1000.0)
	}

	cfg := spawn.Config{
		Distribution: spawn.NewExponential(rate, p.Seed),
		Bounds:       bounds,
		HasMaxCount:  true,
		MaxCount:     total,
		InitialCount: initial,
		Seed:         p.Seed,
	}
	if windowMs > 0 {
		cfg.HasEnd = true
		cfg.EndMs = windowMs
	}
	if p.SpawnWeighting == spawn.WeightingHotspots {
		centerLat := (p.LatMin + p.LatMax) / 2
		centerLng := (p.LngMin + p.LngMax) / 2
		cfg.Weighting = spawn.BuildHotspotWeighting(hotspots, centerLat, centerLng)
	}
	return spawn.NewSpawner(cfg)
}
