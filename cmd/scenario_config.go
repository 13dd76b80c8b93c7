package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ridesim/ridesim/sim/config"
	"github.com/ridesim/ridesim/sim/scenario"
	"github.com/ridesim/ridesim/sim/spawn"
	"github.com/ridesim/ridesim/sim/traffic"
)

// scenarioFile is the on-disk shape of a scenario preset (spec §0 ambient
// stack: "a scenario.yaml preset loader... mirrors the teacher's
// cmd/default_config.go use of gopkg.in/yaml.v3 with strict decoding").
// Presets are plain data so an external sweep harness (spec.md §6,
// explicitly out of scope) can generate and version them without importing
// this package.
type scenarioFile struct {
	NumRiders          uint64 `yaml:"num_riders"`
	NumDrivers         uint64 `yaml:"num_drivers"`
	InitialRiderCount  uint64 `yaml:"initial_rider_count"`
	InitialDriverCount uint64 `yaml:"initial_driver_count"`

	Seed *uint64 `yaml:"seed"`

	LatMin float64 `yaml:"lat_min"`
	LatMax float64 `yaml:"lat_max"`
	LngMin float64 `yaml:"lng_min"`
	LngMax float64 `yaml:"lng_max"`

	RequestWindowMs uint64 `yaml:"request_window_ms"`
	DriverSpreadMs  uint64 `yaml:"driver_spread_ms"`

	MatchRadius  uint32 `yaml:"match_radius"`
	MinTripCells int    `yaml:"min_trip_cells"`
	MaxTripCells int    `yaml:"max_trip_cells"`

	EpochMs             int64   `yaml:"epoch_ms"`
	SimulationEndTimeMs *uint64 `yaml:"simulation_end_time_ms"`

	MatchingAlgorithm string `yaml:"matching_algorithm_type"`
	BatchMatching     bool   `yaml:"batch_matching_enabled"`
	BatchIntervalSecs uint64 `yaml:"batch_interval_secs"`
	EtaWeight         float64 `yaml:"eta_weight"`

	TrafficProfile     string `yaml:"traffic_profile"`
	SpawnWeighting     string `yaml:"spawn_weighting"`
	SnapshotIntervalMs uint64 `yaml:"snapshot_interval_ms"`
	MaxSteps           int    `yaml:"max_steps"`

	Pricing config.PricingConfig `yaml:"pricing_config"`
}

// loadScenarioFile decodes a preset with strict field checking — an unknown
// key is a configuration error, not a silently-ignored typo (spec §0).
func loadScenarioFile(path string) (scenarioFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return scenarioFile{}, fmt.Errorf("scenario config: %w", err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var sf scenarioFile
	if err := dec.Decode(&sf); err != nil {
		return scenarioFile{}, fmt.Errorf("scenario config: %w", err)
	}
	return sf, nil
}

// applyTo layers the preset's set fields onto base, leaving zero-value
// fields (Go's own "unset" for a struct with no nullability) at base's
// default. Only Seed and SimulationEndTimeMs need optional semantics, so
// only those use pointer fields.
func (sf scenarioFile) applyTo(p scenario.ScenarioParams) scenario.ScenarioParams {
	if sf.NumRiders > 0 {
		p.NumRiders = sf.NumRiders
	}
	if sf.NumDrivers > 0 {
		p.NumDrivers = sf.NumDrivers
	}
	if sf.InitialRiderCount > 0 {
		p.InitialRiderCount = sf.InitialRiderCount
	}
	if sf.InitialDriverCount > 0 {
		p.InitialDriverCount = sf.InitialDriverCount
	}
	if sf.Seed != nil {
		p.HasSeed = true
		p.Seed = *sf.Seed
	}
	if sf.LatMax > sf.LatMin {
		p.LatMin, p.LatMax = sf.LatMin, sf.LatMax
	}
	if sf.LngMax > sf.LngMin {
		p.LngMin, p.LngMax = sf.LngMin, sf.LngMax
	}
	if sf.RequestWindowMs > 0 {
		p.RequestWindowMs = sf.RequestWindowMs
	}
	if sf.DriverSpreadMs > 0 {
		p.DriverSpreadMs = sf.DriverSpreadMs
	}
	if sf.MatchRadius > 0 {
		p.MatchRadius = sf.MatchRadius
	}
	if sf.MinTripCells > 0 {
		p.MinTripCells = sf.MinTripCells
	}
	if sf.MaxTripCells > 0 {
		p.MaxTripCells = sf.MaxTripCells
	}
	if sf.EpochMs != 0 {
		p.EpochMs = sf.EpochMs
	}
	if sf.SimulationEndTimeMs != nil {
		p.HasSimulationEndTimeMs = true
		p.SimulationEndTimeMs = *sf.SimulationEndTimeMs
	}
	if sf.MatchingAlgorithm != "" {
		p.MatchingAlgorithmType = parseMatchingAlgorithm(sf.MatchingAlgorithm)
	}
	if sf.BatchMatching {
		p.BatchMatching.Enabled = true
	}
	if sf.BatchIntervalSecs > 0 {
		p.BatchMatching.IntervalSecs = sf.BatchIntervalSecs
	}
	if sf.EtaWeight > 0 {
		p.EtaWeight = sf.EtaWeight
	}
	if sf.TrafficProfile != "" {
		p.TrafficProfile = parseTrafficProfile(sf.TrafficProfile)
	}
	if sf.SpawnWeighting != "" {
		p.SpawnWeighting = parseSpawnWeighting(sf.SpawnWeighting)
	}
	if sf.SnapshotIntervalMs > 0 {
		p.SnapshotIntervalMs = sf.SnapshotIntervalMs
	}
	if sf.MaxSteps > 0 {
		p.MaxSteps = sf.MaxSteps
	}
	if sf.Pricing != (config.PricingConfig{}) {
		p.Pricing = sf.Pricing
	}
	return p
}

func parseMatchingAlgorithm(s string) config.MatchingAlgorithmType {
	switch s {
	case "CostBased":
		return config.MatchingCostBased
	case "Hungarian":
		return config.MatchingHungarian
	default:
		return config.MatchingSimple
	}
}

func parseTrafficProfile(s string) traffic.ProfileKind {
	switch s {
	case "Berlin":
		return traffic.ProfileBerlin
	case "Custom":
		return traffic.ProfileCustom
	default:
		return traffic.ProfileNone
	}
}

func parseSpawnWeighting(s string) spawn.WeightingKind {
	if s == "Hotspots" {
		return spawn.WeightingHotspots
	}
	return spawn.WeightingUniform
}
