// Package spawn implements the rider/driver inter-arrival distributions and
// spawner state machines (spec Component F, §4.6). Grounded on
// original_source/.../distributions.rs and spawner.rs.
package spawn

import "math"

// InterArrivalDistribution samples the next inter-arrival time in
// milliseconds (spec §4.6). nowMs lets time-varying distributions look up
// the rate for the current simulation instant; spawnCount supports seeding
// per-sample RNG streams deterministically.
type InterArrivalDistribution interface {
	SampleMs(spawnCount uint64, nowMs uint64) float64
}

// Uniform is a constant inter-arrival time (spec §4.6).
type Uniform struct {
	IntervalMs float64
}

// UniformFromRate derives a constant interval from a rate in entities/sec.
func UniformFromRate(ratePerSec float64) Uniform {
	if ratePerSec <= 0 {
		return Uniform{IntervalMs: math.Inf(1)}
	}
	return Uniform{IntervalMs: 1000.0 / ratePerSec}
}

func (u Uniform) SampleMs(spawnCount uint64, nowMs uint64) float64 {
	return u.IntervalMs
}

// Exponential is a Poisson process: sample u ~ U(0,1), return
// -ln(max(u, 1e-10))/rate * 1000 ms, using an RNG seeded by
// base_seed + spawn_count (spec §4.6).
type Exponential struct {
	RatePerSec float64
	Seed       uint64
}

func NewExponential(ratePerSec float64, seed uint64) Exponential {
	if ratePerSec < 0 {
		ratePerSec = 0
	}
	return Exponential{RatePerSec: ratePerSec, Seed: seed}
}

func (e Exponential) SampleMs(spawnCount uint64, nowMs uint64) float64 {
	if e.RatePerSec <= 0 {
		return math.Inf(1)
	}
	rng := newSeededRand(e.Seed + spawnCount)
	u := rng.Float64()
	if u < 1e-10 {
		u = 1e-10
	}
	return -math.Log(u) / e.RatePerSec * 1000.0
}

// RateWindow is one [StartMs, EndMs) window of simulation time with a fixed
// rate (entities/sec), used by TimeVarying (spec §4.6). Windows are matched
// against nowMs directly: no epoch offset is added and no 24-hour wrap is
// applied, so a window covers one stretch of the run, not a recurring hour
// of the day.
type RateWindow struct {
	StartMs    uint64
	EndMs      uint64
	RatePerSec float64
}

// TimeVarying samples inter-arrival times from a rate that depends on the
// simulation time, looked up via non-overlapping windows (spec §4.6).
// Unlike original_source's TimeVaryingRate (which admittedly always uses
// the first window because its distribution trait cannot see the current
// time), this implementation's SampleMs signature carries nowMs, so the
// window lookup is exact rather than approximated.
type TimeVarying struct {
	Windows []RateWindow
	Seed    uint64
}

func NewTimeVarying(windows []RateWindow, seed uint64) TimeVarying {
	return TimeVarying{Windows: windows, Seed: seed}
}

// RateAt returns the configured rate for a simulation time, or 0 if no
// window covers it.
func (t TimeVarying) RateAt(nowMs uint64) float64 {
	for _, w := range t.Windows {
		if w.StartMs <= nowMs && nowMs < w.EndMs {
			return w.RatePerSec
		}
	}
	return 0
}

func (t TimeVarying) SampleMs(spawnCount uint64, nowMs uint64) float64 {
	rate := t.RateAt(nowMs)
	if rate <= 0 {
		return math.Inf(1)
	}
	rng := newSeededRand(t.Seed + spawnCount)
	u := rng.Float64()
	if u < 1e-10 {
		u = 1e-10
	}
	return -math.Log(u) / rate * 1000.0
}
