package pricing

import (
	"testing"

	"github.com/ridesim/ridesim/sim/config"
	"github.com/stretchr/testify/assert"
)

func TestBaseFareLinearInDistance(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	assert.Equal(t, cfg.BaseFare, BaseFare(cfg, 0))
	assert.Equal(t, cfg.BaseFare+cfg.PerKmRate*10, BaseFare(cfg, 10))
}

func TestSurgeMultiplierDisabledIsOne(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	cfg.SurgeEnabled = false
	assert.Equal(t, 1.0, SurgeMultiplier(cfg, 100, 1))
}

func TestSurgeMultiplierZeroSupplyClampsToMax(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	cfg.SurgeEnabled = true
	assert.Equal(t, cfg.SurgeMaxMultiplier, SurgeMultiplier(cfg, 5, 0))
}

func TestSurgeMultiplierClampedToRange(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	cfg.SurgeEnabled = true
	cfg.SurgeMaxMultiplier = 2.0

	assert.Equal(t, 1.0, SurgeMultiplier(cfg, 1, 10), "more supply than demand floors at 1.0")
	assert.Equal(t, 2.0, SurgeMultiplier(cfg, 1000, 1), "large demand imbalance caps at surge_max_multiplier")
}

func TestSurgeMultiplierBalancedDemandSupply(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	cfg.SurgeEnabled = true
	assert.Equal(t, 1.0, SurgeMultiplier(cfg, 5, 5))
}

func TestNewQuoteAppliesSurgeOnTopOfBaseFare(t *testing.T) {
	cfg := config.DefaultPricingConfig()
	cfg.SurgeEnabled = true
	cfg.SurgeMaxMultiplier = 2.0

	q := NewQuote(cfg, 10, 1000, 1, 5000)
	assert.Equal(t, 2.0, q.SurgeImpact)
	assert.Equal(t, BaseFare(cfg, 10)*2.0, q.Fare)
	assert.Equal(t, uint64(5000), q.EtaMs)
}
