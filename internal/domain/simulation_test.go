package domain

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validConfig() SimulationConfig {
	return SimulationConfig{
		Anchor:     150,
		Horizon:    30,
		Weight:     DefaultCurrentPriceWeight,
		Bias:       DefaultBias,
		Boundaries: LegacyBoundaries(100, 200),
		Trials:     1000,
	}
}

func TestSimulationConfig_Validate(t *testing.T) {
	assert.NoError(t, validConfig().Validate())

	cases := map[string]func(*SimulationConfig){
		"no boundaries":  func(c *SimulationConfig) { c.Boundaries = Boundaries{} },
		"zero trials":    func(c *SimulationConfig) { c.Trials = 0 },
		"negative trial": func(c *SimulationConfig) { c.Trials = -5 },
		"neg horizon":    func(c *SimulationConfig) { c.Horizon = -1 },
		"weight > 1":     func(c *SimulationConfig) { c.Weight = 1.5 },
		"weight < 0":     func(c *SimulationConfig) { c.Weight = -0.1 },
		"weight NaN":     func(c *SimulationConfig) { c.Weight = math.NaN() },
		"bias 0":         func(c *SimulationConfig) { c.Bias = 0 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := validConfig()
			mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}

func TestSimulationConfig_ZeroHorizonIsValid(t *testing.T) {
	cfg := validConfig()
	cfg.Horizon = 0
	assert.NoError(t, cfg.Validate())
}

func TestSimulationConfig_WeightsSumToOne(t *testing.T) {
	cfg := validConfig()
	assert.Equal(t, 1.0, cfg.Weight+cfg.SimulatedWeight())
}

func TestSimulationConfig_WorkerCount(t *testing.T) {
	cfg := validConfig()
	cfg.Workers = 8
	assert.Equal(t, 8, cfg.WorkerCount())

	cfg.Trials = 3
	assert.Equal(t, 3, cfg.WorkerCount(), "nunca más workers que trials")

	cfg.Workers = 0
	assert.GreaterOrEqual(t, cfg.WorkerCount(), 1)
}
