package domain

import (
	"fmt"
	"runtime"
)

const (
	// DefaultTrials es el número de trials por defecto de una corrida.
	DefaultTrials = 10000
	// DefaultCurrentPriceWeight es el peso por defecto del precio actual.
	DefaultCurrentPriceWeight = 0.2
)

// SimulationConfig es la configuración completa de una corrida Monte Carlo.
type SimulationConfig struct {
	Anchor     float64
	Horizon    int
	Weight     float64 // peso del precio actual, en [0, 1]
	Bias       int     // cx del flip, >= 1
	EarlyStop  bool
	Boundaries Boundaries
	Trials     int
	Seed       uint64
	Workers    int  // <= 0: runtime.NumCPU()
	Summary    bool // conservar los precios finales para estadísticas
}

// SimulatedWeight devuelve el peso del precio simulado (1 - Weight).
func (c SimulationConfig) SimulatedWeight() float64 {
	return 1 - c.Weight
}

// Validate comprueba la configuración antes de lanzar ningún trial.
func (c SimulationConfig) Validate() error {
	switch {
	case c.Boundaries.Len() == 0:
		return fmt.Errorf("domain.SimulationConfig: no boundaries: %w", ErrInvalidConfig)
	case c.Trials <= 0:
		return fmt.Errorf("domain.SimulationConfig: trials %d <= 0: %w", c.Trials, ErrInvalidConfig)
	case c.Horizon < 0:
		return fmt.Errorf("domain.SimulationConfig: horizon %d < 0: %w", c.Horizon, ErrInvalidConfig)
	case !(c.Weight >= 0 && c.Weight <= 1):
		return fmt.Errorf("domain.SimulationConfig: weight %v outside [0,1]: %w", c.Weight, ErrInvalidConfig)
	case c.Bias < 1:
		return fmt.Errorf("domain.SimulationConfig: bias %d < 1: %w", c.Bias, ErrInvalidConfig)
	}
	return nil
}

// WorkerCount devuelve el número efectivo de workers, nunca mayor que Trials.
func (c SimulationConfig) WorkerCount() int {
	w := c.Workers
	if w <= 0 {
		w = runtime.NumCPU()
	}
	if c.Trials > 0 && w > c.Trials {
		w = c.Trials
	}
	return max(w, 1)
}

// PathParams devuelve los parámetros de trayectoria derivados de la config.
func (c SimulationConfig) PathParams() PathParams {
	return PathParams{
		Anchor:    c.Anchor,
		Weight:    c.Weight,
		Horizon:   c.Horizon,
		EarlyStop: c.EarlyStop,
		Bounds:    c.Boundaries,
	}
}
