package domain

import (
	"fmt"

	"github.com/montanaflynn/stats"
)

// Summary resume la distribución de precios finales de una corrida.
// No forma parte de las frecuencias: es información de contexto.
type Summary struct {
	Mean   float64
	Median float64
	StdDev float64
	Min    float64
	Max    float64
	P5     float64
	P95    float64
}

// Summarize calcula el resumen de los precios finales.
// Los valores no finitos se excluyen; si no queda ninguno devuelve ErrEmptyData.
func Summarize(finals []float64) (Summary, error) {
	data := make(stats.Float64Data, 0, len(finals))
	for _, v := range finals {
		if finite(v) {
			data = append(data, v)
		}
	}
	if len(data) == 0 {
		return Summary{}, fmt.Errorf("domain.Summarize: no finite prices: %w", ErrEmptyData)
	}

	var s Summary
	var err error
	if s.Mean, err = data.Mean(); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: mean: %w", err)
	}
	if s.Median, err = data.Median(); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: median: %w", err)
	}
	if s.StdDev, err = data.StandardDeviation(); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: stddev: %w", err)
	}
	if s.Min, err = data.Min(); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: min: %w", err)
	}
	if s.Max, err = data.Max(); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: max: %w", err)
	}
	if s.P5, err = data.PercentileNearestRank(5); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: p5: %w", err)
	}
	if s.P95, err = data.PercentileNearestRank(95); err != nil {
		return Summary{}, fmt.Errorf("domain.Summarize: p95: %w", err)
	}
	return s, nil
}
