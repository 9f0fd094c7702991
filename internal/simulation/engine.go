package simulation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
)

// Engine ejecuta corridas de trials Monte Carlo.
// No guarda estado entre corridas: cada Run crea sus conteos desde cero.
type Engine struct{}

// NewEngine crea un Engine.
func NewEngine() *Engine {
	return &Engine{}
}

// Run ejecuta cfg.Trials trayectorias independientes, clasifica cada precio
// final y devuelve los porcentajes por bucket.
//
// Toda la validación ocurre antes del primer trial: si la config o el set de
// retornos son inválidos no se simula nada. Si el contexto se cancela a mitad
// de corrida se devuelve ctx.Err() sin resultado parcial.
//
// Con cfg.Seed != 0 el resultado es idéntico bit a bit entre corridas,
// con cualquier número de workers. Con cfg.Seed == 0 se elige un seed aleatorio y se
// devuelve en Result.Seed para poder reproducir la corrida.
func (e *Engine) Run(ctx context.Context, cfg domain.SimulationConfig, returns domain.ReturnSet) (domain.Result, error) {
	if err := returns.Validate(); err != nil {
		return domain.Result{}, fmt.Errorf("simulation.Run: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return domain.Result{}, fmt.Errorf("simulation.Run: %w", err)
	}
	if cfg.Seed == 0 {
		cfg.Seed = rand.Uint64() | 1
	}

	start := time.Now()
	workers := cfg.WorkerCount()
	partials, err := runTrialsConcurrent(ctx, cfg, returns, workers)
	if err != nil {
		return domain.Result{}, fmt.Errorf("simulation.Run: %w", err)
	}

	counts := make([]int, cfg.Boundaries.Buckets())
	nonFinite := 0
	var finals []float64
	if cfg.Summary {
		finals = make([]float64, 0, cfg.Trials)
	}
	for _, p := range partials {
		for i, c := range p.counts {
			counts[i] += c
		}
		nonFinite += p.nonFinite
		finals = append(finals, p.finals...)
	}

	result := domain.NewResult(cfg.Boundaries, counts, cfg.Trials)
	result.Seed = cfg.Seed
	result.NonFinite = nonFinite
	if cfg.Summary {
		summary, err := domain.Summarize(finals)
		switch {
		case errors.Is(err, domain.ErrEmptyData):
			slog.Warn("no finite final prices, skipping summary", "trials", cfg.Trials)
		case err != nil:
			return domain.Result{}, fmt.Errorf("simulation.Run: %w", err)
		default:
			result.Summary = &summary
		}
	}

	if nonFinite > 0 {
		slog.Warn("trials ended with non-finite price", "count", nonFinite, "trials", cfg.Trials)
	}
	slog.Debug("simulation complete",
		"trials", cfg.Trials,
		"horizon", cfg.Horizon,
		"buckets", len(counts),
		"workers", workers,
		"seed", cfg.Seed,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return result, nil
}
