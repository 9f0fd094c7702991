package simulation

// concurrent.go — worker pool para repartir los trials entre cores.
//
// Los trials se cortan en chunks de tamaño fijo. Cada chunk tiene su propio
// generador (PCG con seed (cfg.Seed, índice de chunk)) y sus propios conteos;
// los workers toman chunks de una cola y los resultados se combinan en orden
// de chunk. El resultado depende solo de Seed y Trials: ni el número de
// workers ni el scheduling de goroutines lo cambian.

import (
	"context"
	"math"
	"math/rand/v2"
	"sync"
	"sync/atomic"

	"github.com/alejandrodnm/mcforecast/internal/domain"
)

// chunkSize es el número de trials por chunk. Cambiarlo cambia los
// resultados de un seed dado.
const chunkSize = 1024

// ctxCheckEvery controla cada cuántos trials un worker mira el contexto.
const ctxCheckEvery = 256

// partial son los conteos de un chunk.
type partial struct {
	counts    []int
	finals    []float64
	nonFinite int
}

// runTrialsConcurrent reparte cfg.Trials en chunks entre workers y devuelve
// los parciales en orden de chunk.
func runTrialsConcurrent(ctx context.Context, cfg domain.SimulationConfig, returns domain.ReturnSet, workers int) ([]partial, error) {
	flipper := domain.Flipper{Bias: cfg.Bias}
	params := cfg.PathParams()
	sizes := splitChunks(cfg.Trials, chunkSize)
	if workers > len(sizes) {
		workers = len(sizes)
	}

	partials := make([]partial, len(sizes))
	var next atomic.Int64
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				c := int(next.Add(1) - 1)
				if c >= len(sizes) || ctx.Err() != nil {
					return
				}
				partials[c] = runChunk(ctx, cfg, params, returns, flipper, c, sizes[c])
			}
		}()
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return partials, nil
}

// runChunk simula n trials con el generador del chunk c.
func runChunk(ctx context.Context, cfg domain.SimulationConfig, params domain.PathParams, returns domain.ReturnSet, flipper domain.Flipper, c, n int) partial {
	rng := rand.New(rand.NewPCG(cfg.Seed, uint64(c)))
	p := partial{counts: make([]int, cfg.Boundaries.Buckets())}
	if cfg.Summary {
		p.finals = make([]float64, 0, n)
	}
	for i := 0; i < n; i++ {
		if i%ctxCheckEvery == 0 && ctx.Err() != nil {
			return p
		}
		final := domain.SimulatePath(params, returns, flipper, rng)
		p.counts[cfg.Boundaries.Classify(final)]++
		if math.IsNaN(final) || math.IsInf(final, 0) {
			p.nonFinite++
		}
		if cfg.Summary {
			p.finals = append(p.finals, final)
		}
	}
	return p
}

// splitChunks corta trials en chunks de size; el último puede ser menor.
func splitChunks(trials, size int) []int {
	sizes := make([]int, 0, (trials+size-1)/size)
	for trials > 0 {
		n := min(size, trials)
		sizes = append(sizes, n)
		trials -= n
	}
	return sizes
}
