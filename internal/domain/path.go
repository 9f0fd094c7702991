package domain

import "math/rand/v2"

// Sampler devuelve un retorno histórico aleatorio.
type Sampler interface {
	Draw(rng *rand.Rand) float64
}

// PathParams son los parámetros de una trayectoria simulada.
type PathParams struct {
	Anchor    float64    // precio actual: punto de partida y referencia de cada movimiento
	Weight    float64    // peso del anchor en la base del movimiento; el simulado pesa 1 - Weight
	Horizon   int        // número de periodos (días) a simular
	EarlyStop bool       // cortar en cuanto el precio sale de [Bounds.First, Bounds.Last]
	Bounds    Boundaries // solo se consulta con EarlyStop
}

// SimulatePath avanza un precio Horizon periodos y devuelve el precio final.
//
// En cada periodo:
//
//	move  = flip(draw()) × (w × anchor + (1 - w) × price)
//	price = price + move
//
// Con EarlyStop el loop termina en cuanto el precio queda fuera del rango
// exterior de fronteras; solo se miran los extremos, nunca las fronteras
// internas. NaN e Inf se propagan sin error.
func SimulatePath(p PathParams, sampler Sampler, flipper Flipper, rng *rand.Rand) float64 {
	price := p.Anchor
	anchorPart := p.Weight * p.Anchor
	simWeight := 1 - p.Weight
	for i := 0; i < p.Horizon; i++ {
		move := flipper.Flip(sampler.Draw(rng), rng) * (anchorPart + simWeight*price)
		price += move
		if p.EarlyStop && p.Bounds.Outside(price) {
			break
		}
	}
	return price
}
