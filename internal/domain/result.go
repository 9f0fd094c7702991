package domain

import "slices"

// ResultKind distingue los dos formatos de salida de una corrida.
type ResultKind int

const (
	// ResultBuckets devuelve todos los porcentajes en orden de bucket.
	ResultBuckets ResultKind = iota
	// ResultLegacyPair devuelve solo [bajo la primera frontera, sobre la última]
	// para configuraciones de exactamente dos fronteras (formato LOW/HIGH).
	ResultLegacyPair
)

// String devuelve el nombre del formato.
func (k ResultKind) String() string {
	if k == ResultLegacyPair {
		return "legacy_pair"
	}
	return "buckets"
}

// KindFor elige el formato de salida a partir de las fronteras configuradas.
func KindFor(b Boundaries) ResultKind {
	if b.Legacy() {
		return ResultLegacyPair
	}
	return ResultBuckets
}

// Result es el resultado de una corrida de trials.
type Result struct {
	Kind        ResultKind
	Boundaries  Boundaries
	Trials      int
	Seed        uint64    // seed efectivo de la corrida
	Counts      []int     // un slot por bucket
	Percentages []float64 // Counts[i] × 100 / Trials, todos los buckets
	NonFinite   int       // trials cuyo precio final fue NaN o Inf
	Summary     *Summary  // nil si no se pidieron estadísticas
}

// NewResult convierte los conteos en porcentajes.
func NewResult(b Boundaries, counts []int, trials int) Result {
	pcts := make([]float64, len(counts))
	for i, c := range counts {
		pcts[i] = float64(c) * 100 / float64(trials)
	}
	return Result{
		Kind:        KindFor(b),
		Boundaries:  b,
		Trials:      trials,
		Counts:      counts,
		Percentages: pcts,
	}
}

// Public devuelve los porcentajes que ve el caller: el par LOW/HIGH en el
// formato legacy, o todos los buckets en cualquier otro caso.
func (r Result) Public() []float64 {
	if r.Kind == ResultLegacyPair {
		return []float64{r.Percentages[0], r.Percentages[len(r.Percentages)-1]}
	}
	return slices.Clone(r.Percentages)
}
