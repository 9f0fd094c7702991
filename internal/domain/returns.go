package domain

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
)

// ReturnSet es el conjunto de variaciones relativas diarias históricas
// (close_t / close_{t-1} - 1). Es un set, no una secuencia: los ratios
// repetidos colapsan en un único valor. Inmutable una vez construido.
type ReturnSet struct {
	values []float64 // ordenados ascendente para que un seed fijo sea reproducible
}

// NewReturnSet calcula el set de retornos a partir de cierres ordenados
// del más antiguo al más reciente. El primer cierre no tiene previo y se
// descarta, igual que cualquier par con un valor no finito o un previo <= 0.
func NewReturnSet(closes []float64) (ReturnSet, error) {
	seen := make(map[float64]struct{}, len(closes))
	for i := 1; i < len(closes); i++ {
		prev, cur := closes[i-1], closes[i]
		if !finite(prev) || !finite(cur) || prev <= 0 {
			continue
		}
		seen[cur/prev-1] = struct{}{}
	}
	if len(seen) == 0 {
		return ReturnSet{}, fmt.Errorf("domain.NewReturnSet: %d closes: %w", len(closes), ErrEmptyData)
	}
	return ReturnSetOf(keys(seen)...), nil
}

// ReturnSetOf construye un set directamente a partir de retornos ya calculados.
func ReturnSetOf(returns ...float64) ReturnSet {
	seen := make(map[float64]struct{}, len(returns))
	for _, r := range returns {
		seen[r] = struct{}{}
	}
	return ReturnSet{values: keys(seen)}
}

// Len devuelve el número de retornos distintos.
func (s ReturnSet) Len() int { return len(s.values) }

// Values devuelve una copia de los retornos en orden ascendente.
func (s ReturnSet) Values() []float64 {
	out := make([]float64, len(s.values))
	copy(out, s.values)
	return out
}

// Draw devuelve un elemento uniforme del set.
// El caller debe garantizar Len() > 0 (Validate lo comprueba antes de simular).
func (s ReturnSet) Draw(rng *rand.Rand) float64 {
	return s.values[rng.IntN(len(s.values))]
}

// Validate devuelve ErrEmptyData si el set está vacío.
func (s ReturnSet) Validate() error {
	if len(s.values) == 0 {
		return ErrEmptyData
	}
	return nil
}

func keys(m map[float64]struct{}) []float64 {
	out := make([]float64, 0, len(m))
	for v := range m {
		out = append(out, v)
	}
	sort.Float64s(out)
	return out
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
