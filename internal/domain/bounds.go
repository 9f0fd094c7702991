package domain

import (
	"fmt"
	"slices"
	"strconv"
)

// Boundaries es la lista ordenada de fronteras que parte el eje de precios
// en len+1 buckets: (-inf, b0), [b0, b1), ..., [b_{n-1}, +inf).
type Boundaries struct {
	values []float64
}

// NewBoundaries construye las fronteras a partir de una lista explícita.
// La lista se ordena ascendente; no se eliminan duplicados.
func NewBoundaries(values []float64) (Boundaries, error) {
	if len(values) == 0 {
		return Boundaries{}, fmt.Errorf("domain.NewBoundaries: no boundaries: %w", ErrInvalidConfig)
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return Boundaries{values: sorted}, nil
}

// LegacyBoundaries construye las fronteras desde el formato antiguo (lower, upper).
func LegacyBoundaries(lower, upper float64) Boundaries {
	return Boundaries{values: []float64{lower, upper}}
}

// ResolveBoundaries aplica la regla de compatibilidad: la lista explícita
// tiene prioridad; si no hay lista, se exige el par lower/upper completo.
func ResolveBoundaries(intervals []float64, lower, upper *float64) (Boundaries, error) {
	if len(intervals) > 0 {
		return NewBoundaries(intervals)
	}
	if lower != nil && upper != nil {
		if !(*lower <= *upper) {
			return Boundaries{}, fmt.Errorf("domain.ResolveBoundaries: lower %v above upper %v: %w", *lower, *upper, ErrInvalidConfig)
		}
		return LegacyBoundaries(*lower, *upper), nil
	}
	return Boundaries{}, fmt.Errorf("domain.ResolveBoundaries: need intervals or both lower and upper bound: %w", ErrInvalidConfig)
}

// Len devuelve el número de fronteras.
func (b Boundaries) Len() int { return len(b.values) }

// Buckets devuelve el número de buckets (Len + 1).
func (b Boundaries) Buckets() int { return len(b.values) + 1 }

// Values devuelve una copia de las fronteras.
func (b Boundaries) Values() []float64 { return slices.Clone(b.values) }

// First devuelve la frontera más baja.
func (b Boundaries) First() float64 { return b.values[0] }

// Last devuelve la frontera más alta.
func (b Boundaries) Last() float64 { return b.values[len(b.values)-1] }

// Legacy indica si hay exactamente dos fronteras (formato LOW/HIGH).
func (b Boundaries) Legacy() bool { return len(b.values) == 2 }

// Outside indica si el precio está fuera del intervalo cerrado [First, Last].
// NaN nunca está fuera: todas las comparaciones son falsas.
func (b Boundaries) Outside(price float64) bool {
	return price < b.First() || price > b.Last()
}

// Classify devuelve el índice del bucket del precio: cuántas fronteras son
// <= price, recorriendo en orden ascendente y cortando en la primera que no.
func (b Boundaries) Classify(price float64) int {
	bucket := 0
	for _, threshold := range b.values {
		if !(price >= threshold) {
			break
		}
		bucket++
	}
	return bucket
}

// Label devuelve la etiqueta legible del bucket i.
func (b Boundaries) Label(i int) string {
	switch {
	case i <= 0:
		return "< " + formatBound(b.First())
	case i >= len(b.values):
		return "> " + formatBound(b.Last())
	default:
		return formatBound(b.values[i-1]) + "-" + formatBound(b.values[i])
	}
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
