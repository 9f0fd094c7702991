package domain

import (
	"sort"
	"time"
)

// PriceBar es un cierre diario histórico.
type PriceBar struct {
	Date  time.Time
	Close float64
}

// Closes ordena las barras de la más antigua a la más reciente y devuelve
// los cierres. Los proveedores pueden entregar las barras en cualquier orden
// (los exports de Yahoo vienen de más reciente a más antigua).
func Closes(bars []PriceBar) []float64 {
	sorted := make([]PriceBar, len(bars))
	copy(sorted, bars)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	out := make([]float64, len(sorted))
	for i, b := range sorted {
		out[i] = b.Close
	}
	return out
}
