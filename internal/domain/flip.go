package domain

import (
	"fmt"
	"math/rand/v2"
)

// DefaultBias es el bias por defecto del flip: 50/50 entre mantener y transformar.
const DefaultBias = 1

// Flipper aplica el sesgo de signo a cada retorno muestreado.
//
// Con Bias = cx se sortea un entero uniforme en {0..cx}:
//   - 0 (prob 1/(cx+1)): el retorno pasa sin cambios
//   - resto (prob cx/(cx+1)): se sustituye por 1/(1+move) - 1
//
// La transformación no es una negación: es el retorno "inverso" que deshace
// el movimiento muestreado en términos multiplicativos.
type Flipper struct {
	Bias int
}

// NewFlipper crea un Flipper validando que bias >= 1.
func NewFlipper(bias int) (Flipper, error) {
	if bias < 1 {
		return Flipper{}, fmt.Errorf("domain.NewFlipper: bias %d < 1: %w", bias, ErrInvalidConfig)
	}
	return Flipper{Bias: bias}, nil
}

// Flip devuelve move o su transformado. Flip(0) es siempre 0 y no consume
// ningún valor del generador.
func (f Flipper) Flip(move float64, rng *rand.Rand) float64 {
	if move == 0 {
		return 0
	}
	cx := f.Bias
	if cx < 1 {
		cx = DefaultBias
	}
	if rng.IntN(cx+1) == 0 {
		return move
	}
	return Reciprocal(move)
}

// Reciprocal devuelve 1/(1+move) - 1.
// Para move = -1 el resultado es +Inf y se propaga sin error.
func Reciprocal(move float64) float64 {
	return 1/(1+move) - 1
}
