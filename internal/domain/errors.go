package domain

import "errors"

var (
	// ErrEmptyData indica que no hay retornos históricos con los que simular.
	// Es fatal: la simulación no puede arrancar.
	ErrEmptyData = errors.New("empty historical return set")

	// ErrInvalidConfig indica una configuración inválida (sin boundaries,
	// trials <= 0, horizon < 0, weight fuera de [0,1], bias < 1).
	// Nunca se corrige automáticamente: el caller debe arreglarla.
	ErrInvalidConfig = errors.New("invalid simulation config")
)
