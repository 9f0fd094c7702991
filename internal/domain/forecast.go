package domain

import "time"

// Forecast es una corrida completa para un símbolo: configuración + resultado.
// Es lo que se notifica al usuario y lo que se persiste.
type Forecast struct {
	ID         string
	Symbol     string
	Expiration time.Time
	CreatedAt  time.Time
	Config     SimulationConfig
	Result     Result
}
