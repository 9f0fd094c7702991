package ports

import (
	"context"

	"github.com/alejandrodnm/mcforecast/internal/domain"
)

// Storage persiste las corridas de forecast.
type Storage interface {
	// SaveRun persiste una corrida completa.
	SaveRun(ctx context.Context, f domain.Forecast) error

	// GetRuns devuelve las últimas corridas del símbolo, más recientes primero.
	// symbol vacío devuelve todas.
	GetRuns(ctx context.Context, symbol string, limit int) ([]domain.Forecast, error)

	// Close cierra la conexión a la base de datos limpiamente.
	Close() error
}
