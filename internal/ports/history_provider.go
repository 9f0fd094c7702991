package ports

import (
	"context"

	"github.com/alejandrodnm/mcforecast/internal/domain"
)

// HistoryProvider obtiene los cierres diarios históricos de un símbolo.
type HistoryProvider interface {
	// FetchCloses devuelve las barras diarias del símbolo, en cualquier orden.
	// Las filas que no son cierres (dividendos, splits, valores no numéricos)
	// ya vienen descartadas.
	FetchCloses(ctx context.Context, symbol string) ([]domain.PriceBar, error)
}
