package ports

import (
	"context"

	"github.com/alejandrodnm/mcforecast/internal/domain"
)

// Notifier presenta el resultado de un forecast al usuario.
type Notifier interface {
	// Notify muestra los porcentajes por bucket.
	// En la implementación de consola, imprime líneas o una tabla formateada.
	Notify(ctx context.Context, f domain.Forecast) error
}
