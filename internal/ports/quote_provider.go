package ports

import "context"

// QuoteProvider resuelve el precio actual de un símbolo.
type QuoteProvider interface {
	CurrentPrice(ctx context.Context, symbol string) (float64, error)
}
