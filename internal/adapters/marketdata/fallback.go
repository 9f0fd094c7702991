package marketdata

import (
	"context"
	"log/slog"

	"github.com/alejandrodnm/mcforecast/internal/ports"
)

// FallbackQuote envuelve un QuoteProvider y devuelve un precio fijo cuando
// el upstream falla. Útil cuando el API no está disponible y el usuario
// prefiere un precio aproximado a no simular.
type FallbackQuote struct {
	next  ports.QuoteProvider
	price float64
}

// NewFallbackQuote devuelve next tal cual si price <= 0 (sin fallback).
func NewFallbackQuote(next ports.QuoteProvider, price float64) ports.QuoteProvider {
	if price <= 0 {
		return next
	}
	return &FallbackQuote{next: next, price: price}
}

// CurrentPrice implementa ports.QuoteProvider.
func (f *FallbackQuote) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	if f.next != nil {
		price, err := f.next.CurrentPrice(ctx, symbol)
		if err == nil {
			return price, nil
		}
		slog.Warn("quote provider failed, using fallback price",
			"symbol", symbol,
			"fallback", f.price,
			"err", err,
		)
	}
	return f.price, nil
}
