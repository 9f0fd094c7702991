package marketdata

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
)

// CurrentPrice implementa ports.QuoteProvider.
func (c *Client) CurrentPrice(ctx context.Context, symbol string) (float64, error) {
	var resp quoteResponse
	if err := c.get(ctx, c.base+"/quote/"+url.PathEscape(strings.ToUpper(symbol)), &resp); err != nil {
		return 0, fmt.Errorf("marketdata.CurrentPrice: %s: %w", symbol, err)
	}
	if resp.Price <= 0 {
		return 0, fmt.Errorf("marketdata.CurrentPrice: %s: non-positive price %v", symbol, resp.Price)
	}
	return resp.Price, nil
}

// FetchCloses implementa ports.HistoryProvider.
// Las barras sin cierre o con fecha ilegible se descartan.
func (c *Client) FetchCloses(ctx context.Context, symbol string) ([]domain.PriceBar, error) {
	var resp historyResponse
	if err := c.get(ctx, c.base+"/history/"+url.PathEscape(strings.ToUpper(symbol)), &resp); err != nil {
		return nil, fmt.Errorf("marketdata.FetchCloses: %s: %w", symbol, err)
	}

	bars := make([]domain.PriceBar, 0, len(resp.Bars))
	for _, b := range resp.Bars {
		if b.Close == nil {
			continue
		}
		date, err := time.Parse(domain.DateLayout, b.Date)
		if err != nil {
			slog.Debug("skipping history bar with bad date", "symbol", symbol, "date", b.Date)
			continue
		}
		bars = append(bars, domain.PriceBar{Date: date, Close: *b.Close})
	}
	return bars, nil
}
