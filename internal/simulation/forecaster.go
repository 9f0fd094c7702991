package simulation

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
	"github.com/alejandrodnm/mcforecast/internal/ports"
	"github.com/google/uuid"
)

// Config contiene los parámetros de simulación comunes a todos los forecasts.
type Config struct {
	Trials      int
	Weight      float64 // peso del precio actual
	Bias        int
	EarlyStop   bool
	Workers     int
	Seed        uint64
	Summary     bool
	TradingDays bool // horizonte en días hábiles en vez de días naturales
}

// DefaultConfig devuelve la configuración por defecto:
// 10000 trials, peso 0.2 del precio actual, flip 50/50.
func DefaultConfig() Config {
	return Config{
		Trials:  domain.DefaultTrials,
		Weight:  domain.DefaultCurrentPriceWeight,
		Bias:    domain.DefaultBias,
		Summary: true,
	}
}

// Request describe un forecast concreto.
type Request struct {
	Symbol     string
	Expiration time.Time
	Intervals  []float64 // lista explícita de fronteras; tiene prioridad
	Lower      *float64  // formato legacy: lower + upper
	Upper      *float64
	Price      *float64 // precio actual explícito; nil = pedirlo al QuoteProvider
}

// Forecaster orquesta un forecast: histórico → precio actual → horizonte →
// simulación → notificación → persistencia.
type Forecaster struct {
	cfg      Config
	history  ports.HistoryProvider
	quotes   ports.QuoteProvider
	storage  ports.Storage
	notifier ports.Notifier
	engine   *Engine
	now      func() time.Time
}

// New crea un Forecaster con todas las dependencias inyectadas.
// storage puede ser nil (dry-run): el resultado no se persiste.
func New(
	cfg Config,
	history ports.HistoryProvider,
	quotes ports.QuoteProvider,
	storage ports.Storage,
	notifier ports.Notifier,
) *Forecaster {
	return &Forecaster{
		cfg:      cfg,
		history:  history,
		quotes:   quotes,
		storage:  storage,
		notifier: notifier,
		engine:   NewEngine(),
		now:      time.Now,
	}
}

// WithClock sustituye el reloj usado para calcular el horizonte.
func (f *Forecaster) WithClock(now func() time.Time) *Forecaster {
	f.now = now
	return f
}

// RunOnce ejecuta un forecast completo y lo devuelve.
// Los errores de notifier y storage se loguean pero no invalidan el resultado.
func (f *Forecaster) RunOnce(ctx context.Context, req Request) (domain.Forecast, error) {
	start := time.Now()

	bounds, err := domain.ResolveBoundaries(req.Intervals, req.Lower, req.Upper)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("simulation.RunOnce: %w", err)
	}

	returns, err := f.loadReturns(ctx, req.Symbol)
	if err != nil {
		return domain.Forecast{}, err
	}

	anchor, err := f.resolvePrice(ctx, req)
	if err != nil {
		return domain.Forecast{}, err
	}
	slog.Info("current price", "symbol", req.Symbol, "price", anchor)

	now := f.now()
	// Una fecha ya vencida queda negativa y la rechaza la validación del engine.
	horizon := domain.DaysUntil(now, req.Expiration)
	if f.cfg.TradingDays && horizon >= 0 {
		horizon = domain.TradingDaysUntil(now, req.Expiration)
	}

	simCfg := domain.SimulationConfig{
		Anchor:     anchor,
		Horizon:    horizon,
		Weight:     f.cfg.Weight,
		Bias:       f.cfg.Bias,
		EarlyStop:  f.cfg.EarlyStop,
		Boundaries: bounds,
		Trials:     f.cfg.Trials,
		Seed:       f.cfg.Seed,
		Workers:    f.cfg.Workers,
		Summary:    f.cfg.Summary,
	}

	result, err := f.engine.Run(ctx, simCfg, returns)
	if err != nil {
		return domain.Forecast{}, fmt.Errorf("simulation.RunOnce: %s: %w", req.Symbol, err)
	}
	simCfg.Seed = result.Seed

	forecast := domain.Forecast{
		ID:         uuid.NewString(),
		Symbol:     req.Symbol,
		Expiration: req.Expiration,
		CreatedAt:  now.UTC(),
		Config:     simCfg,
		Result:     result,
	}

	if err := f.notifier.Notify(ctx, forecast); err != nil {
		slog.Warn("notifier error", "err", err)
	}

	if f.storage != nil {
		if err := f.storage.SaveRun(ctx, forecast); err != nil {
			slog.Warn("storage error", "err", err)
		}
	}

	slog.Info("forecast complete",
		"symbol", req.Symbol,
		"horizon", horizon,
		"returns", returns.Len(),
		"trials", simCfg.Trials,
		"duration", time.Since(start).Round(time.Millisecond),
	)
	return forecast, nil
}

// loadReturns obtiene el histórico y construye el set de retornos.
func (f *Forecaster) loadReturns(ctx context.Context, symbol string) (domain.ReturnSet, error) {
	bars, err := f.history.FetchCloses(ctx, symbol)
	if err != nil {
		return domain.ReturnSet{}, fmt.Errorf("simulation.loadReturns: fetch %s: %w", symbol, err)
	}
	returns, err := domain.NewReturnSet(domain.Closes(bars))
	if err != nil {
		return domain.ReturnSet{}, fmt.Errorf("simulation.loadReturns: %s: %w", symbol, err)
	}
	slog.Debug("historical returns loaded", "symbol", symbol, "bars", len(bars), "distinct_returns", returns.Len())
	return returns, nil
}

// resolvePrice usa el precio explícito si existe; si no, lo pide al QuoteProvider.
func (f *Forecaster) resolvePrice(ctx context.Context, req Request) (float64, error) {
	if req.Price != nil {
		return *req.Price, nil
	}
	if f.quotes == nil {
		return 0, fmt.Errorf("simulation.resolvePrice: no price and no quote provider: %w", domain.ErrInvalidConfig)
	}
	price, err := f.quotes.CurrentPrice(ctx, req.Symbol)
	if err != nil {
		return 0, fmt.Errorf("simulation.resolvePrice: %s: %w", req.Symbol, err)
	}
	return price, nil
}
