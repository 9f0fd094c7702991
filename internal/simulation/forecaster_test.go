package simulation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
	"github.com/alejandrodnm/mcforecast/internal/ports"
	"github.com/alejandrodnm/mcforecast/internal/simulation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- mocks ---

type mockHistory struct {
	bars []domain.PriceBar
	err  error
}

func (m *mockHistory) FetchCloses(_ context.Context, _ string) ([]domain.PriceBar, error) {
	return m.bars, m.err
}

type mockQuotes struct {
	price float64
	err   error
	calls int
}

func (m *mockQuotes) CurrentPrice(_ context.Context, _ string) (float64, error) {
	m.calls++
	return m.price, m.err
}

type mockNotifier struct {
	notified *domain.Forecast
	err      error
}

func (m *mockNotifier) Notify(_ context.Context, f domain.Forecast) error {
	m.notified = &f
	return m.err
}

type mockStorage struct {
	saved []domain.Forecast
	err   error
}

func (m *mockStorage) SaveRun(_ context.Context, f domain.Forecast) error {
	m.saved = append(m.saved, f)
	return m.err
}

func (m *mockStorage) GetRuns(_ context.Context, _ string, _ int) ([]domain.Forecast, error) {
	return m.saved, nil
}

func (m *mockStorage) Close() error { return nil }

// --- helpers ---

var today = time.Date(2025, 12, 1, 15, 0, 0, 0, time.UTC)

func makeBars(closes ...float64) []domain.PriceBar {
	bars := make([]domain.PriceBar, len(closes))
	for i, c := range closes {
		// orden Yahoo: el más reciente primero
		bars[i] = domain.PriceBar{Date: today.AddDate(0, 0, -i), Close: c}
	}
	return bars
}

func ptr(v float64) *float64 { return &v }

func newTestForecaster(h ports.HistoryProvider, q ports.QuoteProvider, s ports.Storage, n ports.Notifier) *simulation.Forecaster {
	cfg := simulation.DefaultConfig()
	cfg.Trials = 500
	cfg.Seed = 7
	cfg.Workers = 2
	return simulation.New(cfg, h, q, s, n).WithClock(func() time.Time { return today })
}

// --- tests ---

func TestForecaster_RunOnce_Success(t *testing.T) {
	history := &mockHistory{bars: makeBars(150, 148, 151, 149, 153, 150)}
	quotes := &mockQuotes{price: 153.30}
	notifier := &mockNotifier{}
	storage := &mockStorage{}

	f := newTestForecaster(history, quotes, storage, notifier)
	fc, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol:     "NVDA",
		Expiration: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		Intervals:  []float64{100, 160, 200, 280, 340, 400},
		Lower:      ptr(100),
		Upper:      ptr(200),
	})
	require.NoError(t, err)

	assert.NotEmpty(t, fc.ID)
	assert.Equal(t, "NVDA", fc.Symbol)
	assert.Equal(t, 30, fc.Config.Horizon)
	assert.Equal(t, 153.30, fc.Config.Anchor)
	assert.Equal(t, 1, quotes.calls)
	assert.Equal(t, domain.ResultBuckets, fc.Result.Kind)
	assert.Len(t, fc.Result.Public(), 7)

	require.NotNil(t, notifier.notified)
	assert.Equal(t, fc.ID, notifier.notified.ID)
	require.Len(t, storage.saved, 1)
	assert.Equal(t, fc.ID, storage.saved[0].ID)
}

func TestForecaster_RunOnce_ExplicitPriceSkipsQuotes(t *testing.T) {
	quotes := &mockQuotes{err: errors.New("should not be called")}
	f := newTestForecaster(&mockHistory{bars: makeBars(10, 11, 12)}, quotes, nil, &mockNotifier{})

	fc, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol:     "TEST",
		Expiration: today,
		Lower:      ptr(100),
		Upper:      ptr(200),
		Price:      ptr(150),
	})
	require.NoError(t, err)

	assert.Zero(t, quotes.calls)
	assert.Equal(t, 0, fc.Config.Horizon)
	assert.Equal(t, domain.ResultLegacyPair, fc.Result.Kind)
	assert.Equal(t, []float64{0, 0}, fc.Result.Public())
}

func TestForecaster_RunOnce_TradingDays(t *testing.T) {
	cfg := simulation.DefaultConfig()
	cfg.Trials = 10
	cfg.TradingDays = true
	f := simulation.New(cfg, &mockHistory{bars: makeBars(10, 11, 12)}, nil, nil, &mockNotifier{}).
		WithClock(func() time.Time { return today })

	fc, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol:     "TEST",
		Expiration: time.Date(2025, 12, 8, 0, 0, 0, 0, time.UTC),
		Intervals:  []float64{10},
		Price:      ptr(11),
	})
	require.NoError(t, err)
	assert.Equal(t, 5, fc.Config.Horizon)
}

func TestForecaster_RunOnce_MissingBoundaries(t *testing.T) {
	history := &mockHistory{bars: makeBars(10, 11, 12)}
	f := newTestForecaster(history, &mockQuotes{price: 10}, nil, &mockNotifier{})

	_, err := f.RunOnce(context.Background(), simulation.Request{Symbol: "X", Expiration: today, Lower: ptr(1)})
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
}

func TestForecaster_RunOnce_EmptyHistory(t *testing.T) {
	f := newTestForecaster(&mockHistory{bars: makeBars(10)}, &mockQuotes{price: 10}, nil, &mockNotifier{})

	_, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol: "X", Expiration: today, Intervals: []float64{5},
	})
	assert.ErrorIs(t, err, domain.ErrEmptyData)
}

func TestForecaster_RunOnce_ExpiredDate(t *testing.T) {
	tests := []struct {
		name        string
		tradingDays bool
		daysAgo     int
	}{
		{"calendar days", false, 3},
		{"trading days, last friday", true, 3},
		{"trading days, yesterday sunday", true, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			cfg := simulation.DefaultConfig()
			cfg.Trials = 100
			cfg.Seed = 7
			cfg.TradingDays = tc.tradingDays
			notifier := &mockNotifier{}
			f := simulation.New(cfg, &mockHistory{bars: makeBars(10, 11)}, &mockQuotes{price: 10}, nil, notifier).
				WithClock(func() time.Time { return today })

			_, err := f.RunOnce(context.Background(), simulation.Request{
				Symbol: "X", Expiration: today.AddDate(0, 0, -tc.daysAgo), Intervals: []float64{5},
			})
			assert.ErrorIs(t, err, domain.ErrInvalidConfig)
			assert.Nil(t, notifier.notified)
		})
	}
}

func TestForecaster_RunOnce_HistoryError(t *testing.T) {
	f := newTestForecaster(&mockHistory{err: errors.New("boom")}, &mockQuotes{price: 10}, nil, &mockNotifier{})

	_, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol: "X", Expiration: today, Intervals: []float64{5},
	})
	assert.ErrorContains(t, err, "boom")
}

func TestForecaster_RunOnce_QuoteErrorWithoutPrice(t *testing.T) {
	f := newTestForecaster(&mockHistory{bars: makeBars(10, 11)}, &mockQuotes{err: errors.New("down")}, nil, &mockNotifier{})

	_, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol: "X", Expiration: today, Intervals: []float64{5},
	})
	assert.ErrorContains(t, err, "down")
}

func TestForecaster_RunOnce_NotifierAndStorageErrorsAreNotFatal(t *testing.T) {
	storage := &mockStorage{err: errors.New("disk full")}
	notifier := &mockNotifier{err: errors.New("closed pipe")}
	f := newTestForecaster(&mockHistory{bars: makeBars(10, 11, 12)}, &mockQuotes{price: 11}, storage, notifier)

	_, err := f.RunOnce(context.Background(), simulation.Request{
		Symbol: "X", Expiration: today.AddDate(0, 0, 5), Intervals: []float64{10, 12},
	})
	assert.NoError(t, err)
	assert.Len(t, storage.saved, 1)
}
