package storage_test

import (
	"context"
	"testing"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/adapters/storage"
	"github.com/alejandrodnm/mcforecast/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func makeForecast(symbol string, bounds domain.Boundaries, counts []int, createdAt time.Time) domain.Forecast {
	trials := 0
	for _, c := range counts {
		trials += c
	}
	result := domain.NewResult(bounds, counts, trials)
	result.Seed = 18446744073709551557 // > MaxInt64
	return domain.Forecast{
		ID:         uuid.NewString(),
		Symbol:     symbol,
		Expiration: time.Date(2025, 12, 31, 0, 0, 0, 0, time.UTC),
		CreatedAt:  createdAt,
		Config: domain.SimulationConfig{
			Anchor:     153.30,
			Horizon:    30,
			Weight:     0.2,
			Bias:       1,
			EarlyStop:  true,
			Boundaries: bounds,
			Trials:     trials,
			Seed:       result.Seed,
		},
		Result: result,
	}
}

func TestSQLiteStorage_SaveAndGetRuns(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	bounds, err := domain.NewBoundaries([]float64{100, 160, 200})
	require.NoError(t, err)

	f := makeForecast("NVDA", bounds, []int{10, 50, 30, 10}, time.Now())
	f.Result.Summary = &domain.Summary{Mean: 155, Median: 154, StdDev: 12, Min: 90, Max: 230, P5: 130, P95: 180}
	require.NoError(t, db.SaveRun(ctx, f))

	runs, err := db.GetRuns(ctx, "NVDA", 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, f.ID, got.ID)
	assert.Equal(t, "NVDA", got.Symbol)
	assert.Equal(t, []float64{100, 160, 200}, got.Config.Boundaries.Values())
	assert.Equal(t, []int{10, 50, 30, 10}, got.Result.Counts)
	assert.Equal(t, []float64{10, 50, 30, 10}, got.Result.Percentages)
	assert.Equal(t, domain.ResultBuckets, got.Result.Kind)
	assert.Equal(t, f.Result.Seed, got.Result.Seed)
	assert.True(t, got.Config.EarlyStop)
	assert.Equal(t, "2025-12-31", got.Expiration.Format(domain.DateLayout))
	assert.WithinDuration(t, f.CreatedAt, got.CreatedAt, time.Microsecond)
	require.NotNil(t, got.Result.Summary)
	assert.Equal(t, *f.Result.Summary, *got.Result.Summary)
}

func TestSQLiteStorage_LegacyRunKeepsPair(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	f := makeForecast("NVDA", domain.LegacyBoundaries(100, 200), []int{25, 50, 25}, time.Now())
	require.NoError(t, db.SaveRun(ctx, f))

	runs, err := db.GetRuns(ctx, "", 0)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, domain.ResultLegacyPair, runs[0].Result.Kind)
	assert.Equal(t, []float64{25, 25}, runs[0].Result.Public())
	assert.Nil(t, runs[0].Result.Summary)
}

func TestSQLiteStorage_LegacyRunKeepsPairOrder(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	f := makeForecast("NVDA", domain.LegacyBoundaries(200, 100), []int{10, 60, 30}, time.Now())
	require.NoError(t, db.SaveRun(ctx, f))

	runs, err := db.GetRuns(ctx, "NVDA", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, []float64{200, 100}, runs[0].Config.Boundaries.Values())
	assert.Equal(t, f.Result.Counts, runs[0].Result.Counts)
	assert.Equal(t, f.Result.Boundaries.Label(0), runs[0].Result.Boundaries.Label(0))
}

func TestSQLiteStorage_GetRuns_FilterOrderLimit(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	bounds := domain.LegacyBoundaries(100, 200)
	base := time.Now().Add(-time.Hour)

	older := makeForecast("NVDA", bounds, []int{1, 1, 1}, base)
	newer := makeForecast("NVDA", bounds, []int{2, 2, 2}, base.Add(30*time.Minute))
	other := makeForecast("AAPL", bounds, []int{3, 3, 3}, base.Add(10*time.Minute))
	for _, f := range []domain.Forecast{older, newer, other} {
		require.NoError(t, db.SaveRun(ctx, f))
	}

	runs, err := db.GetRuns(ctx, "NVDA", 0)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.Equal(t, newer.ID, runs[0].ID, "más reciente primero")
	assert.Equal(t, older.ID, runs[1].ID)

	runs, err = db.GetRuns(ctx, "", 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
	assert.Equal(t, newer.ID, runs[0].ID)
}

func TestSQLiteStorage_DuplicateID(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	f := makeForecast("NVDA", domain.LegacyBoundaries(100, 200), []int{1, 1, 1}, time.Now())
	require.NoError(t, db.SaveRun(ctx, f))
	assert.Error(t, db.SaveRun(ctx, f))
}

func TestSQLiteStorage_GetRuns_Empty(t *testing.T) {
	db, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	defer db.Close()

	runs, err := db.GetRuns(context.Background(), "NVDA", 5)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
