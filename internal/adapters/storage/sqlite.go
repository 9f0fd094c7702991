package storage

// sqlite.go — histórico de corridas de forecast.
//
// Estrategia:
//   - `runs`: una fila por corrida, con la config completa y los conteos por
//     bucket. Los porcentajes se recalculan al leer desde los conteos, así
//     que nunca divergen.
//   - Prune automático al arrancar: corridas de más de 90 días.

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
	_ "modernc.org/sqlite"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
    id          TEXT PRIMARY KEY,
    symbol      TEXT    NOT NULL,
    created_at  TEXT    NOT NULL,
    expiration  TEXT    NOT NULL,
    anchor      REAL    NOT NULL,
    horizon     INTEGER NOT NULL,
    trials      INTEGER NOT NULL,
    weight      REAL    NOT NULL,
    bias        INTEGER NOT NULL,
    early_stop  INTEGER NOT NULL DEFAULT 0,
    seed        TEXT    NOT NULL,
    kind        TEXT    NOT NULL,
    boundaries  TEXT    NOT NULL,
    counts      TEXT    NOT NULL,
    non_finite  INTEGER NOT NULL DEFAULT 0,
    mean        REAL,
    median      REAL,
    std_dev     REAL,
    min_price   REAL,
    max_price   REAL,
    p5          REAL,
    p95         REAL
);

CREATE INDEX IF NOT EXISTS idx_runs_symbol ON runs(symbol, created_at DESC);
CREATE INDEX IF NOT EXISTS idx_runs_at     ON runs(created_at DESC);
`

const (
	retentionRuns = 90 * 24 * time.Hour

	// ancho fijo para que el orden lexicográfico sea el cronológico
	timeLayout = "2006-01-02T15:04:05.000000000Z07:00"
)

// SQLiteStorage implementa ports.Storage usando SQLite (pure Go, sin CGo).
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage abre (o crea) la base de datos en la ruta dada.
// Aplica el schema y limpia corridas antiguas.
func NewSQLiteStorage(path string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("storage.NewSQLiteStorage: open %q: %w", path, err)
	}
	db.SetMaxOpenConns(1) // SQLite es single-writer
	db.SetMaxIdleConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("storage.NewSQLiteStorage: apply schema: %w", err)
	}

	s := &SQLiteStorage{db: db}
	s.pruneOld(context.Background())
	return s, nil
}

// SaveRun persiste una corrida. Guardar dos veces el mismo ID es un error.
func (s *SQLiteStorage) SaveRun(ctx context.Context, f domain.Forecast) error {
	bounds, err := json.Marshal(f.Config.Boundaries.Values())
	if err != nil {
		return fmt.Errorf("storage.SaveRun: marshal boundaries: %w", err)
	}
	counts, err := json.Marshal(f.Result.Counts)
	if err != nil {
		return fmt.Errorf("storage.SaveRun: marshal counts: %w", err)
	}

	earlyStop := 0
	if f.Config.EarlyStop {
		earlyStop = 1
	}

	var mean, median, stdDev, minP, maxP, p5, p95 *float64
	if sm := f.Result.Summary; sm != nil {
		mean, median, stdDev = &sm.Mean, &sm.Median, &sm.StdDev
		minP, maxP, p5, p95 = &sm.Min, &sm.Max, &sm.P5, &sm.P95
	}

	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO runs
			(id, symbol, created_at, expiration, anchor, horizon, trials, weight,
			 bias, early_stop, seed, kind, boundaries, counts, non_finite,
			 mean, median, std_dev, min_price, max_price, p5, p95)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		f.ID,
		f.Symbol,
		f.CreatedAt.UTC().Format(timeLayout),
		f.Expiration.Format(domain.DateLayout),
		f.Config.Anchor,
		f.Config.Horizon,
		f.Result.Trials,
		f.Config.Weight,
		f.Config.Bias,
		earlyStop,
		strconv.FormatUint(f.Result.Seed, 10), // uint64 no cabe en INTEGER con signo
		f.Result.Kind.String(),
		string(bounds),
		string(counts),
		f.Result.NonFinite,
		mean, median, stdDev, minP, maxP, p5, p95,
	); err != nil {
		return fmt.Errorf("storage.SaveRun: insert %s: %w", f.ID, err)
	}
	return nil
}

// GetRuns devuelve las últimas corridas, más recientes primero.
// symbol vacío devuelve todas; limit <= 0 no limita.
func (s *SQLiteStorage) GetRuns(ctx context.Context, symbol string, limit int) ([]domain.Forecast, error) {
	if limit <= 0 {
		limit = -1 // SQLite: LIMIT -1 = sin límite
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, symbol, created_at, expiration, anchor, horizon, trials, weight,
		       bias, early_stop, seed, boundaries, counts, non_finite,
		       mean, median, std_dev, min_price, max_price, p5, p95
		FROM runs
		WHERE ? = '' OR symbol = ?
		ORDER BY created_at DESC, rowid DESC
		LIMIT ?
	`, symbol, symbol, limit)
	if err != nil {
		return nil, fmt.Errorf("storage.GetRuns: query: %w", err)
	}
	defer rows.Close()

	var runs []domain.Forecast
	for rows.Next() {
		f, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("storage.GetRuns: %w", err)
		}
		runs = append(runs, f)
	}
	return runs, rows.Err()
}

// Close cierra la conexión a la base de datos.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

// --- helpers internos ---

// scanRun reconstruye un Forecast desde una fila de runs.
func scanRun(rows *sql.Rows) (domain.Forecast, error) {
	var (
		f                          domain.Forecast
		createdAt, expiration      string
		seed, boundsJSON, countsJS string
		earlyStop                  int
		mean, median, stdDev       sql.NullFloat64
		minP, maxP, p5, p95        sql.NullFloat64
	)
	if err := rows.Scan(
		&f.ID, &f.Symbol, &createdAt, &expiration,
		&f.Config.Anchor, &f.Config.Horizon, &f.Config.Trials, &f.Config.Weight,
		&f.Config.Bias, &earlyStop, &seed, &boundsJSON, &countsJS, &f.Result.NonFinite,
		&mean, &median, &stdDev, &minP, &maxP, &p5, &p95,
	); err != nil {
		return domain.Forecast{}, fmt.Errorf("scan row: %w", err)
	}

	var values []float64
	if err := json.Unmarshal([]byte(boundsJSON), &values); err != nil {
		return domain.Forecast{}, fmt.Errorf("run %s: boundaries: %w", f.ID, err)
	}
	// El par legacy se guarda en el orden dado; NewBoundaries lo reordenaría.
	var bounds domain.Boundaries
	if len(values) == 2 {
		bounds = domain.LegacyBoundaries(values[0], values[1])
	} else {
		var err error
		bounds, err = domain.NewBoundaries(values)
		if err != nil {
			return domain.Forecast{}, fmt.Errorf("run %s: %w", f.ID, err)
		}
	}
	var counts []int
	if err := json.Unmarshal([]byte(countsJS), &counts); err != nil {
		return domain.Forecast{}, fmt.Errorf("run %s: counts: %w", f.ID, err)
	}

	nonFinite := f.Result.NonFinite
	f.Config.Boundaries = bounds
	f.Config.EarlyStop = earlyStop == 1
	f.Result = domain.NewResult(bounds, counts, f.Config.Trials)
	f.Result.NonFinite = nonFinite
	f.Result.Seed, _ = strconv.ParseUint(seed, 10, 64)
	f.Config.Seed = f.Result.Seed
	f.Config.Summary = mean.Valid
	f.CreatedAt, _ = time.Parse(timeLayout, createdAt)
	f.Expiration, _ = time.Parse(domain.DateLayout, expiration)

	if mean.Valid {
		f.Result.Summary = &domain.Summary{
			Mean: mean.Float64, Median: median.Float64, StdDev: stdDev.Float64,
			Min: minP.Float64, Max: maxP.Float64, P5: p5.Float64, P95: p95.Float64,
		}
	}
	return f, nil
}

// pruneOld elimina corridas antiguas para mantener la DB ligera.
func (s *SQLiteStorage) pruneOld(ctx context.Context) {
	cutoff := time.Now().UTC().Add(-retentionRuns).Format(timeLayout)
	s.db.ExecContext(ctx, `DELETE FROM runs WHERE created_at < ?`, cutoff)
}
