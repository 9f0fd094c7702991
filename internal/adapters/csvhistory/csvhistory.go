package csvhistory

// csvhistory.go — histórico diario desde exports CSV tipo Yahoo Finance.
//
// Formato esperado (cabecera obligatoria, columnas extra se ignoran):
//
//	Date,Open,High,Low,Close,Adj Close,Volume
//	2025-06-27,154.50,156.90,153.10,157.75,157.75,209000000
//
// Las filas de dividendos/splits ("0.01 Dividend", "10:1 Stock Splits") y las
// que no empiezan por dígito se descartan, igual que los cierres no numéricos.

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
	"github.com/gocarina/gocsv"
)

// dateLayouts son los formatos de fecha que aceptamos en la columna Date.
var dateLayouts = []string{"2006-01-02", "Jan 2, 2006", "01/02/2006"}

// row es una fila cruda del CSV. Close se lee como string para poder
// filtrar filas de dividendos antes de convertir.
type row struct {
	Date  string `csv:"Date"`
	Close string `csv:"Close"`
}

// Loader implementa ports.HistoryProvider leyendo <dir>/<SYMBOL>.csv.
type Loader struct {
	dir string
}

// NewLoader crea un Loader sobre el directorio dado.
func NewLoader(dir string) *Loader {
	return &Loader{dir: dir}
}

// Path devuelve la ruta del CSV del símbolo.
func (l *Loader) Path(symbol string) string {
	return filepath.Join(l.dir, strings.ToUpper(symbol)+".csv")
}

// FetchCloses lee el CSV del símbolo y devuelve las barras válidas.
func (l *Loader) FetchCloses(_ context.Context, symbol string) ([]domain.PriceBar, error) {
	path := l.Path(symbol)
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csvhistory.FetchCloses: open %q: %w", path, err)
	}
	defer f.Close()

	bars, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("csvhistory.FetchCloses: %s: %w", symbol, err)
	}
	return bars, nil
}

// Parse lee un CSV de histórico y descarta las filas que no son cierres.
func Parse(r io.Reader) ([]domain.PriceBar, error) {
	// Las filas de dividendos de algunos exports traen menos columnas.
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	var rows []*row
	if err := gocsv.UnmarshalCSV(reader, &rows); err != nil {
		return nil, fmt.Errorf("csvhistory.Parse: %w", err)
	}

	bars := make([]domain.PriceBar, 0, len(rows))
	skipped := 0
	for _, rw := range rows {
		bar, ok := parseRow(rw)
		if !ok {
			skipped++
			continue
		}
		bars = append(bars, bar)
	}

	if skipped > 0 {
		slog.Debug("csv history rows skipped", "skipped", skipped, "kept", len(bars))
	}
	return bars, nil
}

// parseRow convierte una fila; ok=false si no es un cierre válido.
func parseRow(rw *row) (domain.PriceBar, bool) {
	closeStr := strings.ReplaceAll(strings.TrimSpace(rw.Close), ",", "")
	if closeStr == "" || closeStr[0] < '0' || closeStr[0] > '9' {
		return domain.PriceBar{}, false
	}
	if strings.Contains(strings.ToLower(closeStr), "dividend") {
		return domain.PriceBar{}, false
	}
	price, err := strconv.ParseFloat(closeStr, 64)
	if err != nil {
		return domain.PriceBar{}, false
	}
	date, ok := parseDate(strings.TrimSpace(rw.Date))
	if !ok {
		return domain.PriceBar{}, false
	}
	return domain.PriceBar{Date: date, Close: price}, true
}

func parseDate(s string) (time.Time, bool) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
