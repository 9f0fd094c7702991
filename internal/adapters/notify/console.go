package notify

import (
	"context"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/alejandrodnm/mcforecast/internal/domain"
	"github.com/olekukonko/tablewriter"
)

// Console implementa ports.Notifier.
type Console struct {
	out   io.Writer
	table bool
}

// NewConsole crea un notificador que escribe a stdout.
func NewConsole(table bool) *Console {
	return &Console{out: os.Stdout, table: table}
}

// NewConsoleWriter crea un notificador para tests.
func NewConsoleWriter(w io.Writer, table bool) *Console {
	return &Console{out: w, table: table}
}

// Notify imprime el forecast en el modo configurado.
func (c *Console) Notify(_ context.Context, f domain.Forecast) error {
	c.printHeader(f)

	switch {
	case f.Result.Kind == domain.ResultLegacyPair:
		c.printLegacy(f.Result)
	case c.table:
		if err := c.printTable(f.Result); err != nil {
			return fmt.Errorf("notify.Notify: %w", err)
		}
	default:
		c.printBuckets(f.Result)
	}

	if f.Result.Summary != nil {
		c.printSummary(*f.Result.Summary)
	}
	if f.Result.NonFinite > 0 {
		fmt.Fprintf(c.out, "  ⚠ %d trials ended with a non-finite price (NaN and -Inf count below the first boundary, +Inf above the last)\n",
			f.Result.NonFinite)
	}
	return nil
}

// printHeader imprime una línea con el contexto de la corrida.
func (c *Console) printHeader(f domain.Forecast) {
	cfg := f.Config
	fmt.Fprintf(c.out, "[%s] %s → %s | price %.2f | %d days | %d trials | w=%.2f cx=%d",
		time.Now().Format("15:04:05"),
		f.Symbol, f.Expiration.Format(domain.DateLayout),
		cfg.Anchor, cfg.Horizon, f.Result.Trials, cfg.Weight, cfg.Bias)
	if cfg.EarlyStop {
		fmt.Fprint(c.out, " | early-stop")
	}
	fmt.Fprintln(c.out)
}

// printLegacy imprime el formato LOW/HIGH de dos fronteras.
func (c *Console) printLegacy(r domain.Result) {
	pair := r.Public()
	fmt.Fprintf(c.out, "LOW:%s%%,HIGH:%s%%\n", formatPct(pair[0]), formatPct(pair[1]))
}

// printBuckets imprime una línea por bucket.
func (c *Console) printBuckets(r domain.Result) {
	for i, pct := range r.Public() {
		fmt.Fprintf(c.out, "%s:%.2f%%\n", r.Boundaries.Label(i), pct)
	}
}

// printTable imprime los buckets como tabla con conteos y una barra.
func (c *Console) printTable(r domain.Result) error {
	table := tablewriter.NewWriter(c.out)
	table.Header("#", "Bucket", "Trials", "Pct", "")

	for i, pct := range r.Public() {
		table.Append(
			fmt.Sprintf("%d", i),
			r.Boundaries.Label(i),
			fmt.Sprintf("%d", r.Counts[i]),
			fmt.Sprintf("%.2f%%", pct),
			bar(pct, 30),
		)
	}
	return table.Render()
}

// printSummary imprime la distribución de precios finales.
func (c *Console) printSummary(s domain.Summary) {
	fmt.Fprintf(c.out, "  final price: mean %.2f  median %.2f  sd %.2f  p5 %.2f  p95 %.2f  [%.2f, %.2f]\n",
		s.Mean, s.Median, s.StdDev, s.P5, s.P95, s.Min, s.Max)
}

// PrintRuns imprime el histórico de corridas guardadas.
func (c *Console) PrintRuns(runs []domain.Forecast) error {
	if len(runs) == 0 {
		fmt.Fprintln(c.out, "no stored runs")
		return nil
	}

	table := tablewriter.NewWriter(c.out)
	table.Header("Created", "Symbol", "Expiry", "Price", "Days", "Trials", "Result")
	for _, f := range runs {
		table.Append(
			f.CreatedAt.Local().Format("2006-01-02 15:04"),
			f.Symbol,
			f.Expiration.Format(domain.DateLayout),
			fmt.Sprintf("%.2f", f.Config.Anchor),
			fmt.Sprintf("%d", f.Config.Horizon),
			fmt.Sprintf("%d", f.Result.Trials),
			compactResult(f.Result),
		)
	}
	return table.Render()
}

// compactResult resume los porcentajes en una sola celda.
func compactResult(r domain.Result) string {
	if r.Kind == domain.ResultLegacyPair {
		pair := r.Public()
		return fmt.Sprintf("LOW %.1f%% HIGH %.1f%%", pair[0], pair[1])
	}
	parts := make([]string, 0, len(r.Percentages))
	for i, pct := range r.Percentages {
		parts = append(parts, fmt.Sprintf("%s %.1f%%", r.Boundaries.Label(i), pct))
	}
	return strings.Join(parts, " | ")
}

// formatPct imprime el porcentaje con la representación más corta que lo
// identifica, siempre con parte decimal: 12.5, 0.0, 100.0, 1e-05.
func formatPct(v float64) string {
	s := strconv.FormatFloat(v, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eIN") {
		s += ".0"
	}
	return s
}

func bar(pct float64, width int) string {
	n := int(pct / 100 * float64(width))
	if n < 0 {
		n = 0
	}
	if n > width {
		n = width
	}
	return strings.Repeat("█", n)
}
