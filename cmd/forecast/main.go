package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/alejandrodnm/mcforecast/config"
	"github.com/alejandrodnm/mcforecast/internal/adapters/csvhistory"
	"github.com/alejandrodnm/mcforecast/internal/adapters/marketdata"
	"github.com/alejandrodnm/mcforecast/internal/adapters/notify"
	"github.com/alejandrodnm/mcforecast/internal/adapters/storage"
	"github.com/alejandrodnm/mcforecast/internal/domain"
	"github.com/alejandrodnm/mcforecast/internal/ports"
	"github.com/alejandrodnm/mcforecast/internal/simulation"
)

func main() {
	configPath := flag.String("config", "config/config.yaml", "path to config file (empty: defaults only)")
	symbol := flag.String("symbol", "", "ticker symbol, e.g. NVDA")
	expiration := flag.String("expiration", "", "expiration date YYYY-MM-DD")
	intervals := flag.String("intervals", "", "comma-separated band boundaries, e.g. 100,160,200")
	lower := flag.Float64("lower", 0, "legacy lower bound (with -upper)")
	upper := flag.Float64("upper", 0, "legacy upper bound (with -lower)")
	price := flag.Float64("price", 0, "current price (default: fetch from quote API)")
	trials := flag.Int("trials", 0, "number of trials (overrides config)")
	weight := flag.Float64("weight", 0, "current price weight in [0,1] (overrides config)")
	bias := flag.Int("bias", 0, "flip bias cx >= 1 (overrides config)")
	seed := flag.Uint64("seed", 0, "random seed, 0 = random (overrides config)")
	workers := flag.Int("workers", 0, "trial workers, 0 = NumCPU (overrides config)")
	earlyStop := flag.Bool("early-stop", false, "stop a path once it leaves the outer bounds")
	tradingDays := flag.Bool("trading-days", false, "count weekdays only for the horizon")
	table := flag.Bool("table", false, "print buckets as a table")
	dryRun := flag.Bool("dry-run", false, "do not persist the run")
	history := flag.Int("history", 0, "print the last N stored runs for -symbol and exit")
	verbose := flag.Bool("verbose", false, "set log level to debug")
	logFormat := flag.String("format", "", "log format: text|json (overrides config)")
	flag.Parse()

	set := map[string]bool{}
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "err", err, "path", *configPath)
		os.Exit(1)
	}

	if *verbose {
		cfg.Log.Level = "debug"
	}
	if *logFormat != "" {
		cfg.Log.Format = *logFormat
	}
	setupLogger(cfg.Log)

	notifier := notify.NewConsole(*table)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if *history > 0 {
		if err := runHistory(ctx, cfg.Storage.DSN, strings.ToUpper(*symbol), *history, notifier); err != nil {
			slog.Error("history failed", "err", err)
			os.Exit(1)
		}
		return
	}

	if *symbol == "" || *expiration == "" {
		slog.Error("-symbol and -expiration are required")
		flag.Usage()
		os.Exit(2)
	}

	exp, err := domain.ParseExpiration(*expiration)
	if err != nil {
		slog.Error("invalid expiration", "err", err)
		os.Exit(2)
	}

	req := simulation.Request{Symbol: strings.ToUpper(*symbol), Expiration: exp}
	if *intervals != "" {
		req.Intervals, err = parseIntervals(*intervals)
		if err != nil {
			slog.Error("invalid -intervals", "err", err)
			os.Exit(2)
		}
	}
	if set["lower"] {
		req.Lower = lower
	}
	if set["upper"] {
		req.Upper = upper
	}
	if set["price"] {
		req.Price = price
	}

	simCfg := simulationConfig(cfg, set, simFlags{
		trials:      *trials,
		weight:      *weight,
		bias:        *bias,
		seed:        *seed,
		workers:     *workers,
		earlyStop:   *earlyStop,
		tradingDays: *tradingDays,
	})

	slog.Info("mcforecast starting",
		"config", *configPath,
		"symbol", req.Symbol,
		"expiration", *expiration,
		"trials", simCfg.Trials,
		"weight", simCfg.Weight,
		"bias", simCfg.Bias,
		"early_stop", simCfg.EarlyStop,
		"dry_run", *dryRun,
	)

	client := marketdata.NewClient(cfg.Quote.BaseURL, cfg.Quote.APIKey, cfg.Quote.RatePerSec)
	quotes := marketdata.NewFallbackQuote(client, cfg.Quote.FallbackPrice)

	var historyProvider ports.HistoryProvider
	switch cfg.Data.Source {
	case "http":
		historyProvider = client
	case "csv":
		historyProvider = csvhistory.NewLoader(cfg.Data.HistoryDir)
	default:
		slog.Error("unknown data source", "source", cfg.Data.Source)
		os.Exit(1)
	}

	var store ports.Storage
	if !*dryRun {
		sqlStore, err := storage.NewSQLiteStorage(cfg.Storage.DSN)
		if err != nil {
			slog.Error("failed to open storage", "err", err, "dsn", cfg.Storage.DSN)
			os.Exit(1)
		}
		defer sqlStore.Close()
		store = sqlStore
	}

	f := simulation.New(simCfg, historyProvider, quotes, store, notifier)
	if _, err := f.RunOnce(ctx, req); err != nil {
		slog.Error("forecast failed", "err", err)
		os.Exit(1)
	}
}

// parseIntervals convierte "100, 160,200" en []float64.
func parseIntervals(s string) ([]float64, error) {
	parts := strings.Split(s, ",")
	out := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, fmt.Errorf("boundary %q: %w", p, err)
		}
		out = append(out, v)
	}
	return out, nil
}

// simFlags son los valores de los flags que sobrescriben config.simulation.
type simFlags struct {
	trials      int
	weight      float64
	bias        int
	seed        uint64
	workers     int
	earlyStop   bool
	tradingDays bool
}

// simulationConfig parte de la config y aplica solo los flags presentes en
// set, así -early-stop=false puede desactivar lo que activa el YAML.
func simulationConfig(cfg *config.Config, set map[string]bool, f simFlags) simulation.Config {
	simCfg := simulation.Config{
		Trials:      cfg.Simulation.Trials,
		Weight:      cfg.Weight(),
		Bias:        cfg.Simulation.Bias,
		EarlyStop:   cfg.Simulation.EarlyStop,
		Workers:     cfg.Simulation.Workers,
		Seed:        cfg.Simulation.Seed,
		Summary:     cfg.SummaryEnabled(),
		TradingDays: cfg.Simulation.TradingDays,
	}
	if set["trials"] {
		simCfg.Trials = f.trials
	}
	if set["weight"] {
		simCfg.Weight = f.weight
	}
	if set["bias"] {
		simCfg.Bias = f.bias
	}
	if set["seed"] {
		simCfg.Seed = f.seed
	}
	if set["workers"] {
		simCfg.Workers = f.workers
	}
	if set["early-stop"] {
		simCfg.EarlyStop = f.earlyStop
	}
	if set["trading-days"] {
		simCfg.TradingDays = f.tradingDays
	}
	return simCfg
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	// Los logs van a stderr: stdout queda para el resultado.
	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))
}
