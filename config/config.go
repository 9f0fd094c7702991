package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config es la configuración completa del forecaster.
type Config struct {
	Simulation SimulationConfig `yaml:"simulation"`
	Data       DataConfig       `yaml:"data"`
	Quote      QuoteConfig      `yaml:"quote"`
	Storage    StorageConfig    `yaml:"storage"`
	Log        LogConfig        `yaml:"log"`
}

// SimulationConfig controla el motor Monte Carlo.
type SimulationConfig struct {
	Trials             int      `yaml:"trials"`
	CurrentPriceWeight *float64 `yaml:"current_price_weight"` // puntero: 0 es un valor válido
	Bias               int      `yaml:"bias"`                 // cx del flip, >= 1
	EarlyStop          bool     `yaml:"early_stop"`
	Workers            int      `yaml:"workers"` // 0 = runtime.NumCPU()
	Seed               uint64   `yaml:"seed"`    // 0 = aleatorio
	Summary            *bool    `yaml:"summary"`
	TradingDays        bool     `yaml:"trading_days"`
}

// DataConfig controla de dónde sale el histórico.
type DataConfig struct {
	Source     string `yaml:"source"`      // csv | http
	HistoryDir string `yaml:"history_dir"` // directorio con <SYMBOL>.csv
}

// QuoteConfig contiene el API de precios actuales e histórico HTTP.
type QuoteConfig struct {
	BaseURL       string  `yaml:"base_url"`
	APIKey        string  `yaml:"api_key"`
	RatePerSec    float64 `yaml:"rate_per_sec"`
	FallbackPrice float64 `yaml:"fallback_price"` // 0 = sin fallback
}

// StorageConfig controla dónde se persisten las corridas.
type StorageConfig struct {
	DSN string `yaml:"dsn"` // ruta al archivo SQLite, o ":memory:"
}

// LogConfig controla el formato y nivel de logging.
type LogConfig struct {
	Level  string `yaml:"level"`  // debug | info | warn | error
	Format string `yaml:"format"` // text | json
}

// Load carga la configuración desde el archivo YAML y el archivo .env si existe.
// Los valores del .env sobreescriben los del YAML para las keys que correspondan.
// Un path vacío arranca desde los defaults.
func Load(path string) (*Config, error) {
	// Cargar .env si existe (silencia error si no hay archivo)
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("config.Load: read %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("config.Load: parse YAML: %w", err)
		}
	}

	if err := applyEnvOverrides(&cfg); err != nil {
		return nil, fmt.Errorf("config.Load: %w", err)
	}
	setDefaults(&cfg)

	return &cfg, nil
}

// Weight devuelve el peso del precio actual.
func (c *Config) Weight() float64 {
	if c.Simulation.CurrentPriceWeight == nil {
		return defaultWeight
	}
	return *c.Simulation.CurrentPriceWeight
}

// SummaryEnabled indica si se calculan estadísticas de precios finales.
func (c *Config) SummaryEnabled() bool {
	return c.Simulation.Summary == nil || *c.Simulation.Summary
}

// applyEnvOverrides sobreescribe valores con variables de entorno si están presentes.
func applyEnvOverrides(cfg *Config) error {
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("QUOTE_API_KEY"); v != "" {
		cfg.Quote.APIKey = v
	}
	if v := os.Getenv("QUOTE_BASE_URL"); v != "" {
		cfg.Quote.BaseURL = v
	}
	if v := os.Getenv("MC_SEED"); v != "" {
		seed, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return fmt.Errorf("MC_SEED %q: %w", v, err)
		}
		cfg.Simulation.Seed = seed
	}
	if v := os.Getenv("MC_TRIALS"); v != "" {
		trials, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("MC_TRIALS %q: %w", v, err)
		}
		cfg.Simulation.Trials = trials
	}
	return nil
}

const defaultWeight = 0.2

// setDefaults asegura que los valores requeridos tengan valores sensatos.
// Los valores inválidos explícitos (p.ej. bias negativo) no se corrigen:
// los rechaza la validación del motor.
func setDefaults(cfg *Config) {
	if cfg.Simulation.Trials == 0 {
		cfg.Simulation.Trials = 10000
	}
	if cfg.Simulation.Bias == 0 {
		cfg.Simulation.Bias = 1
	}
	if cfg.Data.Source == "" {
		cfg.Data.Source = "csv"
	}
	if cfg.Data.HistoryDir == "" {
		cfg.Data.HistoryDir = "data"
	}
	if cfg.Quote.BaseURL == "" {
		cfg.Quote.BaseURL = "http://localhost:8080"
	}
	if cfg.Storage.DSN == "" {
		cfg.Storage.DSN = "mcforecast.db"
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "text"
	}
}
