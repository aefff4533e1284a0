package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"hltv-tracker/internal/constants"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// LoadStrategy controls how long a navigation waits for the target
// page before the fetch is considered failed.
type LoadStrategy string

const (
	LoadEager LoadStrategy = "eager"
	LoadFull  LoadStrategy = "full"
)

type Config struct {
	BaseURL      string
	DBPath       string
	ServerPort   string
	LogLevel     string
	MaxRetries   int
	BaseWait     time.Duration
	Headless     bool
	LoadStrategy LoadStrategy
}

// Load reads configuration from a .env file and the environment.
// Any invalid value is a fatal startup failure; nothing here is retried.
func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		BaseURL:      getEnv("HLTV_BASE_URL", "https://www.hltv.org"),
		DBPath:       getEnv("DB_PATH", "hltv.db"),
		ServerPort:   getEnv("SERVER_PORT", "8080"),
		LogLevel:     getEnv("LOG_LEVEL", "info"),
		MaxRetries:   constants.DefaultMaxRetries,
		BaseWait:     constants.DefaultBaseWait,
		Headless:     true,
		LoadStrategy: LoadEager,
	}

	parsed, err := url.Parse(cfg.BaseURL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return nil, fmt.Errorf("HLTV_BASE_URL %q is not a valid absolute URL", cfg.BaseURL)
	}

	if raw := os.Getenv("SCRAPE_MAX_RETRIES"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			return nil, fmt.Errorf("SCRAPE_MAX_RETRIES %q is not a non-negative integer", raw)
		}
		cfg.MaxRetries = n
	}

	if raw := os.Getenv("SCRAPE_BASE_WAIT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil || d < 0 {
			return nil, fmt.Errorf("SCRAPE_BASE_WAIT %q is not a valid duration", raw)
		}
		cfg.BaseWait = d
	}

	if raw := os.Getenv("BROWSER_HEADLESS"); raw != "" {
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, fmt.Errorf("BROWSER_HEADLESS %q is not a boolean", raw)
		}
		cfg.Headless = b
	}

	if raw := os.Getenv("BROWSER_LOAD_STRATEGY"); raw != "" {
		switch LoadStrategy(raw) {
		case LoadEager, LoadFull:
			cfg.LoadStrategy = LoadStrategy(raw)
		default:
			return nil, fmt.Errorf("BROWSER_LOAD_STRATEGY %q must be %q or %q", raw, LoadEager, LoadFull)
		}
	}

	logger.Info().
		Str("base_url", cfg.BaseURL).
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int("max_retries", cfg.MaxRetries).
		Dur("base_wait", cfg.BaseWait).
		Bool("headless", cfg.Headless).
		Str("load_strategy", string(cfg.LoadStrategy)).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
