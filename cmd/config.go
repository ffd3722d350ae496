package cmd

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/etnz/networth"
	"github.com/etnz/networth/eodhd"
	"github.com/etnz/networth/fx"
	"github.com/etnz/networth/quote"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config is the configuration read from the environment.
type Config struct {
	EODHDAPIKey   string        `env:"EODHD_API_KEY"`
	PriceTTL      time.Duration `env:"NW_PRICE_TTL"      envDefault:"30s"`
	RatesTTL      time.Duration `env:"NW_RATES_TTL"      envDefault:"1h"`
	RatesURL      string        `env:"NW_RATES_URL"`
	RatesSchedule string        `env:"NW_RATES_SCHEDULE" envDefault:"@hourly"`
	Currency      string        `env:"NW_CURRENCY"`
	LogLevel      string        `env:"NW_LOG_LEVEL"      envDefault:"warning"`
	Addr          string        `env:"NW_ADDR"           envDefault:":8080"`
	CacheDir      string        `env:"NW_CACHE_DIR"`
}

// LoadConfig loads the optional envFile into the environment, without
// overriding variables already set, then parses the environment.
func LoadConfig(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	return cfg, nil
}

// Logger returns a text logger writing to w at the configured level.
func (c Config) Logger(w io.Writer) (*logrus.Logger, error) {
	level, err := logrus.ParseLevel(c.LogLevel)
	if err != nil {
		return nil, err
	}
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(level)
	return log, nil
}

// EODHD returns the market data client.
func (c Config) EODHD(log logrus.FieldLogger) (*eodhd.Client, error) {
	if c.EODHDAPIKey == "" {
		return nil, errors.New("EODHD API key is not set. Use -eodhd-api-key flag or EODHD_API_KEY environment variable")
	}
	client := eodhd.New(c.EODHDAPIKey, log)
	if c.CacheDir != "" {
		client = client.WithDiskCache(c.CacheDir)
	}
	return client, nil
}

// Prices returns the EODHD price source behind an in-memory cache.
func (c Config) Prices(log logrus.FieldLogger) (networth.PriceSource, error) {
	client, err := c.EODHD(log)
	if err != nil {
		return nil, err
	}
	return quote.NewCachedPrices(client, c.PriceTTL, nil), nil
}

// Rates returns the cached ECB exchange rates source.
func (c Config) Rates(log logrus.FieldLogger) *fx.Source {
	return fx.NewSource(fx.NewClient(c.RatesURL, log), c.RatesTTL, nil, log)
}
