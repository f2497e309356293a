// Package config loads the service configuration from the environment.
//
// The loading sequence is:
//  1. Load a .env file via godotenv (non-fatal if absent).
//  2. Populate Config from struct tags via envconfig.
//  3. Derive the geocoding language from the locale when unset.
//  4. Validate with go-playground/validator.
package config

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"weatherly/internal/adapters/forecast"
	"weatherly/internal/adapters/geocode"
	"weatherly/internal/domain"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Port string `envconfig:"PORT" default:"8080" validate:"required,numeric"`
	// TrustProxy honours X-Forwarded-Proto for the geolocation secure-context
	// check. Only enable behind a proxy that overwrites the header.
	TrustProxy bool `envconfig:"TRUST_PROXY" default:"false"`

	// Language is the geocoding language. Empty derives it from LC_ALL/LANG.
	Language            string `envconfig:"GEOCODE_LANGUAGE"`
	SearchURL           string `envconfig:"GEOCODE_SEARCH_URL" validate:"required,url"`
	ReverseURL          string `envconfig:"GEOCODE_REVERSE_URL" validate:"required,url"`
	NominatimReverseURL string `envconfig:"NOMINATIM_REVERSE_URL" validate:"required,url"`
	ForecastURL         string `envconfig:"FORECAST_URL" validate:"required,url"`
	UserAgent           string `envconfig:"USER_AGENT" default:"weatherly/1.0 (+https://github.com/weatherly)" validate:"required"`

	SearchDebounce    time.Duration `envconfig:"SEARCH_DEBOUNCE" default:"250ms" validate:"gt=0"`
	ReverseRetryDelay time.Duration `envconfig:"REVERSE_RETRY_DELAY" default:"200ms" validate:"gte=0"`
	FallbackTimeout   time.Duration `envconfig:"FALLBACK_TIMEOUT" default:"6s" validate:"gt=0"`
	HTTPTimeout       time.Duration `envconfig:"HTTP_TIMEOUT" default:"10s" validate:"gt=0"`
	SearchMemoTTL     time.Duration `envconfig:"SEARCH_MEMO_TTL" default:"10m" validate:"gte=0"`

	DefaultUnits string `envconfig:"DEFAULT_UNITS" default:"metric" validate:"oneof=metric imperial"`
}

// Units returns DefaultUnits as a domain value. Load has validated it.
func (c *Config) Units() domain.Units {
	u, err := domain.ParseUnits(c.DefaultUnits)
	if err != nil {
		return domain.Metric
	}
	return u
}

// Endpoints returns the geocoding provider URLs.
func (c *Config) Endpoints() geocode.Endpoints {
	return geocode.Endpoints{
		Search:          c.SearchURL,
		Reverse:         c.ReverseURL,
		FallbackReverse: c.NominatimReverseURL,
	}
}

// Load reads .env (if present) and the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}
	return FromEnv()
}

// FromEnv builds and validates a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := Config{
		SearchURL:           geocode.DefaultSearchURL,
		ReverseURL:          geocode.DefaultReverseURL,
		NominatimReverseURL: geocode.DefaultFallbackReverseURL,
		ForecastURL:         forecast.DefaultForecastURL,
	}
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("load config: process environment: %w", err)
	}

	cfg.Language = strings.TrimSpace(cfg.Language)
	if cfg.Language == "" {
		cfg.Language = geocode.LanguageFromLocale(Get("LC_ALL", Get("LANG", "")))
	}
	cfg.DefaultUnits = strings.ToLower(strings.TrimSpace(cfg.DefaultUnits))

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("load config: validate: %w", err)
	}

	return &cfg, nil
}

// Get returns the environment value for key, or fallback when unset or
// empty.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// GeocodeOptions translates the configuration into geocode client options.
func (c *Config) GeocodeOptions(session *http.Client) []geocode.Option {
	return []geocode.Option{
		geocode.WithHTTPClient(session),
		geocode.WithEndpoints(c.Endpoints()),
		geocode.WithLanguage(c.Language),
		geocode.WithUserAgent(c.UserAgent),
		geocode.WithRetryDelay(c.ReverseRetryDelay),
		geocode.WithFallbackTimeout(c.FallbackTimeout),
	}
}

// HTTPClient returns the outbound client shared by the provider adapters.
func (c *Config) HTTPClient() *http.Client {
	return &http.Client{Timeout: c.HTTPTimeout}
}
