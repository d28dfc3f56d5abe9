package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"passcritic/internal/platform/gamepass"
	"passcritic/internal/platform/opencritic"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const (
	DriverNone     = "none"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	CatalogueURL        string        `validate:"required,url"`
	ProductsURL         string        `validate:"required,url"`
	Market              string        `validate:"required,len=2"`
	Language            string        `validate:"required"`
	OpenCriticSearchURL string        `validate:"required,url"`
	OpenCriticGameURL   string        `validate:"required,url"`
	UserAgent           string        `validate:"required"`
	HTTPTimeout         time.Duration `validate:"gt=0"`
	RequestsPerSecond   int           `validate:"gte=0"`
	Workers             int           `validate:"gte=1,lte=32"`
	TopN                int           `validate:"gte=1"`
	DBDriver            string        `validate:"oneof=none postgres sqlite"`
	DBDSN               string        `validate:"required_unless=DBDriver none"`
}

var validate = validator.New()

// LoadEnvFiles reads .env and .env.local without overriding variables that
// are already set.
func LoadEnvFiles() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load(".env.local")
}

// Load reads the environment. Call LoadEnvFiles first to pick up dotenv files.
func Load() (Config, error) {
	cfg := Config{
		CatalogueURL:        GetEnv("CATALOGUE_URL", gamepass.DefaultCatalogueURL),
		ProductsURL:         GetEnv("PRODUCTS_URL", gamepass.DefaultProductsURL),
		Market:              GetEnv("CATALOGUE_MARKET", "US"),
		Language:            GetEnv("CATALOGUE_LANGUAGE", "en-us"),
		OpenCriticSearchURL: GetEnv("OPENCRITIC_SEARCH_URL", opencritic.DefaultSearchURL),
		OpenCriticGameURL:   GetEnv("OPENCRITIC_GAME_URL", opencritic.DefaultGameURL),
		UserAgent:           GetEnv("USER_AGENT", "passcritic/1.0"),
		DBDriver:            GetEnv("DB_DRIVER", DriverNone),
		DBDSN:               os.Getenv("DB_DSN"),
	}

	var err error
	if cfg.HTTPTimeout, err = getEnvDuration("HTTP_TIMEOUT", 15*time.Second); err != nil {
		return cfg, err
	}
	if cfg.RequestsPerSecond, err = getEnvInt("REQUESTS_PER_SECOND", 0); err != nil {
		return cfg, err
	}
	if cfg.Workers, err = getEnvInt("WORKERS", 1); err != nil {
		return cfg, err
	}
	if cfg.TopN, err = getEnvInt("TOP_N", 10); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// GetEnv returns the variable or def when it is unset or empty.
func GetEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}
