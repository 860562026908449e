package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"

	"github.com/vsinha/sourcing/pkg/application/services/planning"
	"github.com/vsinha/sourcing/pkg/domain/entities"
	"github.com/vsinha/sourcing/pkg/infrastructure/cache"
)

// Cache backends
const (
	CacheMemory = "memory"
	CacheRedis  = "redis"
	CacheNone   = "none"
)

// Config holds the settings shared by the CLI and the API server
type Config struct {
	AppName    string `env:"APP_NAME" envDefault:"sourcing" validate:"required"`
	LogLevel   string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=debug info warn error"`
	PrettyLogs bool   `env:"PRETTY_LOGS" envDefault:"false"`

	HTTPAddress    string `env:"HTTP_ADDRESS" envDefault:":8080" validate:"required"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"33554432" validate:"gt=0"`

	TransportPrice       decimal.Decimal   `env:"TRANSPORT_PRICE_PER_KM" envDefault:"0.15"`
	TransportPriceSource string            `env:"TRANSPORT_PRICE_SOURCE" envDefault:"fixed" validate:"oneof=fixed client"`
	DefaultTieThreshold  decimal.Decimal   `env:"DEFAULT_TIE_THRESHOLD" envDefault:"50"`
	ThresholdsFile       string            `env:"THRESHOLDS_FILE"`
	OrderClass           string            `env:"ORDER_CLASS" envDefault:"PP01" validate:"required,max=16"`
	CenterPrimaryPattern string            `env:"CENTER_PRIMARY_PATTERN"`
	CenterAliases        map[string]string `env:"CENTER_ALIASES" envDefault:"0833=DG,0184=MCH" envKeyValSeparator:"="`
	ResolutionWorkers    int               `env:"RESOLUTION_WORKERS" envDefault:"0" validate:"gte=0"`

	CacheBackend    string        `env:"CACHE_BACKEND" envDefault:"memory" validate:"oneof=memory redis none"`
	CacheMaxEntries int           `env:"CACHE_MAX_ENTRIES" envDefault:"128" validate:"gte=0"`
	CacheTTL        time.Duration `env:"CACHE_TTL" envDefault:"24h"`

	RedisHost     string `env:"REDIS_HOST" envDefault:"localhost"`
	RedisPort     int    `env:"REDIS_PORT" envDefault:"6379" validate:"gt=0,lte=65535"`
	RedisPassword string `env:"REDIS_PASSWORD"`
	RedisDB       int    `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Load reads the environment, after applying the given .env files. A missing
// file is skipped; any other read error fails.
func Load(files ...string) (*Config, error) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				continue
			}
			return nil, fmt.Errorf("failed to load env file %s: %w", f, err)
		}
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks field constraints
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.TransportPrice.IsNegative() {
		return fmt.Errorf("invalid config: TRANSPORT_PRICE_PER_KM cannot be negative, got %s", c.TransportPrice)
	}
	if c.DefaultTieThreshold.IsNegative() || c.DefaultTieThreshold.GreaterThan(decimal.NewFromInt(100)) {
		return fmt.Errorf("invalid config: DEFAULT_TIE_THRESHOLD must be between 0 and 100, got %s", c.DefaultTieThreshold)
	}
	return nil
}

// PlanParams builds run parameters from the config, reading the thresholds
// file when one is set
func (c *Config) PlanParams() (planning.Params, error) {
	params := planning.Params{
		PricePerDistance: c.TransportPrice,
		PriceSource:      c.TransportPriceSource,
		DefaultThreshold: c.DefaultTieThreshold,
		OrderClass:       c.OrderClass,
		Centers: entities.CenterOptions{
			PrimaryPattern: c.CenterPrimaryPattern,
			Aliases:        make(map[entities.CenterID]string, len(c.CenterAliases)),
		},
	}
	for id, alias := range c.CenterAliases {
		params.Centers.Aliases[entities.CenterID(strings.TrimSpace(id))] = strings.TrimSpace(alias)
	}

	if c.ThresholdsFile != "" {
		th, err := LoadThresholds(c.ThresholdsFile)
		if err != nil {
			return planning.Params{}, err
		}
		params.Thresholds = th.Weeks
		if th.Default != nil {
			params.DefaultThreshold = *th.Default
		}
	}
	return params, nil
}

// RedisConfig returns the Redis memo settings
func (c *Config) RedisConfig() cache.RedisConfig {
	return cache.RedisConfig{
		Host:      c.RedisHost,
		Port:      c.RedisPort,
		Password:  c.RedisPassword,
		DB:        c.RedisDB,
		KeyPrefix: c.AppName + ":plan:",
		TTL:       c.CacheTTL,
	}
}

// envFiles lists the .env files Load applies by default
func envFiles() []string {
	if f := os.Getenv("ENV_FILE"); f != "" {
		return []string{f}
	}
	return []string{".env"}
}

// LoadDefault loads the config from the environment and the default .env file
func LoadDefault() (*Config, error) {
	return Load(envFiles()...)
}
