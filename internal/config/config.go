package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	EnvLogLevel = "SAFETRADE_LOG_LEVEL"
	EnvAsync    = "SAFETRADE_ASYNC"
)

var (
	validate     *validator.Validate
	onceValidate sync.Once
)

// Config holds everything needed to bring an exchange up.
type Config struct {
	Log struct {
		Level  string `yaml:"level" validate:"omitempty,oneof=trace debug info warn error fatal panic disabled"`
		Pretty bool   `yaml:"pretty"`
	} `yaml:"log"`

	Dispatch struct {
		// Async queues notices for delivery by a background worker instead
		// of delivering them before an order placement returns.
		Async     bool `yaml:"async"`
		QueueSize int  `yaml:"queue_size" validate:"gte=0"`
	} `yaml:"dispatch"`

	Stocks  []Stock  `yaml:"stocks" validate:"required,min=1,unique=Symbol,dive"`
	Traders []Trader `yaml:"traders" validate:"unique=Name,dive"`
}

type Stock struct {
	Symbol string  `yaml:"symbol" validate:"required"`
	Name   string  `yaml:"name" validate:"required"`
	Price  float64 `yaml:"price" validate:"gte=0,lte=1000000000000"`
}

type Trader struct {
	Name     string `yaml:"name" validate:"required,min=4,max=10"`
	Password string `yaml:"password" validate:"required,min=2,max=10"`
}

// Default lists a single stock and no traders.
func Default() *Config {
	cfg := &Config{
		Stocks: []Stock{{Symbol: "GGGL", Name: "Giggle.com", Price: 10}},
	}
	cfg.Log.Level = "info"
	cfg.Log.Pretty = true
	return cfg
}

// Load reads the YAML file at path, or the defaults when path is empty, then
// applies overrides from a .env file and the environment.
func Load(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		cfg = &Config{}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("unable to parse %s: %w", path, err)
		}
	}

	// A missing .env is fine; anything else is not.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("unable to load .env: %w", err)
	}
	if err := overrideWithEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	onceValidate.Do(func() {
		validate = validator.New()
	})
	return validate.Struct(c)
}

func overrideWithEnv(cfg *Config) error {
	if level := os.Getenv(EnvLogLevel); level != "" {
		cfg.Log.Level = level
	}
	if async := os.Getenv(EnvAsync); async != "" {
		v, err := strconv.ParseBool(async)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvAsync, err)
		}
		cfg.Dispatch.Async = v
	}
	return nil
}
