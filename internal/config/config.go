package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all runtime configuration for the exchange.
type Config struct {
	Port             int           `yaml:"port"`
	LogLevel         string        `yaml:"log_level"`
	LogFile          string        `yaml:"log_file"`
	SellBookCapacity int           `yaml:"sell_book_capacity"`
	BuyBookCapacity  int           `yaml:"buy_book_capacity"`
	SampleInterval   time.Duration `yaml:"sample_interval"`
	WebhookTimeout   time.Duration `yaml:"webhook_timeout"`
	ReadTimeout      time.Duration `yaml:"read_timeout"`
	WriteTimeout     time.Duration `yaml:"write_timeout"`
	IdleTimeout      time.Duration `yaml:"idle_timeout"`
	ShutdownTimeout  time.Duration `yaml:"shutdown_timeout"`
}

// Load builds the configuration in three passes: defaults, then the
// optional YAML file named by CONFIG_FILE, then environment variable
// overrides. It returns an error for any invalid value.
func Load() (*Config, error) {
	cfg := &Config{
		Port:             8080,
		LogLevel:         "info",
		SellBookCapacity: 32,
		BuyBookCapacity:  128,
		SampleInterval:   5 * time.Second,
		WebhookTimeout:   5 * time.Second,
		ReadTimeout:      5 * time.Second,
		WriteTimeout:     10 * time.Second,
		IdleTimeout:      60 * time.Second,
		ShutdownTimeout:  10 * time.Second,
	}

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) error {
	var err error
	if cfg.Port, err = getInt("PORT", cfg.Port); err != nil {
		return fmt.Errorf("invalid PORT: %w", err)
	}
	cfg.LogLevel = getStr("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getStr("LOG_FILE", cfg.LogFile)
	if cfg.SellBookCapacity, err = getInt("SELL_BOOK_CAPACITY", cfg.SellBookCapacity); err != nil {
		return fmt.Errorf("invalid SELL_BOOK_CAPACITY: %w", err)
	}
	if cfg.BuyBookCapacity, err = getInt("BUY_BOOK_CAPACITY", cfg.BuyBookCapacity); err != nil {
		return fmt.Errorf("invalid BUY_BOOK_CAPACITY: %w", err)
	}
	if cfg.SampleInterval, err = getDuration("SAMPLE_INTERVAL", cfg.SampleInterval); err != nil {
		return fmt.Errorf("invalid SAMPLE_INTERVAL: %w", err)
	}
	if cfg.WebhookTimeout, err = getDuration("WEBHOOK_TIMEOUT", cfg.WebhookTimeout); err != nil {
		return fmt.Errorf("invalid WEBHOOK_TIMEOUT: %w", err)
	}
	if cfg.ReadTimeout, err = getDuration("READ_TIMEOUT", cfg.ReadTimeout); err != nil {
		return fmt.Errorf("invalid READ_TIMEOUT: %w", err)
	}
	if cfg.WriteTimeout, err = getDuration("WRITE_TIMEOUT", cfg.WriteTimeout); err != nil {
		return fmt.Errorf("invalid WRITE_TIMEOUT: %w", err)
	}
	if cfg.IdleTimeout, err = getDuration("IDLE_TIMEOUT", cfg.IdleTimeout); err != nil {
		return fmt.Errorf("invalid IDLE_TIMEOUT: %w", err)
	}
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid SHUTDOWN_TIMEOUT: %w", err)
	}
	return nil
}

func (c *Config) validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid PORT: %d, must be 1-65535", c.Port)
	}
	if !isValidLogLevel(c.LogLevel) {
		return fmt.Errorf("invalid LOG_LEVEL: %q, must be one of: debug, info, warn, error", c.LogLevel)
	}
	if c.SellBookCapacity < 1 {
		return fmt.Errorf("invalid SELL_BOOK_CAPACITY: %d, must be >= 1", c.SellBookCapacity)
	}
	if c.BuyBookCapacity < 1 {
		return fmt.Errorf("invalid BUY_BOOK_CAPACITY: %d, must be >= 1", c.BuyBookCapacity)
	}
	if c.SampleInterval <= 0 {
		return fmt.Errorf("invalid SAMPLE_INTERVAL: %v, must be positive", c.SampleInterval)
	}
	return nil
}

func getStr(key, defaultVal string) string {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal
	}
	return v
}

func getInt(key string, defaultVal int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return strconv.Atoi(v)
}

func getDuration(key string, defaultVal time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return defaultVal, nil
	}
	return time.ParseDuration(v)
}

func isValidLogLevel(level string) bool {
	switch level {
	case "debug", "info", "warn", "error":
		return true
	}
	return false
}
