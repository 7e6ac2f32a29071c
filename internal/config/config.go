package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/wb-go/wbf/retry"
)

type Config struct {
	Env      string `yaml:"env" env:"APP_ENV" env-default:"development"`
	LogLevel string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Server   ServerConfig   `yaml:"server"`
	Upload   UploadConfig   `yaml:"upload"`
	Removal  RemovalConfig  `yaml:"removal"`
	External ExternalConfig `yaml:"external"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Retry    RetryConfig    `yaml:"retry"`
}

type ServerConfig struct {
	Addr            string        `yaml:"port" env:"PORT" env-default:"5002"`
	ReadTimeout     time.Duration `yaml:"read_timeout" env:"SERVER_READ_TIMEOUT" env-default:"30s"`
	WriteTimeout    time.Duration `yaml:"write_timeout" env:"SERVER_WRITE_TIMEOUT" env-default:"90s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout" env:"SERVER_IDLE_TIMEOUT" env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
	StaticDir       string        `yaml:"static_dir" env:"STATIC_DIR"`
}

type UploadConfig struct {
	MaxBytes   int64  `yaml:"max_bytes" env:"MAX_UPLOAD_BYTES" env-default:"10485760"`
	StagingDir string `yaml:"staging_dir" env:"STAGING_DIR"`
}

type RemovalConfig struct {
	CornerThreshold     float64 `yaml:"corner_threshold" env:"CORNER_THRESHOLD" env-default:"50"`
	BrightnessThreshold float64 `yaml:"brightness_threshold" env:"BRIGHTNESS_THRESHOLD" env-default:"240"`
	MaxPixels           int64   `yaml:"max_pixels" env:"MAX_PIXELS" env-default:"40000000"`
}

// ExternalConfig describes the remove.bg compatible API used by the "api" method.
type ExternalConfig struct {
	APIKey     string        `yaml:"api_key" env:"REMOVEBG_API_KEY"`
	APIURL     string        `yaml:"api_url" env:"REMOVEBG_API_URL" env-default:"https://api.remove.bg/v1.0/removebg"`
	Timeout    time.Duration `yaml:"timeout" env:"EXTERNAL_TIMEOUT" env-default:"60s"`
	RatePerSec float64       `yaml:"rate_per_sec" env:"EXTERNAL_RATE_PER_SEC" env-default:"5"`
	Burst      int           `yaml:"burst" env:"EXTERNAL_BURST" env-default:"5"`
}

type KafkaConfig struct {
	Brokers     []string `yaml:"brokers" env:"KAFKA_BROKERS" env-separator:","`
	EventsTopic string   `yaml:"events_topic" env:"KAFKA_EVENTS_TOPIC" env-default:"background-removal-events"`
}

type RetryConfig struct {
	Attempts int           `yaml:"attempts" env:"RETRY_ATTEMPTS" env-default:"3"`
	Delay    time.Duration `yaml:"delay" env:"RETRY_DELAY" env-default:"200ms"`
	Backoff  float64       `yaml:"backoff" env:"RETRY_BACKOFF" env-default:"2"`
}

// MustLoad reads the YAML file named by CONFIG_PATH when it is set, then
// overlays environment variables.
func MustLoad() (*Config, error) {
	var cfg Config

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("config file %s: %w", path, err)
		}
		if err := cleanenv.ReadConfig(path, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}

	cfg.normalize()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) normalize() {
	c.External.APIKey = strings.TrimSpace(c.External.APIKey)
	c.External.APIURL = strings.TrimSpace(c.External.APIURL)

	if c.Upload.StagingDir == "" {
		c.Upload.StagingDir = filepath.Join(os.TempDir(), "backdrop-staging")
	}

	brokers := c.Kafka.Brokers[:0]
	for _, b := range c.Kafka.Brokers {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	c.Kafka.Brokers = brokers
}

func (c *Config) Validate() error {
	if c.Upload.MaxBytes <= 0 {
		return fmt.Errorf("MAX_UPLOAD_BYTES must be positive, got %d", c.Upload.MaxBytes)
	}
	if c.Removal.CornerThreshold <= 0 {
		return fmt.Errorf("CORNER_THRESHOLD must be positive")
	}
	if c.Removal.BrightnessThreshold <= 0 || c.Removal.BrightnessThreshold > 255 {
		return fmt.Errorf("BRIGHTNESS_THRESHOLD must be within 1..255, got %v", c.Removal.BrightnessThreshold)
	}
	if c.Removal.MaxPixels <= 0 {
		return fmt.Errorf("MAX_PIXELS must be positive, got %d", c.Removal.MaxPixels)
	}
	if c.External.RatePerSec <= 0 || c.External.Burst <= 0 {
		return fmt.Errorf("external rate limit must be positive")
	}
	return nil
}

// APIConfigured reports whether the external removal API can be used.
func (c *Config) APIConfigured() bool {
	return c.External.APIKey != ""
}

func (c *Config) EventsEnabled() bool {
	return len(c.Kafka.Brokers) > 0
}

func (c *Config) DefaultRetryStrategy() retry.Strategy {
	return retry.Strategy{
		Attempts: c.Retry.Attempts,
		Delay:    c.Retry.Delay,
		Backoff:  c.Retry.Backoff,
	}
}

// ClientConfig is read by the backdrop CLI.
type ClientConfig struct {
	BackendURL string        `env:"BACKEND_URL" env-default:"http://localhost:5002"`
	Timeout    time.Duration `env:"BACKEND_TIMEOUT" env-default:"120s"`
}

func LoadClient() (*ClientConfig, error) {
	var cfg ClientConfig
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return nil, fmt.Errorf("failed to read env: %w", err)
	}
	cfg.BackendURL = strings.TrimRight(strings.TrimSpace(cfg.BackendURL), "/")
	return &cfg, nil
}
