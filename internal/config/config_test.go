package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMustLoad_Defaults(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("REMOVEBG_API_KEY", "")
	t.Setenv("KAFKA_BROKERS", "")

	cfg, err := MustLoad()
	require.NoError(t, err)

	assert.Equal(t, "5002", cfg.Server.Addr)
	assert.Equal(t, int64(10<<20), cfg.Upload.MaxBytes)
	assert.Equal(t, float64(50), cfg.Removal.CornerThreshold)
	assert.Equal(t, float64(240), cfg.Removal.BrightnessThreshold)
	assert.Equal(t, int64(40_000_000), cfg.Removal.MaxPixels)
	assert.Equal(t, "https://api.remove.bg/v1.0/removebg", cfg.External.APIURL)
	assert.Equal(t, filepath.Join(os.TempDir(), "backdrop-staging"), cfg.Upload.StagingDir)
	assert.False(t, cfg.APIConfigured())
	assert.False(t, cfg.EventsEnabled())
}

func TestMustLoad_Env(t *testing.T) {
	t.Setenv("CONFIG_PATH", "")
	t.Setenv("PORT", "8080")
	t.Setenv("REMOVEBG_API_KEY", "  secret  ")
	t.Setenv("MAX_UPLOAD_BYTES", "2048")
	t.Setenv("KAFKA_BROKERS", "kafka-1:9092, ,kafka-2:9092")
	t.Setenv("EXTERNAL_TIMEOUT", "5s")

	cfg, err := MustLoad()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Addr)
	assert.Equal(t, "secret", cfg.External.APIKey)
	assert.True(t, cfg.APIConfigured())
	assert.Equal(t, int64(2048), cfg.Upload.MaxBytes)
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.EventsEnabled())
	assert.Equal(t, 5*time.Second, cfg.External.Timeout)
}

func TestMustLoad_YAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: "9000"
removal:
  corner_threshold: 30
`), 0o600))

	t.Setenv("CONFIG_PATH", path)

	cfg, err := MustLoad()
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Server.Addr)
	assert.Equal(t, float64(30), cfg.Removal.CornerThreshold)
	assert.Equal(t, float64(240), cfg.Removal.BrightnessThreshold)
}

func TestMustLoad_MissingFile(t *testing.T) {
	t.Setenv("CONFIG_PATH", filepath.Join(t.TempDir(), "missing.yaml"))

	_, err := MustLoad()
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() Config {
		var c Config
		c.Upload.MaxBytes = 1
		c.Removal.CornerThreshold = 50
		c.Removal.BrightnessThreshold = 240
		c.Removal.MaxPixels = 1
		c.External.RatePerSec = 1
		c.External.Burst = 1
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr bool
	}{
		{name: "valid", mutate: func(c *Config) {}},
		{name: "zero upload limit", mutate: func(c *Config) { c.Upload.MaxBytes = 0 }, wantErr: true},
		{name: "zero corner threshold", mutate: func(c *Config) { c.Removal.CornerThreshold = 0 }, wantErr: true},
		{name: "brightness out of range", mutate: func(c *Config) { c.Removal.BrightnessThreshold = 300 }, wantErr: true},
		{name: "zero brightness threshold", mutate: func(c *Config) { c.Removal.BrightnessThreshold = 0 }, wantErr: true},
		{name: "negative brightness threshold", mutate: func(c *Config) { c.Removal.BrightnessThreshold = -1 }, wantErr: true},
		{name: "zero pixel limit", mutate: func(c *Config) { c.Removal.MaxPixels = 0 }, wantErr: true},
		{name: "zero burst", mutate: func(c *Config) { c.External.Burst = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(&c)
			err := c.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadClient(t *testing.T) {
	t.Setenv("BACKEND_URL", "http://backend:5002/")

	cfg, err := LoadClient()
	require.NoError(t, err)
	assert.Equal(t, "http://backend:5002", cfg.BackendURL)
	assert.Equal(t, 120*time.Second, cfg.Timeout)
}
