package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	// Server config
	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8000", cfg.Addr())
	assert.Equal(t, []string{"*"}, cfg.Server.CORSOrigins)

	// Inference config
	assert.Equal(t, BackendGemini, cfg.Inference.Backend)
	assert.Equal(t, "gemini-2.5-flash", cfg.Inference.Model)
	assert.Equal(t, 30*time.Second, cfg.Inference.Timeout)

	// Ink and capture
	assert.Equal(t, time.Second, cfg.Ink.Debounce)
	assert.Equal(t, CaptureAuto, cfg.Capture.Mode)

	// Rate limit config
	assert.Equal(t, 100, cfg.RateLimit.RequestsPerSecond)
	assert.True(t, cfg.RateLimit.Enabled)
}

func TestLoadMatchesDefault(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadWithEnvironmentVariables(t *testing.T) {
	envVars := map[string]string{
		"PORT":                  "9000",
		"CORS_ORIGINS":          "http://localhost:5173,http://localhost:3000",
		"INFERENCE_BACKEND":     "gateway",
		"INFERENCE_GATEWAY_URL": "http://gateway:8080",
		"INFERENCE_TIMEOUT":     "5s",
		"INK_DEBOUNCE":          "750ms",
		"CAPTURE_MODE":          "raster",
		"SEED_FILE":             "/etc/inkos/seed.toml",
		"LOG_LEVEL":             "debug",
		"RATE_LIMIT_ENABLED":    "false",
	}
	for key, value := range envVars {
		t.Setenv(key, value)
	}

	cfg, err := Load()
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, []string{"http://localhost:5173", "http://localhost:3000"}, cfg.Server.CORSOrigins)
	assert.Equal(t, BackendGateway, cfg.Inference.Backend)
	assert.Equal(t, 5*time.Second, cfg.Inference.Timeout)
	assert.Equal(t, 750*time.Millisecond, cfg.Ink.Debounce)
	assert.Equal(t, CaptureRaster, cfg.Capture.Mode)
	assert.Equal(t, "/etc/inkos/seed.toml", cfg.Seed.File)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestLoadRejectsBadDuration(t *testing.T) {
	t.Setenv("INK_DEBOUNCE", "soon")

	_, err := Load()
	assert.Error(t, err)

	cfg := LoadOrDefault()
	assert.Equal(t, time.Second, cfg.Ink.Debounce)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"gemini without key", func(c *Config) {}, "GEMINI_API_KEY"},
		{"gemini with key", func(c *Config) { c.Inference.APIKey = "k" }, ""},
		{"gateway without url", func(c *Config) { c.Inference.Backend = BackendGateway }, "INFERENCE_GATEWAY_URL"},
		{"scripted", func(c *Config) { c.Inference.Backend = BackendScripted }, ""},
		{"unknown backend", func(c *Config) { c.Inference.Backend = "openai" }, "unknown inference backend"},
		{"unknown capture", func(c *Config) {
			c.Inference.Backend = BackendScripted
			c.Capture.Mode = "webcam"
		}, "unknown capture mode"},
		{"zero debounce", func(c *Config) {
			c.Inference.Backend = BackendScripted
			c.Ink.Debounce = 0
		}, "INK_DEBOUNCE"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
