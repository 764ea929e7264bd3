package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// Inference backends
const (
	BackendGemini   = "gemini"
	BackendGateway  = "gateway"
	BackendScripted = "scripted"
)

// Capture modes
const (
	CaptureFrame  = "frame"
	CaptureRaster = "raster"
	CaptureAuto   = "auto"
	CaptureNone   = "none"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Inference InferenceConfig
	Ink       InkConfig
	Capture   CaptureConfig
	Seed      SeedConfig
	Logging   LogConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	CORSOrigins     []string      `envconfig:"CORS_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// InferenceConfig selects and tunes the remote model.
type InferenceConfig struct {
	Backend         string        `envconfig:"INFERENCE_BACKEND" default:"gemini"`
	APIKey          string        `envconfig:"GEMINI_API_KEY"`
	Model           string        `envconfig:"INFERENCE_MODEL" default:"gemini-2.5-flash"`
	WallpaperModel  string        `envconfig:"INFERENCE_WALLPAPER_MODEL"`
	GatewayURL      string        `envconfig:"INFERENCE_GATEWAY_URL"`
	Timeout         time.Duration `envconfig:"INFERENCE_TIMEOUT" default:"30s"`
	BreakerFailures uint32        `envconfig:"INFERENCE_BREAKER_FAILURES" default:"5"`
	BreakerCooldown time.Duration `envconfig:"INFERENCE_BREAKER_COOLDOWN" default:"30s"`
}

// InkConfig tunes stroke batching.
type InkConfig struct {
	Debounce  time.Duration `envconfig:"INK_DEBOUNCE" default:"1s"`
	QueueSize int           `envconfig:"INK_QUEUE_SIZE" default:"4"`
	Geometry  bool          `envconfig:"INK_GEOMETRY" default:"true"`
}

// CaptureConfig selects how the screen image is obtained.
type CaptureConfig struct {
	Mode         string        `envconfig:"CAPTURE_MODE" default:"auto"`
	FrameMaxAge  time.Duration `envconfig:"CAPTURE_FRAME_MAX_AGE" default:"10s"`
	RasterWidth  int           `envconfig:"CAPTURE_RASTER_WIDTH" default:"1280"`
	RasterHeight int           `envconfig:"CAPTURE_RASTER_HEIGHT" default:"800"`
}

// SeedConfig points at the initial desktop and inbox.
type SeedConfig struct {
	File string `envconfig:"SEED_FILE"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level       string `envconfig:"LOG_LEVEL" default:"info"`
	Development bool   `envconfig:"LOG_DEV" default:"false"`
}

// RateLimitConfig holds rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond int  `envconfig:"RATE_LIMIT_RPS" default:"100"`
	Burst             int  `envconfig:"RATE_LIMIT_BURST" default:"200"`
	Enabled           bool `envconfig:"RATE_LIMIT_ENABLED" default:"true"`
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}

// LoadOrDefault loads configuration from environment or returns default.
func LoadOrDefault() *Config {
	cfg, err := Load()
	if err != nil {
		return Default()
	}
	return cfg
}

// Default returns default configuration.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:            "8000",
			Host:            "0.0.0.0",
			CORSOrigins:     []string{"*"},
			ShutdownTimeout: 10 * time.Second,
		},
		Inference: InferenceConfig{
			Backend:         BackendGemini,
			Model:           "gemini-2.5-flash",
			Timeout:         30 * time.Second,
			BreakerFailures: 5,
			BreakerCooldown: 30 * time.Second,
		},
		Ink: InkConfig{
			Debounce:  time.Second,
			QueueSize: 4,
			Geometry:  true,
		},
		Capture: CaptureConfig{
			Mode:         CaptureAuto,
			FrameMaxAge:  10 * time.Second,
			RasterWidth:  1280,
			RasterHeight: 800,
		},
		Logging: LogConfig{
			Level: "info",
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: 100,
			Burst:             200,
			Enabled:           true,
		},
	}
}

// Validate checks cross-field constraints that envconfig cannot express.
func (c *Config) Validate() error {
	var errs []error

	switch c.Inference.Backend {
	case BackendGemini:
		if c.Inference.APIKey == "" {
			errs = append(errs, errors.New("GEMINI_API_KEY is required for the gemini backend"))
		}
	case BackendGateway:
		if c.Inference.GatewayURL == "" {
			errs = append(errs, errors.New("INFERENCE_GATEWAY_URL is required for the gateway backend"))
		}
	case BackendScripted:
	default:
		errs = append(errs, fmt.Errorf("unknown inference backend %q", c.Inference.Backend))
	}

	switch c.Capture.Mode {
	case CaptureFrame, CaptureRaster, CaptureAuto, CaptureNone:
	default:
		errs = append(errs, fmt.Errorf("unknown capture mode %q", c.Capture.Mode))
	}

	if c.Inference.Timeout <= 0 {
		errs = append(errs, errors.New("INFERENCE_TIMEOUT must be positive"))
	}
	if c.Ink.Debounce <= 0 {
		errs = append(errs, errors.New("INK_DEBOUNCE must be positive"))
	}
	if c.Ink.QueueSize <= 0 {
		errs = append(errs, errors.New("INK_QUEUE_SIZE must be positive"))
	}
	if c.Capture.RasterWidth <= 0 || c.Capture.RasterHeight <= 0 {
		errs = append(errs, errors.New("raster dimensions must be positive"))
	}
	if c.RateLimit.Enabled && (c.RateLimit.RequestsPerSecond <= 0 || c.RateLimit.Burst <= 0) {
		errs = append(errs, errors.New("rate limit values must be positive"))
	}

	return errors.Join(errs...)
}

// Addr returns the listen address.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + c.Server.Port
}
