// Package seed loads the initial desktop forest and inbox from YAML or
// TOML. A built-in demo seed is used when no file is given.
package seed

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/mail"
	"github.com/goccy/go-yaml"
	"github.com/pelletier/go-toml/v2"
)

//go:embed default.yaml
var defaultSeed []byte

// Format is a seed file encoding
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// ErrUnknownFormat is returned for unsupported file extensions
var ErrUnknownFormat = errors.New("unknown seed format")

// Seed is the initial shell state
type Seed struct {
	Desktop desktop.Forest `yaml:"desktop" toml:"desktop"`
	Emails  []mail.Email   `yaml:"emails" toml:"emails"`
}

// Default returns the built-in demo seed
func Default() (*Seed, error) {
	return Parse(defaultSeed, FormatYAML)
}

// Load reads path, choosing the decoder from its extension. An empty path
// loads the built-in seed.
func Load(path string) (*Seed, error) {
	if path == "" {
		return Default()
	}

	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read seed: %w", err)
	}

	s, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return s, nil
}

// FormatOf maps a file extension to a format
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, filepath.Ext(path))
	}
}

// Parse decodes and validates a seed
func Parse(data []byte, format Format) (*Seed, error) {
	var s Seed

	var err error
	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &s)
	case FormatTOML:
		err = toml.Unmarshal(data, &s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	if err != nil {
		return nil, fmt.Errorf("decode %s seed: %w", format, err)
	}

	if err := s.Validate(); err != nil {
		return nil, err
	}
	return &s, nil
}

// Validate checks the forest and the inbox
func (s *Seed) Validate() error {
	if err := desktop.Validate(s.Desktop); err != nil {
		return fmt.Errorf("invalid desktop: %w", err)
	}

	seen := make(map[int]bool, len(s.Emails))
	for _, e := range s.Emails {
		if seen[e.ID] {
			return fmt.Errorf("invalid inbox: duplicate email id %d", e.ID)
		}
		seen[e.ID] = true
		if strings.TrimSpace(e.Subject) == "" {
			return fmt.Errorf("invalid inbox: email %d has no subject", e.ID)
		}
	}
	return nil
}

// Encode renders the seed in the given format
func (s *Seed) Encode(format Format) ([]byte, error) {
	switch format {
	case FormatYAML:
		return yaml.Marshal(s)
	case FormatTOML:
		return toml.Marshal(s)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}
