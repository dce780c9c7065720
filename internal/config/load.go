package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	serrors "git.home.luguber.info/inful/sitecfg/internal/errors"
)

// Format is the syntax of a configuration file.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
)

// FormatFor infers the format from a file extension. Anything that is not
// .toml is read as YAML.
func FormatFor(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		return FormatTOML
	}
	return FormatYAML
}

var supportedVersion = regexp.MustCompile(`^1(\.[0-9]+)?$`)

// Load reads, normalizes, defaults and validates the configuration at path.
// Dotenv files in the working directory are loaded first and ${VAR}
// references in the file are expanded from the environment.
func Load(path string) (*Config, error) {
	if err := loadEnvFiles(); err != nil {
		slog.Warn("Failed to load .env file", slog.String("error", err.Error()))
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, serrors.ConfigNotFound(path)
		}
		return nil, serrors.ConfigInvalid(path, err)
	}

	cfg, res, err := Parse([]byte(os.ExpandEnv(string(data))), FormatFor(path))
	if err != nil {
		return nil, serrors.ConfigInvalid(path, err)
	}
	for _, w := range res.Warnings {
		slog.Warn("Config normalization", slog.String("path", path), slog.String("detail", w))
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, serrors.ConfigInvalid(path, err)
	}
	cfg.baseDir = filepath.Dir(abs)
	return cfg, nil
}

// Parse decodes data without touching the environment or filesystem. It
// returns the normalization warnings alongside the configuration.
func Parse(data []byte, format Format) (*Config, *NormalizationResult, error) {
	var cfg Config
	if err := decode(data, format, &cfg); err != nil {
		return nil, nil, err
	}

	if cfg.Version == "" {
		return nil, nil, fmt.Errorf("version is required (expected 1)")
	}
	if !supportedVersion.MatchString(strings.TrimSpace(cfg.Version)) {
		return nil, nil, fmt.Errorf("unsupported configuration version: %s (expected 1.x)", cfg.Version)
	}

	res, err := NormalizeConfig(&cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("normalize: %w", err)
	}
	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, nil, fmt.Errorf("failed to apply defaults: %w", err)
	}
	if err := ValidateConfig(&cfg); err != nil {
		return nil, nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return &cfg, res, nil
}

// decode reads YAML directly. TOML is decoded into a generic tree and
// re-encoded as YAML so both formats share the sidebar decoders.
func decode(data []byte, format Format, out *Config) error {
	if format == FormatTOML {
		var tree map[string]any
		if err := toml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to parse toml: %w", err)
		}
		y, err := yaml.Marshal(tree)
		if err != nil {
			return fmt.Errorf("failed to convert toml: %w", err)
		}
		data = y
	}
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(out); err != nil {
		if errors.Is(err, io.EOF) {
			return nil
		}
		return fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return nil
}
