// Package config loads user settings from defaults, an optional YAML file and
// EXPENSES_ environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env/v2"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
	"github.com/rs/zerolog"
)

// EnvPrefix prefixes every environment variable read by Load.
const EnvPrefix = "EXPENSES_"

// Config is the resolved user configuration.
type Config struct {
	File     string `koanf:"file"`
	Currency string `koanf:"currency"`
	Theme    string `koanf:"theme"`
	LogLevel string `koanf:"log_level"`
	Serve    Serve  `koanf:"serve"`
}

// Serve configures the local JSON API.
type Serve struct {
	Host string `koanf:"host"`
	Port int    `koanf:"port"`
}

// Defaults returns the built-in configuration.
func Defaults() Config {
	return Config{
		File:     "expenses.json",
		Currency: "₦",
		Theme:    "dark",
		LogLevel: "warn",
		Serve: Serve{
			Host: "127.0.0.1",
			Port: 8080,
		},
	}
}

// DefaultPath returns the config file location under the user config
// directory, or "" when that directory cannot be determined.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "expenses", "config.yaml")
}

// Load resolves the configuration. A missing file at path is not an error.
func Load(path string, logger zerolog.Logger) (Config, error) {
	k := koanf.New(".")

	if err := k.Load(structs.Provider(Defaults(), "koanf"), nil); err != nil {
		return Config{}, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return Config{}, fmt.Errorf("failed to load config file %s: %w", path, err)
			}
			logger.Debug().Str("path", path).Msg("config file not found, using defaults and environment")
		} else {
			logger.Debug().Str("path", path).Msg("loaded config file")
		}
	}

	err := k.Load(env.Provider(".", env.Opt{
		Prefix: EnvPrefix,
		TransformFunc: func(k, v string) (string, any) {
			return envKey(k), v
		},
	}), nil)
	if err != nil {
		return Config{}, fmt.Errorf("failed to load environment: %w", err)
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// envKey maps an environment variable to a config key. Only the serve
// section nests, so EXPENSES_SERVE_HOST becomes serve.host while
// EXPENSES_LOG_LEVEL stays log_level.
func envKey(k string) string {
	k = strings.ToLower(strings.TrimPrefix(k, EnvPrefix))
	if rest, ok := strings.CutPrefix(k, "serve_"); ok {
		return "serve." + rest
	}
	return k
}

// Set rewrites a single key in the config file at path, keeping every other
// key already present in it. The file and its directory are created when
// missing.
func Set(path, key string, value any) error {
	if path == "" {
		return errors.New("no config file location available")
	}

	k := koanf.New(".")
	if err := k.Load(file.Provider(path), yaml.Parser()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := k.Set(key, value); err != nil {
		return err
	}

	data, err := k.Marshal(yaml.Parser())
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".config-*.yaml")
	if err != nil {
		return err
	}
	defer func() { _ = os.Remove(tmp.Name()) }()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}

// SaveTheme persists the theme choice.
func SaveTheme(path, theme string) error {
	return Set(path, "theme", theme)
}
