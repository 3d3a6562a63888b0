package config

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"
	"github.com/sethvargo/go-envconfig"
)

// EnvPrefix is prepended to every environment override (e.g. CLIPSTACK_WORKERS).
const EnvPrefix = "CLIPSTACK_"

// projectConfigName is picked up from the working directory when no
// explicit --config path is given.
const projectConfigName = "clipstack.toml"

// Load overlays a TOML file onto cfg. An explicit path that does not exist
// is an error; with an empty path, ./clipstack.toml is used when present.
// It returns the resolved path and whether a file was read.
func Load(cfg *Config, path string) (string, bool, error) {
	resolved, exists, err := resolveConfigPath(path)
	if err != nil {
		return "", false, err
	}
	if !exists {
		if path != "" {
			return resolved, false, fmt.Errorf("config file not found: %s", resolved)
		}
		return "", false, nil
	}

	file, err := os.Open(resolved)
	if err != nil {
		return "", false, fmt.Errorf("open config: %w", err)
	}
	defer file.Close()

	decoder := toml.NewDecoder(file)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(cfg); err != nil {
		return "", false, fmt.Errorf("parse config %s: %w", resolved, err)
	}
	return resolved, true, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path == "" {
		path = projectConfigName
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", false, fmt.Errorf("resolve config path: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return abs, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	if info.IsDir() {
		return "", false, fmt.Errorf("config path is a directory: %s", abs)
	}
	return abs, true, nil
}

// ApplyEnv overlays CLIPSTACK_* environment variables onto cfg.
func ApplyEnv(ctx context.Context, cfg *Config) error {
	return ApplyEnvWith(ctx, cfg, envconfig.OsLookuper())
}

// ApplyEnvWith is ApplyEnv with an explicit lookuper, used by tests.
func ApplyEnvWith(ctx context.Context, cfg *Config, lookuper envconfig.Lookuper) error {
	err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   cfg,
		Lookuper: envconfig.PrefixLookuper(EnvPrefix, lookuper),
	})
	if err != nil {
		return fmt.Errorf("environment overrides: %w", err)
	}
	return nil
}
