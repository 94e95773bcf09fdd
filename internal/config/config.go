package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Storage struct {
		Driver string `yaml:"driver" toml:"driver"` // file or sqlite
		Path   string `yaml:"path" toml:"path"`
	} `yaml:"storage" toml:"storage"`
	Graph struct {
		Inherit bool   `yaml:"inherit" toml:"inherit"`
		Current string `yaml:"current" toml:"current"` // stored name of the data graph
		Query   string `yaml:"query" toml:"query"`     // stored name of the query graph
	} `yaml:"graph" toml:"graph"`
	Log struct {
		Format string `yaml:"format" toml:"format"`
		Level  string `yaml:"level" toml:"level"`
	} `yaml:"log" toml:"log"`
	Render struct {
		Format string `yaml:"format" toml:"format"` // text or mermaid
	} `yaml:"render" toml:"render"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	var cfg Config
	cfg.Storage.Driver = "file"
	cfg.Storage.Path = ".kgraph"
	cfg.Graph.Current = "current"
	cfg.Graph.Query = "query"
	cfg.Log.Format = "text"
	cfg.Log.Level = "warn"
	cfg.Render.Format = "text"
	return &cfg
}

// LoadConfig reads path over the defaults, then applies KGRAPH_* environment
// overrides. Files ending in .toml are decoded as TOML, anything else as YAML.
// A missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	// 1. Load .env if exists
	_ = godotenv.Load()

	cfg := Default()

	// 2. Load config file
	if path != "" {
		file, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := decode(path, file, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
			}
		}
	}

	// 3. Override with Environment Variables if present
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func decode(path string, data []byte, cfg *Config) error {
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		_, err := toml.Decode(string(data), cfg)
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

func applyEnv(cfg *Config) error {
	if v := os.Getenv("KGRAPH_STORAGE_DRIVER"); v != "" {
		cfg.Storage.Driver = v
	}
	if v := os.Getenv("KGRAPH_STORAGE_PATH"); v != "" {
		cfg.Storage.Path = v
	}
	if v := os.Getenv("KGRAPH_INHERIT"); v != "" {
		on, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("KGRAPH_INHERIT: %w", err)
		}
		cfg.Graph.Inherit = on
	}
	if v := os.Getenv("KGRAPH_LOG_FORMAT"); v != "" {
		cfg.Log.Format = v
	}
	if v := os.Getenv("KGRAPH_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("KGRAPH_RENDER_FORMAT"); v != "" {
		cfg.Render.Format = v
	}
	return nil
}
