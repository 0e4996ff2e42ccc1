// Package config loads the project-level .orrery.yml file. Values are
// unmarshaled over the defaults, so a partial file overrides only what it
// names.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// FileName is the conventional config file name at the repository root.
const FileName = ".orrery.yml"

type Config struct {
	Scan   ScanConfig   `yaml:"scan"`
	Engine EngineConfig `yaml:"engine"`
	Output OutputConfig `yaml:"output"`
	Store  StoreConfig  `yaml:"store"`
	Watch  WatchConfig  `yaml:"watch"`
}

type ScanConfig struct {
	// MaxFileSize caps content reads in bytes. Zero selects the scanner
	// default.
	MaxFileSize int64 `yaml:"max_file_size"`
	// Excludes are glob patterns dropped from the scan.
	Excludes []string `yaml:"excludes"`
}

type EngineConfig struct {
	// Languages restricts analysis when non-empty.
	Languages []string `yaml:"languages"`
	// Workers caps analysis concurrency. Zero selects NumCPU.
	Workers int `yaml:"workers"`
	// Serial disables the parallel pipeline.
	Serial bool `yaml:"serial"`
	// ResolverCacheSize bounds the resolution memo. Zero selects the
	// default.
	ResolverCacheSize int `yaml:"resolver_cache_size"`
}

type OutputConfig struct {
	// Format is the default output format for commands that render the
	// graph.
	Format string `yaml:"format"`
}

type StoreConfig struct {
	// Path is the snapshot database location, relative to the repository
	// root unless absolute.
	Path string `yaml:"path"`
}

type WatchConfig struct {
	// Debounce is a Go duration string such as "250ms". Empty selects the
	// watcher default.
	Debounce string `yaml:"debounce"`
}

// Default returns the configuration used when no file is present.
func Default() *Config {
	return &Config{
		Output: OutputConfig{Format: "text"},
		Store:  StoreConfig{Path: ".orrery.db"},
	}
}

// Load reads the file at path over the defaults. A missing file is not an
// error — the defaults are returned unchanged.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	return cfg, nil
}

// FromDir loads dir/.orrery.yml.
func FromDir(dir string) (*Config, error) {
	return Load(filepath.Join(dir, FileName))
}
