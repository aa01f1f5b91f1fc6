// Package config handles loam.toml machine configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"

	"github.com/loamvm/loam/heap"
	"github.com/loamvm/loam/machine"
)

// Config represents a loam.toml machine configuration.
type Config struct {
	Limits Limits `toml:"limits"`
	Memory Memory `toml:"memory"`
	Cache  Cache  `toml:"cache"`

	// Dir is the directory containing the loam.toml file (set at load time).
	Dir string `toml:"-"`
}

// Limits caps the work one evaluation may perform. Zero means unlimited.
type Limits struct {
	MaxSteps  uint64 `toml:"max-steps"`
	MaxFrames uint64 `toml:"max-frames"`
}

// Memory configures the simulated heap.
type Memory struct {
	SizeBytes   uint64 `toml:"size-bytes"`
	PointerSize uint64 `toml:"pointer-size"`
}

// Cache configures the portable fault cache.
type Cache struct {
	Path string `toml:"path"`
}

// Default returns the configuration used when no loam.toml exists: no
// step, frame, or memory budget, and an 8-byte machine word.
func Default() *Config {
	return &Config{Memory: Memory{PointerSize: 8}}
}

// Load parses a loam.toml file from the given directory.
func Load(dir string) (*Config, error) {
	path := filepath.Join(dir, "loam.toml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("cannot read %s: %w", path, err)
	}

	var c Config
	if err := toml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("parse error in %s: %w", path, err)
	}

	c.Dir, err = filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("cannot resolve path %s: %w", dir, err)
	}

	// Defaults
	if c.Memory.PointerSize == 0 {
		c.Memory.PointerSize = 8
	}

	if err := c.validate(); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", path, err)
	}

	return &c, nil
}

// FindAndLoad walks up from startDir to find a loam.toml file, then loads
// and returns the configuration. Returns nil if no loam.toml is found.
func FindAndLoad(startDir string) (*Config, error) {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return nil, err
	}

	for {
		path := filepath.Join(dir, "loam.toml")
		if _, err := os.Stat(path); err == nil {
			return Load(dir)
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// Reached root
			return nil, nil
		}
		dir = parent
	}
}

func (c *Config) validate() error {
	if s := c.Memory.PointerSize; s != 4 && s != 8 {
		return fmt.Errorf("pointer-size must be 4 or 8, got %d", s)
	}
	return nil
}

// MachineLimits returns the step and frame budgets for machine.New.
func (c *Config) MachineLimits() machine.Limits {
	return machine.Limits{
		MaxSteps:  c.Limits.MaxSteps,
		MaxFrames: c.Limits.MaxFrames,
	}
}

// HeapConfig returns the heap geometry for heap.New.
func (c *Config) HeapConfig() heap.Config {
	return heap.Config{
		SizeBytes:   c.Memory.SizeBytes,
		PointerSize: c.Memory.PointerSize,
	}
}

// CachePath returns the fault cache location: the configured path, or
// .loam/faults.db next to the loam.toml. Relative paths resolve against
// Dir.
func (c *Config) CachePath() string {
	p := c.Cache.Path
	if p == "" {
		p = filepath.Join(".loam", "faults.db")
	}
	if !filepath.IsAbs(p) && c.Dir != "" {
		p = filepath.Join(c.Dir, p)
	}
	return p
}
