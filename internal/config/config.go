// Package config loads and validates the optional .foldbatch YAML file.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// FileName is the dotfile read from the working directory or an ancestor.
const FileName = ".foldbatch"

// Default values used when the dotfile omits a setting.
const (
	DefaultTimeout    = 2 * time.Hour // prediction jobs are long
	DefaultMaxOutput  = 1 << 20       // 1 MB per stream
	DefaultSplitDir   = "SUBMONO"
	DefaultExt        = "fasta"
	DefaultResultsDir = "predictions"
)

// Config holds the parsed .foldbatch configuration. All fields are
// optional; zero values represent defaults.
type Config struct {
	Version       int         `yaml:"version"`
	RawTimeout    string      `yaml:"timeout"`     // e.g. "2h", "45m"
	RawMaxOutput  int         `yaml:"max_output"`  // bytes per stream
	Command       []string    `yaml:"command"`     // external prediction argv template
	RawResultsDir string      `yaml:"results_dir"` // per-sequence prediction output parent
	Split         SplitConfig `yaml:"split"`
}

// SplitConfig controls where and how split files are written.
type SplitConfig struct {
	Dir  string `yaml:"dir"`  // output subdirectory for split files
	Ext  string `yaml:"ext"`  // file extension without the dot
	Wrap int    `yaml:"wrap"` // sequence wrap width; 0 = single line
}

// Timeout returns the configured per-prediction timeout or the default.
func (c *Config) Timeout() time.Duration {
	if c.RawTimeout != "" {
		d, err := time.ParseDuration(c.RawTimeout)
		if err == nil && d > 0 {
			return d
		}
	}
	return DefaultTimeout
}

// MaxOutputBytes returns the configured output cap or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// SplitDir returns the configured split directory or the default.
func (c *Config) SplitDir() string {
	if c.Split.Dir != "" {
		return c.Split.Dir
	}
	return DefaultSplitDir
}

// SplitExt returns the configured split file extension or the default.
func (c *Config) SplitExt() string {
	if c.Split.Ext != "" {
		return c.Split.Ext
	}
	return DefaultExt
}

// ResultsDir returns the configured results parent or the default.
func (c *Config) ResultsDir() string {
	if c.RawResultsDir != "" {
		return c.RawResultsDir
	}
	return DefaultResultsDir
}

// Load reads the .foldbatch file found by walking upward from dir. If no
// file exists anywhere on the path, a default Config is returned.
func Load(dir string) (*Config, error) {
	path, ok, err := find(dir)
	if err != nil {
		return nil, err
	}
	if !ok {
		return &Config{}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", FileName, err)
	}
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return cfg, nil
}

// find walks upward from dir looking for the dotfile.
func find(dir string) (string, bool, error) {
	dir, err := filepath.Abs(dir)
	if err != nil {
		return "", false, err
	}
	for {
		path := filepath.Join(dir, FileName)
		if _, err := os.Stat(path); err == nil {
			return path, true, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false, nil
		}
		dir = parent
	}
}
