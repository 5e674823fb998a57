package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"

	"github.com/cleared-dev/ledger/internal/id"
	"github.com/cleared-dev/ledger/internal/model"
)

// FileName is the default config file name.
const FileName = "ledger.yaml"

// Config represents the top-level ledger.yaml configuration.
type Config struct {
	Ledger   LedgerConfig    `yaml:"ledger"`
	Accounts []AccountConfig `yaml:"accounts,omitempty"`
	Journals []string        `yaml:"journals"`
	Log      LogConfig       `yaml:"log"`
}

// LedgerConfig identifies the chart of accounts.
type LedgerConfig struct {
	Name     string       `yaml:"name"`
	Currency string       `yaml:"currency"` // ticker of a common currency
	Segment  id.SegmentID `yaml:"segment"`  // identifier segment for custom definitions
}

// AccountConfig declares a custom account. Parent names a standard account
// (key or display name) or a custom account declared earlier.
type AccountConfig struct {
	Name   string `yaml:"name"`
	Parent string `yaml:"parent"`
}

// LogConfig selects the logger; see logger.New.
type LogConfig struct {
	Mode  string `yaml:"mode"`
	Level string `yaml:"level"`
}

// Load reads a ledger.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new ledger.
func Default(name string) *Config {
	return &Config{
		Ledger: LedgerConfig{
			Name:     name,
			Currency: model.USD.Ticker,
		},
		Journals: []string{},
		Log: LogConfig{
			Mode:  "quiet",
			Level: "info",
		},
	}
}

// Currency resolves the configured ticker.
func (c *Config) Currency() (model.Currency, error) {
	return model.CommonCurrency(c.Ledger.Currency)
}

// JournalPaths returns the journal paths, relative ones resolved against dir.
func (c *Config) JournalPaths(dir string) []string {
	paths := make([]string, len(c.Journals))
	for i, p := range c.Journals {
		if !filepath.IsAbs(p) {
			p = filepath.Join(dir, p)
		}
		paths[i] = p
	}
	return paths
}

// Validate reports every problem found, combined into one error.
func (c *Config) Validate() error {
	var err error
	if _, cerr := c.Currency(); cerr != nil {
		err = multierr.Append(err, cerr)
	}

	seen := make(map[string]bool)
	for i, a := range c.Accounts {
		name := strings.TrimSpace(a.Name)
		if name == "" {
			err = multierr.Append(err, fmt.Errorf("accounts[%d]: empty name", i))
			continue
		}
		if strings.TrimSpace(a.Parent) == "" {
			err = multierr.Append(err, fmt.Errorf("accounts[%d] %q: empty parent", i, name))
		}
		if seen[name] {
			err = multierr.Append(err, fmt.Errorf("accounts[%d]: duplicate name %q", i, name))
		}
		seen[name] = true
	}

	for i, p := range c.Journals {
		if strings.TrimSpace(p) == "" {
			err = multierr.Append(err, fmt.Errorf("journals[%d]: empty path", i))
		}
	}

	switch c.Log.Mode {
	case "", "quiet", "debug", "production":
	default:
		err = multierr.Append(err, fmt.Errorf("log.mode: unknown mode %q", c.Log.Mode))
	}
	return err
}
