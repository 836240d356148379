package config

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"
)

type Config struct {
	ListenAddr string `yaml:"listen_addr" env:"LEDGER_LISTEN_ADDR"`
	DataDir    string `yaml:"data_dir" env:"LEDGER_DATA_DIR"`

	// Storage selects the persistence gateway: "file" (JSON snapshot) or
	// "sqlite".
	Storage string `yaml:"storage" env:"LEDGER_STORAGE"`

	// CurrencySuffix trails formatted amounts, e.g. "SAR".
	CurrencySuffix string `yaml:"currency_suffix" env:"LEDGER_CURRENCY_SUFFIX"`

	// DefaultCountryCode is prepended to locally entered phone numbers.
	DefaultCountryCode string `yaml:"default_country_code" env:"LEDGER_COUNTRY_CODE"`
}

func (c *Config) ApplyDefaults() {
	if c.ListenAddr == "" {
		c.ListenAddr = ":8417"
	}
	if c.DataDir == "" {
		c.DataDir = "data"
	}
	if c.Storage == "" {
		c.Storage = "file"
	}
	if c.CurrencySuffix == "" {
		c.CurrencySuffix = "SAR"
	}
	if c.DefaultCountryCode == "" {
		c.DefaultCountryCode = "+966"
	}
}

func (c *Config) Validate() error {
	switch c.Storage {
	case "file", "sqlite":
		return nil
	}
	return fmt.Errorf("unknown storage backend %q", c.Storage)
}

// Load reads the YAML config, layers environment overrides on top, then
// fills defaults. A missing file is fine; env and defaults still apply.
func Load(path string) (*Config, error) {
	var c Config

	if path != "" {
		b, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, err
		}
		if err == nil {
			if err := yaml.Unmarshal(b, &c); err != nil {
				return nil, fmt.Errorf("parse config: %w", err)
			}
		}
	}

	if err := env.Parse(&c); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}

	c.ApplyDefaults()
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}
