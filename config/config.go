package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"

	"tally/market"
)

// Config represents the complete tool configuration.
type Config struct {
	Ledger      LedgerConfig      `json:"ledger" yaml:"ledger"`
	Logging     LoggingConfig     `json:"logging" yaml:"logging"`
	Instruments InstrumentsConfig `json:"instruments" yaml:"instruments"`
}

// LedgerConfig selects and parameterizes the row store.
type LedgerConfig struct {
	Store         string `json:"store" yaml:"store"` // "csv" or "sqlite"
	DBPath        string `json:"db_path,omitempty" yaml:"db_path,omitempty"`
	IntentsFile   string `json:"intents_file,omitempty" yaml:"intents_file,omitempty"`
	SummariesFile string `json:"summaries_file,omitempty" yaml:"summaries_file,omitempty"`
}

// LoggingConfig contains logging parameters.
type LoggingConfig struct {
	Level  string `json:"level" yaml:"level"` // debug|info|warn|error
	Pretty bool   `json:"pretty" yaml:"pretty"`
}

// InstrumentsConfig extends the canonical contract tables. This is the only
// supported way to add an instrument or a stream-prefix alias; multipliers
// are never guessed at runtime.
type InstrumentsConfig struct {
	Multipliers map[string]float64 `json:"multipliers,omitempty" yaml:"multipliers,omitempty"`
	Aliases     map[string]string  `json:"aliases,omitempty" yaml:"aliases,omitempty"`
}

// LoadFromFile loads configuration from a file (JSON or YAML based on
// content; YAML is tried first).
func LoadFromFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := Default()

	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		err = json.Unmarshal(data, cfg)
		if err != nil {
			return nil, fmt.Errorf("parse config (tried YAML and JSON): %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// SaveToFile saves configuration to a file (JSON or YAML based on extension).
func (c *Config) SaveToFile(path string) error {
	var data []byte
	var err error

	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		data, err = yaml.Marshal(c)
	} else {
		data, err = json.MarshalIndent(c, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config file: %w", err)
	}

	return nil
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if c.Ledger.Store != "csv" && c.Ledger.Store != "sqlite" {
		return fmt.Errorf("ledger.store must be 'csv' or 'sqlite'")
	}
	if c.Ledger.Store == "csv" && (c.Ledger.IntentsFile == "" || c.Ledger.SummariesFile == "") {
		return fmt.Errorf("ledger intents_file and summaries_file required for CSV store")
	}
	if c.Ledger.Store == "sqlite" && c.Ledger.DBPath == "" {
		return fmt.Errorf("ledger db_path required for SQLite store")
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level must be one of debug|info|warn|error")
	}
	for code, mult := range c.Instruments.Multipliers {
		if mult <= 0 {
			return fmt.Errorf("instruments.multipliers[%s] must be positive", code)
		}
	}
	return nil
}

// Default returns a configuration with sensible defaults.
func Default() *Config {
	return &Config{
		Ledger: LedgerConfig{
			Store:  "sqlite",
			DBPath: "./tally.sqlite",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// MultiplierTable merges the configured extra multipliers over the canonical
// table. Config entries win, so a custom deployment can also re-price a
// canonical code.
func (c *Config) MultiplierTable() map[string]decimal.Decimal {
	table := market.DefaultMultipliers()
	for code, mult := range c.Instruments.Multipliers {
		table[strings.ToUpper(code)] = decimal.NewFromFloat(mult)
	}
	return table
}

// AliasTable merges the configured aliases over the canonical alias table.
func (c *Config) AliasTable() map[string]string {
	table := market.DefaultAliases()
	for from, to := range c.Instruments.Aliases {
		table[strings.ToUpper(from)] = strings.ToUpper(to)
	}
	return table
}
