// Package config defines the application configuration structures and loads
// them from YAML, including optional overrides of the domain tables.
package config

import (
	"fmt"

	"github.com/iwvelando/refrigerant-blend/internal/blend"
	"github.com/iwvelando/refrigerant-blend/pkg/constants"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for refrigerant-blend. Every section
// is optional; zero values fall back to built-in defaults.
type Configuration struct {
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
	Server  ServerConfig  `yaml:"server,omitempty"`
	Blend   BlendConfig   `yaml:"blend,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // json, pretty
}

// ServerConfig holds runtime parameters for the HTTP API.
type ServerConfig struct {
	Address      string `yaml:"address,omitempty"`
	MaxBodyBytes int64  `yaml:"maxBodyBytes,omitempty"`
}

// BlendConfig optionally overrides the built-in domain tables.
type BlendConfig struct {
	RefuelCap float64                `yaml:"refuelCap,omitempty"`
	Prices    map[string]PriceConfig `yaml:"prices,omitempty"`
	Ratios    map[string]float64     `yaml:"ratios,omitempty"`
}

// PriceConfig overrides the unit costs of one element.
type PriceConfig struct {
	Extraction float64 `yaml:"extraction"`
	Addition   float64 `yaml:"addition"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	viper.SetConfigFile(configPath)
	viper.AutomaticEnv()

	viper.SetConfigType("yml")

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	var configuration Configuration
	err := viper.Unmarshal(&configuration)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	return &configuration, nil
}

// Tables resolves the configured domain tables: the canonical defaults with
// any overrides from the blend section applied, validated as a whole.
func (c *Configuration) Tables() (blend.Tables, error) {
	tables := blend.DefaultTables()

	if c.Blend.RefuelCap != 0 {
		tables.RefuelCap = c.Blend.RefuelCap
	}
	for name, price := range c.Blend.Prices {
		e, err := blend.ParseElement(name)
		if err != nil {
			return blend.Tables{}, fmt.Errorf("blend.prices: %w", err)
		}
		tables.Prices[e] = blend.Price{Extraction: price.Extraction, Addition: price.Addition}
	}
	for name, ratio := range c.Blend.Ratios {
		e, err := blend.ParseElement(name)
		if err != nil {
			return blend.Tables{}, fmt.Errorf("blend.ratios: %w", err)
		}
		tables.Ratios[e] = ratio
	}

	if err := tables.Validate(); err != nil {
		return blend.Tables{}, err
	}
	return tables, nil
}

// ServerAddress returns the configured listen address or the default.
func (c *Configuration) ServerAddress() string {
	if c.Server.Address != "" {
		return c.Server.Address
	}
	return constants.DefaultServerAddress
}

// ServerMaxBodyBytes returns the configured body limit or the default.
func (c *Configuration) ServerMaxBodyBytes() int64 {
	if c.Server.MaxBodyBytes > 0 {
		return c.Server.MaxBodyBytes
	}
	return constants.DefaultMaxBodyBytes
}
