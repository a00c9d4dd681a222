// Package config loads the optional datumcheck configuration file, which
// supplies defaults for the CLI flags.
package config

import (
	"fmt"

	"github.com/spf13/viper"
)

// Config represents the datumcheck configuration
type Config struct {
	Output  OutputConfig `mapstructure:"output"`
	Prelude bool         `mapstructure:"prelude"`
}

// OutputConfig controls how the validation report is rendered
type OutputConfig struct {
	JSON    bool `mapstructure:"json"`
	NoColor bool `mapstructure:"no_color"`
}

// Load reads datumcheck.yml or datumcheck.yaml from the working directory.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()

	// Set defaults
	v.SetDefault("output.json", false)
	v.SetDefault("output.no_color", false)
	v.SetDefault("prelude", true)

	// Set config name and paths
	v.SetConfigName("datumcheck")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Enable environment variable support
	v.AutomaticEnv()

	// Read config file if it exists
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found - use defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &config, nil
}
