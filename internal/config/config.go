// Package config defines the data structures related to configuration and
// includes functions for loading and checking the config.
package config

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/guillaumekey/yacht-calculate/internal/estimator"
	"github.com/guillaumekey/yacht-calculate/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for yacht-calculate.
type Configuration struct {
	Yachts  []Yacht       `yaml:"yachts"`
	Logging LoggingConfig `yaml:"logging,omitempty"`
	Output  OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, xlsx
	File   string `yaml:"file,omitempty"`   // required for xlsx, stdout otherwise
}

// Yacht describes one vessel to estimate.
type Yacht struct {
	Name        string  `yaml:"name"`
	Active      bool    `yaml:"active"`
	Schedule    string  `yaml:"schedule,omitempty"`
	Value       float64 `yaml:"value"`
	Length      float64 `yaml:"length"`
	CrewMembers int     `yaml:"crewMembers,omitempty"`
}

// Profile returns the estimator inputs of the yacht.
func (y Yacht) Profile() estimator.Profile {
	return estimator.Profile{Value: y.Value, Length: y.Length, CrewMembers: y.CrewMembers}
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := viper.New()
	v.SetConfigFile(configPath)
	v.SetConfigType("yml")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config data, %s", err)
	}

	return decode(v)
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}
	return &configuration, nil
}

// ResolveSchedules checks that every yacht names a known schedule.
func (c *Configuration) ResolveSchedules() error {
	var errs []error
	for _, yacht := range c.Yachts {
		if _, err := estimator.Lookup(yacht.Schedule); err != nil {
			errs = append(errs, fmt.Errorf("yacht %q: %w", yacht.Name, err))
		}
	}
	return errors.Join(errs...)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	seen := make(map[string]bool)
	active := 0
	for _, yacht := range c.Yachts {
		name := strings.TrimSpace(yacht.Name)
		if name == "" {
			warnings = append(warnings, "Yacht without a name")
		} else if seen[name] {
			warnings = append(warnings, fmt.Sprintf("Yacht '%s' is defined more than once", name))
		} else {
			seen[name] = true
		}

		if !yacht.Active {
			continue
		}
		active++

		schedule, err := estimator.Lookup(yacht.Schedule)
		if err != nil {
			// reported by ResolveSchedules
			continue
		}

		if schedule.CrewFromLength() && yacht.CrewMembers != 0 {
			warnings = append(warnings, fmt.Sprintf("Yacht '%s' sets crewMembers but schedule %s derives the crew from the length",
				name, schedule.Name))
		}

		if err := validation.ValidateProfile(schedule, yacht.Profile()); err != nil {
			warnings = append(warnings, fmt.Sprintf("Yacht '%s' is outside the supported inputs - %v", name, err))
		}
	}

	if active == 0 {
		warnings = append(warnings, "No active yachts - nothing will be estimated")
	}

	return warnings
}
