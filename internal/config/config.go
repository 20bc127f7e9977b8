// Package config defines the data structures related to configuration and
// includes functions for loading and validating scenario files.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/iwvelando/uk-tax-calculator/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for uk-tax-calculator.
type Configuration struct {
	TaxYear   string        `yaml:"taxYear,omitempty"`
	RulesFile string        `yaml:"rulesFile,omitempty"`
	Scenarios []Scenario    `yaml:"scenarios"`
	Logging   LoggingConfig `yaml:"logging,omitempty"`
	Output    OutputConfig  `yaml:"output,omitempty"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty"`      // debug, info, warn, error
	Format     string `yaml:"format,omitempty"`     // json, console
	OutputFile string `yaml:"outputFile,omitempty"` // optional file output
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty"` // pretty, csv, json, pdf
	File   string `yaml:"file,omitempty"`   // destination for pdf output
}

// Scenario is one set of taxpayer figures. Inputs stays loosely typed so
// that bad values can be reported before they are clamped to zero.
type Scenario struct {
	Name    string                 `yaml:"name"`
	Active  bool                   `yaml:"active"`
	TaxYear string                 `yaml:"taxYear,omitempty"`
	Inputs  map[string]interface{} `yaml:"inputs"`
}

// EngineInputs converts the scenario's raw inputs for the tax engine.
func (s Scenario) EngineInputs() taxengine.Inputs {
	return taxengine.InputsFromMap(s.Inputs)
}

// newViper returns a viper instance with the shared defaults and
// environment overrides, e.g. UKTAX_TAXYEAR or UKTAX_LOGGING_LEVEL.
func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("taxyear", "")
	v.SetDefault("rulesfile", "")
	v.SetDefault("logging.level", "")
	v.SetDefault("logging.format", "")
	v.SetDefault("logging.outputfile", "")
	v.SetDefault("output.format", "")
	v.SetDefault("output.file", "")
	return v
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there.
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}
	return decode(v)
}

// LoadConfigurationFromReader loads a YAML-formatted configuration from r.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := newViper()
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

// ActiveScenarios returns the scenarios flagged active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// TaxYearFor returns the tax year requested for a scenario: its own year,
// else the configuration-wide year, else empty.
func (c *Configuration) TaxYearFor(s Scenario) string {
	if strings.TrimSpace(s.TaxYear) != "" {
		return s.TaxYear
	}
	return c.TaxYear
}

// Registry returns the builtin rule registry, overlaid with RulesFile when
// one is configured.
func (c *Configuration) Registry() (*taxrules.Registry, error) {
	registry := taxrules.Builtin()
	if c.RulesFile == "" {
		return registry, nil
	}
	return taxrules.LoadFile(registry, c.RulesFile)
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration(registry *taxrules.Registry) []string {
	var scenarios []validation.ScenarioConfig
	for _, scenario := range c.Scenarios {
		scenarios = append(scenarios, validation.ScenarioConfig{
			Name:    scenario.Name,
			Active:  scenario.Active,
			TaxYear: scenario.TaxYear,
			Inputs:  scenario.Inputs,
		})
	}

	validator := validation.ConfigValidator{
		TaxYear:   c.TaxYear,
		Scenarios: scenarios,
		Registry:  registry,
	}
	return validator.ValidateAll()
}
