// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"
	"sort"
	"strings"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxyear"
)

// ValidateTaxYear returns a warning when a tax year is malformed or has no
// rule set and will fall back to the registry default. An empty year is
// accepted silently.
func ValidateTaxYear(context, year string, registry *taxrules.Registry) string {
	if strings.TrimSpace(year) == "" {
		return ""
	}
	if _, err := taxyear.Parse(year); err != nil {
		return fmt.Sprintf("%s tax year %q is not a valid tax year - using %s",
			context, year, registry.DefaultYear())
	}
	if !registry.Has(year) {
		return fmt.Sprintf("%s tax year %s has no rule set - using %s",
			context, year, registry.DefaultYear())
	}
	return ""
}

// ValidateInputs warns about input values that will be treated as zero and
// keys that are not recognised.
func ValidateInputs(context string, raw map[string]interface{}) []string {
	var warnings []string

	clamped := taxengine.ClampedInputKeys(raw)
	sort.Strings(clamped)
	for _, key := range clamped {
		warnings = append(warnings, fmt.Sprintf("%s input '%s' (%v) is negative or not a number - treated as 0",
			context, key, raw[key]))
	}

	capped := taxengine.CappedInputKeys(raw)
	sort.Strings(capped)
	for _, key := range capped {
		warnings = append(warnings, fmt.Sprintf("%s input '%s' (%v) is above %.0f - capped",
			context, key, raw[key], constants.MaxAmount))
	}

	unknown := taxengine.UnknownInputKeys(raw)
	sort.Strings(unknown)
	for _, key := range unknown {
		warnings = append(warnings, fmt.Sprintf("%s input '%s' is not recognised and will be ignored",
			context, key))
	}

	return warnings
}

// ConfigValidator performs comprehensive configuration validation
type ConfigValidator struct {
	TaxYear   string
	Scenarios []ScenarioConfig
	Registry  *taxrules.Registry
}

// ScenarioConfig is the part of a scenario the validator inspects.
type ScenarioConfig struct {
	Name    string
	Active  bool
	TaxYear string
	Inputs  map[string]interface{}
}

// ValidateAll validates the entire configuration and returns warnings
func (cv *ConfigValidator) ValidateAll() []string {
	var warnings []string

	registry := cv.Registry
	if registry == nil {
		registry = taxrules.Builtin()
	}

	if warning := ValidateTaxYear("Configuration", cv.TaxYear, registry); warning != "" {
		warnings = append(warnings, warning)
	}

	if len(cv.Scenarios) == 0 {
		return append(warnings, "No scenarios defined - nothing to compute")
	}

	active := 0
	seen := make(map[string]bool)
	for _, scenario := range cv.Scenarios {
		if seen[scenario.Name] {
			warnings = append(warnings, fmt.Sprintf("Scenario name '%s' is used more than once", scenario.Name))
		}
		seen[scenario.Name] = true

		if !scenario.Active {
			continue
		}
		active++

		context := fmt.Sprintf("Scenario '%s'", scenario.Name)
		if warning := ValidateTaxYear(context, scenario.TaxYear, registry); warning != "" {
			warnings = append(warnings, warning)
		}
		warnings = append(warnings, ValidateInputs(context, scenario.Inputs)...)
	}

	if active == 0 {
		warnings = append(warnings, "No active scenarios - nothing to compute")
	}

	return warnings
}
