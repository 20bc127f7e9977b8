// Package testutil provides common utility functions for testing.
package testutil

import (
	"testing"

	"github.com/iwvelando/uk-tax-calculator/internal/assessment"
	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
)

// FindScenario finds a scenario by name in the results slice.
// Returns a pointer to the result if found, nil otherwise.
func FindScenario(results []assessment.Result, name string) *assessment.Result {
	for i := range results {
		if results[i].Name == name {
			return &results[i]
		}
	}
	return nil
}

// AssertAmount fails the test when got differs from expected by more than a penny.
func AssertAmount(t testing.TB, label string, got, expected float64) {
	t.Helper()
	if !mathutil.WithinTolerance(got, expected, constants.CurrencyTolerance) {
		t.Errorf("%s = %.2f, expected %.2f", label, got, expected)
	}
}
