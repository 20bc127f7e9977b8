// Package taxyear provides UK tax-year label and date utilities. A tax year
// runs from 6 April to 5 April and is labelled "2025/26".
package taxyear

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
)

// DateLayout is the format used when printing tax-year boundaries.
const DateLayout = "2006-01-02"

// Label returns the label of the tax year starting in startYear.
func Label(startYear int) string {
	return fmt.Sprintf("%d/%02d", startYear, (startYear+1)%100)
}

// Parse returns the calendar year a tax-year label starts in. Both "2025/26"
// and "2025-26" are accepted; the suffix must follow the start year.
func Parse(label string) (int, error) {
	trimmed := strings.TrimSpace(label)
	parts := strings.FieldsFunc(trimmed, func(r rune) bool { return r == '/' || r == '-' })
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, fmt.Errorf("invalid tax year %q: expected form 2025/26", label)
	}

	start, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid tax year %q: %w", label, err)
	}
	suffix, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid tax year %q: %w", label, err)
	}
	if (start+1)%100 != suffix {
		return 0, fmt.Errorf("invalid tax year %q: %02d does not follow %d", label, suffix, start)
	}
	return start, nil
}

// Normalize returns the canonical "2025/26" form of a label.
func Normalize(label string) (string, error) {
	start, err := Parse(label)
	if err != nil {
		return "", err
	}
	return Label(start), nil
}

// ForDate returns the label of the tax year containing t.
func ForDate(t time.Time) string {
	start := time.Date(t.Year(), constants.TaxYearStartMonth, constants.TaxYearStartDay, 0, 0, 0, 0, t.Location())
	if t.Before(start) {
		return Label(t.Year() - 1)
	}
	return Label(t.Year())
}

// Current returns the label of the tax year containing today.
func Current() string {
	return ForDate(time.Now())
}

// Bounds returns the first and last day of a tax year.
func Bounds(label string) (time.Time, time.Time, error) {
	start, err := Parse(label)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	first := time.Date(start, constants.TaxYearStartMonth, constants.TaxYearStartDay, 0, 0, 0, 0, time.UTC)
	last := first.AddDate(1, 0, -1)
	return first, last, nil
}
