// Package format renders amounts and rates for display.
package format

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
)

// Currency returns a currency string with a pound sign and thousands separators (e.g., "-£1,234.56").
func Currency(amount float64) string {
	formatted := formatPositiveCurrency(math.Abs(amount))
	if amount < 0 {
		return "-£" + formatted
	}
	return "£" + formatted
}

// WholeCurrency rounds to whole pounds, e.g. "£1,000,000".
func WholeCurrency(amount float64) string {
	formatted := formatPositiveCurrency(math.Round(math.Abs(amount)))
	formatted = strings.TrimSuffix(formatted, ".00")
	if amount < 0 && math.Round(math.Abs(amount)) != 0 {
		return "-£" + formatted
	}
	return "£" + formatted
}

// Percent renders a rate fraction as a percentage with no trailing zeros,
// e.g. 0.2 -> "20%" and 0.0875 -> "8.75%".
func Percent(rate float64) string {
	value := math.Round(mathutil.Percentage(rate)*100) / 100
	return strconv.FormatFloat(value, 'f', -1, 64) + "%"
}

func formatPositiveCurrency(value float64) string {
	formatted := fmt.Sprintf("%.2f", value)
	parts := strings.SplitN(formatted, ".", 2)
	intPart := parts[0]
	decPart := "00"
	if len(parts) == 2 {
		decPart = parts[1]
	}

	if len(intPart) > 3 {
		var builder strings.Builder
		for i, digit := range intPart {
			if i > 0 && (len(intPart)-i)%3 == 0 {
				builder.WriteByte(',')
			}
			builder.WriteRune(digit)
		}
		intPart = builder.String()
	}

	return intPart + "." + decPart
}
