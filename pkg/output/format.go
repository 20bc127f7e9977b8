// Package output provides utilities for formatting and displaying assessment results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/uk-tax-calculator/internal/assessment"
	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/format"
	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// metric is one headline row shared by the pretty and CSV layouts.
type metric struct {
	label string
	value func(taxengine.Totals) float64
}

var metrics = []metric{
	{"Adjusted net income", func(t taxengine.Totals) float64 { return t.AdjustedNetIncome }},
	{"Personal allowance", func(t taxengine.Totals) float64 { return t.PersonalAllowance }},
	{"Taxable non-savings income", func(t taxengine.Totals) float64 { return t.TaxableNonSavings }},
	{"Taxable dividends", func(t taxengine.Totals) float64 { return t.TaxableDividends }},
	{"Income tax", func(t taxengine.Totals) float64 { return t.IncomeTax }},
	{"Dividend tax", func(t taxengine.Totals) float64 { return t.DividendTax }},
	{"Total income tax", func(t taxengine.Totals) float64 { return t.TotalIncomeTax }},
	{"Capital gains tax", func(t taxengine.Totals) float64 { return t.CapitalGainsTax }},
	{"Baseline tax", func(t taxengine.Totals) float64 { return t.BaselineTax }},
	{"Relief used", func(t taxengine.Totals) float64 { return t.ReliefUsed }},
	{"Relief unused", func(t taxengine.Totals) float64 { return t.ReliefUnused }},
	{"Residual tax", func(t taxengine.Totals) float64 { return t.ResidualTax }},
}

type breakdownSection struct {
	title  string
	slices func(taxengine.Breakdown) []taxengine.Slice
}

var breakdownSections = []breakdownSection{
	{"Non-savings income", func(b taxengine.Breakdown) []taxengine.Slice { return b.NonSavings }},
	{"Dividends", func(b taxengine.Breakdown) []taxengine.Slice { return b.Dividends }},
	{"Gains (non-residential)", func(b taxengine.Breakdown) []taxengine.Slice { return b.NonResidentialGains }},
	{"Gains (residential)", func(b taxengine.Breakdown) []taxengine.Slice { return b.ResidentialGains }},
}

// Write renders results in the named output format.
func Write(w io.Writer, outputFormat string, results []assessment.Result) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, results)
	case constants.OutputFormatCSV:
		return CsvFormat(w, results)
	case constants.OutputFormatJSON:
		return JSONFormat(w, results)
	case constants.OutputFormatPDF:
		report, err := PDFReport(results)
		if err != nil {
			return err
		}
		_, err = w.Write(report)
		return err
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable table.
func PrettyFormat(w io.Writer, results []assessment.Result) error {
	p := message.NewPrinter(language.English)
	for i, result := range results {
		totals := result.Tax.Totals
		if _, err := fmt.Fprintf(w, "--- Results for scenario %s (%s, %s) ---\n", result.Name, result.TaxYear, result.Tax.Regime); err != nil {
			return err
		}
		fmt.Fprintf(w, "%-28s | Amount\n", "Item")
		fmt.Fprintf(w, "%-28s | ______\n", "____")
		for _, m := range metrics {
			_, _ = p.Fprintf(w, "%-28s | £%.2f\n", m.label, m.value(totals))
		}

		for _, section := range breakdownSections {
			slices := section.slices(result.Tax.Breakdown)
			if !hasAmount(slices) {
				continue
			}
			fmt.Fprintf(w, "\n%s\n", section.title)
			for _, slice := range slices {
				if slice.Amount == 0 {
					continue
				}
				_, _ = p.Fprintf(w, "  %-14s %7s  £%.2f -> £%.2f\n", slice.Band, format.Percent(slice.Rate), slice.Amount, slice.Tax)
			}
		}

		if len(result.Notes) > 0 {
			fmt.Fprintf(w, "\nNotes\n")
			for _, note := range result.Notes {
				fmt.Fprintf(w, "  - %s\n", note)
			}
		}
		if i < len(results)-1 {
			fmt.Fprintf(w, "\n")
		}
	}
	return nil
}

func hasAmount(slices []taxengine.Slice) bool {
	for _, slice := range slices {
		if slice.Amount != 0 {
			return true
		}
	}
	return false
}

// CsvFormat outputs in comma-separated value format: one row per figure and
// one column per scenario.
func CsvFormat(w io.Writer, results []assessment.Result) error {
	writer := csv.NewWriter(w)

	header := []string{"item"}
	for _, result := range results {
		header = append(header, result.Name)
	}
	rows := [][]string{header}

	taxYears := []string{"tax year"}
	regimes := []string{"regime"}
	for _, result := range results {
		taxYears = append(taxYears, result.TaxYear)
		regimes = append(regimes, result.Tax.Regime)
	}
	rows = append(rows, taxYears, regimes)

	for _, m := range metrics {
		row := []string{strings.ToLower(m.label)}
		for _, result := range results {
			row = append(row, fmt.Sprintf("%.2f", mathutil.Round(m.value(result.Tax.Totals))))
		}
		rows = append(rows, row)
	}

	notes := []string{"notes"}
	for _, result := range results {
		notes = append(notes, strings.Join(result.Notes, " "))
	}
	rows = append(rows, notes)

	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("failed to write csv: %w", err)
	}
	return nil
}

// CsvString returns the CSV rendering as a string.
func CsvString(results []assessment.Result) (string, error) {
	var builder strings.Builder
	if err := CsvFormat(&builder, results); err != nil {
		return "", err
	}
	return builder.String(), nil
}

// JSONFormat outputs indented JSON.
func JSONFormat(w io.Writer, results []assessment.Result) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}
	return nil
}
