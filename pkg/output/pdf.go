package output

import (
	"bytes"
	"fmt"
	"time"

	"github.com/go-pdf/fpdf"
	"github.com/iwvelando/uk-tax-calculator/internal/assessment"
	"github.com/iwvelando/uk-tax-calculator/pkg/format"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxyear"
)

const (
	pageWidth    = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 20.0
	contentWidth = pageWidth - marginLeft - marginRight

	// Start a new page rather than split a table below this height.
	pageBreakY = 230.0
)

type taxReport struct {
	pdf       *fpdf.Fpdf
	generated time.Time
	// text converts UTF-8 to the cp1252 bytes the core fonts expect.
	text func(string) string
}

func newTaxReport(generated time.Time) *taxReport {
	pdf := fpdf.New("P", "mm", "A4", "")
	return &taxReport{
		pdf:       pdf,
		generated: generated,
		text:      pdf.UnicodeTranslatorFromDescriptor(""),
	}
}

// PDFReport renders results as an A4 PDF document.
func PDFReport(results []assessment.Result) ([]byte, error) {
	return pdfReportAt(results, time.Now())
}

func pdfReportAt(results []assessment.Result, generated time.Time) ([]byte, error) {
	report := newTaxReport(generated)
	report.pdf.SetMargins(marginLeft, marginTop, marginRight)
	report.pdf.SetAutoPageBreak(true, marginBottom)
	report.pdf.SetTitle("UK Tax Assessment", false)
	report.pdf.SetFooterFunc(report.footer)

	report.addSummaryPage(results)
	for _, result := range results {
		report.addScenarioPage(result)
	}

	var buf bytes.Buffer
	if err := report.pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf report: %w", err)
	}
	return buf.Bytes(), nil
}

func (r *taxReport) footer() {
	r.pdf.SetY(-15)
	r.pdf.SetFont("Arial", "I", 8)
	r.pdf.SetTextColor(120, 120, 120)
	r.pdf.CellFormat(contentWidth, 10, fmt.Sprintf("Page %d", r.pdf.PageNo()), "", 0, "C", false, 0, "")
}

func (r *taxReport) addSummaryPage(results []assessment.Result) {
	r.pdf.AddPage()

	r.pdf.SetFont("Arial", "B", 24)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.Ln(20)
	r.pdf.CellFormat(contentWidth, 12, "UK Tax Assessment", "", 1, "C", false, 0, "")

	r.pdf.SetFont("Arial", "I", 11)
	r.pdf.SetTextColor(80, 80, 80)
	r.pdf.CellFormat(contentWidth, 8, fmt.Sprintf("Generated: %s", r.generated.Format("2 January 2006")), "", 1, "C", false, 0, "")
	r.pdf.Ln(10)

	r.drawSectionHeader("Scenario summary")
	colWidths := []float64{60, 25, 30, 35, 30}
	r.drawTableHeader(colWidths, []string{"Scenario", "Tax year", "Baseline", "Relief used", "Residual"})
	for i, result := range results {
		totals := result.Tax.Totals
		r.drawTableRow(colWidths, []string{
			result.Name,
			result.TaxYear,
			format.Currency(totals.BaselineTax),
			format.Currency(totals.ReliefUsed),
			format.Currency(totals.ResidualTax),
		}, i%2 == 1)
	}
}

func (r *taxReport) addScenarioPage(result assessment.Result) {
	r.pdf.AddPage()

	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 12)
	r.pdf.CellFormat(contentWidth, 9, r.text(fmt.Sprintf("%s  |  Tax year %s  |  %s bands", result.Name, result.TaxYear, result.Tax.Regime)),
		"", 1, "L", true, 0, "")
	if first, last, err := taxyear.Bounds(result.TaxYear); err == nil {
		r.pdf.SetFont("Arial", "I", 9)
		r.pdf.SetTextColor(80, 80, 80)
		r.pdf.CellFormat(contentWidth, 6, r.text(fmt.Sprintf("%s to %s", first.Format("2 January 2006"), last.Format("2 January 2006"))),
			"", 1, "L", false, 0, "")
	}
	r.pdf.Ln(4)

	r.drawSectionHeader("Totals")
	colWidths := []float64{110, 70}
	for i, m := range metrics {
		r.drawTableRow(colWidths, []string{m.label, format.Currency(m.value(result.Tax.Totals))}, i%2 == 1)
	}
	r.pdf.Ln(4)

	reliefs := result.Tax.Reliefs
	r.drawSectionHeader("Investment relief")
	reliefWidths := []float64{30, 50, 50, 50}
	r.drawTableHeader(reliefWidths, []string{"Scheme", "Invested", "Qualifying", "Relief"})
	r.drawTableRow(reliefWidths, []string{"EIS", format.Currency(result.Tax.Inputs.EISInvestment), format.Currency(reliefs.EISQualifying), format.Currency(reliefs.EISRelief)}, false)
	r.drawTableRow(reliefWidths, []string{"SEIS", format.Currency(result.Tax.Inputs.SEISInvestment), format.Currency(reliefs.SEISQualifying), format.Currency(reliefs.SEISRelief)}, true)
	r.drawTableRow(reliefWidths, []string{"VCT", format.Currency(result.Tax.Inputs.VCTInvestment), format.Currency(reliefs.VCTQualifying), format.Currency(reliefs.VCTRelief)}, false)
	r.pdf.Ln(4)

	for _, section := range breakdownSections {
		slices := section.slices(result.Tax.Breakdown)
		if !hasAmount(slices) {
			continue
		}
		r.drawBreakdown(section.title, slices)
	}

	if len(result.Notes) > 0 {
		r.drawSectionHeader("Notes")
		r.pdf.SetFont("Arial", "", 9)
		r.pdf.SetTextColor(50, 50, 50)
		for _, note := range result.Notes {
			r.pdf.MultiCell(contentWidth, 5, r.text("- "+note), "", "L", false)
		}
	}
}

func (r *taxReport) drawBreakdown(title string, slices []taxengine.Slice) {
	if r.pdf.GetY() > pageBreakY {
		r.pdf.AddPage()
	}
	r.drawSectionHeader(title)
	colWidths := []float64{50, 30, 50, 50}
	r.drawTableHeader(colWidths, []string{"Band", "Rate", "Amount", "Tax"})
	row := 0
	for _, slice := range slices {
		if slice.Amount == 0 {
			continue
		}
		r.drawTableRow(colWidths, []string{slice.Band, format.Percent(slice.Rate), format.Currency(slice.Amount), format.Currency(slice.Tax)}, row%2 == 1)
		row++
	}
	r.pdf.Ln(4)
}

func (r *taxReport) drawSectionHeader(title string) {
	r.pdf.SetFont("Arial", "B", 11)
	r.pdf.SetTextColor(0, 51, 102)
	r.pdf.CellFormat(contentWidth, 7, r.text(title), "", 1, "L", false, 0, "")
}

func (r *taxReport) drawTableHeader(widths []float64, headers []string) {
	r.pdf.SetFillColor(0, 51, 102)
	r.pdf.SetTextColor(255, 255, 255)
	r.pdf.SetFont("Arial", "B", 9)
	for i, header := range headers {
		r.pdf.CellFormat(widths[i], 6, r.text(header), "1", 0, "C", true, 0, "")
	}
	r.pdf.Ln(-1)
}

func (r *taxReport) drawTableRow(widths []float64, cells []string, shaded bool) {
	r.pdf.SetFillColor(240, 248, 255)
	r.pdf.SetTextColor(50, 50, 50)
	r.pdf.SetFont("Arial", "", 9)
	for i, cell := range cells {
		align := "R"
		if i == 0 {
			align = "L"
		}
		r.pdf.CellFormat(widths[i], 6, r.text(cell), "1", 0, align, shaded, 0, "")
	}
	r.pdf.Ln(-1)
}
