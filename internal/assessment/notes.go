package assessment

import (
	"fmt"

	"github.com/iwvelando/uk-tax-calculator/pkg/format"
	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
)

// InvestmentNotes explains where an investment exceeded its scheme limit.
func InvestmentNotes(result taxengine.Result) []string {
	schemes := []struct {
		name       string
		invested   float64
		qualifying float64
	}{
		{"EIS", result.Inputs.EISInvestment, result.Reliefs.EISQualifying},
		{"SEIS", result.Inputs.SEISInvestment, result.Reliefs.SEISQualifying},
		{"VCT", result.Inputs.VCTInvestment, result.Reliefs.VCTQualifying},
	}

	var notes []string
	for _, scheme := range schemes {
		if scheme.invested > scheme.qualifying {
			notes = append(notes, fmt.Sprintf("%s qualifying investment capped at %s.",
				scheme.name, format.WholeCurrency(scheme.qualifying)))
		}
	}
	if len(notes) == 0 {
		notes = append(notes, "All investment inputs are within standard qualifying limits.")
	}
	return notes
}

// ReliefNotes explains relief that could not be set against income tax.
func ReliefNotes(result taxengine.Result) []string {
	if mathutil.IsZero(result.Totals.ReliefUnused) {
		return nil
	}
	return []string{fmt.Sprintf("%s of relief exceeds the income tax liability and is not used; carry back to earlier years is not modelled.",
		format.Currency(result.Totals.ReliefUnused))}
}

// RegimeNotes explains which bands were used for a Scottish taxpayer.
func RegimeNotes(result taxengine.Result) []string {
	if result.Regime != taxengine.RegimeScottish {
		return nil
	}
	return []string{"Scottish income tax bands applied to non-savings income; dividends and capital gains use UK bands."}
}

// Notes collects every note for a result.
func Notes(result taxengine.Result) []string {
	var notes []string
	notes = append(notes, InvestmentNotes(result)...)
	notes = append(notes, ReliefNotes(result)...)
	notes = append(notes, RegimeNotes(result)...)
	return notes
}
