package taxengine

import (
	"math"

	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
)

// Reliefs holds the qualifying amount and relief value per scheme.
type Reliefs struct {
	EISQualifying        float64 `json:"eisQualifying"`
	SEISQualifying       float64 `json:"seisQualifying"`
	VCTQualifying        float64 `json:"vctQualifying"`
	EISRelief            float64 `json:"eisRelief"`
	SEISRelief           float64 `json:"seisRelief"`
	VCTRelief            float64 `json:"vctRelief"`
	TotalReliefPotential float64 `json:"totalReliefPotential"`
}

// ReliefOutcome is how much relief was set against income tax.
type ReliefOutcome struct {
	Used        float64
	Unused      float64
	ResidualTax float64
}

// CapReliefs caps each investment at its scheme limit and prices the relief.
func CapReliefs(in Inputs, rules taxrules.Rules) Reliefs {
	r := Reliefs{
		EISQualifying:  math.Min(in.EISInvestment, rules.ReliefLimits.EIS),
		SEISQualifying: math.Min(in.SEISInvestment, rules.ReliefLimits.SEIS),
		VCTQualifying:  math.Min(in.VCTInvestment, rules.ReliefLimits.VCT),
	}
	r.EISRelief = r.EISQualifying * rules.ReliefRates.EIS
	r.SEISRelief = r.SEISQualifying * rules.ReliefRates.SEIS
	r.VCTRelief = r.VCTQualifying * rules.ReliefRates.VCT
	r.TotalReliefPotential = r.EISRelief + r.SEISRelief + r.VCTRelief
	return r
}

// ApplyRelief sets relief against income tax only. It never reduces capital
// gains tax and never produces a refund.
func ApplyRelief(totalIncomeTax, capitalGainsTax, potential float64) ReliefOutcome {
	used := math.Min(totalIncomeTax, potential)
	return ReliefOutcome{
		Used:        used,
		Unused:      mathutil.Floor0(potential - used),
		ResidualTax: mathutil.Floor0(totalIncomeTax + capitalGainsTax - used),
	}
}
