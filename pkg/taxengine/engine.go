// Package taxengine computes UK income tax, dividend tax, capital gains tax
// and EIS/SEIS/VCT relief for one taxpayer under one year's rules.
//
// Compute is a pure function: it holds no state, performs no I/O and may be
// called concurrently. Invalid amounts are clamped to zero rather than
// rejected, so it never fails.
package taxengine

import "github.com/iwvelando/uk-tax-calculator/pkg/taxrules"

// Totals are the headline figures of a computation.
type Totals struct {
	AdjustedNetIncome float64 `json:"adjustedNetIncome"`
	PersonalAllowance float64 `json:"personalAllowance"`
	TaxableNonSavings float64 `json:"taxableNonSavings"`
	TaxableDividends  float64 `json:"taxableDividends"`
	IncomeTax         float64 `json:"incomeTax"`
	DividendTax       float64 `json:"dividendTax"`
	TotalIncomeTax    float64 `json:"totalIncomeTax"`
	CapitalGainsTax   float64 `json:"capitalGainsTax"`
	BaselineTax       float64 `json:"baselineTax"`
	ReliefUsed        float64 `json:"reliefUsed"`
	ReliefUnused      float64 `json:"reliefUnused"`
	ResidualTax       float64 `json:"residualTax"`
}

// Breakdown lists the band slices behind each tax figure.
type Breakdown struct {
	NonSavings          []Slice `json:"nonSavings"`
	Dividends           []Slice `json:"dividends"`
	NonResidentialGains []Slice `json:"nonResidentialGains"`
	ResidentialGains    []Slice `json:"residentialGains"`
}

// Result is a disposable value produced fresh by each Compute call.
type Result struct {
	TaxYear   string    `json:"taxYear"`
	Regime    string    `json:"regime"`
	Inputs    Inputs    `json:"inputs"`
	Totals    Totals    `json:"totals"`
	Reliefs   Reliefs   `json:"reliefs"`
	Breakdown Breakdown `json:"breakdown"`
}

// Compute runs allowance resolution, income banding, gains banding and
// relief capping in that order.
func Compute(inputs Inputs, rules taxrules.Rules) Result {
	in := inputs.Normalize()
	regime := RegimeFor(in.ScottishResident)

	allowance := ResolveAllowance(in.TotalIncome(), in.PensionContributions, rules)
	income := AllocateIncome(in, allowance.PersonalAllowance, rules, regime)
	gains := AllocateGains(in, income, rules)
	reliefs := CapReliefs(in, rules)

	totalIncomeTax := income.IncomeTax() + income.DividendTax()
	capitalGainsTax := gains.Tax()
	outcome := ApplyRelief(totalIncomeTax, capitalGainsTax, reliefs.TotalReliefPotential)

	return Result{
		TaxYear: rules.TaxYear,
		Regime:  regime.Name(),
		Inputs:  in,
		Totals: Totals{
			AdjustedNetIncome: allowance.AdjustedNetIncome,
			PersonalAllowance: allowance.PersonalAllowance,
			TaxableNonSavings: income.TaxableNonSavings,
			TaxableDividends:  income.TaxableDividends,
			IncomeTax:         income.IncomeTax(),
			DividendTax:       income.DividendTax(),
			TotalIncomeTax:    totalIncomeTax,
			CapitalGainsTax:   capitalGainsTax,
			BaselineTax:       totalIncomeTax + capitalGainsTax,
			ReliefUsed:        outcome.Used,
			ReliefUnused:      outcome.Unused,
			ResidualTax:       outcome.ResidualTax,
		},
		Reliefs: reliefs,
		Breakdown: Breakdown{
			NonSavings:          income.NonSavings.Slices,
			Dividends:           income.Dividends.Slices,
			NonResidentialGains: gains.NonResidential.Slices,
			ResidentialGains:    gains.Residential.Slices,
		},
	}
}
