package taxengine

import (
	"fmt"
	"math"

	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
)

// Regime names reported on a Result.
const (
	RegimeUK       = "uk"
	RegimeScottish = "scottish"
)

// IncomeTaxRegime chooses the bands that non-savings income tax is charged
// against. Dividends and gains always use the UK bands whatever the regime.
type IncomeTaxRegime interface {
	Name() string
	Bands(rules taxrules.Rules, uk []Band) []Band
}

type ukRegime struct{}

func (ukRegime) Name() string { return RegimeUK }

func (ukRegime) Bands(_ taxrules.Rules, uk []Band) []Band { return uk }

type scottishRegime struct{}

func (scottishRegime) Name() string { return RegimeScottish }

func (scottishRegime) Bands(rules taxrules.Rules, _ []Band) []Band {
	return ScottishBands(rules.ScottishBands)
}

// RegimeFor selects the income tax regime for a residency flag.
func RegimeFor(scottishResident bool) IncomeTaxRegime {
	if scottishResident {
		return scottishRegime{}
	}
	return ukRegime{}
}

// ScottishBands converts cumulative Scottish limits into band widths. The
// final band is unbounded.
func ScottishBands(table []taxrules.ScottishBand) []Band {
	bands := make([]Band, 0, len(table))
	lower := 0.0
	for i, band := range table {
		name := band.Name
		if name == "" {
			name = fmt.Sprintf("scottish-%d", i+1)
		}
		width := math.Inf(1)
		if i < len(table)-1 && !band.Unbounded() {
			width = mathutil.Floor0(band.Limit - lower)
			lower = band.Limit
		}
		bands = append(bands, Band{Name: name, Capacity: width, Rate: band.Rate})
	}
	return bands
}

// UKBands returns the basic, higher and additional bands for the given
// effective basic band and higher band width, priced at table.
func UKBands(effectiveBasic, higherWidth float64, table taxrules.RateTable) []Band {
	return []Band{
		{Name: BandBasic, Capacity: effectiveBasic, Rate: table.Basic},
		{Name: BandHigher, Capacity: mathutil.Floor0(higherWidth), Rate: table.Higher},
		{Name: BandAdditional, Capacity: math.Inf(1), Rate: table.Additional},
	}
}

func rateMap(table taxrules.RateTable) map[string]float64 {
	return map[string]float64{
		BandBasic:      table.Basic,
		BandHigher:     table.Higher,
		BandAdditional: table.Additional,
	}
}

// IncomeAllocation is the outcome of banding non-savings income and dividends.
type IncomeAllocation struct {
	TaxableNonSavings float64
	TaxableDividends  float64
	EffectiveBasic    float64
	// UKNonSavings is the UK-band split of non-savings income. It drives the
	// band capacity left for dividends even when Scottish bands set the tax.
	UKNonSavings Allocation
	NonSavings   Allocation
	Dividends    Allocation
}

// IncomeTax is the tax on non-savings income.
func (a IncomeAllocation) IncomeTax() float64 { return a.NonSavings.Tax() }

// DividendTax is the tax on dividends.
func (a IncomeAllocation) DividendTax() float64 { return a.Dividends.Tax() }

// AllocateIncome applies the personal allowance to non-savings income first
// and dividends second, removes the dividend allowance, then bands both.
// Gross pension contributions extend the basic rate band.
func AllocateIncome(in Inputs, personalAllowance float64, rules taxrules.Rules, regime IncomeTaxRegime) IncomeAllocation {
	nonSavings := in.NonSavingsIncome()
	allowanceOnNonSavings := math.Min(personalAllowance, nonSavings)
	allowanceLeft := mathutil.Floor0(personalAllowance - allowanceOnNonSavings)

	taxableNonSavings := mathutil.Floor0(nonSavings - allowanceOnNonSavings)
	dividendsAfterAllowance := mathutil.Floor0(in.Dividends - allowanceLeft)
	taxableDividends := mathutil.Floor0(dividendsAfterAllowance - rules.DividendAllowance)

	effectiveBasic := rules.BasicRateBand + in.PensionContributions
	higherWidth := rules.HigherRateThreshold - effectiveBasic

	uk := UKBands(effectiveBasic, higherWidth, rules.Rates.Income)
	ukNonSavings := Allocate(taxableNonSavings, uk)

	dividendBands := Reprice(ukNonSavings.Left, rateMap(rules.Rates.Dividends))

	return IncomeAllocation{
		TaxableNonSavings: taxableNonSavings,
		TaxableDividends:  taxableDividends,
		EffectiveBasic:    effectiveBasic,
		UKNonSavings:      ukNonSavings,
		NonSavings:        Allocate(taxableNonSavings, regime.Bands(rules, uk)),
		Dividends:         Allocate(taxableDividends, dividendBands),
	}
}
