package taxengine

import (
	"math"

	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
)

// GainsAllocation is the outcome of banding capital gains.
type GainsAllocation struct {
	NonResidentialAfterExemption float64
	ResidentialAfterExemption    float64
	NonResidential               Allocation
	Residential                  Allocation
}

// Tax is the capital gains tax across both asset classes.
func (g GainsAllocation) Tax() float64 {
	return g.NonResidential.Tax() + g.Residential.Tax()
}

// AllocateGains applies the annual exempt amount to non-residential gains
// first, then residential. Whatever basic band the taxable income has not
// used is offered to non-residential gains first; the rest of each class is
// charged at its higher rate.
func AllocateGains(in Inputs, income IncomeAllocation, rules taxrules.Rules) GainsAllocation {
	exemptLeft := rules.CGTAnnualExempt
	nonResidential := mathutil.Floor0(in.CapitalGains - exemptLeft)
	exemptLeft = mathutil.Floor0(exemptLeft - in.CapitalGains)
	residential := mathutil.Floor0(in.CapitalGainsResidential - exemptLeft)

	basicLeft := mathutil.Floor0(income.EffectiveBasic - (income.TaxableNonSavings + income.TaxableDividends))

	nonResAlloc := Allocate(nonResidential, gainsBands(basicLeft, rules.Rates.CGT.NonResidential))
	resAlloc := Allocate(residential, gainsBands(nonResAlloc.Capacity(BandBasic), rules.Rates.CGT.Residential))

	return GainsAllocation{
		NonResidentialAfterExemption: nonResidential,
		ResidentialAfterExemption:    residential,
		NonResidential:               nonResAlloc,
		Residential:                  resAlloc,
	}
}

func gainsBands(basicCapacity float64, rates taxrules.GainsRates) []Band {
	return []Band{
		{Name: BandBasic, Capacity: basicCapacity, Rate: rates.Basic},
		{Name: BandHigher, Capacity: math.Inf(1), Rate: rates.Higher},
	}
}
