package taxengine

import (
	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
)

// Allowance is the outcome of personal-allowance resolution.
type Allowance struct {
	AdjustedNetIncome float64
	PersonalAllowance float64
}

// ResolveAllowance deducts gross pension contributions from total income to
// give adjusted net income, then tapers the personal allowance against it.
func ResolveAllowance(totalIncome, pensionContributions float64, rules taxrules.Rules) Allowance {
	ani := mathutil.Floor0(totalIncome - pensionContributions)
	return Allowance{
		AdjustedNetIncome: ani,
		PersonalAllowance: PersonalAllowance(ani, rules),
	}
}

// PersonalAllowance returns the allowance for a given adjusted net income.
// It is the full allowance up to the taper start, zero from the zero-at
// threshold, and reduced by TaperRate per pound in between.
func PersonalAllowance(adjustedNetIncome float64, rules taxrules.Rules) float64 {
	if adjustedNetIncome <= rules.PersonalAllowanceTaperStart {
		return rules.PersonalAllowance
	}
	if adjustedNetIncome >= rules.PersonalAllowanceZeroAt {
		return 0
	}
	reduction := (adjustedNetIncome - rules.PersonalAllowanceTaperStart) * rules.TaperRate
	return mathutil.Floor0(rules.PersonalAllowance - reduction)
}
