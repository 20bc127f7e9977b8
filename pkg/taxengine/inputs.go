package taxengine

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/mathutil"
)

// Inputs holds one taxpayer's figures for a tax year, in pounds.
type Inputs struct {
	EmploymentIncome        float64 `json:"employmentIncome" yaml:"employmentIncome"`
	SelfEmploymentIncome    float64 `json:"selfEmploymentIncome" yaml:"selfEmploymentIncome"`
	OtherIncome             float64 `json:"otherIncome" yaml:"otherIncome"`
	Dividends               float64 `json:"dividends" yaml:"dividends"`
	CapitalGains            float64 `json:"capitalGains" yaml:"capitalGains"`
	CapitalGainsResidential float64 `json:"capitalGainsResidential" yaml:"capitalGainsResidential"`
	PensionContributions    float64 `json:"pensionContributions" yaml:"pensionContributions"`
	EISInvestment           float64 `json:"eisInvestment" yaml:"eisInvestment"`
	SEISInvestment          float64 `json:"seisInvestment" yaml:"seisInvestment"`
	VCTInvestment           float64 `json:"vctInvestment" yaml:"vctInvestment"`
	ScottishResident        bool    `json:"scottishResident" yaml:"scottishResident"`
}

// Normalize returns a copy with every amount coerced to a non-negative
// finite number no larger than constants.MaxAmount.
func (in Inputs) Normalize() Inputs {
	out := in
	for _, field := range out.amounts() {
		*field = mathutil.CapAmount(*field)
	}
	return out
}

// NonSavingsIncome is employment, self-employment and other income combined.
func (in Inputs) NonSavingsIncome() float64 {
	return in.EmploymentIncome + in.SelfEmploymentIncome + in.OtherIncome
}

// TotalIncome is non-savings income plus dividends.
func (in Inputs) TotalIncome() float64 {
	return in.NonSavingsIncome() + in.Dividends
}

func (in *Inputs) amounts() []*float64 {
	return []*float64{
		&in.EmploymentIncome,
		&in.SelfEmploymentIncome,
		&in.OtherIncome,
		&in.Dividends,
		&in.CapitalGains,
		&in.CapitalGainsResidential,
		&in.PensionContributions,
		&in.EISInvestment,
		&in.SEISInvestment,
		&in.VCTInvestment,
	}
}

// inputFields maps lower-cased field keys to their amount.
var inputFields = map[string]func(*Inputs) *float64{
	"employmentincome":        func(in *Inputs) *float64 { return &in.EmploymentIncome },
	"selfemploymentincome":    func(in *Inputs) *float64 { return &in.SelfEmploymentIncome },
	"otherincome":             func(in *Inputs) *float64 { return &in.OtherIncome },
	"dividends":               func(in *Inputs) *float64 { return &in.Dividends },
	"capitalgains":            func(in *Inputs) *float64 { return &in.CapitalGains },
	"capitalgainsresidential": func(in *Inputs) *float64 { return &in.CapitalGainsResidential },
	"pensioncontributions":    func(in *Inputs) *float64 { return &in.PensionContributions },
	"eisinvestment":           func(in *Inputs) *float64 { return &in.EISInvestment },
	"seisinvestment":          func(in *Inputs) *float64 { return &in.SEISInvestment },
	"vctinvestment":           func(in *Inputs) *float64 { return &in.VCTInvestment },
}

// InputsFromMap builds Inputs from loosely typed values such as decoded JSON
// or YAML. Keys match field names case-insensitively; unknown keys are
// ignored and unparseable values count as zero. The result is not yet
// normalized so callers can compare it with the raw figures.
func InputsFromMap(raw map[string]interface{}) Inputs {
	var in Inputs
	for key, value := range raw {
		normalized := strings.ToLower(strings.TrimSpace(key))
		if normalized == "scottishresident" {
			in.ScottishResident = coerceBool(value)
			continue
		}
		if field, ok := inputFields[normalized]; ok {
			*field(&in) = coerceNumber(value)
		}
	}
	return in
}

// UnknownInputKeys lists keys InputsFromMap would ignore.
func UnknownInputKeys(raw map[string]interface{}) []string {
	var unknown []string
	for key := range raw {
		normalized := strings.ToLower(strings.TrimSpace(key))
		if _, ok := inputFields[normalized]; ok || normalized == "scottishresident" {
			continue
		}
		unknown = append(unknown, key)
	}
	return unknown
}

// ClampedInputKeys lists the amount keys whose values are negative,
// non-finite or unparseable and will therefore be treated as zero.
func ClampedInputKeys(raw map[string]interface{}) []string {
	var clamped []string
	for key, value := range raw {
		if _, ok := inputFields[strings.ToLower(strings.TrimSpace(key))]; !ok || value == nil {
			continue
		}
		parsed, ok := parseNumber(value)
		if !ok || mathutil.NonNegative(parsed) != parsed {
			clamped = append(clamped, key)
		}
	}
	return clamped
}

// CappedInputKeys lists the amount keys whose values exceed
// constants.MaxAmount and will be reduced to it.
func CappedInputKeys(raw map[string]interface{}) []string {
	var capped []string
	for key, value := range raw {
		if _, ok := inputFields[strings.ToLower(strings.TrimSpace(key))]; !ok || value == nil {
			continue
		}
		parsed, ok := parseNumber(value)
		if ok && !math.IsInf(parsed, 1) && parsed > constants.MaxAmount {
			capped = append(capped, key)
		}
	}
	return capped
}

func coerceNumber(value interface{}) float64 {
	parsed, _ := parseNumber(value)
	return parsed
}

func parseNumber(value interface{}) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint:
		return float64(v), true
	case uint64:
		return float64(v), true
	case json.Number:
		if parsed, err := v.Float64(); err == nil {
			return parsed, true
		}
	case string:
		cleaned := strings.NewReplacer(",", "", "£", "", "_", "").Replace(strings.TrimSpace(v))
		if cleaned == "" {
			return 0, true
		}
		if parsed, err := strconv.ParseFloat(cleaned, 64); err == nil {
			return parsed, true
		}
	}
	return 0, false
}

func coerceBool(value interface{}) bool {
	switch v := value.(type) {
	case bool:
		return v
	case string:
		if parsed, err := strconv.ParseBool(strings.TrimSpace(v)); err == nil {
			return parsed
		}
	case float64:
		return v != 0
	case int:
		return v != 0
	case int64:
		return v != 0
	}
	return false
}
