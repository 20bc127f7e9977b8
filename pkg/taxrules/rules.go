// Package taxrules defines the year-specific UK tax rule tables consumed by
// the tax engine, and a read-only registry keyed by tax-year label.
package taxrules

import (
	"encoding/json"
	"math"
)

// Rules holds every rate, threshold and band for one tax year. A Rules value
// is treated as immutable once handed to the engine.
type Rules struct {
	TaxYear                     string         `yaml:"taxYear" json:"taxYear"`
	PersonalAllowance           float64        `yaml:"personalAllowance" json:"personalAllowance"`
	PersonalAllowanceTaperStart float64        `yaml:"personalAllowanceTaperStart" json:"personalAllowanceTaperStart"`
	PersonalAllowanceZeroAt     float64        `yaml:"personalAllowanceZeroAt" json:"personalAllowanceZeroAt"`
	TaperRate                   float64        `yaml:"taperRate" json:"taperRate"`
	BasicRateBand               float64        `yaml:"basicRateBand" json:"basicRateBand"`
	HigherRateThreshold         float64        `yaml:"higherRateThreshold" json:"higherRateThreshold"`
	DividendAllowance           float64        `yaml:"dividendAllowance" json:"dividendAllowance"`
	CGTAnnualExempt             float64        `yaml:"cgtAnnualExempt" json:"cgtAnnualExempt"`
	ScottishBands               []ScottishBand `yaml:"scotlandBands" json:"scotlandBands"`
	Rates                       Rates          `yaml:"rates" json:"rates"`
	ReliefLimits                ReliefTable    `yaml:"reliefLimits" json:"reliefLimits"`
	ReliefRates                 ReliefTable    `yaml:"reliefRates" json:"reliefRates"`
}

// Rates groups the rate tables for each income type.
type Rates struct {
	Income    RateTable `yaml:"income" json:"income"`
	Dividends RateTable `yaml:"dividends" json:"dividends"`
	CGT       CGTRates  `yaml:"cgt" json:"cgt"`
}

// RateTable holds the UK basic, higher and additional marginal rates.
type RateTable struct {
	Basic      float64 `yaml:"basic" json:"basic"`
	Higher     float64 `yaml:"higher" json:"higher"`
	Additional float64 `yaml:"additional" json:"additional"`
}

// CGTRates holds capital gains rates per asset class.
type CGTRates struct {
	NonResidential GainsRates `yaml:"nonResidential" json:"nonResidential"`
	Residential    GainsRates `yaml:"residential" json:"residential"`
}

// GainsRates holds the rate applied to gains inside and outside the basic band.
type GainsRates struct {
	Basic  float64 `yaml:"basic" json:"basic"`
	Higher float64 `yaml:"higher" json:"higher"`
}

// ReliefTable holds one value per investment relief scheme.
type ReliefTable struct {
	EIS  float64 `yaml:"eis" json:"eis"`
	SEIS float64 `yaml:"seis" json:"seis"`
	VCT  float64 `yaml:"vct" json:"vct"`
}

// ScottishBand is one Scottish income tax band. Limit is the cumulative upper
// bound of taxable income in the band; the final band is always unbounded.
type ScottishBand struct {
	Name  string  `yaml:"name,omitempty" json:"name,omitempty"`
	Limit float64 `yaml:"limit" json:"limit"`
	Rate  float64 `yaml:"rate" json:"rate"`
}

// Unbounded reports whether the band has no upper limit.
func (b ScottishBand) Unbounded() bool {
	return math.IsInf(b.Limit, 1)
}

// MarshalJSON writes an unbounded limit as null since JSON has no infinity.
func (b ScottishBand) MarshalJSON() ([]byte, error) {
	var limit *float64
	if !b.Unbounded() {
		limit = &b.Limit
	}
	return json.Marshal(struct {
		Name  string   `json:"name,omitempty"`
		Limit *float64 `json:"limit"`
		Rate  float64  `json:"rate"`
	}{b.Name, limit, b.Rate})
}

// Clone returns a deep copy so callers can never share band slices.
func (r Rules) Clone() Rules {
	clone := r
	if r.ScottishBands != nil {
		clone.ScottishBands = make([]ScottishBand, len(r.ScottishBands))
		copy(clone.ScottishBands, r.ScottishBands)
	}
	return clone
}
