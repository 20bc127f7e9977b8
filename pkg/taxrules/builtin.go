package taxrules

import "math"

var unbounded = math.Inf(1)

// rules2024 carries the England/Wales/NI figures for 2024/25. Non-residential
// gains keep the rates in force before the October 2024 alignment; residential
// gains use the 24% higher rate that applied from 6 April 2024.
func rules2024() Rules {
	return Rules{
		TaxYear:                     "2024/25",
		PersonalAllowance:           12570,
		PersonalAllowanceTaperStart: 100000,
		PersonalAllowanceZeroAt:     125140,
		TaperRate:                   0.5,
		BasicRateBand:               37700,
		HigherRateThreshold:         125140,
		DividendAllowance:           500,
		CGTAnnualExempt:             3000,
		ScottishBands: []ScottishBand{
			{Name: "Starter rate", Limit: 2306, Rate: 0.19},
			{Name: "Basic rate", Limit: 13991, Rate: 0.20},
			{Name: "Intermediate rate", Limit: 31092, Rate: 0.21},
			{Name: "Higher rate", Limit: 62430, Rate: 0.42},
			{Name: "Advanced rate", Limit: 112570, Rate: 0.45},
			{Name: "Top rate", Limit: unbounded, Rate: 0.48},
		},
		Rates: Rates{
			Income:    RateTable{Basic: 0.20, Higher: 0.40, Additional: 0.45},
			Dividends: RateTable{Basic: 0.0875, Higher: 0.3375, Additional: 0.3935},
			CGT: CGTRates{
				NonResidential: GainsRates{Basic: 0.10, Higher: 0.20},
				Residential:    GainsRates{Basic: 0.18, Higher: 0.24},
			},
		},
		ReliefLimits: ReliefTable{EIS: 1_000_000, SEIS: 200_000, VCT: 200_000},
		ReliefRates:  ReliefTable{EIS: 0.30, SEIS: 0.50, VCT: 0.30},
	}
}

func rules2025() Rules {
	return Rules{
		TaxYear:                     "2025/26",
		PersonalAllowance:           12570,
		PersonalAllowanceTaperStart: 100000,
		PersonalAllowanceZeroAt:     125140,
		TaperRate:                   0.5,
		BasicRateBand:               37700,
		HigherRateThreshold:         125140,
		DividendAllowance:           500,
		CGTAnnualExempt:             3000,
		ScottishBands: []ScottishBand{
			{Name: "Starter rate", Limit: 2827, Rate: 0.19},
			{Name: "Basic rate", Limit: 14921, Rate: 0.20},
			{Name: "Intermediate rate", Limit: 31092, Rate: 0.21},
			{Name: "Higher rate", Limit: 62430, Rate: 0.42},
			{Name: "Advanced rate", Limit: 112570, Rate: 0.45},
			{Name: "Top rate", Limit: unbounded, Rate: 0.48},
		},
		Rates: Rates{
			Income:    RateTable{Basic: 0.20, Higher: 0.40, Additional: 0.45},
			Dividends: RateTable{Basic: 0.0875, Higher: 0.3375, Additional: 0.3935},
			CGT: CGTRates{
				NonResidential: GainsRates{Basic: 0.18, Higher: 0.24},
				Residential:    GainsRates{Basic: 0.18, Higher: 0.24},
			},
		},
		ReliefLimits: ReliefTable{EIS: 1_000_000, SEIS: 200_000, VCT: 200_000},
		ReliefRates:  ReliefTable{EIS: 0.30, SEIS: 0.50, VCT: 0.30},
	}
}

// rules2026 differs from 2025/26 only in the reduced VCT relief rate.
func rules2026() Rules {
	r := rules2025()
	r.TaxYear = "2026/27"
	r.ReliefRates.VCT = 0.20
	return r
}
