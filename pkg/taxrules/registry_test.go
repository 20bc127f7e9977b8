package taxrules

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuiltinYears(t *testing.T) {
	reg := Builtin()

	assert.Equal(t, []string{"2024/25", "2025/26", "2026/27"}, reg.Years())
	assert.Equal(t, "2025/26", reg.DefaultYear())
	assert.True(t, reg.Has("2026-27"))
	assert.False(t, reg.Has("2019/20"))
}

func TestLookup(t *testing.T) {
	reg := Builtin()

	tests := []struct {
		name      string
		year      string
		wantYear  string
		wantFound bool
	}{
		{"Known year", "2026/27", "2026/27", true},
		{"Dash form", "2024-25", "2024/25", true},
		{"Unknown year falls back", "2019/20", "2025/26", false},
		{"Malformed year falls back", "next year", "2025/26", false},
		{"Empty year falls back", "", "2025/26", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, found := reg.Lookup(tt.year)
			assert.Equal(t, tt.wantFound, found)
			assert.Equal(t, tt.wantYear, rules.TaxYear)
		})
	}
}

func TestLookupReturnsCopy(t *testing.T) {
	reg := Builtin()

	first, _ := reg.Lookup("2025/26")
	first.ScottishBands[0].Rate = 0.99
	first.PersonalAllowance = 0

	second, _ := reg.Lookup("2025/26")
	assert.Equal(t, 0.19, second.ScottishBands[0].Rate)
	assert.Equal(t, 12570.0, second.PersonalAllowance)
}

func TestRuleSetDifferences(t *testing.T) {
	reg := Builtin()

	r2024, _ := reg.Lookup("2024/25")
	r2025, _ := reg.Lookup("2025/26")
	r2026, _ := reg.Lookup("2026/27")

	assert.Equal(t, 0.10, r2024.Rates.CGT.NonResidential.Basic)
	assert.Equal(t, 0.24, r2024.Rates.CGT.Residential.Higher)
	assert.Len(t, r2024.ScottishBands, 6)
	assert.Equal(t, 0.48, r2024.ScottishBands[5].Rate)
	assert.Equal(t, 0.18, r2025.Rates.CGT.NonResidential.Basic)
	assert.Equal(t, 0.30, r2025.ReliefRates.VCT)
	assert.Equal(t, 0.20, r2026.ReliefRates.VCT)
}

func TestScottishBandsAscendingAndExhaustive(t *testing.T) {
	reg := Builtin()

	for _, year := range reg.Years() {
		rules, _ := reg.Lookup(year)
		require.NotEmpty(t, rules.ScottishBands, year)

		previous := 0.0
		for i, band := range rules.ScottishBands {
			last := i == len(rules.ScottishBands)-1
			if last {
				assert.True(t, band.Unbounded(), "%s final band should be unbounded", year)
				continue
			}
			assert.Greater(t, band.Limit, previous, "%s band %d", year, i)
			previous = band.Limit
		}
	}
}

func TestNewRegistryRejectsUnknownDefault(t *testing.T) {
	_, err := NewRegistry("2030/31", rules2025())
	assert.Error(t, err)

	_, err = NewRegistry("2025/26", Rules{TaxYear: "bogus"})
	assert.Error(t, err)
}

func TestLoadFileMergesOverBuiltin(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	contents := []byte(`defaultYear: 2027/28
years:
  - taxYear: 2027/28
    personalAllowance: 13000
    personalAllowanceTaperStart: 100000
    personalAllowanceZeroAt: 126000
    taperRate: 0.5
    basicRateBand: 38000
    higherRateThreshold: 126000
    dividendAllowance: 500
    cgtAnnualExempt: 3000
    scotlandBands:
      - limit: 3000
        rate: 0.19
      - limit: .inf
        rate: 0.48
    rates:
      income: {basic: 0.2, higher: 0.4, additional: 0.45}
      dividends: {basic: 0.1075, higher: 0.3575, additional: 0.3935}
      cgt:
        nonResidential: {basic: 0.18, higher: 0.24}
        residential: {basic: 0.18, higher: 0.24}
    reliefLimits: {eis: 1000000, seis: 200000, vct: 200000}
    reliefRates: {eis: 0.3, seis: 0.5, vct: 0.2}
`)
	require.NoError(t, os.WriteFile(path, contents, 0600))

	reg, err := LoadFile(Builtin(), path)
	require.NoError(t, err)

	assert.Equal(t, []string{"2024/25", "2025/26", "2026/27", "2027/28"}, reg.Years())
	assert.Equal(t, "2027/28", reg.DefaultYear())

	rules, found := reg.Lookup("2027/28")
	require.True(t, found)
	assert.Equal(t, 13000.0, rules.PersonalAllowance)
	assert.Equal(t, 0.1075, rules.Rates.Dividends.Basic)
	assert.True(t, rules.ScottishBands[1].Unbounded())
}

func TestLoadFileErrors(t *testing.T) {
	_, err := LoadFile(Builtin(), filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = Parse(Builtin(), []byte("years: []"))
	assert.Error(t, err)

	_, err = Parse(Builtin(), []byte("years: [unclosed"))
	assert.Error(t, err)
}

func TestScottishBandJSON(t *testing.T) {
	data, err := json.Marshal([]ScottishBand{
		{Limit: 2827, Rate: 0.19},
		{Limit: unbounded, Rate: 0.48},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `[{"limit":2827,"rate":0.19},{"limit":null,"rate":0.48}]`, string(data))
}

func TestMarshalYAML(t *testing.T) {
	rules, _ := Builtin().Lookup("2026/27")
	data, err := Marshal(rules)
	require.NoError(t, err)
	assert.Contains(t, string(data), "taxYear: 2026/27")
	assert.Contains(t, string(data), ".inf")
}
