package taxrules

import (
	"fmt"
	"os"
	"sort"

	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxyear"
	"gopkg.in/yaml.v3"
)

// Registry is a read-only table of rule sets keyed by tax-year label. It is
// safe for concurrent use once constructed.
type Registry struct {
	rules       map[string]Rules
	defaultYear string
}

// NewRegistry builds a registry from the given rule sets. Each set's TaxYear
// is normalized to the "2025/26" form and used as its key. defaultYear must
// name one of the sets.
func NewRegistry(defaultYear string, sets ...Rules) (*Registry, error) {
	reg := &Registry{rules: make(map[string]Rules, len(sets))}
	for _, set := range sets {
		year, err := taxyear.Normalize(set.TaxYear)
		if err != nil {
			return nil, fmt.Errorf("rule set: %w", err)
		}
		set.TaxYear = year
		reg.rules[year] = set.Clone()
	}

	year, err := taxyear.Normalize(defaultYear)
	if err != nil {
		return nil, fmt.Errorf("default year: %w", err)
	}
	if _, ok := reg.rules[year]; !ok {
		return nil, fmt.Errorf("default year %s has no rule set", year)
	}
	reg.defaultYear = year
	return reg, nil
}

// Builtin returns the registry of rule sets shipped with the module.
func Builtin() *Registry {
	reg, err := NewRegistry(constants.DefaultTaxYear, rules2024(), rules2025(), rules2026())
	if err != nil {
		panic(fmt.Sprintf("invalid builtin tax rules: %v", err))
	}
	return reg
}

// Lookup returns a copy of the rules for taxYear. Unknown or malformed years
// fall back to the default year, in which case found is false.
func (r *Registry) Lookup(taxYear string) (rules Rules, found bool) {
	if year, err := taxyear.Normalize(taxYear); err == nil {
		if set, ok := r.rules[year]; ok {
			return set.Clone(), true
		}
	}
	return r.rules[r.defaultYear].Clone(), false
}

// Has reports whether the registry carries rules for taxYear.
func (r *Registry) Has(taxYear string) bool {
	year, err := taxyear.Normalize(taxYear)
	if err != nil {
		return false
	}
	_, ok := r.rules[year]
	return ok
}

// DefaultYear returns the fallback tax year.
func (r *Registry) DefaultYear() string {
	return r.defaultYear
}

// Years returns every supported tax year in ascending order.
func (r *Registry) Years() []string {
	years := make([]string, 0, len(r.rules))
	for year := range r.rules {
		years = append(years, year)
	}
	sort.Strings(years)
	return years
}

// ruleFile is the on-disk layout accepted by LoadFile.
type ruleFile struct {
	DefaultYear string  `yaml:"defaultYear"`
	Years       []Rules `yaml:"years"`
}

// Merge returns a new registry holding r's rule sets overlaid with sets.
// Sets for an existing year replace it whole.
func (r *Registry) Merge(defaultYear string, sets ...Rules) (*Registry, error) {
	all := make([]Rules, 0, len(r.rules)+len(sets))
	for _, year := range r.Years() {
		all = append(all, r.rules[year])
	}
	all = append(all, sets...)
	if defaultYear == "" {
		defaultYear = r.defaultYear
	}
	return NewRegistry(defaultYear, all...)
}

// LoadFile reads YAML rule tables from path and merges them over base.
func LoadFile(base *Registry, path string) (*Registry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return Parse(base, data)
}

// Parse decodes YAML rule tables and merges them over base.
func Parse(base *Registry, data []byte) (*Registry, error) {
	var file ruleFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}
	if len(file.Years) == 0 {
		return nil, fmt.Errorf("rules file defines no tax years")
	}
	return base.Merge(file.DefaultYear, file.Years...)
}

// Marshal renders a rule set as YAML.
func Marshal(rules Rules) ([]byte, error) {
	return yaml.Marshal(rules)
}
