// Package assessment runs the tax engine over configured scenarios,
// resolving each scenario's tax year against a rule registry and attaching
// explanatory notes.
package assessment

import (
	"fmt"
	"strings"
	"time"

	"github.com/iwvelando/uk-tax-calculator/internal/config"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxengine"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxyear"
	"go.uber.org/zap"
)

// Result holds all information related to one assessed scenario.
type Result struct {
	Name             string           `json:"name"`
	RequestedTaxYear string           `json:"requestedTaxYear,omitempty"`
	TaxYear          string           `json:"taxYear"`
	FellBack         bool             `json:"fellBack"`
	Tax              taxengine.Result `json:"result"`
	Notes            []string         `json:"notes,omitempty"`
}

// Runner assesses scenarios against a registry. It holds no mutable state
// and may be shared between goroutines.
type Runner struct {
	logger   *zap.Logger
	registry *taxrules.Registry
	now      func() time.Time
}

// NewRunner creates a runner. A nil logger is replaced with a no-op logger
// and a nil registry with the builtin one.
func NewRunner(logger *zap.Logger, registry *taxrules.Registry) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if registry == nil {
		registry = taxrules.Builtin()
	}
	return &Runner{logger: logger, registry: registry, now: time.Now}
}

// WithClock returns a copy of the runner that takes "today" from now. The
// current date picks the tax year when none is requested.
func (r *Runner) WithClock(now func() time.Time) *Runner {
	clone := *r
	clone.now = now
	return &clone
}

// Registry returns the runner's rule registry.
func (r *Runner) Registry() *taxrules.Registry {
	return r.registry
}

// ResolveRules picks the rule set for a requested tax year. An empty request
// means the tax year containing today. fellBack reports that the registry
// default was used instead.
func (r *Runner) ResolveRules(requested string) (rules taxrules.Rules, fellBack bool) {
	year := strings.TrimSpace(requested)
	if year == "" {
		year = taxyear.ForDate(r.now())
	}
	rules, found := r.registry.Lookup(year)
	return rules, !found
}

// Assess computes one scenario.
func (r *Runner) Assess(name, requestedYear string, inputs taxengine.Inputs) Result {
	rules, fellBack := r.ResolveRules(requestedYear)
	tax := taxengine.Compute(inputs, rules)

	result := Result{
		Name:             name,
		RequestedTaxYear: requestedYear,
		TaxYear:          rules.TaxYear,
		FellBack:         fellBack,
		Tax:              tax,
	}
	if fellBack {
		requested := requestedYear
		if strings.TrimSpace(requested) == "" {
			requested = taxyear.ForDate(r.now())
		}
		result.Notes = append(result.Notes, fmt.Sprintf("No rules for tax year %s; figures use %s rules.", requested, rules.TaxYear))
		r.logger.Warn("tax year not supported, using default rules",
			zap.String("op", "assessment.Assess"),
			zap.String("scenario", name),
			zap.String("requested", requested),
			zap.String("taxYear", rules.TaxYear),
		)
	}
	result.Notes = append(result.Notes, Notes(tax)...)

	r.logger.Debug("scenario assessed",
		zap.String("op", "assessment.Assess"),
		zap.String("scenario", name),
		zap.String("taxYear", rules.TaxYear),
		zap.String("regime", tax.Regime),
		zap.Float64("baselineTax", tax.Totals.BaselineTax),
		zap.Float64("reliefUsed", tax.Totals.ReliefUsed),
		zap.Float64("residualTax", tax.Totals.ResidualTax),
	)
	return result
}

// Run assesses every active scenario in conf, in file order.
func (r *Runner) Run(conf config.Configuration) ([]Result, error) {
	active := conf.ActiveScenarios()
	if skipped := len(conf.Scenarios) - len(active); skipped > 0 {
		r.logger.Debug(fmt.Sprintf("skipping %d inactive scenarios", skipped),
			zap.String("op", "assessment.Run"),
		)
	}

	var results []Result
	for _, scenario := range active {
		results = append(results, r.Assess(scenario.Name, conf.TaxYearFor(scenario), scenario.EngineInputs()))
	}

	if len(results) == 0 {
		return nil, fmt.Errorf("no active scenarios to assess")
	}
	return results, nil
}
