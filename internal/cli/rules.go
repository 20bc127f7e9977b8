package cli

import (
	"fmt"

	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/spf13/cobra"
)

func newYearsCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "years",
		Short: "List the tax years with rule tables",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			reg, err := registry(opts.rulesFile)
			if err != nil {
				return err
			}
			for _, year := range reg.Years() {
				marker := ""
				if year == reg.DefaultYear() {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", year, marker)
			}
			return nil
		},
	}
}

func newRulesCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "rules [tax-year]",
		Short: "Print a tax year's rule table as YAML",
		Long: `Print the rule table used for a tax year. Without an argument the
default year is printed; an unknown year prints the default year's table.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			reg, err := registry(opts.rulesFile)
			if err != nil {
				return err
			}

			year := reg.DefaultYear()
			if len(args) == 1 {
				year = args[0]
			}
			rules, found := reg.Lookup(year)
			if !found {
				fmt.Fprintf(cmd.ErrOrStderr(), "no rules for %s, showing %s\n", year, rules.TaxYear)
			}

			data, err := taxrules.Marshal(rules)
			if err != nil {
				return fmt.Errorf("failed to encode rules: %w", err)
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}
