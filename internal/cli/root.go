// Package cli wires the cobra command tree for the uk-tax-calculator binary.
package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/iwvelando/uk-tax-calculator/internal/assessment"
	"github.com/iwvelando/uk-tax-calculator/internal/config"
	"github.com/iwvelando/uk-tax-calculator/internal/logging"
	"github.com/iwvelando/uk-tax-calculator/pkg/constants"
	"github.com/iwvelando/uk-tax-calculator/pkg/output"
	"github.com/iwvelando/uk-tax-calculator/pkg/taxrules"
	"github.com/iwvelando/uk-tax-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type rootOptions struct {
	configPath   string
	outputFormat string
	outputFile   string
	taxYear      string
	logLevel     string
	rulesFile    string
}

// Execute runs the root command.
func Execute(version string) error {
	return NewRootCommand(version).Execute()
}

// NewRootCommand builds the command tree. Running the root command assesses
// every active scenario in the configuration file.
func NewRootCommand(version string) *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "uk-tax-calculator",
		Short: "UK income tax, capital gains tax and investment relief calculator",
		Long: `uk-tax-calculator computes UK income tax, dividend tax and capital gains
tax for the scenarios in a YAML file, including EIS, SEIS and VCT income tax
relief, under the rules of a chosen tax year.`,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runAssessment(cmd.OutOrStdout(), opts)
		},
	}

	rootCmd.PersistentFlags().StringVar(&opts.rulesFile, "rules", "", "YAML rule tables merged over the builtin tax years")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")

	rootCmd.Flags().StringVarP(&opts.configPath, "config", "c", constants.DefaultConfigFile, "path to configuration file")
	rootCmd.Flags().StringVar(&opts.outputFormat, "output-format", "", "type of output override: pretty, csv, json, pdf")
	rootCmd.Flags().StringVarP(&opts.outputFile, "output-file", "o", "", "write output to this file instead of stdout")
	rootCmd.Flags().StringVar(&opts.taxYear, "tax-year", "", "tax year override for scenarios without their own, e.g. 2025/26")

	rootCmd.AddCommand(newYearsCommand(opts))
	rootCmd.AddCommand(newRulesCommand(opts))
	rootCmd.AddCommand(newServeCommand(opts, version))

	return rootCmd
}

// registry returns the builtin rules, overlaid with path when set.
func registry(path string) (*taxrules.Registry, error) {
	if path == "" {
		return taxrules.Builtin(), nil
	}
	reg, err := taxrules.LoadFile(taxrules.Builtin(), path)
	if err != nil {
		return nil, fmt.Errorf("failed to load rules: %w", err)
	}
	return reg, nil
}

func runAssessment(stdout io.Writer, opts *rootOptions) error {
	conf, err := config.LoadConfiguration(opts.configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration at %s: %w", opts.configPath, err)
	}

	logger, err := logging.New(conf.Logging, opts.logLevel)
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer func() {
		_ = logger.Sync()
	}()

	// CLI overrides take precedence over the file
	if opts.taxYear != "" {
		conf.TaxYear = opts.taxYear
	}
	if opts.rulesFile != "" {
		conf.RulesFile = opts.rulesFile
	}
	outputFormat := conf.Output.Format
	if opts.outputFormat != "" {
		outputFormat = opts.outputFormat
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}
	outputFile := conf.Output.File
	if opts.outputFile != "" {
		outputFile = opts.outputFile
	}
	if outputFormat == constants.OutputFormatPDF && outputFile == "" {
		outputFile = constants.DefaultPDFFile
	}

	if err := validation.ValidateOutputFormat(outputFormat); err != nil {
		return err
	}

	reg, err := conf.Registry()
	if err != nil {
		return fmt.Errorf("failed to load rules: %w", err)
	}

	for _, warning := range conf.ValidateConfiguration(reg) {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "cli.runAssessment"),
		)
	}

	results, err := assessment.NewRunner(logger, reg).Run(*conf)
	if err != nil {
		return fmt.Errorf("failed to compute assessment: %w", err)
	}

	if outputFile == "" {
		return output.Write(stdout, outputFormat, results)
	}

	file, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := output.Write(file, outputFormat, results); err != nil {
		_ = file.Close()
		return err
	}
	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}

	logger.Info("output written",
		zap.String("op", "cli.runAssessment"),
		zap.String("file", outputFile),
		zap.String("format", outputFormat),
		zap.Int("scenarios", len(results)),
	)
	return nil
}
