// Package constants provides shared constants for the uk-tax-calculator application.
package constants

// Tax year constants
const (
	// DefaultTaxYear is the rule set used when a requested tax year is unknown.
	DefaultTaxYear = "2025/26"

	// TaxYearStartMonth and TaxYearStartDay mark 6 April, the first day of a
	// UK tax year.
	TaxYearStartMonth = 4
	TaxYearStartDay   = 6
)

// Financial constants
const (
	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 penny)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// MaxAmount caps any single input amount so that summed income stays
	// finite.
	MaxAmount = 1e12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the machine-readable JSON output format
	OutputFormatJSON = "json"

	// OutputFormatPDF is the printable PDF report format
	OutputFormatPDF = "pdf"

	// DefaultPDFFile is where PDF reports are written when no file is given
	DefaultPDFFile = "tax-report.pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"

	// EnvPrefix prefixes environment overrides, e.g. UKTAX_TAXYEAR.
	EnvPrefix = "UKTAX"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum upload size for YAML configs (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024

	// CorrelationIDHeader carries the per-request correlation ID.
	CorrelationIDHeader = "X-Correlation-ID"
)
