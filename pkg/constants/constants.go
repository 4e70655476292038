// Package constants provides shared constants for the mortgage-calculator application.
package constants

// DateTimeLayout is the format expected for loan start dates and is also the
// output date format for schedule labels.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// PayoffTolerance is the remaining balance below which a loan counts as
	// paid off; it absorbs floating point residue in the final month.
	PayoffTolerance = 1e-6
)

// Calculation defaults
const (
	// DefaultPeriodMonths is the default period used for period-to-date totals
	DefaultPeriodMonths = 12

	// DefaultPageSize is the number of schedule rows shown per page
	DefaultPageSize = 12

	// DefaultCurrency is the currency symbol used when none is configured
	DefaultCurrency = "$"

	// MaxTermYears bounds the loan term accepted by the engine
	MaxTermYears = 100

	// MaxInterestRate bounds the annual rate, in percent
	MaxInterestRate = 1000.0

	// MaxLoanAmount bounds the principal accepted by the engine
	MaxLoanAmount = 1e12
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// ExportFormatPDF is the PDF export format, which is not implemented
	ExportFormatPDF = "pdf"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxUploadSizeBytes is the default maximum request body size (256 KB)
	DefaultMaxUploadSizeBytes int64 = 256 * 1024
)
