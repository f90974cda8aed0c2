// Package constants provides shared constants for the mortgage-calc application.
package constants

// DateTimeLayout is the format accepted for schedule start dates and is also
// the output date format.
const DateTimeLayout = "2006-01"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// BiweeklyPeriodsPerYear is the number of bi-weekly payments in a year
	BiweeklyPeriodsPerYear = 26

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// RelativeTolerance is the tolerance used when checking that amortization
	// walks agree with closed-form results.
	RelativeTolerance = 1e-6
)

// Canadian qualification defaults. These are policy values and are only the
// fallbacks used when configuration does not override them.
const (
	// DefaultPropertyTaxRate is the assumed annual property tax as a fraction
	// of the purchase price.
	DefaultPropertyTaxRate = 0.008

	// DefaultHeatingCost is the assumed monthly heating cost.
	DefaultHeatingCost = 150.0

	// DefaultStressTestBuffer is added to the contract rate (percent) for the
	// stress test.
	DefaultStressTestBuffer = 2.0

	// DefaultStressTestFloor is the minimum qualifying rate (percent).
	DefaultStressTestFloor = 5.25

	// DefaultQualifyingAmortizationYears is the amortization used to qualify.
	DefaultQualifyingAmortizationYears = 25

	// DefaultMaxIterations caps the purchase price fixed-point solve.
	DefaultMaxIterations = 10

	// DefaultConvergenceThreshold stops the solve once successive price
	// estimates differ by less than this amount.
	DefaultConvergenceThreshold = 100.0
)

// Credit tiers
const (
	CreditTierExcellent = "excellent"
	CreditTierGood      = "good"
	CreditTierFair      = "fair"
	CreditTierPoor      = "poor"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"

	// ExampleConfigFile is the example configuration file name
	ExampleConfigFile = "config.yaml.example"

	// DefaultServerConfigFile is the default server configuration file name
	DefaultServerConfigFile = "server-config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024

	// DefaultRateLimitRequests is the number of API requests allowed per
	// client in each rate limit window.
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the rate limit window, parsed with time.ParseDuration.
	DefaultRateLimitWindow = "1m"
)
