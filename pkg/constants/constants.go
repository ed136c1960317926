// Package constants provides shared constants for the calcdash application.
package constants

// DateLayout is the day format used by every persisted record.
const DateLayout = "2006-01-02"

// MonthLayout is the format used for month buckets and month filters.
const MonthLayout = "2006-01"

// ClockLayout is the format used for sleep and wake times.
const ClockLayout = "15:04"

// Financial constants
const (
	// MonthsPerYear is the number of months in a year
	MonthsPerYear = 12

	// DaysPerMonth is the billing month length used for electricity estimates
	DaysPerMonth = 30

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// CurrencySymbol prefixes formatted amounts
	CurrencySymbol = "₹"
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "calcdash.yaml"

	// EnvPrefix is the prefix for environment overrides, e.g. CALCDASH_STORAGE_BACKEND
	EnvPrefix = "CALCDASH"

	// DefaultDataDir holds the JSON files of the file backend
	DefaultDataDir = "."

	// DefaultSQLitePath is the database file of the sqlite backend
	DefaultSQLitePath = "calcdash.db"
)

// Storage backends
const (
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"
)

// Storage keys of the persisted logs. The file backend appends ".json".
const (
	KeyAppliances = "appliance_usage"
	KeyExpenses   = "expenses"
	KeyGrocery    = "grocery_data"
	KeySleep      = "sleep_data"
	KeyTasks      = "tasks_history"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (256 KB)
	DefaultMaxBodySizeBytes int64 = 256 * 1024
)

// Domain defaults
const (
	// DefaultElectricityRate is the price per kWh
	DefaultElectricityRate = 8.0

	// DefaultCategoryBudget is the monthly budget assumed for each expense category
	DefaultCategoryBudget = 1000.0

	// DefaultSleepTarget is the recommended nightly sleep in hours
	DefaultSleepTarget = 8.0

	// DefaultMaxExtraSleep is the maximum recovery sleep per day in hours
	DefaultMaxExtraSleep = 2.0
)
