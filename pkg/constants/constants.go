// Package constants provides shared constants for the yacht-calculate application.
package constants

// Currency constants
const (
	// CurrencySymbol is appended to formatted amounts ("#,##0.00 €").
	CurrencySymbol = "€"

	// DecimalPrecision is the precision for currency rounding (2 decimal places)
	DecimalPrecision = 100

	// CurrencyTolerance is the tolerance for currency comparisons (1 cent)
	CurrencyTolerance = 0.01

	// PercentageMultiplier is used for percentage conversions
	PercentageMultiplier = 100.0
)

// Schedule names
const (
	// ScheduleBasic takes the crew size as an input.
	ScheduleBasic = "basic"

	// ScheduleCrewAware derives the crew from the vessel length.
	ScheduleCrewAware = "crew-aware"

	// DefaultSchedule is used when a yacht does not name one.
	DefaultSchedule = ScheduleBasic
)

// Default inputs offered by interactive collaborators.
const (
	DefaultYachtValue  = 1_000_000.0
	DefaultYachtLength = 15.0
	DefaultCrewMembers = 2

	YachtValueStep  = 100_000.0
	YachtLengthStep = 1.0
)

// Output format constants
const (
	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"

	// OutputFormatCSV is the CSV output format
	OutputFormatCSV = "csv"

	// OutputFormatJSON is the JSON output format
	OutputFormatJSON = "json"

	// OutputFormatXLSX is the spreadsheet output format
	OutputFormatXLSX = "xlsx"
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
	// DefaultServerAddress is the default HTTP listen address for the web UI
	DefaultServerAddress = ":8080"

	// DefaultMaxBodySizeBytes is the default maximum request body size (64 KB)
	DefaultMaxBodySizeBytes int64 = 64 * 1024

	// DefaultRateLimitRequests is the number of requests a client may issue per window
	DefaultRateLimitRequests = 60

	// DefaultRateLimitWindow is the refill window of the rate limiter
	DefaultRateLimitWindow = "1m"

	// CacheBackendMemory keeps estimates in process memory
	CacheBackendMemory = "memory"

	// CacheBackendRedis keeps estimates in Redis
	CacheBackendRedis = "redis"

	// CacheBackendNone disables caching
	CacheBackendNone = "none"

	// DefaultCacheTTL is how long a cached estimate stays valid
	DefaultCacheTTL = "10m"
)
