// Package constants provides shared constants for the refrigerant-blend application.
package constants

// Tolerance constants
const (
	// ValidationTolerance is the absolute slack allowed when checking a
	// requested target weight against the refuel cap or the current mass.
	ValidationTolerance = 1e-6

	// PresenceEpsilon is the minimum mass an element marked present must
	// carry in the combined mixture model. It rules out degenerate
	// solutions where an element is flagged present with zero mass.
	PresenceEpsilon = 1e-6

	// MassTolerance is the absolute tolerance used when comparing solved
	// masses, e.g. the final composition sum against the target weight.
	MassTolerance = 1e-4

	// DecimalPrecision is the precision for mass rounding in pretty output
	// (three decimal places, i.e. grams).
	DecimalPrecision = 1000
)

// Output format constants
const (
	// OutputFormatJSON is the machine-readable output format
	OutputFormatJSON = "json"

	// OutputFormatPretty is the human-readable output format
	OutputFormatPretty = "pretty"
)

// Configuration file constants
const (
	// DefaultConfigFile is the default configuration file name
	DefaultConfigFile = "config.yaml"
)

// Server configuration defaults
const (
	// DefaultServerAddress is the default HTTP listen address for the API
	DefaultServerAddress = ":8080"

	// DefaultMaxBodyBytes is the default request body size limit for the API
	DefaultMaxBodyBytes = 1 << 20
)
