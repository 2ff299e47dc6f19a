// Package config provides environment-based configuration for gridset.
// Values come from GRIDSET_* environment variables (optionally seeded from a
// .env file by the caller) with defaults applied for unset variables.
// Command-line flags take precedence over everything loaded here.
package config

// Config holds all application configuration.
type Config struct {
	Logging LoggingConfig
	Ledger  LedgerConfig
	Augment AugmentConfig
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	// Level is the minimum log level: debug, info, warn, error (default: warn)
	Level string `env:"GRIDSET_LOG_LEVEL" default:"warn"`

	// Format is the log format: text or json (default: text)
	Format string `env:"GRIDSET_LOG_FORMAT" default:"text"`
}

// LedgerConfig holds run ledger settings.
type LedgerConfig struct {
	// Path is the SQLite ledger file. Empty disables the ledger.
	Path string `env:"GRIDSET_LEDGER"`
}

// AugmentConfig holds face column generation settings.
type AugmentConfig struct {
	// Seed fixes the random stream; 0 seeds from entropy (default: 0)
	Seed int64 `env:"GRIDSET_SEED" default:"0"`

	// Prefix names the generated face columns (default: iscc)
	Prefix string `env:"GRIDSET_FACE_PREFIX" default:"iscc"`
}
