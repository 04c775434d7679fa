package models

// Configuration models

// Config holds database configuration
type Config struct {
	Provider string            // sqlite, postgres, mongodb
	URI      string            // Connection URI or file path
	Database string            // Database name
	Options  map[string]string // Provider-specific options
}
