package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/AI2HU/dbmanager/internal/models"
)

const (
	// EnvConfigPath overrides the config file location
	EnvConfigPath = "DBMANAGER_CONFIG_PATH"
	// EnvMongoURI overrides the document store URI
	EnvMongoURI = "MONGO_ATLAS_CLUSTER_URI"
)

// Config represents the application configuration
type Config struct {
	SQLDatabase      DatabaseConfig `yaml:"sql_database"`   // sqlite, postgres or memory, used by sqlmanager
	NoSQLDatabase    DatabaseConfig `yaml:"nosql_database"` // mongodb, used by mongomanager
	API              APIConfig      `yaml:"api"`
	LogLevel         string         `yaml:"log_level"`
	OperationTimeout time.Duration  `yaml:"operation_timeout"`
}

// DatabaseConfig represents database configuration
type DatabaseConfig struct {
	Provider string            `yaml:"provider"` // sqlite, postgres, memory, mongodb
	URI      string            `yaml:"uri"`
	Database string            `yaml:"database"`
	Options  map[string]string `yaml:"options,omitempty"`
}

// APIConfig configures the REST API server
type APIConfig struct {
	Host       string  `yaml:"host"`
	Port       string  `yaml:"port"`
	CORSOrigin string  `yaml:"cors_origin"`
	RateLimit  float64 `yaml:"rate_limit"` // requests per second, 0 disables limiting
	Burst      int     `yaml:"burst"`
}

// ToModel converts the YAML section into the adapter config
func (d DatabaseConfig) ToModel() *models.Config {
	return &models.Config{
		Provider: d.Provider,
		URI:      d.URI,
		Database: d.Database,
		Options:  d.Options,
	}
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		SQLDatabase: DatabaseConfig{
			Provider: "sqlite",
			URI:      "example.db",
			Database: "example",
		},
		NoSQLDatabase: DatabaseConfig{
			Provider: "mongodb",
			URI:      "mongodb://localhost:27017",
			Database: "example_db",
		},
		API: APIConfig{
			Host:       "0.0.0.0",
			Port:       "8989",
			CORSOrigin: "*",
			RateLimit:  20,
			Burst:      40,
		},
		LogLevel:         "INFO",
		OperationTimeout: 10 * time.Second,
	}
}

// Load loads configuration from file. Fields missing from the file keep their defaults.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// LoadOrDefault loads the file when it exists and falls back to defaults
// otherwise. Environment overrides are applied in both cases.
func LoadOrDefault(path string) (*Config, error) {
	config := DefaultConfig()
	if Exists(path) {
		loaded, err := Load(path)
		if err != nil {
			return nil, err
		}
		config = loaded
	}

	config.ApplyEnv()
	return config, nil
}

// ApplyEnv applies environment variable overrides
func (c *Config) ApplyEnv() {
	if uri := os.Getenv(EnvMongoURI); uri != "" {
		c.NoSQLDatabase.URI = uri
	}
}

// Validate checks the fields the programs cannot run without
func (c *Config) Validate() error {
	switch c.SQLDatabase.Provider {
	case "sqlite", "postgres", "memory":
	default:
		return fmt.Errorf("unsupported sql_database provider: %q", c.SQLDatabase.Provider)
	}
	if c.NoSQLDatabase.Provider != "mongodb" {
		return fmt.Errorf("unsupported nosql_database provider: %q", c.NoSQLDatabase.Provider)
	}
	if c.OperationTimeout < 0 {
		return fmt.Errorf("operation_timeout must not be negative")
	}
	if c.API.RateLimit < 0 || c.API.Burst < 0 {
		return fmt.Errorf("api rate_limit and burst must not be negative")
	}
	return nil
}

// Save saves configuration to file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// Create directory if it doesn't exist
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the config file path, honoring DBMANAGER_CONFIG_PATH
func GetConfigPath() string {
	if path := os.Getenv(EnvConfigPath); path != "" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".dbmanager/config.yaml"
	}
	return filepath.Join(home, ".dbmanager", "config.yaml")
}

// Exists checks if config file exists
func Exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
