package cli

import (
	"fmt"
	"strconv"
	"strings"
)

// validateProvider checks a provider name against what the program supports
func validateProvider(input, defaultValue string, relational bool) (string, error) {
	input = strings.ToLower(strings.TrimSpace(input))
	if input == "" {
		return defaultValue, nil
	}

	if relational {
		switch input {
		case "sqlite", "postgres", "memory":
			return input, nil
		}
		return "", fmt.Errorf("unsupported provider: %s (choose sqlite, postgres or memory)", input)
	}

	if input != "mongodb" {
		return "", fmt.Errorf("unsupported provider: %s (only mongodb is supported)", input)
	}
	return input, nil
}

// validateURI checks the URI shape expected by the provider
func validateURI(input, defaultValue, provider string) (string, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		if defaultValue == "" {
			return "", fmt.Errorf("database URI is required")
		}
		return defaultValue, nil
	}

	switch provider {
	case "mongodb":
		if !strings.HasPrefix(input, "mongodb://") && !strings.HasPrefix(input, "mongodb+srv://") {
			return "", fmt.Errorf("MongoDB URI must start with mongodb:// or mongodb+srv://")
		}
	case "postgres":
		if !strings.HasPrefix(input, "postgres://") && !strings.HasPrefix(input, "postgresql://") && !strings.Contains(input, "=") {
			return "", fmt.Errorf("PostgreSQL URI must be a postgres:// URL or a key=value DSN")
		}
	}

	return input, nil
}

// validateNumber validates numeric input within a range
func validateNumber(input string, min, max int) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return min, nil
	}

	num, err := strconv.Atoi(input)
	if err != nil {
		return 0, fmt.Errorf("invalid number: %s (enter a positive integer)", input)
	}

	if num < min || num > max {
		return 0, fmt.Errorf("number must be between %d and %d, got: %d", min, max, num)
	}

	return num, nil
}

// validatePort checks a TCP port; unlike menu numbers it has no default
func validatePort(input string) error {
	if strings.TrimSpace(input) == "" {
		return fmt.Errorf("port is required")
	}
	_, err := validateNumber(input, 1, 65535)
	return err
}
