package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/AI2HU/dbmanager/internal/config"
)

// promptWithRetry prompts the user for input and retries on invalid input
func promptWithRetry(reader *bufio.Reader, out io.Writer, prompt string, validator func(string) (string, error)) (string, error) {
	for {
		fmt.Fprint(out, prompt)
		input, err := reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || input == "") {
			return "", err
		}
		input = strings.TrimSpace(input)

		result, verr := validator(input)
		if verr == nil {
			return result, nil
		}

		fmt.Fprintf(out, "❌ %s\n\n", verr.Error())
		if err != nil {
			return "", err
		}
	}
}

// promptYesNo prompts for yes/no input with retry
func promptYesNo(reader *bufio.Reader, out io.Writer, prompt string) (bool, error) {
	result, err := promptWithRetry(reader, out, prompt, func(input string) (string, error) {
		lower := strings.ToLower(input)
		if lower == "y" || lower == "yes" || lower == "n" || lower == "no" || lower == "" {
			return lower, nil
		}
		return "", fmt.Errorf("invalid input: %s (enter y/yes/n/no or press Enter for no)", input)
	})
	if err != nil {
		return false, err
	}

	return result == "y" || result == "yes", nil
}

// promptOptional prompts for optional input with default value
func promptOptional(reader *bufio.Reader, out io.Writer, prompt string, defaultValue string) (string, error) {
	return promptWithRetry(reader, out, prompt, func(input string) (string, error) {
		if input == "" {
			return defaultValue, nil
		}
		return input, nil
	})
}

// connectTimeout bounds connection attempts
func connectTimeout(cfg *config.Config) time.Duration {
	if cfg != nil && cfg.OperationTimeout > 0 {
		return cfg.OperationTimeout
	}
	return 10 * time.Second
}
