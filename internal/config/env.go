package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// EnvAIAPIKey names the variable holding the AI endpoint key.
const EnvAIAPIKey = "ONTAP_AI_API_KEY"

// LoadEnv loads variables from a .env file without overriding ones already
// set. A missing file is not an error.
func LoadEnv(path string) error {
	if path == "" {
		return nil
	}
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to stat env file: %w", err)
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("failed to load env file: %w", err)
	}
	return nil
}

// AIAPIKey returns the AI key from the environment.
func AIAPIKey() string {
	return strings.TrimSpace(os.Getenv(EnvAIAPIKey))
}
