package env

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
)

// Load reads .env (secrets, optional) and then .env.<APP_ENV>, which
// overrides it. It returns the files that were loaded.
func Load() ([]string, error) {
	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		appEnv = "dev"
	}

	var loaded []string
	if err := godotenv.Load(".env"); err == nil {
		loaded = append(loaded, ".env")
	} else if !os.IsNotExist(err) {
		return loaded, fmt.Errorf("load .env: %w", err)
	}

	envFile := fmt.Sprintf(".env.%s", appEnv)
	if err := godotenv.Overload(envFile); err == nil {
		loaded = append(loaded, envFile)
	} else if !os.IsNotExist(err) {
		return loaded, fmt.Errorf("load %s: %w", envFile, err)
	}

	return loaded, nil
}
