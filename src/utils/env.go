package utils

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

const envFilename = ".env"

// InitEnvironmentVariables loads credentials from a .env file. Production
// deployments (GitHub Actions) inject secrets directly, so the file is
// optional there.
func InitEnvironmentVariables() error {
	if os.Getenv("GO_ENV") == "production" {
		log.Info("Running in production environment")
		return nil
	}

	if _, err := os.Stat(envFilename); os.IsNotExist(err) {
		log.Warnf("no %s file found, relying on process environment", envFilename)
		return nil
	}

	if err := godotenv.Load(envFilename); err != nil {
		return fmt.Errorf("InitEnvironmentVariables: failed to load %s file: %w", envFilename, err)
	}

	return nil
}

func GetEnv(name string) (string, error) {
	value := os.Getenv(name)
	if value == "" {
		return "", fmt.Errorf("GetEnv: $%s not set", name)
	}

	return value, nil
}
