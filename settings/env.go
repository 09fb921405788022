package settings

import (
	"fmt"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const Prefix = "TROT_RACE_BOT"

func LoadEnvFiles() {
	environment := os.Getenv(EnvKey("ENV"))
	if environment == "" {
		environment = "development"
	}

	godotenv.Load(".env." + environment + ".local")
	godotenv.Load(".env." + environment)
	godotenv.Load()
}

// ParseEnv fills target from TROT_RACE_BOT_* variables.
func ParseEnv(target any) error {
	if err := env.ParseWithOptions(target, env.Options{Prefix: Prefix + "_"}); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}

	return nil
}

func EnvKey(str string) string {
	return fmt.Sprintf("%s_%s", Prefix, str)
}
