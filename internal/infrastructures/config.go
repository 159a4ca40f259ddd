package infrastructures

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type AppConfig struct {
	DATABASE_URL              string
	REDIS_ADDRESS             string
	REDIS_PASSWORD            string
	REGISTRY_PRIVATE_KEY_PATH string
	OTC_ATTEMPTS_BUDGET       int
	VOUCHER_SECRET_LENGTH     int
	REQUEST_PASSWORD_LENGTH   int
}

func LoadConfig() *AppConfig {
	godotenv.Load()

	return &AppConfig{
		DATABASE_URL:              os.Getenv("DATABASE_URL"),
		REDIS_ADDRESS:             os.Getenv("REDIS_ADDRESS"),
		REDIS_PASSWORD:            os.Getenv("REDIS_PASSWORD"),
		REGISTRY_PRIVATE_KEY_PATH: os.Getenv("REGISTRY_PRIVATE_KEY_PATH"),
		OTC_ATTEMPTS_BUDGET:       getEnvInt("OTC_ATTEMPTS_BUDGET", 3),
		VOUCHER_SECRET_LENGTH:     getEnvInt("VOUCHER_SECRET_LENGTH", 32),
		REQUEST_PASSWORD_LENGTH:   getEnvInt("REQUEST_PASSWORD_LENGTH", 8),
	}
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	n, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return n
}
