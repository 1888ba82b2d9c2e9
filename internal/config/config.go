package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	DatabaseURL    string
	Port           string
	GinMode        string
	JWTSecret      string
	AccessTokenTTL time.Duration
	Debug          bool
}

// Load reads configuration from the environment, with an optional .env file.
// The returned value is injected into services at construction time; there is
// no package-level settings singleton.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		logrus.Debug("no .env file found, using environment variables only")
	}

	ttlMinutes, err := strconv.Atoi(getEnv("ACCESS_TOKEN_EXPIRE_MINUTES", "30"))
	if err != nil || ttlMinutes <= 0 {
		ttlMinutes = 30
	}

	return &Config{
		DatabaseURL:    getEnv("DATABASE_URL", "host=localhost user=teamdash password=teamdash dbname=teamdash port=5432 sslmode=disable"),
		Port:           getEnv("PORT", "8080"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		JWTSecret:      getEnv("JWT_SECRET_KEY", "dev-secret-key-change-this-in-production"),
		AccessTokenTTL: time.Duration(ttlMinutes) * time.Minute,
		Debug:          getEnv("DEBUG", "false") == "true",
	}
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
