package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr      string
	LogLevel  string
	PublicURL string
}

// Load reads a local .env if present, then the environment.
func Load() Config {
	_ = godotenv.Load()
	return Config{
		Addr:      getEnv("ADDR", ":8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		PublicURL: getEnv("PUBLIC_URL", "http://localhost:8080"),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
