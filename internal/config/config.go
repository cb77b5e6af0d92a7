package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDriver       string
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	SQLitePath     string
	GinMode        string
	ListenAddr     string
	DigestSchedule string
}

func Load() *Config {
	// Load .env file if present
	_ = godotenv.Load()

	return &Config{
		DBDriver:       getEnv("DB_DRIVER", "sqlite"),
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "3306"),
		DBUser:         getEnv("DB_USER", "taskuser"),
		DBPassword:     getEnv("DB_PASSWORD", "taskpassword"),
		DBName:         getEnv("DB_NAME", "tasklist"),
		SQLitePath:     getEnv("SQLITE_PATH", "tasklist.db"),
		GinMode:        getEnv("GIN_MODE", "debug"),
		ListenAddr:     getEnv("LISTEN_ADDR", ":8080"),
		DigestSchedule: getEnv("DIGEST_TIME", "09:00"),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
