package utils

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

func init() {
	_ = godotenv.Load()
}

func MustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic("Missing required environment variable: " + key)
	}
	return val
}

func GetEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

// HasEnv reports whether an optional backend has been configured
func HasEnv(key string) bool {
	return os.Getenv(key) != ""
}

// GetEnvSeconds reads a whole number of seconds, falling back on missing or invalid values
func GetEnvSeconds(key string, defaultVal time.Duration) time.Duration {
	n, err := strconv.Atoi(os.Getenv(key))
	if err != nil || n <= 0 {
		return defaultVal
	}
	return time.Duration(n) * time.Second
}
