package config

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/joho/godotenv"
)

var once sync.Once

// LoadEnv loads environment variables from a .env file when one exists in
// the working directory or its parent. It runs once per process and stays
// silent because it is called before logging is configured.
func LoadEnv() {
	once.Do(func() {
		envFile := ".env"
		if _, err := os.Stat(envFile); os.IsNotExist(err) {
			envFile = filepath.Join("..", ".env")
			if _, err := os.Stat(envFile); os.IsNotExist(err) {
				return
			}
		}
		_ = godotenv.Load(envFile)
	})
}

// GetEnv retrieves an environment variable with a fallback value if not set.
func GetEnv(key, fallback string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		return fallback
	}
	return value
}
