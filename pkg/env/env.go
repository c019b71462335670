package env

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

// Load loads environment variables from .env file
func Load() {
	if err := godotenv.Load(); err != nil {
		log.Printf("No .env file found")
	}
}

// StringVariable returns the value of an environment variable or a default value
func StringVariable(name, defaultValue string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return defaultValue
}
