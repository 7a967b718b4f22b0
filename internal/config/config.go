package config

import (
	"os"

	"github.com/joho/godotenv"
)

// Config holds everything the process reads from the environment.
type Config struct {
	Port              string
	DBDriver          string
	DBDSN             string
	JWTSecret         string
	UploadDir         string
	AWSRegion         string
	SpoonacularAPIKey string
	OCRLanguage       string
}

// Load reads configuration from the environment, loading a .env file first
// when one is present. Missing values fall back to development defaults.
func Load() Config {
	// A missing .env is fine; the environment may already be populated.
	_ = godotenv.Load()

	return Config{
		Port:              getenv("PORT", "5000"),
		DBDriver:          getenv("DB_DRIVER", "sqlite"),
		DBDSN:             getenv("DB_DSN", "database.db"),
		JWTSecret:         getenv("SECRET_KEY", "fallback_secret"),
		UploadDir:         getenv("UPLOAD_DIR", "uploads"),
		AWSRegion:         getenv("AWS_REGION", "eu-west-1"),
		SpoonacularAPIKey: os.Getenv("SPOONACULAR_API_KEY"),
		OCRLanguage:       getenv("OCR_LANGUAGE", "eng"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
