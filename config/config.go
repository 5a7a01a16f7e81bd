package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all application configuration loaded from environment variables.
type Config struct {
	ListenAddr string

	// ListingsCSVPath, when set, is a static export loaded into the
	// default session at startup. Empty means the server starts with no
	// dataset and waits for uploads.
	ListingsCSVPath string

	ContactEmail string

	MaxUploadMB  int
	SessionLimit int
}

// Load reads the .env file and returns a populated Config struct.
func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("[config] No .env file found, falling back to system env vars")
	}

	return &Config{
		ListenAddr:      getEnv("LISTEN_ADDR", ":8080"),
		ListingsCSVPath: getEnv("LISTINGS_CSV_PATH", ""),
		ContactEmail:    getEnv("CONTACT_EMAIL", "info@brokerage.example"),

		MaxUploadMB:  getEnvInt("MAX_UPLOAD_MB", 16),
		SessionLimit: getEnvInt("SESSION_LIMIT", 100),
	}
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		n, err := strconv.Atoi(val)
		if err == nil {
			return n
		}
	}
	return fallback
}
