package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

var (
	PORT           string
	DB_URL         string
	SESSION_SECRET string
	APP_URL        string
	CORS_ORIGIN    string
	WEB_DIR        string
	COOKIE_SECURE  bool

	PAKASIR_PROJECT  string
	PAKASIR_API_KEY  string
	PAKASIR_BASE_URL string
	GATEWAY_TIMEOUT  time.Duration

	FONNTE_TOKEN     string
	FONNTE_BASE_URL  string
	WHATSAPP_TIMEOUT time.Duration

	REDIS_ADDR string

	GOOGLE_CLIENT_ID     string
	GOOGLE_CLIENT_SECRET string
	GOOGLE_REDIRECT_URL  string

	LOG_LEVEL  string
	LOG_FORMAT string
)

func LoadEnv() {
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}

	PORT = getEnv("PORT", "8080")
	DB_URL = mustEnv("DB_URL")
	SESSION_SECRET = mustEnv("SESSION_SECRET")
	APP_URL = getEnv("APP_URL", "http://localhost:"+PORT)
	CORS_ORIGIN = getEnv("CORS_ORIGIN", APP_URL)
	WEB_DIR = getEnv("WEB_DIR", "web/dist")
	COOKIE_SECURE = getBool("COOKIE_SECURE", false)

	PAKASIR_PROJECT = mustEnv("PAKASIR_PROJECT")
	PAKASIR_API_KEY = mustEnv("PAKASIR_API_KEY")
	PAKASIR_BASE_URL = getEnv("PAKASIR_BASE_URL", "https://app.pakasir.com")
	GATEWAY_TIMEOUT = getDuration("GATEWAY_TIMEOUT", 10*time.Second)

	// WhatsApp is optional; an empty token disables sending.
	FONNTE_TOKEN = getEnv("FONNTE_TOKEN", "")
	FONNTE_BASE_URL = getEnv("FONNTE_BASE_URL", "https://api.fonnte.com")
	WHATSAPP_TIMEOUT = getDuration("WHATSAPP_TIMEOUT", 10*time.Second)

	REDIS_ADDR = getEnv("REDIS_ADDR", "")

	GOOGLE_CLIENT_ID = getEnv("GOOGLE_CLIENT_ID", "")
	GOOGLE_CLIENT_SECRET = getEnv("GOOGLE_CLIENT_SECRET", "")
	GOOGLE_REDIRECT_URL = getEnv("GOOGLE_REDIRECT_URL", APP_URL+"/api/auth/google/callback")

	LOG_LEVEL = getEnv("LOG_LEVEL", "info")
	LOG_FORMAT = getEnv("LOG_FORMAT", "text")
}

func mustEnv(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("Missing required environment variable: %s", key)
	}
	return v
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Printf("Invalid boolean for %s=%q, using %v", key, v, fallback)
		return fallback
	}
	return b
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("Invalid duration for %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
