package config

import (
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	Env         string
	Port        string
	CORSOrigins string

	// Storage
	MessagesFile string
	UploadDir    string

	// Base URL clients use to resolve media links, e.g. "https://chat.example.com".
	// Empty means relative URLs.
	PublicBaseURL string

	// Push notifications (ntfy-compatible). Empty PushURL disables them.
	PushURL   string
	PushTopic string
	PushToken string
}

func Load() *Config {
	// .env is a development convenience; missing file is fine.
	_ = godotenv.Load()

	return &Config{
		Env:           getEnv("ENV", "development"),
		Port:          getEnv("PORT", "5000"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		MessagesFile:  getEnv("MESSAGES_FILE", "messages.json"),
		UploadDir:     getEnv("UPLOAD_DIR", "uploads"),
		PublicBaseURL: os.Getenv("PUBLIC_BASE_URL"),
		PushURL:       os.Getenv("PUSH_URL"),
		PushTopic:     getEnv("PUSH_TOPIC", "citadel"),
		PushToken:     os.Getenv("PUSH_TOKEN"),
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
