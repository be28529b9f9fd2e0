package config

import (
	"os"
	"strconv"
	"time"
)

type Config struct {
	Addr         string
	DatabaseURL  string
	RedisURL     string
	KeyPrefix    string
	SaveDebounce time.Duration
	CORSOrigin   string
	// Gemini
	GeminiAPIKey string
	// Meilisearch
	MeiliURL       string
	MeiliMasterKey string
	// MinIO resume archive
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool
	// SMTP
	SMTPHost     string
	SMTPPort     string
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string
	SMTPFromName string
}

func Load() Config {
	return Config{
		Addr:         getenv("API_ADDR", ":8790"),
		DatabaseURL:  getenv("DATABASE_URL", ""),
		RedisURL:     getenv("REDIS_URL", "redis://localhost:6379/0"),
		KeyPrefix:    getenv("TALENTDESK_KEY_PREFIX", "talentdesk_v1_"),
		SaveDebounce: time.Duration(getenvInt("TALENTDESK_SAVE_DEBOUNCE_MS", 800)) * time.Millisecond,
		CORSOrigin:   getenv("TALENTDESK_CORS_ORIGIN", "*"),
		GeminiAPIKey: getenv("GEMINI_API_KEY", ""),
		// Meilisearch - search falls back to in-memory if unreachable
		MeiliURL:       getenv("MEILI_URL", ""),
		MeiliMasterKey: getenv("MEILI_MASTER_KEY", ""),
		// MinIO - resume archival disabled if not configured
		MinioEndpoint:  getenv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getenv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getenv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getenv("MINIO_BUCKET", "talentdesk-resumes"),
		MinioUseSSL:    getenvBool("MINIO_USE_SSL", false),
		// SMTP - empty by default, email disabled if not configured
		SMTPHost:     getenv("SMTP_HOST", ""),
		SMTPPort:     getenv("SMTP_PORT", "587"),
		SMTPUsername: getenv("SMTP_USERNAME", ""),
		SMTPPassword: getenv("SMTP_PASSWORD", ""),
		SMTPFrom:     getenv("SMTP_FROM", ""),
		SMTPFromName: getenv("SMTP_FROM_NAME", "TalentDesk"),
	}
}

func getenv(key, fallback string) string {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	return value
}

func getenvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getenvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}
