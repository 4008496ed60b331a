package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	MongoURI     string
	DatabaseName string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	MailHost    string
	MailPort    int
	MailUser    string
	MailPass    string
	SenderEmail string
	FrontendURL string

	GoogleClientID      string
	GoogleAutoProvision bool
	GoogleDefaultGroup  string

	GCSBucket       string
	CredentialsFile string

	ScolariteEmail    string
	ScolaritePassword string

	AllowedOrigins []string
}

func Load() Config {
	return Config{
		MongoURI:     getenv("MONGODB_URI", "mongodb://localhost:27017"),
		DatabaseName: getenv("DATABASE_NAME", "edoctorat"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  time.Duration(getenvInt("ACCESS_TOKEN_TTL_MINUTES", 15)) * time.Minute,
		RefreshTokenTTL: time.Duration(getenvInt("REFRESH_TOKEN_TTL_DAYS", 14)) * 24 * time.Hour,

		MailHost:    getenv("MAIL_HOST", "localhost"),
		MailPort:    getenvInt("MAIL_PORT", 1025),
		MailUser:    os.Getenv("MAIL_USERNAME"),
		MailPass:    os.Getenv("MAIL_PASSWORD"),
		SenderEmail: getenv("SENDER_EMAIL", "noreply@edoctorat.com"),
		FrontendURL: getenv("FRONTEND_URL", "http://localhost:8080"),

		GoogleClientID:      os.Getenv("GOOGLE_CLIENT_ID"),
		GoogleAutoProvision: getenvBool("GOOGLE_AUTO_PROVISION", false),
		GoogleDefaultGroup:  getenv("GOOGLE_DEFAULT_GROUP", "professeur"),

		GCSBucket:       os.Getenv("GCS_BUCKET"),
		CredentialsFile: os.Getenv("CREDENTIALS_FILE_LOCATION"),

		ScolariteEmail:    strings.ToLower(strings.TrimSpace(os.Getenv("SCOLARITE_EMAIL"))),
		ScolaritePassword: os.Getenv("SCOLARITE_PASSWORD"),

		AllowedOrigins: splitList(os.Getenv("ALLOWED_ORIGINS")),
	}
}

func getenv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getenvInt(key string, fallback int) int {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.Atoi(val); err == nil && parsed > 0 {
			return parsed
		}
	}
	return fallback
}

func getenvBool(key string, fallback bool) bool {
	if val := os.Getenv(key); val != "" {
		if parsed, err := strconv.ParseBool(val); err == nil {
			return parsed
		}
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
