package config

import (
	"context"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Env  string
	Port int

	// persistence
	StoreBackend   string // "file" | "postgres"
	SessionBackend string // "store" | "redis"
	DataDir        string
	DBURL          string
	RedisAddr      string
	RedisPassword  string
	RedisDB        int

	// auth
	SessionTTL time.Duration
	AdminEmail string
	AdminPass  string
	AdminName  string

	// mail
	SMTPHost string
	SMTPPort int
	SMTPUser string
	SMTPPass string
	MailFrom string

	// payments
	PaymentSecretKey string
	PaymentBaseURL   string

	// http
	CORSOrigins []string
	MaxBodyKB   int64

	// observability
	OTLPEndpoint string
}

func Load() Config {
	return Config{
		Env:  getEnv("APP_ENV", "dev"),
		Port: getEnvInt("PORT", 8080),

		StoreBackend:   getEnv("STORE_BACKEND", "file"),
		SessionBackend: getEnv("SESSION_BACKEND", "store"),
		DataDir:        getEnv("DATA_DIR", "data"),
		DBURL:          buildDBURL(),
		RedisAddr:      getEnv("REDIS_ADDR", "127.0.0.1:6379"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		RedisDB:        getEnvInt("REDIS_DB", 0),

		SessionTTL: getEnvDuration("SESSION_TTL", 720*time.Hour),
		AdminEmail: getEnv("ADMIN_EMAIL", ""),
		AdminPass:  getEnv("ADMIN_PASSWORD", ""),
		AdminName:  getEnv("ADMIN_NAME", "Administrator"),

		SMTPHost: getEnv("SMTP_HOST", ""),
		SMTPPort: getEnvInt("SMTP_PORT", 587),
		SMTPUser: getEnv("SMTP_USER", ""),
		SMTPPass: getEnv("SMTP_PASSWORD", ""),
		MailFrom: getEnv("MAIL_FROM", "no-reply@localhost"),

		PaymentSecretKey: getEnv("PAYMENT_SECRET_KEY", ""),
		PaymentBaseURL:   getEnv("PAYMENT_BASE_URL", ""),

		CORSOrigins: getEnvList("CORS_ORIGINS", nil),
		MaxBodyKB:   int64(getEnvInt("MAX_BODY_KB", 256)),

		OTLPEndpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
	}
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "storefront")
	pass := getEnv("DB_PASSWORD", "storefront")
	name := getEnv("DB_NAME", "storefront")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

func WithTimeout(duration time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), duration)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		num, err := strconv.Atoi(v)

		if err != nil {
			return fallback
		}

		return num
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)

		if err != nil {
			return fallback
		}

		return d
	}
	return fallback
}

func getEnvList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))

	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
