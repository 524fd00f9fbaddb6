package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Env   string
	Port  int
	DBURL string

	// Auth
	JWTSecret      string
	JWTExpiresIn   time.Duration
	ResetTokenTTL  time.Duration
	FrontendURL    string

	// Optional shared revocation store. Empty means in-process only.
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// Outbound email
	EmailHost   string
	EmailPort   int
	EmailSecure bool
	EmailUser   string
	EmailPass   string
	EmailFrom   string

	// Bootstrap admin account
	AdminEmail    string
	AdminPassword string
	AdminName     string
	AdminRole     string

	OTLPEndpoint string
}

// Load reads configuration from the environment (and a .env file when
// present). The JWT secret has no default: a missing or empty value is a
// fatal configuration error, returned here so main can exit.
func Load() (Config, error) {
	// .env is a dev convenience; absence is not an error.
	_ = godotenv.Load()

	cfg := Config{
		Env:           getEnv("APP_ENV", "dev"),
		Port:          getEnvInt("PORT", 8000),
		DBURL:         buildDBURL(),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		JWTExpiresIn:  getEnvDuration("JWT_EXPIRES_IN", 7*24*time.Hour),
		ResetTokenTTL: time.Duration(getEnvInt("RESET_TOKEN_TTL_MINUTES", 60)) * time.Minute,
		FrontendURL:   getEnv("FRONTEND_URL", "http://localhost:3000"),

		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		EmailHost:   os.Getenv("EMAIL_HOST"),
		EmailPort:   getEnvInt("EMAIL_PORT", 587),
		EmailSecure: os.Getenv("EMAIL_SECURE") == "true",
		EmailUser:   os.Getenv("EMAIL_USER"),
		EmailPass:   os.Getenv("EMAIL_PASS"),
		EmailFrom:   getEnv("EMAIL_FROM", os.Getenv("EMAIL_USER")),

		AdminEmail:    os.Getenv("ADMIN_EMAIL"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
		AdminName:     getEnv("ADMIN_NAME", "Administrator"),
		AdminRole:     getEnv("ADMIN_ROLE", "admin"),

		OTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
	}

	if cfg.JWTSecret == "" {
		return Config{}, errors.New("JWT_SECRET is not set in environment variables")
	}

	return cfg, nil
}

func buildDBURL() string {
	if url := os.Getenv("DATABASE_URL"); url != "" {
		return url
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "sanad")
	pass := getEnv("DB_PASSWORD", "sanad")
	name := getEnv("DB_NAME", "sanad")
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
			fmt.Println(err)
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
			fmt.Println(err)
			return fallback
		}

		return d
	}
	return fallback
}
