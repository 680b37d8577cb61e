package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// DefaultJWTSecret is only a fallback for local runs. Startup logs a warning when it is in use.
const DefaultJWTSecret = "supersecretkey"

type Config struct {
	Env         string `validate:"oneof=dev test prod"`
	Port        int    `validate:"min=0,max=65535"`
	DBURL       string
	StoreDriver string `validate:"oneof=postgres memory"`

	JWTSecret            string `validate:"required"`
	JWTExpirationMinutes int    `validate:"min=1"`
	// nil means "secure only in prod"
	CookieSecure *bool

	FrontEndURL  string
	MaxBodyBytes int64 `validate:"min=1"`

	RedisAddr     string
	RedisPassword string
	RedisDB       int `validate:"min=0"`

	LoginRateLimit         int `validate:"min=1"`
	LoginRateWindowSeconds int `validate:"min=1"`

	TaskListCacheTTLSeconds int `validate:"min=0"`

	OTLPEndpoint     string
	TraceSampleRatio float64 `validate:"min=0,max=1"`

	SeedUserName     string
	SeedUserEmail    string
	SeedUserPassword string
}

func Load() Config {
	// a missing .env is fine, real deployments use the environment
	_ = godotenv.Load()

	return Config{
		Env:         getEnv("APP_ENV", "dev"),
		Port:        getEnvInt("PORT", 3007),
		DBURL:       buildDBURL(),
		StoreDriver: getEnv("STORE_DRIVER", "postgres"),

		JWTSecret:            getEnv("JWT_SECRET", DefaultJWTSecret),
		JWTExpirationMinutes: getEnvInt("JWT_EXPIRATION_MINUTES", 60),
		CookieSecure:         getEnvBoolPtr("COOKIE_SECURE"),

		FrontEndURL:  getEnv("FRONT_END_URL", "http://localhost:3008"),
		MaxBodyBytes: int64(getEnvInt("MAX_BODY_BYTES", 1<<20)),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),

		LoginRateLimit:         getEnvInt("LOGIN_RATE_LIMIT", 10),
		LoginRateWindowSeconds: getEnvInt("LOGIN_RATE_WINDOW_SECONDS", 60),

		TaskListCacheTTLSeconds: getEnvInt("TASK_LIST_CACHE_TTL_SECONDS", 5),

		OTLPEndpoint:     getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		TraceSampleRatio: getEnvFloat("OTEL_TRACES_SAMPLER_ARG", 1),

		SeedUserName:     getEnv("SEED_USER_NAME", ""),
		SeedUserEmail:    getEnv("SEED_USER_EMAIL", ""),
		SeedUserPassword: getEnv("SEED_USER_PASSWORD", ""),
	}
}

// Validate checks the loaded values against the struct rules.
func (c Config) Validate() error {
	if err := validator.New().Struct(c); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

// InsecureSecret reports whether the fallback signing secret is in use.
func (c Config) InsecureSecret() bool {
	return c.JWTSecret == DefaultJWTSecret
}

// SecureCookies reports whether session cookies carry the Secure flag.
func (c Config) SecureCookies() bool {
	if c.CookieSecure != nil {
		return *c.CookieSecure
	}
	return c.Env == "prod"
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTExpirationMinutes) * time.Minute
}

func (c Config) LoginRateWindow() time.Duration {
	return time.Duration(c.LoginRateWindowSeconds) * time.Second
}

func (c Config) TaskListCacheTTL() time.Duration {
	return time.Duration(c.TaskListCacheTTLSeconds) * time.Second
}

func buildDBURL() string {
	if v := os.Getenv("DATABASE_URL"); v != "" {
		return v
	}

	host := getEnv("DB_HOST", "127.0.0.1")
	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "taskhub")
	pass := getEnv("DB_PASSWORD", "taskhub")
	name := getEnv("DB_NAME", "taskhub")
	ssl := getEnv("DB_SSLMODE", "disable")

	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=" + ssl
}

// WithTimeout bounds store work for one request. A nil parent means Background.
func WithTimeout(parent context.Context, duration time.Duration) (context.Context, context.CancelFunc) {
	if parent == nil {
		parent = context.Background()
	}
	return context.WithTimeout(parent, duration)
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

func getEnvFloat(key string, fallback float64) float64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}

	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fallback
	}
	return f
}

func getEnvBoolPtr(key string) *bool {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		return nil
	}
	return &b
}
