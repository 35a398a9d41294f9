package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting. Values a single subsystem depends on
// (DB_URL, STRIPE_WEBHOOK_SECRET, ...) are not enforced here; the subsystem
// reports a configuration error the first time it needs them.
type Config struct {
	Port       string
	AppURL     string
	CORSOrigin string

	DBURL string

	StripeSecretKey     string
	StripeWebhookSecret string

	ClerkJWTKey        string
	ClerkWebhookSecret string

	CloudinaryURL    string
	CloudinaryFolder string

	RabbitURL string

	Redis RedisConfig
	Cache CacheConfig
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	TLS      bool
}

// CacheConfig controls the Redis response cache for collection views.
type CacheConfig struct {
	Enabled      bool
	TTL          time.Duration
	Prefix       string
	MaxBodyBytes int
}

func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found. Using system environment variables.")
	}
}

// Load reads .env (if present) and the process environment.
func Load() Config {
	LoadEnv()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() Config {
	return Config{
		Port:       getEnv("PORT", "8080"),
		AppURL:     strings.TrimRight(getEnv("APP_URL", "http://localhost:3000"), "/"),
		CORSOrigin: getEnv("CORS_ORIGIN", "http://localhost:3000"),

		DBURL: getEnv("DB_URL", ""),

		StripeSecretKey:     getEnv("STRIPE_SECRET_KEY", ""),
		StripeWebhookSecret: getEnv("STRIPE_WEBHOOK_SECRET", ""),

		ClerkJWTKey:        getEnv("CLERK_JWT_KEY", ""),
		ClerkWebhookSecret: getEnv("CLERK_WEBHOOK_SECRET", ""),

		CloudinaryURL:    getEnv("CLOUDINARY_URL", ""),
		CloudinaryFolder: getEnv("CLOUDINARY_FOLDER", "imaginify"),

		RabbitURL: getEnv("RABBITMQ_URL", ""),

		Redis: RedisConfig{
			Addr:     redisAddr(),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getInt("REDIS_DB", 0),
			TLS:      getBool("REDIS_TLS", false),
		},
		Cache: CacheConfig{
			Enabled:      getBool("CACHE_ENABLED", true),
			TTL:          getDuration("CACHE_TTL", 30*time.Second),
			Prefix:       getEnv("CACHE_PREFIX", "cache"),
			MaxBodyBytes: getInt("CACHE_MAX_BODY_BYTES", 1<<20),
		},
	}
}

// RedisEnabled reports whether any Redis address was configured explicitly.
func (c Config) RedisEnabled() bool {
	return c.Redis.Addr != ""
}

func redisAddr() string {
	host, port := os.Getenv("REDIS_HOST"), os.Getenv("REDIS_PORT")
	if host != "" && port != "" {
		return host + ":" + port
	}
	return os.Getenv("REDIS_ADDR")
}

func getEnv(key string, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}

func getInt(key string, fallback int) int {
	if n, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return n
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if d, err := time.ParseDuration(os.Getenv(key)); err == nil && d > 0 {
		return d
	}
	return fallback
}
