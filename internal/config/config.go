package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

type Config struct {
	Env   string
	Debug bool

	ServerPort int

	LogLevel  string
	LogFormat string

	DBDriver    string
	DatabaseURL string

	TokenSecret []byte
	TokenTTL    time.Duration

	RedisAddr          string
	RedisPassword      string
	RedisDB            int
	RateLimitPerMinute int

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string

	AdminName     string
	AdminEmail    string
	AdminPassword string
}

// Load reads .env (when present) and then the process environment.
func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		logrus.Debugf("notice: .env file not found: %v. using system environment variables", err)
	}

	return &Config{
		Env:   EnvDefault("APP_ENV", "production"),
		Debug: EnvBoolDefault("APP_DEBUG", false),

		ServerPort: EnvIntDefault("SERVER_PORT", 8080),

		LogLevel:  EnvDefault("LOG_LEVEL", "info"),
		LogFormat: EnvDefault("LOG_FORMAT", "json"),

		DBDriver:    EnvDefault("DB_DRIVER", "postgres"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		TokenSecret: []byte(os.Getenv("TOKEN_SECRET")),
		TokenTTL:    EnvDurationDefault("TOKEN_TTL", 0),

		RedisAddr:          os.Getenv("REDIS_ADDR"),
		RedisPassword:      os.Getenv("REDIS_PASSWORD"),
		RedisDB:            EnvIntDefault("REDIS_DB", 0),
		RateLimitPerMinute: EnvIntDefault("RATE_LIMIT_PER_MINUTE", 60),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", ""),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "products"),

		AdminName:     EnvDefault("ADMIN_NAME", "Administrator"),
		AdminEmail:    EnvDefault("ADMIN_EMAIL", "admin@example.com"),
		AdminPassword: os.Getenv("ADMIN_PASSWORD"),
	}
}

func (c *Config) Validate() error {
	if err := MustNonEmpty("DATABASE_URL", c.DatabaseURL); err != nil {
		return err
	}
	return MustNonEmpty("TOKEN_SECRET", string(c.TokenSecret))
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func EnvBoolDefault(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// EnvDurationDefault accepts Go durations ("24h") or a bare number of minutes.
func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Minute
	}
	return def
}
