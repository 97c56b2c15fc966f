package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const PROD_STRING = "prod"

// Config holds all application configuration loaded from environment.
type Config struct {
	AppEnv      string `mapstructure:"APP_ENV"`
	ProdOrigins string `mapstructure:"PROD_ORIGINS"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`
	Timezone    string `mapstructure:"APP_TIMEZONE"`

	DBDSN             string        `mapstructure:"DB_DSN"`
	JWTSecret         string        `mapstructure:"JWT_SECRET"`
	JWTAccessTokenTTL time.Duration `mapstructure:"JWT_ACCESS_TOKEN_TTL"`

	RedisAddr            string        `mapstructure:"REDIS_ADDR"`
	RedisPassword        string        `mapstructure:"REDIS_PASSWORD"`
	RedisDB              int           `mapstructure:"REDIS_DB"`
	AvailabilityCacheTTL time.Duration `mapstructure:"AVAILABILITY_CACHE_TTL"`

	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	KafkaTopic   string `mapstructure:"KAFKA_TOPIC"`

	ReminderOffset          time.Duration `mapstructure:"REMINDER_OFFSET"`
	ClientCancelCutoff      time.Duration `mapstructure:"CLIENT_CANCEL_CUTOFF"`
	ProviderCancelCutoff    time.Duration `mapstructure:"PROVIDER_CANCEL_CUTOFF"`
	BookingLeadTime         time.Duration `mapstructure:"BOOKING_LEAD_TIME"`
	BookingRatePerMinute    int           `mapstructure:"BOOKING_RATE_PER_MINUTE"`
	BookingRateBurst        int           `mapstructure:"BOOKING_RATE_BURST"`
	PhoneRegion             string        `mapstructure:"PHONE_REGION"`
	CompletionSweepInterval time.Duration `mapstructure:"COMPLETION_SWEEP_INTERVAL"`

	LogLevel string `mapstructure:"LOG_LEVEL"`
	LogFile  string `mapstructure:"LOG_FILE"`

	OTELEnabled     bool    `mapstructure:"OTEL_ENABLED"`
	OTELEndpoint    string  `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	OTELSampleRatio float64 `mapstructure:"OTEL_SAMPLING_RATIO"`
	OTELServiceName string  `mapstructure:"OTEL_SERVICE_NAME"`

	IsProduction bool           `mapstructure:"-"`
	Location     *time.Location `mapstructure:"-"`
}

var defaults = map[string]any{
	"APP_ENV":                     "dev",
	"PROD_ORIGINS":                "",
	"HTTP_ADDR":                   ":8080",
	"APP_TIMEZONE":                "UTC",
	"JWT_ACCESS_TOKEN_TTL":        "15m",
	"REDIS_ADDR":                  "",
	"REDIS_PASSWORD":              "",
	"REDIS_DB":                    0,
	"AVAILABILITY_CACHE_TTL":      "5m",
	"KAFKA_BROKERS":               "",
	"KAFKA_TOPIC":                 "booking-events",
	"REMINDER_OFFSET":             "2h",
	"CLIENT_CANCEL_CUTOFF":        "2h",
	"PROVIDER_CANCEL_CUTOFF":      "1h",
	"BOOKING_LEAD_TIME":           "0s",
	"BOOKING_RATE_PER_MINUTE":     30,
	"BOOKING_RATE_BURST":          10,
	"PHONE_REGION":                "RU",
	"COMPLETION_SWEEP_INTERVAL":   "1m",
	"LOG_LEVEL":                   "",
	"LOG_FILE":                    "",
	"OTEL_ENABLED":                false,
	"OTEL_EXPORTER_OTLP_ENDPOINT": "localhost:4317",
	"OTEL_SAMPLING_RATIO":         1.0,
	"OTEL_SERVICE_NAME":           "spa-scheduling",
}

// Load loads configuration from .env (optional) and environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Printf("failed to load .env file: %v", err)
	}

	v := viper.New()
	v.AutomaticEnv()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	// Keys without defaults must be bound explicitly or Unmarshal never sees them.
	for _, key := range []string{"DB_DSN", "JWT_SECRET"} {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	cfg.IsProduction = cfg.AppEnv == PROD_STRING

	loc, err := time.LoadLocation(cfg.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	if cfg.BookingRatePerMinute < 1 {
		return nil, fmt.Errorf("BOOKING_RATE_PER_MINUTE must be positive")
	}
	if cfg.ClientCancelCutoff < 0 || cfg.ProviderCancelCutoff < 0 {
		return nil, fmt.Errorf("cancel cutoffs must not be negative")
	}

	return cfg, nil
}

// Brokers returns the configured Kafka brokers, ignoring blanks.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
