package configs

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv   string
	LogLevel string

	DBDriver string
	DBSource string
	Port     string

	CORSOrigins []string

	JWTSecret string
	JWTTTL    time.Duration

	OTPTTL           time.Duration
	OTPMaxAttempts   int
	OTPSweepInterval time.Duration
	OTPDebug         bool
	OTPRatePerMinute int

	OrderRetention time.Duration
	ReaperInterval time.Duration

	RedisAddr string
	CacheTTL  time.Duration
	AMQPURL   string

	StaffEmail        string
	StaffPassword     string
	StaffRestaurantID uint
	SeedDemo          bool
}

const placeholderSecret = "changeme"

// LoadConfig reads .env when present, then the environment.
func LoadConfig() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("load .env: %v", err)
	}

	return &Config{
		AppEnv:   getEnv("APP_ENV", "production"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		DBDriver: getEnv("DB_DRIVER", "sqlite"),
		DBSource: getEnv("DB_SOURCE", "easyorder.db"),
		Port:     getEnv("PORT", "8000"),

		CORSOrigins: getList("CORS_ORIGINS"),

		JWTSecret: getEnv("JWT_SECRET", placeholderSecret),
		JWTTTL:    getDuration("JWT_TTL", 24*time.Hour),

		OTPTTL:           getDuration("OTP_TTL", 10*time.Minute),
		OTPMaxAttempts:   getInt("OTP_MAX_ATTEMPTS", 3),
		OTPSweepInterval: getDuration("OTP_SWEEP_INTERVAL", time.Minute),
		OTPDebug:         getBool("OTP_DEBUG", false),
		OTPRatePerMinute: getInt("OTP_RATE_PER_MINUTE", 10),

		OrderRetention: getDuration("ORDER_RETENTION", 30*24*time.Hour),
		ReaperInterval: getDuration("REAPER_INTERVAL", time.Hour),

		RedisAddr: getEnv("REDIS_ADDR", ""),
		CacheTTL:  getDuration("CACHE_TTL", 30*time.Second),
		AMQPURL:   getEnv("AMQP_URL", ""),

		StaffEmail:        getEnv("STAFF_EMAIL", ""),
		StaffPassword:     getEnv("STAFF_PASSWORD", ""),
		StaffRestaurantID: uint(getInt("STAFF_RESTAURANT_ID", 0)),
		SeedDemo:          getBool("SEED_DEMO", false),
	}
}

func (c *Config) IsDevelopment() bool { return c.AppEnv == "development" }

// Validate refuses settings that are only acceptable on a developer machine.
func (c *Config) Validate() error {
	if c.IsDevelopment() {
		return nil
	}
	if c.JWTSecret == "" || c.JWTSecret == placeholderSecret {
		return errors.New("JWT_SECRET must be set outside development")
	}
	return nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getBool(key string, fallback bool) bool {
	v, err := strconv.ParseBool(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(getEnv(key, ""))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

// getList splits a comma-separated variable, skipping blanks.
func getList(key string) []string {
	var out []string
	for _, v := range strings.Split(getEnv(key, ""), ",") {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
