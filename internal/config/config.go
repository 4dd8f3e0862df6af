package config

import (
	"os"
	"strconv"
	"time"

	"golang.org/x/crypto/bcrypt"
)

type Config struct {
	Env          string
	Port         string
	DatabaseURL  string
	JWTSecret    string
	TokenTTL     time.Duration
	BcryptCost   int
	ClientOrigin string

	// Admission control, applied uniformly to all traffic.
	RateLimitWindow time.Duration
	RateLimitMax    int
	SlowdownWindow  time.Duration
	SlowdownAfter   int
	SlowdownDelay   time.Duration
}

// Load reads the configuration from the environment. Missing optional
// values fall back to the defaults the service has always shipped with;
// required values (the database URL, the JWT secret) are validated at the
// point of use.
func Load() Config {
	return Config{
		Env:          getenv("ENV", "dev"),
		Port:         getenv("PORT", "3000"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		JWTSecret:    os.Getenv("JWT_SECRET"),
		TokenTTL:     getduration("TOKEN_TTL", time.Hour),
		BcryptCost:   getint("BCRYPT_COST", bcrypt.DefaultCost),
		ClientOrigin: getenv("CLIENT_ORIGIN", "http://localhost:3000"),

		RateLimitWindow: getduration("RATE_LIMIT_WINDOW", 5*time.Minute),
		RateLimitMax:    getint("RATE_LIMIT_MAX", 100),
		SlowdownWindow:  getduration("SLOWDOWN_WINDOW", 15*time.Minute),
		SlowdownAfter:   getint("SLOWDOWN_AFTER", 50),
		SlowdownDelay:   getduration("SLOWDOWN_DELAY", 500*time.Millisecond),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getint(key string, fallback int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}

func getduration(key string, fallback time.Duration) time.Duration {
	v, err := time.ParseDuration(os.Getenv(key))
	if err != nil || v <= 0 {
		return fallback
	}
	return v
}
