package config // package config loads application configuration from environment variables

import (
	"log"
	"os"
	"strconv"
	"time"
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Two distinct JWT secrets are required: one for
// access/verification/reset tokens and one for refresh tokens, so the two
// token namespaces can never validate against each other.
type Config struct {
	Env              string        // application environment ("dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	JWTSecret        string        // secret for access, verification and reset tokens
	JWTRefreshSecret string        // distinct secret for refresh tokens
	AccessTTL        time.Duration // access token lifetime
	RefreshTTL       time.Duration // refresh token lifetime (also the cookie max-age)
	VerificationTTL  time.Duration // email verification token lifetime
	ResetTTL         time.Duration // password reset token lifetime
	BcryptCost       int           // bcrypt cost for password hashing
	ClientURL        string        // frontend base URL embedded in email links
	EmailFrom        string        // From address for outbound email
	ResendAPIKey     string        // Resend API key; empty switches to the log-only sender
}

// Load reads configuration from environment variables. Required variables
// are enforced by must() and missing values halt startup with a fatal log.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),
		Port:             must("APP_PORT"),
		DBUser:           must("DB_USER"),
		DBPass:           os.Getenv("DB_PASS"),
		DBHost:           must("DB_HOST"),
		DBPort:           must("DB_PORT"),
		DBName:           must("DB_NAME"),
		JWTSecret:        must("JWT_SECRET"),
		JWTRefreshSecret: must("JWT_REFRESH_SECRET"),
		AccessTTL:        time.Duration(intOr("ACCESS_TOKEN_TTL_MIN", 15)) * time.Minute,
		RefreshTTL:       time.Duration(intOr("REFRESH_TOKEN_TTL_DAYS", 7)) * 24 * time.Hour,
		VerificationTTL:  time.Duration(intOr("VERIFICATION_TOKEN_TTL_HOURS", 24)) * time.Hour,
		ResetTTL:         time.Duration(intOr("RESET_TOKEN_TTL_MIN", 60)) * time.Minute,
		BcryptCost:       intOr("BCRYPT_COST", 10),
		ClientURL:        strOr("CLIENT_URL", "http://localhost:5173"),
		EmailFrom:        strOr("EMAIL_FROM", "noreply@resend.dev"),
		ResendAPIKey:     os.Getenv("RESEND_API_KEY"),
	}
}

// IsProd reports whether the app runs in production mode. It controls the
// Secure flag on the refresh token cookie.
func (c Config) IsProd() bool { return c.Env == "prod" || c.Env == "production" }

// must retrieves a required environment variable or exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}

func strOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func intOr(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Fatalf("invalid int for %s: %q", key, v)
	}
	return n
}
