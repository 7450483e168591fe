package config // package config loads application configuration from environment variables

import (
	"log"  // log is used to report configuration errors and halt execution
	"os"   // os provides access to environment variables
	"time" // time expresses TTLs and lock durations
)

// Config holds all runtime configuration values. Each field corresponds to
// an environment variable. Required values (database coordinates, signing
// secret) are enforced with must(); policy tunables fall back to the
// defaults the reset machine is specified with.
type Config struct {
	Env              string        // application environment (e.g. "dev", "prod")
	Port             string        // HTTP port to listen on
	DBUser           string        // database username
	DBPass           string        // database password (optional)
	DBHost           string        // database host address
	DBPort           string        // database port number
	DBName           string        // database name
	JWTSecret        string        // secret used to sign JWTs
	SessionTTL       time.Duration // session token and cookie lifetime
	ResetTokenTTL    time.Duration // reset token lifetime
	BcryptCost       int           // bcrypt cost for password hashing
	MaxResetAttempts int           // failed reset confirmations before locking
	LockDuration     time.Duration // how long a reset lock lasts
	BaseURL          string        // public base URL used in reset links
	NotifierDriver   string        // reset-link dispatcher: "ses", "queue" or "log"
	SESRegion        string        // AWS region for the SES notifier
	SESFromEmail     string        // sender address for the SES notifier
	SESFromName      string        // sender display name for the SES notifier
}

// Load reads configuration values from environment variables and returns a
// Config. Missing required variables cause the program to exit with a
// fatal log message.
func Load() Config {
	return Config{
		Env:              must("APP_ENV"),      // environment (dev/test/prod)
		Port:             must("APP_PORT"),     // port to bind the HTTP server
		DBUser:           must("DB_USER"),      // database user
		DBPass:           os.Getenv("DB_PASS"), // database password (empty allowed)
		DBHost:           must("DB_HOST"),      // database host
		DBPort:           must("DB_PORT"),      // database port
		DBName:           must("DB_NAME"),      // database name
		JWTSecret:        must("JWT_SECRET"),   // secret used for signing JWTs
		SessionTTL:       time.Duration(envInt("SESSION_TTL_HOURS", 24)) * time.Hour,
		ResetTokenTTL:    time.Duration(envInt("RESET_TOKEN_TTL_MIN", 10)) * time.Minute,
		BcryptCost:       envInt("BCRYPT_COST", 10),
		MaxResetAttempts: envInt("MAX_RESET_ATTEMPTS", 3),
		LockDuration:     time.Duration(envInt("RESET_LOCK_MIN", 30)) * time.Minute,
		BaseURL:          envStr("APP_BASE_URL", "http://localhost:5000"),
		NotifierDriver:   envStr("NOTIFIER_DRIVER", "log"),
		SESRegion:        envStr("SES_REGION", "us-east-1"),
		SESFromEmail:     os.Getenv("SES_FROM_EMAIL"),
		SESFromName:      envStr("SES_FROM_NAME", "User Service"),
	}
}

// must retrieves the value of a required environment variable. If the
// variable is unset or empty, the application logs a fatal error and exits.
func must(key string) string {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		log.Fatalf("missing required env var: %s", key)
	}
	return v
}
