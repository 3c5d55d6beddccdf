package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds application configuration
type Config struct {
	Port      string
	DBName    string
	JWTKey    string
	SaltRound int

	// Remote table store (holds the voucher tables)
	RemoteStoreURL        string
	RemoteStoreAnonKey    string // read operations
	RemoteStoreServiceKey string // admin/write operations, bypasses row-level security

	SendGridKey string
	EmailSender string

	UploadDir string

	// Cron expression for the duplicate-assignment sweep. Empty disables the
	// scheduler; the admin endpoint can always trigger the sweep manually.
	ReconcileSchedule string
}

// AppConfig is a global variable to access configuration
var AppConfig *Config

// LoadConfig initializes configuration from environment variables or defaults
func LoadConfig() {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found. Using system environment variables.")
	}

	AppConfig = &Config{
		Port:      getEnv("PORT", "3001"),
		DBName:    getEnv("DB_NAME", "portal.db"),
		JWTKey:    getEnv("JWT_SECRET_KEY", "defaultSecret"),
		SaltRound: getEnvInt("SALT_ROUND", 10),

		RemoteStoreURL:        getEnv("REMOTE_STORE_URL", ""),
		RemoteStoreAnonKey:    getEnv("REMOTE_STORE_ANON_KEY", ""),
		RemoteStoreServiceKey: getEnv("REMOTE_STORE_SERVICE_ROLE_KEY", ""),

		SendGridKey: getEnv("SENDGRID_API_KEY", ""),
		EmailSender: getEnv("EMAIL_SENDER", "no-reply@voucher-portal.local"),

		UploadDir: getEnv("UPLOAD_DIR", "./uploads"),

		ReconcileSchedule: getEnv("RECONCILE_SCHEDULE", ""),
	}

	// Validate critical configuration
	if AppConfig.JWTKey == "defaultSecret" {
		log.Println("Warning: Using default JWT_SECRET_KEY. Update it in your environment.")
	}
	if AppConfig.RemoteStoreURL == "" {
		log.Println("Warning: REMOTE_STORE_URL not set. Voucher functionality will be disabled.")
	}
	if AppConfig.RemoteStoreServiceKey == "" {
		log.Println("Warning: Remote store service role key not found. Admin voucher operations may fail due to RLS.")
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvInt retrieves an environment variable as an integer or returns the default integer value
func getEnvInt(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	intValue, err := strconv.Atoi(value)
	if err != nil {
		log.Printf("Error converting environment variable %s to int: %v", key, err)
		return defaultValue
	}
	return intValue
}
