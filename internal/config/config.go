// Package config loads the runtime configuration of the server from the environment.
// A .env file is loaded first if present, afterwards viper reads the flat environment keys and applies defaults.
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

const envFile = ".env"

// Config holds all settings of the application.
type Config struct {
	Port        string `mapstructure:"PORT"`
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	ServiceName string `mapstructure:"SERVICE_NAME"`

	DBHost     string `mapstructure:"DB_HOST"`
	DBPort     string `mapstructure:"DB_PORT"`
	DBUser     string `mapstructure:"DB_USER"`
	DBPassword string `mapstructure:"DB_PASS"`
	DBName     string `mapstructure:"DB_NAME"`

	SecretKey                string        `mapstructure:"SECRET_KEY"`
	KeyPairPath              string        `mapstructure:"KEY_PAIR_PATH"`
	CredentialTTL            time.Duration `mapstructure:"CREDENTIAL_TTL"`
	SessionTTL               time.Duration `mapstructure:"SESSION_TTL"`
	ActivationTokenMaxAge    time.Duration `mapstructure:"ACTIVATION_TOKEN_MAX_AGE"`
	RequireEmailVerification bool          `mapstructure:"REQUIRE_EMAIL_VERIFICATION"`
	VerifyEmailMX            bool          `mapstructure:"VERIFY_EMAIL_MX"`

	PublicBaseURL  string `mapstructure:"PUBLIC_BASE_URL"`
	LoginURL       string `mapstructure:"LOGIN_URL"`
	LandingURL     string `mapstructure:"LANDING_URL"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	MailgunDomain string `mapstructure:"MAILGUN_DOMAIN"`
	MailgunAPIKey string `mapstructure:"MAILGUN_API_KEY"`
	MailFrom      string `mapstructure:"MAIL_FROM"`

	BlobBackend       string `mapstructure:"BLOB_BACKEND"`
	BlobDir           string `mapstructure:"BLOB_DIR"`
	S3Endpoint        string `mapstructure:"S3_ENDPOINT"`
	S3Region          string `mapstructure:"S3_REGION"`
	S3Bucket          string `mapstructure:"S3_BUCKET"`
	S3AccessKey       string `mapstructure:"S3_ACCESS_KEY"`
	S3SecretKey       string `mapstructure:"S3_SECRET_KEY"`
	MaxUploadBytes    int64  `mapstructure:"MAX_UPLOAD_BYTES"`
	AllowedExtensions string `mapstructure:"ALLOWED_EXTENSIONS"`
}

var keys = []string{
	"PORT", "ENVIRONMENT", "LOG_LEVEL", "SERVICE_NAME",
	"DB_HOST", "DB_PORT", "DB_USER", "DB_PASS", "DB_NAME",
	"SECRET_KEY", "KEY_PAIR_PATH", "CREDENTIAL_TTL", "SESSION_TTL", "ACTIVATION_TOKEN_MAX_AGE",
	"REQUIRE_EMAIL_VERIFICATION", "VERIFY_EMAIL_MX",
	"PUBLIC_BASE_URL", "LOGIN_URL", "LANDING_URL", "ALLOWED_ORIGINS",
	"MAILGUN_DOMAIN", "MAILGUN_API_KEY", "MAIL_FROM",
	"BLOB_BACKEND", "BLOB_DIR", "S3_ENDPOINT", "S3_REGION", "S3_BUCKET", "S3_ACCESS_KEY", "S3_SECRET_KEY",
	"MAX_UPLOAD_BYTES", "ALLOWED_EXTENSIONS",
}

// Load reads the .env file (optional) and the environment into a Config.
func Load() (*Config, error) {
	if err := godotenv.Load(envFile); err != nil {
		log.Info("No .env file found, using environment variables from system")
	} else {
		log.Info("Loaded environment variables from .env file")
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	// AutomaticEnv only applies to keys viper already knows about when unmarshalling
	for _, key := range keys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("failed to bind %s: %w", key, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("PORT", "8080")
	v.SetDefault("ENVIRONMENT", "development")
	v.SetDefault("LOG_LEVEL", "INFO")
	v.SetDefault("SERVICE_NAME", "social-book")

	v.SetDefault("DB_PORT", "5432")

	v.SetDefault("KEY_PAIR_PATH", "keys/ed25519.key")
	v.SetDefault("CREDENTIAL_TTL", "720h")
	v.SetDefault("SESSION_TTL", "336h")
	v.SetDefault("ACTIVATION_TOKEN_MAX_AGE", "72h")
	v.SetDefault("REQUIRE_EMAIL_VERIFICATION", true)
	v.SetDefault("VERIFY_EMAIL_MX", false)

	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:8080")
	v.SetDefault("LOGIN_URL", "/accounts/login/")
	v.SetDefault("LANDING_URL", "/accounts/")
	v.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173")

	v.SetDefault("MAILGUN_DOMAIN", "mail.social-book.app")
	v.SetDefault("MAIL_FROM", "Social Book <team@mail.social-book.app>")

	v.SetDefault("BLOB_BACKEND", "disk")
	v.SetDefault("BLOB_DIR", "media")
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("MAX_UPLOAD_BYTES", 50*1024*1024)
	v.SetDefault("ALLOWED_EXTENSIONS", "pdf,jpeg,jpg")
}

// DatabaseURL returns the pgx connection string for the configured database.
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=disable",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName)
}

// Validate checks that all settings needed for startup are present.
func (c *Config) Validate() error {
	if c.DBHost == "" || c.DBPort == "" || c.DBUser == "" || c.DBPassword == "" || c.DBName == "" {
		return fmt.Errorf("database environment variables not set")
	}
	if c.SecretKey == "" {
		return fmt.Errorf("SECRET_KEY not set")
	}
	for name, ttl := range map[string]time.Duration{
		"ACTIVATION_TOKEN_MAX_AGE": c.ActivationTokenMaxAge,
		"SESSION_TTL":              c.SessionTTL,
		"CREDENTIAL_TTL":           c.CredentialTTL,
	} {
		if ttl <= 0 {
			return fmt.Errorf("%s must be positive, got %s", name, ttl)
		}
	}
	if c.BlobBackend == "s3" && c.S3Bucket == "" {
		return fmt.Errorf("S3_BUCKET not set for s3 blob backend")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode, in which mails are actually sent.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// Origins returns the configured CORS origins.
func (c *Config) Origins() []string {
	return splitList(c.AllowedOrigins)
}

// Extensions returns the lower-cased list of accepted upload file extensions.
func (c *Config) Extensions() []string {
	exts := splitList(c.AllowedExtensions)
	for i, ext := range exts {
		exts[i] = strings.ToLower(strings.TrimPrefix(ext, "."))
	}
	return exts
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
