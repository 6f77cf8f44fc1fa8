package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Firestore   FirestoreConfig   `yaml:"firestore"`
	AuditDB     AuditDBConfig     `yaml:"audit_db"`
	SendGrid    SendGridConfig    `yaml:"sendgrid"`
	JWT         JWTConfig         `yaml:"jwt"`
	Log         LogConfig         `yaml:"log"`
	Scheduler   SchedulerConfig   `yaml:"scheduler"`
	Partnership PartnershipConfig `yaml:"partnership"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host           string   `yaml:"host"`
	Port           int      `yaml:"port"`
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// FirestoreConfig contains document store settings
type FirestoreConfig struct {
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// AuditDBConfig contains PostgreSQL settings for the audit trail. The audit
// trail is optional: with an empty host the server runs without it.
type AuditDBConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
	SSLMode  string `yaml:"ssl_mode"`
}

// SendGridConfig contains email delivery settings
type SendGridConfig struct {
	APIKey    string `yaml:"api_key"`
	FromEmail string `yaml:"from_email"`
	FromName  string `yaml:"from_name"`
}

// JWTConfig contains JWT token settings
type JWTConfig struct {
	Secret             string `yaml:"secret"`
	AccessTokenExpiry  int    `yaml:"access_token_expiry_minutes"`
	RefreshTokenExpiry int    `yaml:"refresh_token_expiry_minutes"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json" or "text"
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	ExpireStaleRequests       string `yaml:"expire_stale_requests"`
	RecomputeAvailability     string `yaml:"recompute_availability"`
	SendApplicationReminders  string `yaml:"send_application_reminders"`
	ReconcilePartnershipState string `yaml:"reconcile_partnership_state"`
}

// PartnershipConfig tunes the matching maintenance jobs
type PartnershipConfig struct {
	StaleRequestDays    int `yaml:"stale_request_days"`
	ReminderPendingDays int `yaml:"reminder_pending_days"`
}

// Load reads configuration from a YAML file, applying .env and environment
// overrides on top.
func Load(configPath string) (*Config, error) {
	// A missing .env file is fine; explicit env vars still apply.
	_ = godotenv.Load()

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Firestore
	if val := os.Getenv("FIRESTORE_PROJECT_ID"); val != "" {
		c.Firestore.ProjectID = val
	}
	if val := os.Getenv("FIRESTORE_CREDENTIALS_FILE"); val != "" {
		c.Firestore.CredentialsFile = val
	}

	// Audit database
	if val := os.Getenv("AUDIT_DB_HOST"); val != "" {
		c.AuditDB.Host = val
	}
	if val := os.Getenv("AUDIT_DB_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.AuditDB.Port)
	}
	if val := os.Getenv("AUDIT_DB_USER"); val != "" {
		c.AuditDB.User = val
	}
	if val := os.Getenv("AUDIT_DB_PASSWORD"); val != "" {
		c.AuditDB.Password = val
	}
	if val := os.Getenv("AUDIT_DB_NAME"); val != "" {
		c.AuditDB.Database = val
	}
	if val := os.Getenv("AUDIT_DB_SSL_MODE"); val != "" {
		c.AuditDB.SSLMode = val
	}

	// SendGrid
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.SendGrid.APIKey = val
	}
	if val := os.Getenv("SENDGRID_FROM_EMAIL"); val != "" {
		c.SendGrid.FromEmail = val
	}
	if val := os.Getenv("SENDGRID_FROM_NAME"); val != "" {
		c.SendGrid.FromName = val
	}

	// JWT
	if val := os.Getenv("JWT_SECRET"); val != "" {
		c.JWT.Secret = val
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}

	// Set defaults for log if not configured
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server validation
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Firestore validation
	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore project id is required")
	}

	// Audit database validation (only when enabled)
	if c.AuditDB.Host != "" {
		if c.AuditDB.User == "" {
			return fmt.Errorf("audit database user is required")
		}
		if c.AuditDB.Database == "" {
			return fmt.Errorf("audit database name is required")
		}
		if c.AuditDB.Port <= 0 || c.AuditDB.Port > 65535 {
			return fmt.Errorf("invalid audit database port: %d", c.AuditDB.Port)
		}
		if c.AuditDB.SSLMode == "" {
			c.AuditDB.SSLMode = "disable"
		}
	}

	// JWT validation
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT secret is required")
	}
	if len(c.JWT.Secret) < 32 {
		return fmt.Errorf("JWT secret must be at least 32 characters")
	}
	if c.JWT.AccessTokenExpiry <= 0 {
		c.JWT.AccessTokenExpiry = 60
	}
	if c.JWT.RefreshTokenExpiry <= 0 {
		c.JWT.RefreshTokenExpiry = 60 * 24 * 7
	}

	// Scheduler defaults
	if c.Scheduler.ExpireStaleRequests == "" {
		c.Scheduler.ExpireStaleRequests = "0 0 2 * * *" // 2 AM UTC
	}
	if c.Scheduler.RecomputeAvailability == "" {
		c.Scheduler.RecomputeAvailability = "0 30 2 * * *" // 2:30 AM UTC
	}
	if c.Scheduler.SendApplicationReminders == "" {
		c.Scheduler.SendApplicationReminders = "0 0 9 * * 1" // Mondays at 9 AM UTC
	}
	if c.Scheduler.ReconcilePartnershipState == "" {
		c.Scheduler.ReconcilePartnershipState = "0 0 3 * * *" // 3 AM UTC
	}

	// Partnership defaults
	if c.Partnership.StaleRequestDays <= 0 {
		c.Partnership.StaleRequestDays = 14
	}
	if c.Partnership.ReminderPendingDays <= 0 {
		c.Partnership.ReminderPendingDays = 7
	}

	return nil
}

// AuditEnabled reports whether the relational audit trail is configured.
func (c *Config) AuditEnabled() bool {
	return c.AuditDB.Host != ""
}

// GetAuditConnectionString returns a PostgreSQL connection string
func (c *Config) GetAuditConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.AuditDB.User,
		c.AuditDB.Password,
		c.AuditDB.Host,
		c.AuditDB.Port,
		c.AuditDB.Database,
		c.AuditDB.SSLMode,
	)
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
