package config

import (
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// Config carries settings for every fintrack binary. Each binary reads the
// subset it needs; Validate checks only what is set.
type Config struct {
	// Web client app
	WebPort      string
	APIBaseURL   string
	TokenPath    string
	APIUsername  string
	APIPassword  string
	FetchTimeout time.Duration

	// API server
	APIPort      string
	SQLiteDBPath string
	JWTSecret    string
	AuthUsername string
	// bcrypt hash of the login password
	AuthPasswordHash string
	TokenTTL         time.Duration

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Google Sheets export
	GoogleSpreadsheetID string
	GoogleSheetName     string

	// Workers
	ExportBatchSize  int
	ScheduleInterval time.Duration
}

func Load() *Config {
	return &Config{
		WebPort:      getEnv("WEB_PORT", "8081"),
		APIBaseURL:   getEnv("API_BASE_URL", "http://localhost:8000/api"),
		TokenPath:    getEnv("TOKEN_PATH", "./data/token"),
		APIUsername:  getEnv("API_USERNAME", ""),
		APIPassword:  getEnv("API_PASSWORD", ""),
		FetchTimeout: getEnvDuration("FETCH_TIMEOUT", 15*time.Second),

		APIPort:          getEnv("API_PORT", "8000"),
		SQLiteDBPath:     getEnv("SQLITE_DB_PATH", "./data/fintrack.db"),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		AuthUsername:     getEnv("AUTH_USERNAME", ""),
		AuthPasswordHash: getEnv("AUTH_PASSWORD_HASH", ""),
		TokenTTL:         getEnvDuration("TOKEN_TTL", 24*time.Hour),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "fintrack"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "ledger_export"),

		GoogleSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		GoogleSheetName:     getEnv("GOOGLE_SHEET_NAME", "Ledger"),

		ExportBatchSize:  getEnvInt("EXPORT_BATCH_SIZE", 10),
		ScheduleInterval: getEnvDuration("SCHEDULE_INTERVAL", time.Hour),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	for _, p := range []struct{ name, val string }{
		{"WEB_PORT", c.WebPort},
		{"API_PORT", c.APIPort},
	} {
		if port, err := strconv.Atoi(p.val); err != nil {
			errs = append(errs, fmt.Sprintf("invalid %s '%s': must be a number", p.name, p.val))
		} else if port < 1 || port > 65535 {
			errs = append(errs, fmt.Sprintf("invalid %s %d: must be between 1 and 65535", p.name, port))
		}
	}

	if c.APIBaseURL != "" {
		if u, err := url.Parse(c.APIBaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") {
			errs = append(errs, fmt.Sprintf("invalid API_BASE_URL '%s'", c.APIBaseURL))
		}
	}

	if c.SQLiteDBPath != "" {
		dir := filepath.Dir(c.SQLiteDBPath)
		if dir != "." && dir != "" {
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				if err := os.MkdirAll(dir, 0755); err != nil {
					errs = append(errs, fmt.Sprintf("cannot create database directory '%s': %v", dir, err))
				}
			}
		}
	}

	if c.AMQPURL != "" {
		if u, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if u.Scheme != "amqp" && u.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", u.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.ExportBatchSize < 1 || c.ExportBatchSize > 1000 {
		errs = append(errs, fmt.Sprintf("invalid export batch size %d: must be between 1 and 1000", c.ExportBatchSize))
	}

	if c.ScheduleInterval < time.Minute || c.ScheduleInterval > 24*time.Hour {
		errs = append(errs, fmt.Sprintf("invalid schedule interval %v: must be between 1 minute and 24 hours", c.ScheduleInterval))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(errs, "\n- "))
	}
	return nil
}

// ValidateAPIServer checks the settings the API server cannot run without.
func (c *Config) ValidateAPIServer() error {
	if err := c.Validate(); err != nil {
		return err
	}
	if len(c.JWTSecret) < 32 {
		return fmt.Errorf("JWT_SECRET must be at least 32 bytes")
	}
	if c.AuthUsername == "" || c.AuthPasswordHash == "" {
		return fmt.Errorf("AUTH_USERNAME and AUTH_PASSWORD_HASH are required")
	}
	if c.SQLiteDBPath == "" {
		return fmt.Errorf("SQLITE_DB_PATH cannot be empty")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
