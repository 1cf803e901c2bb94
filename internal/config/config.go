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

type Config struct {
	// HTTP Server
	Port string

	// Bill store
	StoreBackend  string // "file" or "sqlite"
	FileStorePath string
	SQLiteDBPath  string

	// Chat transcript
	ChatStorePath string

	// Assistant
	AssistantAPIKey      string
	AssistantBaseURL     string
	AssistantModel       string
	AssistantTemperature float64
	AssistantMaxTokens   int

	// AMQP
	AMQPURL      string
	AMQPExchange string
	AMQPQueue    string

	// Export worker
	SheetsSpreadsheetID string
	SheetsName          string
	SyncInterval        time.Duration

	// Stats cache
	StatsCacheTTL time.Duration

	// Chat rate limit
	ChatRequestsPerMinute int
}

func Load() *Config {
	return &Config{
		Port: getEnv("PORT", "8082"),

		StoreBackend:  getEnv("BILLBOOK_BACKEND", "file"),
		FileStorePath: getEnv("BILLBOOK_FILE_PATH", "./data/bills.json"),
		SQLiteDBPath:  getEnv("BILLBOOK_SQLITE_PATH", "./data/billbook.db"),

		ChatStorePath: getEnv("BILLBOOK_CHAT_PATH", "./data/chat.json"),

		AssistantAPIKey:      getEnv("ASSISTANT_API_KEY", ""),
		AssistantBaseURL:     getEnv("ASSISTANT_BASE_URL", ""),
		AssistantModel:       getEnv("ASSISTANT_MODEL", "qwen2.5:latest"),
		AssistantTemperature: getEnvFloat("ASSISTANT_TEMPERATURE", 0.7),
		AssistantMaxTokens:   getEnvInt("ASSISTANT_MAX_TOKENS", 2000),

		AMQPURL:      getEnv("AMQP_URL", ""),
		AMQPExchange: getEnv("AMQP_EXCHANGE", "billbook"),
		AMQPQueue:    getEnv("AMQP_QUEUE", "bill_events"),

		SheetsSpreadsheetID: getEnv("GOOGLE_SPREADSHEET_ID", ""),
		SheetsName:          getEnv("GOOGLE_SHEET_NAME", "Bills"),
		SyncInterval:        getEnvDuration("SYNC_INTERVAL", 30*time.Second),

		StatsCacheTTL: getEnvDuration("STATS_CACHE_TTL", 30*time.Second),

		ChatRequestsPerMinute: getEnvInt("CHAT_REQUESTS_PER_MINUTE", 60),
	}
}

// Validate validates the configuration and returns an error if invalid
func (c *Config) Validate() error {
	var errs []string

	if port, err := strconv.Atoi(c.Port); err != nil {
		errs = append(errs, fmt.Sprintf("invalid port '%s': must be a number", c.Port))
	} else if port < 1 || port > 65535 {
		errs = append(errs, fmt.Sprintf("invalid port %d: must be between 1 and 65535", port))
	}

	switch c.StoreBackend {
	case "file", "sqlite":
	default:
		errs = append(errs, fmt.Sprintf("invalid store backend '%s': must be one of [file sqlite]", c.StoreBackend))
	}

	storePath := c.StorePath()
	if storePath == "" {
		errs = append(errs, "store path cannot be empty")
	} else if dir := filepath.Dir(storePath); dir != "." && dir != "" {
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			if err := os.MkdirAll(dir, 0755); err != nil {
				errs = append(errs, fmt.Sprintf("cannot create data directory '%s': %v", dir, err))
			}
		}
	}

	if c.AMQPURL != "" {
		if parsed, err := url.Parse(c.AMQPURL); err != nil {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL '%s': %v", c.AMQPURL, err))
		} else if parsed.Scheme != "amqp" && parsed.Scheme != "amqps" {
			errs = append(errs, fmt.Sprintf("invalid AMQP URL scheme '%s': must be 'amqp' or 'amqps'", parsed.Scheme))
		}
		if c.AMQPExchange == "" {
			errs = append(errs, "AMQP exchange name cannot be empty when AMQP URL is provided")
		}
		if c.AMQPQueue == "" {
			errs = append(errs, "AMQP queue name cannot be empty when AMQP URL is provided")
		}
	}

	if c.AssistantMaxTokens < 1 {
		errs = append(errs, fmt.Sprintf("invalid assistant max tokens %d: must be positive", c.AssistantMaxTokens))
	}
	if c.AssistantTemperature < 0 || c.AssistantTemperature > 2 {
		errs = append(errs, fmt.Sprintf("invalid assistant temperature %g: must be in [0, 2]", c.AssistantTemperature))
	}

	if c.ChatRequestsPerMinute < 1 {
		errs = append(errs, fmt.Sprintf("invalid chat requests per minute %d: must be positive", c.ChatRequestsPerMinute))
	}

	if len(errs) > 0 {
		return fmt.Errorf("configuration errors: %s", strings.Join(errs, "; "))
	}
	return nil
}

// StorePath returns the path the configured backend persists to.
func (c *Config) StorePath() string {
	if c.StoreBackend == "sqlite" {
		return c.SQLiteDBPath
	}
	return c.FileStorePath
}

func getEnv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvFloat(key string, fallback float64) float64 {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
