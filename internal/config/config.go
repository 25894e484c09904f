package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by SESSION_STORE.
const (
	StoreFile    = "file"
	StoreRedis   = "redis"
	StoreMongoDB = "mongodb"
	StoreMemory  = "memory"
)

// Config represents the full application configuration surface.
type Config struct {
	Server   ServerConfig
	API      APIConfig
	Session  SessionConfig
	Sales    SalesConfig
	Alerts   AlertsConfig
	WhatsApp WhatsAppConfig
	Audit    AuditConfig
}

// ServerConfig holds the local console listener options.
type ServerConfig struct {
	Addr     string
	LogLevel string
}

// APIConfig points at the pharmacy backend.
type APIConfig struct {
	BaseURL  string
	AssetURL string
	Timeout  time.Duration
}

// SessionConfig selects where the operator session is persisted.
type SessionConfig struct {
	Store    string
	FilePath string
	Profile  string
	Language string
	Redis    RedisConfig
	MongoDB  MongoDBConfig
}

// RedisConfig holds settings for the redis session store.
type RedisConfig struct {
	URL    string
	Prefix string
}

// MongoDBConfig holds settings for the mongodb session store.
type MongoDBConfig struct {
	URI    string
	DBName string
}

// SalesConfig tunes the point-of-sale workflow.
type SalesConfig struct {
	SearchDebounce time.Duration
}

// AlertsConfig holds the alert refresh schedule.
type AlertsConfig struct {
	CronSchedule string
}

// WhatsAppConfig contains credentials for the optional alert digest.
type WhatsAppConfig struct {
	AccessToken   string
	PhoneNumberID string
	BaseURL       string
	APIVersion    string
	Recipient     string
}

// Enabled reports whether the digest notifier is configured.
func (c WhatsAppConfig) Enabled() bool {
	return c.AccessToken != "" && c.PhoneNumberID != "" && c.Recipient != ""
}

// AuditConfig controls where audit exports go.
type AuditConfig struct {
	ExportDir       string
	CredentialsPath string
	SpreadsheetID   string
	SheetRange      string
}

// SheetsEnabled reports whether audit rows can be published to Google Sheets.
func (c AuditConfig) SheetsEnabled() bool {
	return c.CredentialsPath != "" && c.SpreadsheetID != ""
}

// Load reads environment variables (optionally from the provided file) and
// materializes a Config instance.
func Load(envFile string) (*Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, os.ErrNotExist) {
				return nil, fmt.Errorf("failed loading env file %s: %w", envFile, err)
			}
		}
	} else {
		// Missing .env files are fine when the environment is already populated.
		_ = godotenv.Load()
	}

	timeout, err := durationWithDefault("FARMACIA_API_TIMEOUT", 15*time.Second)
	if err != nil {
		return nil, err
	}
	debounce, err := durationWithDefault("SEARCH_DEBOUNCE", 300*time.Millisecond)
	if err != nil {
		return nil, err
	}

	baseURL := strings.TrimSuffix(getenvWithDefault("FARMACIA_API_URL", "http://localhost:8081/api"), "/")

	cfg := &Config{
		Server: ServerConfig{
			Addr:     getenvWithDefault("CONSOLE_ADDR", "127.0.0.1:4200"),
			LogLevel: getenvWithDefault("LOG_LEVEL", "info"),
		},
		API: APIConfig{
			BaseURL:  baseURL,
			AssetURL: getenvWithDefault("FARMACIA_ASSET_URL", originOf(baseURL)),
			Timeout:  timeout,
		},
		Session: SessionConfig{
			Store:    strings.ToLower(getenvWithDefault("SESSION_STORE", StoreFile)),
			FilePath: getenvWithDefault("SESSION_FILE", defaultSessionFile()),
			Profile:  getenvWithDefault("CONSOLE_PROFILE", "default"),
			Language: getenvWithDefault("CONSOLE_LANGUAGE", languageFromLocale()),
			Redis: RedisConfig{
				URL:    os.Getenv("REDIS_URL"),
				Prefix: getenvWithDefault("REDIS_PREFIX", "farmacia:console:"),
			},
			MongoDB: MongoDBConfig{
				URI:    os.Getenv("MONGODB_URI"),
				DBName: getenvWithDefault("MONGODB_DB_NAME", "farmacia_console"),
			},
		},
		Sales: SalesConfig{
			SearchDebounce: debounce,
		},
		Alerts: AlertsConfig{
			CronSchedule: getenvWithDefault("ALERTS_CRON", "*/15 * * * *"),
		},
		WhatsApp: WhatsAppConfig{
			AccessToken:   os.Getenv("WHATSAPP_TOKEN"),
			PhoneNumberID: os.Getenv("WHATSAPP_PHONE_NUMBER_ID"),
			BaseURL:       getenvWithDefault("WHATSAPP_BASE_URL", "https://graph.facebook.com"),
			APIVersion:    getenvWithDefault("WHATSAPP_API_VERSION", "v20.0"),
			Recipient:     os.Getenv("WHATSAPP_ALERT_RECIPIENT"),
		},
		Audit: AuditConfig{
			ExportDir:       getenvWithDefault("AUDIT_EXPORT_DIR", "."),
			CredentialsPath: os.Getenv("GOOGLE_SHEETS_CREDENTIALS_PATH"),
			SpreadsheetID:   os.Getenv("AUDIT_SHEET_ID"),
			SheetRange:      getenvWithDefault("AUDIT_SHEET_RANGE", "Auditoria!A:J"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate ensures that required configuration fields are populated.
func (c *Config) Validate() error {
	if c == nil {
		return errors.New("config is nil")
	}

	if c.Server.Addr == "" {
		return errors.New("CONSOLE_ADDR must be provided")
	}

	if c.API.BaseURL == "" {
		return errors.New("FARMACIA_API_URL must be provided")
	}
	if _, err := url.ParseRequestURI(c.API.BaseURL); err != nil {
		return fmt.Errorf("FARMACIA_API_URL is invalid: %w", err)
	}
	if c.API.Timeout <= 0 {
		return errors.New("FARMACIA_API_TIMEOUT must be positive")
	}

	switch c.Session.Store {
	case StoreFile:
		if c.Session.FilePath == "" {
			return errors.New("SESSION_FILE must be provided for the file store")
		}
	case StoreRedis:
		if c.Session.Redis.URL == "" {
			return errors.New("REDIS_URL must be provided for the redis store")
		}
	case StoreMongoDB:
		if c.Session.MongoDB.URI == "" {
			return errors.New("MONGODB_URI must be provided for the mongodb store")
		}
		if c.Session.MongoDB.DBName == "" {
			return errors.New("MONGODB_DB_NAME must not be empty")
		}
	case StoreMemory:
	default:
		return fmt.Errorf("SESSION_STORE %q is not supported", c.Session.Store)
	}

	if c.Sales.SearchDebounce < 0 {
		return errors.New("SEARCH_DEBOUNCE must not be negative")
	}

	// Partially configured integrations are almost always a typo.
	if (c.WhatsApp.AccessToken != "" || c.WhatsApp.Recipient != "") && !c.WhatsApp.Enabled() {
		return errors.New("WHATSAPP_TOKEN, WHATSAPP_PHONE_NUMBER_ID and WHATSAPP_ALERT_RECIPIENT must be provided together")
	}
	if (c.Audit.CredentialsPath != "") != (c.Audit.SpreadsheetID != "") {
		return errors.New("GOOGLE_SHEETS_CREDENTIALS_PATH and AUDIT_SHEET_ID must be provided together")
	}

	return nil
}

func getenvWithDefault(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func durationWithDefault(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s is not a valid duration: %w", key, err)
	}
	return d, nil
}

func defaultSessionFile() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return "session.json"
	}
	return filepath.Join(dir, "farmacia", "session.json")
}

// languageFromLocale turns LANG values such as pt_BR.UTF-8 into pt-BR.
func languageFromLocale() string {
	lang := os.Getenv("LANG")
	if i := strings.IndexAny(lang, ".@"); i >= 0 {
		lang = lang[:i]
	}
	if lang == "" || lang == "C" || lang == "POSIX" {
		return "pt-BR"
	}
	return strings.ReplaceAll(lang, "_", "-")
}

func originOf(raw string) string {
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}
