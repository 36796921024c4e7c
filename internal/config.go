package internal

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config represents the spendr configuration
type Config struct {
	Database DatabaseConfig `mapstructure:"database"`
	Log      LogConfig      `mapstructure:"log"`
	Ledger   LedgerConfig   `mapstructure:"ledger"`
	NATS     NATSConfig     `mapstructure:"nats"`

	// Debug mode
	Debug bool `mapstructure:"debug"`
}

type DatabaseConfig struct {
	Path          string `mapstructure:"path"`            // Path to SQLite database file
	BusyTimeoutMS int    `mapstructure:"busy_timeout_ms"` // How long a writer waits for the database lock
}

type LogConfig struct {
	Level string `mapstructure:"level"`
	Dir   string `mapstructure:"dir"` // Empty logs to stderr only
}

type LedgerConfig struct {
	User     string `mapstructure:"user"`     // Acting user for CLI operations
	Currency string `mapstructure:"currency"` // Default wallet currency and display symbol
}

type NATSConfig struct {
	Enabled       bool   `mapstructure:"enabled"`
	URL           string `mapstructure:"url"`
	SubjectPrefix string `mapstructure:"subject_prefix"`
	Username      string `mapstructure:"username"`
	Password      string `mapstructure:"password"`
	Token         string `mapstructure:"token"`
}

// LoadConfig loads the configuration from various sources.
// A .env file in the working directory is loaded first when present.
func LoadConfig(configFile string) (*Config, error) {
	_ = godotenv.Load()

	v := NewViper(configFile)

	// Read the config file
	if err := v.ReadInConfig(); err != nil {
		// It's okay if the config file doesn't exist
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	// Parse the configuration
	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	config.Ledger.Currency = strings.ToUpper(config.Ledger.Currency)

	return &config, nil
}

// NewViper returns a viper instance with defaults, search paths and SPENDR_ env overrides applied.
func NewViper(configFile string) *viper.Viper {
	v := viper.New()

	// Set default values
	setDefaultConfig(v)

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath(DefaultConfigPath)
		v.AddConfigPath("/etc/" + DefaultAppName + "/")
		v.SetConfigName("config")
		v.SetConfigType("json")
	}

	// Override with environment variables prefixed with SPENDR_
	v.SetEnvPrefix(strings.ToUpper(DefaultAppName))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	return v
}

// Settings returns every known key with its effective value, sorted by key.
// Secrets are masked.
func Settings(v *viper.Viper) []Setting {
	keys := v.AllKeys()
	sort.Strings(keys)

	out := make([]Setting, 0, len(keys))
	for _, key := range keys {
		value := fmt.Sprint(v.Get(key))
		if isSecretKey(key) && value != "" {
			value = "********"
		}
		out = append(out, Setting{Key: key, Value: value})
	}
	return out
}

// Setting is one resolved configuration key.
type Setting struct {
	Key   string
	Value string
}

func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "password") || strings.HasSuffix(key, "token")
}

// Validate validates the configuration and returns every problem at once
func (c *Config) Validate() error {
	var problems []string

	if c.Database.Path == "" {
		problems = append(problems, "database path cannot be empty")
	} else if dir := filepath.Dir(c.Database.Path); dir != "." && dir != "" {
		if info, err := os.Stat(dir); err == nil && !info.IsDir() {
			problems = append(problems, fmt.Sprintf("database directory '%s' is not a directory", dir))
		}
	}
	if c.Database.BusyTimeoutMS < 0 {
		problems = append(problems, fmt.Sprintf("invalid busy timeout %d: must not be negative", c.Database.BusyTimeoutMS))
	}

	if _, err := zerolog.ParseLevel(strings.ToLower(c.Log.Level)); err != nil {
		problems = append(problems, fmt.Sprintf("invalid log level '%s'", c.Log.Level))
	}

	if strings.TrimSpace(c.Ledger.User) == "" {
		problems = append(problems, "ledger user cannot be empty")
	}
	if !isSupportedCurrency(c.Ledger.Currency) {
		problems = append(problems, fmt.Sprintf("unsupported currency '%s'", c.Ledger.Currency))
	}

	if c.NATS.Enabled {
		if parsedURL, err := url.Parse(c.NATS.URL); err != nil {
			problems = append(problems, fmt.Sprintf("invalid NATS URL '%s': %v", c.NATS.URL, err))
		} else if parsedURL.Scheme != "nats" && parsedURL.Scheme != "tls" {
			problems = append(problems, fmt.Sprintf("invalid NATS URL scheme '%s': must be 'nats' or 'tls'", parsedURL.Scheme))
		}
		if strings.TrimSpace(c.NATS.SubjectPrefix) == "" {
			problems = append(problems, "NATS subject prefix cannot be empty when NATS is enabled")
		}
	}

	if len(problems) > 0 {
		return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(problems, "\n- "))
	}
	return nil
}

// LogLevel returns the configured zerolog level; debug mode forces debug.
func (c *Config) LogLevel() zerolog.Level {
	if c.Debug {
		return zerolog.DebugLevel
	}
	return ParseLevel(c.Log.Level)
}

// kept in sync with models.SupportedCurrencies; internal cannot import the domain
var supportedCurrencies = []string{"PHP", "USD", "EUR", "GBP", "JPY", "AUD", "CAD", "SGD"}

func isSupportedCurrency(code string) bool {
	for _, c := range supportedCurrencies {
		if c == code {
			return true
		}
	}
	return false
}

// setDefaultConfig sets default configuration values
func setDefaultConfig(v *viper.Viper) {
	// Database defaults
	v.SetDefault("database.path", filepath.Join(".", "data", DefaultAppName+".db"))
	v.SetDefault("database.busy_timeout_ms", 5000)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.dir", "")

	v.SetDefault("ledger.user", "local")
	v.SetDefault("ledger.currency", "PHP")

	v.SetDefault("nats.enabled", false)
	v.SetDefault("nats.url", "nats://127.0.0.1:4222")
	v.SetDefault("nats.subject_prefix", DefaultAppName)
	v.SetDefault("nats.username", "")
	v.SetDefault("nats.password", "")
	v.SetDefault("nats.token", "")

	// Debug mode default
	v.SetDefault("debug", false)
}
