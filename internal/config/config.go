package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents application configuration
type Config struct {
	Calendar CalendarConfig `mapstructure:"calendar"`
	Server   ServerConfig   `mapstructure:"server"`
	Client   ClientConfig   `mapstructure:"client"`
	Log      LogConfig      `mapstructure:"log"`
}

// CalendarConfig represents the office dates dataset configuration
type CalendarConfig struct {
	File     string `mapstructure:"file"`     // CSV with date,year,month columns
	Timezone string `mapstructure:"timezone"` // IANA name or "Local"; used for "today"
}

// ServerConfig represents the HTTP tool server configuration
type ServerConfig struct {
	Addr            string `mapstructure:"addr"`
	ReadTimeout     string `mapstructure:"read_timeout"`
	WriteTimeout    string `mapstructure:"write_timeout"`
	ShutdownTimeout string `mapstructure:"shutdown_timeout"`
}

// ClientConfig represents remote query configuration for CLI commands
type ClientConfig struct {
	ServerURL string `mapstructure:"server_url"` // empty: query the local dataset
	Timeout   string `mapstructure:"timeout"`
	Retries   int    `mapstructure:"retries"`
}

// LogConfig represents logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
	File   string `mapstructure:"file"`   // rotated JSON log file; empty logs to stderr
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("calendar.file", "data/office_days.csv")
	v.SetDefault("calendar.timezone", "Local")

	v.SetDefault("server.addr", ":8000")
	v.SetDefault("server.read_timeout", "10s")
	v.SetDefault("server.write_timeout", "15s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("client.server_url", "")
	v.SetDefault("client.timeout", "10s")
	v.SetDefault("client.retries", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("log.file", "")
}

// Load loads configuration from file and OFFICE_DATES_* environment variables.
// An explicit configPath must exist; otherwise config.yaml is searched for and
// defaults apply when none is found.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	// Set config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("$HOME/.office-dates")
		v.AddConfigPath("/etc/office-dates")
	}

	// Read environment variables, e.g. OFFICE_DATES_SERVER_ADDR
	v.SetEnvPrefix("OFFICE_DATES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configPath != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// Validate config
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Calendar.File == "" {
		return fmt.Errorf("calendar.file is required")
	}
	if _, err := c.Calendar.GetLocation(); err != nil {
		return err
	}

	if c.Server.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}

	if c.Client.Retries < 0 {
		return fmt.Errorf("client.retries must not be negative")
	}
	if c.Client.ServerURL != "" &&
		!strings.HasPrefix(c.Client.ServerURL, "http://") &&
		!strings.HasPrefix(c.Client.ServerURL, "https://") {
		return fmt.Errorf("client.server_url must be an http(s) URL, got '%s'", c.Client.ServerURL)
	}

	switch c.Log.Format {
	case "", "json", "console":
	default:
		return fmt.Errorf("log.format must be 'json' or 'console', got '%s'", c.Log.Format)
	}

	return nil
}

// GetLocation returns the location used to compute today's date
func (c *CalendarConfig) GetLocation() (*time.Location, error) {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("calendar.timezone '%s' is not a known time zone: %w", c.Timezone, err)
	}
	return loc, nil
}

// GetReadTimeout returns the server read timeout
func (c *ServerConfig) GetReadTimeout() time.Duration {
	return parseDuration(c.ReadTimeout, 10*time.Second)
}

// GetWriteTimeout returns the server write timeout
func (c *ServerConfig) GetWriteTimeout() time.Duration {
	return parseDuration(c.WriteTimeout, 15*time.Second)
}

// GetShutdownTimeout returns how long in-flight requests get on shutdown
func (c *ServerConfig) GetShutdownTimeout() time.Duration {
	return parseDuration(c.ShutdownTimeout, 10*time.Second)
}

// GetTimeout returns the per-request client timeout
func (c *ClientConfig) GetTimeout() time.Duration {
	return parseDuration(c.Timeout, 10*time.Second)
}

func parseDuration(value string, fallback time.Duration) time.Duration {
	if value == "" {
		return fallback
	}
	duration, err := time.ParseDuration(value)
	if err != nil || duration <= 0 {
		return fallback
	}
	return duration
}
