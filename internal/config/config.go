package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	// Scan configuration
	Scan ScanConfig `mapstructure:"scan"`

	// Live search API
	SerpAPI SerpAPIConfig `mapstructure:"serpapi"`

	// Server configuration
	Server ServerConfig `mapstructure:"server"`

	// Logging configuration
	Logging LoggingConfig `mapstructure:"logging"`
}

// ScanConfig holds fetch and discovery settings
type ScanConfig struct {
	UserAgent string        `mapstructure:"user_agent"`
	Timeout   time.Duration `mapstructure:"timeout"`
	MaxPages  int           `mapstructure:"max_pages"`
	Industry  string        `mapstructure:"industry"`
}

// SerpAPIConfig holds SerpAPI configuration
type SerpAPIConfig struct {
	APIKey        string        `mapstructure:"api_key"`
	Endpoint      string        `mapstructure:"endpoint"`
	GL            string        `mapstructure:"gl"`
	HL            string        `mapstructure:"hl"`
	MaxQueries    int           `mapstructure:"max_queries"`
	QueryInterval time.Duration `mapstructure:"query_interval"`
}

// Credential returns the API key and whether one is configured.
func (c SerpAPIConfig) Credential() (string, bool) {
	key := strings.TrimSpace(c.APIKey)
	return key, key != ""
}

// ServerConfig holds server-specific configuration
type ServerConfig struct {
	Port              int           `mapstructure:"port"`
	Host              string        `mapstructure:"host"`
	ReadTimeout       time.Duration `mapstructure:"read_timeout"`
	WriteTimeout      time.Duration `mapstructure:"write_timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
	Burst             int           `mapstructure:"burst"`
}

// Addr is the listen address.
func (s ServerConfig) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// Load reads configuration from the optional config file, the environment
// and the given dotenv files (".env" when none are named). Missing files are
// not an error. Variables already set in the environment win over dotenv.
func Load(configPath string, envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("error loading %s: %w", f, err)
		}
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("./config")
		v.AddConfigPath("$HOME/.aivis")
	}

	setDefaults(v)
	if err := bindEnvVars(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		// Config file not found is not an error, we'll use defaults and env
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Scan defaults
	v.SetDefault("scan.user_agent", "AIVisibilityEngine/1.0")
	v.SetDefault("scan.timeout", "10s")
	v.SetDefault("scan.max_pages", 20)
	v.SetDefault("scan.industry", "generic")

	// SerpAPI defaults
	v.SetDefault("serpapi.endpoint", "https://serpapi.com/search.json")
	v.SetDefault("serpapi.gl", "de")
	v.SetDefault("serpapi.hl", "de")
	v.SetDefault("serpapi.max_queries", 10)
	v.SetDefault("serpapi.query_interval", "1.5s")

	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "localhost")
	v.SetDefault("server.read_timeout", "30s")
	v.SetDefault("server.write_timeout", "10m")
	v.SetDefault("server.requests_per_second", 1)
	v.SetDefault("server.burst", 3)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
}

// bindEnvVars binds environment variables
func bindEnvVars(v *viper.Viper) error {
	v.SetEnvPrefix("AIVIS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The search credential is also read under its conventional names.
	if err := v.BindEnv("serpapi.api_key", "AIVIS_SERPAPI_API_KEY", "SERPAPI_KEY", "SERPAPI_API_KEY"); err != nil {
		return fmt.Errorf("could not bind serpapi key: %w", err)
	}

	return nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Scan.MaxPages <= 0 {
		return fmt.Errorf("scan.max_pages must be positive")
	}
	if c.Scan.Timeout <= 0 {
		return fmt.Errorf("scan.timeout must be positive")
	}
	if c.SerpAPI.MaxQueries <= 0 {
		return fmt.Errorf("serpapi.max_queries must be positive")
	}
	if c.SerpAPI.QueryInterval < 0 {
		return fmt.Errorf("serpapi.query_interval must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}
	if c.Server.RequestsPerSecond <= 0 || c.Server.Burst <= 0 {
		return fmt.Errorf("server.requests_per_second and server.burst must be positive")
	}
	switch c.Logging.Format {
	case "json", "console":
	default:
		return fmt.Errorf("logging.format must be json or console, got %q", c.Logging.Format)
	}

	return nil
}
