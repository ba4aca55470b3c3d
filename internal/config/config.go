// Package config handles configuration loading for tickerintel.
// It supports YAML config files with environment variable overrides.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment overrides.
const EnvPrefix = "TICKERINTEL"

// Config represents the complete application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server"  yaml:"server" json:"server"`
	SEC     SECConfig     `mapstructure:"sec"     yaml:"sec" json:"sec"`
	News    NewsConfig    `mapstructure:"news"    yaml:"news" json:"news"`
	LLM     LLMConfig     `mapstructure:"llm"     yaml:"llm" json:"llm"`
	HTTP    HTTPConfig    `mapstructure:"http"    yaml:"http" json:"http"`
	Logging LoggingConfig `mapstructure:"logging" yaml:"logging" json:"logging"`
}

// ServerConfig holds the dashboard HTTP server settings.
type ServerConfig struct {
	Host           string   `mapstructure:"host"            yaml:"host" json:"host"`
	Port           int      `mapstructure:"port"            yaml:"port" json:"port"`
	CORSOrigins    []string `mapstructure:"cors_origins"    yaml:"cors_origins" json:"cors_origins"`
	RequestTimeout int      `mapstructure:"request_timeout" yaml:"request_timeout" json:"request_timeout"` // seconds
	DefaultTicker  string   `mapstructure:"default_ticker"  yaml:"default_ticker" json:"default_ticker"`
}

// SECConfig holds SEC EDGAR endpoints and limits.
type SECConfig struct {
	UserAgent      string `mapstructure:"user_agent"      yaml:"user_agent" json:"user_agent"`
	TickersURL     string `mapstructure:"tickers_url"     yaml:"tickers_url" json:"tickers_url"`
	SubmissionsURL string `mapstructure:"submissions_url" yaml:"submissions_url" json:"submissions_url"`
	ArchivesURL    string `mapstructure:"archives_url"    yaml:"archives_url" json:"archives_url"`
	FilingLimit    int    `mapstructure:"filing_limit"    yaml:"filing_limit" json:"filing_limit"`
	TextLimit      int    `mapstructure:"text_limit"      yaml:"text_limit" json:"text_limit"` // characters
	RateLimit      int    `mapstructure:"rate_limit"      yaml:"rate_limit" json:"rate_limit"` // requests/second, 0 = unpaced
}

// NewsConfig holds the primary and fallback news endpoints.
type NewsConfig struct {
	YahooSearchURL string `mapstructure:"yahoo_search_url" yaml:"yahoo_search_url" json:"yahoo_search_url"`
	GoogleRSSURL   string `mapstructure:"google_rss_url"   yaml:"google_rss_url" json:"google_rss_url"`
	Limit          int    `mapstructure:"limit"            yaml:"limit" json:"limit"`
}

// LLMConfig selects the summarization backend. The API key is never part of
// the configuration; it arrives with each analysis request.
type LLMConfig struct {
	Backend string `mapstructure:"backend"  yaml:"backend" json:"backend"` // "openai" or "gemini"
	Model   string `mapstructure:"model"    yaml:"model" json:"model"`
	BaseURL string `mapstructure:"base_url" yaml:"base_url" json:"base_url"`
}

// HTTPConfig holds outbound HTTP client settings.
type HTTPConfig struct {
	Timeout int `mapstructure:"timeout" yaml:"timeout" json:"timeout"` // seconds
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"  yaml:"level" json:"level"`  // "debug", "info", "warn", "error"
	Format string `mapstructure:"format" yaml:"format" json:"format"` // "text" or "json"
}

// Addr returns the listen address for the HTTP server.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeout returns the request timeout as a duration.
func (s ServerConfig) Timeout() time.Duration {
	return time.Duration(s.RequestTimeout) * time.Second
}

// WithTimeout derives a context bounded by the request timeout. A zero
// timeout means no deadline, matching the server.
func (s ServerConfig) WithTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if t := s.Timeout(); t > 0 {
		return context.WithTimeout(parent, t)
	}
	return context.WithCancel(parent)
}

// ClientTimeout returns the outbound HTTP timeout as a duration.
func (h HTTPConfig) ClientTimeout() time.Duration {
	return time.Duration(h.Timeout) * time.Second
}

// Load reads the configuration from file and environment variables.
// Config file search order:
//  1. ./config/config.yaml (project root)
//  2. ~/.tickerintel/config.yaml (home directory)
//  3. /etc/tickerintel/config.yaml (system)
//
// A .env file in the working directory is loaded first, if present.
// Environment variables override config file values.
// Format: TICKERINTEL_<SECTION>_<KEY>, e.g., TICKERINTEL_SEC_USER_AGENT
func Load() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath(filepath.Join(homeDir(), ".tickerintel"))
	v.AddConfigPath("/etc/tickerintel")

	// Read config file (not required to exist)
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	return unmarshal(v)
}

// LoadFromFile reads configuration from a specific file path.
func LoadFromFile(path string) (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	v := newViper()
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file %s: %w", path, err)
	}

	return unmarshal(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func unmarshal(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects settings the services cannot run with.
func (c *Config) Validate() error {
	switch c.LLM.Backend {
	case "openai", "gemini":
	default:
		return fmt.Errorf("config: unknown llm.backend %q", c.LLM.Backend)
	}
	if c.SEC.UserAgent == "" {
		return errors.New("config: sec.user_agent must be set (SEC rejects anonymous clients)")
	}
	if c.SEC.FilingLimit <= 0 {
		return fmt.Errorf("config: sec.filing_limit must be positive, got %d", c.SEC.FilingLimit)
	}
	if c.SEC.TextLimit <= 0 {
		return fmt.Errorf("config: sec.text_limit must be positive, got %d", c.SEC.TextLimit)
	}
	if c.Server.RequestTimeout < 0 {
		return fmt.Errorf("config: server.request_timeout must not be negative, got %d", c.Server.RequestTimeout)
	}
	if c.News.Limit <= 0 {
		return fmt.Errorf("config: news.limit must be positive, got %d", c.News.Limit)
	}
	return nil
}

// setDefaults sets sensible defaults for all config values.
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8501)
	v.SetDefault("server.cors_origins", []string{"*"})
	v.SetDefault("server.request_timeout", 180)
	v.SetDefault("server.default_ticker", "NVDA")

	// SEC EDGAR defaults
	v.SetDefault("sec.user_agent", "TraderResearch research@example.com")
	v.SetDefault("sec.tickers_url", "https://www.sec.gov/files/company_tickers.json")
	v.SetDefault("sec.submissions_url", "https://data.sec.gov/submissions")
	v.SetDefault("sec.archives_url", "https://www.sec.gov/Archives/edgar/data")
	v.SetDefault("sec.filing_limit", 10)
	v.SetDefault("sec.text_limit", 12000)
	v.SetDefault("sec.rate_limit", 8) // SEC allows 10 req/s per user agent

	// News defaults
	v.SetDefault("news.yahoo_search_url", "https://query1.finance.yahoo.com/v1/finance/search")
	v.SetDefault("news.google_rss_url", "https://news.google.com/rss/search")
	v.SetDefault("news.limit", 10)

	// LLM defaults
	v.SetDefault("llm.backend", "openai")
	v.SetDefault("llm.model", "gpt-4o")
	v.SetDefault("llm.base_url", "")

	// Outbound HTTP
	v.SetDefault("http.timeout", 30)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// loadDotEnv loads ./.env into the process environment without overriding
// variables that are already set.
func loadDotEnv() error {
	if _, err := os.Stat(".env"); err != nil {
		return nil
	}
	if err := godotenv.Load(); err != nil {
		return fmt.Errorf("error loading .env: %w", err)
	}
	return nil
}

// homeDir returns the user's home directory.
func homeDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return home
}
