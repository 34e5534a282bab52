// Package config handles application configuration from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/citeworks/citeforge/internal/models"
)

// Bibliography ordering policies.
const (
	OrderInsertion = "insertion"
	OrderAuthor    = "author"
)

// Config represents the application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Citations CitationsConfig `yaml:"citations"`
	Logging   LoggingConfig   `yaml:"logging"`
}

type ServerConfig struct {
	Host        string   `yaml:"host"`
	Port        int      `yaml:"port"`
	RateLimit   int      `yaml:"rate_limit"` // requests per minute per client IP
	CORSOrigins []string `yaml:"cors_origins"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type DatabaseConfig struct {
	Path string `yaml:"path"`
}

type CitationsConfig struct {
	DefaultStyle      string `yaml:"default_style"`      // apa or mla
	YearSlack         int    `yaml:"year_slack"`         // years allowed beyond the current one
	BibliographyOrder string `yaml:"bibliography_order"` // insertion or author
}

// Style returns the configured default style. Validate guarantees the
// value parses, so the fallback is unreachable on a loaded config.
func (c CitationsConfig) Style() models.Style {
	s, err := models.ParseStyle(c.DefaultStyle)
	if err != nil {
		return models.StyleAPA
	}
	return s
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // json, text
}

// DefaultConfig returns a configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:        "0.0.0.0",
			Port:        8080,
			RateLimit:   120,
			CORSOrigins: []string{"*"},
		},
		Database: DatabaseConfig{
			Path: "./data/citeforge.db",
		},
		Citations: CitationsConfig{
			DefaultStyle:      string(models.StyleAPA),
			YearSlack:         0,
			BibliographyOrder: OrderInsertion,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads configuration from a YAML file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("config file not found: %s (run 'citeforge config init' to create one)", path)
		}
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Interpolate environment variables
	content := interpolateEnvVars(string(data))

	cfg := DefaultConfig()
	if err := yaml.Unmarshal([]byte(content), cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// GenerateSample creates a sample configuration file.
func GenerateSample(path string) error {
	sample := `# Citeforge configuration
# See documentation for all options

server:
  host: 0.0.0.0
  port: 8080
  rate_limit: 120  # requests per minute per client IP
  cors_origins:
    - "*"

database:
  path: ./data/citeforge.db
  # path: ${CITEFORGE_DB_PATH}

citations:
  default_style: apa  # apa or mla
  year_slack: 0       # publication years allowed beyond the current one
  bibliography_order: insertion  # insertion or author

logging:
  level: info  # debug, info, warn, error
  format: json # json or text
`
	return os.WriteFile(path, []byte(sample), 0644)
}

// Validate checks that the configuration is valid.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid port: %d", c.Server.Port)
	}

	if c.Server.RateLimit < 0 {
		return fmt.Errorf("invalid rate limit: %d", c.Server.RateLimit)
	}

	if c.Database.Path == "" {
		return fmt.Errorf("database path is required")
	}

	if _, err := models.ParseStyle(c.Citations.DefaultStyle); err != nil {
		return err
	}

	if c.Citations.YearSlack < 0 {
		return fmt.Errorf("invalid year slack: %d", c.Citations.YearSlack)
	}

	switch c.Citations.BibliographyOrder {
	case OrderInsertion, OrderAuthor:
	default:
		return fmt.Errorf("unsupported bibliography order: %s", c.Citations.BibliographyOrder)
	}

	return nil
}

// interpolateEnvVars replaces ${VAR_NAME} with environment variable values.
func interpolateEnvVars(content string) string {
	re := regexp.MustCompile(`\$\{([^}]+)\}`)
	return re.ReplaceAllStringFunc(content, func(match string) string {
		varName := strings.TrimPrefix(strings.TrimSuffix(match, "}"), "${")
		if value := os.Getenv(varName); value != "" {
			return value
		}
		return match // Keep original if not set
	})
}
