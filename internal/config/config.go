package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v10"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/matthewjwhite/sitecfg/internal/integration"
	"github.com/matthewjwhite/sitecfg/internal/site"
)

const (
	defaultPort           = "8080"
	defaultRateLimitRPS   = 25.0
	defaultRateLimitBurst = 50
	defaultLogLevel       = "info"
)

// ErrUnsupportedFormat is returned for config files that are neither YAML nor TOML.
var ErrUnsupportedFormat = errors.New("unsupported config file format")

// Config aggregates the site literals and the runtime settings of the service.
type Config struct {
	Site                 site.Spec
	Port                 string
	ShutdownGracePeriod  time.Duration
	ReadHeaderTimeout    time.Duration
	WriteTimeout         time.Duration
	IdleTimeout          time.Duration
	EnableRequestLogging bool
	RateLimitRPS         float64
	RateLimitBurst       int
	LogLevel             string
}

// fileConfig is the shape shared by YAML and TOML config files.
type fileConfig struct {
	Site         string            `yaml:"site" toml:"site"`
	Integrations []fileIntegration `yaml:"integrations" toml:"integrations"`
	Markdown     fileMarkdown      `yaml:"markdown" toml:"markdown"`
	Server       fileServer        `yaml:"server" toml:"server"`
	LogLevel     string            `yaml:"log_level" toml:"log_level"`
}

type fileIntegration struct {
	Name    string         `yaml:"name" toml:"name"`
	Options map[string]any `yaml:"options" toml:"options"`
}

type fileMarkdown struct {
	SyntaxHighlight string     `yaml:"syntax_highlight" toml:"syntax_highlight"`
	Shiki           *fileShiki `yaml:"shiki" toml:"shiki"`
}

type fileShiki struct {
	Wrap  *bool  `yaml:"wrap" toml:"wrap"`
	Theme string `yaml:"theme" toml:"theme"`
}

type fileServer struct {
	Port                 string         `yaml:"port" toml:"port"`
	ShutdownGracePeriod  string         `yaml:"shutdown_grace_period" toml:"shutdown_grace_period"`
	ReadHeaderTimeout    string         `yaml:"read_header_timeout" toml:"read_header_timeout"`
	WriteTimeout         string         `yaml:"write_timeout" toml:"write_timeout"`
	IdleTimeout          string         `yaml:"idle_timeout" toml:"idle_timeout"`
	EnableRequestLogging *bool          `yaml:"enable_request_logging" toml:"enable_request_logging"`
	RateLimit            *fileRateLimit `yaml:"rate_limit" toml:"rate_limit"`
}

type fileRateLimit struct {
	RPS   *float64 `yaml:"rps" toml:"rps"`
	Burst *int     `yaml:"burst" toml:"burst"`
}

// envConfig lists the environment variables understood by Load. Unset
// variables leave the field at its zero value.
type envConfig struct {
	Site            string   `env:"SITE_URL"`
	SyntaxHighlight string   `env:"SYNTAX_HIGHLIGHT"`
	ShikiTheme      string   `env:"SHIKI_THEME"`
	ShikiWrap       *bool    `env:"SHIKI_WRAP"`
	Integrations    []string `env:"SITE_INTEGRATIONS" envSeparator:","`
	Port            string   `env:"PORT"`
	RateLimitRPS    *float64 `env:"RATE_LIMIT_RPS"`
	RateLimitBurst  *int     `env:"RATE_LIMIT_BURST"`
	LogLevel        string   `env:"LOG_LEVEL"`
}

// CLIOverrides holds command-line flag overrides.
type CLIOverrides struct {
	ConfigFile      string
	Site            *string
	SyntaxHighlight *string
	Integrations    []string
	Port            *string
	RateLimitRPS    *float64
	RateLimitBurst  *int
	LogLevel        *string
}

// Load resolves configuration with precedence:
// CLI flags > config file > environment variables > defaults
func Load(overrides *CLIOverrides) (Config, error) {
	cfg := defaultConfig()

	if err := applyEnvConfig(&cfg); err != nil {
		return Config{}, fmt.Errorf("load environment: %w", err)
	}

	if overrides != nil && overrides.ConfigFile != "" {
		fileCfg, err := loadFromFile(overrides.ConfigFile)
		if err != nil {
			return Config{}, fmt.Errorf("load config file %s: %w", overrides.ConfigFile, err)
		}
		if err := applyFileConfig(&cfg, fileCfg); err != nil {
			return Config{}, fmt.Errorf("apply config file %s: %w", overrides.ConfigFile, err)
		}
	}

	if overrides != nil {
		applyCLIOverrides(&cfg, overrides)
	}

	if err := validateConfig(cfg); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// defaultConfig returns a Config with default values.
func defaultConfig() Config {
	return Config{
		Site:                 site.Defaults(),
		Port:                 defaultPort,
		ShutdownGracePeriod:  10 * time.Second,
		ReadHeaderTimeout:    5 * time.Second,
		WriteTimeout:         15 * time.Second,
		IdleTimeout:          60 * time.Second,
		EnableRequestLogging: true,
		RateLimitRPS:         defaultRateLimitRPS,
		RateLimitBurst:       defaultRateLimitBurst,
		LogLevel:             defaultLogLevel,
	}
}

// loadFromFile decodes a YAML or TOML config file, chosen by extension.
// Unknown keys are rejected in both formats.
func loadFromFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	var fileCfg fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&fileCfg); err != nil {
			return nil, fmt.Errorf("parse YAML: %w", err)
		}
	case ".toml":
		md, err := toml.Decode(string(data), &fileCfg)
		if err != nil {
			return nil, fmt.Errorf("parse TOML: %w", err)
		}
		if undecoded := undecodedKeys(md); len(undecoded) > 0 {
			return nil, fmt.Errorf("parse TOML: unknown keys %v", undecoded)
		}
	default:
		return nil, fmt.Errorf("%w %q", ErrUnsupportedFormat, ext)
	}

	return &fileCfg, nil
}

// undecodedKeys ignores keys below integration options, which are free-form.
func undecodedKeys(md toml.MetaData) []string {
	var keys []string
	for _, key := range md.Undecoded() {
		if len(key) > 2 && key[0] == "integrations" && key[1] == "options" {
			continue
		}
		keys = append(keys, key.String())
	}
	return keys
}

// applyFileConfig applies a decoded config file on top of cfg. Malformed
// durations are errors.
func applyFileConfig(cfg *Config, fileCfg *fileConfig) error {
	if fileCfg.Site != "" {
		cfg.Site.Site = fileCfg.Site
	}

	if fileCfg.Integrations != nil {
		specs := make([]site.IntegrationSpec, 0, len(fileCfg.Integrations))
		for _, in := range fileCfg.Integrations {
			specs = append(specs, site.IntegrationSpec{
				Name:    in.Name,
				Options: integration.Options(in.Options),
			})
		}
		cfg.Site.Integrations = specs
	}

	if fileCfg.Markdown.SyntaxHighlight != "" {
		cfg.Site.SyntaxHighlight = fileCfg.Markdown.SyntaxHighlight
	}
	if shiki := fileCfg.Markdown.Shiki; shiki != nil {
		if shiki.Wrap != nil {
			cfg.Site.Shiki.Wrap = *shiki.Wrap
		}
		if shiki.Theme != "" {
			cfg.Site.Shiki.Theme = shiki.Theme
		}
	}

	srv := fileCfg.Server
	if srv.Port != "" {
		cfg.Port = srv.Port
	}

	durations := []struct {
		name string
		raw  string
		dst  *time.Duration
	}{
		{"server.shutdown_grace_period", srv.ShutdownGracePeriod, &cfg.ShutdownGracePeriod},
		{"server.read_header_timeout", srv.ReadHeaderTimeout, &cfg.ReadHeaderTimeout},
		{"server.write_timeout", srv.WriteTimeout, &cfg.WriteTimeout},
		{"server.idle_timeout", srv.IdleTimeout, &cfg.IdleTimeout},
	}
	for _, d := range durations {
		if d.raw == "" {
			continue
		}
		parsed, err := time.ParseDuration(d.raw)
		if err != nil {
			return fmt.Errorf("%s: %w", d.name, err)
		}
		*d.dst = parsed
	}

	if srv.EnableRequestLogging != nil {
		cfg.EnableRequestLogging = *srv.EnableRequestLogging
	}
	if rl := srv.RateLimit; rl != nil {
		if rl.RPS != nil {
			cfg.RateLimitRPS = *rl.RPS
		}
		if rl.Burst != nil {
			cfg.RateLimitBurst = *rl.Burst
		}
	}

	if fileCfg.LogLevel != "" {
		cfg.LogLevel = fileCfg.LogLevel
	}
	return nil
}

// applyEnvConfig applies environment variable configuration.
func applyEnvConfig(cfg *Config) error {
	var e envConfig
	if err := env.Parse(&e); err != nil {
		return err
	}

	if e.Site != "" {
		cfg.Site.Site = e.Site
	}
	if e.SyntaxHighlight != "" {
		cfg.Site.SyntaxHighlight = e.SyntaxHighlight
	}
	if e.ShikiTheme != "" {
		cfg.Site.Shiki.Theme = e.ShikiTheme
	}
	if e.ShikiWrap != nil {
		cfg.Site.Shiki.Wrap = *e.ShikiWrap
	}
	if specs := integrationsFromNames(e.Integrations); len(specs) > 0 {
		cfg.Site.Integrations = specs
	}
	if port := strings.TrimSpace(e.Port); port != "" {
		cfg.Port = port
	}
	if e.RateLimitRPS != nil {
		cfg.RateLimitRPS = *e.RateLimitRPS
	}
	if e.RateLimitBurst != nil {
		cfg.RateLimitBurst = *e.RateLimitBurst
	}
	if e.LogLevel != "" {
		cfg.LogLevel = e.LogLevel
	}
	return nil
}

// applyCLIOverrides applies command-line flag overrides.
func applyCLIOverrides(cfg *Config, overrides *CLIOverrides) {
	if overrides.Site != nil && *overrides.Site != "" {
		cfg.Site.Site = *overrides.Site
	}

	if overrides.SyntaxHighlight != nil && *overrides.SyntaxHighlight != "" {
		cfg.Site.SyntaxHighlight = *overrides.SyntaxHighlight
	}

	if specs := integrationsFromNames(overrides.Integrations); len(specs) > 0 {
		cfg.Site.Integrations = specs
	}

	if overrides.Port != nil && *overrides.Port != "" {
		cfg.Port = *overrides.Port
	}

	if overrides.RateLimitRPS != nil && *overrides.RateLimitRPS >= 0 {
		cfg.RateLimitRPS = *overrides.RateLimitRPS
	}

	if overrides.RateLimitBurst != nil && *overrides.RateLimitBurst >= 0 {
		cfg.RateLimitBurst = *overrides.RateLimitBurst
	}

	if overrides.LogLevel != nil && *overrides.LogLevel != "" {
		cfg.LogLevel = *overrides.LogLevel
	}
}

// integrationsFromNames turns bare names into specs with default options.
func integrationsFromNames(names []string) []site.IntegrationSpec {
	var specs []site.IntegrationSpec
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		specs = append(specs, site.IntegrationSpec{Name: name})
	}
	return specs
}

// validateConfig validates the service settings of the final configuration.
func validateConfig(cfg Config) error {
	if strings.TrimSpace(cfg.Port) == "" {
		return fmt.Errorf("port cannot be empty")
	}
	if cfg.RateLimitRPS < 0 {
		return fmt.Errorf("RATE_LIMIT_RPS must be >= 0")
	}
	if cfg.RateLimitBurst < 0 {
		return fmt.Errorf("RATE_LIMIT_BURST must be >= 0")
	}
	if cfg.ShutdownGracePeriod <= 0 {
		return fmt.Errorf("shutdown grace period must be positive")
	}
	if _, err := zapcore.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf("log level: %w", err)
	}
	return nil
}
