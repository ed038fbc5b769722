package shared

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Server   ServerConfig   `toml:"server"`
	Session  SessionConfig  `toml:"session"`
	Lyrics   LyricsConfig   `toml:"lyrics"`
	Engine   EngineConfig   `toml:"engine"`
	OAuth    OAuthConfig    `toml:"oauth"`
	Database DatabaseConfig `toml:"database"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host          string  `toml:"host"`
	Port          int     `toml:"port"`
	StaticDir     string  `toml:"static_dir"`
	RateLimit     float64 `toml:"rate_limit"`
	HTTPSRedirect bool    `toml:"https_redirect"`
	Debug         bool    `toml:"debug"`
}

// SessionConfig contains statically configured YouTube Music session material.
//
// Every field can also arrive per request or from the environment; the resolver
// in internal/session decides precedence.
type SessionConfig struct {
	Cookies       string `toml:"cookies"`
	VisitorData   string `toml:"visitor_data"`
	PoToken       string `toml:"po_token"`
	PoTokenServer string `toml:"po_token_server"`
	Location      string `toml:"location"`
	UserAgent     string `toml:"user_agent"`
	Timeout       int    `toml:"timeout_seconds"`
	MaxRetries    int    `toml:"max_retries"`
}

// LyricsConfig contains settings for the external lyrics service.
type LyricsConfig struct {
	BaseURL   string `toml:"base_url"`
	Enabled   bool   `toml:"enabled"`
	TimeoutMS int    `toml:"timeout_ms"`
}

// EngineConfig contains settings for the local token-generation engine.
type EngineConfig struct {
	ScriptPath string `toml:"script_path"`
}

// OAuthConfig contains the optional device-flow sign-in credentials.
type OAuthConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	TokenPath    string `toml:"token_path"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return &config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("%w: config file already exists at %s", ErrInvalidInput, path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
