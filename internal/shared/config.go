package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	spotifyauth "github.com/zmb3/spotify/v2/auth"
)

//go:embed config.example.toml
var exampleConf []byte

const defaultAPIURL = "https://api.spotify.com/v1/"

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	Server      ServerConfig      `toml:"server"`
	Session     SessionConfig     `toml:"session"`
	Database    DatabaseConfig    `toml:"database"`
	Catalog     CatalogConfig     `toml:"catalog"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig contains service-specific credentials.
type CredentialsConfig struct {
	Spotify SpotifyConfig `toml:"spotify"`
}

// SpotifyConfig contains Spotify API credentials and endpoint overrides.
//
// Endpoint fields are optional and default to the public Spotify accounts and Web API hosts.
type SpotifyConfig struct {
	ClientID     string `toml:"client_id"`
	ClientSecret string `toml:"client_secret"`
	RedirectURI  string `toml:"redirect_uri"`
	AuthURL      string `toml:"auth_url"`
	TokenURL     string `toml:"token_url"`
	APIURL       string `toml:"api_url"`
}

// String keeps the client secret out of formatted output and log lines.
func (s SpotifyConfig) String() string {
	secret := ""
	if s.ClientSecret != "" {
		secret = "[redacted]"
	}
	return fmt.Sprintf("{client_id:%s client_secret:%s redirect_uri:%s}", s.ClientID, secret, s.RedirectURI)
}

// Endpoints returns the authorize, token and API base URLs with defaults applied.
func (s SpotifyConfig) Endpoints() (authURL, tokenURL, apiURL string) {
	authURL, tokenURL, apiURL = s.AuthURL, s.TokenURL, s.APIURL
	if authURL == "" {
		authURL = spotifyauth.AuthURL
	}
	if tokenURL == "" {
		tokenURL = spotifyauth.TokenURL
	}
	if apiURL == "" {
		apiURL = defaultAPIURL
	}
	if !strings.HasSuffix(apiURL, "/") {
		apiURL += "/"
	}
	return authURL, tokenURL, apiURL
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host            string  `toml:"host"`
	Port            int     `toml:"port"`
	ReadTimeout     int     `toml:"read_timeout_seconds"`
	WriteTimeout    int     `toml:"write_timeout_seconds"`
	SessionSecret   string  `toml:"session_secret"`
	SearchRateLimit float64 `toml:"search_rate_limit"`
	SearchBurst     int     `toml:"search_burst"`
}

// Addr returns host:port for [http.Server].
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// Timeouts returns read and write timeouts as durations.
func (s ServerConfig) Timeouts() (read, write time.Duration) {
	return time.Duration(s.ReadTimeout) * time.Second, time.Duration(s.WriteTimeout) * time.Second
}

// SessionConfig selects the session backend and cookie behavior.
type SessionConfig struct {
	Backend      string      `toml:"backend"` // memory or redis
	TTLMinutes   int         `toml:"ttl_minutes"`
	SecureCookie bool        `toml:"secure_cookie"`
	Redis        RedisConfig `toml:"redis"`
}

// TTL returns the session lifetime.
func (s SessionConfig) TTL() time.Duration {
	return time.Duration(s.TTLMinutes) * time.Minute
}

// RedisConfig contains connection settings for the redis session backend.
type RedisConfig struct {
	Addr     string `toml:"addr"`
	Password string `toml:"password"`
	DB       int    `toml:"db"`
}

// DatabaseConfig contains database connection settings.
type DatabaseConfig struct {
	Path         string `toml:"path"`
	MaxOpenConns int    `toml:"max_open_conns"`
	MaxIdleConns int    `toml:"max_idle_conns"`
}

// CatalogConfig selects where reference albums and songs are read from.
type CatalogConfig struct {
	Source string `toml:"source"` // memory or sqlite
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Keys absent from the file keep the values of [DefaultConfig].
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return config, nil
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
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// ApplyEnv overrides credentials and the session secret from environment variables.
//
// Recognized keys are CLIENT_ID, CLIENT_SECRET, REDIRECT_URI and SESSION_SECRET
// (APP_SECRET_KEY is accepted as an alias). Empty values are ignored.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if getenv == nil {
		getenv = os.Getenv
	}

	set := func(dst *string, keys ...string) {
		for _, k := range keys {
			if v := strings.TrimSpace(getenv(k)); v != "" {
				*dst = v
				return
			}
		}
	}

	set(&c.Credentials.Spotify.ClientID, "CLIENT_ID", "SPOTIFY_CLIENT_ID")
	set(&c.Credentials.Spotify.ClientSecret, "CLIENT_SECRET", "SPOTIFY_CLIENT_SECRET")
	set(&c.Credentials.Spotify.RedirectURI, "REDIRECT_URI", "SPOTIFY_REDIRECT_URI")
	set(&c.Server.SessionSecret, "SESSION_SECRET", "APP_SECRET_KEY")
}

// Validate reports every required key that is missing.
//
// Returned errors wrap [ErrMissingConfig] so callers can refuse to serve traffic.
func (c *Config) Validate() error {
	var missing []string
	if c.Credentials.Spotify.ClientID == "" {
		missing = append(missing, "credentials.spotify.client_id")
	}
	if c.Credentials.Spotify.ClientSecret == "" {
		missing = append(missing, "credentials.spotify.client_secret")
	}
	if c.Credentials.Spotify.RedirectURI == "" {
		missing = append(missing, "credentials.spotify.redirect_uri")
	}
	if c.Server.SessionSecret == "" {
		missing = append(missing, "server.session_secret")
	}

	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingConfig, strings.Join(missing, ", "))
	}

	switch c.Session.Backend {
	case "", "memory", "redis":
	default:
		return fmt.Errorf("%w: unknown session backend %q", ErrInvalidConfig, c.Session.Backend)
	}

	switch c.Catalog.Source {
	case "", "memory", "sqlite":
	default:
		return fmt.Errorf("%w: unknown catalog source %q", ErrInvalidConfig, c.Catalog.Source)
	}

	return nil
}
