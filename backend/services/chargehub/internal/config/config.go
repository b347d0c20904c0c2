package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	libconfig "chargehub/backend/libs/config"
)

// Station backend kinds.
const (
	BackendPostgres = "postgres"
	BackendREST     = "rest"
	BackendNone     = "none"
)

// HTTPConfig configures the listener.
type HTTPConfig struct {
	Port            string        `yaml:"port" env:"CHARGEHUB_HTTP_PORT"`
	ReadTimeout     time.Duration `yaml:"readTimeout" env:"CHARGEHUB_HTTP_READ_TIMEOUT"`
	WriteTimeout    time.Duration `yaml:"writeTimeout" env:"CHARGEHUB_HTTP_WRITE_TIMEOUT"`
	IdleTimeout     time.Duration `yaml:"idleTimeout" env:"CHARGEHUB_HTTP_IDLE_TIMEOUT"`
	ShutdownTimeout time.Duration `yaml:"shutdownTimeout" env:"CHARGEHUB_HTTP_SHUTDOWN_TIMEOUT"`
}

// DatabaseConfig points at the Postgres instance holding users and, for the
// postgres backend, charging_stations.
type DatabaseConfig struct {
	DSN          string `yaml:"dsn" env:"CHARGEHUB_POSTGRES_DSN"`
	MaxOpenConns int    `yaml:"maxOpenConns" env:"CHARGEHUB_POSTGRES_MAX_OPEN_CONNS"`
	Migrate      bool   `yaml:"migrate" env:"CHARGEHUB_POSTGRES_MIGRATE"`
}

// RedisConfig is optional; without an address revocations stay in process.
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"CHARGEHUB_REDIS_ADDR"`
	Password string `yaml:"password" env:"CHARGEHUB_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"CHARGEHUB_REDIS_DB"`
	PoolSize int    `yaml:"poolSize" env:"CHARGEHUB_REDIS_POOL_SIZE"`
}

// JWTConfig configures session tokens.
type JWTConfig struct {
	Secret           string `yaml:"secret" env:"CHARGEHUB_JWT_SECRET"`
	ExpiresInMinutes int    `yaml:"expiresInMinutes" env:"CHARGEHUB_JWT_EXPIRES_MINUTES"`
}

// BackendConfig selects where station rows live.
type BackendConfig struct {
	Kind    string        `yaml:"kind" env:"CHARGEHUB_BACKEND_KIND"`
	URL     string        `yaml:"url" env:"CHARGEHUB_BACKEND_URL"`
	APIKey  string        `yaml:"apiKey" env:"CHARGEHUB_BACKEND_API_KEY"`
	Table   string        `yaml:"table" env:"CHARGEHUB_BACKEND_TABLE"`
	Timeout time.Duration `yaml:"timeout" env:"CHARGEHUB_BACKEND_TIMEOUT"`
}

// MapConfig selects the map widget adapter and theme.
type MapConfig struct {
	Adapter     string `yaml:"adapter" env:"CHARGEHUB_MAP_ADAPTER"`
	Theme       string `yaml:"theme" env:"CHARGEHUB_MAP_THEME"`
	HostedToken string `yaml:"hostedToken" env:"CHARGEHUB_MAP_HOSTED_TOKEN"`
	HostedStyle string `yaml:"hostedStyle" env:"CHARGEHUB_MAP_HOSTED_STYLE"`
	OpenTileURL string `yaml:"openTileUrl" env:"CHARGEHUB_MAP_OPEN_TILE_URL"`
}

// SessionsConfig tunes the per-session store registry.
type SessionsConfig struct {
	SweepInterval time.Duration `yaml:"sweepInterval" env:"CHARGEHUB_SESSIONS_SWEEP_INTERVAL"`
}

// LiveConfig tunes the websocket feed.
type LiveConfig struct {
	WriteTimeout time.Duration `yaml:"writeTimeout" env:"CHARGEHUB_LIVE_WRITE_TIMEOUT"`
	PongTimeout  time.Duration `yaml:"pongTimeout" env:"CHARGEHUB_LIVE_PONG_TIMEOUT"`
	PingInterval time.Duration `yaml:"pingInterval" env:"CHARGEHUB_LIVE_PING_INTERVAL"`
}

// Config represents service configuration loaded from YAML/env.
type Config struct {
	LogLevel string         `yaml:"logLevel" env:"LOG_LEVEL"`
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	JWT      JWTConfig      `yaml:"jwt"`
	Backend  BackendConfig  `yaml:"backend"`
	Map      MapConfig      `yaml:"map"`
	Sessions SessionsConfig `yaml:"sessions"`
	Live     LiveConfig     `yaml:"live"`
}

// Default returns the configuration used before file and environment overrides.
func Default() *Config {
	return &Config{
		LogLevel: "info",
		HTTP: HTTPConfig{
			Port:            "8080",
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			IdleTimeout:     60 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Database: DatabaseConfig{MaxOpenConns: 25, Migrate: true},
		JWT:      JWTConfig{ExpiresInMinutes: 60},
		Backend: BackendConfig{
			Kind:    BackendPostgres,
			Table:   "charging_stations",
			Timeout: 5 * time.Second,
		},
		Map:      MapConfig{Adapter: "virtual", Theme: "light"},
		Sessions: SessionsConfig{SweepInterval: time.Minute},
		Live: LiveConfig{
			WriteTimeout: 10 * time.Second,
			PongTimeout:  60 * time.Second,
			PingInterval: 30 * time.Second,
		},
	}
}

// Load reads configuration using the shared config loader.
func Load() (*Config, error) {
	return load(libconfig.NewLoader(nil))
}

func load(loader *libconfig.Loader) (*Config, error) {
	cfg := Default()
	if err := loader.Load(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks required settings and normalizes enumerations.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Database.DSN) == "" {
		return errors.New("config: database DSN is required")
	}
	if c.JWT.Secret == "" {
		return errors.New("config: jwt secret is required")
	}
	if c.JWT.ExpiresInMinutes <= 0 {
		c.JWT.ExpiresInMinutes = 60
	}

	c.Backend.Kind = strings.ToLower(strings.TrimSpace(c.Backend.Kind))
	switch c.Backend.Kind {
	case "":
		c.Backend.Kind = BackendPostgres
	case BackendPostgres, BackendNone:
	case BackendREST:
		if strings.TrimSpace(c.Backend.URL) == "" {
			return errors.New("config: backend url is required for the rest backend")
		}
	default:
		return fmt.Errorf("config: unknown backend kind %q", c.Backend.Kind)
	}
	if strings.TrimSpace(c.Backend.Table) == "" {
		c.Backend.Table = "charging_stations"
	}
	return nil
}

// HTTPAddress ensures we always return host:port formatted string.
func (c *Config) HTTPAddress() string {
	port := strings.TrimSpace(c.HTTP.Port)
	if port == "" {
		port = "8080"
	}
	if strings.Contains(port, ":") {
		return port
	}
	return fmt.Sprintf(":%s", port)
}

// JWTExpiration converts configured expiry to duration.
func (c *Config) JWTExpiration() time.Duration {
	if c.JWT.ExpiresInMinutes <= 0 {
		return time.Hour
	}
	return time.Duration(c.JWT.ExpiresInMinutes) * time.Minute
}

// BackendTimeout bounds each station backend call.
func (c *Config) BackendTimeout() time.Duration {
	if c.Backend.Timeout <= 0 {
		return 5 * time.Second
	}
	return c.Backend.Timeout
}

// RedisEnabled reports whether a redis address was configured.
func (c *Config) RedisEnabled() bool {
	return strings.TrimSpace(c.Redis.Addr) != ""
}
