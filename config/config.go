package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all farmfresh service configuration.
type Config struct {
	HTTP     HTTPConfig     `yaml:"http"`
	Database DatabaseConfig `yaml:"database"`
	Redis    RedisConfig    `yaml:"redis"`
	Session  SessionConfig  `yaml:"session"`
	Cart     CartConfig     `yaml:"cart"`
	Farmer   FarmerConfig   `yaml:"farmer"`
	Auth     AuthConfig     `yaml:"auth"`
	Guard    GuardConfig    `yaml:"guard"`
	Logging  LoggingConfig  `yaml:"logging"`
}

type HTTPConfig struct {
	Addr              string `yaml:"addr"`
	ReadHeaderTimeout string `yaml:"read_header_timeout"`
	ReadTimeout       string `yaml:"read_timeout"`
	WriteTimeout      string `yaml:"write_timeout"`
	IdleTimeout       string `yaml:"idle_timeout"`
	ShutdownTimeout   string `yaml:"shutdown_timeout"`
}

// DatabaseConfig selects the catalog store. Driver is "sqlite3" or "postgres".
type DatabaseConfig struct {
	Driver string `yaml:"driver"`
	DSN    string `yaml:"dsn"`
}

type RedisConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type SessionConfig struct {
	TTL        string `yaml:"ttl"`
	CookieName string `yaml:"cookie_name"`
}

type CartConfig struct {
	TTL        string `yaml:"ttl"`
	CookieName string `yaml:"cookie_name"`
}

type FarmerConfig struct {
	TTL string `yaml:"ttl"`
}

type AuthConfig struct {
	// VerifyPasswords checks bcrypt hashes for users created by signup.
	// Seeded directory users have no hash and are always accepted.
	VerifyPasswords bool `yaml:"verify_passwords"`
	BcryptCost      int  `yaml:"bcrypt_cost"`
}

type GuardConfig struct {
	// Policy is "strict" or "permissive".
	Policy string `yaml:"policy"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json, console
}

func DefaultConfig() *Config {
	return &Config{
		HTTP: HTTPConfig{
			Addr:              ":8080",
			ReadHeaderTimeout: "5s",
			ReadTimeout:       "15s",
			WriteTimeout:      "15s",
			IdleTimeout:       "60s",
			ShutdownTimeout:   "10s",
		},
		Database: DatabaseConfig{
			Driver: "sqlite3",
			DSN:    "file:farmfresh.db?cache=shared",
		},
		Redis: RedisConfig{
			Host: "localhost",
			Port: 6379,
		},
		Session: SessionConfig{
			TTL:        "30m",
			CookieName: "sessionId",
		},
		Cart: CartConfig{
			TTL:        "24h",
			CookieName: "cartSessionId",
		},
		Farmer: FarmerConfig{
			TTL: "24h",
		},
		Auth: AuthConfig{
			VerifyPasswords: false,
			BcryptCost:      8,
		},
		Guard: GuardConfig{
			Policy: "permissive",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

// Load reads the YAML file at path over the defaults. A missing file is not
// an error. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err == nil {
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config: %w", err)
			}
		}
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create config dir: %w", err)
		}
	}
	return os.WriteFile(path, data, 0o644)
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("FARMFRESH_HTTP_ADDR"); v != "" {
		c.HTTP.Addr = v
	}
	if v := os.Getenv("DATABASE_DRIVER"); v != "" {
		c.Database.Driver = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_HOST"); v != "" {
		c.Redis.Host = v
	}
	if v := os.Getenv("REDIS_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Redis.Port = n
		}
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		c.Redis.Password = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
	if v := os.Getenv("GUARD_POLICY"); v != "" {
		c.Guard.Policy = v
	}
	if v := os.Getenv("AUTH_VERIFY_PASSWORDS"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Auth.VerifyPasswords = b
		}
	}
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite3", "postgres":
	default:
		return fmt.Errorf("database.driver must be sqlite3 or postgres, got %q", c.Database.Driver)
	}
	if strings.TrimSpace(c.Database.DSN) == "" {
		return fmt.Errorf("database.dsn is required")
	}
	switch c.Guard.Policy {
	case "strict", "permissive":
	default:
		return fmt.Errorf("guard.policy must be strict or permissive, got %q", c.Guard.Policy)
	}
	if c.Redis.Port <= 0 {
		return fmt.Errorf("redis.port must be positive")
	}
	durations := map[string]string{
		"http.read_header_timeout": c.HTTP.ReadHeaderTimeout,
		"http.read_timeout":        c.HTTP.ReadTimeout,
		"http.write_timeout":       c.HTTP.WriteTimeout,
		"http.idle_timeout":        c.HTTP.IdleTimeout,
		"http.shutdown_timeout":    c.HTTP.ShutdownTimeout,
		"session.ttl":              c.Session.TTL,
		"cart.ttl":                 c.Cart.TTL,
		"farmer.ttl":               c.Farmer.TTL,
	}
	for name, v := range durations {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
		if d <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	return nil
}

func (c *Config) RedisAddr() string {
	return c.Redis.Host + ":" + strconv.Itoa(c.Redis.Port)
}

// Duration parses a validated duration field, falling back to def.
func Duration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func (c *Config) SessionTTL() time.Duration {
	return Duration(c.Session.TTL, 30*time.Minute)
}

func (c *Config) CartTTL() time.Duration {
	return Duration(c.Cart.TTL, 24*time.Hour)
}

func (c *Config) FarmerTTL() time.Duration {
	return Duration(c.Farmer.TTL, 24*time.Hour)
}
