package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const insecureDefaultSecret = "change-me"

type Config struct {
	AppEnv    string          `yaml:"app_env"`
	Addr      string          `yaml:"addr"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	Auth      AuthConfig      `yaml:"auth"`
	Storage   StorageConfig   `yaml:"storage"`
	Reminders ReminderConfig  `yaml:"reminders"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	CORS      []string        `yaml:"cors_origins"`
}

type DatabaseConfig struct {
	// Driver is "postgres" or "sqlite"
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	// Path is the sqlite file, ignored for postgres
	Path string `yaml:"path"`
}

// DSN builds the postgres connection string
func (d DatabaseConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable", d.User, d.Password, d.Host, d.Port, d.Name)
}

type RedisConfig struct {
	// Addr empty disables Redis; the in-memory cache is used instead and
	// notifications are not published.
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

type AuthConfig struct {
	// JWTSecret verifies identity-provider session tokens (HS256)
	JWTSecret       string        `yaml:"jwt_secret"`
	Issuer          string        `yaml:"issuer"`
	RequireAdminMFA bool          `yaml:"require_admin_mfa"`
	IdentityTTL     time.Duration `yaml:"identity_ttl"`
}

type StorageConfig struct {
	Root       string        `yaml:"root"`
	SigningKey string        `yaml:"signing_key"`
	URLTTL     time.Duration `yaml:"url_ttl"`
	BaseURL    string        `yaml:"base_url"`
}

type ReminderConfig struct {
	LeadTime       time.Duration `yaml:"lead_time"`
	Window         time.Duration `yaml:"window"`
	PolicyInterval time.Duration `yaml:"policy_interval"`
	// Interval > 0 runs the sweeps in-process on a ticker. Zero leaves
	// scheduling to the external cron trigger.
	Interval time.Duration `yaml:"interval"`
}

type RateLimitConfig struct {
	RPS   float64 `yaml:"rps"`
	Burst int     `yaml:"burst"`
}

// Load reads .env (if present), the environment, and then an optional YAML
// file whose values override both.
func Load(path string) (*Config, error) {
	// a missing .env is normal outside local development
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Addr:   getEnv("ADDR", ":8080"),
		Database: DatabaseConfig{
			Driver:   getEnv("DATABASE_DRIVER", "postgres"),
			Host:     getEnv("PG_HOST", "localhost"),
			Port:     getEnv("PG_PORT", "5432"),
			User:     getEnv("PG_USER", "roster"),
			Password: getEnv("PG_PASSWORD", ""),
			Name:     getEnv("PG_DB", "roster"),
			Path:     getEnv("SQLITE_PATH", "roster.db"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", ""),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("AUTH_JWT_SECRET", insecureDefaultSecret),
			Issuer:          getEnv("AUTH_ISSUER", ""),
			RequireAdminMFA: getEnvBool("AUTH_REQUIRE_ADMIN_MFA", false),
			IdentityTTL:     getEnvDuration("AUTH_IDENTITY_TTL", time.Minute),
		},
		Storage: StorageConfig{
			Root:       getEnv("STORAGE_ROOT", "data/files"),
			SigningKey: getEnv("STORAGE_SIGNING_KEY", insecureDefaultSecret),
			URLTTL:     getEnvDuration("STORAGE_URL_TTL", time.Hour),
			BaseURL:    getEnv("PUBLIC_BASE_URL", "http://localhost:8080"),
		},
		Reminders: ReminderConfig{
			LeadTime:       getEnvDuration("REMINDER_LEAD_TIME", 4*24*time.Hour),
			Window:         getEnvDuration("REMINDER_WINDOW", 24*time.Hour),
			PolicyInterval: getEnvDuration("REMINDER_POLICY_INTERVAL", 5*24*time.Hour),
			Interval:       getEnvDuration("REMINDER_INTERVAL", 0),
		},
		RateLimit: RateLimitConfig{
			RPS:   getEnvFloat("RATE_LIMIT_RPS", 1),
			Burst: getEnvInt("RATE_LIMIT_BURST", 5),
		},
		CORS: []string{"https://*", "http://localhost:3000"},
	}

	if path != "" {
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()

		dec := yaml.NewDecoder(f)
		if err := dec.Decode(cfg); err != nil {
			return nil, fmt.Errorf("failed to decode config file: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects configurations that cannot run or that would be unsafe
// outside development
func (c *Config) Validate() error {
	var errs []error

	switch c.Database.Driver {
	case "postgres", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported database driver %q", c.Database.Driver))
	}

	if c.Storage.URLTTL <= 0 {
		errs = append(errs, errors.New("storage url ttl must be positive"))
	}
	if c.Reminders.LeadTime <= 0 || c.Reminders.Window <= 0 || c.Reminders.PolicyInterval <= 0 {
		errs = append(errs, errors.New("reminder durations must be positive"))
	}
	if c.Reminders.Interval < 0 {
		errs = append(errs, errors.New("reminder interval must not be negative"))
	}
	// each sweep covers [now+lead, now+lead+window); a longer tick leaves gaps
	if c.Reminders.Interval > 0 && c.Reminders.Interval > c.Reminders.Window {
		errs = append(errs, fmt.Errorf("reminder interval %s must not exceed the reminder window %s",
			c.Reminders.Interval, c.Reminders.Window))
	}

	if c.AppEnv != "development" && c.AppEnv != "test" {
		if c.Auth.JWTSecret == insecureDefaultSecret || c.Auth.JWTSecret == "" {
			errs = append(errs, errors.New("AUTH_JWT_SECRET must be set outside development"))
		}
		if c.Storage.SigningKey == insecureDefaultSecret || c.Storage.SigningKey == "" {
			errs = append(errs, errors.New("STORAGE_SIGNING_KEY must be set outside development"))
		}
	}

	return errors.Join(errs...)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return def
}

func getEnvInt(key string, def int) int {
	if v, err := strconv.Atoi(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if v, err := strconv.ParseFloat(os.Getenv(key), 64); err == nil {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return v
	}
	return def
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(os.Getenv(key)); err == nil {
		return v
	}
	return def
}
