package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"policereserves/roster/internal/config"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("APP_ENV", "development")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Reminders.LeadTime != 4*24*time.Hour {
		t.Errorf("Expected 4 day lead time, got %s", cfg.Reminders.LeadTime)
	}
	if cfg.Reminders.PolicyInterval != 5*24*time.Hour {
		t.Errorf("Expected 5 day policy interval, got %s", cfg.Reminders.PolicyInterval)
	}
	if cfg.Storage.URLTTL != time.Hour {
		t.Errorf("Expected 1 hour signed url ttl, got %s", cfg.Storage.URLTTL)
	}
	if cfg.Reminders.Interval != 0 {
		t.Errorf("Expected in-process scheduling disabled by default, got %s", cfg.Reminders.Interval)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("DATABASE_DRIVER", "sqlite")
	t.Setenv("REMINDER_LEAD_TIME", "72h")
	t.Setenv("RATE_LIMIT_BURST", "9")

	cfg, err := config.Load("")
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Expected sqlite driver, got %s", cfg.Database.Driver)
	}
	if cfg.Reminders.LeadTime != 72*time.Hour {
		t.Errorf("Expected 72h lead time, got %s", cfg.Reminders.LeadTime)
	}
	if cfg.RateLimit.Burst != 9 {
		t.Errorf("Expected burst 9, got %d", cfg.RateLimit.Burst)
	}
}

func TestLoad_YAMLOverridesEnv(t *testing.T) {
	t.Setenv("APP_ENV", "development")
	t.Setenv("ADDR", ":9000")

	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "addr: \":7000\"\nreminders:\n  window: 12h\nredis:\n  addr: \"cache:6379\"\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}

	if cfg.Addr != ":7000" {
		t.Errorf("Expected addr from yaml, got %s", cfg.Addr)
	}
	if cfg.Reminders.Window != 12*time.Hour {
		t.Errorf("Expected 12h window, got %s", cfg.Reminders.Window)
	}
	if cfg.Redis.Addr != "cache:6379" {
		t.Errorf("Expected redis addr from yaml, got %s", cfg.Redis.Addr)
	}
	if cfg.Reminders.LeadTime != 4*24*time.Hour {
		t.Errorf("Expected untouched lead time to keep its default, got %s", cfg.Reminders.LeadTime)
	}
}

func TestValidate_InsecureSecretsRejectedInProduction(t *testing.T) {
	t.Setenv("APP_ENV", "production")

	if _, err := config.Load(""); err == nil {
		t.Fatal("Expected Load to fail with default secrets in production")
	}
}

func TestValidate_ProductionWithSecrets(t *testing.T) {
	t.Setenv("APP_ENV", "production")
	t.Setenv("AUTH_JWT_SECRET", "a-real-secret")
	t.Setenv("STORAGE_SIGNING_KEY", "another-real-secret")

	if _, err := config.Load(""); err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
}

func TestValidate_UnknownDriver(t *testing.T) {
	cfg := &config.Config{
		AppEnv:   "development",
		Database: config.DatabaseConfig{Driver: "mysql"},
		Storage:  config.StorageConfig{URLTTL: time.Hour},
		Reminders: config.ReminderConfig{
			LeadTime:       time.Hour,
			Window:         time.Hour,
			PolicyInterval: time.Hour,
		},
	}

	if err := cfg.Validate(); err == nil {
		t.Fatal("Expected Validate to reject an unknown driver")
	}
}

func TestValidate_ReminderInterval(t *testing.T) {
	base := func(interval time.Duration) *config.Config {
		return &config.Config{
			AppEnv:   "development",
			Database: config.DatabaseConfig{Driver: "sqlite"},
			Storage:  config.StorageConfig{URLTTL: time.Hour},
			Reminders: config.ReminderConfig{
				LeadTime:       96 * time.Hour,
				Window:         24 * time.Hour,
				PolicyInterval: 120 * time.Hour,
				Interval:       interval,
			},
		}
	}

	tests := []struct {
		name     string
		interval time.Duration
		wantErr  bool
	}{
		{"disabled", 0, false},
		{"hourly", time.Hour, false},
		{"equal to window", 24 * time.Hour, false},
		{"longer than window", 25 * time.Hour, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := base(tt.interval).Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Expected error=%v, got %v", tt.wantErr, err)
			}
		})
	}
}
