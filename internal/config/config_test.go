package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr() != ":8080" {
		t.Fatalf("unexpected addr %q", cfg.Server.Addr())
	}
	if cfg.DB.Driver != DriverMemory || cfg.Auth.Mode != AuthDev {
		t.Fatalf("unexpected defaults: %#v %#v", cfg.DB, cfg.Auth)
	}
	if cfg.Reminder.Interval != time.Minute || cfg.DrugInfo.CacheTTL != 24*time.Hour {
		t.Fatalf("unexpected durations: %#v %#v", cfg.Reminder, cfg.DrugInfo)
	}
	if cfg.Redis.Enabled() || cfg.AMQP.Enabled() {
		t.Fatalf("optional backends must be off by default")
	}
	if cfg.AMQP.Queue != "medicine.events" {
		t.Fatalf("unexpected queue %q", cfg.AMQP.Queue)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("DB_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("AUTH_MODE", "local")
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("REMINDER_INTERVAL", "30s")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "2")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.DB.Driver != DriverSQLite || cfg.DB.SQLitePath != "/tmp/x.db" {
		t.Fatalf("env not applied: %#v %#v", cfg.Server, cfg.DB)
	}
	if cfg.Auth.Mode != AuthLocal || cfg.Auth.JWTSecret != "s3cret" {
		t.Fatalf("auth not applied: %#v", cfg.Auth)
	}
	if cfg.Reminder.Interval != 30*time.Second {
		t.Fatalf("interval not applied: %v", cfg.Reminder.Interval)
	}
	if !cfg.Redis.Enabled() || cfg.Redis.DB != 2 {
		t.Fatalf("redis not applied: %#v", cfg.Redis)
	}
}

func TestLoad_DSNImpliesPostgres(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@localhost/db")

	cfg, err := Load(Options{})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DB.Driver != DriverPostgres {
		t.Fatalf("expected postgres, got %q", cfg.DB.Driver)
	}
}

func TestLoad_EnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	if err := os.WriteFile(envFile, []byte("OPENFDA_TIMEOUT=3s\nAPP_NAME=reminders-test\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	t.Cleanup(func() {
		os.Unsetenv("OPENFDA_TIMEOUT")
		os.Unsetenv("APP_NAME")
	})

	cfg, err := Load(Options{EnvFile: envFile})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DrugInfo.Timeout != 3*time.Second || cfg.App != "reminders-test" {
		t.Fatalf(".env not applied: %#v %q", cfg.DrugInfo, cfg.App)
	}
}

func TestLoad_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(f, []byte("port: \"7070\"\nreminder_tz: Asia/Kolkata\n"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	cfg, err := Load(Options{ConfigFile: f})
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Port != "7070" {
		t.Fatalf("config file not applied: %#v", cfg.Server)
	}
	if cfg.Reminder.Location().String() != "Asia/Kolkata" {
		t.Fatalf("unexpected location %s", cfg.Reminder.Location())
	}
}

func TestLoad_Invalid(t *testing.T) {
	cases := map[string]map[string]string{
		"unknown driver":   {"DB_DRIVER": "oracle"},
		"postgres w/o dsn": {"DB_DRIVER": "postgres"},
		"local w/o secret": {"AUTH_MODE": "local"},
		"gotrue w/o url":   {"AUTH_MODE": "gotrue"},
		"unknown auth":     {"AUTH_MODE": "ldap"},
		"bad interval":     {"REMINDER_INTERVAL": "0s"},
		"bad tz":           {"REMINDER_TZ": "Mars/Base"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for k, v := range env {
				t.Setenv(k, v)
			}
			if _, err := Load(Options{}); !errors.Is(err, ErrInvalidConfig) {
				t.Fatalf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}
