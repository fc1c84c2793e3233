package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultPayday != 5 {
		t.Errorf("DefaultPayday = %d, want 5", cfg.General.DefaultPayday)
	}
	if cfg.Daemon.Interval.Duration != time.Minute {
		t.Errorf("Interval = %v, want 1m", cfg.Daemon.Interval.Duration)
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "paycycle", "config.toml")
	cfg := DefaultConfig()
	cfg.General.DefaultPayday = 28
	cfg.Daemon.Interval = Duration{90 * time.Second}
	cfg.Appearance.Theme = "harbor"

	if err := SaveTo(path, cfg); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), `interval = "1m30s"`) {
		t.Errorf("saved config missing interval string:\n%s", data)
	}

	got, err := LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if got.General.DefaultPayday != 28 {
		t.Errorf("DefaultPayday = %d, want 28", got.General.DefaultPayday)
	}
	if got.Daemon.Interval.Duration != 90*time.Second {
		t.Errorf("Interval = %v, want 1m30s", got.Daemon.Interval.Duration)
	}
	if got.Appearance.Theme != "harbor" {
		t.Errorf("Theme = %q, want harbor", got.Appearance.Theme)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("PAYCYCLE_DEFAULT_PAYDAY", "15")
	t.Setenv("PAYCYCLE_DAEMON_INTERVAL", "5s")
	t.Setenv("PAYCYCLE_REDIS_ADDR", "localhost:6379")

	cfg, err := LoadFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.General.DefaultPayday != 15 {
		t.Errorf("DefaultPayday = %d, want 15", cfg.General.DefaultPayday)
	}
	if cfg.Daemon.Interval.Duration != 5*time.Second {
		t.Errorf("Interval = %v, want 5s", cfg.Daemon.Interval.Duration)
	}
	if cfg.Notify.RedisAddr != "localhost:6379" {
		t.Errorf("RedisAddr = %q, want localhost:6379", cfg.Notify.RedisAddr)
	}
}

func TestValidate(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}

	cfg := DefaultConfig()
	cfg.General.DefaultPayday = 0
	cfg.General.DefaultSalary = "lots"
	cfg.Notify.AMQPURL = "http://broker"
	cfg.Log.Format = "xml"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	for _, want := range []string{"default payday", "default salary", "AMQP URL scheme", "log format"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("Validate() error missing %q:\n%v", want, err)
		}
	}
}
