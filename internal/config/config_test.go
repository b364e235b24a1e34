package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
)

func TestLoadConfigFrom_WritesDefaults(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	if err := LoadConfigFrom(dir); err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, ConfigFileName)); err != nil {
		t.Fatalf("default config not written: %v", err)
	}
	if Failure != BestEffort || MissingContent != MissingContentEmpty {
		t.Fatalf("defaults not applied: %q %q", Failure, MissingContent)
	}
	if Workers != 0 || PoolCapacity() < 1 {
		t.Fatalf("workers=%d capacity=%d", Workers, PoolCapacity())
	}
}

func TestLoadConfigFrom_ReadsFile(t *testing.T) {
	viper.Reset()
	defer viper.Reset()
	defer apply(DefaultConfig)

	dir := t.TempDir()
	body := "workers: 3\nfailure_policy: fail-fast\nmissing_content: skip\nlog_level: debug\n"
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(body), 0644); err != nil {
		t.Fatal(err)
	}

	if err := LoadConfigFrom(dir); err != nil {
		t.Fatalf("LoadConfigFrom: %v", err)
	}
	if PoolCapacity() != 3 {
		t.Fatalf("PoolCapacity = %d, want 3", PoolCapacity())
	}
	if Failure != FailFast || MissingContent != MissingContentSkip || LogLevel != "debug" {
		t.Fatalf("got %q %q %q", Failure, MissingContent, LogLevel)
	}
	if FetchRatePerMinute != DefaultConfig.FetchRatePerMinute {
		t.Fatalf("FetchRatePerMinute = %d, want default", FetchRatePerMinute)
	}
}

func TestLoadConfigFrom_RejectsInvalid(t *testing.T) {
	viper.Reset()
	defer viper.Reset()

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("failure_policy: sometimes\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := LoadConfigFrom(dir); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative workers", func(c *Config) { c.Workers = -1 }, true},
		{"placeholder", func(c *Config) { c.MissingContent = "placeholder" }, false},
		{"unknown missing content", func(c *Config) { c.MissingContent = "null" }, true},
		{"zero timeout", func(c *Config) { c.FetchTimeoutSeconds = 0 }, true},
		{"zero rate", func(c *Config) { c.FetchRatePerMinute = 0 }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig
			tt.mutate(&cfg)
			if err := cfg.Validate(); (err != nil) != tt.wantErr {
				t.Fatalf("Validate() err = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
