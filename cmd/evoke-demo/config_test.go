package main

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfig_MissingFileWritesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if cfg != defaultConfig() {
		t.Errorf("cfg = %+v, want defaults %+v", cfg, defaultConfig())
	}

	if _, err := os.Stat(path); err != nil {
		t.Errorf("default config was not written: %v", err)
	}

	// The materialized file round-trips.
	again, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() on written file failed: %v", err)
	}
	if again != cfg {
		t.Errorf("round-trip cfg = %+v, want %+v", again, cfg)
	}
}

func TestLoadConfig_PartialOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	data := `{"workers": 2, "gradient": {"from": "#000000"}}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if cfg.Workers != 2 {
		t.Errorf("Workers = %d, want 2", cfg.Workers)
	}
	if cfg.GradientFrom != "#000000" {
		t.Errorf("GradientFrom = %q, want #000000", cfg.GradientFrom)
	}
	if cfg.GradientTo != defaultConfig().GradientTo {
		t.Errorf("GradientTo = %q, want default %q", cfg.GradientTo, defaultConfig().GradientTo)
	}
	if cfg.TickMillis != defaultConfig().TickMillis {
		t.Errorf("TickMillis = %d, want default %d", cfg.TickMillis, defaultConfig().TickMillis)
	}
}

func TestLoadConfig_IgnoresInvalidValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "demo.json")
	data := `{"workers": 0, "tick_millis": -5}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := loadConfig(path)
	if err != nil {
		t.Fatalf("loadConfig() failed: %v", err)
	}
	if cfg.Workers != defaultConfig().Workers {
		t.Errorf("Workers = %d, want default %d", cfg.Workers, defaultConfig().Workers)
	}
	if cfg.TickMillis != defaultConfig().TickMillis {
		t.Errorf("TickMillis = %d, want default %d", cfg.TickMillis, defaultConfig().TickMillis)
	}
}
